package enginetest

import (
	"math"
	"sync"

	"github.com/paulmach/orb"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/internal/abi"
	"github.com/wippyai/osrm-go/internal/layout"
	"github.com/wippyai/osrm-go/internal/wire"
	"github.com/wippyai/osrm-go/transcoder"
)

// Writer lays out result trees in a Heap the way the native engine does,
// so the decoder can be exercised without the engine. Every tree is
// remembered by its root address and freed as a whole by Release.
//
// Empty strings are written as null pointers and empty slices as a null
// pointer with a zero count.
type Writer struct {
	heap    *Heap
	view    *transcoder.View
	s       *wire.Schema
	trees   map[uint64][]uint64
	pending []uint64
	err     error
	mu      sync.Mutex
}

func NewWriter(h *Heap) *Writer {
	view, err := transcoder.NewView(h, 8)
	if err != nil {
		panic(err)
	}
	return &Writer{heap: h, view: view, s: view.Schema(), trees: map[uint64][]uint64{}}
}

func (w *Writer) View() *transcoder.View { return w.view }

// Release frees every block of the tree rooted at root. Releasing an
// unknown or already released root is recorded as a heap violation.
func (w *Writer) Release(root uint64) {
	w.mu.Lock()
	blocks, ok := w.trees[root]
	delete(w.trees, root)
	w.mu.Unlock()
	if !ok {
		w.heap.Free(root, 0, 0)
		return
	}
	for _, p := range blocks {
		w.heap.Free(p, 0, 0)
	}
}

// Trees returns the number of written trees not yet released.
func (w *Writer) Trees() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.trees)
}

func (w *Writer) finish(build func() uint64) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = nil
	w.pending = nil
	root := build()
	if w.err != nil {
		for _, p := range w.pending {
			w.heap.Free(p, 0, 0)
		}
		w.pending = nil
		return 0, w.err
	}
	w.trees[root] = w.pending
	w.pending = nil
	return root, nil
}

func (w *Writer) Nearest(res *osrm.NearestResult) (uint64, error) {
	return w.finish(func() uint64 {
		r := w.record(w.s.NearestResult)
		r.str("code", res.Code)
		p, n := writeArray(w, res.Waypoints, w.s.NearestWaypoint, w.nearestWaypoint)
		r.ptr("waypoints", p)
		r.i32("number_of_waypoints", n)
		return r.base
	})
}

func (w *Writer) Route(res *osrm.RouteResult) (uint64, error) {
	return w.finish(func() uint64 {
		r := w.record(w.s.RouteResult)
		r.str("code", res.Code)
		p, n := writeArray(w, res.Waypoints, w.s.Waypoint, w.waypoint)
		r.ptr("waypoints", p)
		r.i32("number_of_waypoints", n)
		p, n = writeArray(w, res.Routes, w.s.Route, w.route)
		r.ptr("routes", p)
		r.i32("number_of_routes", n)
		return r.base
	})
}

func (w *Writer) Table(res *osrm.TableResult) (uint64, error) {
	return w.finish(func() uint64 {
		rows := max(len(res.Sources), len(res.Durations), len(res.Distances))
		cols := len(res.Destinations)
		for _, m := range [][][]float64{res.Durations, res.Distances} {
			if len(m) > 0 {
				cols = max(cols, len(m[0]))
			}
		}

		r := w.record(w.s.TableResult)
		r.str("code", res.Code)
		r.ptr("durations", w.matrix(res.Durations))
		r.ptr("distances", w.matrix(res.Distances))
		p, _ := writeArray(w, res.Sources, w.s.Waypoint, w.waypoint)
		r.ptr("sources", p)
		p, _ = writeArray(w, res.Destinations, w.s.Waypoint, w.waypoint)
		r.ptr("destinations", p)
		r.i32("number_of_sources", int32(rows))
		r.i32("number_of_destinations", int32(cols))
		return r.base
	})
}

func (w *Writer) Match(res *osrm.MatchResult) (uint64, error) {
	return w.finish(func() uint64 {
		r := w.record(w.s.MatchResult)
		r.str("code", res.Code)
		p, n := writeArray(w, res.Tracepoints, w.s.MatchWaypoint, w.matchWaypoint)
		r.ptr("waypoints", p)
		r.i32("number_of_waypoints", n)
		p, n = writeArray(w, res.Matchings, w.s.MatchRoute, w.matchRoute)
		r.ptr("routes", p)
		r.i32("number_of_routes", n)
		return r.base
	})
}

func (w *Writer) Trip(res *osrm.TripResult) (uint64, error) {
	return w.finish(func() uint64 {
		r := w.record(w.s.TripResult)
		r.str("code", res.Code)
		p, n := writeArray(w, res.Waypoints, w.s.TripWaypoint, w.tripWaypoint)
		r.ptr("waypoints", p)
		r.i32("number_of_waypoints", n)
		p, n = writeArray(w, res.Trips, w.s.Route, w.route)
		r.ptr("trips", p)
		r.i32("number_of_trips", n)
		return r.base
	})
}

func (w *Writer) Tile(res *osrm.TileResult) (uint64, error) {
	return w.finish(func() uint64 {
		r := w.record(w.s.TileResult)
		if len(res.Data) > 0 {
			p := w.alloc(uint32(len(res.Data)), 1)
			w.write(p, res.Data)
			r.ptr("result", p)
		}
		r.i32("string_length", int32(len(res.Data)))
		return r.base
	})
}

// Failure writes the result envelope the engine returns with an Error
// status: code and message set, payload empty.
func (w *Writer) Failure(info layout.Info, code, message string) (uint64, error) {
	return w.finish(func() uint64 {
		r := w.record(info)
		r.str("code", code)
		r.str("message", message)
		return r.base
	})
}

// CString writes one standalone NUL-terminated string, released like a tree.
func (w *Writer) CString(s string) (uint64, error) {
	return w.finish(func() uint64 {
		p := w.alloc(uint32(len(s))+1, 1)
		w.write(p, []byte(s))
		return p
	})
}

// Schema returns the 64-bit layouts the writer uses.
func (w *Writer) Schema() *wire.Schema { return w.s }

// Nested shapes

func (w *Writer) waypointFields(r rec, wp *osrm.Waypoint) {
	r.str("hint", wp.Hint)
	r.str("name", wp.Name)
	r.f64("distance", wp.Distance)
	r.point("location", wp.Location)
}

func (w *Writer) waypoint(r rec, wp *osrm.Waypoint) {
	w.waypointFields(r, wp)
}

func (w *Writer) nearestWaypoint(r rec, wp *osrm.NearestWaypoint) {
	w.waypointFields(r, &wp.Waypoint)
	r.u64at(r.at("nodes"), uint64(wp.Nodes[0]))
	r.u64at(r.at("nodes")+8, uint64(wp.Nodes[1]))
}

func (w *Writer) matchWaypoint(r rec, wp *osrm.MatchWaypoint) {
	w.waypointFields(r, &wp.Waypoint)
	r.i32("matchings_index", wp.MatchingsIndex)
	r.i32("waypoint_index", wp.WaypointIndex)
	r.i32("alternatives_count", wp.AlternativesCount)
}

func (w *Writer) tripWaypoint(r rec, wp *osrm.TripWaypoint) {
	w.waypointFields(r, &wp.Waypoint)
	r.i32("trips_index", wp.TripsIndex)
	r.i32("waypoint_index", wp.WaypointIndex)
}

func (w *Writer) route(r rec, rt *osrm.Route) {
	r.f64("duration", rt.Duration)
	r.f64("distance", rt.Distance)
	r.str("weight_name", rt.WeightName)
	r.f64("weight", rt.Weight)
	r.str("geometry", rt.Geometry)
	p, n := writeArray(w, rt.Legs, w.s.RouteLeg, w.leg)
	r.ptr("legs", p)
	r.i32("number_of_legs", n)
}

func (w *Writer) matchRoute(r rec, rt *osrm.MatchRoute) {
	w.route(r, &rt.Route)
	r.f32("confidence", rt.Confidence)
}

func (w *Writer) leg(r rec, leg *osrm.RouteLeg) {
	r.f64("duration", leg.Duration)
	r.str("summary", leg.Summary)
	r.f64("weight", leg.Weight)
	r.f64("distance", leg.Distance)
	if leg.Annotation != nil {
		a := w.record(w.s.Annotation)
		w.annotation(a, leg.Annotation)
		r.ptr("annotation", a.base)
	}
	p, n := writeArray(w, leg.Steps, w.s.Step, w.step)
	r.ptr("steps", p)
	r.i32("number_of_steps", n)
}

func (w *Writer) step(r rec, st *osrm.Step) {
	r.f64("distance", st.Distance)
	r.f64("duration", st.Duration)
	r.str("geometry", st.Geometry)
	r.f64("weight", st.Weight)
	r.str("name", st.Name)
	r.str("reference", st.Reference)
	r.str("pronunciation", st.Pronunciation)
	r.str("exits", st.Exits)
	r.str("mode", st.Mode)
	r.str("rotary_name", st.RotaryName)
	r.str("rotary_pronunciation", st.RotaryPronunciation)
	r.str("driving_side", st.DrivingSide)
	if st.Maneuver != nil {
		m := w.record(w.s.Maneuver)
		m.i32("bearing_before", st.Maneuver.BearingBefore)
		m.i32("bearing_after", st.Maneuver.BearingAfter)
		m.coordinate("coordinate", st.Maneuver.Location)
		m.str("maneuver_type", st.Maneuver.Type)
		m.str("modifer", st.Maneuver.Modifier)
		r.ptr("metadata", m.base)
	}
	p, n := writeArray(w, st.Intersections, w.s.Intersection, w.intersection)
	r.ptr("intersections", p)
	r.i32("number_of_intersections", n)
}

func (w *Writer) intersection(r rec, in *osrm.Intersection) {
	r.coordinate("location", in.Location)
	r.ptr("bearings", w.int32s(in.Bearings))
	r.i32("number_of_bearings", int32(len(in.Bearings)))
	r.ptr("classes", w.strings(in.Classes))
	r.i32("number_of_classes", int32(len(in.Classes)))
	r.ptr("entry", w.bools(in.Entry))
	r.i32("number_of_entries", int32(len(in.Entry)))
	r.i32("intersection_in", in.In)
	r.i32("intersection_out", in.Out)
	p, n := writeArray(w, in.Lanes, w.s.Lanes, w.lane)
	r.ptr("lanes", p)
	r.i32("number_of_lanes", n)
}

func (w *Writer) lane(r rec, l *osrm.Lane) {
	r.ptr("indications", w.strings(l.Indications))
	r.i32("number_of_indications", int32(len(l.Indications)))
	r.bool("valid", l.Valid)
}

// annotation writes per-segment arrays. The engine reports
// number_of_coordinates one below the array length.
func (w *Writer) annotation(r rec, a *osrm.Annotation) {
	n := max(len(a.Duration), len(a.Distance), len(a.Speed), len(a.Weight), len(a.Nodes), len(a.Datasources))
	r.ptr("duration", w.float64s(a.Duration))
	r.ptr("distance", w.float64s(a.Distance))
	r.ptr("speed", w.float64s(a.Speed))
	r.ptr("weight", w.float64s(a.Weight))
	r.ptr("nodes", w.int64s(a.Nodes))
	r.ptr("datasources", w.int32s(a.Datasources))
	if a.Metadata != nil {
		m := w.record(w.s.MetaData)
		m.ptr("datasource_names", w.strings(a.Metadata.DatasourceNames))
		m.i32("number_of_datasource_names", int32(len(a.Metadata.DatasourceNames)))
		r.ptr("metadata", m.base)
	}
	r.i32("number_of_coordinates", int32(max(n-1, 0)))
}

// Primitives

func (w *Writer) alloc(size, align uint32) uint64 {
	if w.err != nil {
		return 0
	}
	p, err := w.heap.Alloc(size, align)
	if err != nil {
		w.err = err
		return 0
	}
	w.pending = append(w.pending, p)
	return p
}

func (w *Writer) write(addr uint64, data []byte) {
	if w.err == nil && len(data) > 0 {
		w.err = w.heap.Write(addr, data)
	}
}

func (w *Writer) cstr(s string) uint64 {
	if s == "" {
		return 0
	}
	p := w.alloc(uint32(len(s))+1, 1)
	w.write(p, []byte(s))
	return p
}

func (w *Writer) strings(values []string) uint64 {
	if len(values) == 0 {
		return 0
	}
	p := w.alloc(uint32(8*len(values)), 8)
	for i, v := range values {
		w.putU64(p+uint64(i)*8, w.cstr(v))
	}
	return p
}

func (w *Writer) float64s(values []float64) uint64 {
	if len(values) == 0 {
		return 0
	}
	p := w.alloc(uint32(8*len(values)), 8)
	for i, v := range values {
		w.putU64(p+uint64(i)*8, abi.EncodeF64(v))
	}
	return p
}

func (w *Writer) int64s(values []int64) uint64 {
	if len(values) == 0 {
		return 0
	}
	p := w.alloc(uint32(8*len(values)), 8)
	for i, v := range values {
		w.putU64(p+uint64(i)*8, uint64(v))
	}
	return p
}

func (w *Writer) int32s(values []int32) uint64 {
	if len(values) == 0 {
		return 0
	}
	p := w.alloc(uint32(4*len(values)), 4)
	for i, v := range values {
		w.putU32(p+uint64(i)*4, uint32(v))
	}
	return p
}

func (w *Writer) bools(values []bool) uint64 {
	if len(values) == 0 {
		return 0
	}
	p := w.alloc(uint32(4*len(values)), 4)
	for i, v := range values {
		w.putU32(p+uint64(i)*4, abi.EncodeBool(v))
	}
	return p
}

func (w *Writer) matrix(m [][]float64) uint64 {
	var flat []float64
	for _, row := range m {
		flat = append(flat, row...)
	}
	return w.float64s(flat)
}

func (w *Writer) putU32(addr uint64, v uint32) {
	if w.err == nil {
		w.err = w.heap.WriteU32(addr, v)
	}
}

func (w *Writer) putU64(addr uint64, v uint64) {
	if w.err == nil {
		w.err = w.heap.WriteU64(addr, v)
	}
}

// writeArray lays out items consecutively and returns the array address
// and count.
func writeArray[T any](w *Writer, items []T, info layout.Info, fn func(rec, *T)) (uint64, int32) {
	if len(items) == 0 {
		return 0, 0
	}
	base := w.alloc(info.Size*uint32(len(items)), info.Align)
	if w.err != nil {
		return 0, 0
	}
	for i := range items {
		fn(rec{w: w, info: info, base: base + uint64(i)*uint64(info.Size)}, &items[i])
	}
	return base, int32(len(items))
}

// rec writes named fields of one struct.
type rec struct {
	w    *Writer
	info layout.Info
	base uint64
}

func (w *Writer) record(info layout.Info) rec {
	return rec{w: w, info: info, base: w.alloc(info.Size, info.Align)}
}

func (r rec) at(name string) uint64 { return r.base + uint64(r.info.Off(name)) }

func (r rec) ptr(name string, p uint64) { r.w.putU64(r.at(name), p) }

func (r rec) str(name, s string) { r.ptr(name, r.w.cstr(s)) }

func (r rec) i32(name string, v int32) { r.w.putU32(r.at(name), uint32(v)) }

func (r rec) f32(name string, v float32) { r.w.putU32(r.at(name), math.Float32bits(v)) }

func (r rec) f64(name string, v float64) { r.w.putU64(r.at(name), abi.EncodeF64(v)) }

func (r rec) bool(name string, v bool) { r.w.putU32(r.at(name), abi.EncodeBool(v)) }

func (r rec) u64at(addr, v uint64) { r.w.putU64(addr, v) }

func (r rec) point(name string, p orb.Point) {
	r.w.putU64(r.at(name), abi.EncodeF64(p[0]))
	r.w.putU64(r.at(name)+8, abi.EncodeF64(p[1]))
}

func (r rec) coordinate(name string, c osrm.Coordinate) {
	r.w.putU64(r.at(name), abi.EncodeF64(c.Latitude))
	r.w.putU64(r.at(name)+8, abi.EncodeF64(c.Longitude))
}
