package transcoder

import (
	"strconv"
	"unicode/utf8"

	"github.com/paulmach/orb"
	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/errors"
	"github.com/wippyai/osrm-go/internal/abi"
	"github.com/wippyai/osrm-go/internal/layout"
	"github.com/wippyai/osrm-go/internal/wire"
)

// Decoder copies engine-owned result trees into Go values.
//
// Decoding only reads: the same result can be decoded any number of times
// and yields equal values each time. Nothing returned aliases engine memory.
//
// Null text decodes to "", null collections to nil slices and null nested
// structs to nil pointers. A collection is read only when its pointer is
// non-null, and its count is validated before any element is touched.
type Decoder struct {
	view *View
	s    *wire.Schema
}

func NewDecoder(view *View) *Decoder {
	return &Decoder{view: view, s: view.schema}
}

// Envelope reads the code and message every result struct starts with.
func (d *Decoder) Envelope(info layout.Info, result uint64) (code, message string, err error) {
	if result == 0 {
		return "", "", nil
	}
	r := d.record(result, info, nil)
	code = r.str("code")
	message = r.str("message")
	return code, message, r.err
}

func (d *Decoder) Nearest(result uint64) (*osrm.NearestResult, error) {
	if result == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "CNearestResult")
	}
	r := d.record(result, d.s.NearestResult, nil)
	out := &osrm.NearestResult{Code: r.str("code")}
	if r.err != nil {
		return nil, r.err
	}
	wps, err := decodeArray(d, r.ptr("waypoints"), r.i32("number_of_waypoints"), d.s.NearestWaypoint, r.path("waypoints"), d.nearestWaypoint)
	if err != nil {
		return nil, err
	}
	out.Waypoints = wps
	if r.err != nil {
		return nil, r.err
	}
	return out, nil
}

func (d *Decoder) Route(result uint64) (*osrm.RouteResult, error) {
	if result == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "CRouteResult")
	}
	r := d.record(result, d.s.RouteResult, nil)
	out := &osrm.RouteResult{Code: r.str("code")}
	if r.err != nil {
		return nil, r.err
	}
	var err error
	if out.Waypoints, err = decodeArray(d, r.ptr("waypoints"), r.i32("number_of_waypoints"), d.s.Waypoint, r.path("waypoints"), d.waypoint); err != nil {
		return nil, err
	}
	if out.Routes, err = decodeArray(d, r.ptr("routes"), r.i32("number_of_routes"), d.s.Route, r.path("routes"), d.route); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return out, nil
}

// Table decodes the duration and distance matrices. Both are row-major with
// one row per source and number_of_destinations columns.
func (d *Decoder) Table(result uint64) (*osrm.TableResult, error) {
	if result == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "CTableResult")
	}
	r := d.record(result, d.s.TableResult, nil)
	out := &osrm.TableResult{Code: r.str("code")}
	rows := r.i32("number_of_sources")
	cols := r.i32("number_of_destinations")
	if r.err != nil {
		return nil, r.err
	}
	var err error
	if out.Durations, err = d.matrix(r.ptr("durations"), rows, cols, r.path("durations")); err != nil {
		return nil, err
	}
	if out.Distances, err = d.matrix(r.ptr("distances"), rows, cols, r.path("distances")); err != nil {
		return nil, err
	}
	if out.Sources, err = decodeArray(d, r.ptr("sources"), rows, d.s.Waypoint, r.path("sources"), d.waypoint); err != nil {
		return nil, err
	}
	if out.Destinations, err = decodeArray(d, r.ptr("destinations"), cols, d.s.Waypoint, r.path("destinations"), d.waypoint); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return out, nil
}

func (d *Decoder) Match(result uint64) (*osrm.MatchResult, error) {
	if result == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "CMatchResult")
	}
	r := d.record(result, d.s.MatchResult, nil)
	out := &osrm.MatchResult{Code: r.str("code")}
	if r.err != nil {
		return nil, r.err
	}
	var err error
	if out.Tracepoints, err = decodeArray(d, r.ptr("waypoints"), r.i32("number_of_waypoints"), d.s.MatchWaypoint, r.path("waypoints"), d.matchWaypoint); err != nil {
		return nil, err
	}
	if out.Matchings, err = decodeArray(d, r.ptr("routes"), r.i32("number_of_routes"), d.s.MatchRoute, r.path("routes"), d.matchRoute); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return out, nil
}

func (d *Decoder) Trip(result uint64) (*osrm.TripResult, error) {
	if result == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "CTripResult")
	}
	r := d.record(result, d.s.TripResult, nil)
	out := &osrm.TripResult{Code: r.str("code")}
	if r.err != nil {
		return nil, r.err
	}
	var err error
	if out.Waypoints, err = decodeArray(d, r.ptr("waypoints"), r.i32("number_of_waypoints"), d.s.TripWaypoint, r.path("waypoints"), d.tripWaypoint); err != nil {
		return nil, err
	}
	if out.Trips, err = decodeArray(d, r.ptr("trips"), r.i32("number_of_trips"), d.s.Route, r.path("trips"), d.route); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return out, nil
}

// Tile copies the raw vector tile bytes. The buffer is binary and may
// contain NUL bytes; its length comes from string_length.
func (d *Decoder) Tile(result uint64) (*osrm.TileResult, error) {
	if result == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "CTileResult")
	}
	r := d.record(result, d.s.TileResult, nil)
	data := r.ptr("result")
	n := r.i32("string_length")
	if r.err != nil {
		return nil, r.err
	}
	if data == 0 {
		return &osrm.TileResult{}, nil
	}
	if n < 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"string_length"}, "negative length "+strconv.Itoa(int(n)))
	}
	buf, err := d.view.ReadBlock(data, n, 1)
	if err != nil {
		return nil, withPath(err, []string{"result"})
	}
	return &osrm.TileResult{Data: buf}, nil
}

// Nested shapes

func (d *Decoder) waypointFields(r *recordReader) osrm.Waypoint {
	loc := r.f64pair("location")
	return osrm.Waypoint{
		Hint:     r.str("hint"),
		Name:     r.str("name"),
		Location: orb.Point{loc[0], loc[1]},
		Distance: r.f64("distance"),
	}
}

func (d *Decoder) waypoint(addr uint64, path []string) (osrm.Waypoint, error) {
	r := d.record(addr, d.s.Waypoint, path)
	wp := d.waypointFields(r)
	return wp, r.err
}

func (d *Decoder) nearestWaypoint(addr uint64, path []string) (osrm.NearestWaypoint, error) {
	r := d.record(addr, d.s.NearestWaypoint, path)
	wp := osrm.NearestWaypoint{Waypoint: d.waypointFields(r)}
	nodes := addr + uint64(d.s.NearestWaypoint.Off("nodes"))
	for i := range wp.Nodes {
		if r.err != nil {
			break
		}
		v, err := d.view.ReadI64(nodes + uint64(i)*wire.SizeInt64)
		if err != nil {
			r.fail("nodes", err)
		}
		wp.Nodes[i] = v
	}
	return wp, r.err
}

func (d *Decoder) matchWaypoint(addr uint64, path []string) (osrm.MatchWaypoint, error) {
	r := d.record(addr, d.s.MatchWaypoint, path)
	wp := osrm.MatchWaypoint{
		Waypoint:          d.waypointFields(r),
		MatchingsIndex:    r.i32("matchings_index"),
		WaypointIndex:     r.i32("waypoint_index"),
		AlternativesCount: r.i32("alternatives_count"),
	}
	return wp, r.err
}

func (d *Decoder) tripWaypoint(addr uint64, path []string) (osrm.TripWaypoint, error) {
	r := d.record(addr, d.s.TripWaypoint, path)
	wp := osrm.TripWaypoint{
		Waypoint:      d.waypointFields(r),
		TripsIndex:    r.i32("trips_index"),
		WaypointIndex: r.i32("waypoint_index"),
	}
	return wp, r.err
}

func (d *Decoder) routeFields(r *recordReader) (osrm.Route, error) {
	rt := osrm.Route{
		Duration:   r.f64("duration"),
		Distance:   r.f64("distance"),
		WeightName: r.str("weight_name"),
		Weight:     r.f64("weight"),
		Geometry:   r.str("geometry"),
	}
	if r.err != nil {
		return rt, r.err
	}
	legs, err := decodeArray(d, r.ptr("legs"), r.i32("number_of_legs"), d.s.RouteLeg, r.path("legs"), d.leg)
	if err != nil {
		return rt, err
	}
	rt.Legs = legs
	return rt, r.err
}

func (d *Decoder) route(addr uint64, path []string) (osrm.Route, error) {
	return d.routeFields(d.record(addr, d.s.Route, path))
}

func (d *Decoder) matchRoute(addr uint64, path []string) (osrm.MatchRoute, error) {
	r := d.record(addr, d.s.MatchRoute, path)
	rt, err := d.routeFields(r)
	if err != nil {
		return osrm.MatchRoute{}, err
	}
	mr := osrm.MatchRoute{Route: rt, Confidence: r.f32("confidence")}
	return mr, r.err
}

func (d *Decoder) leg(addr uint64, path []string) (osrm.RouteLeg, error) {
	r := d.record(addr, d.s.RouteLeg, path)
	leg := osrm.RouteLeg{
		Duration: r.f64("duration"),
		Summary:  r.str("summary"),
		Weight:   r.f64("weight"),
		Distance: r.f64("distance"),
	}
	if r.err != nil {
		return leg, r.err
	}
	var err error
	if leg.Annotation, err = decodeOptional(d, r.ptr("annotation"), r.path("annotation"), d.annotation); err != nil {
		return leg, err
	}
	if leg.Steps, err = decodeArray(d, r.ptr("steps"), r.i32("number_of_steps"), d.s.Step, r.path("steps"), d.step); err != nil {
		return leg, err
	}
	return leg, r.err
}

func (d *Decoder) step(addr uint64, path []string) (osrm.Step, error) {
	r := d.record(addr, d.s.Step, path)
	st := osrm.Step{
		Distance:            r.f64("distance"),
		Duration:            r.f64("duration"),
		Geometry:            r.str("geometry"),
		Weight:              r.f64("weight"),
		Name:                r.str("name"),
		Reference:           r.str("reference"),
		Pronunciation:       r.str("pronunciation"),
		Exits:               r.str("exits"),
		Mode:                r.str("mode"),
		RotaryName:          r.str("rotary_name"),
		RotaryPronunciation: r.str("rotary_pronunciation"),
		DrivingSide:         r.str("driving_side"),
	}
	if r.err != nil {
		return st, r.err
	}
	var err error
	if st.Maneuver, err = decodeOptional(d, r.ptr("metadata"), r.path("maneuver"), d.maneuver); err != nil {
		return st, err
	}
	if st.Intersections, err = decodeArray(d, r.ptr("intersections"), r.i32("number_of_intersections"), d.s.Intersection, r.path("intersections"), d.intersection); err != nil {
		return st, err
	}
	return st, r.err
}

func (d *Decoder) maneuver(addr uint64, path []string) (osrm.Maneuver, error) {
	r := d.record(addr, d.s.Maneuver, path)
	m := osrm.Maneuver{
		BearingBefore: r.i32("bearing_before"),
		BearingAfter:  r.i32("bearing_after"),
		Location:      r.coordinate("coordinate"),
		Type:          r.str("maneuver_type"),
		Modifier:      r.str("modifer"),
	}
	return m, r.err
}

func (d *Decoder) intersection(addr uint64, path []string) (osrm.Intersection, error) {
	r := d.record(addr, d.s.Intersection, path)
	in := osrm.Intersection{
		Location: r.coordinate("location"),
		In:       r.i32("intersection_in"),
		Out:      r.i32("intersection_out"),
	}
	if r.err != nil {
		return in, r.err
	}
	var err error
	if in.Bearings, err = d.int32s(r.ptr("bearings"), r.i32("number_of_bearings"), r.path("bearings")); err != nil {
		return in, err
	}
	if in.Classes, err = d.strings(r.ptr("classes"), r.i32("number_of_classes"), r.path("classes")); err != nil {
		return in, err
	}
	if in.Entry, err = d.bools(r.ptr("entry"), r.i32("number_of_entries"), r.path("entry")); err != nil {
		return in, err
	}
	if in.Lanes, err = decodeArray(d, r.ptr("lanes"), r.i32("number_of_lanes"), d.s.Lanes, r.path("lanes"), d.lane); err != nil {
		return in, err
	}
	return in, r.err
}

func (d *Decoder) lane(addr uint64, path []string) (osrm.Lane, error) {
	r := d.record(addr, d.s.Lanes, path)
	l := osrm.Lane{Valid: r.boolean("valid")}
	if r.err != nil {
		return l, r.err
	}
	ind, err := d.strings(r.ptr("indications"), r.i32("number_of_indications"), r.path("indications"))
	if err != nil {
		return l, err
	}
	l.Indications = ind
	return l, r.err
}

// annotation decodes the per-segment arrays of a leg. Each array holds
// number_of_coordinates+1 entries.
func (d *Decoder) annotation(addr uint64, path []string) (osrm.Annotation, error) {
	r := d.record(addr, d.s.Annotation, path)
	n := r.i32("number_of_coordinates")
	if r.err != nil {
		return osrm.Annotation{}, r.err
	}
	if n < 0 || n == maxInt32 {
		return osrm.Annotation{}, errors.InvalidData(errors.PhaseDecode, r.path("number_of_coordinates"),
			"invalid coordinate count "+strconv.Itoa(int(n)))
	}
	count := n + 1

	var a osrm.Annotation
	var err error
	if a.Duration, err = d.float64s(r.ptr("duration"), count, r.path("duration")); err != nil {
		return a, err
	}
	if a.Distance, err = d.float64s(r.ptr("distance"), count, r.path("distance")); err != nil {
		return a, err
	}
	if a.Speed, err = d.float64s(r.ptr("speed"), count, r.path("speed")); err != nil {
		return a, err
	}
	if a.Weight, err = d.float64s(r.ptr("weight"), count, r.path("weight")); err != nil {
		return a, err
	}
	if a.Nodes, err = d.int64s(r.ptr("nodes"), count, r.path("nodes")); err != nil {
		return a, err
	}
	if a.Datasources, err = d.int32s(r.ptr("datasources"), count, r.path("datasources")); err != nil {
		return a, err
	}
	if a.Metadata, err = decodeOptional(d, r.ptr("metadata"), r.path("metadata"), d.metadata); err != nil {
		return a, err
	}
	return a, r.err
}

func (d *Decoder) metadata(addr uint64, path []string) (osrm.AnnotationMetadata, error) {
	r := d.record(addr, d.s.MetaData, path)
	ptr := r.ptr("datasource_names")
	n := r.i32("number_of_datasource_names")
	if r.err != nil {
		return osrm.AnnotationMetadata{}, r.err
	}
	names, err := d.strings(ptr, n, r.path("datasource_names"))
	return osrm.AnnotationMetadata{DatasourceNames: names}, err
}

// Collections

const maxInt32 = 1<<31 - 1

// checkSpan validates a (pointer, count) pair before any element is read.
func (d *Decoder) checkSpan(ptr uint64, count int32, elemSize uint32, path []string) error {
	if count < 0 {
		return errors.InvalidData(errors.PhaseDecode, path, "negative count "+strconv.Itoa(int(count)))
	}
	if count > abi.MaxListLength {
		return errors.Overflow(errors.PhaseDecode, path, count, "list length")
	}
	total, ok := abi.SafeMulU32(uint32(count), elemSize)
	if !ok {
		return errors.Overflow(errors.PhaseDecode, path, count, "array byte size")
	}
	if _, ok := abi.SafeAddr(ptr, uint64(total)); !ok {
		return errors.OutOfBounds(errors.PhaseDecode, path, int(count), 0)
	}
	return nil
}

// decodeArray decodes count consecutive elements of layout elem starting at
// ptr. A null ptr yields nil without looking at count.
func decodeArray[T any](d *Decoder, ptr uint64, count int32, elem layout.Info, path []string, fn func(addr uint64, path []string) (T, error)) ([]T, error) {
	if ptr == 0 {
		return nil, nil
	}
	if err := d.checkSpan(ptr, count, elem.Size, path); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	out := make([]T, count)
	for i := range out {
		v, err := fn(ptr+uint64(i)*uint64(elem.Size), append(path[:len(path):len(path)], "["+strconv.Itoa(i)+"]"))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// decodeOptional decodes a single struct behind a nullable pointer.
func decodeOptional[T any](d *Decoder, ptr uint64, path []string, fn func(addr uint64, path []string) (T, error)) (*T, error) {
	if ptr == 0 {
		return nil, nil
	}
	v, err := fn(ptr, path)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeScalars reads a scalar array with a single memory read.
func decodeScalars[T any](d *Decoder, ptr uint64, count int32, size uint32, path []string, conv func([]byte) T) ([]T, error) {
	if ptr == 0 {
		return nil, nil
	}
	if err := d.checkSpan(ptr, count, size, path); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	buf, err := d.view.ReadBlock(ptr, count, size)
	if err != nil {
		return nil, withPath(err, path)
	}
	out := make([]T, count)
	for i := range out {
		out[i] = conv(buf[uint32(i)*size:])
	}
	return out, nil
}

func (d *Decoder) float64s(ptr uint64, count int32, path []string) ([]float64, error) {
	return decodeScalars(d, ptr, count, wire.SizeDouble, path, func(b []byte) float64 {
		return abi.DecodeF64(le.Uint64(b))
	})
}

func (d *Decoder) int64s(ptr uint64, count int32, path []string) ([]int64, error) {
	return decodeScalars(d, ptr, count, wire.SizeInt64, path, func(b []byte) int64 {
		return int64(le.Uint64(b))
	})
}

func (d *Decoder) int32s(ptr uint64, count int32, path []string) ([]int32, error) {
	return decodeScalars(d, ptr, count, wire.SizeInt, path, func(b []byte) int32 {
		return int32(le.Uint32(b))
	})
}

func (d *Decoder) bools(ptr uint64, count int32, path []string) ([]bool, error) {
	words, err := decodeScalars(d, ptr, count, wire.SizeBoolean, path, func(b []byte) uint32 {
		return le.Uint32(b)
	})
	if err != nil || words == nil {
		return nil, err
	}
	out := make([]bool, len(words))
	for i, w := range words {
		v, ok := abi.DecodeBool(w)
		if !ok {
			return nil, errors.InvalidEnum(errors.PhaseDecode, append(path[:len(path):len(path)], "["+strconv.Itoa(i)+"]"), w, abi.BooleanDomain.Name)
		}
		out[i] = v
	}
	return out, nil
}

// strings decodes an array of C string pointers. Null elements become "".
func (d *Decoder) strings(ptr uint64, count int32, path []string) ([]string, error) {
	elem := layout.Info{Size: d.s.PtrSize, Align: d.s.PtrSize}
	return decodeArray(d, ptr, count, elem, path, func(addr uint64, path []string) (string, error) {
		p, err := d.view.ReadPtr(addr)
		if err != nil {
			return "", withPath(err, path)
		}
		return d.text(p, path)
	})
}

func (d *Decoder) text(ptr uint64, path []string) (string, error) {
	if ptr == 0 {
		return "", nil
	}
	b, err := d.view.ReadCString(ptr)
	if err != nil {
		return "", withPath(err, path)
	}
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, path, b)
	}
	return string(b), nil
}

func (d *Decoder) matrix(ptr uint64, rows, cols int32, path []string) ([][]float64, error) {
	if ptr == 0 {
		return nil, nil
	}
	if rows < 0 || cols < 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, path, "negative matrix dimension")
	}
	cells := int64(rows) * int64(cols)
	if cells > abi.MaxListLength {
		return nil, errors.Overflow(errors.PhaseDecode, path, cells, "matrix size")
	}
	flat, err := d.float64s(ptr, int32(cells), path)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, rows)
	for i := range out {
		out[i] = flat[int(i)*int(cols) : (int(i)+1)*int(cols) : (int(i)+1)*int(cols)]
	}
	return out, nil
}

// recordReader reads named fields of one struct, keeping the first error.
type recordReader struct {
	d     *Decoder
	info  layout.Info
	base  uint64
	where []string
	err   error
}

func (d *Decoder) record(base uint64, info layout.Info, path []string) *recordReader {
	return &recordReader{d: d, info: info, base: base, where: path}
}

func (r *recordReader) addr(name string) uint64 {
	return r.base + uint64(r.info.Off(name))
}

func (r *recordReader) path(name string) []string {
	return append(r.where[:len(r.where):len(r.where)], name)
}

func (r *recordReader) fail(name string, err error) {
	if r.err == nil {
		r.err = withPath(err, r.path(name))
	}
}

func (r *recordReader) ptr(name string) uint64 {
	if r.err != nil {
		return 0
	}
	p, err := r.d.view.ReadPtr(r.addr(name))
	if err != nil {
		r.fail(name, err)
	}
	return p
}

func (r *recordReader) str(name string) string {
	p := r.ptr(name)
	if r.err != nil || p == 0 {
		return ""
	}
	s, err := r.d.text(p, r.path(name))
	if err != nil {
		r.err = err
	}
	return s
}

func (r *recordReader) i32(name string) int32 {
	if r.err != nil {
		return 0
	}
	v, err := r.d.view.ReadI32(r.addr(name))
	if err != nil {
		r.fail(name, err)
	}
	return v
}

func (r *recordReader) f32(name string) float32 {
	if r.err != nil {
		return 0
	}
	v, err := r.d.view.ReadF32(r.addr(name))
	if err != nil {
		r.fail(name, err)
	}
	return v
}

func (r *recordReader) f64(name string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := r.d.view.ReadF64(r.addr(name))
	if err != nil {
		r.fail(name, err)
	}
	return v
}

func (r *recordReader) f64pair(name string) [2]float64 {
	var out [2]float64
	if r.err != nil {
		return out
	}
	base := r.addr(name)
	for i := range out {
		v, err := r.d.view.ReadF64(base + uint64(i)*wire.SizeDouble)
		if err != nil {
			r.fail(name, err)
			return out
		}
		out[i] = v
	}
	return out
}

func (r *recordReader) coordinate(name string) osrm.Coordinate {
	if r.err != nil {
		return osrm.Coordinate{}
	}
	base := r.addr(name)
	c := r.d.s.Coordinate
	lat, err := r.d.view.ReadF64(base + uint64(c.Off("latitude")))
	if err != nil {
		r.fail(name, err)
		return osrm.Coordinate{}
	}
	lon, err := r.d.view.ReadF64(base + uint64(c.Off("longitude")))
	if err != nil {
		r.fail(name, err)
		return osrm.Coordinate{}
	}
	return osrm.Coordinate{Latitude: lat, Longitude: lon}
}

func (r *recordReader) boolean(name string) bool {
	if r.err != nil {
		return false
	}
	w, err := r.d.view.mem.ReadU32(r.addr(name))
	if err != nil {
		r.fail(name, err)
		return false
	}
	v, ok := abi.DecodeBool(w)
	if !ok {
		r.err = errors.InvalidEnum(errors.PhaseDecode, r.path(name), w, abi.BooleanDomain.Name)
	}
	return v
}

// withPath attaches path to structured errors that lack one and wraps any
// other memory error as a decode violation.
func withPath(err error, path []string) error {
	if e, ok := err.(*errors.Error); ok {
		if len(e.Path) == 0 {
			cp := *e
			cp.Path = path
			if cp.Phase != errors.PhaseDecode {
				cp.Phase = errors.PhaseDecode
			}
			return &cp
		}
		return e
	}
	w := errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read native memory")
	w.Path = path
	return w
}
