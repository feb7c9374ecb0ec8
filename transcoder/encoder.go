package transcoder

import (
	"strconv"
	"strings"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/errors"
	"github.com/wippyai/osrm-go/internal/abi"
	"github.com/wippyai/osrm-go/internal/layout"
	"github.com/wippyai/osrm-go/internal/wire"
)

// Encoder assembles requests into the wire layout inside an arena.
//
// Every method validates the whole request before allocating anything, so
// a rejected request leaves the arena untouched. The returned address points
// at the top-level request struct and stays valid until the arena is freed.
type Encoder struct {
	arena *Arena
	view  *View
	s     *wire.Schema
}

func NewEncoder(arena *Arena) *Encoder {
	return &Encoder{arena: arena, view: arena.view, s: arena.view.schema}
}

func (e *Encoder) Nearest(req *osrm.NearestRequest) (uint64, error) {
	if err := ValidateNearest(req); err != nil {
		return 0, err
	}
	info := e.s.NearestRequest
	base, err := e.arena.Alloc(info.Size, info.Align)
	if err != nil {
		return 0, err
	}
	if err := e.generalOptions(base+uint64(info.Off("general_options")), &req.GeneralOptions); err != nil {
		return 0, err
	}
	if err := e.view.WriteI32(base+uint64(info.Off("number_of_results")), req.NumberOfResults); err != nil {
		return 0, err
	}
	return base, nil
}

func (e *Encoder) Route(req *osrm.RouteRequest) (uint64, error) {
	if err := ValidateRoute(req); err != nil {
		return 0, err
	}
	info := e.s.RouteRequest
	base, err := e.arena.Alloc(info.Size, info.Align)
	if err != nil {
		return 0, err
	}
	if err := e.generalOptions(base+uint64(info.Off("general_options")), &req.GeneralOptions); err != nil {
		return 0, err
	}

	w := e.fields(base, info)
	w.bool("steps", req.Steps)
	w.bool("alternatives", req.Alternatives)
	w.u32("number_of_alternatives", req.NumberOfAlternatives)
	w.bool("annotations", req.Annotations)
	w.i32("annotations_type", int32(req.AnnotationsType))
	w.i32("geometries", int32(req.Geometries))
	w.i32("overview", int32(req.Overview))
	w.i32("continue_straight", int32(req.ContinueStraight))
	if w.err != nil {
		return 0, w.err
	}

	if req.Waypoints != nil {
		ptr, err := e.arena.Array(len(req.Waypoints), 8, 8)
		if err != nil {
			return 0, err
		}
		for i, wp := range req.Waypoints {
			if err := e.view.mem.WriteU64(ptr+uint64(i)*8, wp); err != nil {
				return 0, err
			}
		}
		w.ptr("waypoints", ptr)
		w.i32("number_of_waypoints", int32(len(req.Waypoints)))
	}
	return base, w.err
}

func (e *Encoder) Table(req *osrm.TableRequest) (uint64, error) {
	if err := ValidateTable(req); err != nil {
		return 0, err
	}
	info := e.s.TableRequest
	base, err := e.arena.Alloc(info.Size, info.Align)
	if err != nil {
		return 0, err
	}
	if err := e.generalOptions(base+uint64(info.Off("general_options")), &req.GeneralOptions); err != nil {
		return 0, err
	}

	w := e.fields(base, info)
	if req.Sources != nil {
		ptr, err := e.int32s(req.Sources)
		if err != nil {
			return 0, err
		}
		w.ptr("sources", ptr)
		w.i32("number_of_sources", int32(len(req.Sources)))
	}
	if req.Destinations != nil {
		ptr, err := e.int32s(req.Destinations)
		if err != nil {
			return 0, err
		}
		w.ptr("destinations", ptr)
		w.i32("number_of_destinations", int32(len(req.Destinations)))
	}
	w.i32("annotations", int32(req.Annotations))
	w.f64("fallback_speed", req.FallbackSpeed)
	w.i32("fallback_coordinate", int32(req.FallbackCoordinate))
	w.f64("scale_factor", req.ScaleFactor)
	return base, w.err
}

func (e *Encoder) Match(req *osrm.MatchRequest) (uint64, error) {
	if err := ValidateMatch(req); err != nil {
		return 0, err
	}
	info := e.s.MatchRequest
	base, err := e.arena.Alloc(info.Size, info.Align)
	if err != nil {
		return 0, err
	}
	if err := e.generalOptions(base+uint64(info.Off("general_options")), &req.GeneralOptions); err != nil {
		return 0, err
	}

	w := e.fields(base, info)
	w.bool("steps", req.Steps)
	w.i32("geometries", int32(req.Geometries))
	w.bool("annotations", req.Annotations)
	w.i32("annotations_type", int32(req.AnnotationsType))
	w.i32("overview", int32(req.Overview))
	w.i32("gaps", int32(req.Gaps))
	w.bool("tidy", req.Tidy)
	if req.Timestamps != nil {
		ptr, err := e.int32s(req.Timestamps)
		if err != nil {
			return 0, err
		}
		w.ptr("timestamps", ptr)
	}
	if req.Waypoints != nil {
		ptr, err := e.int32s(req.Waypoints)
		if err != nil {
			return 0, err
		}
		w.ptr("waypoints", ptr)
		w.i32("number_of_waypoints", int32(len(req.Waypoints)))
	}
	return base, w.err
}

func (e *Encoder) Trip(req *osrm.TripRequest) (uint64, error) {
	if err := ValidateTrip(req); err != nil {
		return 0, err
	}
	info := e.s.TripRequest
	base, err := e.arena.Alloc(info.Size, info.Align)
	if err != nil {
		return 0, err
	}
	if err := e.generalOptions(base+uint64(info.Off("general_options")), &req.GeneralOptions); err != nil {
		return 0, err
	}

	w := e.fields(base, info)
	w.bool("roundtrip", req.Roundtrip)
	w.i32("source", int32(req.Source))
	w.i32("destination", int32(req.Destination))
	w.bool("steps", req.Steps)
	w.bool("annotations", req.Annotations)
	w.i32("annotations_type", int32(req.AnnotationsType))
	w.i32("geometries", int32(req.Geometries))
	w.i32("overview", int32(req.Overview))
	return base, w.err
}

func (e *Encoder) Tile(req *osrm.TileRequest) (uint64, error) {
	if req == nil {
		return 0, errors.NilPointer(errors.PhaseAssemble, nil, "*osrm.TileRequest")
	}
	info := e.s.TileRequest
	base, err := e.arena.Alloc(info.Size, info.Align)
	if err != nil {
		return 0, err
	}
	w := e.fields(base, info)
	w.i32("x", req.X)
	w.i32("y", req.Y)
	w.i32("z", req.Z)
	return base, w.err
}

// generalOptions writes o into the embedded CGeneralOptions at base.
// Optional per-coordinate arrays become arrays of pointers where a null
// element means no value at that position.
func (e *Encoder) generalOptions(base uint64, o *osrm.GeneralOptions) error {
	info := e.s.GeneralOptions
	w := e.fields(base, info)

	coordSize := uint64(e.s.Coordinate.Size)
	coords, err := e.arena.Array(len(o.Coordinates), e.s.Coordinate.Size, e.s.Coordinate.Align)
	if err != nil {
		return err
	}
	for i, c := range o.Coordinates {
		addr := coords + uint64(i)*coordSize
		if err := e.view.WriteF64(addr+uint64(e.s.Coordinate.Off("latitude")), c.Latitude); err != nil {
			return err
		}
		if err := e.view.WriteF64(addr+uint64(e.s.Coordinate.Off("longitude")), c.Longitude); err != nil {
			return err
		}
	}
	w.ptr("coordinate", coords)
	w.i32("number_of_coordinates", int32(len(o.Coordinates)))

	bearings, err := optionalArray(e, o.Bearings, e.s.Bearing, func(addr uint64, b *osrm.Bearing) error {
		return e.view.mem.WriteU32(addr, abi.EncodeBearing(b.Value, b.Range))
	})
	if err != nil {
		return err
	}
	w.ptr("bearings", bearings)

	radiuses, err := optionalArray(e, o.Radiuses, layout.Info{Size: 8, Align: 8}, func(addr uint64, r *float64) error {
		return e.view.WriteF64(addr, *r)
	})
	if err != nil {
		return err
	}
	w.ptr("radiuses", radiuses)

	approaches, err := optionalArray(e, o.Approaches, layout.Info{Size: 4, Align: 4}, func(addr uint64, a *osrm.Approach) error {
		return e.view.WriteI32(addr, int32(*a))
	})
	if err != nil {
		return err
	}
	w.ptr("approach", approaches)

	hints, err := e.stringArray(o.Hints)
	if err != nil {
		return err
	}
	w.ptr("hints", hints)

	w.bool("generate_hints", o.GenerateHints)
	w.bool("skip_waypoints", o.SkipWaypoints)

	if o.Exclude != nil {
		exclude, err := e.arena.PtrArray(len(o.Exclude))
		if err != nil {
			return err
		}
		for i, class := range o.Exclude {
			s, err := e.arena.CString(class)
			if err != nil {
				return err
			}
			if err := e.view.WritePtr(exclude+uint64(i)*uint64(e.s.PtrSize), s); err != nil {
				return err
			}
		}
		w.ptr("exclude", exclude)
		w.i32("number_of_excludes", int32(len(o.Exclude)))
	}
	return w.err
}

// optionalArray allocates one pointer per element of items and one value
// slot per non-nil element. A nil items slice yields a null array.
func optionalArray[T any](e *Encoder, items []*T, elem layout.Info, write func(addr uint64, v *T) error) (uint64, error) {
	if items == nil {
		return 0, nil
	}
	arr, err := e.arena.PtrArray(len(items))
	if err != nil {
		return 0, err
	}
	for i, item := range items {
		if item == nil {
			continue
		}
		slot, err := e.arena.Alloc(elem.Size, elem.Align)
		if err != nil {
			return 0, err
		}
		if err := write(slot, item); err != nil {
			return 0, err
		}
		if err := e.view.WritePtr(arr+uint64(i)*uint64(e.s.PtrSize), slot); err != nil {
			return 0, err
		}
	}
	return arr, nil
}

func (e *Encoder) stringArray(items []*string) (uint64, error) {
	if items == nil {
		return 0, nil
	}
	arr, err := e.arena.PtrArray(len(items))
	if err != nil {
		return 0, err
	}
	for i, item := range items {
		if item == nil {
			continue
		}
		s, err := e.arena.CString(*item)
		if err != nil {
			return 0, err
		}
		if err := e.view.WritePtr(arr+uint64(i)*uint64(e.s.PtrSize), s); err != nil {
			return 0, err
		}
	}
	return arr, nil
}

func (e *Encoder) int32s(values []int32) (uint64, error) {
	ptr, err := e.arena.Array(len(values), wire.SizeInt, wire.SizeInt)
	if err != nil {
		return 0, err
	}
	for i, v := range values {
		if err := e.view.WriteI32(ptr+uint64(i)*wire.SizeInt, v); err != nil {
			return 0, err
		}
	}
	return ptr, nil
}

// fieldWriter writes named fields of one struct, keeping the first error.
type fieldWriter struct {
	v    *View
	info layout.Info
	base uint64
	err  error
}

func (e *Encoder) fields(base uint64, info layout.Info) *fieldWriter {
	return &fieldWriter{v: e.view, info: info, base: base}
}

func (w *fieldWriter) addr(name string) uint64 {
	return w.base + uint64(w.info.Off(name))
}

func (w *fieldWriter) i32(name string, v int32) {
	if w.err == nil {
		w.err = w.v.WriteI32(w.addr(name), v)
	}
}

func (w *fieldWriter) u32(name string, v uint32) {
	if w.err == nil {
		w.err = w.v.mem.WriteU32(w.addr(name), v)
	}
}

func (w *fieldWriter) bool(name string, v bool) {
	if w.err == nil {
		w.err = w.v.mem.WriteU32(w.addr(name), abi.EncodeBool(v))
	}
}

func (w *fieldWriter) f64(name string, v float64) {
	if w.err == nil {
		w.err = w.v.WriteF64(w.addr(name), v)
	}
}

func (w *fieldWriter) ptr(name string, p uint64) {
	if w.err == nil {
		w.err = w.v.WritePtr(w.addr(name), p)
	}
}

// Validation

func ValidateNearest(req *osrm.NearestRequest) error {
	if req == nil {
		return errors.NilPointer(errors.PhaseAssemble, nil, "*osrm.NearestRequest")
	}
	if err := ValidateGeneralOptions(&req.GeneralOptions); err != nil {
		return err
	}
	if len(req.Coordinates) != 1 {
		return errors.InvalidInput(errors.PhaseAssemble, []string{"coordinates"},
			"nearest takes exactly one coordinate, got "+strconv.Itoa(len(req.Coordinates)))
	}
	return nil
}

func ValidateRoute(req *osrm.RouteRequest) error {
	if req == nil {
		return errors.NilPointer(errors.PhaseAssemble, nil, "*osrm.RouteRequest")
	}
	if err := ValidateGeneralOptions(&req.GeneralOptions); err != nil {
		return err
	}
	if err := checkCount("waypoints", len(req.Waypoints)); err != nil {
		return err
	}
	return firstErr(
		checkEnum("annotations_type", int32(req.AnnotationsType), abi.AnnotationsTypeDomain),
		checkEnum("geometries", int32(req.Geometries), abi.GeometriesDomain),
		checkEnum("overview", int32(req.Overview), abi.OverviewDomain),
		checkEnum("continue_straight", int32(req.ContinueStraight), abi.ContinueStraightDomain),
	)
}

func ValidateTable(req *osrm.TableRequest) error {
	if req == nil {
		return errors.NilPointer(errors.PhaseAssemble, nil, "*osrm.TableRequest")
	}
	if err := ValidateGeneralOptions(&req.GeneralOptions); err != nil {
		return err
	}
	return firstErr(
		checkCount("sources", len(req.Sources)),
		checkCount("destinations", len(req.Destinations)),
		checkEnum("annotations", int32(req.Annotations), abi.TableAnnotationsDomain),
		checkEnum("fallback_coordinate", int32(req.FallbackCoordinate), abi.FallbackCoordinateDomain),
	)
}

func ValidateMatch(req *osrm.MatchRequest) error {
	if req == nil {
		return errors.NilPointer(errors.PhaseAssemble, nil, "*osrm.MatchRequest")
	}
	if err := ValidateGeneralOptions(&req.GeneralOptions); err != nil {
		return err
	}
	if req.Timestamps != nil && len(req.Timestamps) != len(req.Coordinates) {
		return errors.LengthMismatch(errors.PhaseAssemble, []string{"timestamps"}, len(req.Timestamps), len(req.Coordinates))
	}
	return firstErr(
		checkCount("waypoints", len(req.Waypoints)),
		checkEnum("annotations_type", int32(req.AnnotationsType), abi.AnnotationsTypeDomain),
		checkEnum("geometries", int32(req.Geometries), abi.GeometriesDomain),
		checkEnum("overview", int32(req.Overview), abi.OverviewDomain),
		checkEnum("gaps", int32(req.Gaps), abi.GapsDomain),
	)
}

func ValidateTrip(req *osrm.TripRequest) error {
	if req == nil {
		return errors.NilPointer(errors.PhaseAssemble, nil, "*osrm.TripRequest")
	}
	if err := ValidateGeneralOptions(&req.GeneralOptions); err != nil {
		return err
	}
	return firstErr(
		checkEnum("source", int32(req.Source), abi.TripStartDomain),
		checkEnum("destination", int32(req.Destination), abi.TripEndDomain),
		checkEnum("annotations_type", int32(req.AnnotationsType), abi.AnnotationsTypeDomain),
		checkEnum("geometries", int32(req.Geometries), abi.GeometriesDomain),
		checkEnum("overview", int32(req.Overview), abi.OverviewDomain),
	)
}

// ValidateGeneralOptions checks the coordinate invariants shared by every
// coordinate-based request.
func ValidateGeneralOptions(o *osrm.GeneralOptions) error {
	n := len(o.Coordinates)
	if n == 0 {
		return errors.InvalidInput(errors.PhaseAssemble, []string{"coordinates"}, "at least one coordinate is required")
	}
	if err := checkCount("coordinates", n); err != nil {
		return err
	}
	if o.Bearings != nil && len(o.Bearings) != n {
		return errors.LengthMismatch(errors.PhaseAssemble, []string{"bearings"}, len(o.Bearings), n)
	}
	if o.Radiuses != nil && len(o.Radiuses) != n {
		return errors.LengthMismatch(errors.PhaseAssemble, []string{"radiuses"}, len(o.Radiuses), n)
	}
	if o.Approaches != nil && len(o.Approaches) != n {
		return errors.LengthMismatch(errors.PhaseAssemble, []string{"approach"}, len(o.Approaches), n)
	}
	if o.Hints != nil && len(o.Hints) != n {
		return errors.LengthMismatch(errors.PhaseAssemble, []string{"hints"}, len(o.Hints), n)
	}
	for i, a := range o.Approaches {
		if a != nil {
			if !abi.ApproachDomain.Contains(int32(*a)) {
				return errors.InvalidEnum(errors.PhaseAssemble, []string{"approach", index(i)}, int32(*a), abi.ApproachDomain.Name)
			}
		}
	}
	for i, h := range o.Hints {
		if h == nil {
			continue
		}
		if j := strings.IndexByte(*h, 0); j >= 0 {
			return errors.EmbeddedNUL(errors.PhaseAssemble, []string{"hints", index(i)}, j)
		}
	}
	if err := checkCount("exclude", len(o.Exclude)); err != nil {
		return err
	}
	for i, class := range o.Exclude {
		if j := strings.IndexByte(class, 0); j >= 0 {
			return errors.EmbeddedNUL(errors.PhaseAssemble, []string{"exclude", index(i)}, j)
		}
	}
	return nil
}

func checkEnum(field string, v int32, d abi.Domain) error {
	if d.Contains(v) {
		return nil
	}
	return errors.InvalidEnum(errors.PhaseAssemble, []string{field}, v, d.Name)
}

func checkCount(field string, n int) error {
	if _, ok := abi.CountToInt32(n); !ok {
		return errors.Overflow(errors.PhaseAssemble, []string{field}, n, "int")
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func index(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
