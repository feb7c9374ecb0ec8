package wire

import "github.com/wippyai/osrm-go/internal/layout"

type (
	Struct = layout.Struct
	Field  = layout.Field
)

var (
	i16 = layout.I16
	i32 = layout.I32
	u32 = layout.U32
	i64 = layout.I64
	f32 = layout.F32
	f64 = layout.F64
	enm = layout.E
	ptr = layout.Ptr
)

func record(s *Struct) layout.Type { return layout.RecordOf(s) }

func array(elem layout.Type, n uint32) layout.Type { return layout.ArrayOf(elem, n) }

// Shared shapes

var Coordinate = &Struct{Name: "COsrmCoordinate", Fields: []Field{
	{"latitude", f64},
	{"longitude", f64},
}}

var Bearing = &Struct{Name: "Bearing", Fields: []Field{
	{"bearing", i16},
	{"range", i16},
}}

var GeneralOptions = &Struct{Name: "CGeneralOptions", Fields: []Field{
	{"coordinate", ptr},
	{"number_of_coordinates", i32},
	{"bearings", ptr},
	{"radiuses", ptr},
	{"generate_hints", enm},
	{"skip_waypoints", enm},
	{"hints", ptr},
	{"approach", ptr},
	{"exclude", ptr},
	{"number_of_excludes", i32},
}}

// Engine lifecycle

var EngineConfig = &Struct{Name: "CEngineConfig", Fields: []Field{
	{"storage_config", ptr},
	{"max_locations_trip", i32},
	{"max_locations_viaroute", i32},
	{"max_locations_distance_table", i32},
	{"max_locations_map_matching", i32},
	{"max_radius_map_matching", f64},
	{"max_results_nearest", i32},
	{"max_alternatives", i32},
	{"use_shared_memory", enm},
	{"memory_file", ptr},
	{"use_mmap", enm},
	{"algorithm", enm},
	{"verbosity", ptr},
	{"dataset_name", ptr},
}}

var OSRM = &Struct{Name: "COSRM", Fields: []Field{
	{"obj", ptr},
	{"error_message", ptr},
}}

// Requests

var NearestRequest = &Struct{Name: "CNearestRequest", Fields: []Field{
	{"general_options", record(GeneralOptions)},
	{"number_of_results", i32},
}}

var RouteRequest = &Struct{Name: "CRouteRequest", Fields: []Field{
	{"general_options", record(GeneralOptions)},
	{"steps", enm},
	{"alternatives", enm},
	{"number_of_alternatives", u32},
	{"annotations", enm},
	{"annotations_type", enm},
	{"geometries", enm},
	{"overview", enm},
	{"continue_straight", enm},
	{"waypoints", ptr},
	{"number_of_waypoints", i32},
}}

var TableRequest = &Struct{Name: "CTableRequest", Fields: []Field{
	{"general_options", record(GeneralOptions)},
	{"sources", ptr},
	{"number_of_sources", i32},
	{"destinations", ptr},
	{"number_of_destinations", i32},
	{"annotations", enm},
	{"fallback_speed", f64},
	{"fallback_coordinate", enm},
	{"scale_factor", f64},
}}

var MatchRequest = &Struct{Name: "CMatchRequest", Fields: []Field{
	{"general_options", record(GeneralOptions)},
	{"steps", enm},
	{"geometries", enm},
	{"annotations", enm},
	{"annotations_type", enm},
	{"overview", enm},
	{"timestamps", ptr},
	{"gaps", enm},
	{"tidy", enm},
	{"waypoints", ptr},
	{"number_of_waypoints", i32},
}}

var TripRequest = &Struct{Name: "CTripRequest", Fields: []Field{
	{"general_options", record(GeneralOptions)},
	{"roundtrip", enm},
	{"source", enm},
	{"destination", enm},
	{"steps", enm},
	{"annotations", enm},
	{"annotations_type", enm},
	{"geometries", enm},
	{"overview", enm},
}}

var TileRequest = &Struct{Name: "CTileRequest", Fields: []Field{
	{"x", i32},
	{"y", i32},
	{"z", i32},
}}

// Result tree

var Waypoint = &Struct{Name: "CWaypoint", Fields: []Field{
	{"hint", ptr},
	{"distance", f64},
	{"name", ptr},
	{"location", array(f64, 2)},
}}

var NearestWaypoint = &Struct{Name: "CNearestWaypoint", Fields: []Field{
	{"nodes", array(i64, 2)},
	{"hint", ptr},
	{"distance", f64},
	{"name", ptr},
	{"location", array(f64, 2)},
}}

var MatchWaypoint = &Struct{Name: "CMatchWaypoint", Fields: []Field{
	{"hint", ptr},
	{"distance", f64},
	{"name", ptr},
	{"location", array(f64, 2)},
	{"matchings_index", i32},
	{"waypoint_index", i32},
	{"alternatives_count", i32},
}}

var TripWaypoint = &Struct{Name: "CTripWaypoint", Fields: []Field{
	{"hint", ptr},
	{"distance", f64},
	{"name", ptr},
	{"location", array(f64, 2)},
	{"trips_index", i32},
	{"waypoint_index", i32},
}}

var MetaData = &Struct{Name: "COsrmMetaData", Fields: []Field{
	{"datasource_names", ptr},
	{"number_of_datasource_names", i32},
}}

var Annotation = &Struct{Name: "COsrmAnnotation", Fields: []Field{
	{"duration", ptr},
	{"distance", ptr},
	{"speed", ptr},
	{"weight", ptr},
	{"nodes", ptr},
	{"datasources", ptr},
	{"metadata", ptr},
	{"number_of_coordinates", i32},
}}

var Lanes = &Struct{Name: "COsrmLanes", Fields: []Field{
	{"indications", ptr},
	{"number_of_indications", i32},
	{"valid", enm},
}}

var Intersection = &Struct{Name: "COsrmIntersections", Fields: []Field{
	{"location", record(Coordinate)},
	{"bearings", ptr},
	{"number_of_bearings", i32},
	{"classes", ptr},
	{"number_of_classes", i32},
	{"entry", ptr},
	{"number_of_entries", i32},
	{"intersection_in", i32},
	{"intersection_out", i32},
	{"lanes", ptr},
	{"number_of_lanes", i32},
}}

var Maneuver = &Struct{Name: "COsrmManeuver", Fields: []Field{
	{"bearing_before", i32},
	{"bearing_after", i32},
	{"coordinate", record(Coordinate)},
	{"maneuver_type", ptr},
	{"modifer", ptr},
}}

var Step = &Struct{Name: "COsrmStep", Fields: []Field{
	{"distance", f64},
	{"duration", f64},
	{"geometry", ptr},
	{"weight", f64},
	{"name", ptr},
	{"reference", ptr},
	{"pronunciation", ptr},
	{"exits", ptr},
	{"mode", ptr},
	{"metadata", ptr},
	{"intersections", ptr},
	{"number_of_intersections", i32},
	{"rotary_name", ptr},
	{"rotary_pronunciation", ptr},
	{"driving_side", ptr},
}}

var RouteLeg = &Struct{Name: "COsrmRouteLeg", Fields: []Field{
	{"annotation", ptr},
	{"duration", f64},
	{"summary", ptr},
	{"weight", f64},
	{"distance", f64},
	{"steps", ptr},
	{"number_of_steps", i32},
}}

var Route = &Struct{Name: "COsrmRoute", Fields: []Field{
	{"duration", f64},
	{"distance", f64},
	{"weight_name", ptr},
	{"weight", f64},
	{"geometry", ptr},
	{"legs", ptr},
	{"number_of_legs", i32},
}}

var MatchRoute = &Struct{Name: "CMatchRoute", Fields: []Field{
	{"duration", f64},
	{"distance", f64},
	{"weight_name", ptr},
	{"weight", f64},
	{"geometry", ptr},
	{"legs", ptr},
	{"number_of_legs", i32},
	{"confidence", f32},
}}

// Result envelopes

var NearestResult = &Struct{Name: "CNearestResult", Fields: []Field{
	{"code", ptr},
	{"message", ptr},
	{"waypoints", ptr},
	{"number_of_waypoints", i32},
}}

var RouteResult = &Struct{Name: "CRouteResult", Fields: []Field{
	{"code", ptr},
	{"message", ptr},
	{"waypoints", ptr},
	{"number_of_waypoints", i32},
	{"routes", ptr},
	{"number_of_routes", i32},
}}

var TableResult = &Struct{Name: "CTableResult", Fields: []Field{
	{"code", ptr},
	{"message", ptr},
	{"durations", ptr},
	{"distances", ptr},
	{"sources", ptr},
	{"destinations", ptr},
	{"number_of_sources", i32},
	{"number_of_destinations", i32},
}}

var MatchResult = &Struct{Name: "CMatchResult", Fields: []Field{
	{"code", ptr},
	{"message", ptr},
	{"waypoints", ptr},
	{"number_of_waypoints", i32},
	{"routes", ptr},
	{"number_of_routes", i32},
}}

var TripResult = &Struct{Name: "CTripResult", Fields: []Field{
	{"code", ptr},
	{"message", ptr},
	{"waypoints", ptr},
	{"number_of_waypoints", i32},
	{"trips", ptr},
	{"number_of_trips", i32},
}}

var TileResult = &Struct{Name: "CTileResult", Fields: []Field{
	{"result", ptr},
	{"string_length", i32},
}}
