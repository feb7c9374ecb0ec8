package osrm

import "github.com/paulmach/orb"

// Waypoint is a coordinate snapped to the road network.
// Location is (longitude, latitude).
type Waypoint struct {
	Hint     string
	Name     string
	Location orb.Point
	Distance float64
}

// NearestWaypoint is a waypoint returned by the nearest service, with the
// OSM node IDs of the segment it snapped to.
type NearestWaypoint struct {
	Waypoint
	Nodes [2]int64
}

// MatchWaypoint is a tracepoint of a matched GPS trace.
type MatchWaypoint struct {
	Waypoint
	MatchingsIndex    int32
	WaypointIndex     int32
	AlternativesCount int32
}

// TripWaypoint is an input coordinate placed on a trip.
type TripWaypoint struct {
	Waypoint
	TripsIndex    int32
	WaypointIndex int32
}

// Route is a path through two or more waypoints.
type Route struct {
	WeightName string
	Geometry   string
	Legs       []RouteLeg
	Duration   float64
	Distance   float64
	Weight     float64
}

// MatchRoute is a route produced by map matching.
type MatchRoute struct {
	Route
	Confidence float32
}

// RouteLeg is the part of a route between two consecutive waypoints.
type RouteLeg struct {
	Annotation *Annotation
	Summary    string
	Steps      []Step
	Duration   float64
	Weight     float64
	Distance   float64
}

// Step is a single maneuver and the road travelled after it.
type Step struct {
	Maneuver            *Maneuver
	Geometry            string
	Name                string
	Reference           string
	Pronunciation       string
	Exits               string
	Mode                string
	RotaryName          string
	RotaryPronunciation string
	DrivingSide         string
	Intersections       []Intersection
	Distance            float64
	Duration            float64
	Weight              float64
}

// Maneuver describes the turn at the start of a step.
type Maneuver struct {
	Type          string
	Modifier      string
	Location      Coordinate
	BearingBefore int32
	BearingAfter  int32
}

// Intersection is a node passed along a step.
type Intersection struct {
	Bearings []int32
	Classes  []string
	Entry    []bool
	Lanes    []Lane
	Location Coordinate
	In       int32
	Out      int32
}

// Lane is a turn lane at an intersection.
type Lane struct {
	Indications []string
	Valid       bool
}

// Annotation holds per-segment metadata of a leg.
type Annotation struct {
	Metadata    *AnnotationMetadata
	Duration    []float64
	Distance    []float64
	Speed       []float64
	Weight      []float64
	Nodes       []int64
	Datasources []int32
}

// AnnotationMetadata names the data sources referenced by Annotation.Datasources.
type AnnotationMetadata struct {
	DatasourceNames []string
}

// NearestResult is a successful nearest response.
type NearestResult struct {
	Code      string
	Waypoints []NearestWaypoint
}

// RouteResult is a successful route response.
type RouteResult struct {
	Code      string
	Waypoints []Waypoint
	Routes    []Route
}

// TableResult is a successful table response. Durations and Distances are
// indexed [source][destination]; a matrix that was not requested is nil.
type TableResult struct {
	Code         string
	Durations    [][]float64
	Distances    [][]float64
	Sources      []Waypoint
	Destinations []Waypoint
}

// MatchResult is a successful match response.
type MatchResult struct {
	Code        string
	Tracepoints []MatchWaypoint
	Matchings   []MatchRoute
}

// TripResult is a successful trip response.
type TripResult struct {
	Code      string
	Waypoints []TripWaypoint
	Trips     []Route
}

// TileResult is a successful tile response holding a Mapbox vector tile.
type TileResult struct {
	Data []byte
}
