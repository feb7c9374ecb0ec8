package osrm

import "math"

// NearestRequest snaps a single coordinate to the closest road segments.
type NearestRequest struct {
	GeneralOptions
	NumberOfResults int32
}

// NewNearestRequest returns a nearest request for coord returning one result.
func NewNearestRequest(coord Coordinate) *NearestRequest {
	return &NearestRequest{
		GeneralOptions:  NewGeneralOptions(coord),
		NumberOfResults: 1,
	}
}

// RouteRequest computes the fastest route through the coordinates in order.
type RouteRequest struct {
	GeneralOptions
	Waypoints            []uint64
	NumberOfAlternatives uint32
	AnnotationsType      AnnotationsType
	Geometries           Geometries
	Overview             Overview
	ContinueStraight     ContinueStraight
	Steps                bool
	Alternatives         bool
	Annotations          bool
}

// NewRouteRequest returns a route request with the engine defaults.
func NewRouteRequest(coords ...Coordinate) *RouteRequest {
	return &RouteRequest{
		GeneralOptions:   NewGeneralOptions(coords...),
		AnnotationsType:  AnnotationsNone,
		Geometries:       GeometriesPolyline,
		Overview:         OverviewSimplified,
		ContinueStraight: ContinueStraightDefault,
	}
}

// TableRequest computes duration and distance matrices between coordinates.
// Sources and Destinations index into Coordinates; nil means all of them.
type TableRequest struct {
	GeneralOptions
	Sources            []int32
	Destinations       []int32
	Annotations        TableAnnotations
	FallbackSpeed      float64
	FallbackCoordinate FallbackCoordinate
	ScaleFactor        float64
}

// NewTableRequest returns a duration table request with the engine defaults.
func NewTableRequest(coords ...Coordinate) *TableRequest {
	return &TableRequest{
		GeneralOptions:     NewGeneralOptions(coords...),
		Annotations:        TableAnnotationsDuration,
		FallbackSpeed:      math.MaxFloat64,
		FallbackCoordinate: FallbackCoordinateInput,
		ScaleFactor:        1,
	}
}

// MatchRequest snaps a GPS trace to the road network.
// Timestamps, when set, carry one UNIX timestamp per coordinate.
type MatchRequest struct {
	GeneralOptions
	Timestamps      []int32
	Waypoints       []int32
	AnnotationsType AnnotationsType
	Geometries      Geometries
	Overview        Overview
	Gaps            Gaps
	Steps           bool
	Annotations     bool
	Tidy            bool
}

// NewMatchRequest returns a match request with the engine defaults.
func NewMatchRequest(coords ...Coordinate) *MatchRequest {
	return &MatchRequest{
		GeneralOptions:  NewGeneralOptions(coords...),
		AnnotationsType: AnnotationsNone,
		Geometries:      GeometriesPolyline,
		Overview:        OverviewSimplified,
		Gaps:            GapsSplit,
	}
}

// TripRequest solves the travelling salesman problem over the coordinates.
type TripRequest struct {
	GeneralOptions
	Source          TripStart
	Destination     TripEnd
	AnnotationsType AnnotationsType
	Geometries      Geometries
	Overview        Overview
	Roundtrip       bool
	Steps           bool
	Annotations     bool
}

// NewTripRequest returns a round trip request with the engine defaults.
func NewTripRequest(coords ...Coordinate) *TripRequest {
	return &TripRequest{
		GeneralOptions:  NewGeneralOptions(coords...),
		Source:          TripStartAny,
		Destination:     TripEndAny,
		AnnotationsType: AnnotationsNone,
		Geometries:      GeometriesPolyline,
		Overview:        OverviewSimplified,
		Roundtrip:       true,
	}
}

// TileRequest fetches one Mapbox vector tile of the routing graph.
type TileRequest struct {
	X, Y, Z int32
}
