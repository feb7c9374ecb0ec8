package osrm

import "strconv"

// Coordinate is a WGS84 position.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Bearing restricts snapping to road segments heading within Range degrees of Value.
type Bearing struct {
	Value int16
	Range int16
}

// Approach selects from which side of the road a waypoint is reached.
type Approach int32

const (
	ApproachUnrestricted Approach = iota
	ApproachCurb
)

func (a Approach) String() string {
	switch a {
	case ApproachUnrestricted:
		return "unrestricted"
	case ApproachCurb:
		return "curb"
	}
	return "Approach(" + strconv.Itoa(int(a)) + ")"
}

// Geometries selects the encoding of route geometry strings.
type Geometries int32

const (
	GeometriesPolyline Geometries = iota
	GeometriesPolyline6
	GeometriesGeoJSON
)

func (g Geometries) String() string {
	switch g {
	case GeometriesPolyline:
		return "polyline"
	case GeometriesPolyline6:
		return "polyline6"
	case GeometriesGeoJSON:
		return "geojson"
	}
	return "Geometries(" + strconv.Itoa(int(g)) + ")"
}

// Overview selects how detailed the route overview geometry is.
type Overview int32

const (
	OverviewSimplified Overview = iota
	OverviewFull
	OverviewFalse
)

func (o Overview) String() string {
	switch o {
	case OverviewSimplified:
		return "simplified"
	case OverviewFull:
		return "full"
	case OverviewFalse:
		return "false"
	}
	return "Overview(" + strconv.Itoa(int(o)) + ")"
}

// AnnotationsType selects which per-segment annotations are returned.
type AnnotationsType int32

const (
	AnnotationsNone AnnotationsType = iota
	AnnotationsDuration
	AnnotationsNodes
	AnnotationsDistance
	AnnotationsWeight
	AnnotationsDatasources
	AnnotationsSpeed
	AnnotationsAll
)

var annotationsTypeNames = [...]string{"none", "duration", "nodes", "distance", "weight", "datasources", "speed", "all"}

func (a AnnotationsType) String() string {
	if a >= 0 && int(a) < len(annotationsTypeNames) {
		return annotationsTypeNames[a]
	}
	return "AnnotationsType(" + strconv.Itoa(int(a)) + ")"
}

// ContinueStraight forces or forbids u-turns at waypoints.
type ContinueStraight int32

const (
	ContinueStraightDefault ContinueStraight = iota
	ContinueStraightTrue
	ContinueStraightFalse
)

// TableAnnotations selects which matrices a table request returns.
type TableAnnotations int32

const (
	TableAnnotationsNone TableAnnotations = iota
	TableAnnotationsDuration
	TableAnnotationsDistance
	TableAnnotationsAll
)

// FallbackCoordinate selects which coordinate fallback distances are computed from.
type FallbackCoordinate int32

const (
	FallbackCoordinateInput FallbackCoordinate = iota
	FallbackCoordinateSnapped
)

// Gaps controls how map matching treats large gaps between timestamps.
type Gaps int32

const (
	GapsSplit Gaps = iota
	GapsIgnore
)

// TripStart selects the first waypoint of a trip.
type TripStart int32

const (
	TripStartAny TripStart = iota
	TripStartFirst
)

// TripEnd selects the last waypoint of a trip.
type TripEnd int32

const (
	TripEndAny TripEnd = iota
	TripEndLast
)

// GeneralOptions are shared by every coordinate-based request.
//
// Bearings, Radiuses, Approaches and Hints are per-coordinate: when set they
// must have exactly one element per coordinate, and a nil element means no
// value for that position. Exclude is a free-length list of road classes.
type GeneralOptions struct {
	Coordinates   []Coordinate
	Bearings      []*Bearing
	Radiuses      []*float64
	Approaches    []*Approach
	Hints         []*string
	Exclude       []string
	GenerateHints bool
	SkipWaypoints bool
}

// NewGeneralOptions returns options for coords with the engine defaults.
func NewGeneralOptions(coords ...Coordinate) GeneralOptions {
	return GeneralOptions{
		Coordinates:   coords,
		GenerateHints: true,
	}
}
