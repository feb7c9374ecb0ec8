package wire

import "github.com/wippyai/osrm-go/internal/layout"

// Element sizes of the scalar arrays the ABI passes around.
const (
	SizeInt     = 4
	SizeInt64   = 8
	SizeDouble  = 8
	SizeBoolean = 4
	SizeEnum    = 4
)

// Schema is the resolved layout of every ABI struct for one pointer width.
type Schema struct {
	Coordinate     layout.Info
	Bearing        layout.Info
	GeneralOptions layout.Info
	EngineConfig   layout.Info
	OSRM           layout.Info

	NearestRequest layout.Info
	RouteRequest   layout.Info
	TableRequest   layout.Info
	MatchRequest   layout.Info
	TripRequest    layout.Info
	TileRequest    layout.Info

	Waypoint        layout.Info
	NearestWaypoint layout.Info
	MatchWaypoint   layout.Info
	TripWaypoint    layout.Info
	MetaData        layout.Info
	Annotation      layout.Info
	Lanes           layout.Info
	Intersection    layout.Info
	Maneuver        layout.Info
	Step            layout.Info
	RouteLeg        layout.Info
	Route           layout.Info
	MatchRoute      layout.Info

	NearestResult layout.Info
	RouteResult   layout.Info
	TableResult   layout.Info
	MatchResult   layout.Info
	TripResult    layout.Info
	TileResult    layout.Info

	PtrSize uint32
}

func newSchema(ptrSize uint32) *Schema {
	c := layout.NewCalculator(ptrSize)
	return &Schema{
		PtrSize:        ptrSize,
		Coordinate:     c.Struct(Coordinate),
		Bearing:        c.Struct(Bearing),
		GeneralOptions: c.Struct(GeneralOptions),
		EngineConfig:   c.Struct(EngineConfig),
		OSRM:           c.Struct(OSRM),

		NearestRequest: c.Struct(NearestRequest),
		RouteRequest:   c.Struct(RouteRequest),
		TableRequest:   c.Struct(TableRequest),
		MatchRequest:   c.Struct(MatchRequest),
		TripRequest:    c.Struct(TripRequest),
		TileRequest:    c.Struct(TileRequest),

		Waypoint:        c.Struct(Waypoint),
		NearestWaypoint: c.Struct(NearestWaypoint),
		MatchWaypoint:   c.Struct(MatchWaypoint),
		TripWaypoint:    c.Struct(TripWaypoint),
		MetaData:        c.Struct(MetaData),
		Annotation:      c.Struct(Annotation),
		Lanes:           c.Struct(Lanes),
		Intersection:    c.Struct(Intersection),
		Maneuver:        c.Struct(Maneuver),
		Step:            c.Struct(Step),
		RouteLeg:        c.Struct(RouteLeg),
		Route:           c.Struct(Route),
		MatchRoute:      c.Struct(MatchRoute),

		NearestResult: c.Struct(NearestResult),
		RouteResult:   c.Struct(RouteResult),
		TableResult:   c.Struct(TableResult),
		MatchResult:   c.Struct(MatchResult),
		TripResult:    c.Struct(TripResult),
		TileResult:    c.Struct(TileResult),
	}
}

var (
	schema64 = newSchema(8)
	schema32 = newSchema(4)
)

// For returns the schema for a pointer width of 4 or 8 bytes.
func For(ptrSize uint32) (*Schema, bool) {
	switch ptrSize {
	case 8:
		return schema64, true
	case 4:
		return schema32, true
	}
	return nil, false
}
