package engine

import (
	"context"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/transcoder"
)

// Nearest snaps a coordinate to the closest road segments.
func (e *Engine) Nearest(ctx context.Context, req *osrm.NearestRequest) (*osrm.NearestResult, error) {
	return roundTrip(ctx, e, EndpointNearest, req, (*transcoder.Encoder).Nearest, (*transcoder.Decoder).Nearest)
}

// Route finds the fastest route through the request coordinates.
func (e *Engine) Route(ctx context.Context, req *osrm.RouteRequest) (*osrm.RouteResult, error) {
	return roundTrip(ctx, e, EndpointRoute, req, (*transcoder.Encoder).Route, (*transcoder.Decoder).Route)
}

// Table computes duration and distance matrices.
func (e *Engine) Table(ctx context.Context, req *osrm.TableRequest) (*osrm.TableResult, error) {
	return roundTrip(ctx, e, EndpointTable, req, (*transcoder.Encoder).Table, (*transcoder.Decoder).Table)
}

// Match snaps a GPS trace to the road network.
func (e *Engine) Match(ctx context.Context, req *osrm.MatchRequest) (*osrm.MatchResult, error) {
	return roundTrip(ctx, e, EndpointMatch, req, (*transcoder.Encoder).Match, (*transcoder.Decoder).Match)
}

// Trip solves the travelling salesman problem over the coordinates.
func (e *Engine) Trip(ctx context.Context, req *osrm.TripRequest) (*osrm.TripResult, error) {
	return roundTrip(ctx, e, EndpointTrip, req, (*transcoder.Encoder).Trip, (*transcoder.Decoder).Trip)
}

// Tile returns a Mapbox vector tile of the routing graph.
func (e *Engine) Tile(ctx context.Context, req *osrm.TileRequest) (*osrm.TileResult, error) {
	return roundTrip(ctx, e, EndpointTile, req, (*transcoder.Encoder).Tile, (*transcoder.Decoder).Tile)
}
