package engine

import (
	"github.com/wippyai/osrm-go/internal/layout"
	"github.com/wippyai/osrm-go/internal/wire"
)

// Exported library functions outside the endpoint set.
const (
	FuncCreate              = "osrm_create"
	FuncDestroy             = "osrm_destroy"
	FuncDestroyErrorMessage = "osrm_destroy_error_message"
)

// Endpoint identifies one engine service.
type Endpoint int

const (
	EndpointNearest Endpoint = iota
	EndpointRoute
	EndpointTable
	EndpointMatch
	EndpointTrip
	EndpointTile
)

// Endpoints lists every service in declaration order.
var Endpoints = []Endpoint{
	EndpointNearest,
	EndpointRoute,
	EndpointTable,
	EndpointMatch,
	EndpointTrip,
	EndpointTile,
}

var endpointNames = [...]string{"nearest", "route", "table", "match", "trip", "tile"}

func (e Endpoint) String() string {
	if e < 0 || int(e) >= len(endpointNames) {
		return "unknown"
	}
	return endpointNames[e]
}

// Symbol is the exported function running the service:
// Status osrm_<name>(void* osrm, Request* req, Result** out).
func (e Endpoint) Symbol() string {
	return "osrm_" + e.String()
}

// DestroySymbol is the exported function releasing a result of this service.
func (e Endpoint) DestroySymbol() string {
	return e.String() + "_result_destroy"
}

// Symbols returns every function name a backend must resolve.
func Symbols() []string {
	out := []string{FuncCreate, FuncDestroy, FuncDestroyErrorMessage}
	for _, ep := range Endpoints {
		out = append(out, ep.Symbol(), ep.DestroySymbol())
	}
	return out
}

// envelope returns the layout of the result struct when it starts with
// code and message fields. Tile results carry no envelope.
func (e Endpoint) envelope(s *wire.Schema) (layout.Info, bool) {
	switch e {
	case EndpointNearest:
		return s.NearestResult, true
	case EndpointRoute:
		return s.RouteResult, true
	case EndpointTable:
		return s.TableResult, true
	case EndpointMatch:
		return s.MatchResult, true
	case EndpointTrip:
		return s.TripResult, true
	}
	return layout.Info{}, false
}
