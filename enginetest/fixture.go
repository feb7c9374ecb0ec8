package enginetest

import (
	"encoding/json"
	"fmt"
	"os"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/engine"
)

// Fixture is a set of canned responses keyed by endpoint, stored as JSON
// with the result types' Go field names.
type Fixture struct {
	Nearest *osrm.NearestResult `json:"nearest,omitempty"`
	Route   *osrm.RouteResult   `json:"route,omitempty"`
	Table   *osrm.TableResult   `json:"table,omitempty"`
	Match   *osrm.MatchResult   `json:"match,omitempty"`
	Trip    *osrm.TripResult    `json:"trip,omitempty"`
	Tile    *osrm.TileResult    `json:"tile,omitempty"`

	// Errors maps an endpoint name to the envelope it fails with.
	Errors map[string]FixtureError `json:"errors,omitempty"`
}

type FixtureError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Serve installs handlers answering from f. Calls to endpoints the
// fixture does not cover fail with a backend error.
func (s *Stub) Serve(f *Fixture) *Stub {
	if f.Nearest != nil {
		s.Handle(engine.EndpointNearest, Reply(func(w *Writer) (uint64, error) { return w.Nearest(f.Nearest) }))
	}
	if f.Route != nil {
		s.Handle(engine.EndpointRoute, Reply(func(w *Writer) (uint64, error) { return w.Route(f.Route) }))
	}
	if f.Table != nil {
		s.Handle(engine.EndpointTable, Reply(func(w *Writer) (uint64, error) { return w.Table(f.Table) }))
	}
	if f.Match != nil {
		s.Handle(engine.EndpointMatch, Reply(func(w *Writer) (uint64, error) { return w.Match(f.Match) }))
	}
	if f.Trip != nil {
		s.Handle(engine.EndpointTrip, Reply(func(w *Writer) (uint64, error) { return w.Trip(f.Trip) }))
	}
	if f.Tile != nil {
		s.Handle(engine.EndpointTile, Reply(func(w *Writer) (uint64, error) { return w.Tile(f.Tile) }))
	}
	for _, ep := range engine.Endpoints {
		if e, ok := f.Errors[ep.String()]; ok {
			s.Fail(ep, e.Code, e.Message)
		}
	}
	return s
}
