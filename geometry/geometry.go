// Package geometry turns the geometry strings and vector tiles returned by
// the engine into orb values.
package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"

	osrm "github.com/wippyai/osrm-go"
)

// Decode parses a route or step geometry encoded as kind.
func Decode(geometry string, kind osrm.Geometries) (orb.LineString, error) {
	switch kind {
	case osrm.GeometriesPolyline:
		return DecodePolyline(geometry, Precision5)
	case osrm.GeometriesPolyline6:
		return DecodePolyline(geometry, Precision6)
	case osrm.GeometriesGeoJSON:
		return decodeGeoJSON(geometry)
	}
	return nil, fmt.Errorf("unknown geometry encoding %v", kind)
}

func decodeGeoJSON(s string) (orb.LineString, error) {
	if s == "" {
		return nil, nil
	}
	g, err := geojson.UnmarshalGeometry([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("parse geojson geometry: %w", err)
	}
	switch v := g.Geometry().(type) {
	case orb.LineString:
		return v, nil
	case orb.Point:
		// Single-point steps, such as the arrival maneuver.
		return orb.LineString{v}, nil
	default:
		return nil, fmt.Errorf("geojson geometry is %s, want LineString", g.Type)
	}
}

// Route decodes the overview geometry of r followed by each step's
// geometry, concatenated leg by leg. Steps are used when the overview was
// not requested.
func Route(r *osrm.Route, kind osrm.Geometries) (orb.LineString, error) {
	if r.Geometry != "" {
		return Decode(r.Geometry, kind)
	}
	var out orb.LineString
	for _, leg := range r.Legs {
		for _, st := range leg.Steps {
			ls, err := Decode(st.Geometry, kind)
			if err != nil {
				return nil, err
			}
			if len(out) > 0 && len(ls) > 0 && out[len(out)-1] == ls[0] {
				ls = ls[1:]
			}
			out = append(out, ls...)
		}
	}
	return out, nil
}

// Tile decodes a vector tile into layers in tile coordinates.
func Tile(res *osrm.TileResult) (mvt.Layers, error) {
	if res == nil || len(res.Data) == 0 {
		return nil, nil
	}
	layers, err := mvt.Unmarshal(res.Data)
	if err != nil {
		return nil, fmt.Errorf("decode vector tile: %w", err)
	}
	return layers, nil
}

// TileFeatures decodes a vector tile fetched for tile x/y/z and projects
// its features to WGS84, keyed by layer name.
func TileFeatures(res *osrm.TileResult, req *osrm.TileRequest) (map[string]*geojson.FeatureCollection, error) {
	layers, err := Tile(res)
	if err != nil || layers == nil {
		return nil, err
	}
	layers.ProjectToWGS84(maptile.New(uint32(req.X), uint32(req.Y), maptile.Zoom(req.Z)))
	return layers.ToFeatureCollections(), nil
}
