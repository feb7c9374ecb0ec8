package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"

	osrm "github.com/wippyai/osrm-go"
)

func near(a, b orb.Point, eps float64) bool {
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps
}

func TestDecodePolyline(t *testing.T) {
	ls, err := Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@", osrm.GeometriesPolyline)
	if err != nil {
		t.Fatal(err)
	}
	want := orb.LineString{{-120.2, 38.5}, {-120.95, 40.7}, {-126.453, 43.252}}
	if len(ls) != len(want) {
		t.Fatalf("got %d points, want %d", len(ls), len(want))
	}
	for i := range want {
		if !near(ls[i], want[i], 1e-9) {
			t.Errorf("point %d = %v, want %v", i, ls[i], want[i])
		}
	}
}

func TestPolyline6RoundTrip(t *testing.T) {
	in := orb.LineString{{13.419483, 57.792316}, {13.421, 57.7931}, {13.3999, 57.80001}}
	enc := EncodePolyline(in, Precision6)
	out, err := Decode(enc, osrm.GeometriesPolyline6)
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if !near(out[i], in[i], 1e-6) {
			t.Errorf("point %d = %v, want %v", i, out[i], in[i])
		}
	}
	// The same string read at the wrong precision is ten times off.
	wrong, _ := Decode(enc, osrm.GeometriesPolyline)
	if near(wrong[0], in[0], 1) {
		t.Error("precision ignored")
	}
}

func TestDecodePolylineErrors(t *testing.T) {
	for _, s := range []string{"_p~iF~ps|", "_p~iF~ps|U_", "\x01\x02"} {
		if _, err := DecodePolyline(s, Precision5); err == nil {
			t.Errorf("DecodePolyline(%q) succeeded", s)
		}
	}
}

func TestDecodeGeoJSON(t *testing.T) {
	ls, err := Decode(`{"type":"LineString","coordinates":[[13.38,52.51],[13.39,52.52]]}`, osrm.GeometriesGeoJSON)
	if err != nil {
		t.Fatal(err)
	}
	if len(ls) != 2 || ls[1] != (orb.Point{13.39, 52.52}) {
		t.Errorf("got %v", ls)
	}

	if _, err := Decode(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`, osrm.GeometriesGeoJSON); err == nil {
		t.Error("polygon accepted as route geometry")
	}
}

func TestRouteFromSteps(t *testing.T) {
	a := orb.LineString{{13.1, 52.1}, {13.2, 52.2}}
	b := orb.LineString{{13.2, 52.2}, {13.3, 52.3}}
	r := &osrm.Route{Legs: []osrm.RouteLeg{{Steps: []osrm.Step{
		{Geometry: EncodePolyline(a, Precision5)},
		{Geometry: EncodePolyline(b, Precision5)},
	}}}}
	ls, err := Route(r, osrm.GeometriesPolyline)
	if err != nil {
		t.Fatal(err)
	}
	if len(ls) != 3 {
		t.Errorf("got %d points, want shared vertex merged: %v", len(ls), ls)
	}
}

func TestTile(t *testing.T) {
	tile := maptile.New(8800, 5373, 14)
	center := tile.Center()

	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.LineString{center, {center[0] + 0.001, center[1]}})
	f.Properties["speed"] = 50.0
	fc.Append(f)

	layers := mvt.NewLayers(map[string]*geojson.FeatureCollection{"speeds": fc})
	layers.ProjectToTile(tile)
	data, err := mvt.Marshal(layers)
	if err != nil {
		t.Fatal(err)
	}

	res := &osrm.TileResult{Data: data}
	decoded, err := Tile(res)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 1 || decoded[0].Name != "speeds" || len(decoded[0].Features) != 1 {
		t.Fatalf("layers = %+v", decoded)
	}

	fcs, err := TileFeatures(res, &osrm.TileRequest{X: 8800, Y: 5373, Z: 14})
	if err != nil {
		t.Fatal(err)
	}
	ls, ok := fcs["speeds"].Features[0].Geometry.(orb.LineString)
	if !ok || !near(ls[0], center, 1e-3) {
		t.Errorf("projected geometry = %v", fcs["speeds"].Features[0].Geometry)
	}

	if layers, err := Tile(&osrm.TileResult{}); err != nil || layers != nil {
		t.Errorf("empty tile: %v, %v", layers, err)
	}
}
