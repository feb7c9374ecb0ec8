package enginetest

import (
	"reflect"
	"testing"

	"github.com/paulmach/orb"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/transcoder"
)

// sampleRoute returns a route result using every nested shape.
func sampleRoute() *osrm.RouteResult {
	step := osrm.Step{
		Maneuver: &osrm.Maneuver{
			Type:          "turn",
			Modifier:      "left",
			Location:      osrm.Coordinate{Latitude: 52.517, Longitude: 13.388},
			BearingBefore: 90,
			BearingAfter:  0,
		},
		Geometry:    "_ibE_seK",
		Name:        "Unter den Linden",
		Reference:   "B 2",
		Mode:        "driving",
		DrivingSide: "right",
		Intersections: []osrm.Intersection{{
			Bearings: []int32{0, 90, 270},
			Classes:  []string{"toll"},
			Entry:    []bool{true, false, true},
			Lanes: []osrm.Lane{
				{Indications: []string{"left"}, Valid: true},
				{Indications: []string{"straight", "right"}},
			},
			Location: osrm.Coordinate{Latitude: 52.517, Longitude: 13.388},
			In:       1,
			Out:      0,
		}},
		Distance: 120.5,
		Duration: 14.2,
		Weight:   14.2,
	}
	leg := osrm.RouteLeg{
		Annotation: &osrm.Annotation{
			Metadata:    &osrm.AnnotationMetadata{DatasourceNames: []string{"lua profile"}},
			Duration:    []float64{1.5, 2.5, 3.5},
			Distance:    []float64{10, 20, 30},
			Speed:       []float64{6.6, 8, 8.5},
			Weight:      []float64{1.5, 2.5, 3.5},
			Nodes:       []int64{101, 102, 103},
			Datasources: []int32{0, 0, 0},
		},
		Summary:  "Unter den Linden",
		Steps:    []osrm.Step{step},
		Duration: 14.2,
		Weight:   14.2,
		Distance: 120.5,
	}
	return &osrm.RouteResult{
		Code: "Ok",
		Waypoints: []osrm.Waypoint{
			{Hint: "h1", Name: "Friedrichstr", Location: orb.Point{13.388, 52.517}, Distance: 4.1},
			{Hint: "h2", Location: orb.Point{13.397, 52.529}},
		},
		Routes: []osrm.Route{{
			WeightName: "routability",
			Geometry:   "mfp_I__vpA",
			Legs:       []osrm.RouteLeg{leg},
			Duration:   14.2,
			Distance:   120.5,
			Weight:     14.2,
		}},
	}
}

func TestWriterRouteDecodes(t *testing.T) {
	h := NewHeap(1 << 20)
	w := NewWriter(h)
	want := sampleRoute()

	root, err := w.Route(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := transcoder.NewDecoder(w.View()).Route(root)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded route differs:\n got %+v\nwant %+v", got, want)
	}
}

func TestWriterTableDecodes(t *testing.T) {
	h := NewHeap(1 << 20)
	w := NewWriter(h)
	wps := []osrm.Waypoint{
		{Name: "a", Location: orb.Point{13.1, 52.1}},
		{Name: "b", Location: orb.Point{13.2, 52.2}},
	}
	want := &osrm.TableResult{
		Code:         "Ok",
		Durations:    [][]float64{{0, 10}, {11, 0}},
		Sources:      wps,
		Destinations: wps,
	}
	root, err := w.Table(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := transcoder.NewDecoder(w.View()).Table(root)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestWriterReleaseFreesTree(t *testing.T) {
	h := NewHeap(1 << 20)
	w := NewWriter(h)

	root, err := w.Route(sampleRoute())
	if err != nil {
		t.Fatal(err)
	}
	if w.Trees() != 1 || h.LiveCount() == 0 {
		t.Fatalf("trees=%d live=%d", w.Trees(), h.LiveCount())
	}
	w.Release(root)
	if w.Trees() != 0 || h.LiveCount() != 0 {
		t.Errorf("after release: trees=%d live=%d", w.Trees(), h.LiveCount())
	}
	if len(h.Violations()) != 0 {
		t.Errorf("violations: %v", h.Violations())
	}

	w.Release(root)
	if len(h.Violations()) != 1 {
		t.Errorf("second release not recorded: %v", h.Violations())
	}
}

func TestWriterTile(t *testing.T) {
	h := NewHeap(1 << 12)
	w := NewWriter(h)
	data := []byte{0x1a, 0x00, 0x02, 0xff}

	root, err := w.Tile(&osrm.TileResult{Data: data})
	if err != nil {
		t.Fatal(err)
	}
	got, err := transcoder.NewDecoder(w.View()).Tile(root)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Data, data) {
		t.Errorf("got %x, want %x", got.Data, data)
	}
}
