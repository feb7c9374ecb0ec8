package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/engine"
	"github.com/wippyai/osrm-go/engine/native"
	"github.com/wippyai/osrm-go/engine/wasm"
	"github.com/wippyai/osrm-go/enginetest"
	"github.com/wippyai/osrm-go/geometry"
)

type options struct {
	backend     string
	library     string
	libc        string
	wasmFile    string
	fsDir       string
	fixture     string
	data        string
	algorithm   string
	service     string
	coords      string
	tile        string
	geometries  string
	alts        uint
	steps       bool
	sharedMem   bool
	asJSON      bool
	verbose     bool
	interactive bool
}

func main() {
	var o options
	flag.StringVar(&o.backend, "backend", "native", "Engine backend: native, wasm or fixture")
	flag.StringVar(&o.library, "lib", "", "Path to libc_osrm (native backend)")
	flag.StringVar(&o.libc, "libc", "", "Path to libc providing malloc/free (native backend)")
	flag.StringVar(&o.wasmFile, "wasm", "", "Path to the engine wasm module (wasm backend)")
	flag.StringVar(&o.fsDir, "fs", "", "Host directory mounted as the guest root (wasm backend)")
	flag.StringVar(&o.fixture, "fixture", "", "JSON file with canned responses (fixture backend)")
	flag.StringVar(&o.data, "data", "", "Base path of the prepared .osrm dataset")
	flag.StringVar(&o.algorithm, "algorithm", "ch", "Routing algorithm: ch or mld")
	flag.BoolVar(&o.sharedMem, "shm", false, "Use a dataset loaded into shared memory")
	flag.StringVar(&o.service, "service", "nearest", "Service: nearest, route, table, match, trip or tile")
	flag.StringVar(&o.coords, "coords", "13.419483,57.792316", "Coordinates as lon,lat;lon,lat;...")
	flag.StringVar(&o.tile, "tile", "", "Tile as x,y,z (tile service)")
	flag.StringVar(&o.geometries, "geometries", "polyline", "Geometry encoding: polyline, polyline6 or geojson")
	flag.UintVar(&o.alts, "alternatives", 0, "Number of alternative routes")
	flag.BoolVar(&o.steps, "steps", false, "Return route steps")
	flag.BoolVar(&o.asJSON, "json", false, "Print the full result as JSON")
	flag.BoolVar(&o.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&o.interactive, "i", false, "Interactive mode with TUI")
	flag.Parse()

	if o.data == "" && !o.sharedMem && o.backend != "fixture" {
		fmt.Fprintln(os.Stderr, "Usage: osrm -data <map.osrm> [-service route] [-coords lon,lat;lon,lat]")
		fmt.Fprintln(os.Stderr, "       osrm -backend wasm -wasm <osrm.wasm> -fs <dir> -data /map.osrm")
		fmt.Fprintln(os.Stderr, "       osrm -backend fixture -fixture <responses.json>")
		fmt.Fprintln(os.Stderr, "       osrm -data <map.osrm> -i  (interactive mode)")
		os.Exit(1)
	}

	os.Exit(execute(o, os.Stderr))
}

// newLogger builds the -v logger.
var newLogger = zap.NewDevelopment

// execute runs the command and returns the process exit code. Buffered log
// output is flushed before it returns.
func execute(o options, stderr io.Writer) int {
	if o.verbose {
		if l, err := newLogger(); err == nil {
			engine.SetLogger(l)
			defer func() { _ = l.Sync() }()
		}
	}

	if err := run(o); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(o options) error {
	ctx := context.Background()

	backend, err := openBackend(ctx, o)
	if err != nil {
		return err
	}
	defer backend.Close(ctx)

	cfg := osrm.DefaultEngineConfig(o.data)
	cfg.UseSharedMemory = o.sharedMem || o.data == ""
	if cfg.Algorithm, err = osrm.ParseAlgorithm(o.algorithm); err != nil {
		return err
	}
	eng, err := engine.Open(ctx, backend, cfg)
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	defer eng.Close(ctx)

	if o.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(eng, o)
	}

	res, err := query(ctx, eng, o, o.service, o.coords)
	if err != nil {
		return err
	}
	if o.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printResult(os.Stdout, res, o)
}

func openBackend(ctx context.Context, o options) (engine.Backend, error) {
	switch o.backend {
	case "native":
		return native.Open(native.Config{LibraryPath: o.library, LibcPath: o.libc})
	case "wasm":
		if o.wasmFile == "" {
			return nil, fmt.Errorf("-wasm is required for the wasm backend")
		}
		data, err := os.ReadFile(o.wasmFile)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return wasm.Open(ctx, data, &wasm.Config{FSDir: o.fsDir, Stdout: os.Stderr, Stderr: os.Stderr})
	case "fixture":
		if o.fixture == "" {
			return nil, fmt.Errorf("-fixture is required for the fixture backend")
		}
		f, err := enginetest.LoadFixture(o.fixture)
		if err != nil {
			return nil, err
		}
		return enginetest.NewStub().Serve(f), nil
	}
	return nil, fmt.Errorf("unknown backend %q", o.backend)
}

// query runs one service call and returns its result.
func query(ctx context.Context, eng *engine.Engine, o options, service, coordStr string) (any, error) {
	if service == "tile" {
		x, y, z, err := parseTile(o.tile)
		if err != nil {
			return nil, err
		}
		return eng.Tile(ctx, &osrm.TileRequest{X: x, Y: y, Z: z})
	}

	coords, err := parseCoords(coordStr)
	if err != nil {
		return nil, err
	}
	geoms, err := parseGeometries(o.geometries)
	if err != nil {
		return nil, err
	}

	switch service {
	case "nearest":
		return eng.Nearest(ctx, osrm.NewNearestRequest(coords[0]))
	case "route":
		req := osrm.NewRouteRequest(coords...)
		req.Steps = o.steps
		req.Geometries = geoms
		if o.alts > 0 {
			req.Alternatives = true
			req.NumberOfAlternatives = uint32(o.alts)
		}
		return eng.Route(ctx, req)
	case "table":
		return eng.Table(ctx, osrm.NewTableRequest(coords...))
	case "match":
		req := osrm.NewMatchRequest(coords...)
		req.Steps = o.steps
		req.Geometries = geoms
		return eng.Match(ctx, req)
	case "trip":
		req := osrm.NewTripRequest(coords...)
		req.Steps = o.steps
		req.Geometries = geoms
		return eng.Trip(ctx, req)
	}
	return nil, fmt.Errorf("unknown service %q", service)
}

// parseCoords reads "lon,lat;lon,lat", the order used in OSRM URLs.
func parseCoords(s string) ([]osrm.Coordinate, error) {
	var out []osrm.Coordinate
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("coordinate %q: want lon,lat", pair)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", pair, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", pair, err)
		}
		out = append(out, osrm.Coordinate{Latitude: lat, Longitude: lon})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no coordinates given")
	}
	return out, nil
}

func parseTile(s string) (x, y, z int32, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("tile %q: want x,y,z", s)
	}
	var v [3]int32
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("tile %q: %w", s, err)
		}
		v[i] = int32(n)
	}
	return v[0], v[1], v[2], nil
}

func parseGeometries(s string) (osrm.Geometries, error) {
	switch s {
	case "polyline", "":
		return osrm.GeometriesPolyline, nil
	case "polyline6":
		return osrm.GeometriesPolyline6, nil
	case "geojson":
		return osrm.GeometriesGeoJSON, nil
	}
	return 0, fmt.Errorf("unknown geometry encoding %q", s)
}

func printResult(w io.Writer, res any, o options) error {
	geoms, _ := parseGeometries(o.geometries)
	switch r := res.(type) {
	case *osrm.NearestResult:
		fmt.Fprintf(w, "Code: %s\n", r.Code)
		for i, wp := range r.Waypoints {
			fmt.Fprintf(w, "  [%d] %q at %.6f,%.6f (%.1f m) nodes %d-%d\n",
				i, wp.Name, wp.Location.Lon(), wp.Location.Lat(), wp.Distance, wp.Nodes[0], wp.Nodes[1])
		}
	case *osrm.RouteResult:
		fmt.Fprintf(w, "Code: %s\n", r.Code)
		for i := range r.Routes {
			printRoute(w, i, &r.Routes[i], geoms)
		}
	case *osrm.TableResult:
		fmt.Fprintf(w, "Code: %s\n", r.Code)
		for i, row := range r.Durations {
			cells := make([]string, len(row))
			for j, v := range row {
				cells[j] = strconv.FormatFloat(v, 'f', 1, 64)
			}
			fmt.Fprintf(w, "  %d: %s\n", i, strings.Join(cells, "\t"))
		}
	case *osrm.MatchResult:
		fmt.Fprintf(w, "Code: %s\n", r.Code)
		for i := range r.Matchings {
			printRoute(w, i, &r.Matchings[i].Route, geoms)
			fmt.Fprintf(w, "      confidence %.2f\n", r.Matchings[i].Confidence)
		}
	case *osrm.TripResult:
		fmt.Fprintf(w, "Code: %s\n", r.Code)
		for i := range r.Trips {
			printRoute(w, i, &r.Trips[i], geoms)
		}
	case *osrm.TileResult:
		layers, err := geometry.Tile(r)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Tile: %d bytes, %d layers\n", len(r.Data), len(layers))
		for _, l := range layers {
			fmt.Fprintf(w, "  %s: %d features\n", l.Name, len(l.Features))
		}
	default:
		fmt.Fprintf(w, "%+v\n", res)
	}
	return nil
}

func printRoute(w io.Writer, i int, r *osrm.Route, geoms osrm.Geometries) {
	fmt.Fprintf(w, "  [%d] %.1f s, %.1f m, %d legs", i, r.Duration, r.Distance, len(r.Legs))
	if ls, err := geometry.Route(r, geoms); err == nil && len(ls) > 0 {
		fmt.Fprintf(w, ", %d points", len(ls))
	}
	fmt.Fprintln(w)
	for j, leg := range r.Legs {
		fmt.Fprintf(w, "      leg %d: %s (%.1f s, %d steps)\n", j, leg.Summary, leg.Duration, len(leg.Steps))
	}
}
