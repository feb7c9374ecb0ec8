// Package enginetest provides an in-process stand-in for the OSRM C
// library.
//
// Stub implements engine.Backend over a checked Heap: every allocation is
// tracked, so tests can assert that request arenas are freed after a call,
// that each result is destroyed exactly once, and that nothing is read
// after it was released. Writer lays out result trees from Go values using
// the 64-bit C layouts.
//
//	stub := enginetest.NewStub().Handle(engine.EndpointNearest,
//	    enginetest.Reply(func(w *enginetest.Writer) (uint64, error) {
//	        return w.Nearest(&osrm.NearestResult{Code: "Ok"})
//	    }))
//	eng, err := engine.Open(ctx, stub, osrm.DefaultEngineConfig("map.osrm"))
//
// The stub also backs the -fixture mode of cmd/osrm.
package enginetest
