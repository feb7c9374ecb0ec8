// Package errors provides structured error types for the osrm-go module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/C type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidEnum).
//		Path("routes", "[0]", "legs", "[1]").
//		CType("Boolean").
//		Detail("value 7 outside domain").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.LengthMismatch(errors.PhaseAssemble, path, 2, 3)
//	err := errors.OutOfBounds(errors.PhaseDecode, path, 10, 5)
//
// Four families matter to callers, one per phase group:
//
//	IsInvalidRequest   caller input rejected before the engine was called
//	IsEngineError      the engine answered with an error status (*EngineError)
//	IsDecodeViolation  the native result broke the ABI contract
//	IsResourceError    native handles, allocation, library loading
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
