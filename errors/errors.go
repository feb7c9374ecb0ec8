package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseAssemble Phase = "assemble" // Go request to wire struct
	PhaseConfig   Phase = "config"   // engine configuration
	PhaseCall     Phase = "call"     // engine invocation
	PhaseDecode   Phase = "decode"   // native result to Go
	PhaseResource Phase = "resource" // native handles, allocation, library loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindInvalidEnum  Kind = "invalid_enum"
	KindInvalidUTF8  Kind = "invalid_utf8"
	KindInvalidData  Kind = "invalid_data"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindOverflow     Kind = "overflow"
	KindNilPointer   Kind = "nil_pointer"
	KindAllocation   Kind = "allocation"
	KindUnsupported  Kind = "unsupported"
	KindBackend      Kind = "backend"
	KindClosed       Kind = "closed"
	KindRelease      Kind = "release"
	KindLoad         Kind = "load"
	KindNotFound     Kind = "not_found"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	CType  string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.CType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.CType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", C type ")
			b.WriteString(e.CType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("C type ")
			b.WriteString(e.CType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.CType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Kind matches every error of the same phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Kind == "" {
			return e.Phase == t.Phase
		}
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// CType sets the C type name
func (b *Builder) CType(t string) *Builder {
	b.err.CType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Phase targets for errors.Is. They carry no Kind, so they match any error
// raised in that phase.
var (
	ErrAssemble = &Error{Phase: PhaseAssemble}
	ErrConfig   = &Error{Phase: PhaseConfig}
	ErrCall     = &Error{Phase: PhaseCall}
	ErrDecode   = &Error{Phase: PhaseDecode}
	ErrResource = &Error{Phase: PhaseResource}
)

// IsInvalidRequest reports whether err was raised while validating caller
// input, before anything reached the engine.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrAssemble) || errors.Is(err, ErrConfig)
}

// IsDecodeViolation reports whether err means the native result broke the ABI contract.
func IsDecodeViolation(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsResourceError reports whether err concerns native handles, allocation or loading.
func IsResourceError(err error) bool {
	return errors.Is(err, ErrResource)
}

// IsEngineError reports whether err carries an engine-reported failure.
func IsEngineError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}

// Convenience constructors for common error patterns

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: detail,
	}
}

// EmbeddedNUL creates an invalid input error for text that cannot become a C string
func EmbeddedNUL(phase Phase, path []string, index int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: fmt.Sprintf("embedded NUL byte at offset %d", index),
		Value:  index,
	}
}

// LengthMismatch creates an invalid input error for a per-coordinate array
// whose length differs from the coordinate count
func LengthMismatch(phase Phase, path []string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: fmt.Sprintf("has %d entries, expected one per coordinate (%d)", got, want),
		Value:  got,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(size, align uint32, cause error) *Error {
	return &Error{
		Phase:  PhaseResource,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(phase Phase, path []string, value any, enumType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		Path:   path,
		CType:  enumType,
		Detail: fmt.Sprintf("invalid enum value %v for %s", value, enumType),
		Value:  value,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		CType:  targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Closed creates an error for use of a released handle
func Closed(what string) *Error {
	return &Error{
		Phase:  PhaseResource,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// ReleaseFailed creates an error for a native destructor that could not run
func ReleaseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseResource,
		Kind:   KindRelease,
		Detail: fmt.Sprintf("release %s", what),
		Cause:  cause,
	}
}

// Load creates a library or module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseResource,
		Kind:   KindLoad,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// EngineError is returned when the engine reports a non-success status.
// Code and Message are copied from native memory; either may be empty.
type EngineError struct {
	Operation string
	Code      string
	Message   string
}

func (e *EngineError) Error() string {
	var b strings.Builder
	b.WriteString("[call] engine_error")
	if e.Operation != "" {
		b.WriteString(" in ")
		b.WriteString(e.Operation)
	}
	switch {
	case e.Code != "" && e.Message != "":
		b.WriteString(": ")
		b.WriteString(e.Code)
		b.WriteString(" - ")
		b.WriteString(e.Message)
	case e.Code != "":
		b.WriteString(": ")
		b.WriteString(e.Code)
	case e.Message != "":
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *EngineError) Is(target error) bool {
	_, ok := target.(*EngineError)
	return ok
}
