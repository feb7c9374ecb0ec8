package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInvalidEnum,
				Path:   []string{"routes", "[0]", "legs"},
				GoType: "bool",
				CType:  "Boolean",
				Detail: "value 7",
			},
			contains: []string{"[decode]", "invalid_enum", "routes.[0].legs", "bool", "Boolean", "value 7"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseAssemble,
				Kind:  KindInvalidInput,
			},
			contains: []string{"[assemble]", "invalid_input"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseResource,
				Kind:   KindAllocation,
				Detail: "heap exhausted",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[resource]", "allocation", "heap exhausted", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseCall,
		Kind:  KindBackend,
		Cause: cause,
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseAssemble,
		Kind:  KindInvalidInput,
		Path:  []string{"coordinates"},
	}

	if !err.Is(&Error{Phase: PhaseAssemble, Kind: KindInvalidInput}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidInput}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseAssemble, Kind: KindOverflow}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrAssemble) {
		t.Error("phase target should match any kind")
	}
	if errors.Is(err, ErrDecode) {
		t.Error("phase target should not match other phases")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindOutOfBounds).
		Path("waypoints", "[2]").
		GoType("[]Waypoint").
		CType("CWaypoint*").
		Value(9).
		Cause(cause).
		Detail("count %d exceeds %d", 9, 4).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindOutOfBounds {
		t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
	}
	if len(err.Path) != 2 || err.Path[0] != "waypoints" || err.Path[1] != "[2]" {
		t.Errorf("Path = %v, want [waypoints [2]]", err.Path)
	}
	if err.GoType != "[]Waypoint" || err.CType != "CWaypoint*" {
		t.Errorf("GoType=%v CType=%v", err.GoType, err.CType)
	}
	if err.Value != 9 {
		t.Errorf("Value = %v, want 9", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "count 9 exceeds 4" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestFamilies(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		request  bool
		decode   bool
		resource bool
		engine   bool
	}{
		{"embedded nul", EmbeddedNUL(PhaseAssemble, []string{"hints", "[0]"}, 3), true, false, false, false},
		{"config", InvalidInput(PhaseConfig, []string{"storage_config"}, "empty"), true, false, false, false},
		{"length mismatch", LengthMismatch(PhaseAssemble, []string{"bearings"}, 2, 3), true, false, false, false},
		{"bad enum", InvalidEnum(PhaseDecode, []string{"entry"}, 9, "Boolean"), false, true, false, false},
		{"bad utf8", InvalidUTF8(PhaseDecode, []string{"name"}, []byte{0xff}), false, true, false, false},
		{"closed", Closed("engine"), false, false, true, false},
		{"release", ReleaseFailed("route result", errors.New("trap")), false, false, true, false},
		{"engine", &EngineError{Operation: "route", Code: "NoRoute"}, false, false, false, true},
		{"wrapped engine", fmt.Errorf("query: %w", &EngineError{Code: "NoSegment"}), false, false, false, true},
		{"plain", errors.New("x"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvalidRequest(tt.err); got != tt.request {
				t.Errorf("IsInvalidRequest = %v, want %v", got, tt.request)
			}
			if got := IsDecodeViolation(tt.err); got != tt.decode {
				t.Errorf("IsDecodeViolation = %v, want %v", got, tt.decode)
			}
			if got := IsResourceError(tt.err); got != tt.resource {
				t.Errorf("IsResourceError = %v, want %v", got, tt.resource)
			}
			if got := IsEngineError(tt.err); got != tt.engine {
				t.Errorf("IsEngineError = %v, want %v", got, tt.engine)
			}
		})
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(1024, 8, nil)
		if err.Kind != KindAllocation || err.Phase != PhaseResource {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Detail, "1024") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
	})

	t.Run("InvalidUTF8 preview is bounded", func(t *testing.T) {
		data := make([]byte, 100)
		for i := range data {
			data[i] = 0xff
		}
		err := InvalidUTF8(PhaseDecode, nil, data)
		if len(err.Detail) > 100 {
			t.Errorf("detail too long: %d", len(err.Detail))
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseDecode, []string{"list"}, 10, 5)
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseAssemble, []string{"coordinates"}, int64(1)<<40, "int")
		if err.Kind != KindOverflow || err.CType != "int" {
			t.Errorf("got %v %v", err.Kind, err.CType)
		}
	})

	t.Run("NilPointer", func(t *testing.T) {
		err := NilPointer(PhaseAssemble, []string{"request"}, "*RouteRequest")
		if err.GoType != "*RouteRequest" {
			t.Errorf("GoType = %v", err.GoType)
		}
	})

	t.Run("Load", func(t *testing.T) {
		err := Load("dlopen libc_osrm.so", errors.New("no such file"))
		if !strings.Contains(err.Error(), "no such file") {
			t.Errorf("Error() = %q", err.Error())
		}
	})
}

func TestEngineError(t *testing.T) {
	tests := []struct {
		err  *EngineError
		want string
	}{
		{&EngineError{Operation: "route", Code: "NoRoute", Message: "Impossible route"}, "[call] engine_error in route: NoRoute - Impossible route"},
		{&EngineError{Operation: "table", Code: "InvalidQuery"}, "[call] engine_error in table: InvalidQuery"},
		{&EngineError{Message: "out of memory"}, "[call] engine_error: out of memory"},
		{&EngineError{}, "[call] engine_error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	var target *EngineError
	if !errors.As(fmt.Errorf("wrap: %w", &EngineError{Code: "x"}), &target) || target.Code != "x" {
		t.Error("errors.As should extract EngineError")
	}
}
