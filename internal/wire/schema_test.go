package wire

import (
	"testing"

	"github.com/wippyai/osrm-go/internal/layout"
)

func TestSchemaSizes(t *testing.T) {
	s64, _ := For(8)
	s32, _ := For(4)

	tests := []struct {
		name       string
		info64     layout.Info
		info32     layout.Info
		size64     uint32
		size32     uint32
		field      string
		off64      uint32
		off32      uint32
		wantAlign4 bool
	}{
		{"CWaypoint", s64.Waypoint, s32.Waypoint, 40, 40, "location", 24, 24, false},
		{"CNearestWaypoint", s64.NearestWaypoint, s32.NearestWaypoint, 56, 56, "hint", 16, 16, false},
		{"CGeneralOptions", s64.GeneralOptions, s32.GeneralOptions, 72, 40, "number_of_excludes", 64, 36, true},
		{"CRouteRequest", s64.RouteRequest, s32.RouteRequest, 120, 80, "waypoints", 104, 72, false},
		{"COsrmStep", s64.Step, s32.Step, 120, 80, "driving_side", 112, 72, false},
		{"COsrmIntersections", s64.Intersection, s32.Intersection, 88, 56, "lanes", 72, 48, false},
		{"CTableResult", s64.TableResult, s32.TableResult, 56, 32, "number_of_destinations", 52, 28, true},
		{"CTileRequest", s64.TileRequest, s32.TileRequest, 12, 12, "z", 8, 8, true},
		{"CMatchRoute", s64.MatchRoute, s32.MatchRoute, 56, 48, "confidence", 52, 44, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.info64.Size != tt.size64 {
				t.Errorf("64-bit size = %d, want %d", tt.info64.Size, tt.size64)
			}
			if tt.info32.Size != tt.size32 {
				t.Errorf("32-bit size = %d, want %d", tt.info32.Size, tt.size32)
			}
			if got := tt.info64.Off(tt.field); got != tt.off64 {
				t.Errorf("64-bit %s offset = %d, want %d", tt.field, got, tt.off64)
			}
			if got := tt.info32.Off(tt.field); got != tt.off32 {
				t.Errorf("32-bit %s offset = %d, want %d", tt.field, got, tt.off32)
			}
			if tt.wantAlign4 && tt.info32.Align != 4 {
				t.Errorf("32-bit align = %d, want 4", tt.info32.Align)
			}
		})
	}
}

func TestForUnknownWidth(t *testing.T) {
	if _, ok := For(2); ok {
		t.Error("For(2) should fail")
	}
	if s, ok := For(8); !ok || s.PtrSize != 8 {
		t.Error("For(8) should return the 64-bit schema")
	}
}
