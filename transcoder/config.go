package transcoder

import (
	"strings"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/errors"
)

// Config assembles a CEngineConfig. Empty optional strings are passed as
// null pointers so the engine applies its own defaults.
func (e *Encoder) Config(cfg *osrm.EngineConfig) (uint64, error) {
	if err := ValidateConfig(cfg); err != nil {
		return 0, err
	}
	info := e.s.EngineConfig
	base, err := e.arena.Alloc(info.Size, info.Align)
	if err != nil {
		return 0, err
	}
	w := e.fields(base, info)

	strs := []struct {
		field string
		value string
	}{
		{"storage_config", cfg.StoragePath},
		{"memory_file", cfg.MemoryFile},
		{"verbosity", cfg.Verbosity},
		{"dataset_name", cfg.DatasetName},
	}
	for _, s := range strs {
		if s.value == "" {
			continue
		}
		ptr, err := e.arena.CString(s.value)
		if err != nil {
			return 0, err
		}
		w.ptr(s.field, ptr)
	}

	w.i32("max_locations_trip", cfg.MaxLocationsTrip)
	w.i32("max_locations_viaroute", cfg.MaxLocationsViaroute)
	w.i32("max_locations_distance_table", cfg.MaxLocationsDistanceTable)
	w.i32("max_locations_map_matching", cfg.MaxLocationsMapMatching)
	w.f64("max_radius_map_matching", cfg.MaxRadiusMapMatching)
	w.i32("max_results_nearest", cfg.MaxResultsNearest)
	w.i32("max_alternatives", cfg.MaxAlternatives)
	w.bool("use_shared_memory", cfg.UseSharedMemory)
	w.bool("use_mmap", cfg.UseMmap)
	w.i32("algorithm", int32(cfg.Algorithm))
	return base, w.err
}

// ValidateConfig runs EngineConfig.Validate and rejects text the engine
// could not receive as a C string.
func ValidateConfig(cfg *osrm.EngineConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	strs := []struct {
		field string
		value string
	}{
		{"storage_config", cfg.StoragePath},
		{"memory_file", cfg.MemoryFile},
		{"verbosity", cfg.Verbosity},
		{"dataset_name", cfg.DatasetName},
	}
	for _, s := range strs {
		if i := strings.IndexByte(s.value, 0); i >= 0 {
			return errors.EmbeddedNUL(errors.PhaseConfig, []string{s.field}, i)
		}
	}
	return nil
}
