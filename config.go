package osrm

import (
	"strconv"
	"strings"

	"github.com/wippyai/osrm-go/errors"
)

// Algorithm selects the routing algorithm the dataset was prepared for.
type Algorithm int32

const (
	AlgorithmCH Algorithm = iota
	// AlgorithmCoreCH is deprecated by OSRM and treated as CH.
	AlgorithmCoreCH
	AlgorithmMLD
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmCH:
		return "CH"
	case AlgorithmCoreCH:
		return "CoreCH"
	case AlgorithmMLD:
		return "MLD"
	}
	return "Algorithm(" + strconv.Itoa(int(a)) + ")"
}

// ParseAlgorithm parses "ch", "corech" or "mld" in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "ch":
		return AlgorithmCH, nil
	case "corech":
		return AlgorithmCoreCH, nil
	case "mld":
		return AlgorithmMLD, nil
	}
	return 0, errors.InvalidEnum(errors.PhaseConfig, []string{"algorithm"}, s, "Algorithm")
}

// EngineConfig configures a native engine instance.
//
// Limits set to -1 are unlimited.
type EngineConfig struct {
	// StoragePath is the base path of the prepared .osrm files.
	// Required unless UseSharedMemory is set.
	StoragePath string

	// MemoryFile is an optional file used to back the dataset when not using shared memory.
	MemoryFile string

	// Verbosity is the engine log level (NONE, ERROR, WARNING, INFO, DEBUG).
	Verbosity string

	// DatasetName selects a named dataset in shared memory.
	DatasetName string

	MaxRadiusMapMatching      float64
	MaxLocationsTrip          int32
	MaxLocationsViaroute      int32
	MaxLocationsDistanceTable int32
	MaxLocationsMapMatching   int32
	MaxResultsNearest         int32
	MaxAlternatives           int32
	Algorithm                 Algorithm
	UseSharedMemory           bool
	UseMmap                   bool
}

// DefaultEngineConfig returns the engine defaults for a dataset at storagePath.
// An empty path selects shared memory.
func DefaultEngineConfig(storagePath string) *EngineConfig {
	return &EngineConfig{
		StoragePath:               storagePath,
		MaxLocationsTrip:          -1,
		MaxLocationsViaroute:      -1,
		MaxLocationsDistanceTable: -1,
		MaxLocationsMapMatching:   -1,
		MaxRadiusMapMatching:      -1,
		MaxResultsNearest:         -1,
		MaxAlternatives:           3,
		UseSharedMemory:           storagePath == "",
		UseMmap:                   true,
		Algorithm:                 AlgorithmCH,
	}
}

// Validate checks the configuration without touching the engine.
func (c *EngineConfig) Validate() error {
	if c == nil {
		return errors.NilPointer(errors.PhaseConfig, nil, "*osrm.EngineConfig")
	}
	if c.StoragePath == "" && !c.UseSharedMemory {
		return errors.InvalidInput(errors.PhaseConfig, []string{"storage_config"},
			"storage path is required when shared memory is disabled")
	}
	if c.Algorithm < AlgorithmCH || c.Algorithm > AlgorithmMLD {
		return errors.InvalidEnum(errors.PhaseConfig, []string{"algorithm"}, int32(c.Algorithm), "Algorithm")
	}

	limits := []struct {
		name  string
		value int32
	}{
		{"max_locations_trip", c.MaxLocationsTrip},
		{"max_locations_viaroute", c.MaxLocationsViaroute},
		{"max_locations_distance_table", c.MaxLocationsDistanceTable},
		{"max_locations_map_matching", c.MaxLocationsMapMatching},
		{"max_results_nearest", c.MaxResultsNearest},
		{"max_alternatives", c.MaxAlternatives},
	}
	for _, l := range limits {
		if l.value < -1 {
			return errors.InvalidInput(errors.PhaseConfig, []string{l.name},
				"must be -1 (unlimited) or a non-negative limit")
		}
	}
	if c.MaxRadiusMapMatching < 0 && c.MaxRadiusMapMatching != -1 {
		return errors.InvalidInput(errors.PhaseConfig, []string{"max_radius_map_matching"},
			"must be -1 (unlimited) or a non-negative radius")
	}
	return nil
}
