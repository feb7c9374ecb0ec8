package abi

import "math"

// Boolean is the two-valued C enum the ABI uses instead of a native bool,
// so that its size is fixed at 4 bytes.
const (
	False uint32 = 0
	True  uint32 = 1
)

// Status is returned by every endpoint entry point.
const (
	StatusOk    int32 = 0
	StatusError int32 = 1
)

func EncodeBool(v bool) uint32 {
	if v {
		return True
	}
	return False
}

// DecodeBool fails for values other than False and True.
func DecodeBool(w uint32) (bool, bool) {
	switch w {
	case False:
		return false, true
	case True:
		return true, true
	}
	return false, false
}

// EncodeBearing packs {short bearing; short range} into its 4-byte wire form.
func EncodeBearing(value, rng int16) uint32 {
	return uint32(uint16(value)) | uint32(uint16(rng))<<16
}

func DecodeBearing(w uint32) (value, rng int16) {
	return int16(uint16(w)), int16(uint16(w >> 16))
}

func EncodeF64(f float64) uint64 { return math.Float64bits(f) }

func DecodeF64(w uint64) float64 { return math.Float64frombits(w) }

func DecodeF32(w uint32) float32 { return math.Float32frombits(w) }

// Domain is the closed value range [0, Size) of a C enum.
type Domain struct {
	Name string
	Size int32
}

func (d Domain) Contains(v int32) bool {
	return v >= 0 && v < d.Size
}

var (
	BooleanDomain            = Domain{"Boolean", 2}
	StatusDomain             = Domain{"Status", 2}
	AlgorithmDomain          = Domain{"Algorithm", 3}
	ApproachDomain           = Domain{"Approach", 2}
	GeometriesDomain         = Domain{"GeometriesType", 3}
	OverviewDomain           = Domain{"OverviewType", 3}
	AnnotationsTypeDomain    = Domain{"AnnotationsType", 8}
	ContinueStraightDomain   = Domain{"ContinueStraight", 3}
	TableAnnotationsDomain   = Domain{"Annotations", 4}
	FallbackCoordinateDomain = Domain{"FallbackCoordinate", 2}
	GapsDomain               = Domain{"Gap", 2}
	TripStartDomain          = Domain{"trip_start", 2}
	TripEndDomain            = Domain{"trip_end", 2}
)
