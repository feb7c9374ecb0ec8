// Package abi provides the primitive codec for the OSRM C ABI.
//
// It maps small fixed-shape values between Go and their wire words: the
// Boolean enum, bearings, floating point bit patterns, and the closed
// integer domains of the ABI's enums. It also holds the overflow-checked
// arithmetic and size limits shared by the arena and the decoder.
//
// # Contents
//
//   - codec.go: Boolean, bearing, float and enum domain mapping
//   - helpers.go: alignment, checked arithmetic and size limits
//
// This package is internal to the module.
package abi
