// Package layout computes C struct layouts for the OSRM ABI.
//
// Sizes, alignments and field offsets follow the platform C rules for a given
// pointer width: 8 for native 64-bit targets, 4 for wasm32.
//
// # Layout Rules
//
//   - Scalars: size equals alignment (short=2, int/float/enum=4, int64/double=8)
//   - Pointers: pointer width for both size and alignment
//   - Arrays: element layout repeated, element alignment
//   - Structs: fields laid out in order with padding, total size rounded
//     up to the largest field alignment
//
// # Usage
//
//	calc := layout.NewCalculator(8)
//	info := calc.Struct(waypointStruct)
//	off := info.Off("distance")
//
// This package is internal to the module.
package layout
