package layout

import (
	"fmt"

	"github.com/wippyai/osrm-go/internal/abi"
)

// Kind is a C scalar or aggregate kind
type Kind uint8

const (
	Int16 Kind = iota + 1
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
	Enum // C enums are int sized
	Pointer
	Array
	Record
)

// Type describes a C type. Array uses Elem and Len, Record uses Record.
type Type struct {
	Elem   *Type
	Record *Struct
	Kind   Kind
	Len    uint32
}

var (
	I16 = Type{Kind: Int16}
	I32 = Type{Kind: Int32}
	U32 = Type{Kind: Uint32}
	I64 = Type{Kind: Int64}
	U64 = Type{Kind: Uint64}
	F32 = Type{Kind: Float32}
	F64 = Type{Kind: Float64}
	E   = Type{Kind: Enum}
	Ptr = Type{Kind: Pointer}
)

func ArrayOf(elem Type, n uint32) Type {
	return Type{Kind: Array, Elem: &elem, Len: n}
}

func RecordOf(s *Struct) Type {
	return Type{Kind: Record, Record: s}
}

type Field struct {
	Name string
	Type Type
}

// Struct is a C struct declaration
type Struct struct {
	Name   string
	Fields []Field
}

// Info is the resolved layout of a type
type Info struct {
	FieldOffs map[string]uint32
	Name      string
	Size      uint32
	Align     uint32
}

// Off returns the byte offset of a field. Field names are fixed at compile
// time, so an unknown name is a programming error.
func (i Info) Off(field string) uint32 {
	off, ok := i.FieldOffs[field]
	if !ok {
		panic(fmt.Sprintf("layout: %s has no field %q", i.Name, field))
	}
	return off
}

// Calculator lays out C types for one pointer width using natural alignment
type Calculator struct {
	cache   map[*Struct]Info
	ptrSize uint32
}

func NewCalculator(ptrSize uint32) *Calculator {
	if ptrSize != 4 && ptrSize != 8 {
		panic(fmt.Sprintf("layout: unsupported pointer size %d", ptrSize))
	}
	return &Calculator{
		cache:   make(map[*Struct]Info),
		ptrSize: ptrSize,
	}
}

func (c *Calculator) PointerSize() uint32 {
	return c.ptrSize
}

func (c *Calculator) Calculate(t Type) Info {
	switch t.Kind {
	case Int16:
		return Info{Size: 2, Align: 2}
	case Int32, Uint32, Float32, Enum:
		return Info{Size: 4, Align: 4}
	case Int64, Uint64, Float64:
		return Info{Size: 8, Align: 8}
	case Pointer:
		return Info{Size: c.ptrSize, Align: c.ptrSize}
	case Array:
		elem := c.Calculate(*t.Elem)
		size, ok := abi.SafeMulU32(elem.Size, t.Len)
		if !ok {
			panic(fmt.Sprintf("layout: array of %d elements overflows", t.Len))
		}
		return Info{Size: size, Align: elem.Align}
	case Record:
		return c.Struct(t.Record)
	default:
		return Info{Size: 0, Align: 1}
	}
}

// Struct lays out s and caches the result
func (c *Calculator) Struct(s *Struct) Info {
	if cached, ok := c.cache[s]; ok {
		return cached
	}

	fieldOffs := make(map[string]uint32, len(s.Fields))
	maxAlign := uint32(1)
	offset := uint32(0)

	for _, field := range s.Fields {
		fieldLayout := c.Calculate(field.Type)

		offset = abi.AlignTo(offset, fieldLayout.Align)
		fieldOffs[field.Name] = offset

		if fieldLayout.Align > maxAlign {
			maxAlign = fieldLayout.Align
		}

		end, ok := abi.SafeAddU32(offset, fieldLayout.Size)
		if !ok {
			panic(fmt.Sprintf("layout: %s overflows at field %q", s.Name, field.Name))
		}
		offset = end
	}

	info := Info{
		Name:      s.Name,
		Size:      abi.AlignTo(offset, maxAlign),
		Align:     maxAlign,
		FieldOffs: fieldOffs,
	}
	c.cache[s] = info
	return info
}
