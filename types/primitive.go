package types

import "fmt"

// Primitive is the scalar (or scalar-list) result type of a feature's
// computation. It is inferred by the program compiler, not declared on the
// spec directly.
type Primitive string

const (
	PrimitiveUnknown   Primitive = ""
	PrimitiveString    Primitive = "string"
	PrimitiveInteger   Primitive = "int"
	PrimitiveFloat     Primitive = "float"
	PrimitiveBoolean   Primitive = "bool"
	PrimitiveTimestamp Primitive = "timestamp"

	PrimitiveStringList    Primitive = "[]string"
	PrimitiveIntegerList   Primitive = "[]int"
	PrimitiveFloatList     Primitive = "[]float"
	PrimitiveBooleanList   Primitive = "[]bool"
	PrimitiveTimestampList Primitive = "[]timestamp"
)

// ParsePrimitive converts a type keyword into a Primitive. It accepts the
// canonical names above plus the "str" alias.
func ParsePrimitive(s string) (Primitive, error) {
	switch s {
	case "str", "string":
		return PrimitiveString, nil
	case "int", "integer":
		return PrimitiveInteger, nil
	case "float", "number":
		return PrimitiveFloat, nil
	case "bool":
		return PrimitiveBoolean, nil
	case "timestamp":
		return PrimitiveTimestamp, nil
	case "[]string":
		return PrimitiveStringList, nil
	case "[]int":
		return PrimitiveIntegerList, nil
	case "[]float":
		return PrimitiveFloatList, nil
	case "[]bool":
		return PrimitiveBooleanList, nil
	case "[]timestamp":
		return PrimitiveTimestampList, nil
	}
	return PrimitiveUnknown, fmt.Errorf("primitive type %q not supported", s)
}

// Scalar reports whether p is a single value rather than a list.
func (p Primitive) Scalar() bool {
	switch p {
	case PrimitiveString, PrimitiveInteger, PrimitiveFloat, PrimitiveBoolean, PrimitiveTimestamp:
		return true
	}
	return false
}

// Numeric reports whether p can participate in arithmetic aggregations.
func (p Primitive) Numeric() bool {
	return p == PrimitiveInteger || p == PrimitiveFloat
}

func (p Primitive) String() string { return string(p) }
