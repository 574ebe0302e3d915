package primitive

import (
	"reflect"
	"strconv"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies the runtime values a type constraint can reason about.
type KindEnum int

const (
	_ KindEnum = iota // zero value means "not a primitive"

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named integer or string type

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var kindTypes = map[KindEnum]reflect.Type{
	KindInt:      reflect.TypeFor[int](),
	KindInt8:     reflect.TypeFor[int8](),
	KindInt16:    reflect.TypeFor[int16](),
	KindInt32:    reflect.TypeFor[int32](),
	KindInt64:    reflect.TypeFor[int64](),
	KindUint:     reflect.TypeFor[uint](),
	KindUint8:    reflect.TypeFor[uint8](),
	KindUint16:   reflect.TypeFor[uint16](),
	KindUint32:   reflect.TypeFor[uint32](),
	KindUint64:   reflect.TypeFor[uint64](),
	KindFloat32:  reflect.TypeFor[float32](),
	KindFloat64:  reflect.TypeFor[float64](),
	KindBool:     reflect.TypeFor[bool](),
	KindString:   reflect.TypeFor[string](),
	KindTime:     reflect.TypeFor[time.Time](),
	KindDuration: reflect.TypeFor[time.Duration](),
}

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsSigned() bool {
	return k >= KindInt && k <= KindInt64
}

func (k KindEnum) IsUnsigned() bool {
	return k >= KindUint && k <= KindUint64
}

// Bits returns the storage width of a numeric kind.
func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only numeric kinds have a meaningful bit width, but requested for: " + k.String())
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

// ReflectType returns the canonical Go type of a kind, or nil for
// KindPrimitiveEnum and invalid kinds.
func (k KindEnum) ReflectType() reflect.Type {
	return kindTypes[k]
}

// Of classifies a runtime value. Nil yields the zero kind.
func Of(value any) KindEnum {
	if value == nil {
		return 0
	}

	return FromReflectType(reflect.TypeOf(value))
}

func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	for kind, t := range kindTypes {
		if t == rtype {
			return kind
		}
	}

	switch rtype.Kind() {
	default:
		return 0
	case reflect.Int, reflect.String:
		return KindPrimitiveEnum
	}
}
