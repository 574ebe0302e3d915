package primitive

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Convert converts value into the canonical Go type of kind to, using only
// conversions enabled by allowed. It reports false when the pair is not
// allowed or the value cannot be represented in the target kind.
func Convert(value any, to KindEnum, allowed CategoryEnum) (any, bool) {
	from := Of(value)
	if from == 0 || from == KindPrimitiveEnum || to == KindPrimitiveEnum {
		return nil, false
	}

	if from == to {
		return value, true
	}

	if !CanConvert(from, to, allowed) {
		return nil, false
	}

	v := reflect.ValueOf(value)

	switch {
	case from.IsNumber() && to.IsNumber():
		return convertNumber(v, to)

	case from == KindString && to.IsNumber():
		return parseNumber(v.String(), to)

	case from.IsNumber() && to == KindString:
		return formatNumber(v), true

	case from.IsInteger() && to == KindBool:
		n, ok := convertNumber(v, KindInt64)
		if !ok || (n.(int64) != 0 && n.(int64) != 1) {
			return nil, false
		}

		return n.(int64) == 1, true

	case from == KindBool && to.IsInteger():
		n := 0
		if v.Bool() {
			n = 1
		}

		return convertNumber(reflect.ValueOf(n), to)

	case from == KindString && to == KindBool:
		return parseBool(v.String())

	case from == KindBool && to == KindString:
		return strconv.FormatBool(v.Bool()), true

	case from == KindString && to == KindTime:
		t, err := time.Parse(time.RFC3339Nano, v.String())
		if err != nil {
			return nil, false
		}

		return t, true

	case from == KindTime && to == KindString:
		return value.(time.Time).Format(time.RFC3339Nano), true

	case from.IsInteger() && to == KindTime:
		sec, ok := convertNumber(v, KindInt64)
		if !ok {
			return nil, false
		}

		return time.Unix(sec.(int64), 0).UTC(), true

	case from == KindTime && to.IsInteger():
		return convertNumber(reflect.ValueOf(value.(time.Time).Unix()), to)

	case from == KindString && to == KindDuration:
		d, err := time.ParseDuration(v.String())
		if err != nil {
			return nil, false
		}

		return d, true

	case from == KindDuration && to == KindString:
		return value.(time.Duration).String(), true

	case from.IsInteger() && to == KindDuration:
		ns, ok := convertNumber(v, KindInt64)
		if !ok {
			return nil, false
		}

		return time.Duration(ns.(int64)), true

	case from == KindDuration && to.IsInteger():
		return convertNumber(reflect.ValueOf(int64(value.(time.Duration))), to)

	case from.IsFloat() && to == KindDuration:
		return time.Duration(v.Float() * float64(time.Second)), true

	case from == KindDuration && to.IsFloat():
		return convertNumber(reflect.ValueOf(value.(time.Duration).Seconds()), to)
	}

	return nil, false
}

func convertNumber(v reflect.Value, to KindEnum) (any, bool) {
	if !fits(v, to) {
		return nil, false
	}

	return v.Convert(to.ReflectType()).Interface(), true
}

// fits reports whether the numeric value v is representable in kind to
// without overflow or loss of the integral part.
func fits(v reflect.Value, to KindEnum) bool {
	switch {
	case to.IsSigned():
		hi := int64(math.MaxInt64 >> (64 - to.Bits()))
		lo := -hi - 1

		switch {
		case v.CanInt():
			return inRange(lo, v.Int(), hi)
		case v.CanUint():
			return v.Uint() <= uint64(hi)
		case v.CanFloat():
			f := v.Float()
			return f == math.Trunc(f) && inRange(float64(lo), f, float64(hi))
		}

	case to.IsUnsigned():
		hi := uint64(math.MaxUint64 >> (64 - to.Bits()))

		switch {
		case v.CanInt():
			return v.Int() >= 0 && uint64(v.Int()) <= hi
		case v.CanUint():
			return v.Uint() <= hi
		case v.CanFloat():
			f := v.Float()
			return f == math.Trunc(f) && inRange(0, f, float64(hi))
		}

	case to == KindFloat32:
		if v.CanFloat() {
			return math.Abs(v.Float()) <= math.MaxFloat32
		}

		return true

	case to == KindFloat64:
		return v.CanInt() || v.CanUint() || v.CanFloat()
	}

	return false
}

func parseNumber(s string, to KindEnum) (any, bool) {
	switch {
	case to.IsSigned():
		n, err := strconv.ParseInt(s, 10, to.Bits())
		if err != nil {
			return nil, false
		}

		return convertNumber(reflect.ValueOf(n), to)

	case to.IsUnsigned():
		n, err := strconv.ParseUint(s, 10, to.Bits())
		if err != nil {
			return nil, false
		}

		return convertNumber(reflect.ValueOf(n), to)

	default:
		f, err := strconv.ParseFloat(s, to.Bits())
		if err != nil {
			return nil, false
		}

		return convertNumber(reflect.ValueOf(f), to)
	}
}

func formatNumber(v reflect.Value) string {
	switch {
	case v.CanInt():
		return strconv.FormatInt(v.Int(), 10)
	case v.CanUint():
		return strconv.FormatUint(v.Uint(), 10)
	default:
		return strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits())
	}
}

func parseBool(s string) (any, bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	}

	return nil, false
}

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// inRange reports whether lo <= value <= hi.
func inRange[T number](lo, value, hi T) bool {
	return lo <= value && value <= hi
}
