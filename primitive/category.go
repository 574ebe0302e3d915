package primitive

// CategoryEnum is a bit set of conversion families a coercion may use.
type CategoryEnum int

// ConversionPair is a directed conversion between two kinds.
type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss
	CategoryTextNumber                            // int, uint, float <-> string: textual number representation
	CategoryNumericBool                           // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryDuration                              // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration: numerical (integer) duration representation
	CategorySeconds                               // float(seconds) <-> time.Duration: numerical (floating-point) duration representation
	CategoryEnumString                            // string <-> enum: textual representation of an enum type (uses parse/isValid/string methods)

	CategoryAll  = (1 << iota) - 1 //all categories combined
	CategoryNone = 0               // no categories selected
)

type rule func(from, to KindEnum) bool

var rules = map[CategoryEnum]rule{
	CategorySafeNumber: safeNumber,
	CategoryUnsafeNumber: func(from, to KindEnum) bool {
		return from.IsNumber() && to.IsNumber() && !safeNumber(from, to)
	},
	CategoryTextNumber:  both(KindEnum.IsNumber, is(KindString)),
	CategoryNumericBool: both(KindEnum.IsInteger, is(KindBool)),
	CategoryTextualBool: both(is(KindString), is(KindBool)),
	CategoryDatetime:    both(is(KindString), is(KindTime)),
	CategoryTimestamp:   both(KindEnum.IsInteger, is(KindTime)),
	CategoryDuration:    both(is(KindString), is(KindDuration)),
	CategoryNanoseconds: both(func(k KindEnum) bool { return k.IsInteger() && k != KindUint64 }, is(KindDuration)),
	CategorySeconds:     both(KindEnum.IsFloat, is(KindDuration)),
	CategoryEnumString: func(from, to KindEnum) bool {
		switch {
		case from == KindPrimitiveEnum:
			return to == KindString || to == KindPrimitiveEnum
		case to == KindPrimitiveEnum:
			return from == KindString
		}

		return false
	},
}

func is(kind KindEnum) func(KindEnum) bool {
	return func(k KindEnum) bool { return k == kind }
}

// both matches conversions from a to b and back.
func both(a, b func(KindEnum) bool) rule {
	return func(from, to KindEnum) bool {
		return (a(from) && b(to)) || (b(from) && a(to))
	}
}

// safeNumber reports whether every value of from is representable in to.
// Platform sized int and uint are taken as 64 bit sources and 32 bit targets.
func safeNumber(from, to KindEnum) bool {
	if !from.IsNumber() || !to.IsNumber() {
		return false
	}

	if from == to {
		return true
	}

	switch {
	case from.IsFloat():
		return to == KindFloat64

	case to == KindFloat32:
		return sourceBits(from) <= 16

	case to == KindFloat64:
		return sourceBits(from) <= 32

	case from.IsSigned() == to.IsSigned():
		return sourceBits(from) <= targetBits(to)

	case from.IsUnsigned():
		return sourceBits(from) < targetBits(to)
	}

	return false
}

func sourceBits(k KindEnum) int {
	if k == KindInt || k == KindUint {
		return 64
	}

	return k.Bits()
}

func targetBits(k KindEnum) int {
	if k == KindInt || k == KindUint {
		return 32
	}

	return k.Bits()
}

// CanConvert reports whether a value of kind from may be converted into kind to
// using only the allowed categories.
func CanConvert(from, to KindEnum, allowed CategoryEnum) bool {
	if from == 0 || to == 0 {
		return false
	}

	for category := CategoryEnum(1); category&CategoryAll > 0; category <<= 1 {
		if allowed&category != 0 && rules[category](from, to) {
			return true
		}
	}

	return false
}

// Pairs returns every conversion pair enabled by the allowed categories.
func Pairs(allowed CategoryEnum) map[ConversionPair]struct{} {
	res := map[ConversionPair]struct{}{}

	for from := KindEnum(1); int(from) < KindTotal; from++ {
		for to := KindEnum(1); int(to) < KindTotal; to++ {
			if CanConvert(from, to, allowed) {
				res[ConversionPair{from, to}] = struct{}{}
			}
		}
	}

	return res
}
