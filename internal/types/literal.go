package types

import (
	"math"
	"strconv"
	"strings"
)

// LiteralKind distinguishes literal value domains.
type LiteralKind uint8

const (
	LitString LiteralKind = iota + 1
	LitNumber
	LitBigInt
	LitBoolean
)

// LiteralValue is the payload of a literal type.
type LiteralValue struct {
	Kind LiteralKind
	Str  string // string text or bigint digits
	Num  float64
	Bool bool
}

type literalKey struct {
	Kind LiteralKind
	Str  string
	Bits uint64
	Bool bool
}

// Text renders the value the way it appears inside a template literal or as
// a property key.
func (v LiteralValue) Text() string {
	switch v.Kind {
	case LitString, LitBigInt:
		return v.Str
	case LitNumber:
		return FormatNumber(v.Num)
	case LitBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	}
	return ""
}

// FormatNumber renders a float the way JavaScript's Number#toString does for
// the common cases.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if f == math.Trunc(f) && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Go pads exponents ("1e-07"); JavaScript does not.
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		mant, exp := s[:i], s[i+1:]
		sign := "+"
		if exp[0] == '-' || exp[0] == '+' {
			sign, exp = exp[:1], exp[1:]
		}
		exp = strings.TrimLeft(exp, "0")
		if exp == "" {
			exp = "0"
		}
		s = mant + "e" + sign + exp
	}
	return s
}

// IsNumericText reports whether s is the canonical text of a number, the
// property names that also satisfy numeric index signatures.
func IsNumericText(s string) bool {
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s == "NaN" || s == "Infinity" || s == "-Infinity"
	}
	return FormatNumber(f) == s
}

// StringLiteral interns a string literal type.
func (in *Interner) StringLiteral(s string) TypeID {
	return in.literal(LiteralValue{Kind: LitString, Str: s})
}

// NumberLiteral interns a number literal type. Negative zero folds into zero.
func (in *Interner) NumberLiteral(f float64) TypeID {
	if f == 0 {
		f = 0
	}
	return in.literal(LiteralValue{Kind: LitNumber, Num: f})
}

// BigIntLiteral interns a bigint literal type from its decimal digits.
func (in *Interner) BigIntLiteral(digits string) TypeID {
	return in.literal(LiteralValue{Kind: LitBigInt, Str: digits})
}

// BooleanLiteral interns true or false.
func (in *Interner) BooleanLiteral(b bool) TypeID {
	return in.literal(LiteralValue{Kind: LitBoolean, Bool: b})
}

func (in *Interner) literal(v LiteralValue) TypeID {
	key := literalKey{Kind: v.Kind, Str: v.Str, Bool: v.Bool}
	if v.Kind == LitNumber {
		key.Bits = math.Float64bits(v.Num)
	}
	slot, ok := in.literalIndex[key]
	if !ok {
		slot = uint32(appendSlot(&in.literals, v))
		in.literalIndex[key] = slot
	}
	return in.Intern(Type{Kind: KindLiteral, Payload: slot})
}

// LiteralInfo returns the value of a literal TypeID.
func (in *Interner) LiteralInfo(id TypeID) (LiteralValue, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindLiteral || int(tt.Payload) >= len(in.literals) {
		return LiteralValue{}, false
	}
	return in.literals[tt.Payload], true
}

// LiteralBase returns the primitive a literal widens to.
func (in *Interner) LiteralBase(id TypeID) TypeID {
	v, ok := in.LiteralInfo(id)
	if !ok {
		return id
	}
	switch v.Kind {
	case LitString:
		return in.builtins.String
	case LitNumber:
		return in.builtins.Number
	case LitBigInt:
		return in.builtins.BigInt
	case LitBoolean:
		return in.builtins.Boolean
	}
	return id
}

// IsUnit reports whether id denotes a single value: a literal, null,
// undefined, or an enum member.
func (in *Interner) IsUnit(id TypeID) bool {
	switch in.KindOf(id) {
	case KindLiteral, KindNull, KindUndefined, KindEnumMember:
		return true
	}
	return false
}
