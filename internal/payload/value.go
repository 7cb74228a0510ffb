package payload

import (
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

type valueKind int

const (
	kindString valueKind = iota
	kindNumber
)

// Value is a single form value after coercion: either a number or the original text
type Value struct {
	kind valueKind
	num  float64
	str  string
}

// Number builds a numeric Value
func Number(f float64) Value {
	if f == 0 {
		f = 0 // normalize -0
	}
	return Value{kind: kindNumber, num: f}
}

// String builds a textual Value
func String(s string) Value {
	return Value{kind: kindString, str: s}
}

// MarshalJSON emits a JSON number or a JSON string
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == kindNumber {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON accepts either a JSON number or a JSON string
func (v *Value) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*v = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = String(s)
	return nil
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// Coerce converts a raw form string into a number when it reads as one,
// otherwise it keeps the original text. The rules are those of a browser's
// Number(): surrounding whitespace is ignored, blank text is 0, decimal and
// 0x/0o/0b integer literals are numbers. Infinity is kept as text since JSON
// has no way to carry it.
func Coerce(raw string) Value {
	f, ok := parseNumber(raw)
	if !ok {
		return String(raw)
	}
	return Number(f)
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimFunc(raw, isJSSpace)
	if s == "" {
		return 0, true
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseRadix(s[2:], base)
		}
	}

	if !decimalLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeErr(err) {
		return 0, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// isJSSpace matches the white space and line terminators Number() trims.
// U+0085 is not among them.
func isJSSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func parseRadix(digits string, base int) (float64, bool) {
	if strings.ContainsAny(digits, "+-_") {
		return 0, false
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	if math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isRangeErr(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}
