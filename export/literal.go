package export

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/c360studio/gfa2rdf/vocabulary/xsd"
)

// Special lexical forms of xsd:double and xsd:float.
const (
	PositiveInfinity = "INF"
	NegativeInfinity = "-INF"
	NaN              = "NaN"
)

var (
	integerLexical = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalLexical = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)
	doubleLexical  = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// NormalizeNumeric returns the XSD canonical lexical form of a numeric
// literal. ok is false when datatype is not numeric or lexical is not a
// valid form of it.
func NormalizeNumeric(lexical, datatype string) (canonical string, ok bool) {
	s := strings.TrimSpace(lexical)
	switch {
	case xsd.IsInteger(datatype):
		return normalizeInteger(s)
	case datatype == xsd.Decimal:
		return normalizeDecimal(s)
	case datatype == xsd.Double:
		return normalizeFloat(s, 64)
	case datatype == xsd.Float:
		return normalizeFloat(s, 32)
	default:
		return "", false
	}
}

// IsSpecialFloat reports whether s is INF, -INF or NaN.
func IsSpecialFloat(s string) bool {
	return s == PositiveInfinity || s == NegativeInfinity || s == NaN
}

func normalizeInteger(s string) (string, bool) {
	if !integerLexical.MatchString(s) {
		return "", false
	}
	neg := s[0] == '-'
	digits := strings.TrimLeft(strings.TrimLeft(s, "+-"), "0")
	if digits == "" {
		return "0", true
	}
	if neg {
		return "-" + digits, true
	}
	return digits, true
}

func normalizeDecimal(s string) (string, bool) {
	if !decimalLexical.MatchString(s) {
		return "", false
	}
	neg := s[0] == '-'
	s = strings.TrimLeft(s, "+-")
	intPart, fracPart, _ := strings.Cut(s, ".")
	intPart = strings.TrimLeft(intPart, "0")
	fracPart = strings.TrimRight(fracPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	if fracPart == "" {
		fracPart = "0"
	}
	if intPart == "0" && fracPart == "0" {
		neg = false
	}
	out := intPart + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out, true
}

func normalizeFloat(s string, bitSize int) (string, bool) {
	switch s {
	case PositiveInfinity, "+INF":
		return PositiveInfinity, true
	case NegativeInfinity:
		return NegativeInfinity, true
	case NaN:
		return NaN, true
	}
	if !doubleLexical.MatchString(s) {
		return "", false
	}
	v, err := strconv.ParseFloat(s, bitSize)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
			return "", false
		}
	}
	switch {
	case math.IsInf(v, 1):
		return PositiveInfinity, true
	case math.IsInf(v, -1):
		return NegativeInfinity, true
	}
	if v == 0 {
		if math.Signbit(v) {
			return "-0.0E0", true
		}
		return "0.0E0", true
	}

	// FormatFloat gives e.g. "1.5E+03"; XSD wants "1.5E3".
	formatted := strconv.FormatFloat(v, 'E', -1, bitSize)
	mantissa, exp, _ := strings.Cut(formatted, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return "", false
	}
	return mantissa + "E" + strconv.Itoa(e), true
}
