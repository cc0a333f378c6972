package api

import (
	"errors"
	"math"
	"math/big"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// toNumber converts s to a number the way untyped JSON clients expect a
// string to be coerced: surrounding whitespace is ignored, an empty string
// is 0, 0x/0o/0b prefixed integers and [+-]Infinity are accepted, and
// anything else that is not a decimal literal is NaN.
func toNumber(s string) float64 {
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})

	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		if base := radix(s[1]); base != 0 {
			digits := s[2:]
			if digits[0] == '+' || digits[0] == '-' {
				return math.NaN()
			}

			n, ok := new(big.Int).SetString(digits, base)
			if !ok {
				return math.NaN()
			}

			f, _ := new(big.Float).SetInt(n).Float64()
			return f
		}
	}

	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}

	// Out of range literals round to ±Inf or 0.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

func radix(prefix byte) int {
	switch prefix {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

// queryNumber returns the coerced value of the query parameter key, or nil
// if the parameter is absent or empty. A repeated parameter is NaN.
func queryNumber(r *http.Request, key string) *float64 {
	values := r.URL.Query()[key]

	var n float64
	switch len(values) {
	case 0:
		return nil
	case 1:
		if values[0] == "" {
			return nil
		}
		n = toNumber(values[0])
	default:
		n = math.NaN()
	}

	return &n
}
