package calc

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const infinity = "Infinity"

// ParseFloat parses the longest decimal prefix of s after skipping leading
// white space. Trailing characters are ignored. A string with no numeric
// prefix yields NaN. Hexadecimal, octal and underscore forms are not
// recognised; "Infinity" is, with an optional sign.
func ParseFloat(s string) float64 {
	s = strings.TrimLeftFunc(s, isSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], infinity) {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	mantissa := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		mantissa++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			mantissa++
		}
	}
	if mantissa == 0 {
		return math.NaN()
	}

	// exponent only counts when at least one digit follows the marker
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}

	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0xa0, 0xfeff, 0x2028, 0x2029:
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
