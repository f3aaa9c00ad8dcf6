// Package coerce converts raw query and path strings to numbers with the loose rules of
// JavaScript's Number() and parseInt(). Failed conversions yield NaN, never an error.
package coerce

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Number converts s the way a string is converted in arithmetic.
// Surrounding whitespace is ignored and the empty string is 0.
func Number(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
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
			v, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(v)
		}
	}

	// ParseFloat is more permissive than we want: inf, nan, hex mantissas and underscores.
	if strings.ContainsAny(s, "_xXpPiInN") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Int reads the leading integer of s, like parseInt with no radix.
// A "0x" prefix switches to hexadecimal. Trailing garbage is ignored.
func Int(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	n := 0
	v := 0.0
	for n < len(s) {
		d := digit(s[n])
		if d >= base {
			break
		}
		v = v*float64(base) + float64(d)
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sign * v
}

func digit(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return 36
}
