package runtime

import (
	"math"
	"strings"
)

const (
	MinInt = math.MinInt32
	MaxInt = math.MaxInt32
)

// InRange reports whether v fits a 32-bit signed integer.
func InRange(v int64) bool {
	return v >= MinInt && v <= MaxInt
}

// ParseInt reads integer text the way Intro literals and input tokens are
// read: `_` separators are ignored, 0x/0o/0b select the base, parsing stops
// at the first invalid digit and text without any digit reads as 0.
// Values beyond int64 saturate, so InRange reports them as overflow.
func ParseInt(s string) int64 {
	s = strings.ReplaceAll(s, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "0o"):
		s, base = s[2:], 8
	case strings.HasPrefix(s, "0b"):
		s, base = s[2:], 2
	}
	s = strings.TrimLeft(s, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var n uint64
	saturated := false
	for i := 0; i < len(s); i++ {
		d := digitVal(s[i])
		if d >= base {
			break
		}
		if n > (math.MaxUint64-uint64(d))/uint64(base) {
			saturated = true
			continue
		}
		n = n*uint64(base) + uint64(d)
	}
	if saturated || n > math.MaxInt64 {
		if neg {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	if neg {
		return -int64(n)
	}
	return int64(n)
}

// ParseInts splits a line on whitespace and parses every token.
func ParseInts(line string) []int64 {
	fields := strings.Fields(line)
	out := make([]int64, len(fields))
	for i, f := range fields {
		out[i] = ParseInt(f)
	}
	return out
}

func digitVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}
