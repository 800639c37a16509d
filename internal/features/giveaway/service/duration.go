package service

import (
	"strconv"
	"strings"
	"unicode"
)

// unitSeconds maps duration unit tokens to their length in seconds.
var unitSeconds = map[string]int64{
	"s": 1, "sec": 1, "second": 1, "seconds": 1,
	"m": 60, "min": 60, "minute": 60, "minutes": 60,
	"h": 3600, "hr": 3600, "hour": 3600, "hours": 3600,
	"d": 86400, "day": 86400, "days": 86400,
	"w": 604800, "week": 604800, "weeks": 604800,
}

// ParseDuration converts a human-entered duration string into total seconds.
// A bare number is read as minutes; otherwise digit runs followed by unit
// tokens accumulate, so "1d 2h 30m" and "1d2h30m" parse the same. It reports
// ok=false for empty input, unknown units or characters, and totals of zero.
func ParseDuration(input string) (int64, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, false
	}

	// Bare number means minutes.
	if n, err := strconv.ParseInt(input, 10, 64); err == nil {
		if n <= 0 {
			return 0, false
		}
		return n * 60, true
	}

	var total int64
	var number strings.Builder

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case unicode.IsDigit(c):
			number.WriteRune(c)
		case unicode.IsLetter(c):
			// Consume the maximal letter run as one unit token.
			start := i
			for i < len(runes) && unicode.IsLetter(runes[i]) {
				i++
			}
			unit := string(runes[start:i])
			i--

			mult, known := unitSeconds[unit]
			if !known {
				return 0, false
			}
			if number.Len() > 0 {
				n, err := strconv.ParseInt(number.String(), 10, 64)
				if err != nil {
					return 0, false
				}
				total += n * mult
				number.Reset()
			}
		case c == ' ' || c == '\t':
			// skip
		default:
			return 0, false
		}
	}

	if total <= 0 {
		return 0, false
	}
	return total, true
}
