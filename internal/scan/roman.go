package scan

import "strings"

var romanValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// ParseRoman converts a roman numeral to its integer value. Returns
// 0 and false for anything that is not a roman numeral.
func ParseRoman(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	total := 0
	prev := 0
	for i := len(s) - 1; i >= 0; i-- {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0, false
		}
		if v < prev {
			total -= v
		} else {
			total += v
			prev = v
		}
	}
	return total, true
}

var wordValues = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
	"nineteen": 19, "twenty": 20,
}

// NumberValue interprets a raw number token from any accepted style
// (arabic, roman, spelled word) as an ordinal value. An amendment
// suffix like the "a" in "16a" is ignored for ordering purposes.
// Returns 0 and false when the token has no numeric reading.
func NumberValue(tok string) (int, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, false
	}
	if v, ok := wordValues[strings.ToLower(tok)]; ok {
		return v, true
	}
	digits := tok
	if last := digits[len(digits)-1]; last >= 'a' && last <= 'z' {
		digits = digits[:len(digits)-1]
	}
	if n := parseDigits(digits); n > 0 {
		return n, true
	}
	return ParseRoman(tok)
}

func parseDigits(s string) int {
	if s == "" {
		return 0
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
