package fetch

import (
	"strconv"
	"strings"
	"unicode"
)

// Range of valid numbers.
const (
	MinNumber = 1
	MaxNumber = 60
)

// ExtractNumbers returns the standalone numbers 1..60 in text, deduplicated
// in order of first appearance. A number is standalone when it is a whole
// word: a run of one or two ASCII digits without a leading zero, bounded by
// characters that are neither letters, digits nor underscores. Japanese
// text counts as letters, so "12番" yields nothing. Values in exclude are
// dropped.
func ExtractNumbers(text string, exclude ...int) []int {
	skip := make(map[int]bool, len(exclude))
	for _, n := range exclude {
		skip[n] = true
	}

	out := []int{}
	seen := map[int]bool{}
	for _, word := range strings.FieldsFunc(text, func(r rune) bool { return !isWordRune(r) }) {
		n, ok := parseToken(word)
		if !ok || skip[n] || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func parseToken(s string) (int, bool) {
	if len(s) == 0 || len(s) > 2 || s[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < MinNumber || n > MaxNumber {
		return 0, false
	}
	return n, true
}
