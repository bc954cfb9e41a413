package llm

import "strings"

// tokenize lowercases the string, splits it into alphanumeric runs, and
// keeps tokens longer than two characters.
func tokenize(s string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 2 {
			tokens = append(tokens, b.String())
		}
		b.Reset()
	}
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// similarity scores token overlap between two strings. A token of a counts
// as matching when any token of b contains it or is contained by it; the
// count is normalized by the larger token set. The substring-containment
// rule makes the score asymmetric; callers must not assume
// similarity(a, b) == similarity(b, a).
func similarity(a, b string) float64 {
	ta, tb := tokenize(a), tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	matched := 0
	for _, wa := range ta {
		for _, wb := range tb {
			if strings.Contains(wa, wb) || strings.Contains(wb, wa) {
				matched++
				break
			}
		}
	}
	denom := len(ta)
	if len(tb) > denom {
		denom = len(tb)
	}
	return float64(matched) / float64(denom)
}
