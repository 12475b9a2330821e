package extract

import "regexp"

// rule pairs a pattern with the function that turns its submatches into a value.
type rule[T any] struct {
	re   *regexp.Regexp
	pick func(groups []string) T
}

// firstMatch tries the rules in order and returns the value of the first one
// that matches, or fallback when none do.
func firstMatch[T any](text string, rules []rule[T], fallback T) T {
	for _, r := range rules {
		if groups := r.re.FindStringSubmatch(text); groups != nil {
			return r.pick(groups)
		}
	}
	return fallback
}

// allMatches collects every non-overlapping match of re in document order.
func allMatches[T any](text string, re *regexp.Regexp, pick func(groups []string) T) []T {
	found := re.FindAllStringSubmatch(text, -1)
	out := make([]T, 0, len(found))
	for _, groups := range found {
		out = append(out, pick(groups))
	}
	return out
}

func group(n int) func([]string) string {
	return func(groups []string) string {
		return groups[n]
	}
}
