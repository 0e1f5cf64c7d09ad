package address

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var (
	trailingLot    = regexp.MustCompile(`-\d+$`)
	trailingNumber = regexp.MustCompile(`\d+$`)
	chomeBoundary  = regexp.MustCompile(`^(.*?丁目)`)
	wardBoundary   = regexp.MustCompile(`^(.*?区)`)
	cityAfterPref  = regexp.MustCompile(`^(.*?[都道府県].+?[市町村])`)
	cityBoundary   = regexp.MustCompile(`^(.*?[市町村])`)
)

// Fallbacks derives geocoding candidates from a normalized address, most
// specific first. Each rule is applied to the original address, not to the
// output of the previous rule. A blank address yields no candidates.
func Fallbacks(address string) []string {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil
	}
	address = strings.TrimSuffix(address, "-")

	candidates := []string{
		address,
		trailingLot.ReplaceAllString(address, ""),
		truncateAt(chomeBoundary, address),
		trailingNumber.ReplaceAllString(address, ""),
		truncateAt(wardBoundary, address),
		cityLevel(address),
	}

	candidates = lo.Map(candidates, func(c string, _ int) string {
		return strings.TrimSuffix(c, "-")
	})
	candidates = lo.Compact(candidates)
	return lo.Uniq(candidates)
}

// truncateAt keeps the address up to and including the first boundary
// match, or the whole address when there is none.
func truncateAt(boundary *regexp.Regexp, address string) string {
	if m := boundary.FindString(address); m != "" {
		return m
	}
	return address
}

// cityLevel truncates after the municipality marker. The marker has to follow
// the prefecture so that names like 町田市 are not cut at their first character.
func cityLevel(address string) string {
	if m := cityAfterPref.FindString(address); m != "" {
		return m
	}
	return truncateAt(cityBoundary, address)
}
