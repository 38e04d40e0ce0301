package textscan

import (
	"regexp"

	"github.com/rghosh/clausewise/internal/core/domain"
)

const (
	// DefaultMaxDeonticEach caps each category list.
	DefaultMaxDeonticEach = 12

	deonticMinUnitLen = 15
)

// Categories are tested in strict precedence per sentence: prohibition is
// the most specific (its modals embed obligation/right modals), then
// obligation, then right. Each sentence lands in at most one bucket. The
// ordered dispatch is a design contract, not an optimization.
var deonticCategories = []struct {
	name string
	re   *regexp.Regexp
}{
	{"prohibition", regexp.MustCompile(`(?i)\b(shall not|must not|may not|is prohibited from|are prohibited from|will not)\b`)},
	{"obligation", regexp.MustCompile(`(?i)\b(shall|must|is required to|are required to|undertakes to|agrees to)\b`)},
	{"right", regexp.MustCompile(`(?i)\b(may|can|is entitled to|are entitled to|has the right to|have the right to)\b`)},
}

// ExtractDeontic pulls obligation, right and prohibition statements out of
// normalized text. maxEach <= 0 uses the default cap.
func ExtractDeontic(text string, maxEach int) domain.DeonticReport {
	if maxEach <= 0 {
		maxEach = DefaultMaxDeonticEach
	}

	buckets := map[string][]string{}
	for _, unit := range splitUnits(text) {
		s := collapseSpace(unit)
		if len(s) < deonticMinUnitLen {
			continue
		}
		for _, cat := range deonticCategories {
			if cat.re.MatchString(s) {
				buckets[cat.name] = append(buckets[cat.name], s)
				break
			}
		}
	}

	return domain.DeonticReport{
		Obligations:  capList(dedupeFold(buckets["obligation"]), maxEach),
		Rights:       capList(dedupeFold(buckets["right"]), maxEach),
		Prohibitions: capList(dedupeFold(buckets["prohibition"]), maxEach),
	}
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
