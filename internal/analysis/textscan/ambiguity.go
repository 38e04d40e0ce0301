package textscan

import (
	"regexp"
	"unicode/utf8"

	"github.com/rghosh/clausewise/internal/core/domain"
)

const (
	// DefaultMaxAmbiguityHits bounds report size on pathological inputs.
	DefaultMaxAmbiguityHits = 20

	ambiguityMinUnitLen = 8
	snippetWindow       = 70
)

type ambiguityPattern struct {
	label  string
	weight int
	re     *regexp.Regexp
}

// Vague or discretionary legal phrasing, weighted by how much negotiating
// exposure the phrase usually hides.
var ambiguityPatterns = []ambiguityPattern{
	{"reasonable", 2, regexp.MustCompile(`(?i)\breasonable\b`)},
	{"best efforts", 3, regexp.MustCompile(`(?i)\bbest efforts\b|\bcommercially reasonable efforts\b`)},
	{"promptly / asap", 2, regexp.MustCompile(`(?i)\b(promptly|as soon as possible|asap)\b`)},
	{"material / substantial", 3, regexp.MustCompile(`(?i)\b(material|substantial)\b`)},
	{"from time to time", 2, regexp.MustCompile(`(?i)\bfrom time to time\b`)},
	{"including but not limited to", 2, regexp.MustCompile(`(?i)\bincluding\b.*\bnot limited to\b`)},
	{"sole discretion", 4, regexp.MustCompile(`(?i)\bsole discretion\b|\bat (its|their) discretion\b`)},
	{"to the satisfaction of", 3, regexp.MustCompile(`(?i)\bto the satisfaction of\b|\bsatisfactory to\b`)},
	{"as determined by", 3, regexp.MustCompile(`(?i)\bas determined by\b|\bas decided by\b`)},
	{"may amend / may change", 3, regexp.MustCompile(`(?i)\bmay (amend|modify|change)\b`)},
	{"in its opinion", 3, regexp.MustCompile(`(?i)\bin (its|their) opinion\b`)},
	{"as applicable", 2, regexp.MustCompile(`(?i)\bas applicable\b`)},
	{"etc / and so on", 1, regexp.MustCompile(`(?i)\betc\.|\band so on\b`)},
}

var ambiguityRecommendations = []string{
	"Replace vague terms with measurable definitions (numbers, deadlines, thresholds).",
	"Define who decides and how decisions are communicated (avoid 'sole discretion' without constraints).",
	"For timelines, specify exact days (e.g., 'within 7 days') instead of 'promptly/asap'.",
	"For 'reasonable/best efforts', define minimum actions and acceptable evidence of efforts.",
	"For 'material/substantial', define objective criteria or examples.",
}

// DetectAmbiguity scans each sentence-like unit against every ambiguity
// pattern and accumulates weighted hits. Unlike the deontic scanner, one
// sentence can contribute several hits. maxHits <= 0 uses the default cap.
func DetectAmbiguity(text string, maxHits int) domain.AmbiguityReport {
	if maxHits <= 0 {
		maxHits = DefaultMaxAmbiguityHits
	}

	hits := make([]domain.PatternHit, 0, 16)
	score := 0

scan:
	for _, unit := range splitUnits(text) {
		if len(unit) < ambiguityMinUnitLen {
			continue
		}
		for _, pat := range ambiguityPatterns {
			loc := pat.re.FindStringIndex(unit)
			if loc == nil {
				continue
			}
			hits = append(hits, domain.PatternHit{
				Label:   pat.label,
				Weight:  pat.weight,
				Match:   unit[loc[0]:loc[1]],
				Snippet: snippet(unit, loc[0], loc[1]),
			})
			score += pat.weight
			if len(hits) >= maxHits {
				break scan
			}
		}
	}

	return domain.AmbiguityReport{
		Hits:            hits,
		Score:           score,
		Level:           ambiguityLevel(score),
		Recommendations: ambiguityRecommendations,
	}
}

func ambiguityLevel(score int) string {
	switch {
	case score >= 10:
		return "High"
	case score >= 5:
		return "Medium"
	case score >= 1:
		return "Low"
	default:
		return "None"
	}
}

// snippet widens the match by snippetWindow bytes on each side, then walks
// each cut back onto a rune boundary so currency symbols and Devanagari text
// near the edges are never split.
func snippet(unit string, start, end int) string {
	s := start - snippetWindow
	if s < 0 {
		s = 0
	}
	for s > 0 && !utf8.RuneStart(unit[s]) {
		s--
	}
	e := end + snippetWindow
	if e > len(unit) {
		e = len(unit)
	}
	for e < len(unit) && !utf8.RuneStart(unit[e]) {
		e++
	}
	return collapseSpace(unit[s:e])
}
