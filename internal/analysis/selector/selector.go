// Package selector ranks clauses by risk signal and picks the bounded
// subset worth sending to the expensive semantic clause-risk service.
package selector

import (
	"regexp"
	"sort"

	"github.com/rghosh/clausewise/internal/core/domain"
)

const (
	// DefaultMaxClauses is the analysis budget per document.
	DefaultMaxClauses = 12
	// DefaultBaseline always includes the first clauses as a context
	// anchor (recitals, parties, definitions).
	DefaultBaseline = 2

	maxTopScores = 5
)

type categoryPattern struct {
	label  string
	weight int
	re     *regexp.Regexp
}

// Risk-relevant clause categories. Weights follow how expensive a bad
// clause of that category usually is for a small business.
var categoryPatterns = []categoryPattern{
	{"Indemnity", 5, regexp.MustCompile(`(?i)\bindemnif(y|ies|ication)\b|\bhold harmless\b`)},
	{"Penalty/Liquidated Damages", 5, regexp.MustCompile(`(?i)\b(liquidated damages|penalt(y|ies))\b`)},
	{"Termination", 5, regexp.MustCompile(`(?i)\bterminate|termination|without cause|sole discretion|immediate effect\b`)},
	{"Liability", 5, regexp.MustCompile(`(?i)\bliability\b|\bunlimited\b|\bcap\b|\blimit of liability\b`)},
	{"Jurisdiction/Governing Law", 4, regexp.MustCompile(`(?i)\b(governing law|jurisdiction|courts? of|exclusive jurisdiction)\b`)},
	{"Arbitration", 3, regexp.MustCompile(`(?i)\barbitration\b|\bseat\b|\brules\b`)},
	{"Auto-Renewal", 4, regexp.MustCompile(`(?i)\b(auto[- ]?renew|automatically renew|renewal)\b`)},
	{"Lock-in/Commitment", 5, regexp.MustCompile(`(?i)\b(lock[- ]?in|min(imum)? commitment|non[- ]?cancellable)\b`)},
	{"Non-Compete", 5, regexp.MustCompile(`(?i)\b(non[- ]?compete|restraint of trade)\b`)},
	{"IP Assignment/Transfer", 5, regexp.MustCompile(`(?i)\b(intellectual property|IP)\b.*\b(assign|assignment|transfer)\b`)},
	{"Confidentiality/NDA", 2, regexp.MustCompile(`(?i)\b(confidential|non[- ]?disclosure|NDA)\b`)},
	{"Payment", 2, regexp.MustCompile(`(?i)\b(payment|fees?|invoice|late fee|interest)\b`)},
	{"Scope/Deliverables", 1, regexp.MustCompile(`(?i)\b(scope|deliverables?|milestone|SLA|service levels?)\b`)},
	{"Term/Duration", 1, regexp.MustCompile(`(?i)\b(term|duration|commence|effective date)\b`)},
}

// Score returns the selection score and the matched category labels for
// one clause text.
func Score(text string) (int, []string) {
	score := 0
	reasons := make([]string, 0, 4)
	for _, pat := range categoryPatterns {
		if pat.re.MatchString(text) {
			score += pat.weight
			reasons = append(reasons, pat.label)
		}
	}
	return score, reasons
}

// Select picks at most maxClauses clauses: the first ensureBaseline
// clauses are always included, remaining slots fill by descending score
// with longer text breaking ties. Zero-score clauses only fill slots left
// over once every positive-score clause is in. Selection is idempotent
// and order-stable. Non-positive arguments fall back to the defaults.
func Select(clauses []domain.Clause, maxClauses, ensureBaseline int) ([]domain.SelectedClause, domain.SelectionStats) {
	if maxClauses <= 0 {
		maxClauses = DefaultMaxClauses
	}
	if ensureBaseline < 0 {
		ensureBaseline = DefaultBaseline
	}

	scored := make([]domain.SelectedClause, 0, len(clauses))
	for _, c := range clauses {
		s, reasons := Score(c.Text)
		scored = append(scored, domain.SelectedClause{Clause: c, Score: s, Reasons: reasons})
	}

	baseline := ensureBaseline
	if baseline > len(scored) {
		baseline = len(scored)
	}

	ranked := make([]domain.SelectedClause, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return len(ranked[i].Text) > len(ranked[j].Text)
	})

	selected := make([]domain.SelectedClause, 0, maxClauses)
	seen := make(map[string]struct{}, maxClauses)

	for _, c := range scored[:baseline] {
		if len(selected) >= maxClauses {
			break
		}
		selected = append(selected, c)
		seen[c.ID] = struct{}{}
	}

	for _, c := range ranked {
		if len(selected) >= maxClauses {
			break
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		selected = append(selected, c)
		seen[c.ID] = struct{}{}
	}

	stats := domain.SelectionStats{
		TotalClauses:     len(clauses),
		Selected:         len(selected),
		Budget:           maxClauses,
		BaselineIncluded: baseline,
		TopScores:        topDistinctScores(selected),
	}
	return selected, stats
}

func topDistinctScores(selected []domain.SelectedClause) []int {
	distinct := make(map[int]struct{}, len(selected))
	for _, c := range selected {
		distinct[c.Score] = struct{}{}
	}
	scores := make([]int, 0, len(distinct))
	for s := range distinct {
		scores = append(scores, s)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))
	if len(scores) > maxTopScores {
		scores = scores[:maxTopScores]
	}
	return scores
}
