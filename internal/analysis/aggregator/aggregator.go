// Package aggregator folds per-clause semantic verdicts and a
// whole-document red-flag scan into one contract-level summary.
package aggregator

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/rghosh/clausewise/internal/core/domain"
)

const (
	maxTopHighRisk = 8
	previewLen     = 220

	highThreshold   = 2.3
	mediumThreshold = 1.7
)

// riskWeight maps a per-clause level to its numeric contribution. Unclear
// weighs like Low so uncertain clauses do not inflate the document score;
// the count map still surfaces how many there were.
func riskWeight(level domain.RiskLevel) int {
	switch level {
	case domain.RiskHigh:
		return 3
	case domain.RiskMedium:
		return 2
	default:
		return 1
	}
}

// overallBucket never returns Unclear: uncertain clauses are carried as
// low-weight contributions instead of as document-level uncertainty.
func overallBucket(avg float64) domain.RiskLevel {
	switch {
	case avg >= highThreshold:
		return domain.RiskHigh
	case avg >= mediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Aggregate computes the contract-level summary from clause verdicts. An
// empty input is a valid state (nothing analyzed yet) and yields an
// Unclear overall verdict with zeroed counts, never an error.
func Aggregate(clauses []domain.ClauseAnalysis) domain.ContractSummary {
	counts := map[domain.RiskLevel]int{
		domain.RiskHigh:    0,
		domain.RiskMedium:  0,
		domain.RiskLow:     0,
		domain.RiskUnclear: 0,
	}

	if len(clauses) == 0 {
		return domain.ContractSummary{
			OverallRisk: domain.RiskUnclear,
			AvgScore:    0.0,
			Counts:      counts,
			TopHighRisk: []domain.HighRiskClause{},
			RedFlags:    []domain.RedFlag{},
		}
	}

	total := 0
	var fullText strings.Builder
	topHigh := make([]domain.HighRiskClause, 0, maxTopHighRisk)

	for _, c := range clauses {
		counts[normalizeLevel(c.RiskLevel)]++
		total += riskWeight(c.RiskLevel)

		fullText.WriteString(c.ClauseText)
		fullText.WriteString("\n")

		if c.RiskLevel == domain.RiskHigh && len(topHigh) < maxTopHighRisk {
			topHigh = append(topHigh, domain.HighRiskClause{
				ClauseID:    c.ClauseID,
				ClauseType:  c.ClauseType,
				RiskReason:  c.RiskReason,
				TextPreview: preview(c.ClauseText),
			})
		}
	}

	avg := float64(total) / float64(len(clauses))

	return domain.ContractSummary{
		OverallRisk: overallBucket(avg),
		AvgScore:    math.Round(avg*100) / 100,
		Counts:      counts,
		TopHighRisk: topHigh,
		RedFlags:    DetectRedFlags(fullText.String()),
	}
}

func normalizeLevel(level domain.RiskLevel) domain.RiskLevel {
	switch level {
	case domain.RiskHigh, domain.RiskMedium, domain.RiskLow:
		return level
	default:
		return domain.RiskUnclear
	}
}

// preview flattens newlines and truncates with an ellipsis for UI display.
// The cut is walked back onto a rune boundary so multi-byte characters
// (rupee sign, Devanagari) at the edge are never split.
func preview(text string) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	if len(flat) <= previewLen {
		return flat
	}
	cut := previewLen
	for cut > 0 && !utf8.RuneStart(flat[cut]) {
		cut--
	}
	return flat[:cut] + "..."
}
