package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rghosh/clausewise/internal/core/domain"
)

var nextActions = []string{
	"Review the top high-risk clauses and renegotiate the highlighted points.",
	"Ensure termination, liability cap, and indemnity are balanced and capped.",
	"Confirm governing law/jurisdiction and dispute resolution are practical for your business.",
	"Replace ambiguous terms (e.g., 'reasonable', 'sole discretion') with measurable definitions and timelines.",
	"Export the report and share with a legal professional for final validation (not legal advice).",
}

// buildExecutiveSummary renders the plain-English summary block for SME
// readers from the structured report parts. Pure formatting; no analysis
// happens here.
func buildExecutiveSummary(report *domain.AnalysisReport) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\n")
	}

	ctype := report.Prediction.ContractType
	if ctype == "" {
		ctype = domain.TypeUnknown
	}

	line("EXECUTIVE SUMMARY (SME-FRIENDLY)")
	line("")
	line("Contract Type (predicted): %s", ctype)
	line("Overall Risk: %s | Avg Risk Score: %.2f", report.Summary.OverallRisk, report.Summary.AvgScore)
	line("Ambiguity: %s", report.Ambiguity.Level)
	line("Compliance Flags (heuristics): %d", len(report.Compliance))
	line("")

	line("Key Parties:")
	roles := report.Entities.Parties.Roles
	if len(roles) > 0 {
		keys := make([]string, 0, len(roles))
		for k := range roles {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			line("- %s: %s", titleCase(k), roles[k])
		}
	} else {
		line("- Organizations (detected): %s", joinOrNotFound(take(report.Entities.Organizations, 4)))
	}
	line("")

	line("Key Dates (detected): %s", joinOrNotFound(take(report.Entities.Dates, 4)))
	line("Key Amounts (detected): %s", joinOrNotFound(take(report.Entities.MoneyAmounts, 4)))
	line("Jurisdiction / Governing Law mentions: %s", joinOrNotFound(take(report.Entities.JurisdictionMentions, 3)))
	line("")

	line("Top High-Risk Clauses (subset analyzed):")
	if len(report.Summary.TopHighRisk) == 0 {
		line("- None detected in analyzed subset.")
	} else {
		top := report.Summary.TopHighRisk
		if len(top) > 5 {
			top = top[:5]
		}
		for _, c := range top {
			line("- [%s] %s: %s", c.ClauseID, c.ClauseType, c.RiskReason)
		}
	}
	line("")

	line("Red Flags (rule-based):")
	if len(report.Summary.RedFlags) == 0 {
		line("- None detected.")
	} else {
		flags := report.Summary.RedFlags
		if len(flags) > 6 {
			flags = flags[:6]
		}
		for _, f := range flags {
			line("- [%s] %s: %s", f.Severity, f.FlagType, f.Reason)
		}
	}
	line("")

	line("Recommended Next Actions:")
	for _, a := range nextActions {
		line("- %s", a)
	}

	return strings.TrimSpace(b.String())
}

// take returns up to n non-empty items, deduped case-insensitively in
// first-seen order.
func take(items []string, n int) []string {
	out := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for _, item := range items {
		s := strings.TrimSpace(item)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		if len(out) >= n {
			break
		}
	}
	return out
}

func joinOrNotFound(items []string) string {
	if len(items) == 0 {
		return "Not found"
	}
	return strings.Join(items, ", ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
