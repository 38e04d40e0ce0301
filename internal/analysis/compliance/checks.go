// Package compliance runs heuristic, pattern-based checks that highlight
// contract terms an Indian SME should review. These are indicative flags
// only, not legal advice and not backed by any statutory database.
package compliance

import (
	"regexp"

	"github.com/rghosh/clausewise/internal/core/domain"
)

type check struct {
	topic       string
	severity    domain.RiskLevel
	re          *regexp.Regexp
	whyFlagged  string
	whatToCheck []string
}

var checks = []check{
	{
		topic:      "Non-Compete / Restraint of Trade",
		severity:   domain.RiskHigh,
		re:         regexp.MustCompile(`(?i)\b(non[- ]?compete|restraint of trade)\b`),
		whyFlagged: "Non-compete restrictions can create enforceability and operational risk for Indian SMEs.",
		whatToCheck: []string{
			"Check if scope, duration, and geography are limited and reasonable.",
			"Prefer NDA + non-solicit instead of broad non-compete where possible.",
			"Ensure restrictions are tied to legitimate interests (confidentiality/IP).",
		},
	},
	{
		topic:      "Foreign Governing Law / Jurisdiction",
		severity:   domain.RiskHigh,
		re:         regexp.MustCompile(`(?i)\b(governed by the laws of|governing law)\b.*\b(england|uk|united states|usa|delaware|singapore|uae|dubai)\b`),
		whyFlagged: "Foreign law/jurisdiction can increase cost/complexity for an India-based SME.",
		whatToCheck: []string{
			"Confirm why foreign law is required; attempt Indian law if possible.",
			"Assess practical cost of disputes outside India (travel, counsel, enforcement).",
			"Consider adding India jurisdiction or an India arbitration seat.",
		},
	},
	{
		topic:      "Arbitration Seat Outside India",
		severity:   domain.RiskMedium,
		re:         regexp.MustCompile(`(?i)\b(arbitration)\b.*\b(seat|seated in)\b.*\b(london|singapore|new york|dubai)\b`),
		whyFlagged: "Foreign arbitration seat may increase cost and operational friction.",
		whatToCheck: []string{
			"Check seat, rules, language, and fee allocation.",
			"Consider an India seat (Mumbai/Delhi) for practicality.",
			"Confirm interim relief and enforcement options are acceptable.",
		},
	},
	{
		topic:      "Unlimited Liability / No Cap",
		severity:   domain.RiskHigh,
		re:         regexp.MustCompile(`(?i)\b(unlimited liability|liability shall be unlimited|without any maximum cap|no cap)\b`),
		whyFlagged: "Unlimited liability may create unbounded financial exposure; SMEs typically require caps.",
		whatToCheck: []string{
			"Negotiate a liability cap (e.g., fees paid in last 3-12 months).",
			"Limit carve-outs to narrow categories (fraud/willful misconduct).",
			"Exclude or cap indirect/consequential damages where possible.",
		},
	},
	{
		topic:      "Auto-Renewal",
		severity:   domain.RiskMedium,
		re:         regexp.MustCompile(`(?i)\b(auto[- ]?renew|automatically renew|renewal)\b`),
		whyFlagged: "Auto-renewal can lead to unintended renewals if notice windows are missed.",
		whatToCheck: []string{
			"Check notice period and set calendar reminders.",
			"Ask for explicit renewal confirmation instead of automatic renewal.",
			"Control pricing changes at renewal and include termination window.",
		},
	},
	{
		topic:      "Data Handling / Privacy (Indicative)",
		severity:   domain.RiskMedium,
		re:         regexp.MustCompile(`(?i)\b(personal data|sensitive personal|data protection|privacy|data processing)\b`),
		whyFlagged: "If personal data is processed, ensure roles, safeguards, and breach obligations are clear.",
		whatToCheck: []string{
			"Confirm what data is collected and the purpose limitation.",
			"Ensure security controls, breach notification, deletion/return are defined.",
			"Clarify subcontractor access and cross-border transfer terms, if any.",
		},
	},
	{
		topic:      "IP Assignment / Transfer",
		severity:   domain.RiskMedium,
		re:         regexp.MustCompile(`(?i)\b(intellectual property|IP)\b.*\b(assign|assignment|transfer)\b`),
		whyFlagged: "Broad IP transfer may unintentionally transfer background IP or reusable components.",
		whatToCheck: []string{
			"Separate background IP vs deliverables IP.",
			"Add license-back if vendor needs reusable components.",
			"Clarify ownership of pre-existing templates/tools/know-how.",
		},
	},
}

// Run scans the full contract text against every check. A single match
// anywhere in the document raises the flag; checks never error.
func Run(fullText string) []domain.ComplianceFlag {
	flags := make([]domain.ComplianceFlag, 0, 2)
	for _, c := range checks {
		if c.re.MatchString(fullText) {
			flags = append(flags, domain.ComplianceFlag{
				Topic:       c.topic,
				Severity:    c.severity,
				WhyFlagged:  c.whyFlagged,
				WhatToCheck: append([]string(nil), c.whatToCheck...),
			})
		}
	}
	return flags
}
