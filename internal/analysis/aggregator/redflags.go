package aggregator

import (
	"regexp"

	"github.com/rghosh/clausewise/internal/core/domain"
)

type redFlagPattern struct {
	flagType string
	severity domain.RiskLevel
	re       *regexp.Regexp
	reason   string
}

// Document-level red flags. A single match anywhere in the analyzed text
// raises the flag regardless of which clause triggered it or what the
// per-clause semantic verdicts said.
var redFlagPatterns = []redFlagPattern{
	{"Indemnity", domain.RiskHigh, regexp.MustCompile(`(?i)\bindemnif(y|ies|ication)\b`),
		"Indemnity shifts liability; check scope, exclusions, and caps."},
	{"Penalty/Liquidated Damages", domain.RiskHigh, regexp.MustCompile(`(?i)\b(liquidated damages|penalt(y|ies))\b`),
		"Penalty or liquidated damages may create large financial exposure."},
	{"Unilateral Termination", domain.RiskHigh, regexp.MustCompile(`(?i)\b(terminate.*at any time|terminate.*without cause|sole discretion)\b`),
		"One party may be able to terminate without balanced notice/conditions."},
	{"Arbitration", domain.RiskMedium, regexp.MustCompile(`(?i)\barbitration\b`),
		"Arbitration affects dispute resolution cost/time; check seat and rules."},
	{"Jurisdiction/Governing Law", domain.RiskMedium, regexp.MustCompile(`(?i)\b(governing law|jurisdiction|courts? of)\b`),
		"Jurisdiction can increase litigation cost if not local/acceptable."},
	{"Auto-Renewal", domain.RiskMedium, regexp.MustCompile(`(?i)\b(auto[- ]?renew|automatically renew)\b`),
		"Auto-renewal can lock you in unless notice is provided in time."},
	{"Lock-in/Minimum Commitment", domain.RiskHigh, regexp.MustCompile(`(?i)\b(lock[- ]?in|min(imum)? commitment|non[- ]?cancellable)\b`),
		"Lock-in periods reduce flexibility and can create unavoidable costs."},
	{"Non-Compete", domain.RiskHigh, regexp.MustCompile(`(?i)\b(non[- ]?compete|restraint of trade)\b`),
		"Non-compete limits future business options; check scope/duration/territory."},
	{"IP Assignment/Transfer", domain.RiskHigh, regexp.MustCompile(`(?i)\b(assign(s|ment)?|transfer)\b.*\b(intellectual property|IP)\b`),
		"IP assignment may transfer ownership; confirm what you retain."},
	{"Confidentiality/NDA", domain.RiskLow, regexp.MustCompile(`(?i)\b(confidential|non[- ]?disclosure|NDA)\b`),
		"Confidentiality is common; check duration and permitted disclosures."},
}

// DetectRedFlags scans text against every red-flag category.
func DetectRedFlags(text string) []domain.RedFlag {
	flags := make([]domain.RedFlag, 0, 4)
	for _, pat := range redFlagPatterns {
		if pat.re.MatchString(text) {
			flags = append(flags, domain.RedFlag{
				FlagType: pat.flagType,
				Severity: pat.severity,
				Reason:   pat.reason,
			})
		}
	}
	return flags
}
