// Package contracttype predicts the contract category with a two-stage
// strategy: a fast keyword/pattern rule phase, then an external semantic
// fallback when local confidence is too low to trust.
package contracttype

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/rghosh/clausewise/internal/core/domain"
)

// FallbackThreshold is the rule-phase confidence below which the external
// resolver is consulted.
const FallbackThreshold = 0.55

// FallbackFunc resolves the contract type via the external semantic
// service, constrained to the fixed vocabulary plus "unknown".
type FallbackFunc func(ctx context.Context, text string) (domain.TypePrediction, error)

var keywordBuckets = map[string][]string{
	domain.TypeEmployment: {
		"employee", "employer", "employment", "salary", "wages", "probation",
		"notice period", "termination", "hr", "designation", "work hours",
		"confidentiality", "non-compete", "non solicitation", "leave", "appraisal",
		"ctc", "joining", "offer letter",
	},
	domain.TypeVendor: {
		"vendor", "purchase order", "po", "supply", "goods", "delivery",
		"acceptance", "invoice", "quality", "inspection", "warranty",
		"indemnity", "penalty", "liquidated damages", "service levels",
		"client", "supplier",
	},
	domain.TypeLease: {
		"lease", "rent", "landlord", "tenant", "premises", "security deposit",
		"maintenance", "possession", "eviction", "utility", "lock-in",
		"renewal", "rent escalation", "fit-out", "termination of lease",
	},
	domain.TypePartnership: {
		"partnership", "partner", "profit sharing", "capital contribution",
		"drawings", "firm", "partnership deed", "dissolution", "accounts",
		"admission of partner", "retirement", "indemnify partners",
	},
	domain.TypeService: {
		"services", "statement of work", "sow", "scope of work", "deliverables",
		"milestone", "sla", "support", "maintenance", "professional services",
		"fees", "payment terms", "termination", "confidentiality",
	},
}

type strongPattern struct {
	contractType string
	label        string
	boost        int
	re           *regexp.Regexp
}

// Phrases far more category-specific than any single keyword.
var strongPatterns = []strongPattern{
	{domain.TypeEmployment, "offer/appointment letter", 6, regexp.MustCompile(`(?i)\b(offer letter|appointment letter|employment agreement)\b`)},
	{domain.TypeLease, "lease/rent agreement", 6, regexp.MustCompile(`(?i)\b(lease agreement|rent agreement|lessor|lessee)\b`)},
	{domain.TypePartnership, "partnership deed", 6, regexp.MustCompile(`(?i)\b(partnership deed|partners? hereby agree)\b`)},
	{domain.TypeVendor, "purchase order/supply", 5, regexp.MustCompile(`(?i)\b(purchase order|supplier|supply of goods)\b`)},
	{domain.TypeService, "statement of work", 5, regexp.MustCompile(`(?i)\b(statement of work|scope of services|service agreement)\b`)},
}

const (
	lowSignalConfidence = 0.30
	maxEvidence         = 6
	maxKeywordEvidence  = 5
)

// ClassifyRules runs the rule phase only. Per category the score is the
// sum of matched strong-pattern boosts plus the count of distinct bucket
// keywords present anywhere in the text (case-insensitive). Confidence
// rewards absolute signal and separation from the runner-up, capped below
// certainty; a best score of 1 or less floors confidence at 0.30.
func ClassifyRules(text string) domain.TypePrediction {
	lower := strings.ToLower(text)

	scores := make(map[string]int, len(keywordBuckets))
	evidence := make(map[string][]string, len(keywordBuckets))

	for _, sp := range strongPatterns {
		if sp.re.MatchString(text) {
			scores[sp.contractType] += sp.boost
			evidence[sp.contractType] = append(evidence[sp.contractType], "pattern:"+sp.label)
		}
	}

	for ctype, bucket := range keywordBuckets {
		kwEvidence := 0
		for _, kw := range bucket {
			if !strings.Contains(lower, kw) {
				continue
			}
			scores[ctype]++
			if kwEvidence < maxKeywordEvidence {
				evidence[ctype] = append(evidence[ctype], "kw:"+kw)
				kwEvidence++
			}
		}
	}

	best, second := topTwo(scores)
	if scores[best] == 0 {
		// Zero evidence anywhere: no category won, only the fallback can
		// name one.
		return domain.TypePrediction{
			ContractType: domain.TypeUnknown,
			Confidence:   lowSignalConfidence,
			Method:       domain.TypeMethodRules,
			Evidence:     []string{},
		}
	}

	confidence := lowSignalConfidence
	if scores[best] > 1 {
		raw := 0.45 + float64(scores[best])/20.0 + float64(scores[best]-second)/10.0
		confidence = math.Min(0.95, raw)
	}

	ev := evidence[best]
	if len(ev) > maxEvidence {
		ev = ev[:maxEvidence]
	}

	return domain.TypePrediction{
		ContractType: best,
		Confidence:   round2(confidence),
		Method:       domain.TypeMethodRules,
		Evidence:     ev,
	}
}

// Classify runs the rule phase and, when its confidence falls below
// FallbackThreshold, delegates to the external resolver. An "unknown"
// fallback answer (including any fallback failure) never downgrades a
// non-unknown rule result.
func Classify(ctx context.Context, text string, fallback FallbackFunc) domain.TypePrediction {
	ruled := ClassifyRules(text)
	if ruled.Confidence >= FallbackThreshold || fallback == nil {
		return ruled
	}

	resolved, err := fallback(ctx, text)
	if err != nil {
		resolved = domain.TypePrediction{
			ContractType: domain.TypeUnknown,
			Method:       domain.TypeMethodFallback,
			Evidence:     []string{"fallback:" + err.Error()},
		}
	}
	if !domain.IsContractType(resolved.ContractType) {
		resolved.ContractType = domain.TypeUnknown
	}
	resolved.Method = domain.TypeMethodFallback

	if resolved.ContractType == domain.TypeUnknown && ruled.ContractType != domain.TypeUnknown {
		return ruled
	}
	return resolved
}

// topTwo returns the winning category and the runner-up score. Ties break
// on category name so the result is deterministic across runs.
func topTwo(scores map[string]int) (string, int) {
	type ranked struct {
		ctype string
		score int
	}
	all := make([]ranked, 0, len(keywordBuckets))
	for ctype := range keywordBuckets {
		all = append(all, ranked{ctype, scores[ctype]})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].ctype < all[j].ctype
	})
	return all[0].ctype, all[1].score
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
