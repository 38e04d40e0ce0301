package ollama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rghosh/clausewise/internal/core/domain"
)

type RiskAnalyzer struct {
	client *Client
}

func NewRiskAnalyzer(client *Client) *RiskAnalyzer {
	return &RiskAnalyzer{client: client}
}

// rawRiskResult accepts every key variant the model has been seen to emit.
type rawRiskResult struct {
	ClauseType       string `json:"clause_type"`
	Explanation      string `json:"explanation"`
	Explain          string `json:"explain"`
	RiskLevel        string `json:"risk_level"`
	RiskReason       string `json:"risk_reason"`
	RiskReasonSpaced string `json:"risk reason"`
	Mitigation       string `json:"mitigation_suggestion"`
	MitigationSpaced string `json:"mitigation suggestion"`
}

// AnalyzeClause returns the semantic verdict for one clause. Transport
// failures are the only errors; a malformed model response degrades to a
// well-formed Unclear verdict carrying the degradation reason.
func (a *RiskAnalyzer) AnalyzeClause(ctx context.Context, clauseText string) (domain.ClauseAnalysis, error) {
	raw, err := a.client.chat(ctx, "analyze_clause", riskSystemPrompt, buildRiskPrompt(clauseText), 0.1)
	if err != nil {
		return domain.ClauseAnalysis{}, err
	}

	cleaned := stripCodeFences(raw)
	blob := extractJSONObject(cleaned)
	if blob == "" {
		return unclearVerdict("No JSON object found in model output (missing '{' or '}')."), nil
	}

	var result rawRiskResult
	if err := json.Unmarshal([]byte(blob), &result); err != nil {
		return unclearVerdict(fmt.Sprintf("Model output was not valid JSON: %v.", err)), nil
	}

	analysis := domain.ClauseAnalysis{
		ClauseType: firstNonEmpty(result.ClauseType, "Unknown"),
		RiskLevel:  domain.RiskLevel(result.RiskLevel),
		RiskReason: firstNonEmpty(result.RiskReason, result.RiskReasonSpaced),
		Mitigation: firstNonEmpty(result.Mitigation, result.MitigationSpaced),
	}
	switch analysis.RiskLevel {
	case domain.RiskLow, domain.RiskMedium, domain.RiskHigh:
	default:
		analysis.RiskLevel = domain.RiskUnclear
	}
	if analysis.RiskReason == "" {
		analysis.RiskReason = firstNonEmpty(result.Explanation, result.Explain)
	}
	return analysis, nil
}

func unclearVerdict(reason string) domain.ClauseAnalysis {
	return domain.ClauseAnalysis{
		ClauseType: "Unknown",
		RiskLevel:  domain.RiskUnclear,
		RiskReason: reason,
		Mitigation: "Review manually.",
	}
}
