package ollama

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rghosh/clausewise/internal/core/domain"
)

type Rewriter struct {
	client *Client
}

func NewRewriter(client *Client) *Rewriter {
	return &Rewriter{client: client}
}

type rawRewriteResult struct {
	IsUnfavorable     bool     `json:"is_unfavorable"`
	WhyUnfavorable    string   `json:"why_unfavorable"`
	SuggestedRewrite  string   `json:"suggested_rewrite"`
	NegotiationPoints []string `json:"negotiation_points"`
}

// Rewrite asks the model for a balanced counter-draft of one clause. When
// the model ignores the JSON contract, the cleaned prose is surfaced as
// the suggested rewrite rather than lost.
func (r *Rewriter) Rewrite(ctx context.Context, clauseText, perspective string) (domain.ClauseRewrite, error) {
	raw, err := r.client.chat(ctx, "rewrite_clause", rewriteSystemPrompt, buildRewritePrompt(clauseText, perspective), 0.2)
	if err != nil {
		return domain.ClauseRewrite{}, err
	}

	cleaned := stripCodeFences(raw)
	blob := extractJSONObject(cleaned)
	if blob == "" {
		return domain.ClauseRewrite{
			IsUnfavorable:     false,
			WhyUnfavorable:    "No JSON object found in model output.",
			SuggestedRewrite:  cleaned,
			NegotiationPoints: []string{},
		}, nil
	}

	var result rawRewriteResult
	if err := json.Unmarshal([]byte(blob), &result); err != nil {
		return domain.ClauseRewrite{
			IsUnfavorable:     false,
			WhyUnfavorable:    "Model output was not valid JSON.",
			SuggestedRewrite:  cleaned,
			NegotiationPoints: []string{},
		}, nil
	}

	points := make([]string, 0, len(result.NegotiationPoints))
	for _, p := range result.NegotiationPoints {
		if strings.TrimSpace(p) != "" {
			points = append(points, p)
		}
	}

	return domain.ClauseRewrite{
		IsUnfavorable:     result.IsUnfavorable,
		WhyUnfavorable:    result.WhyUnfavorable,
		SuggestedRewrite:  result.SuggestedRewrite,
		NegotiationPoints: points,
	}, nil
}
