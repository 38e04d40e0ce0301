package ollama

import (
	"context"
	"encoding/json"
	"math"

	"github.com/rghosh/clausewise/internal/core/domain"
)

// maxTypeSnippet keeps the classification prompt small; the opening pages
// carry the type signal.
const maxTypeSnippet = 6000

type TypeResolver struct {
	client *Client
}

func NewTypeResolver(client *Client) *TypeResolver {
	return &TypeResolver{client: client}
}

type rawTypeResult struct {
	ContractType string   `json:"contract_type"`
	Confidence   float64  `json:"confidence"`
	Evidence     []string `json:"evidence"`
}

// ResolveType asks the model for a category from the fixed vocabulary.
// Malformed output maps to unknown/0.0 without error; only transport
// failures are returned.
func (r *TypeResolver) ResolveType(ctx context.Context, text string) (domain.TypePrediction, error) {
	snippet := text
	if len(snippet) > maxTypeSnippet {
		snippet = snippet[:maxTypeSnippet]
	}

	raw, err := r.client.chat(ctx, "resolve_type", typeSystemPrompt, buildTypePrompt(snippet), 0.0)
	if err != nil {
		return domain.TypePrediction{}, err
	}

	blob := extractJSONObject(stripCodeFences(raw))
	if blob == "" {
		return unknownPrediction("no_json"), nil
	}

	var result rawTypeResult
	if err := json.Unmarshal([]byte(blob), &result); err != nil {
		return unknownPrediction("bad_json"), nil
	}

	if !domain.IsContractType(result.ContractType) {
		result.ContractType = domain.TypeUnknown
	}
	confidence := result.Confidence
	if math.IsNaN(confidence) || confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	evidence := result.Evidence
	if len(evidence) > 6 {
		evidence = evidence[:6]
	}

	return domain.TypePrediction{
		ContractType: result.ContractType,
		Confidence:   math.Round(confidence*100) / 100,
		Method:       domain.TypeMethodFallback,
		Evidence:     evidence,
	}, nil
}

func unknownPrediction(reason string) domain.TypePrediction {
	return domain.TypePrediction{
		ContractType: domain.TypeUnknown,
		Confidence:   0.0,
		Method:       domain.TypeMethodFallback,
		Evidence:     []string{"fallback:" + reason},
	}
}
