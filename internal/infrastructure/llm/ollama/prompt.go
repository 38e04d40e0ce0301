package ollama

import "fmt"

const riskSystemPrompt = `You are a contract clause analysis engine for Indian SMEs.

Hard constraints:
- Output MUST be valid JSON only.
- Do NOT wrap output in markdown fences like ` + "```json" + `.
- Do NOT include commentary outside JSON.

Schema (exact keys):
{
  "clause_type": "...",
  "explanation": "...",
  "risk_level": "Low|Medium|High",
  "risk_reason": "...",
  "mitigation_suggestion": "..."
}`

const typeSystemPrompt = `You are a contract type classifier for Indian SME contracts.
Return ONLY valid JSON. No markdown.

Allowed contract_type values: employment_agreement, vendor_contract, lease_agreement, partnership_deed, service_contract, unknown

JSON schema:
{
  "contract_type": "employment_agreement|vendor_contract|lease_agreement|partnership_deed|service_contract|unknown",
  "confidence": 0.0,
  "evidence": ["short strings"]
}`

const rewriteSystemPrompt = `You are a contract clause negotiation assistant for Indian SMEs.

Constraints:
- Do NOT provide legal advice.
- Provide general informational suggestions only.
- Use clear, business-friendly English.
- Output ONLY valid JSON (no markdown, no code fences).

Return JSON with EXACT keys:
- is_unfavorable (boolean)
- why_unfavorable (string)
- suggested_rewrite (string)
- negotiation_points (array of strings)`

func buildRiskPrompt(clauseText string) string {
	return fmt.Sprintf(`Analyze this contract clause and return ONLY JSON matching the schema.

Clause:
"""
%s
"""`, clauseText)
}

func buildTypePrompt(snippet string) string {
	return fmt.Sprintf(`Classify the contract type using the allowed values only.
Text:
"""
%s
"""`, snippet)
}

func buildRewritePrompt(clauseText, perspective string) string {
	return fmt.Sprintf(`Assess if this clause is unfavorable to a small/medium business (SME).
If unfavorable, propose a balanced, SME-friendly rewrite (not one-sided).
Also list practical negotiation points.

Perspective: %s

Clause:
"""
%s
"""`, perspective, clauseText)
}
