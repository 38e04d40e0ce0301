package domain

import "time"

type RiskLevel string

const (
	RiskLow     RiskLevel = "Low"
	RiskMedium  RiskLevel = "Medium"
	RiskHigh    RiskLevel = "High"
	RiskUnclear RiskLevel = "Unclear"
)

// Clause is one contiguous segment of contract text. The id encodes
// segmentation order (C001, C002, ...) and never changes after creation.
type Clause struct {
	ID   string `json:"clause_id"`
	Text string `json:"text"`
}

// PatternHit records a single pattern match inside one sentence-like unit.
type PatternHit struct {
	Label   string `json:"label"`
	Weight  int    `json:"weight"`
	Match   string `json:"match"`
	Snippet string `json:"snippet"`
}

type AmbiguityReport struct {
	Hits            []PatternHit `json:"hits"`
	Score           int          `json:"score"`
	Level           string       `json:"level"` // None | Low | Medium | High
	Recommendations []string     `json:"recommendations"`
}

type DeonticReport struct {
	Obligations  []string `json:"obligations"`
	Rights       []string `json:"rights"`
	Prohibitions []string `json:"prohibitions"`
}

type PartyRoles struct {
	// Roles maps a lowercased role word (client, vendor, ...) to the
	// defined party name, e.g. `ABC Pvt Ltd ("Client")`.
	Roles    map[string]string `json:"roles"`
	Mentions []string          `json:"party_mentions"`
}

type EntityReport struct {
	Parties              PartyRoles `json:"parties"`
	Organizations        []string   `json:"organizations"`
	Persons              []string   `json:"persons"`
	Locations            []string   `json:"locations"`
	Dates                []string   `json:"dates"`
	MoneyAmounts         []string   `json:"money_amounts"`
	JurisdictionMentions []string   `json:"jurisdiction_mentions"`
}

type TypeMethod string

const (
	TypeMethodRules    TypeMethod = "rules"
	TypeMethodFallback TypeMethod = "fallback"
)

type TypePrediction struct {
	ContractType string     `json:"contract_type"`
	Confidence   float64    `json:"confidence"`
	Method       TypeMethod `json:"method"`
	Evidence     []string   `json:"evidence"`
}

// SelectedClause is a ranked view over a Clause; the underlying clause is
// never mutated by selection.
type SelectedClause struct {
	Clause
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

type SelectionStats struct {
	TotalClauses     int   `json:"total_clauses"`
	Selected         int   `json:"selected"`
	Budget           int   `json:"budget"`
	BaselineIncluded int   `json:"baseline_included"`
	TopScores        []int `json:"top_scores"`
}

// ClauseAnalysis carries the semantic verdict for one selected clause. It
// is produced by the external clause-risk service and owned by the
// aggregator afterwards.
type ClauseAnalysis struct {
	ClauseID   string    `json:"clause_id"`
	ClauseText string    `json:"clause_text"`
	ClauseType string    `json:"clause_type"`
	RiskLevel  RiskLevel `json:"risk_level"`
	RiskReason string    `json:"risk_reason"`
	Mitigation string    `json:"mitigation,omitempty"`
}

type HighRiskClause struct {
	ClauseID    string `json:"clause_id"`
	ClauseType  string `json:"clause_type"`
	RiskReason  string `json:"risk_reason"`
	TextPreview string `json:"text_preview"`
}

type RedFlag struct {
	FlagType string    `json:"flag_type"`
	Severity RiskLevel `json:"severity"`
	Reason   string    `json:"reason"`
}

type ContractSummary struct {
	OverallRisk RiskLevel         `json:"overall_risk"`
	AvgScore    float64           `json:"avg_score"`
	Counts      map[RiskLevel]int `json:"counts"`
	TopHighRisk []HighRiskClause  `json:"top_high_risk"`
	RedFlags    []RedFlag         `json:"red_flags"`
}

type ComplianceFlag struct {
	Topic       string    `json:"topic"`
	Severity    RiskLevel `json:"severity"`
	WhyFlagged  string    `json:"why_flagged"`
	WhatToCheck []string  `json:"what_to_check"`
}

type ClauseRewrite struct {
	IsUnfavorable     bool     `json:"is_unfavorable"`
	WhyUnfavorable    string   `json:"why_unfavorable"`
	SuggestedRewrite  string   `json:"suggested_rewrite"`
	NegotiationPoints []string `json:"negotiation_points"`
}

// AnalysisReport is the full structured output of one analysis run. It is
// recomputed wholesale on every run and persisted as a single snapshot.
type AnalysisReport struct {
	ContractID  string           `json:"contract_id"`
	Prediction  TypePrediction   `json:"prediction"`
	Ambiguity   AmbiguityReport  `json:"ambiguity"`
	Deontic     DeonticReport    `json:"deontic"`
	Entities    EntityReport     `json:"entities"`
	Compliance  []ComplianceFlag `json:"compliance"`
	ClauseCount int              `json:"clause_count"`
	Selection   SelectionStats   `json:"selection"`
	Clauses     []ClauseAnalysis `json:"clauses"`
	Summary     ContractSummary  `json:"summary"`
	Executive   string           `json:"executive_summary"`
	CreatedAt   time.Time        `json:"created_at"`
}

// AuditEvent is one append-only record for the audit log. Recording is
// fire-and-forget: sink failures never fail the analysis.
type AuditEvent struct {
	Kind       string         `json:"kind"`
	ContractID string         `json:"contract_id"`
	Fields     map[string]any `json:"fields,omitempty"`
}

type TemplateMatch struct {
	TemplateID    string   `json:"template_id"`
	TemplateName  string   `json:"template_name"`
	Category      string   `json:"category"`
	ContractTypes []string `json:"contract_types"`
	Similarity    int      `json:"similarity_score"` // 0-100
	TemplateText  string   `json:"template_text"`
}

type GeneratedContract struct {
	ContractType string `json:"contract_type"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Text         string `json:"text"`
}
