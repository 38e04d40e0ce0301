package pdfreport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rghosh/clausewise/internal/core/domain"
)

func sampleReport() *domain.AnalysisReport {
	return &domain.AnalysisReport{
		ContractID: "c-123",
		Prediction: domain.TypePrediction{
			ContractType: domain.TypeVendor,
			Confidence:   0.95,
			Method:       domain.TypeMethodRules,
		},
		Compliance: []domain.ComplianceFlag{
			{
				Topic:       "Foreign governing law",
				Severity:    domain.RiskHigh,
				WhyFlagged:  "Contract appears governed by foreign law.",
				WhatToCheck: []string{"Confirm governing law", "Check enforcement cost"},
			},
		},
		Summary: domain.ContractSummary{
			OverallRisk: domain.RiskHigh,
			AvgScore:    2.5,
			Counts:      map[domain.RiskLevel]int{domain.RiskHigh: 2, domain.RiskLow: 1},
			TopHighRisk: []domain.HighRiskClause{
				{ClauseID: "C003", ClauseType: "Termination", RiskReason: "Unilateral exit", TextPreview: "The Vendor may terminate at any time."},
			},
			RedFlags: []domain.RedFlag{
				{FlagType: "Unilateral Termination", Severity: domain.RiskHigh, Reason: "One party can exit at will."},
			},
		},
	}
}

func TestWriteProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(sampleReport(), &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output does not start with PDF header: %q", buf.Bytes()[:8])
	}
	if buf.Len() < 1000 {
		t.Fatalf("suspiciously small PDF: %d bytes", buf.Len())
	}
}

func TestWriteHandlesEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&domain.AnalysisReport{}, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
}

func TestRedFlagsText(t *testing.T) {
	if got := redFlagsText(nil); got != "No rule-based red flags detected." {
		t.Fatalf("empty flags text = %q", got)
	}
	got := redFlagsText([]domain.RedFlag{
		{FlagType: "Indemnity", Severity: domain.RiskHigh, Reason: "Uncapped."},
		{FlagType: "Auto-Renewal", Severity: domain.RiskMedium, Reason: "Silent renewal."},
	})
	want := "- [High] Indemnity: Uncapped.\n- [Medium] Auto-Renewal: Silent renewal."
	if got != want {
		t.Fatalf("flags text = %q, want %q", got, want)
	}
}

func TestComplianceText(t *testing.T) {
	if got := complianceText(nil); got != "No compliance-related heuristic flags detected." {
		t.Fatalf("empty compliance text = %q", got)
	}
	got := complianceText([]domain.ComplianceFlag{
		{
			Topic:       "Stamp duty",
			Severity:    domain.RiskMedium,
			WhyFlagged:  "No stamping language found.",
			WhatToCheck: []string{"Check state stamp duty rules"},
		},
	})
	for _, want := range []string{"- [Medium] Stamp duty", "Why flagged: No stamping language found.", "* Check state stamp duty rules"} {
		if !strings.Contains(got, want) {
			t.Fatalf("compliance text missing %q:\n%s", want, got)
		}
	}
}

func TestHighRiskBlocks(t *testing.T) {
	blocks := highRiskBlocks(nil)
	if len(blocks) != 1 || blocks[0] != "No High-risk clauses detected in analyzed subset." {
		t.Fatalf("empty blocks = %v", blocks)
	}
	blocks = highRiskBlocks([]domain.HighRiskClause{
		{ClauseID: "C002", ClauseType: "Indemnity", RiskReason: "One-sided", TextPreview: "The Vendor shall indemnify..."},
	})
	want := "- C002 (Indemnity): One-sided\n  The Vendor shall indemnify..."
	if blocks[0] != want {
		t.Fatalf("block = %q, want %q", blocks[0], want)
	}
}
