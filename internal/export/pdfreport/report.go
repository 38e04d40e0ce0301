// Package pdfreport renders an analysis report as a downloadable PDF. The
// document mirrors the on-screen summary: executive verdict, rule-based red
// flags with compliance heuristics, the high-risk clause subset, and a
// disclaimer.
package pdfreport

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/rghosh/clausewise/internal/core/domain"
)

const disclaimer = "This report is generated automatically for informational purposes only " +
	"and does not constitute legal advice. For decisions that may have legal or financial " +
	"impact, consult a qualified legal professional."

// Write renders the report to w as an A4 PDF.
func Write(report *domain.AnalysisReport, w io.Writer) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Contract Risk Assessment Report", false)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 25)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 9, "Contract Risk Assessment Report", "", 1, "L", false, 0, "")
	doc.Ln(3)

	section(doc, "Executive Summary")
	doc.SetFont("Helvetica", "", 11)
	body(doc, fmt.Sprintf("Overall Contract Risk: %s", report.Summary.OverallRisk))
	body(doc, fmt.Sprintf("Average Risk Score: %.2f", report.Summary.AvgScore))
	body(doc, fmt.Sprintf("Clause Risk Distribution: High=%d, Medium=%d, Low=%d, Unclear=%d",
		report.Summary.Counts[domain.RiskHigh],
		report.Summary.Counts[domain.RiskMedium],
		report.Summary.Counts[domain.RiskLow],
		report.Summary.Counts[domain.RiskUnclear]))
	body(doc, fmt.Sprintf("Contract Type: %s (confidence %.2f, %s)",
		report.Prediction.ContractType, report.Prediction.Confidence, report.Prediction.Method))
	doc.Ln(3)

	section(doc, "Detected Red Flags (Rule-based)")
	doc.SetFont("Helvetica", "", 10)
	body(doc, redFlagsText(report.Summary.RedFlags))
	doc.Ln(2)
	body(doc, "Compliance Heuristic Flags:")
	body(doc, complianceText(report.Compliance))
	doc.Ln(3)

	section(doc, "Top High-Risk Clauses (analyzed subset)")
	doc.SetFont("Helvetica", "", 10)
	for _, block := range highRiskBlocks(report.Summary.TopHighRisk) {
		body(doc, block)
		doc.Ln(2)
	}
	doc.Ln(3)

	section(doc, "Disclaimer")
	doc.SetFont("Helvetica", "", 9)
	body(doc, disclaimer)

	return doc.Output(w)
}

func section(doc *fpdf.Fpdf, title string) {
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	doc.Ln(1)
}

func body(doc *fpdf.Fpdf, text string) {
	doc.MultiCell(0, 5, text, "", "L", false)
}

func redFlagsText(flags []domain.RedFlag) string {
	if len(flags) == 0 {
		return "No rule-based red flags detected."
	}
	lines := make([]string, 0, len(flags))
	for _, f := range flags {
		lines = append(lines, fmt.Sprintf("- [%s] %s: %s", f.Severity, f.FlagType, f.Reason))
	}
	return strings.Join(lines, "\n")
}

func complianceText(flags []domain.ComplianceFlag) string {
	if len(flags) == 0 {
		return "No compliance-related heuristic flags detected."
	}
	var lines []string
	for _, f := range flags {
		lines = append(lines, fmt.Sprintf("- [%s] %s", f.Severity, f.Topic))
		lines = append(lines, fmt.Sprintf("  Why flagged: %s", f.WhyFlagged))
		lines = append(lines, "  What to check:")
		for _, item := range f.WhatToCheck {
			lines = append(lines, fmt.Sprintf("   * %s", item))
		}
		lines = append(lines, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func highRiskBlocks(clauses []domain.HighRiskClause) []string {
	if len(clauses) == 0 {
		return []string{"No High-risk clauses detected in analyzed subset."}
	}
	blocks := make([]string, 0, len(clauses))
	for _, c := range clauses {
		blocks = append(blocks, fmt.Sprintf("- %s (%s): %s\n  %s",
			c.ClauseID, c.ClauseType, c.RiskReason, c.TextPreview))
	}
	return blocks
}
