package aggregator

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rghosh/clausewise/internal/core/domain"
)

func analysis(id string, level domain.RiskLevel, text string) domain.ClauseAnalysis {
	return domain.ClauseAnalysis{
		ClauseID:   id,
		ClauseText: text,
		ClauseType: "General",
		RiskLevel:  level,
		RiskReason: "test reason",
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	summary := Aggregate(nil)

	if summary.OverallRisk != domain.RiskUnclear {
		t.Fatalf("overall = %s, want Unclear", summary.OverallRisk)
	}
	if summary.AvgScore != 0.0 {
		t.Fatalf("avg = %v, want 0.0", summary.AvgScore)
	}
	for level, n := range summary.Counts {
		if n != 0 {
			t.Fatalf("count[%s] = %d, want 0", level, n)
		}
	}
	if len(summary.RedFlags) != 0 || len(summary.TopHighRisk) != 0 {
		t.Fatalf("expected empty lists, got %+v", summary)
	}
}

func TestOverallBucketBoundaries(t *testing.T) {
	tests := []struct {
		avg  float64
		want domain.RiskLevel
	}{
		{2.3, domain.RiskHigh},
		{2.29999, domain.RiskMedium},
		{1.7, domain.RiskMedium},
		{1.69999, domain.RiskLow},
		{3.0, domain.RiskHigh},
		{1.0, domain.RiskLow},
	}
	for _, tt := range tests {
		if got := overallBucket(tt.avg); got != tt.want {
			t.Fatalf("overallBucket(%v) = %s, want %s", tt.avg, got, tt.want)
		}
	}
}

func TestAggregateWeightsAndCounts(t *testing.T) {
	summary := Aggregate([]domain.ClauseAnalysis{
		analysis("C001", domain.RiskHigh, "high risk clause"),
		analysis("C002", domain.RiskMedium, "medium risk clause"),
		analysis("C003", domain.RiskLow, "low risk clause"),
		analysis("C004", domain.RiskUnclear, "unclear clause"),
	})

	// (3 + 2 + 1 + 1) / 4 = 1.75 -> Medium
	if summary.AvgScore != 1.75 {
		t.Fatalf("avg = %v, want 1.75", summary.AvgScore)
	}
	if summary.OverallRisk != domain.RiskMedium {
		t.Fatalf("overall = %s, want Medium", summary.OverallRisk)
	}
	for _, level := range []domain.RiskLevel{domain.RiskHigh, domain.RiskMedium, domain.RiskLow, domain.RiskUnclear} {
		if summary.Counts[level] != 1 {
			t.Fatalf("count[%s] = %d, want 1", level, summary.Counts[level])
		}
	}
}

func TestAggregateUnknownLevelCountsAsUnclear(t *testing.T) {
	summary := Aggregate([]domain.ClauseAnalysis{
		analysis("C001", domain.RiskLevel("Catastrophic"), "odd clause"),
	})
	if summary.Counts[domain.RiskUnclear] != 1 {
		t.Fatalf("unsupported level should bucket as Unclear, got %+v", summary.Counts)
	}
}

func TestAggregateTopHighRiskCappedWithPreview(t *testing.T) {
	long := strings.Repeat("risky text with\nnewlines ", 20)
	var clauses []domain.ClauseAnalysis
	for i := 0; i < 12; i++ {
		clauses = append(clauses, analysis("C0"+string(rune('0'+i%10)), domain.RiskHigh, long))
	}
	summary := Aggregate(clauses)

	if len(summary.TopHighRisk) != 8 {
		t.Fatalf("top high risk length = %d, want 8", len(summary.TopHighRisk))
	}
	p := summary.TopHighRisk[0].TextPreview
	if !strings.HasSuffix(p, "...") || len(p) != 223 {
		t.Fatalf("unexpected preview: len=%d %q", len(p), p)
	}
	if strings.Contains(p, "\n") {
		t.Fatalf("preview must flatten newlines")
	}
}

func TestAggregatePreviewKeepsRunesWhole(t *testing.T) {
	// A rupee sign straddling the truncation point must not be split.
	long := strings.Repeat("₹", 100)
	summary := Aggregate([]domain.ClauseAnalysis{analysis("C001", domain.RiskHigh, long)})

	if len(summary.TopHighRisk) != 1 {
		t.Fatalf("expected one high-risk clause, got %d", len(summary.TopHighRisk))
	}
	p := summary.TopHighRisk[0].TextPreview
	if !utf8.ValidString(p) {
		t.Fatalf("preview split a rune: %q", p)
	}
	if !strings.HasSuffix(p, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", p)
	}
}

func TestAggregateRedFlagsFromWholeDocument(t *testing.T) {
	// The per-clause verdicts are all Low, but the pattern scan still
	// raises flags from the concatenated text.
	summary := Aggregate([]domain.ClauseAnalysis{
		analysis("C001", domain.RiskLow, "The Vendor shall indemnify the Client."),
		analysis("C002", domain.RiskLow, "This contract shall automatically renew each year."),
	})

	got := map[string]bool{}
	for _, f := range summary.RedFlags {
		got[f.FlagType] = true
	}
	if !got["Indemnity"] || !got["Auto-Renewal"] {
		t.Fatalf("missing expected red flags: %+v", summary.RedFlags)
	}
}

func TestDetectRedFlagsUnilateralTermination(t *testing.T) {
	flags := DetectRedFlags("The Vendor may terminate at any time in its sole discretion.")
	found := false
	for _, f := range flags {
		if f.FlagType == "Unilateral Termination" && f.Severity == domain.RiskHigh {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Unilateral Termination flag, got %+v", flags)
	}
}

func TestDetectRedFlagsCleanText(t *testing.T) {
	if flags := DetectRedFlags("The parties will meet weekly to review progress."); len(flags) != 0 {
		t.Fatalf("expected no flags, got %+v", flags)
	}
}
