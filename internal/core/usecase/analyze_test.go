package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rghosh/clausewise/internal/core/domain"
)

const vendorContractText = `PURCHASE ORDER AGREEMENT

1. SCOPE. The Vendor shall supply goods to the Client under this purchase order.
2. PAYMENT. The Client shall pay each invoice within thirty days of delivery.
3. TERMINATION. The Vendor may terminate at any time in its sole discretion.
4. INDEMNITY. The Vendor shall indemnify the Client against all claims.
`

func newAnalyzeFixture(text string) (*repoFake, *riskFake, *resolverFake, *auditFake, *AnalyzeContractUseCase) {
	repo := &repoFake{contract: &domain.Contract{
		ID:          "c-1",
		Filename:    "po.pdf",
		StoragePath: "c-1_po.pdf",
		Status:      domain.StatusUploaded,
	}}
	risk := &riskFake{
		byText: map[string]domain.ClauseAnalysis{
			"indemnify": {ClauseType: "Indemnity", RiskLevel: domain.RiskHigh, RiskReason: "broad indemnity"},
			"terminate": {ClauseType: "Termination", RiskLevel: domain.RiskHigh, RiskReason: "one-sided exit"},
		},
		fallback: domain.ClauseAnalysis{ClauseType: "General", RiskLevel: domain.RiskLow, RiskReason: "routine"},
	}
	resolver := &resolverFake{}
	audit := &auditFake{}
	uc := NewAnalyzeContractUseCase(
		repo, &extractorFake{text: text}, risk, resolver, audit,
		3, 1, time.Second,
	)
	return repo, risk, resolver, audit, uc
}

func TestAnalyzeByIDHappyPath(t *testing.T) {
	repo, risk, resolver, audit, uc := newAnalyzeFixture(vendorContractText)

	if err := uc.AnalyzeByID(context.Background(), "c-1"); err != nil {
		t.Fatalf("AnalyzeByID returned error: %v", err)
	}

	wantStatuses := []domain.ContractStatus{domain.StatusAnalyzing, domain.StatusReady}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("status calls = %v", repo.statusCalls)
	}
	for i, want := range wantStatuses {
		if repo.statusCalls[i].status != want {
			t.Fatalf("status call %d = %s, want %s", i, repo.statusCalls[i].status, want)
		}
	}

	if repo.saved == nil || repo.savedID != "c-1" {
		t.Fatalf("report not saved")
	}
	report := repo.saved

	if report.Prediction.ContractType != domain.TypeVendor {
		t.Fatalf("contract type = %s, want vendor_contract", report.Prediction.ContractType)
	}
	if report.Prediction.Method != domain.TypeMethodRules {
		t.Fatalf("method = %s, want rules", report.Prediction.Method)
	}
	if resolver.calls != 0 {
		t.Fatalf("fallback resolver must not be consulted on a confident rule result")
	}

	if report.ClauseCount != 5 {
		t.Fatalf("clause count = %d, want 5", report.ClauseCount)
	}
	if report.Selection.Budget != 3 || report.Selection.Selected != 3 || report.Selection.BaselineIncluded != 1 {
		t.Fatalf("unexpected selection stats: %+v", report.Selection)
	}
	if risk.calls != 3 {
		t.Fatalf("risk service calls = %d, want 3", risk.calls)
	}

	if len(report.Clauses) != 3 || report.Clauses[0].ClauseID != "C001" {
		t.Fatalf("unexpected analyzed clauses: %+v", report.Clauses)
	}
	if report.Summary.OverallRisk != domain.RiskHigh {
		t.Fatalf("overall = %s, want High (avg 7/3)", report.Summary.OverallRisk)
	}
	if report.Summary.Counts[domain.RiskHigh] != 2 || report.Summary.Counts[domain.RiskLow] != 1 {
		t.Fatalf("unexpected counts: %v", report.Summary.Counts)
	}

	flagTypes := map[string]bool{}
	for _, f := range report.Summary.RedFlags {
		flagTypes[f.FlagType] = true
	}
	if !flagTypes["Indemnity"] || !flagTypes["Unilateral Termination"] {
		t.Fatalf("missing red flags: %+v", report.Summary.RedFlags)
	}

	if report.Ambiguity.Level != "Low" {
		t.Fatalf("ambiguity level = %s, want Low (sole discretion only)", report.Ambiguity.Level)
	}
	if !strings.HasPrefix(report.Executive, "EXECUTIVE SUMMARY") {
		t.Fatalf("executive summary missing: %q", report.Executive)
	}

	kinds := audit.kinds()
	if len(kinds) == 0 || kinds[len(kinds)-1] != "analysis_completed" {
		t.Fatalf("audit kinds = %v", kinds)
	}
}

func TestAnalyzeByIDCompletedEventCarriesInsights(t *testing.T) {
	_, _, _, audit, uc := newAnalyzeFixture(vendorContractText)

	if err := uc.AnalyzeByID(context.Background(), "c-1"); err != nil {
		t.Fatalf("AnalyzeByID returned error: %v", err)
	}

	var completed *domain.AuditEvent
	for i := range audit.events {
		if audit.events[i].Kind == "analysis_completed" {
			completed = &audit.events[i]
		}
	}
	if completed == nil {
		t.Fatalf("no analysis_completed event, kinds = %v", audit.kinds())
	}

	if got := completed.Fields["avg_score"].(float64); got != 2.33 {
		t.Fatalf("avg_score = %v, want 2.33", got)
	}
	if got := completed.Fields["ambiguity_level"].(string); got != "Low" {
		t.Fatalf("ambiguity_level = %v, want Low", got)
	}

	flagTypes := completed.Fields["red_flag_types"].([]string)
	found := map[string]bool{}
	for _, ft := range flagTypes {
		found[ft] = true
	}
	if !found["Indemnity"] || !found["Unilateral Termination"] {
		t.Fatalf("red_flag_types = %v", flagTypes)
	}

	clauseTypes := completed.Fields["top_clause_types"].([]string)
	if len(clauseTypes) != 2 {
		t.Fatalf("top_clause_types = %v, want the two High verdicts", clauseTypes)
	}
	for _, ct := range clauseTypes {
		if ct != "Indemnity" && ct != "Termination" {
			t.Fatalf("unexpected clause type %q", ct)
		}
	}

	// Derived insights only; the event must never carry clause text.
	for key := range completed.Fields {
		if strings.Contains(key, "text") {
			t.Fatalf("unexpected raw-text field %q", key)
		}
	}
}

func TestAnalyzeByIDDegradesFailedClauseCalls(t *testing.T) {
	repo, risk, _, audit, uc := newAnalyzeFixture(vendorContractText)
	risk.err = errors.New("model unavailable")

	if err := uc.AnalyzeByID(context.Background(), "c-1"); err != nil {
		t.Fatalf("per-clause failures must not fail the document: %v", err)
	}

	report := repo.saved
	if report == nil {
		t.Fatalf("report not saved")
	}
	for _, c := range report.Clauses {
		if c.RiskLevel != domain.RiskUnclear {
			t.Fatalf("clause %s level = %s, want Unclear", c.ClauseID, c.RiskLevel)
		}
		if !strings.Contains(c.RiskReason, "model unavailable") {
			t.Fatalf("degradation reason missing: %q", c.RiskReason)
		}
	}
	if report.Summary.OverallRisk != domain.RiskLow {
		t.Fatalf("all-Unclear document aggregates to Low, got %s", report.Summary.OverallRisk)
	}

	degraded := 0
	for _, k := range audit.kinds() {
		if k == "clause_degraded" {
			degraded++
		}
	}
	if degraded != 3 {
		t.Fatalf("degraded audit events = %d, want 3", degraded)
	}
}

func TestAnalyzeByIDReportsEveryClauseVerdict(t *testing.T) {
	_, risk, _, _, uc := newAnalyzeFixture(vendorContractText)
	risk.err = errors.New("model unavailable")

	verdicts := map[domain.RiskLevel]int{}
	uc.SetVerdictObserver(func(level domain.RiskLevel) {
		verdicts[level]++
	})

	if err := uc.AnalyzeByID(context.Background(), "c-1"); err != nil {
		t.Fatalf("AnalyzeByID returned error: %v", err)
	}
	// Degraded clauses still count, as Unclear.
	if verdicts[domain.RiskUnclear] != 3 || len(verdicts) != 1 {
		t.Fatalf("verdicts = %v, want 3 Unclear", verdicts)
	}

	risk.err = nil
	if err := uc.AnalyzeByID(context.Background(), "c-1"); err != nil {
		t.Fatalf("AnalyzeByID returned error: %v", err)
	}
	if verdicts[domain.RiskHigh] != 2 || verdicts[domain.RiskLow] != 1 {
		t.Fatalf("verdicts after healthy pass = %v", verdicts)
	}
}

func TestAnalyzeByIDExtractFailureMarksFailed(t *testing.T) {
	repo := &repoFake{contract: &domain.Contract{ID: "c-1"}}
	uc := NewAnalyzeContractUseCase(
		repo, &extractorFake{err: errors.New("corrupt pdf")},
		&riskFake{}, &resolverFake{}, &auditFake{}, 0, 0, 0,
	)

	err := uc.AnalyzeByID(context.Background(), "c-1")
	if err == nil || !strings.Contains(err.Error(), "corrupt pdf") {
		t.Fatalf("err = %v", err)
	}

	last := repo.statusCalls[len(repo.statusCalls)-1]
	if last.status != domain.StatusFailed || last.errMsg == "" {
		t.Fatalf("expected failed status with message, got %+v", last)
	}
}

func TestAnalyzeByIDEmptyTextIsInvalidInput(t *testing.T) {
	repo := &repoFake{contract: &domain.Contract{ID: "c-1"}}
	uc := NewAnalyzeContractUseCase(
		repo, &extractorFake{text: "   \n "},
		&riskFake{}, &resolverFake{}, &auditFake{}, 0, 0, 0,
	)

	err := uc.AnalyzeByID(context.Background(), "c-1")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAnalyzeByIDSaveReportFailureMarksFailed(t *testing.T) {
	repo, _, _, _, uc := newAnalyzeFixture(vendorContractText)
	repo.saveErr = errors.New("db down")

	err := uc.AnalyzeByID(context.Background(), "c-1")
	if err == nil || !strings.Contains(err.Error(), "db down") {
		t.Fatalf("err = %v", err)
	}
	last := repo.statusCalls[len(repo.statusCalls)-1]
	if last.status != domain.StatusFailed {
		t.Fatalf("expected failed status, got %+v", last)
	}
}

func TestAnalyzeByIDLowConfidenceConsultsResolver(t *testing.T) {
	repo := &repoFake{contract: &domain.Contract{ID: "c-2"}}
	resolver := &resolverFake{prediction: domain.TypePrediction{
		ContractType: domain.TypeLease,
		Confidence:   0.8,
		Method:       domain.TypeMethodFallback,
	}}
	// Text with almost no category keywords keeps rule confidence at the
	// 0.30 floor, forcing the fallback path.
	uc := NewAnalyzeContractUseCase(
		repo, &extractorFake{text: "The parties record their mutual understanding in this document.\n\nBoth sides will act in good faith."},
		&riskFake{fallback: domain.ClauseAnalysis{ClauseType: "General", RiskLevel: domain.RiskLow}},
		resolver, &auditFake{}, 0, 0, 0,
	)

	if err := uc.AnalyzeByID(context.Background(), "c-2"); err != nil {
		t.Fatalf("AnalyzeByID returned error: %v", err)
	}
	if resolver.calls != 1 {
		t.Fatalf("resolver calls = %d, want 1", resolver.calls)
	}
	if repo.saved.Prediction.ContractType != domain.TypeLease {
		t.Fatalf("type = %s, want lease_agreement", repo.saved.Prediction.ContractType)
	}
	if repo.saved.Prediction.Method != domain.TypeMethodFallback {
		t.Fatalf("method = %s, want fallback", repo.saved.Prediction.Method)
	}
}
