package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rghosh/clausewise/internal/analysis/aggregator"
	"github.com/rghosh/clausewise/internal/analysis/compliance"
	"github.com/rghosh/clausewise/internal/analysis/contracttype"
	"github.com/rghosh/clausewise/internal/analysis/segmenter"
	"github.com/rghosh/clausewise/internal/analysis/selector"
	"github.com/rghosh/clausewise/internal/analysis/textscan"
	"github.com/rghosh/clausewise/internal/core/domain"
	"github.com/rghosh/clausewise/internal/core/ports"
)

const defaultClauseTimeout = 150 * time.Second

type AnalyzeContractUseCase struct {
	repo      ports.ContractRepository
	extractor ports.TextExtractor
	risk      ports.ClauseRiskAnalyzer
	resolver  ports.TypeResolver
	audit     ports.AuditSink

	maxClauses     int
	ensureBaseline int
	clauseTimeout  time.Duration

	onVerdict func(level domain.RiskLevel)
}

func NewAnalyzeContractUseCase(
	repo ports.ContractRepository,
	extractor ports.TextExtractor,
	risk ports.ClauseRiskAnalyzer,
	resolver ports.TypeResolver,
	audit ports.AuditSink,
	maxClauses, ensureBaseline int,
	clauseTimeout time.Duration,
) *AnalyzeContractUseCase {
	if maxClauses <= 0 {
		maxClauses = selector.DefaultMaxClauses
	}
	if ensureBaseline < 0 {
		ensureBaseline = selector.DefaultBaseline
	}
	if clauseTimeout <= 0 {
		clauseTimeout = defaultClauseTimeout
	}
	return &AnalyzeContractUseCase{
		repo:           repo,
		extractor:      extractor,
		risk:           risk,
		resolver:       resolver,
		audit:          audit,
		maxClauses:     maxClauses,
		ensureBaseline: ensureBaseline,
		clauseTimeout:  clauseTimeout,
	}
}

// SetVerdictObserver registers a hook invoked once per analyzed clause with
// the verdict level, degraded clauses included. Set it before the worker
// starts consuming; it is not guarded by a lock.
func (uc *AnalyzeContractUseCase) SetVerdictObserver(fn func(level domain.RiskLevel)) {
	uc.onVerdict = fn
}

func (uc *AnalyzeContractUseCase) AnalyzeByID(ctx context.Context, contractID string) error {
	if err := uc.markStatus(ctx, contractID, domain.StatusAnalyzing, ""); err != nil {
		return fmt.Errorf("set status=analyzing: %w", err)
	}

	report, err := uc.analysisPipeline(ctx, contractID)
	if err != nil {
		if failErr := uc.markStatus(ctx, contractID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveReport(ctx, contractID, *report); err != nil {
		if failErr := uc.markStatus(ctx, contractID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("save report: %w; mark failed status: %v", err, failErr)
		}
		return fmt.Errorf("save report: %w", err)
	}

	if err := uc.markStatus(ctx, contractID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}

	// The completed event doubles as the derived-insight record: only
	// rollups and labels, never raw contract text.
	_ = uc.audit.Record(ctx, domain.AuditEvent{
		Kind:       "analysis_completed",
		ContractID: contractID,
		Fields: map[string]any{
			"contract_type":    report.Prediction.ContractType,
			"overall_risk":     string(report.Summary.OverallRisk),
			"avg_score":        report.Summary.AvgScore,
			"ambiguity_level":  report.Ambiguity.Level,
			"clauses_total":    report.ClauseCount,
			"clauses_scored":   len(report.Clauses),
			"red_flags":        len(report.Summary.RedFlags),
			"red_flag_types":   redFlagTypes(report.Summary.RedFlags),
			"top_clause_types": topClauseTypes(report.Summary.TopHighRisk),
			"compliance_hits":  len(report.Compliance),
		},
	})

	return nil
}

func redFlagTypes(flags []domain.RedFlag) []string {
	types := make([]string, 0, len(flags))
	for _, f := range flags {
		types = append(types, f.FlagType)
	}
	return types
}

func topClauseTypes(clauses []domain.HighRiskClause) []string {
	types := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c.ClauseType != "" {
			types = append(types, c.ClauseType)
		}
	}
	return types
}

func (uc *AnalyzeContractUseCase) analysisPipeline(ctx context.Context, contractID string) (*domain.AnalysisReport, error) {
	contract, err := uc.repo.GetByID(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("fetch contract by id: %w", err)
	}

	text, err := uc.extractText(ctx, contract)
	if err != nil {
		return nil, err
	}

	report := uc.scanDocument(ctx, text)
	report.ContractID = contract.ID

	selected, stats := selector.Select(report.clauses, uc.maxClauses, uc.ensureBaseline)
	report.Selection = stats

	report.Clauses = uc.analyzeClauses(ctx, contractID, selected)
	report.Summary = aggregator.Aggregate(report.Clauses)
	report.Executive = buildExecutiveSummary(&report.AnalysisReport)
	report.CreatedAt = time.Now().UTC()

	return &report.AnalysisReport, nil
}

func (uc *AnalyzeContractUseCase) extractText(ctx context.Context, contract *domain.Contract) (string, error) {
	text, err := uc.extractor.Extract(ctx, contract)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}
	return text, nil
}

// scanReport bundles the intermediate clause list with the report under
// construction so the concurrent scan phase has one destination.
type scanReport struct {
	domain.AnalysisReport
	clauses []domain.Clause
}

// scanDocument runs the pure, stateless analyses concurrently. Each branch
// writes only its own field, so no locking is needed beyond the WaitGroup.
func (uc *AnalyzeContractUseCase) scanDocument(ctx context.Context, text string) scanReport {
	normalized := segmenter.Normalize(text)

	var report scanReport
	var wg sync.WaitGroup
	wg.Add(6)

	go func() {
		defer wg.Done()
		report.clauses = segmenter.Segment(normalized)
	}()
	go func() {
		defer wg.Done()
		report.Ambiguity = textscan.DetectAmbiguity(normalized, textscan.DefaultMaxAmbiguityHits)
	}()
	go func() {
		defer wg.Done()
		report.Deontic = textscan.ExtractDeontic(normalized, textscan.DefaultMaxDeonticEach)
	}()
	go func() {
		defer wg.Done()
		report.Entities = textscan.ExtractEntities(normalized)
	}()
	go func() {
		defer wg.Done()
		report.Compliance = compliance.Run(normalized)
	}()
	go func() {
		defer wg.Done()
		report.Prediction = contracttype.Classify(ctx, normalized, uc.resolver.ResolveType)
	}()

	wg.Wait()
	report.ClauseCount = len(report.clauses)
	return report
}

// analyzeClauses calls the external risk service once per selected clause,
// sequentially so a local model is never hammered in parallel. A failed
// call degrades that clause to Unclear instead of failing the document.
func (uc *AnalyzeContractUseCase) analyzeClauses(ctx context.Context, contractID string, selected []domain.SelectedClause) []domain.ClauseAnalysis {
	analyses := make([]domain.ClauseAnalysis, 0, len(selected))
	for _, sc := range selected {
		analysis := uc.analyzeOne(ctx, sc.Clause)
		analyses = append(analyses, analysis)

		if uc.onVerdict != nil {
			uc.onVerdict(analysis.RiskLevel)
		}
		if analysis.RiskLevel == domain.RiskUnclear {
			_ = uc.audit.Record(ctx, domain.AuditEvent{
				Kind:       "clause_degraded",
				ContractID: contractID,
				Fields:     map[string]any{"clause_id": sc.ID, "reason": analysis.RiskReason},
			})
		}
	}
	return analyses
}

func (uc *AnalyzeContractUseCase) analyzeOne(ctx context.Context, clause domain.Clause) domain.ClauseAnalysis {
	callCtx, cancel := context.WithTimeout(ctx, uc.clauseTimeout)
	defer cancel()

	analysis, err := uc.risk.AnalyzeClause(callCtx, clause.Text)
	if err != nil {
		return domain.ClauseAnalysis{
			ClauseID:   clause.ID,
			ClauseText: clause.Text,
			ClauseType: "Unknown",
			RiskLevel:  domain.RiskUnclear,
			RiskReason: fmt.Sprintf("clause analysis unavailable: %v", err),
			Mitigation: "Review manually.",
		}
	}
	analysis.ClauseID = clause.ID
	analysis.ClauseText = clause.Text
	return analysis
}

func (uc *AnalyzeContractUseCase) markStatus(ctx context.Context, contractID string, status domain.ContractStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, contractID, status, errMessage)
}
