package usecase

import (
	"context"
	"io"
	"strings"

	"github.com/rghosh/clausewise/internal/core/domain"
)

type statusCall struct {
	status domain.ContractStatus
	errMsg string
}

type repoFake struct {
	contract    *domain.Contract
	getErr      error
	createErr   error
	saveErr     error
	statusErr   error
	created     *domain.Contract
	statusCalls []statusCall
	savedID     string
	saved       *domain.AnalysisReport
}

func (f *repoFake) Create(_ context.Context, c *domain.Contract) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = c
	return nil
}

func (f *repoFake) GetByID(context.Context, string) (*domain.Contract, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.contract
	return &copied, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, _ string, status domain.ContractStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if f.statusErr != nil && status != domain.StatusFailed {
		return f.statusErr
	}
	return nil
}

func (f *repoFake) SaveReport(_ context.Context, id string, report domain.AnalysisReport) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedID = id
	f.saved = &report
	return nil
}

func (f *repoFake) GetReport(context.Context, string) (*domain.AnalysisReport, error) {
	return f.saved, nil
}

type storageFake struct {
	err  error
	keys []string
}

func (f *storageFake) Save(_ context.Context, key string, _ io.Reader) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, f.err
}

type queueFake struct {
	err       error
	published []string
}

func (f *queueFake) PublishContractUploaded(_ context.Context, contractID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, contractID)
	return nil
}

func (f *queueFake) SubscribeContractUploaded(context.Context, func(context.Context, string) error) error {
	return nil
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, *domain.Contract) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// riskFake returns a canned verdict keyed by substring, or errs on every
// call when err is set.
type riskFake struct {
	err      error
	byText   map[string]domain.ClauseAnalysis
	fallback domain.ClauseAnalysis
	calls    int
}

func (f *riskFake) AnalyzeClause(_ context.Context, clauseText string) (domain.ClauseAnalysis, error) {
	f.calls++
	if f.err != nil {
		return domain.ClauseAnalysis{}, f.err
	}
	for key, analysis := range f.byText {
		if key != "" && strings.Contains(clauseText, key) {
			return analysis, nil
		}
	}
	return f.fallback, nil
}

type resolverFake struct {
	prediction domain.TypePrediction
	err        error
	calls      int
}

func (f *resolverFake) ResolveType(context.Context, string) (domain.TypePrediction, error) {
	f.calls++
	if f.err != nil {
		return domain.TypePrediction{}, f.err
	}
	return f.prediction, nil
}

type rewriterFake struct {
	rewrite domain.ClauseRewrite
	err     error
}

func (f *rewriterFake) Rewrite(context.Context, string, string) (domain.ClauseRewrite, error) {
	if f.err != nil {
		return domain.ClauseRewrite{}, f.err
	}
	return f.rewrite, nil
}

type auditFake struct {
	err    error
	events []domain.AuditEvent
}

func (f *auditFake) Record(_ context.Context, event domain.AuditEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *auditFake) kinds() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}
