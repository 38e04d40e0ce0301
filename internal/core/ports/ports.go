package ports

import (
	"context"
	"io"

	"github.com/rghosh/clausewise/internal/core/domain"
)

type ContractRepository interface {
	Create(ctx context.Context, c *domain.Contract) error
	GetByID(ctx context.Context, id string) (*domain.Contract, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContractStatus, errMessage string) error
	SaveReport(ctx context.Context, id string, report domain.AnalysisReport) error
	GetReport(ctx context.Context, id string) (*domain.AnalysisReport, error)
}

type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type MessageQueue interface {
	PublishContractUploaded(ctx context.Context, contractID string) error
	SubscribeContractUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

type TextExtractor interface {
	Extract(ctx context.Context, c *domain.Contract) (string, error)
}

// ClauseRiskAnalyzer is the external semantic clause-risk service. A
// transport error is returned to the caller; a malformed response is mapped
// to a safe Unclear verdict by the adapter, never surfaced as an error.
type ClauseRiskAnalyzer interface {
	AnalyzeClause(ctx context.Context, clauseText string) (domain.ClauseAnalysis, error)
}

// TypeResolver is the external fallback for contract-type classification,
// constrained to the fixed vocabulary plus "unknown".
type TypeResolver interface {
	ResolveType(ctx context.Context, text string) (domain.TypePrediction, error)
}

type ClauseRewriter interface {
	Rewrite(ctx context.Context, clauseText, perspective string) (domain.ClauseRewrite, error)
}

type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// TemplateLibrary is a read-only, lazily-initialized handle over the
// on-disk clause/contract template files.
type TemplateLibrary interface {
	MatchClause(clauseText, contractType string, topK int) ([]domain.TemplateMatch, error)
	Generate(contractType string) (*domain.GeneratedContract, error)
	Invalidate()
}
