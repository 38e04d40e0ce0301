package ports

import (
	"context"
	"io"

	"github.com/rghosh/clausewise/internal/core/domain"
)

type ContractIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Contract, error)
}

type ContractAnalyzer interface {
	AnalyzeByID(ctx context.Context, contractID string) error
}

type ClauseRewriteService interface {
	RewriteClause(ctx context.Context, clauseText, perspective string) (domain.ClauseRewrite, error)
}
