package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rghosh/clausewise/internal/core/domain"
	"github.com/rghosh/clausewise/internal/core/ports"
)

const defaultPerspective = "SME"

type RewriteClauseUseCase struct {
	rewriter ports.ClauseRewriter
	audit    ports.AuditSink
}

func NewRewriteClauseUseCase(rewriter ports.ClauseRewriter, audit ports.AuditSink) *RewriteClauseUseCase {
	return &RewriteClauseUseCase{rewriter: rewriter, audit: audit}
}

// RewriteClause asks the external service for a balanced rewrite of one
// clause. Malformed model output is already degraded inside the adapter;
// only transport-level failures surface here.
func (uc *RewriteClauseUseCase) RewriteClause(ctx context.Context, clauseText, perspective string) (domain.ClauseRewrite, error) {
	if strings.TrimSpace(clauseText) == "" {
		return domain.ClauseRewrite{}, domain.WrapError(domain.ErrInvalidInput, "rewrite clause", errors.New("empty clause text"))
	}
	if strings.TrimSpace(perspective) == "" {
		perspective = defaultPerspective
	}

	rewrite, err := uc.rewriter.Rewrite(ctx, clauseText, perspective)
	if err != nil {
		return domain.ClauseRewrite{}, fmt.Errorf("rewrite clause: %w", err)
	}

	_ = uc.audit.Record(ctx, domain.AuditEvent{
		Kind:   "clause_rewritten",
		Fields: map[string]any{"perspective": perspective, "unfavorable": rewrite.IsUnfavorable},
	})

	return rewrite, nil
}
