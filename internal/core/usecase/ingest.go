package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rghosh/clausewise/internal/core/domain"
	"github.com/rghosh/clausewise/internal/core/ports"
)

// Extensions the pipeline can extract text from. Anything else is
// rejected at upload time so the caller learns immediately instead of
// watching the analysis fail later.
var supportedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
}

type IngestContractUseCase struct {
	repo    ports.ContractRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	audit   ports.AuditSink
}

func NewIngestContractUseCase(
	repo ports.ContractRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	audit ports.AuditSink,
) *IngestContractUseCase {
	return &IngestContractUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
		audit:   audit,
	}
}

func (uc *IngestContractUseCase) Upload(
	ctx context.Context,
	filename, mimeType string,
	body io.Reader,
) (*domain.Contract, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedExtensions[ext] {
		return nil, domain.WrapError(
			domain.ErrUnsupportedFileType,
			"upload contract",
			fmt.Errorf("extension %q (supported: .pdf, .txt)", ext),
		)
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	contract := &domain.Contract{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, contract); err != nil {
		return nil, fmt.Errorf("create contract metadata: %w", err)
	}

	if err := uc.queue.PublishContractUploaded(ctx, contract.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	// Audit failures never fail the upload.
	_ = uc.audit.Record(ctx, domain.AuditEvent{
		Kind:       "contract_uploaded",
		ContractID: contract.ID,
		Fields:     map[string]any{"filename": filename},
	})

	return contract, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "contract.bin"
	}
	return base
}
