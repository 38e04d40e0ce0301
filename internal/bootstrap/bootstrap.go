package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/rghosh/clausewise/internal/config"
	"github.com/rghosh/clausewise/internal/core/ports"
	"github.com/rghosh/clausewise/internal/core/usecase"
	"github.com/rghosh/clausewise/internal/infrastructure/audit"
	"github.com/rghosh/clausewise/internal/infrastructure/extractor"
	"github.com/rghosh/clausewise/internal/infrastructure/llm/ollama"
	"github.com/rghosh/clausewise/internal/infrastructure/queue/nats"
	"github.com/rghosh/clausewise/internal/infrastructure/repository/postgres"
	"github.com/rghosh/clausewise/internal/infrastructure/resilience"
	"github.com/rghosh/clausewise/internal/infrastructure/storage/localfs"
	"github.com/rghosh/clausewise/internal/infrastructure/templates"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.ContractRepository
	Templates ports.TemplateLibrary
	LLM       *ollama.Client

	IngestUC  ports.ContractIngestor
	AnalyzeUC *usecase.AnalyzeContractUseCase
	RewriteUC ports.ClauseRewriteService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewContractRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	exec := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: exec,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	auditSink, err := audit.NewJSONLSink(cfg.AuditLogPath)
	if err != nil {
		return nil, fmt.Errorf("init audit log: %w", err)
	}

	llmClient := ollama.New(cfg.OllamaURL, cfg.OllamaModel, cfg.OllamaRPS, exec)
	riskAnalyzer := ollama.NewRiskAnalyzer(llmClient)
	typeResolver := ollama.NewTypeResolver(llmClient)
	rewriter := ollama.NewRewriter(llmClient)

	textExtractor := extractor.New(storage)
	templateLib := templates.NewLibrary(cfg.TemplatePath)

	ingestUC := usecase.NewIngestContractUseCase(repo, storage, queue, auditSink)
	analyzeUC := usecase.NewAnalyzeContractUseCase(
		repo, textExtractor, riskAnalyzer, typeResolver, auditSink,
		cfg.MaxLLMClauses, cfg.EnsureBaseline,
		time.Duration(cfg.ClauseTimeoutSeconds)*time.Second,
	)
	rewriteUC := usecase.NewRewriteClauseUseCase(rewriter, auditSink)

	return &App{
		Config: cfg,

		Queue:     queue,
		Repo:      repo,
		Templates: templateLib,
		LLM:       llmClient,

		IngestUC:  ingestUC,
		AnalyzeUC: analyzeUC,
		RewriteUC: rewriteUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
