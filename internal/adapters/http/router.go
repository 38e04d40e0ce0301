package httpadapter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rghosh/clausewise/internal/config"
	"github.com/rghosh/clausewise/internal/core/ports"
	"github.com/rghosh/clausewise/internal/export/pdfreport"
	"github.com/rghosh/clausewise/internal/observability/metrics"
)

const (
	serviceName      = "api"
	backpressureWait = 2 * time.Second
)

type Router struct {
	cfg       config.Config
	ingest    ports.ContractIngestor
	rewriter  ports.ClauseRewriteService
	repo      ports.ContractRepository
	templates ports.TemplateLibrary
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingest ports.ContractIngestor,
	rewriter ports.ClauseRewriteService,
	repo ports.ContractRepository,
	templates ports.TemplateLibrary,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:       cfg,
		ingest:    ingest,
		rewriter:  rewriter,
		repo:      repo,
		templates: templates,
		metrics:   m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/contracts", rt.uploadContract)
	mux.HandleFunc("/v1/contracts/", rt.contractRoutes)
	mux.HandleFunc("/v1/clauses/rewrite", rt.rewriteClause)
	mux.HandleFunc("/v1/templates/match", rt.matchTemplates)
	mux.HandleFunc("/v1/templates/generate", rt.generateContract)
	mux.HandleFunc("/v1/templates/invalidate", rt.invalidateTemplates)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, backpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	contract, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if rt.metrics != nil {
		rt.metrics.RecordUpload(serviceName, err)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, contract)
}

// contractRoutes dispatches /v1/contracts/{id}, /v1/contracts/{id}/report
// and /v1/contracts/{id}/report.pdf.
func (rt *Router) contractRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/contracts/")
	switch {
	case strings.HasSuffix(rest, "/report.pdf"):
		rt.getReportPDF(w, r, strings.TrimSuffix(rest, "/report.pdf"))
	case strings.HasSuffix(rest, "/report"):
		rt.getReport(w, r, strings.TrimSuffix(rest, "/report"))
	default:
		rt.getContract(w, r, rest)
	}
}

func (rt *Router) getContract(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "contract id is required"})
		return
	}

	contract, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (rt *Router) getReport(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "contract id is required"})
		return
	}

	report, err := rt.repo.GetReport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (rt *Router) getReportPDF(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "contract id is required"})
		return
	}

	report, err := rt.repo.GetReport(r.Context(), id)
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.RecordPDFExport(serviceName, err)
		}
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	err = pdfreport.Write(report, &buf)
	if rt.metrics != nil {
		rt.metrics.RecordPDFExport(serviceName, err)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="risk_report_`+id+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (rt *Router) rewriteClause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		ClauseText  string `json:"clause_text"`
		Perspective string `json:"perspective"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	rewrite, err := rt.rewriter.RewriteClause(r.Context(), req.ClauseText, req.Perspective)
	if rt.metrics != nil {
		rt.metrics.RecordRewrite(serviceName, err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rewrite)
}

func (rt *Router) matchTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		ClauseText   string `json:"clause_text"`
		ContractType string `json:"contract_type"`
		TopK         int    `json:"top_k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.ClauseText) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "clause_text is required"})
		return
	}

	matches, err := rt.templates.MatchClause(req.ClauseText, req.ContractType, req.TopK)
	if rt.metrics != nil {
		rt.metrics.RecordTemplateOp(serviceName, "match", err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

func (rt *Router) generateContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	contractType := strings.TrimSpace(r.URL.Query().Get("contract_type"))
	if contractType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "contract_type is required"})
		return
	}

	generated, err := rt.templates.Generate(contractType)
	if rt.metrics != nil {
		rt.metrics.RecordTemplateOp(serviceName, "generate", err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generated)
}

func (rt *Router) invalidateTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	rt.templates.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
