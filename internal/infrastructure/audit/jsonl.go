// Package audit appends analysis lifecycle events to a local JSONL file,
// one JSON object per line. The log is append-only by construction and
// exists for traceability, not for metrics (Prometheus covers those).
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rghosh/clausewise/internal/core/domain"
)

type JSONLSink struct {
	path string

	mu sync.Mutex
}

func NewJSONLSink(path string) (*JSONLSink, error) {
	if path == "" {
		path = "./data/audit/audit_log.jsonl"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	return &JSONLSink{path: path}, nil
}

type auditLine struct {
	TsUTC      string         `json:"ts_utc"`
	Kind       string         `json:"kind"`
	ContractID string         `json:"contract_id,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
}

func (s *JSONLSink) Record(_ context.Context, event domain.AuditEvent) error {
	line, err := json.Marshal(auditLine{
		TsUTC:      time.Now().UTC().Format(time.RFC3339Nano),
		Kind:       event.Kind,
		ContractID: event.ContractID,
		Fields:     event.Fields,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
