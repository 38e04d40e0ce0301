package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rghosh/clausewise/internal/core/domain"
)

func TestRecordAppendsOneLinePerEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.jsonl")
	sink, err := NewJSONLSink(path)
	if err != nil {
		t.Fatalf("NewJSONLSink() error = %v", err)
	}

	events := []domain.AuditEvent{
		{Kind: "contract_uploaded", ContractID: "c-1", Fields: map[string]any{"filename": "po.pdf"}},
		{Kind: "analysis_completed", ContractID: "c-1", Fields: map[string]any{"overall_risk": "High"}},
	}
	for _, e := range events {
		if err := sink.Record(context.Background(), e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []auditLine
	for scanner.Scan() {
		var line auditLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		lines = append(lines, line)
	}

	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0].Kind != "contract_uploaded" || lines[1].Kind != "analysis_completed" {
		t.Fatalf("unexpected order: %+v", lines)
	}
	if lines[0].TsUTC == "" || lines[0].ContractID != "c-1" {
		t.Fatalf("missing fields: %+v", lines[0])
	}
}

func TestRecordConcurrentWritersKeepLinesIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	sink, err := NewJSONLSink(path)
	if err != nil {
		t.Fatalf("NewJSONLSink() error = %v", err)
	}

	const n = 50
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = sink.Record(context.Background(), domain.AuditEvent{Kind: "clause_degraded", ContractID: "c-1"})
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line auditLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("corrupt line %d: %v", count, err)
		}
		count++
	}
	if count != n {
		t.Fatalf("lines = %d, want %d", count, n)
	}
}
