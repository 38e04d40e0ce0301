package config

import "testing"

func TestLoadAnalysisDefaults(t *testing.T) {
	t.Setenv("MAX_LLM_CLAUSES", "")
	t.Setenv("ENSURE_BASELINE_CLAUSES", "")
	t.Setenv("CLAUSE_TIMEOUT_SECONDS", "")
	t.Setenv("OLLAMA_MODEL", "")
	t.Setenv("OLLAMA_RPS", "")

	cfg := Load()
	if cfg.MaxLLMClauses != 12 {
		t.Fatalf("expected default clause budget 12, got %d", cfg.MaxLLMClauses)
	}
	if cfg.EnsureBaseline != 2 {
		t.Fatalf("expected default baseline 2, got %d", cfg.EnsureBaseline)
	}
	if cfg.ClauseTimeoutSeconds != 150 {
		t.Fatalf("expected default clause timeout 150s, got %d", cfg.ClauseTimeoutSeconds)
	}
	if cfg.OllamaModel != "phi3" {
		t.Fatalf("expected default model phi3, got %q", cfg.OllamaModel)
	}
	if cfg.OllamaRPS != 1 {
		t.Fatalf("expected default ollama rps 1, got %v", cfg.OllamaRPS)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("MAX_LLM_CLAUSES", "5")
	t.Setenv("ENSURE_BASELINE_CLAUSES", "1")
	t.Setenv("OLLAMA_RPS", "2.5")
	t.Setenv("API_RATE_LIMIT_RPS", "10")
	t.Setenv("API_RATE_LIMIT_BURST", "20")

	cfg := Load()
	if cfg.MaxLLMClauses != 5 {
		t.Fatalf("expected clause budget 5, got %d", cfg.MaxLLMClauses)
	}
	if cfg.EnsureBaseline != 1 {
		t.Fatalf("expected baseline 1, got %d", cfg.EnsureBaseline)
	}
	if cfg.OllamaRPS != 2.5 {
		t.Fatalf("expected ollama rps 2.5, got %v", cfg.OllamaRPS)
	}
	if cfg.APIRateLimitRPS != 10 || cfg.APIRateLimitBurst != 20 {
		t.Fatalf("expected rate limit 10/20, got %v/%d", cfg.APIRateLimitRPS, cfg.APIRateLimitBurst)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_LLM_CLAUSES", "lots")
	t.Setenv("OLLAMA_RPS", "fast")

	cfg := Load()
	if cfg.MaxLLMClauses != 12 {
		t.Fatalf("expected fallback clause budget 12, got %d", cfg.MaxLLMClauses)
	}
	if cfg.OllamaRPS != 1 {
		t.Fatalf("expected fallback rps 1, got %v", cfg.OllamaRPS)
	}
}
