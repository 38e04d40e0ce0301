package contracttype

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rghosh/clausewise/internal/core/domain"
)

const employmentText = `This Employment Agreement is between the Employer and the Employee.
The Employee's salary includes CTC with a probation period and notice period of 60 days.
Work hours, leave and appraisal terms are set out in the offer letter.`

func TestClassifyRulesEmployment(t *testing.T) {
	pred := ClassifyRules(employmentText)
	if pred.ContractType != domain.TypeEmployment {
		t.Fatalf("contract type = %s, want %s", pred.ContractType, domain.TypeEmployment)
	}
	if pred.Method != domain.TypeMethodRules {
		t.Fatalf("method = %s, want rules", pred.Method)
	}
	if pred.Confidence < FallbackThreshold {
		t.Fatalf("expected confident rule result, got %.2f", pred.Confidence)
	}
	if len(pred.Evidence) == 0 || len(pred.Evidence) > 6 {
		t.Fatalf("evidence length out of range: %v", pred.Evidence)
	}
}

func TestClassifyRulesLowSignalFloor(t *testing.T) {
	// One weak keyword hit at most per category: confidence floors at 0.30.
	pred := ClassifyRules("The quick brown fox pays rent sometimes.")
	if pred.Confidence != 0.30 {
		t.Fatalf("confidence = %.2f, want exactly 0.30", pred.Confidence)
	}
}

func TestClassifyRulesConfidenceMonotonicInSeparation(t *testing.T) {
	// Same winning signal, growing separation from the runner-up must never
	// lower confidence.
	base := "lease rent landlord tenant premises"
	narrow := ClassifyRules(base + " vendor supply goods invoice")
	wide := ClassifyRules(base + " security deposit eviction lock-in")
	if wide.Confidence < narrow.Confidence {
		t.Fatalf("confidence dropped as separation grew: %.2f < %.2f", wide.Confidence, narrow.Confidence)
	}
}

func TestClassifyRulesConfidenceCapped(t *testing.T) {
	pred := ClassifyRules(strings.Join(keywordBuckets[domain.TypeLease], " ") + " lease agreement lessor lessee")
	if pred.Confidence > 0.95 {
		t.Fatalf("confidence exceeds cap: %.2f", pred.Confidence)
	}
}

func TestClassifyUsesFallbackWhenUncertain(t *testing.T) {
	called := false
	fallback := func(_ context.Context, _ string) (domain.TypePrediction, error) {
		called = true
		return domain.TypePrediction{
			ContractType: domain.TypeService,
			Confidence:   0.8,
			Method:       domain.TypeMethodFallback,
			Evidence:     []string{"fallback:service keywords"},
		}, nil
	}

	pred := Classify(context.Background(), "nothing contract-like in here at all", fallback)
	if !called {
		t.Fatalf("expected fallback to be consulted")
	}
	if pred.ContractType != domain.TypeService || pred.Method != domain.TypeMethodFallback {
		t.Fatalf("unexpected prediction: %+v", pred)
	}
}

func TestClassifySkipsFallbackWhenConfident(t *testing.T) {
	fallback := func(_ context.Context, _ string) (domain.TypePrediction, error) {
		t.Fatalf("fallback must not be called for a confident rule result")
		return domain.TypePrediction{}, nil
	}
	pred := Classify(context.Background(), employmentText, fallback)
	if pred.Method != domain.TypeMethodRules {
		t.Fatalf("expected rules method, got %s", pred.Method)
	}
}

func TestClassifyFallbackUnknownNeverDowngrades(t *testing.T) {
	fallback := func(_ context.Context, _ string) (domain.TypePrediction, error) {
		return domain.TypePrediction{ContractType: domain.TypeUnknown}, nil
	}
	// Weak but non-unknown rule result (single strong hit not enough for
	// threshold confidence on its own cannot happen; use low-signal text
	// with one keyword so rules still name a category).
	pred := Classify(context.Background(), "the tenant waves hello", fallback)
	if pred.ContractType == domain.TypeUnknown {
		t.Fatalf("fallback unknown downgraded a non-unknown rule result")
	}
	if pred.Method != domain.TypeMethodRules {
		t.Fatalf("expected preserved rule result, got %+v", pred)
	}
}

func TestClassifyFallbackErrorDegradesSafely(t *testing.T) {
	fallback := func(_ context.Context, _ string) (domain.TypePrediction, error) {
		return domain.TypePrediction{}, errors.New("connection refused")
	}
	pred := Classify(context.Background(), "zzz qqq completely signal-free text", fallback)
	if pred.ContractType == "" {
		t.Fatalf("expected a well-formed prediction, got %+v", pred)
	}
}

func TestClassifyFallbackInvalidLabelMapsToUnknown(t *testing.T) {
	fallback := func(_ context.Context, _ string) (domain.TypePrediction, error) {
		return domain.TypePrediction{ContractType: "pirate_charter", Confidence: 0.9}, nil
	}
	pred := Classify(context.Background(), "zzz qqq completely signal-free text", fallback)
	if pred.ContractType != domain.TypeUnknown && pred.Method == domain.TypeMethodFallback {
		t.Fatalf("invalid label must map to unknown, got %+v", pred)
	}
}
