package advisor

import (
	"context"
	"testing"

	"github.com/mayeul-docq/univia/internal/match"
	"github.com/mayeul-docq/univia/internal/model/catalog"
)

func TestNilServiceIsDisabled(t *testing.T) {
	var svc *Service
	if svc.Enabled() {
		t.Fatal("nil service should report disabled")
	}

	agent := match.NewAgent(catalog.SeedStudents()[0], catalog.SeedUniversities())
	slots := svc.SuggestSlots(context.Background(), agent, 3)
	if len(slots) == 0 || len(slots) > 3 {
		t.Fatalf("nil service should fall back to 1-3 core slots, got %v", slots)
	}
	for _, slot := range slots {
		if _, ok := match.SlotPrompt[slot]; !ok {
			t.Fatalf("unknown fallback slot %q", slot)
		}
	}
}

func TestNewWithoutModel(t *testing.T) {
	svc, err := New(context.Background(), nil)
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	if svc.Enabled() {
		t.Fatal("service without a model should be disabled")
	}
}

func TestDisabledAssessReturnsFallback(t *testing.T) {
	svc, err := New(context.Background(), nil)
	if err != nil {
		t.Fatalf("New err: %v", err)
	}

	a, err := svc.Assess(context.Background(), catalog.SeedStudents()[0], catalog.SeedUniversities()[0], 0.72)
	if err != nil {
		t.Fatalf("Assess err: %v", err)
	}
	if a.SoftFitAdjusted != 0.72 {
		t.Fatalf("fallback should echo the deterministic fit, got %f", a.SoftFitAdjusted)
	}
	if a.DecisionHint != "maybe" {
		t.Fatalf("fallback hint should be maybe, got %q", a.DecisionHint)
	}
}

func TestParseAssessmentToleratesProse(t *testing.T) {
	content := "Sure, here is the assessment:\n" +
		`{"soft_fit_adjusted": 0.81, "explanations": {"pro": ["RIBA accredited"], "cons": ["over budget"]}, ` +
		`"missing_slots": ["ielts_plan"], "decision_hint": "go"}` +
		"\nLet me know if you need more."

	a, err := parseAssessment(content)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if a.SoftFitAdjusted != 0.81 {
		t.Fatalf("soft_fit_adjusted: got %f", a.SoftFitAdjusted)
	}
	if len(a.Pro) != 1 || a.Pro[0] != "RIBA accredited" {
		t.Fatalf("pro not parsed: %v", a.Pro)
	}
	if len(a.MissingSlots) != 1 || a.MissingSlots[0] != "ielts_plan" {
		t.Fatalf("missing_slots not parsed: %v", a.MissingSlots)
	}
	if a.DecisionHint != "go" {
		t.Fatalf("decision_hint: got %q", a.DecisionHint)
	}
}

func TestParseAssessmentRejectsNonJSON(t *testing.T) {
	if _, err := parseAssessment("no object here"); err == nil {
		t.Fatal("expected error for missing json object")
	}
	if _, err := parseAssessment("{broken"); err == nil {
		t.Fatal("expected error for malformed json")
	}
}
