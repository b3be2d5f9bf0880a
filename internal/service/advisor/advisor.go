package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/mayeul-docq/univia/internal/match"
	"github.com/mayeul-docq/univia/internal/model/catalog"
)

// Assessment is the structured verdict the model returns for one
// student/university pair.
type Assessment struct {
	SoftFitAdjusted float64  `json:"soft_fit_adjusted"`
	Pro             []string `json:"pro"`
	Cons            []string `json:"cons"`
	MissingSlots    []string `json:"missing_slots"`
	DecisionHint    string   `json:"decision_hint"`
}

// Service asks a chat model which profile slots are worth clarifying for the
// universities under comparison. Every failure path degrades to the
// deterministic slot order, so a broken or absent model never blocks the
// survey.
type Service struct {
	enabled  bool
	assessor compose.Runnable[map[string]any, *schema.Message]
}

// New compiles the assessment chain. A nil chat model yields a disabled
// service whose callers fall back to the core slots.
func New(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	svc := &Service{enabled: chatModel != nil}
	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(assessmentSystemPrompt),
		schema.UserMessage(assessmentUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile assessment chain: %w", err)
	}

	svc.assessor = runnable
	return svc, nil
}

// Enabled reports whether the model-backed path is available.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.assessor != nil
}

// Assess runs one student/university pair through the model. The
// deterministic soft fit is included so the model adjusts rather than
// re-derives it.
func (s *Service) Assess(ctx context.Context, student catalog.Student, uni catalog.University, deterministicFit float64) (Assessment, error) {
	if !s.Enabled() {
		return fallbackAssessment(deterministicFit), nil
	}

	studentJSON, err := json.Marshal(student)
	if err != nil {
		return Assessment{}, err
	}
	uniJSON, err := json.Marshal(uni)
	if err != nil {
		return Assessment{}, err
	}

	msg, err := s.assessor.Invoke(ctx, map[string]any{
		"student":    string(studentJSON),
		"university": string(uniJSON),
		"soft_fit":   fmt.Sprintf("%.3f", deterministicFit),
	})
	if err != nil {
		return Assessment{}, fmt.Errorf("assessment invoke: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return Assessment{}, fmt.Errorf("assessment returned empty content")
	}

	assessment, err := parseAssessment(msg.Content)
	if err != nil {
		return Assessment{}, err
	}
	return assessment, nil
}

// SuggestSlots aggregates missing slots across the triplet, deduplicated and
// filtered to known slots, capped at maxQ. Any model failure falls back to
// the agent's deterministic slot order.
func (s *Service) SuggestSlots(ctx context.Context, agent *match.Agent, maxQ int) []string {
	if !s.Enabled() {
		return fallbackSlots(agent, maxQ)
	}

	seen := make(map[string]struct{})
	slots := make([]string, 0, maxQ)
	for _, uniID := range agent.Triplet {
		uni, ok := agent.University(uniID)
		if !ok {
			continue
		}
		assessment, err := s.Assess(ctx, agent.Student(), uni, agent.SoftFit(uniID))
		if err != nil {
			log.Printf("[advisor] assess %s failed, falling back: %v", uniID, err)
			return fallbackSlots(agent, maxQ)
		}
		for _, slot := range assessment.MissingSlots {
			if _, known := match.SlotPrompt[slot]; !known {
				continue
			}
			if _, dup := seen[slot]; dup {
				continue
			}
			seen[slot] = struct{}{}
			slots = append(slots, slot)
			if len(slots) == maxQ {
				return slots
			}
		}
	}

	if len(slots) == 0 {
		return fallbackSlots(agent, maxQ)
	}
	return slots
}

func fallbackSlots(agent *match.Agent, maxQ int) []string {
	qs := agent.NextQuestions(maxQ)
	slots := make([]string, 0, len(qs))
	for _, q := range qs {
		slots = append(slots, q.Slot)
	}
	return slots
}

func fallbackAssessment(deterministicFit float64) Assessment {
	return Assessment{
		SoftFitAdjusted: deterministicFit,
		DecisionHint:    "maybe",
	}
}

// parseAssessment extracts the JSON object from the model output, tolerating
// prose around it.
func parseAssessment(content string) (Assessment, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return Assessment{}, fmt.Errorf("assessment output missing json object")
	}

	var raw struct {
		SoftFitAdjusted float64 `json:"soft_fit_adjusted"`
		Explanations    struct {
			Pro  []string `json:"pro"`
			Cons []string `json:"cons"`
		} `json:"explanations"`
		MissingSlots []string `json:"missing_slots"`
		DecisionHint string   `json:"decision_hint"`
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &raw); err != nil {
		return Assessment{}, fmt.Errorf("parse assessment output: %w", err)
	}

	return Assessment{
		SoftFitAdjusted: raw.SoftFitAdjusted,
		Pro:             raw.Explanations.Pro,
		Cons:            raw.Explanations.Cons,
		MissingSlots:    raw.MissingSlots,
		DecisionHint:    raw.DecisionHint,
	}, nil
}

const assessmentSystemPrompt = "You are a scoring assistant for a student and a university. " +
	"Return a STRICT JSON object with exactly these fields: " +
	`{"soft_fit_adjusted": number, "explanations": {"pro": [string], "cons": [string]}, ` +
	`"missing_slots": ["budget_range" | "need_portfolio" | "ielts_plan" | "campus_setting" | "pmr_needs"], ` +
	`"decision_hint": "go" | "maybe" | "no-go"}. No extra text.`

const assessmentUserPrompt = "Student profile:\n{student}\n\nUniversity record:\n{university}\n\n" +
	"Deterministic soft-fit score: {soft_fit}\n\nAssess the pair and list the profile slots still missing."
