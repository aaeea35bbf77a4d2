package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/mediguide-ai/backend/internal/domain"
)

// HealthPlanUsecase proxies a condition description to the LLM and
// returns a structured diet/exercise/medicine/doctor plan. With no API
// key configured the LLM is skipped and a generic plan is returned, so
// local dev works offline.
type HealthPlanUsecase struct {
	client *openai.Client
}

func NewHealthPlanUsecase(apiKey string) *HealthPlanUsecase {
	if apiKey == "" {
		return &HealthPlanUsecase{client: nil}
	}
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return &HealthPlanUsecase{client: &c}
}

var planSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"diet": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"take":  map[string]any{"type": "array", "items": map[string]string{"type": "string"}},
				"avoid": map[string]any{"type": "array", "items": map[string]string{"type": "string"}},
			},
			"required":             []string{"take", "avoid"},
			"additionalProperties": false,
		},
		"exercise": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]string{"type": "string"},
					"sets": map[string]string{"type": "integer"},
					"reps": map[string]string{"type": "integer"},
				},
				"required":             []string{"name", "sets", "reps"},
				"additionalProperties": false,
			},
		},
		"medicine": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":     map[string]string{"type": "string"},
					"dosage":   map[string]string{"type": "string"},
					"duration": map[string]string{"type": "string"},
				},
				"required":             []string{"name", "dosage", "duration"},
				"additionalProperties": false,
			},
		},
		"doctor": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"specialization": map[string]string{"type": "string"},
				"location":       map[string]string{"type": "string"},
			},
			"required":             []string{"specialization", "location"},
			"additionalProperties": false,
		},
	},
	"required":             []string{"diet", "exercise", "medicine", "doctor"},
	"additionalProperties": false,
}

// GeneratePlan asks the model for a plan via a strict function call so
// the response is guaranteed to parse into domain.HealthPlan.
func (u *HealthPlanUsecase) GeneratePlan(ctx context.Context, disease, location string) (*domain.HealthPlan, error) {
	if u.client == nil {
		return genericPlan(location), nil
	}

	fn := shared.FunctionDefinitionParam{
		Name:        "health_plan",
		Description: openai.String("Return a conservative, general-wellness plan for the given condition."),
		Strict:      openai.Bool(true),
		Parameters:  planSchema,
	}

	prompt := fmt.Sprintf(`Create a health plan for someone managing: %s.

Rules:
1. diet.take and diet.avoid each list 3-6 common foods.
2. exercise lists 2-4 low-impact exercises with sets and reps.
3. medicine lists only widely available over-the-counter options; for
   anything stronger, leave the list empty and rely on the doctor entry.
4. doctor.specialization names the most relevant specialist; set
   doctor.location to %q or "" if none was given.

Return JSON by calling health_plan(strict).`, disease, location)

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModelGPT4oMini,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Tools: []openai.ChatCompletionToolParam{{
			Function: fn,
		}},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{
					Name: "health_plan",
				},
			},
		},
	}

	resp, err := u.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("openai: no function call returned")
	}

	var plan domain.HealthPlan
	args := resp.Choices[0].Message.ToolCalls[0].Function.Arguments
	if err := json.Unmarshal([]byte(args), &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return &plan, nil
}

func genericPlan(location string) *domain.HealthPlan {
	return &domain.HealthPlan{
		Diet: domain.Diet{
			Take:  []string{"Leafy greens", "Whole grains", "Fresh fruit", "Water (2L/day)"},
			Avoid: []string{"Processed sugar", "Fried food", "Excess salt"},
		},
		Exercise: []domain.Exercise{
			{Name: "Walking", Sets: 1, Reps: 30},
			{Name: "Stretching", Sets: 2, Reps: 10},
		},
		Medicine: []domain.Medicine{},
		Doctor: domain.Doctor{
			Specialization: "General Practitioner",
			Location:       location,
		},
	}
}
