package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carebook/carebook/internal/model"
)

// ErrNotConfigured is returned when assist endpoints are hit without a
// GEMINI_API_KEY.
var ErrNotConfigured = errors.New("gemini is not configured (missing GEMINI_API_KEY)")

const (
	maxItems    = 50
	maxNotesLen = 500
	maxDetail   = 2000
	maxDuration = 600
)

// MealSuggestion is the model's structured reading of a meal description.
// Empty fields mean the model could not infer them.
type MealSuggestion struct {
	MealType string   `json:"mealType,omitempty"`
	Items    []string `json:"items"`
	Notes    string   `json:"notes,omitempty"`
}

// WorkoutSuggestion is the model's structured reading of a workout
// description.
type WorkoutSuggestion struct {
	WorkoutType string `json:"workoutType,omitempty"`
	DurationMin int    `json:"durationMin,omitempty"`
	Intensity   string `json:"intensity,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

func buildMealPrompt(text string) string {
	return strings.Join([]string{
		"You are a strict JSON generator.",
		"Return ONLY valid JSON. No markdown, no code fences, no extra keys.",
		"Schema:",
		`{ "mealType": "Breakfast|Lunch|Dinner|Snack", "items": ["string"], "notes": "string?" }`,
		"Rules:",
		"- items must be an array of food/drink items extracted from the text.",
		"- If mealType cannot be inferred, omit mealType.",
		"- If there are useful notes (portion size, brand, etc.), put them in notes.",
		"",
		"Input text:",
		text,
	}, "\n")
}

func buildWorkoutPrompt(text string) string {
	return strings.Join([]string{
		"You are a strict JSON generator.",
		"Return ONLY valid JSON. No markdown, no code fences, no extra keys.",
		"Schema:",
		`{ "workoutType": "Run|Walk|Gym|Yoga|Other", "durationMin": 30, "intensity": "Low|Medium|High", "detail": "string?" }`,
		"Rules:",
		"- workoutType: choose best match; if unclear, use Other.",
		"- durationMin: infer minutes if described; otherwise omit.",
		"- intensity: Low/Medium/High if inferable; otherwise omit.",
		"- detail: short clarified summary (optional).",
		"",
		"Input text:",
		text,
	}, "\n")
}

// SuggestMeal asks the model to structure a meal description. The reply is
// validated against the schema the prompt declares; out-of-enum values are
// rejected rather than passed through.
func (c *Client) SuggestMeal(ctx context.Context, text string) (*MealSuggestion, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text is empty")
	}

	var out MealSuggestion
	if err := c.generateJSON(ctx, buildMealPrompt(text), &out); err != nil {
		return nil, err
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MealSuggestion) validate() error {
	if s.MealType != "" {
		switch s.MealType {
		case model.MealBreakfast, model.MealLunch, model.MealDinner, model.MealSnack:
		default:
			return fmt.Errorf("unexpected mealType: %q", s.MealType)
		}
	}
	if len(s.Items) > maxItems {
		s.Items = s.Items[:maxItems]
	}
	items := s.Items[:0]
	for _, it := range s.Items {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	s.Items = items
	if len(s.Notes) > maxNotesLen {
		s.Notes = s.Notes[:maxNotesLen]
	}
	return nil
}

// SuggestWorkout asks the model to structure a workout description.
func (c *Client) SuggestWorkout(ctx context.Context, text string) (*WorkoutSuggestion, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text is empty")
	}

	var out WorkoutSuggestion
	if err := c.generateJSON(ctx, buildWorkoutPrompt(text), &out); err != nil {
		return nil, err
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WorkoutSuggestion) validate() error {
	if s.WorkoutType != "" {
		switch s.WorkoutType {
		case "Run", "Walk", "Gym", "Yoga", "Other":
		default:
			return fmt.Errorf("unexpected workoutType: %q", s.WorkoutType)
		}
	}
	if s.DurationMin < 0 || s.DurationMin > maxDuration {
		s.DurationMin = 0
	}
	if s.Intensity != "" {
		switch s.Intensity {
		case "Low", "Medium", "High":
		default:
			return fmt.Errorf("unexpected intensity: %q", s.Intensity)
		}
	}
	if len(s.Detail) > maxDetail {
		s.Detail = s.Detail[:maxDetail]
	}
	return nil
}
