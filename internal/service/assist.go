package service

import (
	"context"
	"strings"

	"github.com/carebook/carebook/internal/assist"
	"github.com/carebook/carebook/internal/validation"
)

// AssistService wraps the Gemini client. Suggestions are advisory only: the
// caller confirms them before anything is saved, and nothing here touches the
// store or the cache.
type AssistService struct {
	client *assist.Client
}

func (s *AssistService) Configured() bool {
	return s.client.Configured()
}

func (s *AssistService) SuggestMeal(ctx context.Context, text string) (*assist.MealSuggestion, error) {
	if err := assertText(text); err != nil {
		return nil, err
	}
	return s.client.SuggestMeal(ctx, text)
}

func (s *AssistService) SuggestWorkout(ctx context.Context, text string) (*assist.WorkoutSuggestion, error) {
	if err := assertText(text); err != nil {
		return nil, err
	}
	return s.client.SuggestWorkout(ctx, text)
}

func assertText(text string) error {
	if strings.TrimSpace(text) == "" {
		return validation.FieldErrors{{Field: "text", Message: "is required"}}
	}
	return nil
}
