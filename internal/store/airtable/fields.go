package airtable

import (
	"time"

	"github.com/carebook/carebook/internal/model"
)

// Wire field shapes. Datetimes travel as ISO strings; typecast on write lets
// Airtable coerce them into its date field types.

type dayFields struct {
	OwnerKey string `json:"ownerKey"`
	DayKey   string `json:"dayKey"`
	DayDate  string `json:"dayDate"`
}

type weightFields struct {
	OwnerKey   string   `json:"ownerKey"`
	DayRef     []string `json:"dayRef,omitempty"`
	DayKey     string   `json:"dayKey"`
	RecordedAt string   `json:"recordedAt"`
	WeightKg   float64  `json:"weightKg"`
	BodyFatPct *float64 `json:"bodyFatPct,omitempty"`
	Note       string   `json:"note,omitempty"`
}

type sleepFields struct {
	OwnerKey     string   `json:"ownerKey"`
	DayRef       []string `json:"dayRef,omitempty"`
	DayKey       string   `json:"dayKey"`
	SleepStartAt string   `json:"sleepStartAt"`
	SleepEndAt   string   `json:"sleepEndAt"`
	DurationMin  int      `json:"durationMin"`
	Quality      string   `json:"quality,omitempty"`
	Note         string   `json:"note,omitempty"`
}

type mealFields struct {
	OwnerKey     string   `json:"ownerKey"`
	DayRef       []string `json:"dayRef,omitempty"`
	DayKey       string   `json:"dayKey"`
	EatenAt      string   `json:"eatenAt"`
	MealType     string   `json:"mealType"`
	Text         string   `json:"text"`
	ItemsJSON    string   `json:"itemsJson,omitempty"`
	CaloriesKcal *int     `json:"caloriesKcal,omitempty"`
	Note         string   `json:"note,omitempty"`
	AIAssisted   bool     `json:"aiAssisted,omitempty"`
}

type workoutFields struct {
	OwnerKey    string   `json:"ownerKey"`
	DayRef      []string `json:"dayRef,omitempty"`
	DayKey      string   `json:"dayKey"`
	PerformedAt string   `json:"performedAt"`
	WorkoutType string   `json:"workoutType"`
	DurationMin int      `json:"durationMin"`
	Intensity   string   `json:"intensity,omitempty"`
	Detail      string   `json:"detail,omitempty"`
	AIAssisted  bool     `json:"aiAssisted,omitempty"`
}

type journalFields struct {
	OwnerKey        string `json:"ownerKey"`
	Title           string `json:"title"`
	Details         string `json:"details,omitempty"`
	AttachmentsJSON string `json:"attachmentsJson,omitempty"`
	UpdatedAt       string `json:"updatedAt"`
}

func parseISO(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func firstRef(refs []string) string {
	if len(refs) == 0 {
		return ""
	}
	return refs[0]
}

func (f weightFields) toModel(r record[weightFields]) model.Weight {
	return model.Weight{
		ID:        r.ID,
		CreatedAt: r.CreatedTime,
		Fields: model.WeightFields{
			OwnerKey:   f.OwnerKey,
			DayID:      firstRef(f.DayRef),
			DayKey:     f.DayKey,
			RecordedAt: parseISO(f.RecordedAt),
			WeightKg:   f.WeightKg,
			BodyFatPct: f.BodyFatPct,
			Note:       f.Note,
		},
	}
}

func (f sleepFields) toModel(r record[sleepFields]) model.Sleep {
	return model.Sleep{
		ID:        r.ID,
		CreatedAt: r.CreatedTime,
		Fields: model.SleepFields{
			OwnerKey:     f.OwnerKey,
			DayID:        firstRef(f.DayRef),
			DayKey:       f.DayKey,
			SleepStartAt: parseISO(f.SleepStartAt),
			SleepEndAt:   parseISO(f.SleepEndAt),
			DurationMin:  f.DurationMin,
			Quality:      f.Quality,
			Note:         f.Note,
		},
	}
}

func (f mealFields) toModel(r record[mealFields]) model.Meal {
	return model.Meal{
		ID:        r.ID,
		CreatedAt: r.CreatedTime,
		Fields: model.MealFields{
			OwnerKey:     f.OwnerKey,
			DayID:        firstRef(f.DayRef),
			DayKey:       f.DayKey,
			EatenAt:      parseISO(f.EatenAt),
			MealType:     f.MealType,
			Text:         f.Text,
			ItemsJSON:    f.ItemsJSON,
			CaloriesKcal: f.CaloriesKcal,
			Note:         f.Note,
			AIAssisted:   f.AIAssisted,
		},
	}
}

func (f workoutFields) toModel(r record[workoutFields]) model.Workout {
	return model.Workout{
		ID:        r.ID,
		CreatedAt: r.CreatedTime,
		Fields: model.WorkoutFields{
			OwnerKey:    f.OwnerKey,
			DayID:       firstRef(f.DayRef),
			DayKey:      f.DayKey,
			PerformedAt: parseISO(f.PerformedAt),
			WorkoutType: f.WorkoutType,
			DurationMin: f.DurationMin,
			Intensity:   f.Intensity,
			Detail:      f.Detail,
			AIAssisted:  f.AIAssisted,
		},
	}
}

func (f journalFields) toModel(r record[journalFields]) model.JournalEntry {
	updated := parseISO(f.UpdatedAt)
	if updated.IsZero() {
		updated = r.CreatedTime
	}
	return model.JournalEntry{
		ID:          r.ID,
		OwnerKey:    f.OwnerKey,
		Title:       f.Title,
		Details:     f.Details,
		Attachments: model.DecodeAttachments([]byte(f.AttachmentsJSON)),
		CreatedAt:   r.CreatedTime,
		UpdatedAt:   updated,
	}
}
