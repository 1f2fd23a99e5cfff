package model

import "time"

// Meal types accepted by validation and suggested by the AI assist.
const (
	MealBreakfast = "Breakfast"
	MealLunch     = "Lunch"
	MealDinner    = "Dinner"
	MealSnack     = "Snack"
)

// WeightFields is the single weight reading for an owner's day. A second save
// on the same day overwrites the first.
type WeightFields struct {
	OwnerKey   string    `json:"ownerKey"`
	DayID      string    `json:"dayId"`
	DayKey     string    `json:"dayKey"`
	RecordedAt time.Time `json:"recordedAt"`
	WeightKg   float64   `json:"weightKg"`
	BodyFatPct *float64  `json:"bodyFatPct,omitempty"`
	Note       string    `json:"note,omitempty"`
}

// SleepFields is the single sleep record for an owner's day. The day key is
// the wake-up day, not the day sleep started.
type SleepFields struct {
	OwnerKey     string    `json:"ownerKey"`
	DayID        string    `json:"dayId"`
	DayKey       string    `json:"dayKey"`
	SleepStartAt time.Time `json:"sleepStartAt"`
	SleepEndAt   time.Time `json:"sleepEndAt"`
	DurationMin  int       `json:"durationMin"`
	Quality      string    `json:"quality,omitempty"`
	Note         string    `json:"note,omitempty"`
}

// MealFields is one meal entry; multiple are allowed per day.
type MealFields struct {
	OwnerKey     string    `json:"ownerKey"`
	DayID        string    `json:"dayId"`
	DayKey       string    `json:"dayKey"`
	EatenAt      time.Time `json:"eatenAt"`
	MealType     string    `json:"mealType"`
	Text         string    `json:"text"`
	ItemsJSON    string    `json:"itemsJson,omitempty"`
	CaloriesKcal *int      `json:"caloriesKcal,omitempty"`
	Note         string    `json:"note,omitempty"`
	AIAssisted   bool      `json:"aiAssisted,omitempty"`
}

// WorkoutFields is one workout entry; multiple are allowed per day.
// DurationMin doubles as a load field in some UI variants, hence the wide cap.
type WorkoutFields struct {
	OwnerKey    string    `json:"ownerKey"`
	DayID       string    `json:"dayId"`
	DayKey      string    `json:"dayKey"`
	PerformedAt time.Time `json:"performedAt"`
	WorkoutType string    `json:"workoutType"`
	DurationMin int       `json:"durationMin"`
	Intensity   string    `json:"intensity,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	AIAssisted  bool      `json:"aiAssisted,omitempty"`
}

type (
	Weight  = Record[WeightFields]
	Sleep   = Record[SleepFields]
	Meal    = Record[MealFields]
	Workout = Record[WorkoutFields]
)
