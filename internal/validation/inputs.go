package validation

import "time"

// WeightInput is a validated weight save. Weight bounds are 20-300 kg, body
// fat 1-80%.
type WeightInput struct {
	OwnerKey   string
	DayKey     string
	RecordedAt time.Time
	WeightKg   float64
	BodyFatPct *float64
	Note       string
}

func (in WeightInput) Validate() error {
	var e FieldErrors
	e.ownerKey(in.OwnerKey)
	e.dayKey("dayKey", in.DayKey)
	if in.RecordedAt.IsZero() {
		e.add("recordedAt", "is required")
	}
	e.numberRange("weightKg", in.WeightKg, 20, 300)
	if in.BodyFatPct != nil {
		e.numberRange("bodyFatPct", *in.BodyFatPct, 1, 80)
	}
	e.optionalText("note", in.Note, 500)
	return e.OrNil()
}

// SleepInput is a validated sleep save; DayKey is the wake-up day.
type SleepInput struct {
	OwnerKey     string
	DayKey       string
	SleepStartAt time.Time
	SleepEndAt   time.Time
	DurationMin  int
	Quality      string
	Note         string
}

func (in SleepInput) Validate() error {
	var e FieldErrors
	e.ownerKey(in.OwnerKey)
	e.dayKey("dayKey", in.DayKey)
	if in.SleepStartAt.IsZero() {
		e.add("sleepStartAt", "is required")
	}
	if in.SleepEndAt.IsZero() {
		e.add("sleepEndAt", "is required")
	}
	e.intRange("durationMin", in.DurationMin, 0, 7*24*60)
	e.optionalText("quality", in.Quality, 32)
	e.optionalText("note", in.Note, 500)
	return e.OrNil()
}

// MealInput is a validated meal save.
type MealInput struct {
	OwnerKey     string
	DayKey       string
	EatenAt      time.Time
	MealType     string
	Text         string
	ItemsJSON    string
	CaloriesKcal *int
	Note         string
	AIAssisted   bool
}

func (in MealInput) Validate() error {
	var e FieldErrors
	e.ownerKey(in.OwnerKey)
	e.dayKey("dayKey", in.DayKey)
	if in.EatenAt.IsZero() {
		e.add("eatenAt", "is required")
	}
	e.requireText("mealType", in.MealType, 32)
	e.requireText("text", in.Text, 2000)
	e.optionalText("itemsJson", in.ItemsJSON, 20000)
	if in.CaloriesKcal != nil {
		e.intRange("caloriesKcal", *in.CaloriesKcal, 0, 10000)
	}
	e.optionalText("note", in.Note, 500)
	return e.OrNil()
}

// WorkoutInput is a validated workout save.
type WorkoutInput struct {
	OwnerKey    string
	DayKey      string
	PerformedAt time.Time
	WorkoutType string
	DurationMin int
	Intensity   string
	Detail      string
	AIAssisted  bool
}

func (in WorkoutInput) Validate() error {
	var e FieldErrors
	e.ownerKey(in.OwnerKey)
	e.dayKey("dayKey", in.DayKey)
	if in.PerformedAt.IsZero() {
		e.add("performedAt", "is required")
	}
	e.requireText("workoutType", in.WorkoutType, 64)
	e.intRange("durationMin", in.DurationMin, 0, 7*24*60)
	e.optionalText("intensity", in.Intensity, 32)
	e.optionalText("detail", in.Detail, 2000)
	return e.OrNil()
}

// JournalInput is a validated journal create/update.
type JournalInput struct {
	OwnerKey string
	Title    string
	Details  string
}

func (in JournalInput) Validate() error {
	var e FieldErrors
	e.ownerKey(in.OwnerKey)
	e.requireText("title", in.Title, 200)
	e.requireText("details", in.Details, 20000)
	return e.OrNil()
}
