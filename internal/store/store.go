// Package store defines the backend abstraction the repositories satisfy.
// The same contracts are implemented by a relational database (transactional,
// SQL-filtered) and by the Airtable REST API (paginated, formula-filtered,
// eventually consistent); the implementation is chosen once at process start
// by configuration inspection, never branched on per call.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carebook/carebook/internal/model"
)

// ErrNotConfigured is returned by writes when no backend credentials exist;
// reads degrade to empty results instead.
var ErrNotConfigured = errors.New("no persistence backend configured")

// ErrUnknownTable is returned by the admin browser for tables outside the
// allowlist.
var ErrUnknownTable = errors.New("unknown table")

// NotFoundError marks update/delete calls referencing a nonexistent id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// OwnerDay addresses one owner's logical day.
type OwnerDay struct {
	OwnerKey string
	DayKey   string
}

// DateRange is an inclusive-start, exclusive-end span of day keys.
type DateRange struct {
	OwnerKey       string
	StartInclusive string
	EndExclusive   string
}

type NewDay struct {
	OwnerKey string
	DayKey   string
	DayDate  string
}

// DayRepository maintains the parent day rows. Upsert must be idempotent:
// concurrent first-writers for the same (owner, dayKey) converge on one row.
// The relational backend guarantees this atomically via its uniqueness
// constraint; Airtable has no constraint, so its upsert is find-then-create
// and callers must treat it as eventually consistent.
type DayRepository interface {
	Find(ctx context.Context, key OwnerDay) (*model.Day, error)
	Upsert(ctx context.Context, day NewDay) (dayID string, err error)
	ListRange(ctx context.Context, r DateRange) ([]model.Day, error)
}

type NewWeight struct {
	OwnerKey   string
	DayID      string
	DayKey     string
	RecordedAt time.Time
	WeightKg   float64
	BodyFatPct *float64
	Note       string
}

// WeightPatch is a partial update; nil fields are left untouched.
type WeightPatch struct {
	DayKey     *string
	RecordedAt *time.Time
	WeightKg   *float64
	BodyFatPct *float64
	Note       *string
}

// WeightRepository holds at most one row per (owner, dayKey). DeleteByDay is
// idempotent: deleting an absent row is a no-op. If an update changes the day
// key, the repository upserts a Day for the new key and swaps the linkage.
type WeightRepository interface {
	Find(ctx context.Context, key OwnerDay) (*model.Weight, error)
	Create(ctx context.Context, in NewWeight) (*model.Weight, error)
	Update(ctx context.Context, id string, patch WeightPatch) (*model.Weight, error)
	DeleteByDay(ctx context.Context, key OwnerDay) error
}

type NewSleep struct {
	OwnerKey     string
	DayID        string
	DayKey       string
	SleepStartAt time.Time
	SleepEndAt   time.Time
	DurationMin  int
	Quality      string
	Note         string
}

type SleepPatch struct {
	DayKey       *string
	SleepStartAt *time.Time
	SleepEndAt   *time.Time
	DurationMin  *int
	Quality      *string
	Note         *string
}

type SleepRepository interface {
	Find(ctx context.Context, key OwnerDay) (*model.Sleep, error)
	Create(ctx context.Context, in NewSleep) (*model.Sleep, error)
	Update(ctx context.Context, id string, patch SleepPatch) (*model.Sleep, error)
	DeleteByDay(ctx context.Context, key OwnerDay) error
}

type NewMeal struct {
	OwnerKey     string
	DayID        string
	DayKey       string
	EatenAt      time.Time
	MealType     string
	Text         string
	ItemsJSON    string
	CaloriesKcal *int
	Note         string
	AIAssisted   bool
}

type MealPatch struct {
	DayKey       *string
	EatenAt      *time.Time
	MealType     *string
	Text         *string
	ItemsJSON    *string
	CaloriesKcal *int
	Note         *string
	AIAssisted   *bool
}

// MealRepository is append-only per day until explicit delete by id.
// ListByDay orders by eatenAt ascending and returns an empty slice, not an
// error, when nothing exists.
type MealRepository interface {
	ListByDay(ctx context.Context, key OwnerDay) ([]model.Meal, error)
	Create(ctx context.Context, in NewMeal) (*model.Meal, error)
	Update(ctx context.Context, id string, patch MealPatch) (*model.Meal, error)
	Delete(ctx context.Context, id string) error
}

type NewWorkout struct {
	OwnerKey    string
	DayID       string
	DayKey      string
	PerformedAt time.Time
	WorkoutType string
	DurationMin int
	Intensity   string
	Detail      string
	AIAssisted  bool
}

type WorkoutPatch struct {
	DayKey      *string
	PerformedAt *time.Time
	WorkoutType *string
	DurationMin *int
	Intensity   *string
	Detail      *string
	AIAssisted  *bool
}

type WorkoutRepository interface {
	ListByDay(ctx context.Context, key OwnerDay) ([]model.Workout, error)
	Create(ctx context.Context, in NewWorkout) (*model.Workout, error)
	Update(ctx context.Context, id string, patch WorkoutPatch) (*model.Workout, error)
	Delete(ctx context.Context, id string) error
}

type NewJournal struct {
	OwnerKey    string
	Title       string
	Details     string
	Attachments []model.Attachment
}

type JournalPage struct {
	Limit  int
	Offset int
}

type JournalRepository interface {
	List(ctx context.Context, ownerKey string, page JournalPage) ([]model.JournalEntry, error)
	ByID(ctx context.Context, ownerKey, id string) (*model.JournalEntry, error)
	Create(ctx context.Context, in NewJournal) (*model.JournalEntry, error)
	Update(ctx context.Context, ownerKey, id string, in NewJournal) (*model.JournalEntry, error)
	Delete(ctx context.Context, ownerKey, id string) error
}

// Column describes one raw column for the admin data browser.
type Column struct {
	Name     string `json:"name"`
	DataType string `json:"dataType"`
	Nullable bool   `json:"nullable"`
}

// RowFilter narrows the admin browser's raw row listing.
type RowFilter struct {
	OwnerKey string
	DayKey   string
	From     string
	To       string
	Limit    int
	Offset   int
}

type RowsPage struct {
	Rows    []map[string]any `json:"rows"`
	Total   int              `json:"total"`
	Columns []Column         `json:"columns"`
}

// AdminRepository is the operational side-door: raw tables, schema, and rows.
type AdminRepository interface {
	Tables(ctx context.Context) ([]string, error)
	Schema(ctx context.Context, table string) ([]Column, error)
	Rows(ctx context.Context, table string, filter RowFilter) (*RowsPage, error)
	Row(ctx context.Context, table, id string) (map[string]any, error)
}

// Store bundles one repository per record kind for whichever backend is
// configured.
type Store struct {
	Backend    string
	Configured bool
	Hint       string

	Days     DayRepository
	Weights  WeightRepository
	Sleeps   SleepRepository
	Meals    MealRepository
	Workouts WorkoutRepository
	Journal  JournalRepository
	Admin    AdminRepository
}
