// Package unconfigured is the backend of last resort: without credentials the
// app still serves, reads come back empty, and writes explain what is missing
// instead of crashing at startup.
package unconfigured

import (
	"context"

	"github.com/carebook/carebook/internal/model"
	"github.com/carebook/carebook/internal/store"
)

// New builds a store whose reads are empty and whose writes fail with
// store.ErrNotConfigured. The hint is surfaced to operators by the API.
func New(hint string) *store.Store {
	return &store.Store{
		Backend:    "none",
		Configured: false,
		Hint:       hint,
		Days:       dayRepo{},
		Weights:    weightRepo{},
		Sleeps:     sleepRepo{},
		Meals:      mealRepo{},
		Workouts:   workoutRepo{},
		Journal:    journalRepo{},
		Admin:      adminRepo{},
	}
}

type dayRepo struct{}

func (dayRepo) Find(context.Context, store.OwnerDay) (*model.Day, error) { return nil, nil }
func (dayRepo) Upsert(context.Context, store.NewDay) (string, error) {
	return "", store.ErrNotConfigured
}
func (dayRepo) ListRange(context.Context, store.DateRange) ([]model.Day, error) {
	return []model.Day{}, nil
}

type weightRepo struct{}

func (weightRepo) Find(context.Context, store.OwnerDay) (*model.Weight, error) { return nil, nil }
func (weightRepo) Create(context.Context, store.NewWeight) (*model.Weight, error) {
	return nil, store.ErrNotConfigured
}
func (weightRepo) Update(context.Context, string, store.WeightPatch) (*model.Weight, error) {
	return nil, store.ErrNotConfigured
}
func (weightRepo) DeleteByDay(context.Context, store.OwnerDay) error {
	return store.ErrNotConfigured
}

type sleepRepo struct{}

func (sleepRepo) Find(context.Context, store.OwnerDay) (*model.Sleep, error) { return nil, nil }
func (sleepRepo) Create(context.Context, store.NewSleep) (*model.Sleep, error) {
	return nil, store.ErrNotConfigured
}
func (sleepRepo) Update(context.Context, string, store.SleepPatch) (*model.Sleep, error) {
	return nil, store.ErrNotConfigured
}
func (sleepRepo) DeleteByDay(context.Context, store.OwnerDay) error {
	return store.ErrNotConfigured
}

type mealRepo struct{}

func (mealRepo) ListByDay(context.Context, store.OwnerDay) ([]model.Meal, error) {
	return []model.Meal{}, nil
}
func (mealRepo) Create(context.Context, store.NewMeal) (*model.Meal, error) {
	return nil, store.ErrNotConfigured
}
func (mealRepo) Update(context.Context, string, store.MealPatch) (*model.Meal, error) {
	return nil, store.ErrNotConfigured
}
func (mealRepo) Delete(context.Context, string) error { return store.ErrNotConfigured }

type workoutRepo struct{}

func (workoutRepo) ListByDay(context.Context, store.OwnerDay) ([]model.Workout, error) {
	return []model.Workout{}, nil
}
func (workoutRepo) Create(context.Context, store.NewWorkout) (*model.Workout, error) {
	return nil, store.ErrNotConfigured
}
func (workoutRepo) Update(context.Context, string, store.WorkoutPatch) (*model.Workout, error) {
	return nil, store.ErrNotConfigured
}
func (workoutRepo) Delete(context.Context, string) error { return store.ErrNotConfigured }

type journalRepo struct{}

func (journalRepo) List(context.Context, string, store.JournalPage) ([]model.JournalEntry, error) {
	return []model.JournalEntry{}, nil
}
func (journalRepo) ByID(_ context.Context, _, id string) (*model.JournalEntry, error) {
	return nil, &store.NotFoundError{Kind: "journal entry", ID: id}
}
func (journalRepo) Create(context.Context, store.NewJournal) (*model.JournalEntry, error) {
	return nil, store.ErrNotConfigured
}
func (journalRepo) Update(context.Context, string, string, store.NewJournal) (*model.JournalEntry, error) {
	return nil, store.ErrNotConfigured
}
func (journalRepo) Delete(context.Context, string, string) error { return store.ErrNotConfigured }

type adminRepo struct{}

func (adminRepo) Tables(context.Context) ([]string, error) { return []string{}, nil }
func (adminRepo) Schema(context.Context, string) ([]store.Column, error) {
	return nil, store.ErrNotConfigured
}
func (adminRepo) Rows(context.Context, string, store.RowFilter) (*store.RowsPage, error) {
	return nil, store.ErrNotConfigured
}
func (adminRepo) Row(context.Context, string, string) (map[string]any, error) {
	return nil, store.ErrNotConfigured
}
