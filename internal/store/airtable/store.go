package airtable

import (
	"github.com/carebook/carebook/internal/store"
)

// New builds the repository set on top of one shared API client.
func New(opts Options) *store.Store {
	c := newClient(opts)
	t := opts.Tables
	return &store.Store{
		Backend:    "airtable",
		Configured: true,
		Days:       &dayRepo{c: c, tables: t},
		Weights:    &weightRepo{c: c, table: t.Weight, daysTable: t.Days},
		Sleeps:     &sleepRepo{c: c, table: t.Sleep, daysTable: t.Days},
		Meals:      &mealRepo{c: c, table: t.Meal, daysTable: t.Days},
		Workouts:   &workoutRepo{c: c, table: t.Workout, daysTable: t.Days},
		Journal:    &journalRepo{c: c, table: t.Journal},
		Admin:      &adminRepo{c: c, tables: t},
	}
}
