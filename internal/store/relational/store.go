package relational

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carebook/carebook/internal/store"
)

// New wires the relational repositories into a store.Store.
func New(db *sqlx.DB, driver string) *store.Store {
	return &store.Store{
		Backend:    "relational",
		Configured: true,
		Days:       &dayRepo{db: db},
		Weights:    &weightRepo{db: db},
		Sleeps:     &sleepRepo{db: db},
		Meals:      &mealRepo{db: db},
		Workouts:   &workoutRepo{db: db},
		Journal:    &journalRepo{db: db},
		Admin:      &adminRepo{db: db, driver: driver},
	}
}

func newID() string {
	return uuid.New().String()
}
