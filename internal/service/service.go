// Package service implements the application operations over whichever
// backend the store was built on. Services default the owner key and
// timezone, validate input, derive day keys, and keep the read cache
// coherent after writes.
package service

import (
	"time"

	"github.com/carebook/carebook/internal/assist"
	"github.com/carebook/carebook/internal/cache"
	"github.com/carebook/carebook/internal/daykey"
	"github.com/carebook/carebook/internal/storage"
	"github.com/carebook/carebook/internal/store"
	"github.com/carebook/carebook/internal/validation"
)

// Options carries the per-deployment defaults every service needs.
type Options struct {
	// DefaultOwner is used when a request names no owner. Single-user
	// deployments never send one.
	DefaultOwner string
	// Location is the timezone day keys are derived in.
	Location *time.Location
}

func (o Options) owner(requested string) string {
	if requested != "" {
		return requested
	}
	return o.DefaultOwner
}

func (o Options) todayKey() string {
	return daykey.FromTime(time.Now(), o.Location)
}

// Services bundles one service per record kind plus the cross-cutting ones.
type Services struct {
	Weights  *WeightService
	Sleeps   *SleepService
	Meals    *MealService
	Workouts *WorkoutService
	Days     *DayService
	Journal  *JournalService
	Assist   *AssistService
}

func New(st *store.Store, c *cache.Cache, opts Options, ai *assist.Client, files *storage.Attachments) *Services {
	return &Services{
		Weights:  &WeightService{store: st, cache: c, opts: opts},
		Sleeps:   &SleepService{store: st, cache: c, opts: opts},
		Meals:    &MealService{store: st, cache: c, opts: opts},
		Workouts: &WorkoutService{store: st, cache: c, opts: opts},
		Days:     &DayService{store: st, cache: c, opts: opts},
		Journal:  &JournalService{store: st, cache: c, opts: opts, files: files},
		Assist:   &AssistService{client: ai},
	}
}

func invalidDayKey() error {
	return validation.FieldErrors{{Field: "dayKey", Message: "must be YYYY-MM-DD"}}
}

// SaveResult reports what a single-row save did: Mode is "created" on first
// write and "updated" on overwrite.
type SaveResult struct {
	RecordID string `json:"recordId"`
	DayKey   string `json:"dayKey"`
	Mode     string `json:"mode"`
}

// AppendResult reports a multi-row create.
type AppendResult struct {
	RecordID string `json:"recordId"`
	DayKey   string `json:"dayKey"`
}
