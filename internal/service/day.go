package service

import (
	"context"
	"regexp"

	"github.com/carebook/carebook/internal/cache"
	"github.com/carebook/carebook/internal/daykey"
	"github.com/carebook/carebook/internal/model"
	"github.com/carebook/carebook/internal/store"
	"github.com/carebook/carebook/internal/validation"
)

// DayService serves read-side aggregates: the per-day summary the day screen
// renders, and the month listing behind the calendar.
type DayService struct {
	store *store.Store
	cache *cache.Cache
	opts  Options
}

// DaySummary is everything recorded for one day. Day is nil when nothing has
// ever been written for that day.
type DaySummary struct {
	DayKey   string          `json:"dayKey"`
	Day      *model.Day      `json:"day"`
	Weight   *model.Weight   `json:"weight"`
	Sleep    *model.Sleep    `json:"sleep"`
	Meals    []model.Meal    `json:"meals"`
	Workouts []model.Workout `json:"workouts"`
}

func (s *DayService) Summary(ctx context.Context, ownerKey, dayKey string) (*DaySummary, error) {
	owner := s.opts.owner(ownerKey)
	if dayKey == "" {
		dayKey = s.opts.todayKey()
	}
	if err := daykey.Assert(dayKey); err != nil {
		return nil, invalidDayKey()
	}

	return cache.GetOrFill(s.cache, "day:"+owner+":"+dayKey, cache.TagsForDay(owner, dayKey),
		func() (*DaySummary, error) {
			key := store.OwnerDay{OwnerKey: owner, DayKey: dayKey}

			day, err := s.store.Days.Find(ctx, key)
			if err != nil {
				return nil, err
			}
			weight, err := s.store.Weights.Find(ctx, key)
			if err != nil {
				return nil, err
			}
			sleep, err := s.store.Sleeps.Find(ctx, key)
			if err != nil {
				return nil, err
			}
			meals, err := s.store.Meals.ListByDay(ctx, key)
			if err != nil {
				return nil, err
			}
			workouts, err := s.store.Workouts.ListByDay(ctx, key)
			if err != nil {
				return nil, err
			}

			return &DaySummary{
				DayKey:   dayKey,
				Day:      day,
				Weight:   weight,
				Sleep:    sleep,
				Meals:    meals,
				Workouts: workouts,
			}, nil
		})
}

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Month lists the days of one "YYYY-MM" month that have any records, with
// live counts, ordered by day key ascending.
func (s *DayService) Month(ctx context.Context, ownerKey, month string) ([]model.Day, error) {
	owner := s.opts.owner(ownerKey)
	if month == "" {
		month = daykey.MonthOf(s.opts.todayKey())
	}
	if !monthPattern.MatchString(month) {
		var e validation.FieldErrors
		e = append(e, validation.FieldError{Field: "month", Message: "must be YYYY-MM"})
		return nil, e
	}

	return cache.GetOrFill(s.cache, "month:"+owner+":"+month, cache.TagsForMonth(owner, month),
		func() ([]model.Day, error) {
			start, end, err := daykey.MonthRange(month)
			if err != nil {
				return nil, err
			}
			return s.store.Days.ListRange(ctx, store.DateRange{
				OwnerKey:       owner,
				StartInclusive: start,
				EndExclusive:   end,
			})
		})
}

// Range lists days between two keys, start inclusive and end exclusive.
// Arbitrary ranges bypass the cache; only whole months are hot.
func (s *DayService) Range(ctx context.Context, ownerKey, from, to string) ([]model.Day, error) {
	owner := s.opts.owner(ownerKey)
	if err := daykey.Assert(from); err != nil {
		return nil, invalidDayKey()
	}
	if err := daykey.Assert(to); err != nil {
		return nil, invalidDayKey()
	}
	return s.store.Days.ListRange(ctx, store.DateRange{
		OwnerKey:       owner,
		StartInclusive: from,
		EndExclusive:   to,
	})
}
