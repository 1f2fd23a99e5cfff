package service

import (
	"context"
	"time"

	"github.com/carebook/carebook/internal/cache"
	"github.com/carebook/carebook/internal/daykey"
	"github.com/carebook/carebook/internal/model"
	"github.com/carebook/carebook/internal/store"
	"github.com/carebook/carebook/internal/validation"
)

// WorkoutService appends workout entries; a day holds any number of them,
// listed by performed time ascending.
type WorkoutService struct {
	store *store.Store
	cache *cache.Cache
	opts  Options
}

type AddWorkoutArgs struct {
	OwnerKey    string     `json:"ownerKey"`
	DayKey      string     `json:"dayKey"`
	PerformedAt *time.Time `json:"performedAt"`
	WorkoutType string     `json:"workoutType"`
	DurationMin int        `json:"durationMin"`
	Intensity   string     `json:"intensity"`
	Detail      string     `json:"detail"`
	AIAssisted  bool       `json:"aiAssisted"`
}

func (s *WorkoutService) Add(ctx context.Context, args AddWorkoutArgs) (*AppendResult, error) {
	owner := s.opts.owner(args.OwnerKey)

	performedAt := time.Now()
	if args.PerformedAt != nil {
		performedAt = *args.PerformedAt
	}
	dayKey := args.DayKey
	if dayKey == "" {
		dayKey = daykey.FromTime(performedAt, s.opts.Location)
	}

	in := validation.WorkoutInput{
		OwnerKey:    owner,
		DayKey:      dayKey,
		PerformedAt: performedAt,
		WorkoutType: args.WorkoutType,
		DurationMin: args.DurationMin,
		Intensity:   args.Intensity,
		Detail:      args.Detail,
		AIAssisted:  args.AIAssisted,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	dayID, err := s.store.Days.Upsert(ctx, store.NewDay{OwnerKey: owner, DayKey: dayKey, DayDate: dayKey})
	if err != nil {
		return nil, err
	}

	created, err := s.store.Workouts.Create(ctx, store.NewWorkout{
		OwnerKey:    owner,
		DayID:       dayID,
		DayKey:      dayKey,
		PerformedAt: performedAt,
		WorkoutType: args.WorkoutType,
		DurationMin: args.DurationMin,
		Intensity:   args.Intensity,
		Detail:      args.Detail,
		AIAssisted:  args.AIAssisted,
	})
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateDay(owner, dayKey)
	return &AppendResult{RecordID: created.ID, DayKey: dayKey}, nil
}

type UpdateWorkoutArgs struct {
	OwnerKey    string     `json:"ownerKey"`
	DayKey      *string    `json:"dayKey"`
	PerformedAt *time.Time `json:"performedAt"`
	WorkoutType *string    `json:"workoutType"`
	DurationMin *int       `json:"durationMin"`
	Intensity   *string    `json:"intensity"`
	Detail      *string    `json:"detail"`
	AIAssisted  *bool      `json:"aiAssisted"`
}

func (s *WorkoutService) Update(ctx context.Context, id string, args UpdateWorkoutArgs) (*AppendResult, error) {
	owner := s.opts.owner(args.OwnerKey)

	var e validation.FieldErrors
	nextDayKey := args.DayKey
	if nextDayKey == nil && args.PerformedAt != nil {
		k := daykey.FromTime(*args.PerformedAt, s.opts.Location)
		nextDayKey = &k
	}
	if nextDayKey != nil {
		if err := daykey.Assert(*nextDayKey); err != nil {
			e = append(e, validation.FieldError{Field: "dayKey", Message: "must be YYYY-MM-DD"})
		}
	}
	if args.WorkoutType != nil && *args.WorkoutType == "" {
		e = append(e, validation.FieldError{Field: "workoutType", Message: "is required"})
	}
	if args.DurationMin != nil && (*args.DurationMin < 0 || *args.DurationMin > daykey.MaxDurationMin) {
		e = append(e, validation.FieldError{Field: "durationMin", Message: "is out of range"})
	}
	if err := e.OrNil(); err != nil {
		return nil, err
	}

	updated, err := s.store.Workouts.Update(ctx, id, store.WorkoutPatch{
		DayKey:      nextDayKey,
		PerformedAt: args.PerformedAt,
		WorkoutType: args.WorkoutType,
		DurationMin: args.DurationMin,
		Intensity:   args.Intensity,
		Detail:      args.Detail,
		AIAssisted:  args.AIAssisted,
	})
	if err != nil {
		return nil, err
	}

	affected := updated.Fields.DayKey
	s.cache.InvalidateDay(owner, affected)
	s.cache.InvalidateOwner(owner)
	return &AppendResult{RecordID: updated.ID, DayKey: affected}, nil
}

func (s *WorkoutService) Delete(ctx context.Context, ownerKey, id string) error {
	owner := s.opts.owner(ownerKey)
	if err := s.store.Workouts.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateOwner(owner)
	return nil
}

func (s *WorkoutService) List(ctx context.Context, ownerKey, dayKey string) ([]model.Workout, error) {
	owner := s.opts.owner(ownerKey)
	if dayKey == "" {
		dayKey = s.opts.todayKey()
	}
	if err := daykey.Assert(dayKey); err != nil {
		return nil, invalidDayKey()
	}
	return cache.GetOrFill(s.cache, "workouts:"+owner+":"+dayKey, cache.TagsForDay(owner, dayKey),
		func() ([]model.Workout, error) {
			return s.store.Workouts.ListByDay(ctx, store.OwnerDay{OwnerKey: owner, DayKey: dayKey})
		})
}
