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

// MealService appends meal entries; a day holds any number of them, listed by
// eaten time ascending.
type MealService struct {
	store *store.Store
	cache *cache.Cache
	opts  Options
}

type AddMealArgs struct {
	OwnerKey     string     `json:"ownerKey"`
	DayKey       string     `json:"dayKey"`
	EatenAt      *time.Time `json:"eatenAt"`
	MealType     string     `json:"mealType"`
	Text         string     `json:"text"`
	ItemsJSON    string     `json:"itemsJson"`
	CaloriesKcal *int       `json:"caloriesKcal"`
	Note         string     `json:"note"`
	AIAssisted   bool       `json:"aiAssisted"`
}

func (s *MealService) Add(ctx context.Context, args AddMealArgs) (*AppendResult, error) {
	owner := s.opts.owner(args.OwnerKey)

	eatenAt := time.Now()
	if args.EatenAt != nil {
		eatenAt = *args.EatenAt
	}
	dayKey := args.DayKey
	if dayKey == "" {
		dayKey = daykey.FromTime(eatenAt, s.opts.Location)
	}

	in := validation.MealInput{
		OwnerKey:     owner,
		DayKey:       dayKey,
		EatenAt:      eatenAt,
		MealType:     args.MealType,
		Text:         args.Text,
		ItemsJSON:    args.ItemsJSON,
		CaloriesKcal: args.CaloriesKcal,
		Note:         args.Note,
		AIAssisted:   args.AIAssisted,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	dayID, err := s.store.Days.Upsert(ctx, store.NewDay{OwnerKey: owner, DayKey: dayKey, DayDate: dayKey})
	if err != nil {
		return nil, err
	}

	created, err := s.store.Meals.Create(ctx, store.NewMeal{
		OwnerKey:     owner,
		DayID:        dayID,
		DayKey:       dayKey,
		EatenAt:      eatenAt,
		MealType:     args.MealType,
		Text:         args.Text,
		ItemsJSON:    args.ItemsJSON,
		CaloriesKcal: args.CaloriesKcal,
		Note:         args.Note,
		AIAssisted:   args.AIAssisted,
	})
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateDay(owner, dayKey)
	return &AppendResult{RecordID: created.ID, DayKey: dayKey}, nil
}

// UpdateMealArgs is a partial update; nil fields stay untouched. Setting
// EatenAt without DayKey re-derives the day, which may move the entry to a
// different day.
type UpdateMealArgs struct {
	OwnerKey     string     `json:"ownerKey"`
	DayKey       *string    `json:"dayKey"`
	EatenAt      *time.Time `json:"eatenAt"`
	MealType     *string    `json:"mealType"`
	Text         *string    `json:"text"`
	ItemsJSON    *string    `json:"itemsJson"`
	CaloriesKcal *int       `json:"caloriesKcal"`
	Note         *string    `json:"note"`
	AIAssisted   *bool      `json:"aiAssisted"`
}

func (s *MealService) Update(ctx context.Context, id string, args UpdateMealArgs) (*AppendResult, error) {
	owner := s.opts.owner(args.OwnerKey)

	var e validation.FieldErrors
	nextDayKey := args.DayKey
	if nextDayKey == nil && args.EatenAt != nil {
		k := daykey.FromTime(*args.EatenAt, s.opts.Location)
		nextDayKey = &k
	}
	if nextDayKey != nil {
		if err := daykey.Assert(*nextDayKey); err != nil {
			e = append(e, validation.FieldError{Field: "dayKey", Message: "must be YYYY-MM-DD"})
		}
	}
	if args.MealType != nil && *args.MealType == "" {
		e = append(e, validation.FieldError{Field: "mealType", Message: "is required"})
	}
	if args.Text != nil && *args.Text == "" {
		e = append(e, validation.FieldError{Field: "text", Message: "is required"})
	}
	if args.CaloriesKcal != nil && (*args.CaloriesKcal < 0 || *args.CaloriesKcal > 10000) {
		e = append(e, validation.FieldError{Field: "caloriesKcal", Message: "must be between 0 and 10000"})
	}
	if err := e.OrNil(); err != nil {
		return nil, err
	}

	updated, err := s.store.Meals.Update(ctx, id, store.MealPatch{
		DayKey:       nextDayKey,
		EatenAt:      args.EatenAt,
		MealType:     args.MealType,
		Text:         args.Text,
		ItemsJSON:    args.ItemsJSON,
		CaloriesKcal: args.CaloriesKcal,
		Note:         args.Note,
		AIAssisted:   args.AIAssisted,
	})
	if err != nil {
		return nil, err
	}

	affected := updated.Fields.DayKey
	s.cache.InvalidateDay(owner, affected)
	// The entry may have moved from a day we no longer know; the owner tag
	// is the safety net for stale caches of the old day.
	s.cache.InvalidateOwner(owner)
	return &AppendResult{RecordID: updated.ID, DayKey: affected}, nil
}

func (s *MealService) Delete(ctx context.Context, ownerKey, id string) error {
	owner := s.opts.owner(ownerKey)
	if err := s.store.Meals.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateOwner(owner)
	return nil
}

func (s *MealService) List(ctx context.Context, ownerKey, dayKey string) ([]model.Meal, error) {
	owner := s.opts.owner(ownerKey)
	if dayKey == "" {
		dayKey = s.opts.todayKey()
	}
	if err := daykey.Assert(dayKey); err != nil {
		return nil, invalidDayKey()
	}
	return cache.GetOrFill(s.cache, "meals:"+owner+":"+dayKey, cache.TagsForDay(owner, dayKey),
		func() ([]model.Meal, error) {
			return s.store.Meals.ListByDay(ctx, store.OwnerDay{OwnerKey: owner, DayKey: dayKey})
		})
}
