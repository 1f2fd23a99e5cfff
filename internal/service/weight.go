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

// WeightService keeps at most one weight reading per owner and day. Saving
// again on the same day overwrites the earlier reading.
type WeightService struct {
	store *store.Store
	cache *cache.Cache
	opts  Options
}

// SaveWeightArgs defaults: OwnerKey to the deployment owner, RecordedAt to
// now, DayKey to RecordedAt's day in the configured timezone.
type SaveWeightArgs struct {
	OwnerKey   string     `json:"ownerKey"`
	DayKey     string     `json:"dayKey"`
	RecordedAt *time.Time `json:"recordedAt"`
	WeightKg   float64    `json:"weightKg"`
	BodyFatPct *float64   `json:"bodyFatPct"`
	Note       string     `json:"note"`
}

func (s *WeightService) Save(ctx context.Context, args SaveWeightArgs) (*SaveResult, error) {
	owner := s.opts.owner(args.OwnerKey)

	recordedAt := time.Now()
	if args.RecordedAt != nil {
		recordedAt = *args.RecordedAt
	}
	dayKey := args.DayKey
	if dayKey == "" {
		dayKey = daykey.FromTime(recordedAt, s.opts.Location)
	}

	in := validation.WeightInput{
		OwnerKey:   owner,
		DayKey:     dayKey,
		RecordedAt: recordedAt,
		WeightKg:   args.WeightKg,
		BodyFatPct: args.BodyFatPct,
		Note:       args.Note,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	dayID, err := s.store.Days.Upsert(ctx, store.NewDay{OwnerKey: owner, DayKey: dayKey, DayDate: dayKey})
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Weights.Find(ctx, store.OwnerDay{OwnerKey: owner, DayKey: dayKey})
	if err != nil {
		return nil, err
	}

	if existing != nil {
		updated, err := s.store.Weights.Update(ctx, existing.ID, store.WeightPatch{
			RecordedAt: &recordedAt,
			WeightKg:   &args.WeightKg,
			BodyFatPct: args.BodyFatPct,
			Note:       &args.Note,
		})
		if err != nil {
			return nil, err
		}
		s.cache.InvalidateDay(owner, dayKey)
		return &SaveResult{RecordID: updated.ID, DayKey: dayKey, Mode: "updated"}, nil
	}

	created, err := s.store.Weights.Create(ctx, store.NewWeight{
		OwnerKey:   owner,
		DayID:      dayID,
		DayKey:     dayKey,
		RecordedAt: recordedAt,
		WeightKg:   args.WeightKg,
		BodyFatPct: args.BodyFatPct,
		Note:       args.Note,
	})
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateDay(owner, dayKey)
	return &SaveResult{RecordID: created.ID, DayKey: dayKey, Mode: "created"}, nil
}

// DeleteByDayArgs defaults DayKey to today.
type DeleteByDayArgs struct {
	OwnerKey string `json:"ownerKey"`
	DayKey   string `json:"dayKey"`
}

// Delete removes the day's reading. Deleting a day with no reading succeeds.
func (s *WeightService) Delete(ctx context.Context, args DeleteByDayArgs) (string, error) {
	owner := s.opts.owner(args.OwnerKey)
	dayKey := args.DayKey
	if dayKey == "" {
		dayKey = s.opts.todayKey()
	}
	if err := daykey.Assert(dayKey); err != nil {
		return "", invalidDayKey()
	}

	if err := s.store.Weights.DeleteByDay(ctx, store.OwnerDay{OwnerKey: owner, DayKey: dayKey}); err != nil {
		return "", err
	}
	s.cache.InvalidateDay(owner, dayKey)
	return dayKey, nil
}

func (s *WeightService) Get(ctx context.Context, ownerKey, dayKey string) (*model.Weight, error) {
	owner := s.opts.owner(ownerKey)
	if dayKey == "" {
		dayKey = s.opts.todayKey()
	}
	if err := daykey.Assert(dayKey); err != nil {
		return nil, invalidDayKey()
	}
	return cache.GetOrFill(s.cache, "weight:"+owner+":"+dayKey, cache.TagsForDay(owner, dayKey),
		func() (*model.Weight, error) {
			return s.store.Weights.Find(ctx, store.OwnerDay{OwnerKey: owner, DayKey: dayKey})
		})
}
