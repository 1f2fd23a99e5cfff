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

// SleepService keeps at most one sleep record per owner and wake-up day.
type SleepService struct {
	store *store.Store
	cache *cache.Cache
	opts  Options
}

// SaveSleepArgs records one night. The day key defaults to the day containing
// SleepEndAt: a night ending at 06:30 on the 6th belongs to the 6th even
// though it started on the 5th.
type SaveSleepArgs struct {
	OwnerKey     string    `json:"ownerKey"`
	DayKey       string    `json:"dayKey"`
	SleepStartAt time.Time `json:"sleepStartAt"`
	SleepEndAt   time.Time `json:"sleepEndAt"`
	Quality      string    `json:"quality"`
	Note         string    `json:"note"`
}

func (s *SleepService) Save(ctx context.Context, args SaveSleepArgs) (*SaveResult, error) {
	owner := s.opts.owner(args.OwnerKey)

	dayKey := args.DayKey
	if dayKey == "" && !args.SleepEndAt.IsZero() {
		dayKey = daykey.FromTime(args.SleepEndAt, s.opts.Location)
	}
	durationMin := daykey.DurationMin(args.SleepStartAt, args.SleepEndAt)

	in := validation.SleepInput{
		OwnerKey:     owner,
		DayKey:       dayKey,
		SleepStartAt: args.SleepStartAt,
		SleepEndAt:   args.SleepEndAt,
		DurationMin:  durationMin,
		Quality:      args.Quality,
		Note:         args.Note,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	dayID, err := s.store.Days.Upsert(ctx, store.NewDay{OwnerKey: owner, DayKey: dayKey, DayDate: dayKey})
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Sleeps.Find(ctx, store.OwnerDay{OwnerKey: owner, DayKey: dayKey})
	if err != nil {
		return nil, err
	}

	if existing != nil {
		updated, err := s.store.Sleeps.Update(ctx, existing.ID, store.SleepPatch{
			SleepStartAt: &args.SleepStartAt,
			SleepEndAt:   &args.SleepEndAt,
			DurationMin:  &durationMin,
			Quality:      &args.Quality,
			Note:         &args.Note,
		})
		if err != nil {
			return nil, err
		}
		s.cache.InvalidateDay(owner, dayKey)
		return &SaveResult{RecordID: updated.ID, DayKey: dayKey, Mode: "updated"}, nil
	}

	created, err := s.store.Sleeps.Create(ctx, store.NewSleep{
		OwnerKey:     owner,
		DayID:        dayID,
		DayKey:       dayKey,
		SleepStartAt: args.SleepStartAt,
		SleepEndAt:   args.SleepEndAt,
		DurationMin:  durationMin,
		Quality:      args.Quality,
		Note:         args.Note,
	})
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateDay(owner, dayKey)
	return &SaveResult{RecordID: created.ID, DayKey: dayKey, Mode: "created"}, nil
}

func (s *SleepService) Delete(ctx context.Context, args DeleteByDayArgs) (string, error) {
	owner := s.opts.owner(args.OwnerKey)
	dayKey := args.DayKey
	if dayKey == "" {
		dayKey = s.opts.todayKey()
	}
	if err := daykey.Assert(dayKey); err != nil {
		return "", invalidDayKey()
	}

	if err := s.store.Sleeps.DeleteByDay(ctx, store.OwnerDay{OwnerKey: owner, DayKey: dayKey}); err != nil {
		return "", err
	}
	s.cache.InvalidateDay(owner, dayKey)
	return dayKey, nil
}

func (s *SleepService) Get(ctx context.Context, ownerKey, dayKey string) (*model.Sleep, error) {
	owner := s.opts.owner(ownerKey)
	if dayKey == "" {
		dayKey = s.opts.todayKey()
	}
	if err := daykey.Assert(dayKey); err != nil {
		return nil, invalidDayKey()
	}
	return cache.GetOrFill(s.cache, "sleep:"+owner+":"+dayKey, cache.TagsForDay(owner, dayKey),
		func() (*model.Sleep, error) {
			return s.store.Sleeps.Find(ctx, store.OwnerDay{OwnerKey: owner, DayKey: dayKey})
		})
}
