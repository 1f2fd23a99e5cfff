package airtable

import (
	"context"

	"github.com/carebook/carebook/internal/daykey"
	"github.com/carebook/carebook/internal/model"
	"github.com/carebook/carebook/internal/store"
)

type dayRepo struct {
	c      *Client
	tables Tables
}

func (r *dayRepo) findRecord(ctx context.Context, key store.OwnerDay) (*record[dayFields], error) {
	records, err := listAll[dayFields](ctx, r.c, r.tables.Days, listOptions{
		FilterByFormula: ownerDayFormula(key.OwnerKey, key.DayKey),
		MaxRecords:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *dayRepo) Find(ctx context.Context, key store.OwnerDay) (*model.Day, error) {
	rec, err := r.findRecord(ctx, key)
	if err != nil || rec == nil {
		return nil, err
	}

	counts, err := r.countDay(ctx, key)
	if err != nil {
		return nil, err
	}

	day := model.Day{
		ID:        rec.ID,
		CreatedAt: rec.CreatedTime,
		Fields: model.DayFields{
			OwnerKey:     rec.Fields.OwnerKey,
			DayKey:       rec.Fields.DayKey,
			DayDate:      rec.Fields.DayDate,
			WeightCount:  counts.weight,
			SleepCount:   counts.sleep,
			MealCount:    counts.meal,
			WorkoutCount: counts.workout,
		},
	}
	return &day, nil
}

func (r *dayRepo) Upsert(ctx context.Context, day store.NewDay) (string, error) {
	return upsertDayRecord(ctx, r.c, r.tables.Days, day)
}

// upsertDayRecord is find-then-create. Without a uniqueness constraint two
// concurrent first-writers can race to duplicates; Find always takes the
// first match, so the duplicate is inert rather than harmful.
func upsertDayRecord(ctx context.Context, c *Client, table string, day store.NewDay) (string, error) {
	existing, err := listAll[dayFields](ctx, c, table, listOptions{
		FilterByFormula: ownerDayFormula(day.OwnerKey, day.DayKey),
		MaxRecords:      1,
	})
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		return existing[0].ID, nil
	}

	created, err := createOne(ctx, c, table, dayFields{
		OwnerKey: day.OwnerKey,
		DayKey:   day.DayKey,
		DayDate:  day.DayDate,
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (r *dayRepo) ListRange(ctx context.Context, rng store.DateRange) ([]model.Day, error) {
	startMinusOne, err := daykey.AddDays(rng.StartInclusive, -1)
	if err != nil {
		return nil, err
	}

	records, err := listAll[dayFields](ctx, r.c, r.tables.Days, listOptions{
		FilterByFormula: dayDateRangeFormula(rng.OwnerKey, startMinusOne, rng.EndExclusive),
		Sort:            []sortSpec{{Field: "dayDate", Direction: "asc"}},
		PageSize:        100,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []model.Day{}, nil
	}

	counts, err := r.countRange(ctx, rng)
	if err != nil {
		return nil, err
	}

	days := make([]model.Day, 0, len(records))
	for _, rec := range records {
		c := counts[rec.Fields.DayKey]
		days = append(days, model.Day{
			ID:        rec.ID,
			CreatedAt: rec.CreatedTime,
			Fields: model.DayFields{
				OwnerKey:     rec.Fields.OwnerKey,
				DayKey:       rec.Fields.DayKey,
				DayDate:      rec.Fields.DayDate,
				WeightCount:  c.weight,
				SleepCount:   c.sleep,
				MealCount:    c.meal,
				WorkoutCount: c.workout,
			},
		})
	}
	return days, nil
}

type dayCounts struct {
	weight, sleep, meal, workout int
}

// countRange tallies child records per day key over one formula-filtered list
// per child table. The API has no aggregation, so counting happens here.
func (r *dayRepo) countRange(ctx context.Context, rng store.DateRange) (map[string]dayCounts, error) {
	formula := ownerDayRangeFormula(rng.OwnerKey, rng.StartInclusive, rng.EndExclusive)
	counts := make(map[string]dayCounts)

	tally := func(table string, bump func(*dayCounts)) error {
		records, err := listAll[struct {
			DayKey string `json:"dayKey"`
		}](ctx, r.c, table, listOptions{FilterByFormula: formula, PageSize: 100})
		if err != nil {
			return err
		}
		for _, rec := range records {
			c := counts[rec.Fields.DayKey]
			bump(&c)
			counts[rec.Fields.DayKey] = c
		}
		return nil
	}

	if err := tally(r.tables.Weight, func(c *dayCounts) { c.weight++ }); err != nil {
		return nil, err
	}
	if err := tally(r.tables.Sleep, func(c *dayCounts) { c.sleep++ }); err != nil {
		return nil, err
	}
	if err := tally(r.tables.Meal, func(c *dayCounts) { c.meal++ }); err != nil {
		return nil, err
	}
	if err := tally(r.tables.Workout, func(c *dayCounts) { c.workout++ }); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *dayRepo) countDay(ctx context.Context, key store.OwnerDay) (dayCounts, error) {
	next, err := daykey.AddDays(key.DayKey, 1)
	if err != nil {
		return dayCounts{}, err
	}
	counts, err := r.countRange(ctx, store.DateRange{
		OwnerKey:       key.OwnerKey,
		StartInclusive: key.DayKey,
		EndExclusive:   next,
	})
	if err != nil {
		return dayCounts{}, err
	}
	return counts[key.DayKey], nil
}
