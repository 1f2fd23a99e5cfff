package airtable

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/carebook/carebook/internal/model"
	"github.com/carebook/carebook/internal/store"
)

// asNotFound rewrites a 404 from the records API into the store's not-found
// error so callers stay backend-agnostic.
func asNotFound(err error, kind, id string) error {
	var re *RequestError
	if errors.As(err, &re) && re.Status == http.StatusNotFound {
		return &store.NotFoundError{Kind: kind, ID: id}
	}
	return err
}

func isoString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type weightRepo struct {
	c         *Client
	table     string
	daysTable string
}

func (r *weightRepo) Find(ctx context.Context, key store.OwnerDay) (*model.Weight, error) {
	records, err := listAll[weightFields](ctx, r.c, r.table, listOptions{
		FilterByFormula: ownerDayFormula(key.OwnerKey, key.DayKey),
		MaxRecords:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	m := records[0].Fields.toModel(records[0])
	return &m, nil
}

func (r *weightRepo) Create(ctx context.Context, in store.NewWeight) (*model.Weight, error) {
	rec, err := createOne(ctx, r.c, r.table, weightFields{
		OwnerKey:   in.OwnerKey,
		DayRef:     []string{in.DayID},
		DayKey:     in.DayKey,
		RecordedAt: isoString(in.RecordedAt),
		WeightKg:   in.WeightKg,
		BodyFatPct: in.BodyFatPct,
		Note:       in.Note,
	})
	if err != nil {
		return nil, err
	}
	m := rec.Fields.toModel(*rec)
	return &m, nil
}

func (r *weightRepo) Update(ctx context.Context, id string, patch store.WeightPatch) (*model.Weight, error) {
	cur, err := getOne[weightFields](ctx, r.c, r.table, id)
	if err != nil {
		return nil, asNotFound(err, "weight", id)
	}

	fields := map[string]any{}
	if patch.DayKey != nil && *patch.DayKey != cur.Fields.DayKey {
		dayID, err := upsertDayRecord(ctx, r.c, r.daysTable, store.NewDay{
			OwnerKey: cur.Fields.OwnerKey, DayKey: *patch.DayKey, DayDate: *patch.DayKey,
		})
		if err != nil {
			return nil, err
		}
		fields["dayKey"] = *patch.DayKey
		fields["dayRef"] = []string{dayID}
	}
	if patch.RecordedAt != nil {
		fields["recordedAt"] = isoString(*patch.RecordedAt)
	}
	if patch.WeightKg != nil {
		fields["weightKg"] = *patch.WeightKg
	}
	if patch.BodyFatPct != nil {
		fields["bodyFatPct"] = *patch.BodyFatPct
	}
	if patch.Note != nil {
		fields["note"] = *patch.Note
	}

	rec, err := updateOne[weightFields](ctx, r.c, r.table, id, fields)
	if err != nil {
		return nil, asNotFound(err, "weight", id)
	}
	m := rec.Fields.toModel(*rec)
	return &m, nil
}

func (r *weightRepo) DeleteByDay(ctx context.Context, key store.OwnerDay) error {
	existing, err := r.Find(ctx, key)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	return deleteOne(ctx, r.c, r.table, existing.ID)
}

type sleepRepo struct {
	c         *Client
	table     string
	daysTable string
}

func (r *sleepRepo) Find(ctx context.Context, key store.OwnerDay) (*model.Sleep, error) {
	records, err := listAll[sleepFields](ctx, r.c, r.table, listOptions{
		FilterByFormula: ownerDayFormula(key.OwnerKey, key.DayKey),
		MaxRecords:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	m := records[0].Fields.toModel(records[0])
	return &m, nil
}

func (r *sleepRepo) Create(ctx context.Context, in store.NewSleep) (*model.Sleep, error) {
	rec, err := createOne(ctx, r.c, r.table, sleepFields{
		OwnerKey:     in.OwnerKey,
		DayRef:       []string{in.DayID},
		DayKey:       in.DayKey,
		SleepStartAt: isoString(in.SleepStartAt),
		SleepEndAt:   isoString(in.SleepEndAt),
		DurationMin:  in.DurationMin,
		Quality:      in.Quality,
		Note:         in.Note,
	})
	if err != nil {
		return nil, err
	}
	m := rec.Fields.toModel(*rec)
	return &m, nil
}

func (r *sleepRepo) Update(ctx context.Context, id string, patch store.SleepPatch) (*model.Sleep, error) {
	cur, err := getOne[sleepFields](ctx, r.c, r.table, id)
	if err != nil {
		return nil, asNotFound(err, "sleep", id)
	}

	fields := map[string]any{}
	if patch.DayKey != nil && *patch.DayKey != cur.Fields.DayKey {
		dayID, err := upsertDayRecord(ctx, r.c, r.daysTable, store.NewDay{
			OwnerKey: cur.Fields.OwnerKey, DayKey: *patch.DayKey, DayDate: *patch.DayKey,
		})
		if err != nil {
			return nil, err
		}
		fields["dayKey"] = *patch.DayKey
		fields["dayRef"] = []string{dayID}
	}
	if patch.SleepStartAt != nil {
		fields["sleepStartAt"] = isoString(*patch.SleepStartAt)
	}
	if patch.SleepEndAt != nil {
		fields["sleepEndAt"] = isoString(*patch.SleepEndAt)
	}
	if patch.DurationMin != nil {
		fields["durationMin"] = *patch.DurationMin
	}
	if patch.Quality != nil {
		fields["quality"] = *patch.Quality
	}
	if patch.Note != nil {
		fields["note"] = *patch.Note
	}

	rec, err := updateOne[sleepFields](ctx, r.c, r.table, id, fields)
	if err != nil {
		return nil, asNotFound(err, "sleep", id)
	}
	m := rec.Fields.toModel(*rec)
	return &m, nil
}

func (r *sleepRepo) DeleteByDay(ctx context.Context, key store.OwnerDay) error {
	existing, err := r.Find(ctx, key)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	return deleteOne(ctx, r.c, r.table, existing.ID)
}

type mealRepo struct {
	c         *Client
	table     string
	daysTable string
}

func (r *mealRepo) ListByDay(ctx context.Context, key store.OwnerDay) ([]model.Meal, error) {
	records, err := listAll[mealFields](ctx, r.c, r.table, listOptions{
		FilterByFormula: ownerDayFormula(key.OwnerKey, key.DayKey),
		Sort:            []sortSpec{{Field: "eatenAt", Direction: "asc"}},
		PageSize:        100,
	})
	if err != nil {
		return nil, err
	}
	meals := make([]model.Meal, 0, len(records))
	for _, rec := range records {
		meals = append(meals, rec.Fields.toModel(rec))
	}
	return meals, nil
}

func (r *mealRepo) Create(ctx context.Context, in store.NewMeal) (*model.Meal, error) {
	rec, err := createOne(ctx, r.c, r.table, mealFields{
		OwnerKey:     in.OwnerKey,
		DayRef:       []string{in.DayID},
		DayKey:       in.DayKey,
		EatenAt:      isoString(in.EatenAt),
		MealType:     in.MealType,
		Text:         in.Text,
		ItemsJSON:    in.ItemsJSON,
		CaloriesKcal: in.CaloriesKcal,
		Note:         in.Note,
		AIAssisted:   in.AIAssisted,
	})
	if err != nil {
		return nil, err
	}
	m := rec.Fields.toModel(*rec)
	return &m, nil
}

func (r *mealRepo) Update(ctx context.Context, id string, patch store.MealPatch) (*model.Meal, error) {
	cur, err := getOne[mealFields](ctx, r.c, r.table, id)
	if err != nil {
		return nil, asNotFound(err, "meal", id)
	}

	fields := map[string]any{}
	if patch.DayKey != nil && *patch.DayKey != cur.Fields.DayKey {
		dayID, err := upsertDayRecord(ctx, r.c, r.daysTable, store.NewDay{
			OwnerKey: cur.Fields.OwnerKey, DayKey: *patch.DayKey, DayDate: *patch.DayKey,
		})
		if err != nil {
			return nil, err
		}
		fields["dayKey"] = *patch.DayKey
		fields["dayRef"] = []string{dayID}
	}
	if patch.EatenAt != nil {
		fields["eatenAt"] = isoString(*patch.EatenAt)
	}
	if patch.MealType != nil {
		fields["mealType"] = *patch.MealType
	}
	if patch.Text != nil {
		fields["text"] = *patch.Text
	}
	if patch.ItemsJSON != nil {
		fields["itemsJson"] = *patch.ItemsJSON
	}
	if patch.CaloriesKcal != nil {
		fields["caloriesKcal"] = *patch.CaloriesKcal
	}
	if patch.Note != nil {
		fields["note"] = *patch.Note
	}
	if patch.AIAssisted != nil {
		fields["aiAssisted"] = *patch.AIAssisted
	}

	rec, err := updateOne[mealFields](ctx, r.c, r.table, id, fields)
	if err != nil {
		return nil, asNotFound(err, "meal", id)
	}
	m := rec.Fields.toModel(*rec)
	return &m, nil
}

func (r *mealRepo) Delete(ctx context.Context, id string) error {
	return asNotFound(deleteOne(ctx, r.c, r.table, id), "meal", id)
}

type workoutRepo struct {
	c         *Client
	table     string
	daysTable string
}

func (r *workoutRepo) ListByDay(ctx context.Context, key store.OwnerDay) ([]model.Workout, error) {
	records, err := listAll[workoutFields](ctx, r.c, r.table, listOptions{
		FilterByFormula: ownerDayFormula(key.OwnerKey, key.DayKey),
		Sort:            []sortSpec{{Field: "performedAt", Direction: "asc"}},
		PageSize:        100,
	})
	if err != nil {
		return nil, err
	}
	workouts := make([]model.Workout, 0, len(records))
	for _, rec := range records {
		workouts = append(workouts, rec.Fields.toModel(rec))
	}
	return workouts, nil
}

func (r *workoutRepo) Create(ctx context.Context, in store.NewWorkout) (*model.Workout, error) {
	rec, err := createOne(ctx, r.c, r.table, workoutFields{
		OwnerKey:    in.OwnerKey,
		DayRef:      []string{in.DayID},
		DayKey:      in.DayKey,
		PerformedAt: isoString(in.PerformedAt),
		WorkoutType: in.WorkoutType,
		DurationMin: in.DurationMin,
		Intensity:   in.Intensity,
		Detail:      in.Detail,
		AIAssisted:  in.AIAssisted,
	})
	if err != nil {
		return nil, err
	}
	m := rec.Fields.toModel(*rec)
	return &m, nil
}

func (r *workoutRepo) Update(ctx context.Context, id string, patch store.WorkoutPatch) (*model.Workout, error) {
	cur, err := getOne[workoutFields](ctx, r.c, r.table, id)
	if err != nil {
		return nil, asNotFound(err, "workout", id)
	}

	fields := map[string]any{}
	if patch.DayKey != nil && *patch.DayKey != cur.Fields.DayKey {
		dayID, err := upsertDayRecord(ctx, r.c, r.daysTable, store.NewDay{
			OwnerKey: cur.Fields.OwnerKey, DayKey: *patch.DayKey, DayDate: *patch.DayKey,
		})
		if err != nil {
			return nil, err
		}
		fields["dayKey"] = *patch.DayKey
		fields["dayRef"] = []string{dayID}
	}
	if patch.PerformedAt != nil {
		fields["performedAt"] = isoString(*patch.PerformedAt)
	}
	if patch.WorkoutType != nil {
		fields["workoutType"] = *patch.WorkoutType
	}
	if patch.DurationMin != nil {
		fields["durationMin"] = *patch.DurationMin
	}
	if patch.Intensity != nil {
		fields["intensity"] = *patch.Intensity
	}
	if patch.Detail != nil {
		fields["detail"] = *patch.Detail
	}
	if patch.AIAssisted != nil {
		fields["aiAssisted"] = *patch.AIAssisted
	}

	rec, err := updateOne[workoutFields](ctx, r.c, r.table, id, fields)
	if err != nil {
		return nil, asNotFound(err, "workout", id)
	}
	m := rec.Fields.toModel(*rec)
	return &m, nil
}

func (r *workoutRepo) Delete(ctx context.Context, id string) error {
	return asNotFound(deleteOne(ctx, r.c, r.table, id), "workout", id)
}
