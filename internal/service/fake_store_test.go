package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carebook/carebook/internal/model"
	"github.com/carebook/carebook/internal/store"
)

// fakeBackend is an in-memory store for service tests. It mimics the
// relational backend's semantics: unique (owner, dayKey) days and live counts.
type fakeBackend struct {
	mu       sync.Mutex
	seq      int
	days     map[string]*model.Day // keyed owner|dayKey
	weights  map[string]*model.Weight
	sleeps   map[string]*model.Sleep
	meals    map[string]*model.Meal
	workouts map[string]*model.Workout
	journal  map[string]*model.JournalEntry
}

func newFakeStore() (*store.Store, *fakeBackend) {
	b := &fakeBackend{
		days:     map[string]*model.Day{},
		weights:  map[string]*model.Weight{},
		sleeps:   map[string]*model.Sleep{},
		meals:    map[string]*model.Meal{},
		workouts: map[string]*model.Workout{},
		journal:  map[string]*model.JournalEntry{},
	}
	return &store.Store{
		Backend:    "fake",
		Configured: true,
		Days:       (*fakeDays)(b),
		Weights:    (*fakeWeights)(b),
		Sleeps:     (*fakeSleeps)(b),
		Meals:      (*fakeMeals)(b),
		Workouts:   (*fakeWorkouts)(b),
		Journal:    (*fakeJournal)(b),
	}, b
}

func (b *fakeBackend) nextID() string {
	b.seq++
	return fmt.Sprintf("rec%d", b.seq)
}

func dayMapKey(owner, dayKey string) string { return owner + "|" + dayKey }

type fakeDays fakeBackend

func (f *fakeDays) Find(_ context.Context, key store.OwnerDay) (*model.Day, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	day, ok := b.days[dayMapKey(key.OwnerKey, key.DayKey)]
	if !ok {
		return nil, nil
	}
	out := *day
	out.Fields.WeightCount, out.Fields.SleepCount, out.Fields.MealCount, out.Fields.WorkoutCount =
		b.countLocked(key.OwnerKey, key.DayKey)
	return &out, nil
}

func (b *fakeBackend) countLocked(owner, dayKey string) (w, s, m, wo int) {
	for _, r := range b.weights {
		if r.Fields.OwnerKey == owner && r.Fields.DayKey == dayKey {
			w++
		}
	}
	for _, r := range b.sleeps {
		if r.Fields.OwnerKey == owner && r.Fields.DayKey == dayKey {
			s++
		}
	}
	for _, r := range b.meals {
		if r.Fields.OwnerKey == owner && r.Fields.DayKey == dayKey {
			m++
		}
	}
	for _, r := range b.workouts {
		if r.Fields.OwnerKey == owner && r.Fields.DayKey == dayKey {
			wo++
		}
	}
	return
}

func (f *fakeDays) Upsert(_ context.Context, day store.NewDay) (string, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	k := dayMapKey(day.OwnerKey, day.DayKey)
	if existing, ok := b.days[k]; ok {
		return existing.ID, nil
	}
	d := &model.Day{
		ID:        b.nextID(),
		CreatedAt: time.Now(),
		Fields: model.DayFields{
			OwnerKey: day.OwnerKey, DayKey: day.DayKey, DayDate: day.DayDate,
		},
	}
	b.days[k] = d
	return d.ID, nil
}

func (f *fakeDays) ListRange(_ context.Context, rng store.DateRange) ([]model.Day, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Day
	for _, d := range b.days {
		fl := d.Fields
		if fl.OwnerKey != rng.OwnerKey || fl.DayKey < rng.StartInclusive || fl.DayKey >= rng.EndExclusive {
			continue
		}
		cp := *d
		cp.Fields.WeightCount, cp.Fields.SleepCount, cp.Fields.MealCount, cp.Fields.WorkoutCount =
			b.countLocked(fl.OwnerKey, fl.DayKey)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fields.DayKey < out[j].Fields.DayKey })
	return out, nil
}

type fakeWeights fakeBackend

func (f *fakeWeights) Find(_ context.Context, key store.OwnerDay) (*model.Weight, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.weights {
		if r.Fields.OwnerKey == key.OwnerKey && r.Fields.DayKey == key.DayKey {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeWeights) Create(_ context.Context, in store.NewWeight) (*model.Weight, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	r := &model.Weight{
		ID:        b.nextID(),
		CreatedAt: time.Now(),
		Fields: model.WeightFields{
			OwnerKey: in.OwnerKey, DayID: in.DayID, DayKey: in.DayKey,
			RecordedAt: in.RecordedAt, WeightKg: in.WeightKg,
			BodyFatPct: in.BodyFatPct, Note: in.Note,
		},
	}
	b.weights[r.ID] = r
	return r, nil
}

func (f *fakeWeights) Update(_ context.Context, id string, patch store.WeightPatch) (*model.Weight, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.weights[id]
	if !ok {
		return nil, &store.NotFoundError{Kind: "weight", ID: id}
	}
	if patch.DayKey != nil {
		r.Fields.DayKey = *patch.DayKey
	}
	if patch.RecordedAt != nil {
		r.Fields.RecordedAt = *patch.RecordedAt
	}
	if patch.WeightKg != nil {
		r.Fields.WeightKg = *patch.WeightKg
	}
	if patch.BodyFatPct != nil {
		r.Fields.BodyFatPct = patch.BodyFatPct
	}
	if patch.Note != nil {
		r.Fields.Note = *patch.Note
	}
	cp := *r
	return &cp, nil
}

func (f *fakeWeights) DeleteByDay(_ context.Context, key store.OwnerDay) error {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, r := range b.weights {
		if r.Fields.OwnerKey == key.OwnerKey && r.Fields.DayKey == key.DayKey {
			delete(b.weights, id)
		}
	}
	return nil
}

type fakeSleeps fakeBackend

func (f *fakeSleeps) Find(_ context.Context, key store.OwnerDay) (*model.Sleep, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.sleeps {
		if r.Fields.OwnerKey == key.OwnerKey && r.Fields.DayKey == key.DayKey {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSleeps) Create(_ context.Context, in store.NewSleep) (*model.Sleep, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	r := &model.Sleep{
		ID:        b.nextID(),
		CreatedAt: time.Now(),
		Fields: model.SleepFields{
			OwnerKey: in.OwnerKey, DayID: in.DayID, DayKey: in.DayKey,
			SleepStartAt: in.SleepStartAt, SleepEndAt: in.SleepEndAt,
			DurationMin: in.DurationMin, Quality: in.Quality, Note: in.Note,
		},
	}
	b.sleeps[r.ID] = r
	return r, nil
}

func (f *fakeSleeps) Update(_ context.Context, id string, patch store.SleepPatch) (*model.Sleep, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.sleeps[id]
	if !ok {
		return nil, &store.NotFoundError{Kind: "sleep", ID: id}
	}
	if patch.DayKey != nil {
		r.Fields.DayKey = *patch.DayKey
	}
	if patch.SleepStartAt != nil {
		r.Fields.SleepStartAt = *patch.SleepStartAt
	}
	if patch.SleepEndAt != nil {
		r.Fields.SleepEndAt = *patch.SleepEndAt
	}
	if patch.DurationMin != nil {
		r.Fields.DurationMin = *patch.DurationMin
	}
	if patch.Quality != nil {
		r.Fields.Quality = *patch.Quality
	}
	if patch.Note != nil {
		r.Fields.Note = *patch.Note
	}
	cp := *r
	return &cp, nil
}

func (f *fakeSleeps) DeleteByDay(_ context.Context, key store.OwnerDay) error {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, r := range b.sleeps {
		if r.Fields.OwnerKey == key.OwnerKey && r.Fields.DayKey == key.DayKey {
			delete(b.sleeps, id)
		}
	}
	return nil
}

type fakeMeals fakeBackend

func (f *fakeMeals) ListByDay(_ context.Context, key store.OwnerDay) ([]model.Meal, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.Meal{}
	for _, r := range b.meals {
		if r.Fields.OwnerKey == key.OwnerKey && r.Fields.DayKey == key.DayKey {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fields.EatenAt.Before(out[j].Fields.EatenAt) })
	return out, nil
}

func (f *fakeMeals) Create(_ context.Context, in store.NewMeal) (*model.Meal, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	r := &model.Meal{
		ID:        b.nextID(),
		CreatedAt: time.Now(),
		Fields: model.MealFields{
			OwnerKey: in.OwnerKey, DayID: in.DayID, DayKey: in.DayKey,
			EatenAt: in.EatenAt, MealType: in.MealType, Text: in.Text,
			ItemsJSON: in.ItemsJSON, CaloriesKcal: in.CaloriesKcal,
			Note: in.Note, AIAssisted: in.AIAssisted,
		},
	}
	b.meals[r.ID] = r
	return r, nil
}

func (f *fakeMeals) Update(_ context.Context, id string, patch store.MealPatch) (*model.Meal, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.meals[id]
	if !ok {
		return nil, &store.NotFoundError{Kind: "meal", ID: id}
	}
	if patch.DayKey != nil {
		r.Fields.DayKey = *patch.DayKey
	}
	if patch.EatenAt != nil {
		r.Fields.EatenAt = *patch.EatenAt
	}
	if patch.MealType != nil {
		r.Fields.MealType = *patch.MealType
	}
	if patch.Text != nil {
		r.Fields.Text = *patch.Text
	}
	if patch.ItemsJSON != nil {
		r.Fields.ItemsJSON = *patch.ItemsJSON
	}
	if patch.CaloriesKcal != nil {
		r.Fields.CaloriesKcal = patch.CaloriesKcal
	}
	if patch.Note != nil {
		r.Fields.Note = *patch.Note
	}
	if patch.AIAssisted != nil {
		r.Fields.AIAssisted = *patch.AIAssisted
	}
	cp := *r
	return &cp, nil
}

func (f *fakeMeals) Delete(_ context.Context, id string) error {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.meals[id]; !ok {
		return &store.NotFoundError{Kind: "meal", ID: id}
	}
	delete(b.meals, id)
	return nil
}

type fakeWorkouts fakeBackend

func (f *fakeWorkouts) ListByDay(_ context.Context, key store.OwnerDay) ([]model.Workout, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.Workout{}
	for _, r := range b.workouts {
		if r.Fields.OwnerKey == key.OwnerKey && r.Fields.DayKey == key.DayKey {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Fields.PerformedAt.Before(out[j].Fields.PerformedAt)
	})
	return out, nil
}

func (f *fakeWorkouts) Create(_ context.Context, in store.NewWorkout) (*model.Workout, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	r := &model.Workout{
		ID:        b.nextID(),
		CreatedAt: time.Now(),
		Fields: model.WorkoutFields{
			OwnerKey: in.OwnerKey, DayID: in.DayID, DayKey: in.DayKey,
			PerformedAt: in.PerformedAt, WorkoutType: in.WorkoutType,
			DurationMin: in.DurationMin, Intensity: in.Intensity,
			Detail: in.Detail, AIAssisted: in.AIAssisted,
		},
	}
	b.workouts[r.ID] = r
	return r, nil
}

func (f *fakeWorkouts) Update(_ context.Context, id string, patch store.WorkoutPatch) (*model.Workout, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.workouts[id]
	if !ok {
		return nil, &store.NotFoundError{Kind: "workout", ID: id}
	}
	if patch.DayKey != nil {
		r.Fields.DayKey = *patch.DayKey
	}
	if patch.PerformedAt != nil {
		r.Fields.PerformedAt = *patch.PerformedAt
	}
	if patch.WorkoutType != nil {
		r.Fields.WorkoutType = *patch.WorkoutType
	}
	if patch.DurationMin != nil {
		r.Fields.DurationMin = *patch.DurationMin
	}
	if patch.Intensity != nil {
		r.Fields.Intensity = *patch.Intensity
	}
	if patch.Detail != nil {
		r.Fields.Detail = *patch.Detail
	}
	if patch.AIAssisted != nil {
		r.Fields.AIAssisted = *patch.AIAssisted
	}
	cp := *r
	return &cp, nil
}

func (f *fakeWorkouts) Delete(_ context.Context, id string) error {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.workouts[id]; !ok {
		return &store.NotFoundError{Kind: "workout", ID: id}
	}
	delete(b.workouts, id)
	return nil
}

type fakeJournal fakeBackend

func (f *fakeJournal) List(_ context.Context, ownerKey string, page store.JournalPage) ([]model.JournalEntry, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.JournalEntry{}
	for _, r := range b.journal {
		if r.OwnerKey == ownerKey {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeJournal) ByID(_ context.Context, ownerKey, id string) (*model.JournalEntry, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.journal[id]
	if !ok || r.OwnerKey != ownerKey {
		return nil, &store.NotFoundError{Kind: "journal entry", ID: id}
	}
	cp := *r
	return &cp, nil
}

func (f *fakeJournal) Create(_ context.Context, in store.NewJournal) (*model.JournalEntry, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	r := &model.JournalEntry{
		ID:          b.nextID(),
		OwnerKey:    in.OwnerKey,
		Title:       in.Title,
		Details:     in.Details,
		Attachments: in.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.journal[r.ID] = r
	cp := *r
	return &cp, nil
}

func (f *fakeJournal) Update(_ context.Context, ownerKey, id string, in store.NewJournal) (*model.JournalEntry, error) {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.journal[id]
	if !ok || r.OwnerKey != ownerKey {
		return nil, &store.NotFoundError{Kind: "journal entry", ID: id}
	}
	r.Title = in.Title
	r.Details = in.Details
	r.Attachments = in.Attachments
	r.UpdatedAt = time.Now()
	cp := *r
	return &cp, nil
}

func (f *fakeJournal) Delete(_ context.Context, ownerKey, id string) error {
	b := (*fakeBackend)(f)
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.journal[id]
	if !ok || r.OwnerKey != ownerKey {
		return &store.NotFoundError{Kind: "journal entry", ID: id}
	}
	delete(b.journal, id)
	return nil
}
