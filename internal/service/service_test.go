package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/carebook/carebook/internal/cache"
	"github.com/carebook/carebook/internal/validation"
)

var tokyo = time.FixedZone("UTC+9", 9*60*60)

func newTestServices(t *testing.T) (*Services, *fakeBackend) {
	t.Helper()
	st, backend := newFakeStore()
	c := cache.New(time.Minute)
	svc := New(st, c, Options{DefaultOwner: "default", Location: tokyo}, nil, nil)
	return svc, backend
}

func TestWeightSaveCreatesThenOverwrites(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestServices(t)

	at := time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC)
	first, err := svc.Weights.Save(ctx, SaveWeightArgs{RecordedAt: &at, WeightKg: 70.5})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if first.Mode != "created" {
		t.Errorf("first Mode = %q, want created", first.Mode)
	}

	second, err := svc.Weights.Save(ctx, SaveWeightArgs{RecordedAt: &at, WeightKg: 71.0})
	if err != nil {
		t.Fatalf("Save() second error = %v", err)
	}
	if second.Mode != "updated" {
		t.Errorf("second Mode = %q, want updated", second.Mode)
	}
	if second.RecordID != first.RecordID {
		t.Errorf("overwrite should reuse the record: %q vs %q", second.RecordID, first.RecordID)
	}
	if len(backend.weights) != 1 {
		t.Errorf("weights stored = %d, want 1", len(backend.weights))
	}

	got, err := svc.Weights.Get(ctx, "", first.DayKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.Fields.WeightKg != 71.0 {
		t.Errorf("Get() = %+v, want the second reading", got)
	}
}

func TestWeightSaveDerivesDayKeyInTimezone(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	// 23:30 UTC on the 5th is already the 6th in UTC+9.
	at := time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC)
	res, err := svc.Weights.Save(ctx, SaveWeightArgs{RecordedAt: &at, WeightKg: 70})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if res.DayKey != "2024-03-06" {
		t.Errorf("DayKey = %q, want 2024-03-06", res.DayKey)
	}
}

func TestWeightSaveValidationRendersFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	at := time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC)
	bad := 95.0
	_, err := svc.Weights.Save(ctx, SaveWeightArgs{RecordedAt: &at, WeightKg: 10, BodyFatPct: &bad})
	var fe validation.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("Save() error = %v, want FieldErrors", err)
	}
	msg := fe.Error()
	if !strings.Contains(msg, "weightKg:") || !strings.Contains(msg, "bodyFatPct:") {
		t.Errorf("error rendering = %q", msg)
	}
	if !strings.Contains(msg, "; ") {
		t.Errorf("multiple failures should join with semicolons: %q", msg)
	}
}

func TestWeightDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	dayKey, err := svc.Weights.Delete(ctx, DeleteByDayArgs{DayKey: "2024-03-05"})
	if err != nil {
		t.Fatalf("Delete() on empty error = %v", err)
	}
	if dayKey != "2024-03-05" {
		t.Errorf("Delete() dayKey = %q", dayKey)
	}
}

func TestSleepSaveUsesWakeUpDay(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestServices(t)

	// Falls asleep the 5th 23:00 JST, wakes the 6th 06:30 JST.
	start := time.Date(2024, 3, 5, 23, 0, 0, 0, tokyo)
	end := time.Date(2024, 3, 6, 6, 30, 0, 0, tokyo)
	res, err := svc.Sleeps.Save(ctx, SaveSleepArgs{SleepStartAt: start, SleepEndAt: end})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if res.DayKey != "2024-03-06" {
		t.Errorf("DayKey = %q, want the wake-up day 2024-03-06", res.DayKey)
	}
	for _, r := range backend.sleeps {
		if r.Fields.DurationMin != 450 {
			t.Errorf("DurationMin = %d, want 450", r.Fields.DurationMin)
		}
	}
}

func TestMealAddAppendsAndListsInOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	dinner := time.Date(2024, 3, 5, 19, 0, 0, 0, tokyo)
	breakfast := time.Date(2024, 3, 5, 8, 0, 0, 0, tokyo)
	if _, err := svc.Meals.Add(ctx, AddMealArgs{EatenAt: &dinner, MealType: "Dinner", Text: "curry"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := svc.Meals.Add(ctx, AddMealArgs{EatenAt: &breakfast, MealType: "Breakfast", Text: "toast"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	meals, err := svc.Meals.List(ctx, "", "2024-03-05")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(meals) != 2 {
		t.Fatalf("List() = %d meals, want 2", len(meals))
	}
	if meals[0].Fields.Text != "toast" || meals[1].Fields.Text != "curry" {
		t.Errorf("List() order = %q, %q", meals[0].Fields.Text, meals[1].Fields.Text)
	}
}

func TestDaySummaryReflectsWritesThroughCache(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	// Prime the cache with the empty day.
	before, err := svc.Days.Summary(ctx, "", "2024-03-05")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if before.Day != nil || before.Weight != nil {
		t.Fatalf("empty day should have nil aggregates: %+v", before)
	}

	at := time.Date(2024, 3, 5, 7, 0, 0, 0, tokyo)
	if _, err := svc.Weights.Save(ctx, SaveWeightArgs{RecordedAt: &at, WeightKg: 70}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	after, err := svc.Days.Summary(ctx, "", "2024-03-05")
	if err != nil {
		t.Fatalf("Summary() after save error = %v", err)
	}
	if after.Day == nil || after.Weight == nil {
		t.Fatal("save should invalidate the cached summary")
	}
	if after.Day.Fields.WeightCount != 1 {
		t.Errorf("WeightCount = %d, want 1", after.Day.Fields.WeightCount)
	}
}

func TestMonthListingInvalidatedBySave(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	days, err := svc.Days.Month(ctx, "", "2024-03")
	if err != nil {
		t.Fatalf("Month() error = %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("Month() = %d days, want 0", len(days))
	}

	at := time.Date(2024, 3, 15, 12, 0, 0, 0, tokyo)
	if _, err := svc.Meals.Add(ctx, AddMealArgs{EatenAt: &at, MealType: "Lunch", Text: "soba"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	days, err = svc.Days.Month(ctx, "", "2024-03")
	if err != nil {
		t.Fatalf("Month() after add error = %v", err)
	}
	if len(days) != 1 || days[0].Fields.DayKey != "2024-03-15" {
		t.Errorf("Month() = %+v", days)
	}
	if days[0].Fields.MealCount != 1 {
		t.Errorf("MealCount = %d, want 1", days[0].Fields.MealCount)
	}

	if _, err := svc.Days.Month(ctx, "", "2024-3"); err == nil {
		t.Error("Month() should reject a non-YYYY-MM month")
	}
}

func TestJournalLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	created, err := svc.Journal.Create(ctx, JournalArgs{Title: "clinic visit", Details: "went **well**"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !strings.Contains(created.DetailsHTML, "<strong>well</strong>") {
		t.Errorf("DetailsHTML = %q, want rendered markdown", created.DetailsHTML)
	}

	got, err := svc.Journal.Get(ctx, "", created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "clinic visit" {
		t.Errorf("Title = %q", got.Title)
	}

	updated, err := svc.Journal.Update(ctx, created.ID, JournalArgs{Title: "clinic visit 2", Details: "ok"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "clinic visit 2" {
		t.Errorf("Title = %q", updated.Title)
	}

	// The entry cache was invalidated by the update.
	got, err = svc.Journal.Get(ctx, "", created.ID)
	if err != nil {
		t.Fatalf("Get() after update error = %v", err)
	}
	if got.Title != "clinic visit 2" {
		t.Errorf("cached Title = %q, want the updated one", got.Title)
	}

	if err := svc.Journal.Delete(ctx, "", created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Journal.Get(ctx, "", created.ID); err == nil {
		t.Error("Get() after delete should fail")
	}

	if _, err := svc.Journal.Create(ctx, JournalArgs{Title: "", Details: "x"}); err == nil {
		t.Error("Create() should reject an empty title")
	}
}

func TestAssistUnconfigured(t *testing.T) {
	svc, _ := newTestServices(t)
	if svc.Assist.Configured() {
		t.Error("assist should report unconfigured without an API key")
	}
	if _, err := svc.Assist.SuggestMeal(context.Background(), "toast"); err == nil {
		t.Error("SuggestMeal() should fail when unconfigured")
	}
}
