package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/carebook/carebook/internal/store"
)

func testTables() Tables {
	return Tables{
		Days: "Days", Weight: "WeightLogs", Sleep: "SleepLogs",
		Meal: "MealLogs", Workout: "WorkoutLogs", Journal: "JournalEntries",
	}
}

func testStore(t *testing.T, handler http.Handler) *store.Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{
		APIKey:     "key-test",
		BaseID:     "appBASE",
		Tables:     testTables(),
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestListAllFollowsOffsetCursor(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Query().Get("offset") {
		case "":
			writeJSON(t, w, map[string]any{
				"records": []map[string]any{
					{"id": "rec1", "fields": map[string]any{"dayKey": "2024-03-05"}},
				},
				"offset": "cursor-2",
			})
		case "cursor-2":
			writeJSON(t, w, map[string]any{
				"records": []map[string]any{
					{"id": "rec2", "fields": map[string]any{"dayKey": "2024-03-06"}},
				},
			})
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})

	srv := httptest.NewServer(handler)
	defer srv.Close()
	c := newClient(Options{APIKey: "key-test", BaseID: "appBASE", BaseURL: srv.URL, HTTPClient: srv.Client()})

	records, err := listAll[dayFields](context.Background(), c, "Days", listOptions{})
	if err != nil {
		t.Fatalf("listAll() error = %v", err)
	}
	if len(records) != 2 || records[0].ID != "rec1" || records[1].ID != "rec2" {
		t.Errorf("listAll() = %+v", records)
	}
	if gotAuth != "Bearer key-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestRetryOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(t, w, map[string]any{"records": []map[string]any{}})
	})

	srv := httptest.NewServer(handler)
	defer srv.Close()
	c := newClient(Options{APIKey: "k", BaseID: "b", BaseURL: srv.URL, HTTPClient: srv.Client()})

	if _, err := listAll[dayFields](context.Background(), c, "Days", listOptions{}); err != nil {
		t.Fatalf("listAll() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3 (two rate-limited, one success)", got)
	}
}

func TestRetryGivesUpAfterBudget(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(handler)
	defer srv.Close()
	c := newClient(Options{APIKey: "k", BaseID: "b", BaseURL: srv.URL, HTTPClient: srv.Client()})

	_, err := listAll[dayFields](context.Background(), c, "Days", listOptions{})
	if err == nil {
		t.Fatal("listAll() should fail once retries are exhausted")
	}
	// Initial attempt plus four retries.
	if got := calls.Load(); got != 5 {
		t.Errorf("calls = %d, want 5", got)
	}
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	srv := httptest.NewServer(handler)
	defer srv.Close()
	c := newClient(Options{APIKey: "k", BaseID: "b", BaseURL: srv.URL, HTTPClient: srv.Client()})

	_, err := listAll[dayFields](context.Background(), c, "Days", listOptions{})
	if err == nil {
		t.Fatal("listAll() should surface a 422 immediately")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestEscapeFormulaValue(t *testing.T) {
	got := ownerDayFormula("o'brien", "2024-03-05")
	want := `AND({ownerKey}='o\'brien', {dayKey}='2024-03-05')`
	if got != want {
		t.Errorf("ownerDayFormula() = %q, want %q", got, want)
	}
}

func TestDayUpsertFindsBeforeCreating(t *testing.T) {
	var creates atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			formula := r.URL.Query().Get("filterByFormula")
			if formula != ownerDayFormula("default", "2024-03-05") {
				t.Errorf("filterByFormula = %q", formula)
			}
			writeJSON(t, w, map[string]any{
				"records": []map[string]any{
					{"id": "recDAY", "fields": map[string]any{
						"ownerKey": "default", "dayKey": "2024-03-05", "dayDate": "2024-03-05",
					}},
				},
			})
		case http.MethodPost:
			creates.Add(1)
			t.Error("existing day should not be re-created")
		}
	})

	s := testStore(t, handler)
	id, err := s.Days.Upsert(context.Background(), store.NewDay{
		OwnerKey: "default", DayKey: "2024-03-05", DayDate: "2024-03-05",
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if id != "recDAY" {
		t.Errorf("Upsert() id = %q, want recDAY", id)
	}
}

func TestDayUpsertCreatesWhenMissing(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, map[string]any{"records": []map[string]any{}})
		case http.MethodPost:
			var payload struct {
				Records []struct {
					Fields dayFields `json:"fields"`
				} `json:"records"`
				Typecast bool `json:"typecast"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("decode create payload: %v", err)
			}
			if len(payload.Records) != 1 || payload.Records[0].Fields.DayKey != "2024-03-05" {
				t.Errorf("create payload = %+v", payload)
			}
			if !payload.Typecast {
				t.Error("create should request typecast")
			}
			writeJSON(t, w, map[string]any{
				"records": []map[string]any{
					{"id": "recNEW", "fields": payload.Records[0].Fields},
				},
			})
		}
	})

	s := testStore(t, handler)
	id, err := s.Days.Upsert(context.Background(), store.NewDay{
		OwnerKey: "default", DayKey: "2024-03-05", DayDate: "2024-03-05",
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if id != "recNEW" {
		t.Errorf("Upsert() id = %q, want recNEW", id)
	}
}

func TestWeightDeleteByDayIsIdempotent(t *testing.T) {
	var deletes atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, map[string]any{"records": []map[string]any{}})
		case http.MethodDelete:
			deletes.Add(1)
		}
	})

	s := testStore(t, handler)
	err := s.Weights.DeleteByDay(context.Background(), store.OwnerDay{
		OwnerKey: "default", DayKey: "2024-03-05",
	})
	if err != nil {
		t.Fatalf("DeleteByDay() error = %v", err)
	}
	if deletes.Load() != 0 {
		t.Error("nothing should be deleted when no record matches")
	}
}

func TestMealDeleteMissingIsNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"type":"NOT_FOUND"}}`)
	})

	s := testStore(t, handler)
	err := s.Meals.Delete(context.Background(), "recGONE")
	if !store.IsNotFound(err) {
		t.Errorf("Delete() error = %v, want NotFoundError", err)
	}
}

func TestAdminTablesAndFilterFormula(t *testing.T) {
	s := testStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"records": []map[string]any{}})
	}))

	tables, err := s.Admin.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables() error = %v", err)
	}
	if len(tables) != 6 || tables[0] != "Days" {
		t.Errorf("Tables() = %v", tables)
	}

	if _, err := s.Admin.Rows(context.Background(), "Nope", store.RowFilter{}); err == nil {
		t.Error("Rows() should reject unknown tables")
	}

	got := rowFilterFormula(store.RowFilter{OwnerKey: "default", From: "2024-03-01", To: "2024-03-31"})
	want := "AND({ownerKey}='default', {dayKey}>='2024-03-01', {dayKey}<='2024-03-31')"
	if got != want {
		t.Errorf("rowFilterFormula() = %q, want %q", got, want)
	}
}
