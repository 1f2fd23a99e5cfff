package cache

import (
	"errors"
	"testing"
	"time"
)

func TestSetGetInvalidate(t *testing.T) {
	c := New(0)

	c.Set("k", 42, TagsForDay("default", "2024-03-05"))
	v, ok := c.Get("k")
	if !ok || v.(int) != 42 {
		t.Fatalf("Get() = %v, %v; want 42, true", v, ok)
	}

	c.Invalidate(DayTag("default", "2024-03-05"))
	if _, ok := c.Get("k"); ok {
		t.Error("Get() after day tag invalidation should miss")
	}
}

func TestDayWriteCascadesToMonthAndOwner(t *testing.T) {
	c := New(0)

	// A month read and an owner-wide read both subsume the day.
	c.Set("month", "m", TagsForMonth("default", "2024-03"))
	c.Set("owner", "o", []string{OwnerTag("default")})
	c.Set("day", "d", TagsForDay("default", "2024-03-05"))
	// Registered under the month tag alone: shows the cascade stops at the
	// month boundary. Anything also carrying the owner tag is fair game for
	// eviction on a day write.
	c.Set("othermonth", "x", []string{MonthTag("default", "2024-04")})
	c.Set("otherowner", "y", TagsForDay("alice", "2024-03-05"))

	c.InvalidateDay("default", "2024-03-05")

	for _, key := range []string{"day", "month", "owner"} {
		if _, ok := c.Get(key); ok {
			t.Errorf("Get(%q) should miss after InvalidateDay cascade", key)
		}
	}
	if _, ok := c.Get("othermonth"); !ok {
		t.Error("Get(othermonth) should survive: different month tag")
	}
	if _, ok := c.Get("otherowner"); !ok {
		t.Error("Get(otherowner) should survive: different owner")
	}
}

func TestInvalidateOwnerIsCoarsestNet(t *testing.T) {
	c := New(0)

	c.Set("day", "d", TagsForDay("default", "2024-03-05"))
	c.Set("other", "x", TagsForDay("someone", "2024-03-05"))

	c.InvalidateOwner("default")

	if _, ok := c.Get("day"); ok {
		t.Error("owner invalidation should reach day-tagged reads")
	}
	if _, ok := c.Get("other"); !ok {
		t.Error("other owner's reads should survive")
	}
}

func TestGetOrFill(t *testing.T) {
	c := New(0)

	calls := 0
	fill := func() ([]string, error) {
		calls++
		return []string{"a"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := GetOrFill(c, "list", TagsForDay("default", "2024-03-05"), fill)
		if err != nil {
			t.Fatalf("GetOrFill() error = %v", err)
		}
		if len(got) != 1 || got[0] != "a" {
			t.Fatalf("GetOrFill() = %v", got)
		}
	}
	if calls != 1 {
		t.Errorf("fill ran %d times, want 1", calls)
	}

	c.InvalidateDay("default", "2024-03-05")
	if _, err := GetOrFill(c, "list", TagsForDay("default", "2024-03-05"), fill); err != nil {
		t.Fatalf("GetOrFill() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("fill ran %d times after invalidation, want 2", calls)
	}
}

func TestFillErrorNotCached(t *testing.T) {
	c := New(0)

	wantErr := errors.New("backend down")
	calls := 0
	_, err := GetOrFill(c, "k", nil, func() (int, error) {
		calls++
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("GetOrFill() error = %v, want %v", err, wantErr)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("failed fill must not be cached")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("k", 1, nil)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("entry should expire after ttl")
	}
}
