package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carebook/carebook/internal/model"
	"github.com/carebook/carebook/internal/store"
)

type dayRow struct {
	ID           string    `db:"id"`
	OwnerKey     string    `db:"owner_key"`
	DayKey       string    `db:"day_key"`
	DayDate      string    `db:"day_date"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	WeightCount  int       `db:"weight_count"`
	SleepCount   int       `db:"sleep_count"`
	MealCount    int       `db:"meal_count"`
	WorkoutCount int       `db:"workout_count"`
}

func (r dayRow) toModel() model.Day {
	updated := r.UpdatedAt
	return model.Day{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Fields: model.DayFields{
			OwnerKey:     r.OwnerKey,
			DayKey:       r.DayKey,
			DayDate:      r.DayDate,
			WeightCount:  r.WeightCount,
			SleepCount:   r.SleepCount,
			MealCount:    r.MealCount,
			WorkoutCount: r.WorkoutCount,
			UpdatedAt:    &updated,
		},
	}
}

// childCounts aggregates live at read time so counts can never drift.
const childCounts = `
	(SELECT COUNT(*) FROM weight_logs w WHERE w.owner_key = d.owner_key AND w.day_key = d.day_key) AS weight_count,
	(SELECT COUNT(*) FROM sleep_logs s WHERE s.owner_key = d.owner_key AND s.day_key = d.day_key) AS sleep_count,
	(SELECT COUNT(*) FROM meal_logs m WHERE m.owner_key = d.owner_key AND m.day_key = d.day_key) AS meal_count,
	(SELECT COUNT(*) FROM workout_logs o WHERE o.owner_key = d.owner_key AND o.day_key = d.day_key) AS workout_count`

type dayRepo struct {
	db *sqlx.DB
}

func (r *dayRepo) Find(ctx context.Context, key store.OwnerDay) (*model.Day, error) {
	row := dayRow{}
	query := `SELECT d.id, d.owner_key, d.day_key, d.day_date, d.created_at, d.updated_at,` + childCounts + `
	          FROM days d WHERE d.owner_key = $1 AND d.day_key = $2`

	err := r.db.GetContext(ctx, &row, query, key.OwnerKey, key.DayKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find day: %w", err)
	}

	day := row.toModel()
	return &day, nil
}

func (r *dayRepo) Upsert(ctx context.Context, day store.NewDay) (string, error) {
	return upsertDay(ctx, r.db, day)
}

// upsertDay relies on the (owner_key, day_key) uniqueness constraint as the
// source of truth: concurrent first-writers converge on one row without any
// application-level lock.
func upsertDay(ctx context.Context, db *sqlx.DB, day store.NewDay) (string, error) {
	now := time.Now().UTC()
	query := `INSERT INTO days (id, owner_key, day_key, day_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          ON CONFLICT (owner_key, day_key)
	          DO UPDATE SET day_date = EXCLUDED.day_date, updated_at = EXCLUDED.updated_at
	          RETURNING id`

	var id string
	err := db.QueryRowxContext(ctx, query, newID(), day.OwnerKey, day.DayKey, day.DayDate, now).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert day: %w", err)
	}
	return id, nil
}

func (r *dayRepo) ListRange(ctx context.Context, rng store.DateRange) ([]model.Day, error) {
	var rows []dayRow
	query := `SELECT d.id, d.owner_key, d.day_key, d.day_date, d.created_at, d.updated_at,` + childCounts + `
	          FROM days d
	          WHERE d.owner_key = $1 AND d.day_key >= $2 AND d.day_key < $3
	          ORDER BY d.day_key ASC`

	err := r.db.SelectContext(ctx, &rows, query, rng.OwnerKey, rng.StartInclusive, rng.EndExclusive)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}

	days := make([]model.Day, len(rows))
	for i, row := range rows {
		days[i] = row.toModel()
	}
	return days, nil
}
