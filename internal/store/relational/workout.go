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

type workoutRow struct {
	ID          string    `db:"id"`
	OwnerKey    string    `db:"owner_key"`
	DayID       string    `db:"day_id"`
	DayKey      string    `db:"day_key"`
	PerformedAt time.Time `db:"performed_at"`
	WorkoutType string    `db:"workout_type"`
	DurationMin int       `db:"duration_min"`
	Intensity   string    `db:"intensity"`
	Detail      string    `db:"detail"`
	AIAssisted  bool      `db:"ai_assisted"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r workoutRow) toModel() model.Workout {
	return model.Workout{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Fields: model.WorkoutFields{
			OwnerKey:    r.OwnerKey,
			DayID:       r.DayID,
			DayKey:      r.DayKey,
			PerformedAt: r.PerformedAt,
			WorkoutType: r.WorkoutType,
			DurationMin: r.DurationMin,
			Intensity:   r.Intensity,
			Detail:      r.Detail,
			AIAssisted:  r.AIAssisted,
		},
	}
}

type workoutRepo struct {
	db *sqlx.DB
}

func (r *workoutRepo) ListByDay(ctx context.Context, key store.OwnerDay) ([]model.Workout, error) {
	var rows []workoutRow
	query := `SELECT * FROM workout_logs WHERE owner_key = $1 AND day_key = $2 ORDER BY performed_at ASC`

	err := r.db.SelectContext(ctx, &rows, query, key.OwnerKey, key.DayKey)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	workouts := make([]model.Workout, len(rows))
	for i, row := range rows {
		workouts[i] = row.toModel()
	}
	return workouts, nil
}

func (r *workoutRepo) Create(ctx context.Context, in store.NewWorkout) (*model.Workout, error) {
	row := workoutRow{
		ID:          newID(),
		OwnerKey:    in.OwnerKey,
		DayID:       in.DayID,
		DayKey:      in.DayKey,
		PerformedAt: in.PerformedAt,
		WorkoutType: in.WorkoutType,
		DurationMin: in.DurationMin,
		Intensity:   in.Intensity,
		Detail:      in.Detail,
		AIAssisted:  in.AIAssisted,
		CreatedAt:   time.Now().UTC(),
	}

	query := `INSERT INTO workout_logs (id, owner_key, day_id, day_key, performed_at, workout_type, duration_min, intensity, detail, ai_assisted, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		row.ID, row.OwnerKey, row.DayID, row.DayKey, row.PerformedAt, row.WorkoutType,
		row.DurationMin, row.Intensity, row.Detail, row.AIAssisted, row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}

	w := row.toModel()
	return &w, nil
}

func (r *workoutRepo) Update(ctx context.Context, id string, patch store.WorkoutPatch) (*model.Workout, error) {
	row := workoutRow{}
	err := r.db.GetContext(ctx, &row, `SELECT * FROM workout_logs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &store.NotFoundError{Kind: "workout", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load workout: %w", err)
	}

	if patch.PerformedAt != nil {
		row.PerformedAt = *patch.PerformedAt
	}
	if patch.WorkoutType != nil {
		row.WorkoutType = *patch.WorkoutType
	}
	if patch.DurationMin != nil {
		row.DurationMin = *patch.DurationMin
	}
	if patch.Intensity != nil {
		row.Intensity = *patch.Intensity
	}
	if patch.Detail != nil {
		row.Detail = *patch.Detail
	}
	if patch.AIAssisted != nil {
		row.AIAssisted = *patch.AIAssisted
	}
	if patch.DayKey != nil && *patch.DayKey != row.DayKey {
		dayID, err := upsertDay(ctx, r.db, store.NewDay{
			OwnerKey: row.OwnerKey,
			DayKey:   *patch.DayKey,
			DayDate:  *patch.DayKey,
		})
		if err != nil {
			return nil, err
		}
		row.DayKey = *patch.DayKey
		row.DayID = dayID
	}

	query := `UPDATE workout_logs
	          SET day_id = $1, day_key = $2, performed_at = $3, workout_type = $4, duration_min = $5, intensity = $6, detail = $7, ai_assisted = $8
	          WHERE id = $9`

	_, err = r.db.ExecContext(ctx, query,
		row.DayID, row.DayKey, row.PerformedAt, row.WorkoutType, row.DurationMin,
		row.Intensity, row.Detail, row.AIAssisted, row.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update workout: %w", err)
	}

	w := row.toModel()
	return &w, nil
}

func (r *workoutRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workout_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &store.NotFoundError{Kind: "workout", ID: id}
	}
	return nil
}
