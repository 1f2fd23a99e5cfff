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

type sleepRow struct {
	ID           string    `db:"id"`
	OwnerKey     string    `db:"owner_key"`
	DayID        string    `db:"day_id"`
	DayKey       string    `db:"day_key"`
	SleepStartAt time.Time `db:"sleep_start_at"`
	SleepEndAt   time.Time `db:"sleep_end_at"`
	DurationMin  int       `db:"duration_min"`
	Quality      string    `db:"quality"`
	Note         string    `db:"note"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r sleepRow) toModel() model.Sleep {
	return model.Sleep{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Fields: model.SleepFields{
			OwnerKey:     r.OwnerKey,
			DayID:        r.DayID,
			DayKey:       r.DayKey,
			SleepStartAt: r.SleepStartAt,
			SleepEndAt:   r.SleepEndAt,
			DurationMin:  r.DurationMin,
			Quality:      r.Quality,
			Note:         r.Note,
		},
	}
}

type sleepRepo struct {
	db *sqlx.DB
}

func (r *sleepRepo) Find(ctx context.Context, key store.OwnerDay) (*model.Sleep, error) {
	row := sleepRow{}
	query := `SELECT * FROM sleep_logs WHERE owner_key = $1 AND day_key = $2 LIMIT 1`

	err := r.db.GetContext(ctx, &row, query, key.OwnerKey, key.DayKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find sleep: %w", err)
	}

	s := row.toModel()
	return &s, nil
}

func (r *sleepRepo) Create(ctx context.Context, in store.NewSleep) (*model.Sleep, error) {
	row := sleepRow{
		ID:           newID(),
		OwnerKey:     in.OwnerKey,
		DayID:        in.DayID,
		DayKey:       in.DayKey,
		SleepStartAt: in.SleepStartAt,
		SleepEndAt:   in.SleepEndAt,
		DurationMin:  in.DurationMin,
		Quality:      in.Quality,
		Note:         in.Note,
		CreatedAt:    time.Now().UTC(),
	}

	query := `INSERT INTO sleep_logs (id, owner_key, day_id, day_key, sleep_start_at, sleep_end_at, duration_min, quality, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		row.ID, row.OwnerKey, row.DayID, row.DayKey, row.SleepStartAt, row.SleepEndAt,
		row.DurationMin, row.Quality, row.Note, row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create sleep: %w", err)
	}

	s := row.toModel()
	return &s, nil
}

func (r *sleepRepo) Update(ctx context.Context, id string, patch store.SleepPatch) (*model.Sleep, error) {
	row := sleepRow{}
	err := r.db.GetContext(ctx, &row, `SELECT * FROM sleep_logs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &store.NotFoundError{Kind: "sleep", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load sleep: %w", err)
	}

	if patch.SleepStartAt != nil {
		row.SleepStartAt = *patch.SleepStartAt
	}
	if patch.SleepEndAt != nil {
		row.SleepEndAt = *patch.SleepEndAt
	}
	if patch.DurationMin != nil {
		row.DurationMin = *patch.DurationMin
	}
	if patch.Quality != nil {
		row.Quality = *patch.Quality
	}
	if patch.Note != nil {
		row.Note = *patch.Note
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

	query := `UPDATE sleep_logs
	          SET day_id = $1, day_key = $2, sleep_start_at = $3, sleep_end_at = $4, duration_min = $5, quality = $6, note = $7
	          WHERE id = $8`

	_, err = r.db.ExecContext(ctx, query,
		row.DayID, row.DayKey, row.SleepStartAt, row.SleepEndAt, row.DurationMin,
		row.Quality, row.Note, row.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update sleep: %w", err)
	}

	s := row.toModel()
	return &s, nil
}

func (r *sleepRepo) DeleteByDay(ctx context.Context, key store.OwnerDay) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sleep_logs WHERE owner_key = $1 AND day_key = $2`, key.OwnerKey, key.DayKey)
	if err != nil {
		return fmt.Errorf("delete sleep: %w", err)
	}
	return nil
}
