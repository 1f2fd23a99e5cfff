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

type weightRow struct {
	ID         string    `db:"id"`
	OwnerKey   string    `db:"owner_key"`
	DayID      string    `db:"day_id"`
	DayKey     string    `db:"day_key"`
	RecordedAt time.Time `db:"recorded_at"`
	WeightKg   float64   `db:"weight_kg"`
	BodyFatPct *float64  `db:"body_fat_pct"`
	Note       string    `db:"note"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r weightRow) toModel() model.Weight {
	return model.Weight{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Fields: model.WeightFields{
			OwnerKey:   r.OwnerKey,
			DayID:      r.DayID,
			DayKey:     r.DayKey,
			RecordedAt: r.RecordedAt,
			WeightKg:   r.WeightKg,
			BodyFatPct: r.BodyFatPct,
			Note:       r.Note,
		},
	}
}

type weightRepo struct {
	db *sqlx.DB
}

func (r *weightRepo) Find(ctx context.Context, key store.OwnerDay) (*model.Weight, error) {
	row := weightRow{}
	query := `SELECT * FROM weight_logs WHERE owner_key = $1 AND day_key = $2 LIMIT 1`

	err := r.db.GetContext(ctx, &row, query, key.OwnerKey, key.DayKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find weight: %w", err)
	}

	w := row.toModel()
	return &w, nil
}

func (r *weightRepo) Create(ctx context.Context, in store.NewWeight) (*model.Weight, error) {
	row := weightRow{
		ID:         newID(),
		OwnerKey:   in.OwnerKey,
		DayID:      in.DayID,
		DayKey:     in.DayKey,
		RecordedAt: in.RecordedAt,
		WeightKg:   in.WeightKg,
		BodyFatPct: in.BodyFatPct,
		Note:       in.Note,
		CreatedAt:  time.Now().UTC(),
	}

	query := `INSERT INTO weight_logs (id, owner_key, day_id, day_key, recorded_at, weight_kg, body_fat_pct, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		row.ID, row.OwnerKey, row.DayID, row.DayKey, row.RecordedAt,
		row.WeightKg, row.BodyFatPct, row.Note, row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create weight: %w", err)
	}

	w := row.toModel()
	return &w, nil
}

func (r *weightRepo) Update(ctx context.Context, id string, patch store.WeightPatch) (*model.Weight, error) {
	row := weightRow{}
	err := r.db.GetContext(ctx, &row, `SELECT * FROM weight_logs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &store.NotFoundError{Kind: "weight", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load weight: %w", err)
	}

	// Only fields present in the patch overwrite the existing row.
	if patch.RecordedAt != nil {
		row.RecordedAt = *patch.RecordedAt
	}
	if patch.WeightKg != nil {
		row.WeightKg = *patch.WeightKg
	}
	if patch.BodyFatPct != nil {
		row.BodyFatPct = patch.BodyFatPct
	}
	if patch.Note != nil {
		row.Note = *patch.Note
	}
	if patch.DayKey != nil && *patch.DayKey != row.DayKey {
		// Moving the record to another day: upsert that day and swap linkage.
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

	query := `UPDATE weight_logs
	          SET day_id = $1, day_key = $2, recorded_at = $3, weight_kg = $4, body_fat_pct = $5, note = $6
	          WHERE id = $7`

	_, err = r.db.ExecContext(ctx, query,
		row.DayID, row.DayKey, row.RecordedAt, row.WeightKg, row.BodyFatPct, row.Note, row.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update weight: %w", err)
	}

	w := row.toModel()
	return &w, nil
}

// DeleteByDay is idempotent: zero rows affected is success.
func (r *weightRepo) DeleteByDay(ctx context.Context, key store.OwnerDay) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM weight_logs WHERE owner_key = $1 AND day_key = $2`, key.OwnerKey, key.DayKey)
	if err != nil {
		return fmt.Errorf("delete weight: %w", err)
	}
	return nil
}
