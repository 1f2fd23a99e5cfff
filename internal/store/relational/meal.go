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

type mealRow struct {
	ID           string    `db:"id"`
	OwnerKey     string    `db:"owner_key"`
	DayID        string    `db:"day_id"`
	DayKey       string    `db:"day_key"`
	EatenAt      time.Time `db:"eaten_at"`
	MealType     string    `db:"meal_type"`
	Text         string    `db:"text"`
	ItemsJSON    string    `db:"items_json"`
	CaloriesKcal *int      `db:"calories_kcal"`
	Note         string    `db:"note"`
	AIAssisted   bool      `db:"ai_assisted"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r mealRow) toModel() model.Meal {
	return model.Meal{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Fields: model.MealFields{
			OwnerKey:     r.OwnerKey,
			DayID:        r.DayID,
			DayKey:       r.DayKey,
			EatenAt:      r.EatenAt,
			MealType:     r.MealType,
			Text:         r.Text,
			ItemsJSON:    r.ItemsJSON,
			CaloriesKcal: r.CaloriesKcal,
			Note:         r.Note,
			AIAssisted:   r.AIAssisted,
		},
	}
}

type mealRepo struct {
	db *sqlx.DB
}

func (r *mealRepo) ListByDay(ctx context.Context, key store.OwnerDay) ([]model.Meal, error) {
	var rows []mealRow
	query := `SELECT * FROM meal_logs WHERE owner_key = $1 AND day_key = $2 ORDER BY eaten_at ASC`

	err := r.db.SelectContext(ctx, &rows, query, key.OwnerKey, key.DayKey)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	meals := make([]model.Meal, len(rows))
	for i, row := range rows {
		meals[i] = row.toModel()
	}
	return meals, nil
}

func (r *mealRepo) Create(ctx context.Context, in store.NewMeal) (*model.Meal, error) {
	row := mealRow{
		ID:           newID(),
		OwnerKey:     in.OwnerKey,
		DayID:        in.DayID,
		DayKey:       in.DayKey,
		EatenAt:      in.EatenAt,
		MealType:     in.MealType,
		Text:         in.Text,
		ItemsJSON:    in.ItemsJSON,
		CaloriesKcal: in.CaloriesKcal,
		Note:         in.Note,
		AIAssisted:   in.AIAssisted,
		CreatedAt:    time.Now().UTC(),
	}

	query := `INSERT INTO meal_logs (id, owner_key, day_id, day_key, eaten_at, meal_type, text, items_json, calories_kcal, note, ai_assisted, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		row.ID, row.OwnerKey, row.DayID, row.DayKey, row.EatenAt, row.MealType,
		row.Text, row.ItemsJSON, row.CaloriesKcal, row.Note, row.AIAssisted, row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}

	m := row.toModel()
	return &m, nil
}

func (r *mealRepo) Update(ctx context.Context, id string, patch store.MealPatch) (*model.Meal, error) {
	row := mealRow{}
	err := r.db.GetContext(ctx, &row, `SELECT * FROM meal_logs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &store.NotFoundError{Kind: "meal", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load meal: %w", err)
	}

	if patch.EatenAt != nil {
		row.EatenAt = *patch.EatenAt
	}
	if patch.MealType != nil {
		row.MealType = *patch.MealType
	}
	if patch.Text != nil {
		row.Text = *patch.Text
	}
	if patch.ItemsJSON != nil {
		row.ItemsJSON = *patch.ItemsJSON
	}
	if patch.CaloriesKcal != nil {
		row.CaloriesKcal = patch.CaloriesKcal
	}
	if patch.Note != nil {
		row.Note = *patch.Note
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

	query := `UPDATE meal_logs
	          SET day_id = $1, day_key = $2, eaten_at = $3, meal_type = $4, text = $5, items_json = $6, calories_kcal = $7, note = $8, ai_assisted = $9
	          WHERE id = $10`

	_, err = r.db.ExecContext(ctx, query,
		row.DayID, row.DayKey, row.EatenAt, row.MealType, row.Text, row.ItemsJSON,
		row.CaloriesKcal, row.Note, row.AIAssisted, row.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}

	m := row.toModel()
	return &m, nil
}

func (r *mealRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM meal_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &store.NotFoundError{Kind: "meal", ID: id}
	}
	return nil
}
