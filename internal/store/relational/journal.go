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

type journalRow struct {
	ID        string    `db:"id"`
	OwnerKey  string    `db:"owner_key"`
	Title     string    `db:"title"`
	Details   string    `db:"details"`
	Attach    string    `db:"attach"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r journalRow) toModel() model.JournalEntry {
	return model.JournalEntry{
		ID:          r.ID,
		OwnerKey:    r.OwnerKey,
		Title:       r.Title,
		Details:     r.Details,
		Attachments: model.DecodeAttachments([]byte(r.Attach)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type journalRepo struct {
	db *sqlx.DB
}

func (r *journalRepo) List(ctx context.Context, ownerKey string, page store.JournalPage) ([]model.JournalEntry, error) {
	limit := page.Limit
	if limit <= 0 {
		limit = 50
	}

	var rows []journalRow
	query := `SELECT * FROM journal_entries WHERE owner_key = $1 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &rows, query, ownerKey, limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}

	entries := make([]model.JournalEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.toModel()
	}
	return entries, nil
}

func (r *journalRepo) ByID(ctx context.Context, ownerKey, id string) (*model.JournalEntry, error) {
	row := journalRow{}
	query := `SELECT * FROM journal_entries WHERE id = $1 AND owner_key = $2`

	err := r.db.GetContext(ctx, &row, query, id, ownerKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &store.NotFoundError{Kind: "journal entry", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("find journal entry: %w", err)
	}

	entry := row.toModel()
	return &entry, nil
}

func (r *journalRepo) Create(ctx context.Context, in store.NewJournal) (*model.JournalEntry, error) {
	now := time.Now().UTC()
	row := journalRow{
		ID:        newID(),
		OwnerKey:  in.OwnerKey,
		Title:     in.Title,
		Details:   in.Details,
		Attach:    string(model.EncodeAttachments(in.Attachments)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO journal_entries (id, owner_key, title, details, attach, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		row.ID, row.OwnerKey, row.Title, row.Details, row.Attach, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}

	entry := row.toModel()
	return &entry, nil
}

func (r *journalRepo) Update(ctx context.Context, ownerKey, id string, in store.NewJournal) (*model.JournalEntry, error) {
	now := time.Now().UTC()
	query := `UPDATE journal_entries
	          SET title = $1, details = $2, attach = $3, updated_at = $4
	          WHERE id = $5 AND owner_key = $6`

	result, err := r.db.ExecContext(ctx, query,
		in.Title, in.Details, string(model.EncodeAttachments(in.Attachments)), now, id, ownerKey,
	)
	if err != nil {
		return nil, fmt.Errorf("update journal entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, &store.NotFoundError{Kind: "journal entry", ID: id}
	}

	return r.ByID(ctx, ownerKey, id)
}

func (r *journalRepo) Delete(ctx context.Context, ownerKey, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = $1 AND owner_key = $2`, id, ownerKey)
	if err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &store.NotFoundError{Kind: "journal entry", ID: id}
	}
	return nil
}
