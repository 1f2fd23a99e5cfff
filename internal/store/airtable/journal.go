package airtable

import (
	"context"
	"sort"
	"time"

	"github.com/carebook/carebook/internal/model"
	"github.com/carebook/carebook/internal/store"
)

type journalRepo struct {
	c     *Client
	table string
}

// List returns entries newest-first by updatedAt. Airtable sorts on its own
// field values, which typecast may have rounded, so ordering is re-applied
// locally after the fetch.
func (r *journalRepo) List(ctx context.Context, ownerKey string, page store.JournalPage) ([]model.JournalEntry, error) {
	records, err := listAll[journalFields](ctx, r.c, r.table, listOptions{
		FilterByFormula: ownerFormula(ownerKey),
		Sort:            []sortSpec{{Field: "updatedAt", Direction: "desc"}},
		PageSize:        100,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]model.JournalEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, rec.Fields.toModel(rec))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})

	limit := page.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(entries) {
		return []model.JournalEntry{}, nil
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end], nil
}

func (r *journalRepo) ByID(ctx context.Context, ownerKey, id string) (*model.JournalEntry, error) {
	rec, err := getOne[journalFields](ctx, r.c, r.table, id)
	if err != nil {
		return nil, asNotFound(err, "journal entry", id)
	}
	if rec.Fields.OwnerKey != ownerKey {
		return nil, &store.NotFoundError{Kind: "journal entry", ID: id}
	}
	entry := rec.Fields.toModel(*rec)
	return &entry, nil
}

func (r *journalRepo) Create(ctx context.Context, in store.NewJournal) (*model.JournalEntry, error) {
	rec, err := createOne(ctx, r.c, r.table, journalFields{
		OwnerKey:        in.OwnerKey,
		Title:           in.Title,
		Details:         in.Details,
		AttachmentsJSON: string(model.EncodeAttachments(in.Attachments)),
		UpdatedAt:       isoString(time.Now()),
	})
	if err != nil {
		return nil, err
	}
	entry := rec.Fields.toModel(*rec)
	return &entry, nil
}

func (r *journalRepo) Update(ctx context.Context, ownerKey, id string, in store.NewJournal) (*model.JournalEntry, error) {
	if _, err := r.ByID(ctx, ownerKey, id); err != nil {
		return nil, err
	}

	rec, err := updateOne[journalFields](ctx, r.c, r.table, id, map[string]any{
		"title":           in.Title,
		"details":         in.Details,
		"attachmentsJson": string(model.EncodeAttachments(in.Attachments)),
		"updatedAt":       isoString(time.Now()),
	})
	if err != nil {
		return nil, asNotFound(err, "journal entry", id)
	}
	entry := rec.Fields.toModel(*rec)
	return &entry, nil
}

func (r *journalRepo) Delete(ctx context.Context, ownerKey, id string) error {
	if _, err := r.ByID(ctx, ownerKey, id); err != nil {
		return err
	}
	return asNotFound(deleteOne(ctx, r.c, r.table, id), "journal entry", id)
}
