package service

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/carebook/carebook/internal/cache"
	"github.com/carebook/carebook/internal/model"
	"github.com/carebook/carebook/internal/storage"
	"github.com/carebook/carebook/internal/store"
	"github.com/carebook/carebook/internal/validation"
)

// JournalService manages free-form entries, addressed by id rather than day
// key. Details are markdown; reads carry a rendered HTML copy.
type JournalService struct {
	store *store.Store
	cache *cache.Cache
	opts  Options
	files *storage.Attachments
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func renderDetails(details string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(details), &buf); err != nil {
		slog.Warn("journal markdown render failed", "error", err)
		return ""
	}
	return buf.String()
}

type JournalArgs struct {
	OwnerKey    string             `json:"ownerKey"`
	Title       string             `json:"title"`
	Details     string             `json:"details"`
	Attachments []model.Attachment `json:"attachments"`
}

func (s *JournalService) List(ctx context.Context, ownerKey string, page store.JournalPage) ([]model.JournalEntry, error) {
	owner := s.opts.owner(ownerKey)
	key := "journal:" + owner
	if page.Limit > 0 || page.Offset > 0 {
		// Paged requests miss the cache; only the default first page is hot.
		return s.store.Journal.List(ctx, owner, page)
	}
	return cache.GetOrFill(s.cache, key, []string{cache.JournalListTag(owner)},
		func() ([]model.JournalEntry, error) {
			return s.store.Journal.List(ctx, owner, page)
		})
}

func (s *JournalService) Get(ctx context.Context, ownerKey, id string) (*model.JournalEntry, error) {
	owner := s.opts.owner(ownerKey)
	return cache.GetOrFill(s.cache, "journal:"+owner+":"+id,
		[]string{cache.JournalEntryTag(owner, id), cache.JournalListTag(owner)},
		func() (*model.JournalEntry, error) {
			entry, err := s.store.Journal.ByID(ctx, owner, id)
			if err != nil {
				return nil, err
			}
			entry.DetailsHTML = renderDetails(entry.Details)
			return entry, nil
		})
}

func (s *JournalService) Create(ctx context.Context, args JournalArgs) (*model.JournalEntry, error) {
	owner := s.opts.owner(args.OwnerKey)

	in := validation.JournalInput{OwnerKey: owner, Title: args.Title, Details: args.Details}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.store.Journal.Create(ctx, store.NewJournal{
		OwnerKey:    owner,
		Title:       args.Title,
		Details:     args.Details,
		Attachments: model.NormalizeAttachments(args.Attachments),
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.JournalListTag(owner))
	entry.DetailsHTML = renderDetails(entry.Details)
	return entry, nil
}

func (s *JournalService) Update(ctx context.Context, id string, args JournalArgs) (*model.JournalEntry, error) {
	owner := s.opts.owner(args.OwnerKey)

	in := validation.JournalInput{OwnerKey: owner, Title: args.Title, Details: args.Details}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.store.Journal.Update(ctx, owner, id, store.NewJournal{
		OwnerKey:    owner,
		Title:       args.Title,
		Details:     args.Details,
		Attachments: model.NormalizeAttachments(args.Attachments),
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.JournalListTag(owner), cache.JournalEntryTag(owner, id))
	entry.DetailsHTML = renderDetails(entry.Details)
	return entry, nil
}

func (s *JournalService) Delete(ctx context.Context, ownerKey, id string) error {
	owner := s.opts.owner(ownerKey)
	if err := s.store.Journal.Delete(ctx, owner, id); err != nil {
		return err
	}
	s.cache.Invalidate(cache.JournalListTag(owner), cache.JournalEntryTag(owner, id))
	return nil
}

// PresignUpload mints an upload slot for a new attachment; fails when no
// bucket is configured.
func (s *JournalService) PresignUpload(ctx context.Context, ownerKey, filename, contentType string) (*storage.Upload, error) {
	owner := s.opts.owner(ownerKey)
	return s.files.PresignUpload(ctx, owner, filename, contentType)
}

// ResolveAttachment turns a stored attachment reference into a fetchable URL.
func (s *JournalService) ResolveAttachment(ctx context.Context, ref string) (string, error) {
	return s.files.DownloadURL(ctx, ref)
}
