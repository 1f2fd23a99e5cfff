package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Attachment is one journal attachment descriptor.
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
	Mime string `json:"mime,omitempty"`
}

// JournalEntry is a standalone free-form entry, looked up by id rather than
// by day key.
type JournalEntry struct {
	ID          string       `json:"id"`
	OwnerKey    string       `json:"ownerKey"`
	Title       string       `json:"title"`
	Details     string       `json:"details"`
	DetailsHTML string       `json:"detailsHtml,omitempty"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NormalizeAttachments filters a raw attachment list down to well-formed
// descriptors: a non-empty URL, with name and mime kept only when present.
func NormalizeAttachments(raw []Attachment) []Attachment {
	out := make([]Attachment, 0, len(raw))
	for _, a := range raw {
		url := strings.TrimSpace(a.URL)
		if url == "" {
			continue
		}
		out = append(out, Attachment{
			URL:  url,
			Name: strings.TrimSpace(a.Name),
			Mime: strings.TrimSpace(a.Mime),
		})
	}
	return out
}

// DecodeAttachments parses the stored JSON blob, tolerating null, empty, or
// malformed payloads by returning an empty list.
func DecodeAttachments(data []byte) []Attachment {
	if len(data) == 0 {
		return []Attachment{}
	}
	var raw []Attachment
	if err := json.Unmarshal(data, &raw); err != nil {
		return []Attachment{}
	}
	return NormalizeAttachments(raw)
}

// EncodeAttachments serializes attachments for storage.
func EncodeAttachments(list []Attachment) []byte {
	data, err := json.Marshal(NormalizeAttachments(list))
	if err != nil {
		return []byte("[]")
	}
	return data
}
