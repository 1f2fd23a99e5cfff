package handler

import (
	"net/http"
	"strconv"

	"github.com/carebook/carebook/internal/service"
	"github.com/carebook/carebook/internal/store"
)

type JournalHandler struct {
	journal *service.JournalService
}

func NewJournalHandler(journal *service.JournalService) *JournalHandler {
	return &JournalHandler{journal: journal}
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.journal.List(r.Context(), q.Get("ownerKey"), store.JournalPage{
		Limit:  intQuery(q.Get("limit")),
		Offset: intQuery(q.Get("offset")),
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, entries)
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entry, err := h.journal.Get(r.Context(), r.URL.Query().Get("ownerKey"), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, entry)
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var args service.JournalArgs
	if err := decodeJSON(w, r, &args); err != nil {
		respondErr(w, err)
		return
	}

	entry, err := h.journal.Create(r.Context(), args)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusCreated, entry)
}

func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var args service.JournalArgs
	if err := decodeJSON(w, r, &args); err != nil {
		respondErr(w, err)
		return
	}

	entry, err := h.journal.Update(r.Context(), id, args)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, entry)
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.journal.Delete(r.Context(), r.URL.Query().Get("ownerKey"), id); err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]string{"recordId": id})
}

type presignRequest struct {
	OwnerKey    string `json:"ownerKey"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// Presign mints a direct-upload slot for one attachment. The client PUTs the
// file to the returned URL and stores the key on the entry.
func (h *JournalHandler) Presign(w http.ResponseWriter, r *http.Request) {
	var req presignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, err)
		return
	}
	if req.Filename == "" {
		respondErr(w, badRequest("filename is required"))
		return
	}

	upload, err := h.journal.PresignUpload(r.Context(), req.OwnerKey, req.Filename, req.ContentType)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, upload)
}

// Attachment resolves a stored attachment reference to a fetchable URL.
// Absolute URLs pass through unchanged; bucket keys get a presigned GET.
func (h *JournalHandler) Attachment(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" {
		respondErr(w, badRequest("ref is required"))
		return
	}

	url, err := h.journal.ResolveAttachment(r.Context(), ref)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]string{"url": url})
}

func intQuery(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
