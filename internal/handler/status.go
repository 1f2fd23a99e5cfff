package handler

import (
	"net/http"

	"github.com/carebook/carebook/internal/store"
)

type StatusHandler struct {
	store            *store.Store
	assistConfigured bool
	filesConfigured  bool
}

func NewStatusHandler(st *store.Store, assistConfigured, filesConfigured bool) *StatusHandler {
	return &StatusHandler{store: st, assistConfigured: assistConfigured, filesConfigured: filesConfigured}
}

type statusResponse struct {
	Backend     string `json:"backend"`
	Configured  bool   `json:"configured"`
	Hint        string `json:"hint,omitempty"`
	Assist      bool   `json:"assist"`
	Attachments bool   `json:"attachments"`
}

// Status reports which backend is live and which optional integrations are
// on, so clients can hide the assist button or the upload picker up front.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	res := statusResponse{
		Backend:     h.store.Backend,
		Configured:  h.store.Configured,
		Assist:      h.assistConfigured,
		Attachments: h.filesConfigured,
	}
	if !h.store.Configured {
		res.Hint = h.store.Hint
	}
	respondOK(w, http.StatusOK, res)
}
