package handler

import (
	"net/http"

	"github.com/carebook/carebook/internal/service"
)

type SleepHandler struct {
	sleeps *service.SleepService
}

func NewSleepHandler(sleeps *service.SleepService) *SleepHandler {
	return &SleepHandler{sleeps: sleeps}
}

// Save upserts the night's sleep record. The record lands on the wake-up day
// unless the request pins an explicit dayKey.
func (h *SleepHandler) Save(w http.ResponseWriter, r *http.Request) {
	var args service.SaveSleepArgs
	if err := decodeJSON(w, r, &args); err != nil {
		respondErr(w, err)
		return
	}

	res, err := h.sleeps.Save(r.Context(), args)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, res)
}

func (h *SleepHandler) Delete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dayKey, err := h.sleeps.Delete(r.Context(), service.DeleteByDayArgs{
		OwnerKey: q.Get("ownerKey"),
		DayKey:   q.Get("dayKey"),
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]string{"dayKey": dayKey})
}

func (h *SleepHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sleep, err := h.sleeps.Get(r.Context(), q.Get("ownerKey"), q.Get("dayKey"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, sleep)
}
