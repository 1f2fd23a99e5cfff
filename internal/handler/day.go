package handler

import (
	"net/http"

	"github.com/carebook/carebook/internal/service"
)

type DayHandler struct {
	days *service.DayService
}

func NewDayHandler(days *service.DayService) *DayHandler {
	return &DayHandler{days: days}
}

// List serves the calendar: days with records for one month, or for an
// explicit from/to range when both bounds are given. Month wins when the
// request sends both.
func (h *DayHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner := q.Get("ownerKey")
	from, to := q.Get("from"), q.Get("to")

	if month := q.Get("month"); month != "" || from == "" || to == "" {
		days, err := h.days.Month(r.Context(), owner, month)
		if err != nil {
			respondErr(w, err)
			return
		}
		respondOK(w, http.StatusOK, days)
		return
	}

	days, err := h.days.Range(r.Context(), owner, from, to)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, days)
}

// Summary serves the day screen in one round trip: the day row plus its
// weight, sleep, meals, and workouts.
func (h *DayHandler) Summary(w http.ResponseWriter, r *http.Request) {
	dayKey := r.PathValue("dayKey")

	summary, err := h.days.Summary(r.Context(), r.URL.Query().Get("ownerKey"), dayKey)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, summary)
}
