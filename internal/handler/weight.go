package handler

import (
	"net/http"

	"github.com/carebook/carebook/internal/service"
)

type WeightHandler struct {
	weights *service.WeightService
}

func NewWeightHandler(weights *service.WeightService) *WeightHandler {
	return &WeightHandler{weights: weights}
}

// Save upserts the day's single weight reading. Posting twice for the same
// day overwrites; the response mode tells the client which happened.
func (h *WeightHandler) Save(w http.ResponseWriter, r *http.Request) {
	var args service.SaveWeightArgs
	if err := decodeJSON(w, r, &args); err != nil {
		respondErr(w, err)
		return
	}

	res, err := h.weights.Save(r.Context(), args)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, res)
}

func (h *WeightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dayKey, err := h.weights.Delete(r.Context(), service.DeleteByDayArgs{
		OwnerKey: q.Get("ownerKey"),
		DayKey:   q.Get("dayKey"),
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]string{"dayKey": dayKey})
}

func (h *WeightHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weight, err := h.weights.Get(r.Context(), q.Get("ownerKey"), q.Get("dayKey"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, weight)
}
