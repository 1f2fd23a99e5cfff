package handler

import (
	"net/http"

	"github.com/carebook/carebook/internal/service"
)

type AssistHandler struct {
	assist *service.AssistService
}

func NewAssistHandler(assist *service.AssistService) *AssistHandler {
	return &AssistHandler{assist: assist}
}

type assistRequest struct {
	Text string `json:"text"`
}

// SuggestMeal turns free text like "ramen and gyoza for lunch" into a
// structured meal suggestion. Advisory only: nothing is written until the
// client posts the (possibly edited) result to /api/meals.
func (h *AssistHandler) SuggestMeal(w http.ResponseWriter, r *http.Request) {
	var req assistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, err)
		return
	}

	suggestion, err := h.assist.SuggestMeal(r.Context(), req.Text)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, suggestion)
}

func (h *AssistHandler) SuggestWorkout(w http.ResponseWriter, r *http.Request) {
	var req assistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, err)
		return
	}

	suggestion, err := h.assist.SuggestWorkout(r.Context(), req.Text)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, suggestion)
}
