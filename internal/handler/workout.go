package handler

import (
	"net/http"

	"github.com/carebook/carebook/internal/service"
)

type WorkoutHandler struct {
	workouts *service.WorkoutService
}

func NewWorkoutHandler(workouts *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	workouts, err := h.workouts.List(r.Context(), q.Get("ownerKey"), q.Get("dayKey"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, workouts)
}

func (h *WorkoutHandler) Add(w http.ResponseWriter, r *http.Request) {
	var args service.AddWorkoutArgs
	if err := decodeJSON(w, r, &args); err != nil {
		respondErr(w, err)
		return
	}

	res, err := h.workouts.Add(r.Context(), args)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusCreated, res)
}

func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var args service.UpdateWorkoutArgs
	if err := decodeJSON(w, r, &args); err != nil {
		respondErr(w, err)
		return
	}

	res, err := h.workouts.Update(r.Context(), id, args)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, res)
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.workouts.Delete(r.Context(), r.URL.Query().Get("ownerKey"), id); err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]string{"recordId": id})
}
