package handler

import (
	"net/http"

	"github.com/carebook/carebook/internal/service"
)

type MealHandler struct {
	meals *service.MealService
}

func NewMealHandler(meals *service.MealService) *MealHandler {
	return &MealHandler{meals: meals}
}

func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	meals, err := h.meals.List(r.Context(), q.Get("ownerKey"), q.Get("dayKey"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, meals)
}

// Add appends a meal; unlike weight and sleep, a day holds any number of them.
func (h *MealHandler) Add(w http.ResponseWriter, r *http.Request) {
	var args service.AddMealArgs
	if err := decodeJSON(w, r, &args); err != nil {
		respondErr(w, err)
		return
	}

	res, err := h.meals.Add(r.Context(), args)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusCreated, res)
}

func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var args service.UpdateMealArgs
	if err := decodeJSON(w, r, &args); err != nil {
		respondErr(w, err)
		return
	}

	res, err := h.meals.Update(r.Context(), id, args)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, res)
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.meals.Delete(r.Context(), r.URL.Query().Get("ownerKey"), id); err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, map[string]string{"recordId": id})
}
