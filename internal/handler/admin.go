package handler

import (
	"net/http"

	"github.com/carebook/carebook/internal/store"
)

// AdminHandler is the raw data browser: allowlisted tables only, read-only.
type AdminHandler struct {
	admin store.AdminRepository
}

func NewAdminHandler(admin store.AdminRepository) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) Tables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.admin.Tables(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, tables)
}

type tablePage struct {
	Table   string          `json:"table"`
	Columns []store.Column  `json:"columns"`
	Rows    *store.RowsPage `json:"rows"`
}

// Table serves one table's inferred schema plus a filtered page of raw rows.
func (h *AdminHandler) Table(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	q := r.URL.Query()

	columns, err := h.admin.Schema(r.Context(), table)
	if err != nil {
		respondErr(w, err)
		return
	}

	rows, err := h.admin.Rows(r.Context(), table, store.RowFilter{
		OwnerKey: q.Get("ownerKey"),
		DayKey:   q.Get("dayKey"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Limit:    intQuery(q.Get("limit")),
		Offset:   intQuery(q.Get("offset")),
	})
	if err != nil {
		respondErr(w, err)
		return
	}

	respondOK(w, http.StatusOK, tablePage{Table: table, Columns: columns, Rows: rows})
}

func (h *AdminHandler) Row(w http.ResponseWriter, r *http.Request) {
	row, err := h.admin.Row(r.Context(), r.PathValue("table"), r.PathValue("id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, http.StatusOK, row)
}
