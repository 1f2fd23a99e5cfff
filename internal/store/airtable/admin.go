package airtable

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/carebook/carebook/internal/store"
)

type adminRepo struct {
	c      *Client
	tables Tables
}

func (r *adminRepo) allowed() []string {
	return []string{
		r.tables.Days,
		r.tables.Weight,
		r.tables.Sleep,
		r.tables.Meal,
		r.tables.Workout,
		r.tables.Journal,
	}
}

func (r *adminRepo) Tables(ctx context.Context) ([]string, error) {
	return r.allowed(), nil
}

func (r *adminRepo) assertAllowed(table string) error {
	for _, t := range r.allowed() {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("table %q: %w", table, store.ErrUnknownTable)
}

// Schema is inferred from a sample of records: the API exposes no metadata
// endpoint on the data plane, and Airtable omits empty fields entirely, so
// columns only appear once some record has populated them.
func (r *adminRepo) Schema(ctx context.Context, table string) ([]store.Column, error) {
	if err := r.assertAllowed(table); err != nil {
		return nil, err
	}
	page, err := listPage[map[string]any](ctx, r.c, table, listOptions{PageSize: 100})
	if err != nil {
		return nil, err
	}
	return inferColumns(page.Records), nil
}

func (r *adminRepo) Rows(ctx context.Context, table string, filter store.RowFilter) (*store.RowsPage, error) {
	if err := r.assertAllowed(table); err != nil {
		return nil, err
	}

	records, err := listAll[map[string]any](ctx, r.c, table, listOptions{
		FilterByFormula: rowFilterFormula(filter),
		PageSize:        100,
	})
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(records)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	window := records[offset:end]

	rows := make([]map[string]any, 0, len(window))
	for _, rec := range window {
		rows = append(rows, flattenRecord(rec))
	}
	return &store.RowsPage{
		Rows:    rows,
		Total:   total,
		Columns: inferColumns(records),
	}, nil
}

func (r *adminRepo) Row(ctx context.Context, table, id string) (map[string]any, error) {
	if err := r.assertAllowed(table); err != nil {
		return nil, err
	}
	rec, err := getOne[map[string]any](ctx, r.c, table, id)
	if err != nil {
		return nil, asNotFound(err, table, id)
	}
	return flattenRecord(*rec), nil
}

// rowFilterFormula ANDs the requested constraints. From/To compare against
// the dayKey field lexicographically, inclusive on both ends.
func rowFilterFormula(filter store.RowFilter) string {
	var parts []string
	if filter.OwnerKey != "" {
		parts = append(parts, ownerFormula(filter.OwnerKey))
	}
	if filter.DayKey != "" {
		parts = append(parts, fmt.Sprintf("{dayKey}='%s'", escapeFormulaValue(filter.DayKey)))
	}
	if filter.From != "" {
		parts = append(parts, fmt.Sprintf("{dayKey}>='%s'", escapeFormulaValue(filter.From)))
	}
	if filter.To != "" {
		parts = append(parts, fmt.Sprintf("{dayKey}<='%s'", escapeFormulaValue(filter.To)))
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return "AND(" + strings.Join(parts, ", ") + ")"
	}
}

func flattenRecord(rec record[map[string]any]) map[string]any {
	row := map[string]any{
		"id":          rec.ID,
		"createdTime": rec.CreatedTime,
	}
	for k, v := range rec.Fields {
		row[k] = v
	}
	return row
}

func inferColumns(records []record[map[string]any]) []store.Column {
	types := map[string]string{}
	for _, rec := range records {
		for name, v := range rec.Fields {
			if _, seen := types[name]; seen {
				continue
			}
			types[name] = inferType(v)
		}
	}

	cols := []store.Column{
		{Name: "id", DataType: "text"},
		{Name: "createdTime", DataType: "datetime"},
	}
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cols = append(cols, store.Column{Name: name, DataType: types[name], Nullable: true})
	}
	return cols
}

func inferType(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "text"
	case []any:
		return "list"
	default:
		return "json"
	}
}
