package relational

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carebook/carebook/internal/store"
)

// dateColumnPriority picks which column a from/to filter applies to.
var dateColumnPriority = []string{
	"day_date",
	"eaten_at",
	"performed_at",
	"sleep_start_at",
	"recorded_at",
	"created_at",
	"updated_at",
}

// adminRepo backs the raw data browser. Every table name is validated against
// the live table list before it is interpolated into a query.
type adminRepo struct {
	db     *sqlx.DB
	driver string
}

func (r *adminRepo) Tables(ctx context.Context) ([]string, error) {
	var query string
	switch r.driver {
	case "sqlite":
		query = `SELECT name FROM sqlite_master
		         WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name NOT LIKE 'goose_%'
		         ORDER BY name`
	default:
		query = `SELECT table_name FROM information_schema.tables
		         WHERE table_schema = 'public' AND table_name NOT LIKE 'goose_%'
		         ORDER BY table_name`
	}

	var tables []string
	err := r.db.SelectContext(ctx, &tables, query)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

func (r *adminRepo) assertAllowed(ctx context.Context, table string) error {
	tables, err := r.Tables(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(tables, table) {
		return fmt.Errorf("table %q: %w", table, store.ErrUnknownTable)
	}
	return nil
}

func (r *adminRepo) Schema(ctx context.Context, table string) ([]store.Column, error) {
	err := r.assertAllowed(ctx, table)
	if err != nil {
		return nil, err
	}

	if r.driver == "sqlite" {
		rows, err := r.db.QueryxContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
		if err != nil {
			return nil, fmt.Errorf("table schema: %w", err)
		}
		defer rows.Close()

		var cols []store.Column
		for rows.Next() {
			var cid int
			var name, ctype string
			var notnull, pk int
			var dflt any
			if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
				return nil, err
			}
			cols = append(cols, store.Column{Name: name, DataType: ctype, Nullable: notnull == 0})
		}
		return cols, rows.Err()
	}

	type columnRow struct {
		Name     string `db:"column_name"`
		DataType string `db:"data_type"`
		Nullable string `db:"is_nullable"`
	}
	var raw []columnRow
	query := `SELECT column_name, data_type, is_nullable
	          FROM information_schema.columns
	          WHERE table_schema = 'public' AND table_name = $1
	          ORDER BY ordinal_position`
	err = r.db.SelectContext(ctx, &raw, query, table)
	if err != nil {
		return nil, fmt.Errorf("table schema: %w", err)
	}

	cols := make([]store.Column, len(raw))
	for i, c := range raw {
		cols[i] = store.Column{Name: c.Name, DataType: c.DataType, Nullable: c.Nullable == "YES"}
	}
	return cols, nil
}

func (r *adminRepo) Rows(ctx context.Context, table string, filter store.RowFilter) (*store.RowsPage, error) {
	cols, err := r.Schema(ctx, table)
	if err != nil {
		return nil, err
	}

	where, args := buildWhere(cols, filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM ` + quoteIdent(table) + where
	err = r.db.GetContext(ctx, &total, countQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	orderBy := ""
	if dc := resolveDateColumn(cols); dc != "" {
		orderBy = ` ORDER BY ` + quoteIdent(dc) + ` DESC`
	}

	query := fmt.Sprintf(`SELECT * FROM %s%s%s LIMIT $%d OFFSET $%d`,
		quoteIdent(table), where, orderBy, len(args)+1, len(args)+2)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer rows.Close()

	out := []map[string]any{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		out = append(out, normalizeRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.RowsPage{Rows: out, Total: total, Columns: cols}, nil
}

func (r *adminRepo) Row(ctx context.Context, table, id string) (map[string]any, error) {
	cols, err := r.Schema(ctx, table)
	if err != nil {
		return nil, err
	}
	if !hasColumn(cols, "id") {
		return nil, fmt.Errorf("table %q has no id column", table)
	}

	rows, err := r.db.QueryxContext(ctx, `SELECT * FROM `+quoteIdent(table)+` WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("load row: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, &store.NotFoundError{Kind: table + " row", ID: id}
	}
	row := map[string]any{}
	if err := rows.MapScan(row); err != nil {
		return nil, err
	}
	return normalizeRow(row), rows.Err()
}

// buildWhere applies only filters whose columns actually exist on the table.
// The from/to day-key bounds compare against the ISO prefix of the resolved
// date column, which is best-effort but exact for text day keys.
func buildWhere(cols []store.Column, filter store.RowFilter) (string, []any) {
	var clauses []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OwnerKey != "" && hasColumn(cols, "owner_key") {
		clauses = append(clauses, "owner_key = "+arg(filter.OwnerKey))
	}
	if filter.DayKey != "" && hasColumn(cols, "day_key") {
		clauses = append(clauses, "day_key = "+arg(filter.DayKey))
	}

	if dc := resolveDateColumn(cols); dc != "" {
		prefix := "substr(CAST(" + quoteIdent(dc) + " AS text), 1, 10)"
		if filter.From != "" {
			clauses = append(clauses, prefix+" >= "+arg(filter.From))
		}
		if filter.To != "" {
			clauses = append(clauses, prefix+" <= "+arg(filter.To))
		}
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func resolveDateColumn(cols []store.Column) string {
	for _, name := range dateColumnPriority {
		if hasColumn(cols, name) {
			return name
		}
	}
	return ""
}

func hasColumn(cols []store.Column, name string) bool {
	return slices.ContainsFunc(cols, func(c store.Column) bool { return c.Name == name })
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, ``) + `"`
}

func normalizeRow(row map[string]any) map[string]any {
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		}
	}
	return row
}
