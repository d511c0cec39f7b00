package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/moonandjupiter/consign-tracker/internal/config"
	"github.com/moonandjupiter/consign-tracker/internal/core"
)

// selectList reads every record column as text; NULL becomes "".
func selectList(quote func(string) string, textType string) string {
	cols := make([]string, len(Columns))
	for i, c := range Columns {
		cols[i] = fmt.Sprintf("COALESCE(CAST(%s AS %s), '')", quote(c), textType)
	}
	return strings.Join(cols, ", ")
}

func scanRecord(scan func(dest ...any) error) (core.RawRecord, error) {
	vals := make([]string, len(Columns))
	dest := make([]any, len(Columns))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := scan(dest...); err != nil {
		return core.RawRecord{}, err
	}
	var r core.RawRecord
	for i, c := range Columns {
		*fieldPtr(&r, c) = core.Text(vals[i])
	}
	return r, nil
}

// ── PostgreSQL ────────────────────────────────────────────────────────────────

// Querier is the subset of *pgxpool.Pool and pgx.Tx used to read records.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the records table through pgx, in insertion order.
type PostgresSource struct {
	q     Querier
	table string
}

// NewPostgresSource validates table and returns a source reading it through q.
func NewPostgresSource(q Querier, table string) (*PostgresSource, error) {
	if !config.ValidTable(table) {
		return nil, fmt.Errorf("invalid records table name %q", table)
	}
	return &PostgresSource{q: q, table: table}, nil
}

func (s *PostgresSource) Name() string { return "postgres " + s.table }

// Query returns the statement Fetch runs.
func (s *PostgresSource) Query() string {
	quote := func(c string) string { return pgx.Identifier{c}.Sanitize() }
	table := pgx.Identifier(strings.Split(s.table, ".")).Sanitize()
	return "SELECT " + selectList(quote, "TEXT") + " FROM " + table + " ORDER BY " + quote("seq")
}

func (s *PostgresSource) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	rows, err := s.q.Query(ctx, s.Query())
	if err != nil {
		return nil, &core.DataFetchError{Source: "postgres", Err: err}
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.RawRecord, error) {
		return scanRecord(row.Scan)
	})
	if err != nil {
		return nil, &core.DataFetchError{Source: "postgres", Err: err}
	}
	return records, nil
}

// ── MySQL ─────────────────────────────────────────────────────────────────────

// MySQLSource reads the records table through database/sql and the MySQL driver.
type MySQLSource struct {
	db    *sql.DB
	table string
}

// NewMySQLSource validates table and returns a source reading it through db.
func NewMySQLSource(db *sql.DB, table string) (*MySQLSource, error) {
	if !config.ValidTable(table) {
		return nil, fmt.Errorf("invalid records table name %q", table)
	}
	return &MySQLSource{db: db, table: table}, nil
}

func (s *MySQLSource) Name() string { return "mysql " + s.table }

func quoteMySQL(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

// Query returns the statement Fetch runs.
func (s *MySQLSource) Query() string {
	return "SELECT " + selectList(quoteMySQL, "CHAR") + " FROM " + quoteMySQL(s.table) + " ORDER BY " + quoteMySQL("seq")
}

func (s *MySQLSource) Fetch(ctx context.Context) ([]core.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.Query())
	if err != nil {
		return nil, &core.DataFetchError{Source: "mysql", Err: err}
	}
	defer rows.Close()

	var records []core.RawRecord
	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, &core.DataFetchError{Source: "mysql", Err: err}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.DataFetchError{Source: "mysql", Err: err}
	}
	return records, nil
}
