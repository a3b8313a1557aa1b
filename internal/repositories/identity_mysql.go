package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"airline-dashboard/internal/db"
	"airline-dashboard/internal/domain"
)

var mysqlIdentityColumns = []string{"ticket_number", "first_name", "last_name", "id"}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// MySQLIdentitySource reads identity rows from a table with ticket_number,
// first_name, last_name and id columns, ordered by id.
type MySQLIdentitySource struct {
	DB    *sql.DB
	Table string
}

func (s MySQLIdentitySource) table() string {
	if s.Table == "" {
		return "passengers"
	}
	return s.Table
}

func (s MySQLIdentitySource) LoadIdentities(ctx context.Context) ([]IdentityRow, error) {
	table := s.table()
	if s.DB == nil {
		return nil, domain.LoadError{Source: "mysql", Msg: "database not configured"}
	}
	if !tableNamePattern.MatchString(table) {
		return nil, domain.LoadError{Source: "mysql", Msg: fmt.Sprintf("invalid table name %q", table)}
	}

	if err := s.checkSchema(ctx, table); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			COALESCE(CAST(ticket_number AS CHAR), ''),
			COALESCE(first_name, ''),
			COALESCE(last_name, '')
		FROM %s
		ORDER BY id ASC
	`, table)

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.LoadError{Source: "mysql:" + table, Msg: "cannot query passengers", Err: err}
	}
	defer rows.Close()

	out := []IdentityRow{}
	for rows.Next() {
		var r IdentityRow
		if err := rows.Scan(&r.TicketNumber, &r.FirstName, &r.LastName); err != nil {
			return nil, domain.LoadError{Source: "mysql:" + table, Msg: "cannot scan passenger row", Err: err}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.LoadError{Source: "mysql:" + table, Msg: "cannot iterate passenger rows", Err: err}
	}
	return out, nil
}

func (s MySQLIdentitySource) checkSchema(ctx context.Context, table string) error {
	source := "mysql:" + table
	ok, err := db.HasTable(ctx, s.DB, table)
	if err != nil {
		return domain.LoadError{Source: source, Msg: "cannot inspect schema", Err: err}
	}
	if !ok {
		return domain.LoadError{Source: source, Msg: "table not found"}
	}
	missing, err := db.MissingColumns(ctx, s.DB, table, mysqlIdentityColumns...)
	if err != nil {
		return domain.LoadError{Source: source, Msg: "cannot inspect schema", Err: err}
	}
	if len(missing) > 0 {
		return domain.LoadError{Source: source, Msg: "missing required column: " + strings.Join(missing, ", ")}
	}
	return nil
}
