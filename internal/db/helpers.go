package db

import (
	"context"
	"database/sql"
	"errors"
)

// QueryRower is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// HasTable reports whether table exists in the current schema.
func HasTable(ctx context.Context, q QueryRower, table string) (bool, error) {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return name.Valid && name.String != "", nil
}

// HasColumn reports whether table.column exists in the current schema.
func HasColumn(ctx context.Context, q QueryRower, table, column string) (bool, error) {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND column_name = ?
		LIMIT 1
	`, table, column).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return name.Valid && name.String != "", nil
}

// MissingColumns returns the columns of want that table lacks, in order.
func MissingColumns(ctx context.Context, q QueryRower, table string, want ...string) ([]string, error) {
	missing := []string{}
	for _, col := range want {
		ok, err := HasColumn(ctx, q, table, col)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, col)
		}
	}
	return missing, nil
}
