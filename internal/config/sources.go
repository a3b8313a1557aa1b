package config

import (
	"context"
	"fmt"

	"airline-dashboard/internal/repositories"
)

// OpenIdentitySource builds the configured identity source. The returned
// close func releases the database handle, if any.
func (e Env) OpenIdentitySource(ctx context.Context) (repositories.IdentitySource, func() error, error) {
	switch e.IdentitySource {
	case IdentitySourceMySQL:
		db, err := OpenMySQL(ctx, e.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return repositories.MySQLIdentitySource{DB: db, Table: e.MySQLTable}, db.Close, nil
	case IdentitySourceCSV, "":
		return repositories.CSVIdentitySource{Path: e.DataCSV}, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown identity source %q", e.IdentitySource)
	}
}
