package repositories

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"airline-dashboard/internal/domain"
)

// CSVIdentitySource reads the "Ticket Number", "First Name", "Last Name"
// columns from a CSV file. Extra columns are ignored.
type CSVIdentitySource struct {
	Path string
}

func (s CSVIdentitySource) LoadIdentities(ctx context.Context) ([]IdentityRow, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, domain.LoadError{Source: s.Path, Msg: "cannot open passenger csv", Err: err}
	}
	defer f.Close()

	rows, err := ReadIdentityCSV(ctx, f)
	if err != nil {
		var le domain.LoadError
		if errors.As(err, &le) && le.Source == "" {
			le.Source = s.Path
			return nil, le
		}
		return nil, err
	}
	return rows, nil
}

// ReadIdentityCSV parses identity rows from r.
func ReadIdentityCSV(ctx context.Context, r io.Reader) ([]IdentityRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.LoadError{Msg: "passenger csv is empty"}
		}
		return nil, domain.LoadError{Msg: "cannot read csv header", Err: err}
	}

	idx := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	cols := [3]int{}
	for i, name := range []string{ColumnTicketNumber, ColumnFirstName, ColumnLastName} {
		pos, ok := idx[name]
		if !ok {
			return nil, domain.LoadError{Msg: fmt.Sprintf("missing required column %q", name)}
		}
		cols[i] = pos
	}

	out := []IdentityRow{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, domain.LoadError{Msg: "load cancelled", Err: err}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.LoadError{Msg: "cannot read csv row", Err: err}
		}
		if isBlankRecord(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		row := IdentityRow{}
		for i, dst := range []*string{&row.TicketNumber, &row.FirstName, &row.LastName} {
			if cols[i] >= len(rec) {
				return nil, domain.LoadError{Msg: fmt.Sprintf("line %d has %d fields, want at least %d", line, len(rec), cols[i]+1)}
			}
			*dst = rec[cols[i]]
		}
		out = append(out, row)
	}
	return out, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
