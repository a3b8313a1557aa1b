package services

import (
	"context"

	"airline-dashboard/internal/domain"
	"airline-dashboard/internal/domain/models"
	"airline-dashboard/internal/repositories"
	"airline-dashboard/internal/utils"
)

// LoadPassengers reads identity rows from src and builds the initial passengers.
func LoadPassengers(ctx context.Context, src repositories.IdentitySource) ([]models.Passenger, error) {
	if src == nil {
		return nil, domain.LoadError{Msg: "no identity source configured"}
	}
	rows, err := src.LoadIdentities(ctx)
	if err != nil {
		if domain.IsLoad(err) {
			return nil, err
		}
		return nil, domain.LoadError{Err: err}
	}
	return BuildPassengers(rows), nil
}

// BuildPassengers assigns 1-based ids in source order, normalizes ticket
// numbers and starts both statuses at Pending.
func BuildPassengers(rows []repositories.IdentityRow) []models.Passenger {
	out := make([]models.Passenger, 0, len(rows))
	for i, row := range rows {
		out = append(out, models.Passenger{
			ID:             i + 1,
			TicketNumber:   utils.NormalizeTicketNumber(row.TicketNumber),
			FirstName:      row.FirstName,
			LastName:       row.LastName,
			DownloadStatus: domain.DownloadPending,
			ParseStatus:    domain.ParsePending,
		})
	}
	return out
}
