package repositories

import "context"

// IdentityRow is one raw passenger record in source order.
type IdentityRow struct {
	TicketNumber string
	FirstName    string
	LastName     string
}

// IdentitySource yields the passenger identity rows the registry is built from.
type IdentitySource interface {
	LoadIdentities(ctx context.Context) ([]IdentityRow, error)
}

const (
	ColumnTicketNumber = "Ticket Number"
	ColumnFirstName    = "First Name"
	ColumnLastName     = "Last Name"
)
