package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// jsonAmount renders d as a bare JSON number.
func jsonAmount(d decimal.Decimal) json.RawMessage {
	return json.RawMessage(d.String())
}

// InvoiceFields is what an extractor pulls out of a downloaded PDF.
type InvoiceFields struct {
	InvoiceNumber string
	Airline       string
	Amount        decimal.Decimal
	GSTIN         *string
	Confidence    int
}

// Invoice is an immutable audit record. Passenger identity is copied, not
// referenced, so later passenger edits never rewrite history.
type Invoice struct {
	InvoiceNumber string          `json:"invoice_number"`
	Date          string          `json:"date"`
	Airline       string          `json:"airline"`
	Amount        decimal.Decimal `json:"amount"`
	GSTIN         *string         `json:"gstin"`
	Confidence    int             `json:"confidence"`
	TicketNumber  string          `json:"ticket_number"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	PassengerID   int             `json:"passenger_id"`
}

// Clone returns a copy that shares no pointers with inv.
func (inv Invoice) Clone() Invoice {
	if inv.GSTIN != nil {
		g := *inv.GSTIN
		inv.GSTIN = &g
	}
	return inv
}

// MarshalJSON writes Amount as a JSON number.
func (inv Invoice) MarshalJSON() ([]byte, error) {
	type plain Invoice
	return json.Marshal(struct {
		plain
		Amount json.RawMessage `json:"amount"`
	}{plain(inv), jsonAmount(inv.Amount)})
}

// AirlineTotal aggregates invoices of one airline.
type AirlineTotal struct {
	Airline string          `json:"airline"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
}

func (t AirlineTotal) MarshalJSON() ([]byte, error) {
	type plain AirlineTotal
	return json.Marshal(struct {
		plain
		Total json.RawMessage `json:"total"`
	}{plain(t), jsonAmount(t.Total)})
}

// Summary is the per-airline roll-up plus the high-value count.
type Summary struct {
	AirlineTotals  []AirlineTotal `json:"airline_totals"`
	HighValueCount int            `json:"high_value_count"`
}

// Stats backs the dashboard counter cards.
type Stats struct {
	Total            int `json:"total"`
	PendingDownloads int `json:"pending_downloads"`
	Parsed           int `json:"parsed"`
}
