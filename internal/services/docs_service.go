package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"airline-dashboard/internal/domain/models"
	"airline-dashboard/internal/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceWriter is where rendered sample invoices are stored.
type InvoiceWriter interface {
	Exists(name string) bool
	Write(name string, content []byte) error
}

// DocsService renders sample airline invoice PDFs so the file store has
// something to serve in development.
type DocsService struct {
	Airline string
	Now     func() time.Time
	// Amount picks the printed total; defaults to a value derived from the ticket.
	Amount func(p models.Passenger) decimal.Decimal
	Logger *zap.Logger
}

// SeedResult counts what SeedInvoices did. Rejected passengers have a ticket
// number that cannot be used as a file name.
type SeedResult struct {
	Written  int
	Skipped  int
	Rejected int
}

// GenerateInvoice returns the PDF bytes and the store file name for p.
func (s DocsService) GenerateInvoice(p models.Passenger) ([]byte, string, error) {
	if strings.TrimSpace(p.TicketNumber) == "" {
		return nil, "", fmt.Errorf("passenger %d has no ticket number", p.ID)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	amount := ticketAmount(p)
	if s.Amount != nil {
		amount = s.Amount(p)
	}
	return buildInvoicePDF(invoiceDocData{
		Airline:       safe(s.Airline, "Thai Airways"),
		TicketNumber:  p.TicketNumber,
		PassengerName: strings.TrimSpace(p.FullName()),
		InvoiceNumber: "INV-" + safeFilenamePart(p.TicketNumber),
		IssuedAt:      now(),
		Amount:        amount,
	})
}

// SeedInvoices writes <ticket>.pdf for every n-th passenger (every <= 1 means
// all of them). Existing files are left alone unless overwrite is set.
func (s DocsService) SeedInvoices(ctx context.Context, passengers []models.Passenger, w InvoiceWriter, every int, overwrite bool) (SeedResult, error) {
	var res SeedResult
	if every < 1 {
		every = 1
	}
	for i, p := range passengers {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if i%every != 0 {
			res.Skipped++
			continue
		}
		if filename := p.TicketNumber + ".pdf"; strings.TrimSpace(p.TicketNumber) == "" || !utils.SafeFilename(filename) {
			res.Rejected++
			if s.Logger != nil {
				s.Logger.Warn("skipping passenger with unusable ticket number",
					zap.Int("passenger_id", p.ID), zap.String("ticket_number", p.TicketNumber))
			}
			continue
		}
		pdf, filename, err := s.GenerateInvoice(p)
		if err != nil {
			return res, err
		}
		if !overwrite && w.Exists(filename) {
			res.Skipped++
			continue
		}
		if err := w.Write(filename, pdf); err != nil {
			return res, fmt.Errorf("write %s: %w", filename, err)
		}
		res.Written++
		utils.LogEvent(s.Logger, "", "docs", "seed_invoice",
			zap.String("ticket_number", p.TicketNumber), zap.Int("bytes", len(pdf)))
	}
	return res, nil
}

type invoiceDocData struct {
	Airline       string
	TicketNumber  string
	PassengerName string
	InvoiceNumber string
	IssuedAt      time.Time
	Amount        decimal.Decimal
}

func buildInvoicePDF(d invoiceDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+d.InvoiceNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, strings.ToUpper(d.Airline))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "TAX INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Invoice No    : %s", d.InvoiceNumber),
		fmt.Sprintf("Date          : %s", utils.FormatDate(d.IssuedAt)),
		fmt.Sprintf("Ticket Number : %s", d.TicketNumber),
		fmt.Sprintf("Passenger     : %s", safe(d.PassengerName, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatRupee(d.Amount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Sample invoice generated for local testing. Not a valid tax document.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), d.TicketNumber + ".pdf", nil
}

// ticketAmount derives a stable printed amount from the ticket digits.
func ticketAmount(p models.Passenger) decimal.Decimal {
	var sum int64
	for _, c := range p.TicketNumber {
		sum = sum*31 + int64(c)
		sum %= 1_990_000
	}
	return decimal.New(10_000+sum, -2)
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
