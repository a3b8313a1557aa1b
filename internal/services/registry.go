package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"airline-dashboard/internal/domain"
	"airline-dashboard/internal/domain/models"
	"airline-dashboard/internal/metrics"
	"airline-dashboard/internal/repositories"
	"airline-dashboard/internal/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultHighValueThreshold is the amount above which an invoice counts as high value.
var DefaultHighValueThreshold = decimal.NewFromInt(10000)

type RegistryConfig struct {
	Files     repositories.InvoiceFileStore
	Extractor InvoiceExtractor
	Now       func() time.Time
	// HighValueThreshold defaults to DefaultHighValueThreshold when zero.
	HighValueThreshold decimal.Decimal
	// AllowReparse keeps appending a new invoice on every Parse of an already
	// parsed passenger. When false the second Parse fails with ConflictError.
	AllowReparse bool
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
}

// Registry owns the passenger list and the append-only invoice list. A single
// mutex guards both; every method returns copies.
type Registry struct {
	mu         sync.Mutex
	passengers []models.Passenger
	byTicket   map[string]int
	invoices   []models.Invoice

	files     repositories.InvoiceFileStore
	extractor InvoiceExtractor
	now       func() time.Time
	threshold decimal.Decimal
	reparse   bool
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// DownloadResult is the invoice file to hand back as an attachment.
type DownloadResult struct {
	Filename    string
	Content     []byte
	ContentType string
}

// DownloadOutcome reports one ticket of a bulk download.
type DownloadOutcome struct {
	TicketNumber   string                `json:"ticket_number"`
	DownloadStatus domain.DownloadStatus `json:"download_status"`
	Error          string                `json:"error,omitempty"`
}

func NewRegistry(passengers []models.Passenger, cfg RegistryConfig) (*Registry, error) {
	if cfg.Files == nil {
		return nil, fmt.Errorf("registry: invoice file store is required")
	}
	if cfg.Extractor == nil {
		ex, err := NewRandomExtractor(DefaultExtractorConfig(), nil)
		if err != nil {
			return nil, err
		}
		cfg.Extractor = ex
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.HighValueThreshold.IsZero() {
		cfg.HighValueThreshold = DefaultHighValueThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := &Registry{
		passengers: make([]models.Passenger, len(passengers)),
		byTicket:   make(map[string]int, len(passengers)),
		invoices:   []models.Invoice{},
		files:      cfg.Files,
		extractor:  cfg.Extractor,
		now:        cfg.Now,
		threshold:  cfg.HighValueThreshold,
		reparse:    cfg.AllowReparse,
		log:        cfg.Logger,
		metrics:    cfg.Metrics,
	}
	for i, p := range passengers {
		r.passengers[i] = p.Clone()
		// first passenger wins on duplicate ticket numbers
		if _, dup := r.byTicket[p.TicketNumber]; !dup {
			r.byTicket[p.TicketNumber] = i
		}
	}
	r.metrics.SetInvoices(0)
	return r, nil
}

// Passengers returns every passenger in load order.
func (r *Registry) Passengers() []models.Passenger {
	return r.Search("")
}

// Search filters by case-insensitive substring of the ticket number or of
// "first last". An empty query returns everyone. Load order is kept.
func (r *Registry) Search(q string) []models.Passenger {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Passenger, 0, len(r.passengers))
	for _, p := range r.passengers {
		if q == "" || utils.ContainsFold(p.TicketNumber, q) || utils.ContainsFold(p.FullName(), q) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Invoices returns all invoices in insertion order.
func (r *Registry) Invoices() []models.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Invoice, len(r.invoices))
	for i, inv := range r.invoices {
		out[i] = inv.Clone()
	}
	return out
}

// Download looks the invoice PDF up in the file store. A missing file marks
// the passenger "Not Found" before the error is returned.
func (r *Registry) Download(ctx context.Context, ticket string) (DownloadResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reqID := utils.RequestIDFrom(ctx)
	idx, ok := r.byTicket[ticket]
	if !ok {
		r.metrics.ObserveDownload("passenger_not_found")
		return DownloadResult{}, domain.NotFoundError{Resource: "Passenger", Key: ticket}
	}
	p := &r.passengers[idx]
	filename := ticket + ".pdf"

	if !r.files.Exists(filename) {
		return DownloadResult{}, r.markFileMissing(reqID, p, filename, nil)
	}
	content, err := r.files.Read(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DownloadResult{}, r.markFileMissing(reqID, p, filename, err)
		}
		r.metrics.ObserveDownload("error")
		r.log.Error("read invoice file failed",
			zap.String("request_id", reqID), zap.String("filename", filename), zap.Error(err))
		return DownloadResult{}, domain.InternalError{Msg: "cannot read invoice file", Err: err}
	}

	p.DownloadStatus = domain.DownloadSuccess
	p.PDFFilename = &filename
	r.metrics.ObserveDownload("success")
	utils.LogEvent(r.log, reqID, "registry", "download",
		zap.String("ticket_number", ticket), zap.Int("bytes", len(content)))

	return DownloadResult{
		Filename:    filename,
		Content:     content,
		ContentType: mimetype.Detect(content).String(),
	}, nil
}

func (r *Registry) markFileMissing(reqID string, p *models.Passenger, filename string, cause error) error {
	p.DownloadStatus = domain.DownloadNotFound
	p.PDFFilename = nil
	r.metrics.ObserveDownload("file_not_found")
	utils.LogEvent(r.log, reqID, "registry", "download_missing",
		zap.String("ticket_number", p.TicketNumber), zap.String("filename", filename))
	return domain.InvoiceFileNotFoundError{TicketNumber: p.TicketNumber, Filename: filename, Err: cause}
}

// DownloadAll attempts Download for every passenger whose download has not
// succeeded yet, in load order.
func (r *Registry) DownloadAll(ctx context.Context) []DownloadOutcome {
	tickets := []string{}
	for _, p := range r.Passengers() {
		if !p.Downloaded() {
			tickets = append(tickets, p.TicketNumber)
		}
	}

	out := make([]DownloadOutcome, 0, len(tickets))
	for _, t := range tickets {
		if ctx.Err() != nil {
			break
		}
		o := DownloadOutcome{TicketNumber: t, DownloadStatus: domain.DownloadSuccess}
		if _, err := r.Download(ctx, t); err != nil {
			o.Error = err.Error()
			o.DownloadStatus = r.downloadStatus(t)
		}
		out = append(out, o)
	}
	return out
}

func (r *Registry) downloadStatus(ticket string) domain.DownloadStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.byTicket[ticket]; ok {
		return r.passengers[idx].DownloadStatus
	}
	return ""
}

// Parse extracts invoice fields for a downloaded passenger and appends a new
// invoice. Nothing is mutated when the passenger has not been downloaded.
func (r *Registry) Parse(ctx context.Context, ticket string) (models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reqID := utils.RequestIDFrom(ctx)
	idx, ok := r.byTicket[ticket]
	if !ok {
		r.metrics.ObserveParse("passenger_not_found")
		return models.Invoice{}, domain.NotFoundError{Resource: "Passenger", Key: ticket}
	}
	p := &r.passengers[idx]
	if !p.Downloaded() {
		r.metrics.ObserveParse("not_downloaded")
		return models.Invoice{}, domain.PreconditionError{Msg: "Invoice not downloaded"}
	}
	if p.Parsed() && !r.reparse {
		r.metrics.ObserveParse("already_parsed")
		return models.Invoice{}, domain.ConflictError{Resource: "invoice", Msg: "passenger already parsed"}
	}

	filename := ""
	if p.PDFFilename != nil {
		filename = *p.PDFFilename
	}
	fields, err := r.extractor.Extract(ctx, ExtractRequest{TicketNumber: p.TicketNumber, PDFFilename: filename})
	if err != nil {
		r.metrics.ObserveParse("error")
		r.log.Error("invoice extraction failed",
			zap.String("request_id", reqID), zap.String("ticket_number", ticket), zap.Error(err))
		return models.Invoice{}, domain.InternalError{Msg: "invoice extraction failed", Err: err}
	}

	inv := models.Invoice{
		InvoiceNumber: fields.InvoiceNumber,
		Date:          utils.FormatDate(r.now()),
		Airline:       fields.Airline,
		Amount:        fields.Amount,
		GSTIN:         fields.GSTIN,
		Confidence:    fields.Confidence,
		TicketNumber:  p.TicketNumber,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		PassengerID:   p.ID,
	}.Clone()

	reparsed := p.Parsed()
	r.invoices = append(r.invoices, inv)
	p.ParseStatus = domain.ParseSuccess

	r.metrics.ObserveParse("success")
	r.metrics.SetInvoices(len(r.invoices))
	utils.LogEvent(r.log, reqID, "registry", "parse",
		zap.String("ticket_number", ticket),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("amount", utils.FormatMoney(inv.Amount)),
		zap.Bool("reparse", reparsed))

	return inv.Clone(), nil
}

// Summarize totals invoice amounts per airline in first-seen order and counts
// invoices above the high-value threshold.
func (r *Registry) Summarize() models.Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return summarize(r.invoices, r.threshold)
}

func summarize(invoices []models.Invoice, threshold decimal.Decimal) models.Summary {
	out := models.Summary{AirlineTotals: []models.AirlineTotal{}}
	pos := map[string]int{}
	for _, inv := range invoices {
		i, ok := pos[inv.Airline]
		if !ok {
			i = len(out.AirlineTotals)
			pos[inv.Airline] = i
			out.AirlineTotals = append(out.AirlineTotals, models.AirlineTotal{Airline: inv.Airline, Total: decimal.Zero})
		}
		out.AirlineTotals[i].Total = out.AirlineTotals[i].Total.Add(inv.Amount)
		out.AirlineTotals[i].Count++
		if inv.Amount.GreaterThan(threshold) {
			out.HighValueCount++
		}
	}
	return out
}

// Stats counts passengers for the dashboard cards.
func (r *Registry) Stats() models.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := models.Stats{Total: len(r.passengers)}
	for _, p := range r.passengers {
		if p.DownloadStatus == domain.DownloadPending {
			s.PendingDownloads++
		}
		if p.Parsed() {
			s.Parsed++
		}
	}
	return s
}
