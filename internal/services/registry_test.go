package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"
	"time"

	"airline-dashboard/internal/domain"
	"airline-dashboard/internal/domain/models"
	"airline-dashboard/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFiles struct {
	files   map[string][]byte
	readErr error
}

func (m memFiles) Exists(name string) bool {
	_, ok := m.files[name]
	return ok
}

func (m memFiles) Read(name string) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	b, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return b, nil
}

type stubExtractor struct {
	amounts []string
	calls   int
	err     error
}

func (s *stubExtractor) Extract(_ context.Context, req ExtractRequest) (models.InvoiceFields, error) {
	if s.err != nil {
		return models.InvoiceFields{}, s.err
	}
	amt := "500"
	if s.calls < len(s.amounts) {
		amt = s.amounts[s.calls]
	}
	s.calls++
	return models.InvoiceFields{
		InvoiceNumber: fmt.Sprintf("INV-%04d", 1000+s.calls),
		Airline:       "A",
		Amount:        decimal.RequireFromString(amt),
		Confidence:    90,
	}, nil
}

var fixedNow = func() time.Time { return time.Date(2025, 3, 4, 12, 0, 0, 0, time.Local) }

func samplePassengers() []models.Passenger {
	return BuildPassengers([]repositories.IdentityRow{
		{TicketNumber: "12345.0", FirstName: "John", LastName: "Doe"},
		{TicketNumber: "67890", FirstName: "Jane", LastName: "Roe"},
		{TicketNumber: "55555", FirstName: "Mary", LastName: "Johnson"},
	})
}

func newTestRegistry(t *testing.T, files map[string][]byte, cfg RegistryConfig) *Registry {
	t.Helper()
	if cfg.Files == nil {
		cfg.Files = memFiles{files: files}
	}
	if cfg.Extractor == nil {
		ex, err := NewRandomExtractor(DefaultExtractorConfig(), nil)
		require.NoError(t, err)
		cfg.Extractor = ex
	}
	if cfg.Now == nil {
		cfg.Now = fixedNow
	}
	r, err := NewRegistry(samplePassengers(), cfg)
	require.NoError(t, err)
	return r
}

func TestBuildPassengers(t *testing.T) {
	ps := samplePassengers()
	require.Len(t, ps, 3)
	for i, p := range ps {
		assert.Equal(t, i+1, p.ID)
		assert.Equal(t, domain.DownloadPending, p.DownloadStatus)
		assert.Equal(t, domain.ParsePending, p.ParseStatus)
		assert.Nil(t, p.PDFFilename)
	}
	assert.Equal(t, "12345", ps[0].TicketNumber)
	assert.Equal(t, "67890", ps[1].TicketNumber)
}

type errSource struct{ err error }

func (e errSource) LoadIdentities(context.Context) ([]repositories.IdentityRow, error) {
	return nil, e.err
}

func TestLoadPassengersWrapsErrors(t *testing.T) {
	_, err := LoadPassengers(context.Background(), errSource{err: errors.New("boom")})
	assert.True(t, domain.IsLoad(err))

	_, err = LoadPassengers(context.Background(), nil)
	assert.True(t, domain.IsLoad(err))
}

func TestSearch(t *testing.T) {
	r := newTestRegistry(t, nil, RegistryConfig{})

	all := r.Search("")
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, ids(all))

	assert.Empty(t, r.Search("nobody"))
	assert.Equal(t, []int{1, 3}, ids(r.Search("john")), "matches first name and last name, case-insensitive")
	assert.Equal(t, []int{1}, ids(r.Search("n d")), "matches across the first/last boundary")
	assert.Equal(t, []int{2}, ids(r.Search("789")))
}

func ids(ps []models.Passenger) []int {
	out := []int{}
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestSearchReturnsCopies(t *testing.T) {
	r := newTestRegistry(t, map[string][]byte{"12345.pdf": []byte("%PDF-1.4")}, RegistryConfig{})
	_, err := r.Download(context.Background(), "12345")
	require.NoError(t, err)

	got := r.Search("")
	*got[0].PDFFilename = "tampered.pdf"
	got[0].FirstName = "X"

	again := r.Search("")
	assert.Equal(t, "12345.pdf", *again[0].PDFFilename)
	assert.Equal(t, "John", again[0].FirstName)
}

func TestDownloadUnknownTicket(t *testing.T) {
	r := newTestRegistry(t, nil, RegistryConfig{})
	before := r.Passengers()

	_, err := r.Download(context.Background(), "00000")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, "Passenger not found", err.Error())
	assert.Equal(t, before, r.Passengers())
}

func TestDownloadMissingFile(t *testing.T) {
	r := newTestRegistry(t, map[string][]byte{}, RegistryConfig{})

	_, err := r.Download(context.Background(), "67890")
	require.Error(t, err)
	assert.True(t, domain.IsInvoiceFileNotFound(err))
	assert.Equal(t, "Invoice PDF not found", err.Error())

	p := r.Passengers()[1]
	assert.Equal(t, domain.DownloadNotFound, p.DownloadStatus)
	assert.Nil(t, p.PDFFilename)
}

func TestDownloadSuccess(t *testing.T) {
	content := []byte("%PDF-1.4 invoice")
	r := newTestRegistry(t, map[string][]byte{"12345.pdf": content}, RegistryConfig{})

	res, err := r.Download(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345.pdf", res.Filename)
	assert.Equal(t, content, res.Content)
	assert.Equal(t, "application/pdf", res.ContentType)

	p := r.Passengers()[0]
	assert.Equal(t, domain.DownloadSuccess, p.DownloadStatus)
	require.NotNil(t, p.PDFFilename)
	assert.Equal(t, "12345.pdf", *p.PDFFilename)
}

func TestDownloadReevaluatesFilePresence(t *testing.T) {
	files := map[string][]byte{}
	r := newTestRegistry(t, files, RegistryConfig{})

	_, err := r.Download(context.Background(), "12345")
	require.Error(t, err)
	assert.Equal(t, domain.DownloadNotFound, r.Passengers()[0].DownloadStatus)

	files["12345.pdf"] = []byte("%PDF-1.4")
	_, err = r.Download(context.Background(), "12345")
	require.NoError(t, err)
	p := r.Passengers()[0]
	assert.Equal(t, domain.DownloadSuccess, p.DownloadStatus)
	require.NotNil(t, p.PDFFilename)

	delete(files, "12345.pdf")
	_, err = r.Download(context.Background(), "12345")
	require.Error(t, err)
	assert.True(t, domain.IsInvoiceFileNotFound(err))
	p = r.Passengers()[0]
	assert.Equal(t, domain.DownloadNotFound, p.DownloadStatus)
	assert.Nil(t, p.PDFFilename)
}

func TestDownloadReadErrorLeavesStatus(t *testing.T) {
	r := newTestRegistry(t, nil, RegistryConfig{
		Files: memFiles{files: map[string][]byte{"12345.pdf": nil}, readErr: errors.New("disk on fire")},
	})

	_, err := r.Download(context.Background(), "12345")
	require.Error(t, err)
	assert.True(t, domain.IsInternal(err))
	assert.Equal(t, domain.DownloadPending, r.Passengers()[0].DownloadStatus)
}

func TestParseBeforeDownload(t *testing.T) {
	r := newTestRegistry(t, nil, RegistryConfig{})

	_, err := r.Parse(context.Background(), "12345")
	require.Error(t, err)
	assert.True(t, domain.IsPrecondition(err))
	assert.Equal(t, "Invoice not downloaded", err.Error())
	assert.Empty(t, r.Invoices())
	assert.Equal(t, domain.ParsePending, r.Passengers()[0].ParseStatus)
}

func TestParseUnknownTicket(t *testing.T) {
	r := newTestRegistry(t, nil, RegistryConfig{})
	_, err := r.Parse(context.Background(), "nope")
	assert.True(t, domain.IsNotFound(err))
}

func TestParseAfterDownload(t *testing.T) {
	r := newTestRegistry(t, map[string][]byte{"12345.pdf": []byte("%PDF-1.4")}, RegistryConfig{})
	_, err := r.Download(context.Background(), "12345")
	require.NoError(t, err)

	inv, err := r.Parse(context.Background(), "12345")
	require.NoError(t, err)

	invoices := r.Invoices()
	require.Len(t, invoices, 1)
	assert.Equal(t, inv, invoices[0])
	assert.Equal(t, domain.ParseSuccess, r.Passengers()[0].ParseStatus)

	assert.Equal(t, "2025-03-04", inv.Date)
	assert.Equal(t, "12345", inv.TicketNumber)
	assert.Equal(t, "John", inv.FirstName)
	assert.Equal(t, "Doe", inv.LastName)
	assert.Equal(t, 1, inv.PassengerID)
	assert.True(t, inv.Amount.GreaterThanOrEqual(testAmountMin))
	assert.True(t, inv.Amount.LessThanOrEqual(testAmountMax))
}

func TestParseTwiceAppendsTwoInvoices(t *testing.T) {
	r := newTestRegistry(t, map[string][]byte{"12345.pdf": []byte("%PDF-1.4")}, RegistryConfig{
		AllowReparse: true,
		Extractor:    &stubExtractor{},
	})
	_, err := r.Download(context.Background(), "12345")
	require.NoError(t, err)

	first, err := r.Parse(context.Background(), "12345")
	require.NoError(t, err)
	second, err := r.Parse(context.Background(), "12345")
	require.NoError(t, err)

	assert.Len(t, r.Invoices(), 2)
	assert.NotEqual(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.Equal(t, domain.ParseSuccess, r.Passengers()[0].ParseStatus)
}

func TestParseTwiceRefusedWithoutReparse(t *testing.T) {
	r := newTestRegistry(t, map[string][]byte{"12345.pdf": []byte("%PDF-1.4")}, RegistryConfig{AllowReparse: false})
	_, err := r.Download(context.Background(), "12345")
	require.NoError(t, err)

	_, err = r.Parse(context.Background(), "12345")
	require.NoError(t, err)
	_, err = r.Parse(context.Background(), "12345")
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.Len(t, r.Invoices(), 1)
}

func TestParseExtractorError(t *testing.T) {
	r := newTestRegistry(t, map[string][]byte{"12345.pdf": []byte("%PDF-1.4")}, RegistryConfig{
		Extractor: &stubExtractor{err: errors.New("ocr down")},
	})
	_, err := r.Download(context.Background(), "12345")
	require.NoError(t, err)

	_, err = r.Parse(context.Background(), "12345")
	assert.True(t, domain.IsInternal(err))
	assert.Empty(t, r.Invoices())
	assert.Equal(t, domain.ParsePending, r.Passengers()[0].ParseStatus)
}

func TestInvoiceKeepsIdentitySnapshot(t *testing.T) {
	r := newTestRegistry(t, map[string][]byte{"12345.pdf": []byte("%PDF-1.4")}, RegistryConfig{})
	_, err := r.Download(context.Background(), "12345")
	require.NoError(t, err)
	_, err = r.Parse(context.Background(), "12345")
	require.NoError(t, err)

	r.mu.Lock()
	r.passengers[0].FirstName = "Renamed"
	r.mu.Unlock()

	assert.Equal(t, "John", r.Invoices()[0].FirstName)
}

func TestSummarize(t *testing.T) {
	r := newTestRegistry(t, map[string][]byte{"12345.pdf": []byte("%PDF-1.4")}, RegistryConfig{
		AllowReparse: true,
		Extractor:    &stubExtractor{amounts: []string{"5000", "12000", "3000"}},
	})
	_, err := r.Download(context.Background(), "12345")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := r.Parse(context.Background(), "12345")
		require.NoError(t, err)
	}

	s := r.Summarize()
	require.Len(t, s.AirlineTotals, 1)
	assert.Equal(t, "A", s.AirlineTotals[0].Airline)
	assert.True(t, s.AirlineTotals[0].Total.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, 3, s.AirlineTotals[0].Count)
	assert.Equal(t, 1, s.HighValueCount)
}

func TestSummarizeFirstSeenOrder(t *testing.T) {
	invoices := []models.Invoice{
		{Airline: "Zeta", Amount: decimal.NewFromInt(10000)},
		{Airline: "Alpha", Amount: decimal.NewFromInt(10001)},
		{Airline: "Zeta", Amount: decimal.RequireFromString("0.50")},
	}
	s := summarize(invoices, DefaultHighValueThreshold)

	require.Len(t, s.AirlineTotals, 2)
	assert.Equal(t, "Zeta", s.AirlineTotals[0].Airline)
	assert.Equal(t, "10000.5", s.AirlineTotals[0].Total.String())
	assert.Equal(t, 2, s.AirlineTotals[0].Count)
	assert.Equal(t, "Alpha", s.AirlineTotals[1].Airline)
	assert.Equal(t, 1, s.HighValueCount, "10000 itself is not high value")

	empty := summarize(nil, DefaultHighValueThreshold)
	assert.NotNil(t, empty.AirlineTotals)
	assert.Zero(t, empty.HighValueCount)
}

func TestStatsAndDownloadAll(t *testing.T) {
	r := newTestRegistry(t, map[string][]byte{"12345.pdf": []byte("%PDF-1.4"), "55555.pdf": []byte("%PDF-1.4")}, RegistryConfig{})
	assert.Equal(t, models.Stats{Total: 3, PendingDownloads: 3}, r.Stats())

	out := r.DownloadAll(context.Background())
	require.Len(t, out, 3)
	assert.Equal(t, domain.DownloadSuccess, out[0].DownloadStatus)
	assert.Equal(t, domain.DownloadNotFound, out[1].DownloadStatus)
	assert.Equal(t, "Invoice PDF not found", out[1].Error)
	assert.Equal(t, domain.DownloadSuccess, out[2].DownloadStatus)

	_, err := r.Parse(context.Background(), "55555")
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Total: 3, PendingDownloads: 0, Parsed: 1}, r.Stats())

	again := r.DownloadAll(context.Background())
	require.Len(t, again, 1, "successful downloads are skipped")
	assert.Equal(t, "67890", again[0].TicketNumber)
}

func TestDuplicateTicketUsesFirstMatch(t *testing.T) {
	ps := BuildPassengers([]repositories.IdentityRow{
		{TicketNumber: "1", FirstName: "First"},
		{TicketNumber: "1", FirstName: "Second"},
	})
	r, err := NewRegistry(ps, RegistryConfig{Files: memFiles{files: map[string][]byte{"1.pdf": []byte("x")}}})
	require.NoError(t, err)

	_, err = r.Download(context.Background(), "1")
	require.NoError(t, err)
	got := r.Passengers()
	assert.Equal(t, domain.DownloadSuccess, got[0].DownloadStatus)
	assert.Equal(t, domain.DownloadPending, got[1].DownloadStatus)
}

func TestConcurrentParseKeepsEveryInvoice(t *testing.T) {
	r := newTestRegistry(t, map[string][]byte{"12345.pdf": []byte("%PDF-1.4")}, RegistryConfig{AllowReparse: true})
	_, err := r.Download(context.Background(), "12345")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Parse(context.Background(), "12345")
		}()
	}
	wg.Wait()
	assert.Len(t, r.Invoices(), 50)
}

func TestNewRegistryRequiresFiles(t *testing.T) {
	_, err := NewRegistry(nil, RegistryConfig{})
	assert.Error(t, err)
}
