package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"airline-dashboard/internal/domain/models"

	"github.com/shopspring/decimal"
)

// ExtractRequest identifies the downloaded invoice to extract fields from.
type ExtractRequest struct {
	TicketNumber string
	PDFFilename  string
}

// InvoiceExtractor pulls invoice fields out of a downloaded PDF. The registry
// depends only on this, so a real document parser can replace the simulated one.
type InvoiceExtractor interface {
	Extract(ctx context.Context, req ExtractRequest) (models.InvoiceFields, error)
}

const sampleGSTIN = "29ABCDE1234F2Z5"

type ExtractorConfig struct {
	Airline   string
	AmountMin decimal.Decimal
	AmountMax decimal.Decimal
}

func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Airline:   "Thai Airways",
		AmountMin: decimal.NewFromInt(100),
		AmountMax: decimal.NewFromInt(20000),
	}
}

// RandomExtractor simulates extraction with plausible random values.
type RandomExtractor struct {
	cfg ExtractorConfig

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomExtractor uses src for randomness; nil means a time-seeded source.
func NewRandomExtractor(cfg ExtractorConfig, src rand.Source) (*RandomExtractor, error) {
	if cfg.Airline == "" {
		cfg.Airline = DefaultExtractorConfig().Airline
	}
	if cfg.AmountMin.IsNegative() || cfg.AmountMin.GreaterThan(cfg.AmountMax) {
		return nil, fmt.Errorf("invalid amount range [%s, %s]", cfg.AmountMin, cfg.AmountMax)
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &RandomExtractor{cfg: cfg, rnd: rand.New(src)}, nil
}

func (e *RandomExtractor) Extract(ctx context.Context, req ExtractRequest) (models.InvoiceFields, error) {
	if err := ctx.Err(); err != nil {
		return models.InvoiceFields{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	span := e.cfg.AmountMax.Sub(e.cfg.AmountMin)
	amount := e.cfg.AmountMin.Add(span.Mul(decimal.NewFromFloat(e.rnd.Float64()))).Round(2)
	if amount.GreaterThan(e.cfg.AmountMax) {
		amount = e.cfg.AmountMax
	}
	if amount.LessThan(e.cfg.AmountMin) {
		amount = e.cfg.AmountMin
	}

	var gstin *string
	if e.rnd.IntN(2) == 1 {
		g := sampleGSTIN
		gstin = &g
	}

	return models.InvoiceFields{
		InvoiceNumber: fmt.Sprintf("INV-%d", 1000+e.rnd.IntN(9000)),
		Airline:       e.cfg.Airline,
		Amount:        amount,
		GSTIN:         gstin,
		Confidence:    80 + e.rnd.IntN(21),
	}, nil
}
