package handlers

import (
	"context"

	"airline-dashboard/internal/domain/models"
	"airline-dashboard/internal/repositories"
	"airline-dashboard/internal/services"

	"go.uber.org/zap"
)

// InvoiceRegistry is the part of services.Registry the HTTP layer uses.
type InvoiceRegistry interface {
	Search(q string) []models.Passenger
	Invoices() []models.Invoice
	Summarize() models.Summary
	Stats() models.Stats
	Download(ctx context.Context, ticket string) (services.DownloadResult, error)
	DownloadAll(ctx context.Context) []services.DownloadOutcome
	Parse(ctx context.Context, ticket string) (models.Invoice, error)
}

var _ InvoiceRegistry = (*services.Registry)(nil)

// Handler carries the dependencies shared by every route.
type Handler struct {
	Registry InvoiceRegistry
	Files    repositories.InvoiceFileStore
	Log      *zap.Logger
}

func New(reg InvoiceRegistry, files repositories.InvoiceFileStore, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Registry: reg, Files: files, Log: log}
}
