package handlers

import (
	"net/http"

	"airline-dashboard/internal/domain"
	"airline-dashboard/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func (h *Handler) RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "passenger_not_found", "Passenger not found")
	case domain.IsInvoiceFileNotFound(err):
		respondError(c, http.StatusNotFound, "invoice_pdf_not_found", "Invoice PDF not found")
	case domain.IsPrecondition(err):
		respondError(c, http.StatusBadRequest, "precondition_failed", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	default:
		h.Log.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Bool("internal", domain.IsInternal(err)),
			zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
