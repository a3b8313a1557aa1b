package handlers

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"

	"airline-dashboard/internal/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// GET /api/invoices
func (h *Handler) GetInvoices(c *gin.Context) {
	c.JSON(http.StatusOK, h.Registry.Invoices())
}

// GET /api/summary
func (h *Handler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.Registry.Summarize())
}

// POST /api/download/:ticket sends the invoice PDF as an attachment.
func (h *Handler) DownloadInvoice(c *gin.Context) {
	res, err := h.Registry.Download(c.Request.Context(), c.Param("ticket"))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	c.Data(http.StatusOK, res.ContentType, res.Content)
}

// POST /api/download-all
func (h *Handler) DownloadAll(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": h.Registry.DownloadAll(c.Request.Context())})
}

// POST /api/parse/:ticket
func (h *Handler) ParseInvoice(c *gin.Context) {
	inv, err := h.Registry.Parse(c.Request.Context(), c.Param("ticket"))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// GET /invoices/:filename serves a stored invoice inline.
func (h *Handler) ServeInvoiceFile(c *gin.Context) {
	name := c.Param("filename")
	if !utils.SafeFilename(name) || !h.Files.Exists(name) {
		respondError(c, http.StatusNotFound, "file_not_found", "File not found")
		return
	}
	content, err := h.Files.Read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			respondError(c, http.StatusNotFound, "file_not_found", "File not found")
			return
		}
		h.RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
	c.Data(http.StatusOK, mimetype.Detect(content).String(), content)
}
