package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GET /api/passengers?q=
func (h *Handler) GetPassengers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	c.JSON(http.StatusOK, h.Registry.Search(q))
}

// GET /api/stats
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Registry.Stats())
}
