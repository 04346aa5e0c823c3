package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-versioning-service/internal/dto"
)

func (h *Handler) ExportLineage(c *gin.Context) {
	report, err := h.registry.ExportLineage(c.Request.Context(), c.Param("name"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLineageResponse(report))
}

func (h *Handler) CompareVersions(c *gin.Context) {
	v1 := c.Query("v1")
	v2 := c.Query("v2")
	if v1 == "" || v2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "v1 and v2 query parameters are required"})
		return
	}

	comparison, err := h.registry.CompareVersions(c.Request.Context(), c.Param("name"), v1, v2)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToComparisonResponse(comparison))
}

func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.registry.Summary(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("registry summary failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}
