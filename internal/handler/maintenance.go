package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-versioning-service/internal/dto"
)

func (h *Handler) Cleanup(c *gin.Context) {
	var req dto.CleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	keepProduction := true
	if req.KeepProduction != nil {
		keepProduction = *req.KeepProduction
	}

	result, err := h.registry.Cleanup(c.Request.Context(), c.Param("name"), req.KeepLastN, keepProduction)
	if err != nil {
		log.WithError(err).Error("cleanup failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCleanupResponse(result))
}
