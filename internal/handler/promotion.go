package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) PromoteVersion(c *gin.Context) {
	name := c.Param("name")
	version := c.Param("version")

	if err := h.registry.Promote(c.Request.Context(), name, version); err != nil {
		log.WithError(err).Error("promote version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"model_name": name, "production_version": version})
}

func (h *Handler) DeprecateVersion(c *gin.Context) {
	name := c.Param("name")
	version := c.Param("version")

	if err := h.registry.Deprecate(c.Request.Context(), name, version); err != nil {
		log.WithError(err).Error("deprecate version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"model_name": name, "version": version, "status": "deprecated"})
}

func (h *Handler) ArchiveVersion(c *gin.Context) {
	name := c.Param("name")
	version := c.Param("version")

	if err := h.registry.Archive(c.Request.Context(), name, version); err != nil {
		log.WithError(err).Error("archive version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"model_name": name, "version": version, "status": "archived"})
}
