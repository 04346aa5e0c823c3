package handler

import (
	"github.com/gin-gonic/gin"

	"model-versioning-service/internal/usecase"
)

type Handler struct {
	registry *usecase.RegistryUseCase
}

func New(registry *usecase.RegistryUseCase) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Version lifecycle
	r.POST("/models/:name/versions", h.RegisterVersion)
	r.GET("/models", h.ListVersions)
	r.GET("/models/:name/versions", h.ListModelVersions)
	r.GET("/models/:name/versions/:version", h.GetVersion)
	r.GET("/models/:name/versions/:version/artifact", h.GetArtifact)

	// Promotion state machine
	r.POST("/models/:name/versions/:version/promote", h.PromoteVersion)
	r.POST("/models/:name/versions/:version/deprecate", h.DeprecateVersion)
	r.POST("/models/:name/versions/:version/archive", h.ArchiveVersion)
	r.GET("/models/:name/production", h.GetProductionArtifact)

	// Audit and maintenance
	r.GET("/models/:name/lineage", h.ExportLineage)
	r.GET("/models/:name/compare", h.CompareVersions)
	r.POST("/models/:name/cleanup", h.Cleanup)
	r.GET("/summary", h.Summary)
}
