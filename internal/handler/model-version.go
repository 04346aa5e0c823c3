package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-versioning-service/internal/domain"
	"model-versioning-service/internal/dto"
	"model-versioning-service/internal/usecase"
)

func (h *Handler) RegisterVersion(c *gin.Context) {
	modelName := c.Param("name")

	var req dto.RegisterVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.registry.Register(c.Request.Context(), usecase.RegisterParams{
		ModelName:               modelName,
		ModelType:               req.ModelType,
		Description:             req.Description,
		CreatedBy:               req.CreatedBy,
		Artifact:                req.Artifact,
		Metrics:                 req.Metrics,
		Bump:                    domain.Bump(req.Bump),
		Tags:                    req.Tags,
		TrainingDataHash:        req.TrainingDataHash,
		TrainingSamples:         req.TrainingSamples,
		FeatureCount:            req.FeatureCount,
		TrainingDurationSeconds: req.TrainingDurationSeconds,
	})
	if err != nil {
		log.WithError(err).Error("register version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToVersionResponse(record))
}

func (h *Handler) ListVersions(c *gin.Context) {
	filter := domain.ListFilter{
		ModelName: c.Query("model"),
		Status:    c.Query("status"),
	}

	records, err := h.registry.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list versions failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListVersionsResponse(records))
}

func (h *Handler) ListModelVersions(c *gin.Context) {
	filter := domain.ListFilter{
		ModelName: c.Param("name"),
		Status:    c.Query("status"),
	}

	records, err := h.registry.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list model versions failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListVersionsResponse(records))
}

func (h *Handler) GetVersion(c *gin.Context) {
	_, record, err := h.registry.Load(c.Request.Context(), c.Param("name"), c.Param("version"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVersionResponse(record))
}

func (h *Handler) GetArtifact(c *gin.Context) {
	data, record, err := h.registry.Load(c.Request.Context(), c.Param("name"), c.Param("version"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ArtifactResponse{
		Artifact: data,
		Version:  dto.ToVersionResponse(record),
	})
}

func (h *Handler) GetProductionArtifact(c *gin.Context) {
	data, record, err := h.registry.GetProductionArtifact(c.Request.Context(), c.Param("name"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ArtifactResponse{
		Artifact: data,
		Version:  dto.ToVersionResponse(record),
	})
}
