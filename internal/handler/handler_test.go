package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-versioning-service/internal/dto"
	"model-versioning-service/internal/repository"
	"model-versioning-service/internal/usecase"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := repository.NewFileRegistryStore(dir, repository.DefaultLockTimeout)
	require.NoError(t, err)
	artifacts, err := repository.NewFileArtifactStore(filepath.Join(dir, "artifacts"))
	require.NoError(t, err)

	h := New(usecase.NewRegistryUseCase(store, artifacts))

	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1/registry"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerVersion(t *testing.T, router *gin.Engine, model string, artifact []byte, metrics map[string]float64) dto.VersionResponse {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/registry/models/"+model+"/versions", dto.RegisterVersionRequest{
		ModelType: "classification",
		Artifact:  artifact,
		Metrics:   metrics,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.VersionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegisterVersion(t *testing.T) {
	router := setupRouter(t)

	resp := registerVersion(t, router, "risk_scorer", []byte("model bytes"), map[string]float64{"accuracy": 0.9})

	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "risk_scorer", resp.ModelName)
	assert.Equal(t, "active", resp.Status)
	assert.False(t, resp.IsProduction)
	assert.Equal(t, "system", resp.CreatedBy)

	resp = registerVersion(t, router, "risk_scorer", []byte("more bytes"), nil)
	assert.Equal(t, "1.0.1", resp.Version)
}

func TestRegisterVersion_BadBody(t *testing.T) {
	router := setupRouter(t)

	// missing required artifact
	w := doJSON(t, router, http.MethodPost, "/api/v1/registry/models/m/versions", gin.H{
		"model_type": "classification",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// not JSON at all
	req := httptest.NewRequest(http.MethodPost, "/api/v1/registry/models/m/versions", bytes.NewReader([]byte("not json")))
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusBadRequest, w2.Code)
}

func TestGetVersion_NotFound(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/registry/models/ghost/versions/1.0.0", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	registerVersion(t, router, "m", []byte("b"), nil)
	w = doJSON(t, router, http.MethodGet, "/api/v1/registry/models/m/versions/9.9.9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPromoteFlow(t *testing.T) {
	router := setupRouter(t)
	registerVersion(t, router, "m", []byte("v0"), nil)
	registerVersion(t, router, "m", []byte("v1"), nil)

	// no production yet
	w := doJSON(t, router, http.MethodGet, "/api/v1/registry/models/m/production", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/registry/models/m/versions/1.0.1/promote", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/v1/registry/models/m/production", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var artifact dto.ArtifactResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &artifact))
	assert.Equal(t, []byte("v1"), artifact.Artifact)
	assert.Equal(t, "1.0.1", artifact.Version.Version)
	assert.True(t, artifact.Version.IsProduction)

	// promoting a missing version is a 404 and leaves the pointer alone
	w = doJSON(t, router, http.MethodPost, "/api/v1/registry/models/m/versions/4.0.0/promote", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/registry/models/m/production", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &artifact))
	assert.Equal(t, "1.0.1", artifact.Version.Version)
}

func TestArchiveProductionConflict(t *testing.T) {
	router := setupRouter(t)
	registerVersion(t, router, "m", []byte("b"), nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/registry/models/m/versions/1.0.0/promote", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/registry/models/m/versions/1.0.0/archive", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPromoteArchivedConflict(t *testing.T) {
	router := setupRouter(t)
	registerVersion(t, router, "m", []byte("b"), nil)
	registerVersion(t, router, "m", []byte("b"), nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/registry/models/m/versions/1.0.0/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/registry/models/m/versions/1.0.0/promote", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListModelVersions_StatusFilter(t *testing.T) {
	router := setupRouter(t)
	registerVersion(t, router, "m", []byte("b"), nil)
	registerVersion(t, router, "m", []byte("b"), nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/registry/models/m/versions/1.0.0/deprecate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/registry/models/m/versions?status=deprecated", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.ListVersionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "1.0.0", list.Items[0].Version)

	// a filter that matches nothing is still a 200 with an empty list
	w = doJSON(t, router, http.MethodGet, "/api/v1/registry/models/m/versions?status=archived", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Total)
}

func TestCompareVersions(t *testing.T) {
	router := setupRouter(t)
	registerVersion(t, router, "m", []byte("b"), map[string]float64{"accuracy": 0.85})
	registerVersion(t, router, "m", []byte("b"), map[string]float64{"accuracy": 0.91})

	w := doJSON(t, router, http.MethodGet, "/api/v1/registry/models/m/compare?v1=1.0.0&v2=1.0.1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cmp dto.ComparisonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
	assert.Equal(t, "1.0.0", cmp.Version1)
	assert.Equal(t, "1.0.1", cmp.Version2)
	delta := cmp.Metrics["accuracy"]
	assert.InDelta(t, 0.06, delta.Diff, 1e-9)
	assert.True(t, delta.Improved)

	// missing query parameters
	w = doJSON(t, router, http.MethodGet, "/api/v1/registry/models/m/compare?v1=1.0.0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Full lifecycle over HTTP: register three versions, promote the middle
// one, clean up keeping one plus production, then audit the survivors.
func TestRegistryLifecycle(t *testing.T) {
	router := setupRouter(t)

	for i := 0; i < 3; i++ {
		resp := registerVersion(t, router, "risk_scorer", []byte(fmt.Sprintf("weights-%d", i)), map[string]float64{
			"accuracy": 0.8 + float64(i)/100,
		})
		assert.Equal(t, fmt.Sprintf("1.0.%d", i), resp.Version)
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/registry/models/risk_scorer/versions/1.0.1/promote", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/registry/models/risk_scorer/cleanup", dto.CleanupRequest{
		KeepLastN: 1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cleanup dto.CleanupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cleanup))
	assert.Equal(t, 1, cleanup.Removed)
	assert.Empty(t, cleanup.Failed)

	w = doJSON(t, router, http.MethodGet, "/api/v1/registry/models/risk_scorer/lineage", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var lineage dto.LineageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lineage))
	assert.Equal(t, 2, lineage.TotalVersions)
	assert.Equal(t, "1.0.1", lineage.CurrentProduction)
	require.Len(t, lineage.VersionHistory, 2)
	assert.Equal(t, "1.0.1", lineage.VersionHistory[0].Version)
	assert.Equal(t, "1.0.2", lineage.VersionHistory[1].Version)

	// production artifact still loads after cleanup
	w = doJSON(t, router, http.MethodGet, "/api/v1/registry/models/risk_scorer/production", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var artifact dto.ArtifactResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &artifact))
	assert.Equal(t, []byte("weights-1"), artifact.Artifact)

	w = doJSON(t, router, http.MethodGet, "/api/v1/registry/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary dto.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalModels)
	assert.Equal(t, 2, summary.TotalVersions)
}
