package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/internal/presentation/http/dto/request"
	"github.com/medilink/hms-api/internal/presentation/http/dto/response"
	"github.com/medilink/hms-api/internal/sync"
	"github.com/medilink/hms-api/internal/sync/tally"
)

// SyncHandler handles external bookkeeping sync HTTP requests
type SyncHandler struct {
	engine     *sync.Engine
	exporter   *sync.Exporter
	configRepo repository.SyncConfigRepository
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(engine *sync.Engine, exporter *sync.Exporter, configRepo repository.SyncConfigRepository) *SyncHandler {
	return &SyncHandler{
		engine:     engine,
		exporter:   exporter,
		configRepo: configRepo,
	}
}

// GetConfig handles retrieving the sync configuration
// @Summary Get sync configuration
// @Tags sync
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /sync/config [get]
func (h *SyncHandler) GetConfig(c *gin.Context) {
	cfg, err := h.configRepo.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if cfg == nil {
		response.NotFound(c, "Sync configuration not found")
		return
	}

	response.OK(c, "Sync configuration retrieved successfully", cfg)
}

// UpdateConfig handles updating the sync configuration. Changes take effect
// on the next run; a run already in flight keeps the settings it started with.
// @Summary Update sync configuration
// @Tags sync
// @Security BearerAuth
// @Param request body request.UpdateSyncConfigRequest true "Configuration data"
// @Success 200 {object} response.APIResponse
// @Router /sync/config [put]
func (h *SyncHandler) UpdateConfig(c *gin.Context) {
	var req request.UpdateSyncConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cfg, err := h.configRepo.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if cfg == nil {
		cfg = &entity.ExternalSyncConfig{}
	}

	if req.Host != nil {
		cfg.Host = *req.Host
	}
	if req.Port != nil {
		cfg.Port = *req.Port
	}
	if req.CompanyName != nil {
		cfg.CompanyName = *req.CompanyName
	}
	if req.SyncEnabled != nil {
		cfg.SyncEnabled = *req.SyncEnabled
	}
	if req.SyncFrequency != nil {
		cfg.SyncFrequency = *req.SyncFrequency
	}
	if req.UpdateExisting != nil {
		cfg.UpdateExisting = *req.UpdateExisting
	}
	if req.MappingRules != nil {
		cfg.MappingRules = *req.MappingRules
	}

	if err := h.configRepo.Save(c.Request.Context(), cfg); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sync configuration updated successfully", cfg)
}

// Trigger handles a manual sync run
// @Summary Trigger sync
// @Description Start a sync run now; rejected with 409 when one is in flight
// @Tags sync
// @Security BearerAuth
// @Param request body request.TriggerSyncRequest false "Sync direction"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /sync/runs [post]
func (h *SyncHandler) Trigger(c *gin.Context) {
	var req request.TriggerSyncRequest
	_ = c.ShouldBindJSON(&req)

	run, err := h.engine.PerformSync(c.Request.Context(), req.Direction, sync.TriggerManual)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sync completed", run)
}

// DownloadExport handles building an export document for download. Nothing is
// pushed to the external system; the document is served as an XML attachment.
// @Summary Download export document
// @Tags sync
// @Security BearerAuth
// @Param type query string false "Document kind: all, ledgers or vouchers"
// @Success 200 {string} string "XML document"
// @Router /sync/export [get]
func (h *SyncHandler) DownloadExport(c *gin.Context) {
	kind := c.DefaultQuery("type", sync.ExportAll)

	cfg, err := h.configRepo.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if cfg == nil {
		response.NotFound(c, "Sync configuration not found")
		return
	}

	env, _, err := h.exporter.BuildExport(c.Request.Context(), cfg, kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := tally.Marshal(env)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := sync.ExportFilename(kind, time.Now().UTC())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/xml", data)
}

// Runs handles listing recent sync runs
// @Summary List sync runs
// @Tags sync
// @Security BearerAuth
// @Param limit query int false "Maximum runs to return"
// @Success 200 {object} response.APIResponse
// @Router /sync/runs [get]
func (h *SyncHandler) Runs(c *gin.Context) {
	limit := 20
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		limit = n
	}

	runs, err := h.engine.ListRuns(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sync runs retrieved successfully", runs)
}

// Run handles retrieving one sync run with its per-record errors
// @Summary Get sync run
// @Tags sync
// @Security BearerAuth
// @Param id path string true "Run ID"
// @Success 200 {object} response.APIResponse
// @Router /sync/runs/{id} [get]
func (h *SyncHandler) Run(c *gin.Context) {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	run, err := h.engine.GetRun(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sync run retrieved successfully", gin.H{
		"run":    run,
		"errors": run.Errors(),
	})
}
