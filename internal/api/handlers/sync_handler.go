package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MicroFocus/ppm-smartsheet-connector/internal/model"
	"github.com/MicroFocus/ppm-smartsheet-connector/internal/service"
)

// SyncHandler triggers user and work-plan syncs and serves synced tasks.
type SyncHandler struct {
	Sync *service.SyncService
}

func NewSyncHandler(sync *service.SyncService) *SyncHandler {
	return &SyncHandler{Sync: sync}
}

type syncSheetRequest struct {
	SheetID string             `json:"sheet_id" binding:"required"`
	Mapping model.FieldMapping `json:"mapping"`
}

// SyncSheet runs a full work-plan sync of one sheet with the given field
// mapping and returns the assembled task forest.
func (h *SyncHandler) SyncSheet(c *gin.Context) {
	var req syncSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	result, err := h.Sync.SyncSheet(c.Request.Context(), req.SheetID, req.Mapping)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// SyncUsers mirrors the Smartsheet user list for resource resolution.
func (h *SyncHandler) SyncUsers(c *gin.Context) {
	n, err := h.Sync.SyncUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "users synced", "count": n})
}

// GetTasks returns the persisted flat task list from the last sync of a
// sheet.
func (h *SyncHandler) GetTasks(c *gin.Context) {
	sheetID := c.Query("sheet_id")
	if sheetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sheet_id is required"})
		return
	}
	tasks, err := h.Sync.GetSheetTasks(c.Request.Context(), sheetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
