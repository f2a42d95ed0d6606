package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MicroFocus/ppm-smartsheet-connector/internal/service"
)

// SheetHandler serves sheet and container listings used to pick a sheet and
// configure its field mapping.
type SheetHandler struct {
	Sync *service.SyncService
}

func NewSheetHandler(sync *service.SyncService) *SheetHandler {
	return &SheetHandler{Sync: sync}
}

// ListSheets returns all reachable sheets with their qualified paths. The
// optional "container" query restricts the listing to one workspace ("W" +
// id) or folder ("F" + id) subtree.
func (h *SheetHandler) ListSheets(c *gin.Context) {
	refs, err := h.Sync.ListSheets(c.Request.Context(), c.Query("container"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sheets": refs})
}

// ListContainers returns every workspace and folder for the restriction
// selector.
func (h *SheetHandler) ListContainers(c *gin.Context) {
	opts, err := h.Sync.ListContainers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"containers": opts})
}

// GetSheetColumns returns column-only metadata for the mapping screen.
func (h *SheetHandler) GetSheetColumns(c *gin.Context) {
	sheet, err := h.Sync.SheetColumns(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": sheet.Columns})
}
