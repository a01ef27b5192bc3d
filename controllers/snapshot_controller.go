package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"agentedigitalapi/services"
	"agentedigitalapi/utils"

	"github.com/gin-gonic/gin"
)

var snapshotSrv services.SnapshotService

// SetSnapshotService injects the snapshot service.
func SetSnapshotService(s services.SnapshotService) {
	snapshotSrv = s
}

// getCurrentSnapshot returns the latest snapshot of an incident
// @Summary Current incident snapshot
// @Description Returns the latest "actual" snapshot, or builds and stores an "editando" one.
// @Tags Snapshots
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} services.Snapshot
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/incidente/clonar/{id} [get]
func getCurrentSnapshot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	snap, err := snapshotSrv.Current(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, snap)
}

// createSnapshot stores a manual snapshot
// @Summary Create snapshot
// @Tags Snapshots
// @Produce json
// @Param id path int true "Incident ID"
// @Success 201 {object} services.Snapshot
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/incidente/clonar/{id}/fotografia [post]
func createSnapshot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	snap, err := snapshotSrv.Create(c.Request.Context(), id, services.SnapshotManual)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusCreated, snap)
}

// listSnapshots lists the stored snapshots of an incident
// @Summary Snapshot history
// @Tags Snapshots
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {array} services.SnapshotFile
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /api/incidente/clonar/{id}/historial [get]
func listSnapshots(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	files, err := snapshotSrv.History(c.Request.Context(), id)
	if err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, files)
}

// exportSnapshots streams the snapshot directory as a tar.gz archive
// @Summary Export snapshots
// @Tags Snapshots
// @Produce application/gzip
// @Param id path int true "Incident ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse "Incident or snapshots not found"
// @Router /api/incidente/clonar/{id}/exportar [get]
func exportSnapshots(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := snapshotSrv.Export(c.Request.Context(), id, &buf); err != nil {
		utils.StatusErrorResponse(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"incidente_%d_fotografias.tar.gz\"", id))
	c.Data(http.StatusOK, "application/gzip", buf.Bytes())
}

// RegisterSnapshotRoutes registers the incident snapshot endpoints under /api.
func RegisterSnapshotRoutes(rg *gin.RouterGroup) {
	if snapshotSrv == nil {
		snapshotSrv = services.NewSnapshotService()
	}
	clonar := rg.Group("/incidente/clonar")
	{
		clonar.GET("/:id", getCurrentSnapshot)
		clonar.POST("/:id/fotografia", createSnapshot)
		clonar.GET("/:id/historial", listSnapshots)
		clonar.GET("/:id/exportar", exportSnapshots)
	}
}
