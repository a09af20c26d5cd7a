// Package mazeapi serves the mapped maze to the visualization tools.
package mazeapi

import (
	"net/http"

	"github.com/beka-birhanu/rover-mapper/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MazeController exposes the latest mapped maze and archived runs.
type MazeController struct {
	runs    i.RunSource
	archive i.RunArchive
}

// NewMazeController initializes a MazeController. The archive may be
// nil when run persistence is disabled.
func NewMazeController(runs i.RunSource, archive i.RunArchive) (*MazeController, error) {
	return &MazeController{
		runs:    runs,
		archive: archive,
	}, nil
}

// Register registers the maze routes.
func (mc *MazeController) Register(route *gin.RouterGroup) {
	mazeRoutes := route.Group("/maze")
	{
		mazeRoutes.GET("/snapshot", mc.snapshot)
		mazeRoutes.GET("/status", mc.status)
		mazeRoutes.GET("/runs/:ID", mc.runByID)
	}
}

// snapshot returns the full export document of the latest run.
func (mc *MazeController) snapshot(ctx *gin.Context) {
	run := mc.runs.Latest()
	if run == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no completed run"})
		return
	}
	ctx.JSON(http.StatusOK, run.Document)
}

// status returns a summary of the latest run.
func (mc *MazeController) status(ctx *gin.Context) {
	run := mc.runs.Latest()
	if run == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no completed run"})
		return
	}
	ctx.JSON(http.StatusOK, newStatusResponse(run))
}

// runByID retrieves an archived run.
func (mc *MazeController) runByID(ctx *gin.Context) {
	if mc.archive == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "run archive disabled"})
		return
	}

	idString := ctx.Params.ByName("ID")
	id, err := uuid.Parse(idString)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id not found"})
		return
	}

	run, err := mc.archive.ByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, run)
}
