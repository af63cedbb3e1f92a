package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voting-service/internal/models"
	"voting-service/pkg/response"
)

// ResultsComputer is the slice of the tabulation service the handler needs.
type ResultsComputer interface {
	ComputeResults(ctx context.Context, sessionID uint) (*models.Results, *models.ResultsPending, error)
}

type ResultsHandler struct {
	tabulation ResultsComputer
}

func NewResultsHandler(tabulation ResultsComputer) *ResultsHandler {
	return &ResultsHandler{tabulation: tabulation}
}

// GetResults godoc
// @Summary Get tabulated results for a closed session
// @Description Returns per-option counts, turnout, quorum status and winner. 403 with the scheduled availability time while the session is still open.
// @Tags results
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} models.Results
// @Failure 403 {object} models.ResultsPending "Results not yet available"
// @Failure 404 {object} models.ErrorResponse
// @Router /sessions/{id}/results [get]
func (h *ResultsHandler) GetResults(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	results, pending, err := h.tabulation.ComputeResults(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrResultsNotReady) && pending != nil {
			c.JSON(http.StatusForbidden, pending)
			return
		}
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
