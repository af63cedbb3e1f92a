package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"voting-service/internal/api/middleware"
	"voting-service/internal/models"
	"voting-service/pkg/response"
)

// VoteCaster is the slice of the casting service the handler needs.
type VoteCaster interface {
	Cast(ctx context.Context, actor models.ActorContext, sessionID uint, req models.CastVoteRequest, clientIP string) (*models.Receipt, error)
	HasVoted(ctx context.Context, sessionID uint, voterID string) (bool, error)
}

type VoteHandler struct {
	casting VoteCaster
}

func NewVoteHandler(casting VoteCaster) *VoteHandler {
	return &VoteHandler{casting: casting}
}

func actorFrom(c *gin.Context) models.ActorContext {
	return middleware.GetActor(c)
}

// CastVote godoc
// @Summary Cast a vote
// @Description Cast a ballot in an active session and receive a one-time receipt
// @Tags votes
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body models.CastVoteRequest true "Ballot"
// @Success 201 {object} models.Receipt
// @Failure 400 {object} models.ErrorResponse "Invalid option"
// @Failure 401 {object} models.ErrorResponse "Authentication required"
// @Failure 403 {object} models.ErrorResponse "Duplicate vote or session not active"
// @Router /sessions/{id}/votes [post]
func (h *VoteHandler) CastVote(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req models.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}
	receipt, err := h.casting.Cast(c.Request.Context(), actorFrom(c), id, req, c.ClientIP())
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// HasVoted godoc
// @Summary Check whether the caller already voted
// @Tags votes
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} map[string]bool
// @Router /sessions/{id}/votes/me [get]
func (h *VoteHandler) HasVoted(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	actor := actorFrom(c)
	if !actor.IsAuthenticated() {
		response.DomainError(c, models.ErrAuthRequired)
		return
	}
	voted, err := h.casting.HasVoted(c.Request.Context(), id, actor.VoterID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_voted": voted})
}
