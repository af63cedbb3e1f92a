package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"voting-service/internal/models"
	"voting-service/pkg/response"
)

// ChainVerifier is the slice of the audit service the handler needs.
type ChainVerifier interface {
	VerifyChainForOrganizer(ctx context.Context, actor models.ActorContext, sessionID uint) (models.ChainReport, error)
}

type AuditHandler struct {
	audit ChainVerifier
}

func NewAuditHandler(audit ChainVerifier) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// VerifyChain godoc
// @Summary Replay and verify a session's audit chain
// @Tags audit
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} models.ChainReport
// @Failure 404 {object} models.ErrorResponse
// @Router /sessions/{id}/audit [get]
func (h *AuditHandler) VerifyChain(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	report, err := h.audit.VerifyChainForOrganizer(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(200, report)
}
