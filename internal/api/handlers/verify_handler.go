package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"voting-service/internal/models"
	"voting-service/pkg/response"
)

// VoteVerifier is the slice of the verification service the handler needs.
type VoteVerifier interface {
	Verify(ctx context.Context, receiptID, verificationCode string) (*models.VerificationResult, error)
}

type VerifyHandler struct {
	verification VoteVerifier
}

func NewVerifyHandler(verification VoteVerifier) *VerifyHandler {
	return &VerifyHandler{verification: verification}
}

// VerifyRequest is the public verify body.
type VerifyRequest struct {
	ReceiptID        string `json:"receipt_id" binding:"required"`
	VerificationCode string `json:"verification_code" binding:"required"`
}

// VerifyVote godoc
// @Summary Verify a vote by receipt and code
// @Description Public, unauthenticated, rate-limited per caller. A tampered record returns verified=false with an explicit warning, never an error.
// @Tags verify
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Receipt and verification code"
// @Success 200 {object} models.VerificationResult
// @Failure 403 {object} models.ErrorResponse "Code mismatch"
// @Failure 404 {object} models.ErrorResponse "Receipt unknown"
// @Router /voting/verify [post]
func (h *VerifyHandler) VerifyVote(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}
	result, err := h.verification.Verify(c.Request.Context(), req.ReceiptID, req.VerificationCode)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
