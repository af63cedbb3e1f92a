package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-service/internal/models"
)

type fakeVerifier struct {
	result *models.VerificationResult
	err    error

	receiptID string
	code      string
}

func (f *fakeVerifier) Verify(ctx context.Context, receiptID, code string) (*models.VerificationResult, error) {
	f.receiptID = receiptID
	f.code = code
	return f.result, f.err
}

func verifyEngine(v *fakeVerifier) *gin.Engine {
	engine := gin.New()
	engine.POST("/voting/verify", NewVerifyHandler(v).VerifyVote)
	return engine
}

func TestVerifyVoteOK(t *testing.T) {
	v := &fakeVerifier{result: &models.VerificationResult{
		Verified:    true,
		ChainIntact: true,
		Vote:        &models.VerifiedVote{OptionText: "Yes", CastAt: time.Now(), SessionTitle: "Dues"},
	}}
	engine := verifyEngine(v)

	w := doJSON(t, engine, http.MethodPost, "/voting/verify", VerifyRequest{
		ReceiptID:        "r-1",
		VerificationCode: "ABCD2345",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r-1", v.receiptID)
	assert.Equal(t, "ABCD2345", v.code)
	result := decodeBody[models.VerificationResult](t, w)
	assert.True(t, result.Verified)
	assert.Equal(t, "Yes", result.Vote.OptionText)
}

func TestVerifyVoteTamperedIsStillOK(t *testing.T) {
	// tamper detection is a 200 with verified=false, not an error status
	v := &fakeVerifier{result: &models.VerificationResult{
		Verified: false,
		Warning:  "vote record failed verification",
	}}
	engine := verifyEngine(v)

	w := doJSON(t, engine, http.MethodPost, "/voting/verify", VerifyRequest{
		ReceiptID:        "r-1",
		VerificationCode: "ABCD2345",
	})

	require.Equal(t, http.StatusOK, w.Code)
	result := decodeBody[models.VerificationResult](t, w)
	assert.False(t, result.Verified)
	assert.NotEmpty(t, result.Warning)
}

func TestVerifyVoteUnknownReceipt(t *testing.T) {
	engine := verifyEngine(&fakeVerifier{err: models.ErrReceiptNotFound})

	w := doJSON(t, engine, http.MethodPost, "/voting/verify", VerifyRequest{
		ReceiptID:        "r-404",
		VerificationCode: "ABCD2345",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyVoteCodeMismatch(t *testing.T) {
	engine := verifyEngine(&fakeVerifier{err: models.ErrCodeMismatch})

	w := doJSON(t, engine, http.MethodPost, "/voting/verify", VerifyRequest{
		ReceiptID:        "r-1",
		VerificationCode: "WRONGCOD",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVerifyVoteRejectsMissingFields(t *testing.T) {
	engine := verifyEngine(&fakeVerifier{})

	w := doJSON(t, engine, http.MethodPost, "/voting/verify", map[string]string{"receipt_id": "r-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
