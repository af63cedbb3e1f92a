package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"voting-service/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withActor injects a resolved identity the way the auth middleware does.
func withActor(actor models.ActorContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("actor", actor)
		c.Next()
	}
}

func testActor() models.ActorContext {
	return models.ActorContext{OrganizationID: "org-1", VoterID: "member-1", Role: "member"}
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
