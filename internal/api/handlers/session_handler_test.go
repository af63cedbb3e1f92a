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

// fakeSessionManager returns canned values; per-method errors let each test
// drive one failure path.
type fakeSessionManager struct {
	session *models.VotingSession
	option  *models.VotingOption
	entry   *models.VoterEligibility
	err     error

	gotActor models.ActorContext
}

func (f *fakeSessionManager) Create(ctx context.Context, actor models.ActorContext, req models.CreateSessionRequest) (*models.VotingSession, error) {
	f.gotActor = actor
	return f.session, f.err
}

func (f *fakeSessionManager) Get(ctx context.Context, actor models.ActorContext, sessionID uint) (*models.VotingSession, error) {
	f.gotActor = actor
	return f.session, f.err
}

func (f *fakeSessionManager) List(ctx context.Context, actor models.ActorContext) ([]models.VotingSession, error) {
	if f.session == nil {
		return nil, f.err
	}
	return []models.VotingSession{*f.session}, f.err
}

func (f *fakeSessionManager) Update(ctx context.Context, actor models.ActorContext, sessionID uint, req models.UpdateSessionRequest) (*models.VotingSession, error) {
	return f.session, f.err
}

func (f *fakeSessionManager) Delete(ctx context.Context, actor models.ActorContext, sessionID uint) error {
	return f.err
}

func (f *fakeSessionManager) AddOption(ctx context.Context, actor models.ActorContext, sessionID uint, req models.AddOptionRequest) (*models.VotingOption, error) {
	return f.option, f.err
}

func (f *fakeSessionManager) UpdateOption(ctx context.Context, actor models.ActorContext, sessionID, optionID uint, req models.UpdateOptionRequest) (*models.VotingOption, error) {
	return f.option, f.err
}

func (f *fakeSessionManager) DeleteOption(ctx context.Context, actor models.ActorContext, sessionID, optionID uint) error {
	return f.err
}

func (f *fakeSessionManager) ListOptions(ctx context.Context, sessionID uint) ([]models.VotingOption, error) {
	if f.option == nil {
		return nil, f.err
	}
	return []models.VotingOption{*f.option}, f.err
}

func (f *fakeSessionManager) AddEligibility(ctx context.Context, actor models.ActorContext, sessionID uint, req models.AddEligibilityRequest) (*models.VoterEligibility, error) {
	return f.entry, f.err
}

func (f *fakeSessionManager) Eligibility(ctx context.Context, actor models.ActorContext, sessionID uint) ([]models.VoterEligibility, error) {
	if f.entry == nil {
		return nil, f.err
	}
	return []models.VoterEligibility{*f.entry}, f.err
}

func (f *fakeSessionManager) Activate(ctx context.Context, actor models.ActorContext, sessionID uint, req models.ActivateSessionRequest) (*models.VotingSession, error) {
	return f.session, f.err
}

func (f *fakeSessionManager) Close(ctx context.Context, actor models.ActorContext, sessionID uint) (*models.VotingSession, error) {
	return f.session, f.err
}

func (f *fakeSessionManager) Void(ctx context.Context, actor models.ActorContext, sessionID uint) (*models.VotingSession, error) {
	return f.session, f.err
}

func sessionEngine(m *fakeSessionManager) *gin.Engine {
	engine := gin.New()
	h := NewSessionHandler(m)
	auth := engine.Group("/", withActor(testActor()))
	auth.POST("/sessions", h.CreateSession)
	auth.GET("/sessions/:id", h.GetSession)
	auth.GET("/sessions", h.ListSessions)
	auth.PUT("/sessions/:id", h.UpdateSession)
	auth.DELETE("/sessions/:id", h.DeleteSession)
	auth.POST("/sessions/:id/options", h.AddOption)
	auth.PUT("/sessions/:id/options/:optionID", h.UpdateOption)
	auth.DELETE("/sessions/:id/options/:optionID", h.DeleteOption)
	auth.GET("/sessions/:id/options", h.ListOptions)
	auth.POST("/sessions/:id/eligibility", h.AddEligibility)
	auth.GET("/sessions/:id/eligibility", h.ListEligibility)
	auth.POST("/sessions/:id/activate", h.ActivateSession)
	auth.POST("/sessions/:id/close", h.CloseSession)
	auth.POST("/sessions/:id/void", h.VoidSession)
	return engine
}

func draftSession() *models.VotingSession {
	return &models.VotingSession{
		OrganizationID: "org-1",
		Title:          "Dues adjustment",
		Type:           models.TypeSpecialVote,
		Status:         models.StatusDraft,
	}
}

func TestCreateSessionCreated(t *testing.T) {
	m := &fakeSessionManager{session: draftSession()}
	engine := sessionEngine(m)

	w := doJSON(t, engine, http.MethodPost, "/sessions", models.CreateSessionRequest{
		Title: "Dues adjustment",
		Type:  "special_vote",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "org-1", m.gotActor.OrganizationID)
	session := decodeBody[models.VotingSession](t, w)
	assert.Equal(t, models.StatusDraft, session.Status)
}

func TestCreateSessionRejectsMissingTitle(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{})

	w := doJSON(t, engine, http.MethodPost, "/sessions", map[string]string{"type": "special_vote"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSessionNotFound(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{err: models.ErrSessionNotFound})

	w := doJSON(t, engine, http.MethodGet, "/sessions/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSessionNotDraft(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{err: models.ErrSessionNotDraft})

	title := "New"
	w := doJSON(t, engine, http.MethodPut, "/sessions/1", models.UpdateSessionRequest{Title: &title})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteSessionNoContent(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{})

	w := doJSON(t, engine, http.MethodDelete, "/sessions/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestAddOptionCreated(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{option: &models.VotingOption{SessionID: 1, Text: "Yes"}})

	w := doJSON(t, engine, http.MethodPost, "/sessions/1/options", models.AddOptionRequest{Text: "Yes"})
	require.Equal(t, http.StatusCreated, w.Code)
	option := decodeBody[models.VotingOption](t, w)
	assert.Equal(t, "Yes", option.Text)
}

func TestUpdateOptionOK(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{option: &models.VotingOption{SessionID: 1, Text: "Yes, as amended"}})

	text := "Yes, as amended"
	w := doJSON(t, engine, http.MethodPut, "/sessions/1/options/2", models.UpdateOptionRequest{Text: &text})
	require.Equal(t, http.StatusOK, w.Code)
	option := decodeBody[models.VotingOption](t, w)
	assert.Equal(t, "Yes, as amended", option.Text)
}

func TestUpdateOptionBadOptionID(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{})

	w := doJSON(t, engine, http.MethodPut, "/sessions/1/options/abc", models.UpdateOptionRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOptionNotDraft(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{err: models.ErrSessionNotDraft})

	text := "New"
	w := doJSON(t, engine, http.MethodPut, "/sessions/1/options/2", models.UpdateOptionRequest{Text: &text})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteOptionNoContent(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{})

	w := doJSON(t, engine, http.MethodDelete, "/sessions/1/options/2", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestDeleteOptionUnknown(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{err: models.ErrOptionNotFound})

	w := doJSON(t, engine, http.MethodDelete, "/sessions/1/options/99", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddEligibilityCreated(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{entry: &models.VoterEligibility{SessionID: 1, VoterID: "member-9"}})

	w := doJSON(t, engine, http.MethodPost, "/sessions/1/eligibility", models.AddEligibilityRequest{VoterID: "member-9"})
	require.Equal(t, http.StatusCreated, w.Code)
	entry := decodeBody[models.VoterEligibility](t, w)
	assert.Equal(t, "member-9", entry.VoterID)
}

func TestActivateSessionConflict(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{err: models.ErrInvalidTransition})

	w := doJSON(t, engine, http.MethodPost, "/sessions/1/activate", models.ActivateSessionRequest{
		StartTime:        time.Now(),
		ScheduledEndTime: time.Now().Add(time.Hour),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCloseSessionOK(t *testing.T) {
	closed := draftSession()
	closed.Status = models.StatusClosed
	engine := sessionEngine(&fakeSessionManager{session: closed})

	w := doJSON(t, engine, http.MethodPost, "/sessions/1/close", nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := decodeBody[models.VotingSession](t, w)
	assert.Equal(t, models.StatusClosed, session.Status)
}

func TestVoidSessionConflictWhenActive(t *testing.T) {
	engine := sessionEngine(&fakeSessionManager{err: models.ErrInvalidTransition})

	w := doJSON(t, engine, http.MethodPost, "/sessions/1/void", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
