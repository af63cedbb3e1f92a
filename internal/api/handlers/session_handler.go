package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voting-service/internal/models"
	"voting-service/pkg/response"
)

// SessionManager is the slice of the session service the handler needs.
type SessionManager interface {
	Create(ctx context.Context, actor models.ActorContext, req models.CreateSessionRequest) (*models.VotingSession, error)
	Get(ctx context.Context, actor models.ActorContext, sessionID uint) (*models.VotingSession, error)
	List(ctx context.Context, actor models.ActorContext) ([]models.VotingSession, error)
	Update(ctx context.Context, actor models.ActorContext, sessionID uint, req models.UpdateSessionRequest) (*models.VotingSession, error)
	Delete(ctx context.Context, actor models.ActorContext, sessionID uint) error
	AddOption(ctx context.Context, actor models.ActorContext, sessionID uint, req models.AddOptionRequest) (*models.VotingOption, error)
	UpdateOption(ctx context.Context, actor models.ActorContext, sessionID, optionID uint, req models.UpdateOptionRequest) (*models.VotingOption, error)
	DeleteOption(ctx context.Context, actor models.ActorContext, sessionID, optionID uint) error
	ListOptions(ctx context.Context, sessionID uint) ([]models.VotingOption, error)
	AddEligibility(ctx context.Context, actor models.ActorContext, sessionID uint, req models.AddEligibilityRequest) (*models.VoterEligibility, error)
	Eligibility(ctx context.Context, actor models.ActorContext, sessionID uint) ([]models.VoterEligibility, error)
	Activate(ctx context.Context, actor models.ActorContext, sessionID uint, req models.ActivateSessionRequest) (*models.VotingSession, error)
	Close(ctx context.Context, actor models.ActorContext, sessionID uint) (*models.VotingSession, error)
	Void(ctx context.Context, actor models.ActorContext, sessionID uint) (*models.VotingSession, error)
}

type SessionHandler struct {
	sessions SessionManager
}

func NewSessionHandler(sessions SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func sessionID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid session id", "")
		return 0, false
	}
	return uint(id), true
}

// CreateSession godoc
// @Summary Create a voting session
// @Description Create a new voting session in draft status
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body models.CreateSessionRequest true "Session configuration"
// @Success 201 {object} models.VotingSession
// @Failure 400 {object} models.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}
	session, err := h.sessions.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession godoc
// @Summary Get a voting session
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} models.VotingSession
// @Failure 404 {object} models.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	session, err := h.sessions.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListSessions godoc
// @Summary List voting sessions for the caller's organization
// @Tags sessions
// @Produce json
// @Success 200 {array} models.VotingSession
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// UpdateSession godoc
// @Summary Update a draft session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body models.UpdateSessionRequest true "Fields to update"
// @Success 200 {object} models.VotingSession
// @Failure 403 {object} models.ErrorResponse
// @Router /sessions/{id} [put]
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req models.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}
	session, err := h.sessions.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteSession godoc
// @Summary Delete a draft session
// @Tags sessions
// @Param id path int true "Session ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.sessions.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		response.DomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddOption godoc
// @Summary Add an option to a draft session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body models.AddOptionRequest true "Option"
// @Success 201 {object} models.VotingOption
// @Failure 403 {object} models.ErrorResponse
// @Router /sessions/{id}/options [post]
func (h *SessionHandler) AddOption(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req models.AddOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}
	option, err := h.sessions.AddOption(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, option)
}

func optionID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("optionID"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid option id", "")
		return 0, false
	}
	return uint(id), true
}

// UpdateOption godoc
// @Summary Update an option on a draft session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param optionID path int true "Option ID"
// @Param request body models.UpdateOptionRequest true "Fields to update"
// @Success 200 {object} models.VotingOption
// @Failure 403 {object} models.ErrorResponse
// @Router /sessions/{id}/options/{optionID} [put]
func (h *SessionHandler) UpdateOption(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	oid, ok := optionID(c)
	if !ok {
		return
	}
	var req models.UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}
	option, err := h.sessions.UpdateOption(c.Request.Context(), actorFrom(c), id, oid, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, option)
}

// DeleteOption godoc
// @Summary Remove an option from a draft session
// @Tags sessions
// @Param id path int true "Session ID"
// @Param optionID path int true "Option ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /sessions/{id}/options/{optionID} [delete]
func (h *SessionHandler) DeleteOption(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	oid, ok := optionID(c)
	if !ok {
		return
	}
	if err := h.sessions.DeleteOption(c.Request.Context(), actorFrom(c), id, oid); err != nil {
		response.DomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListOptions godoc
// @Summary List a session's options
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {array} models.VotingOption
// @Router /sessions/{id}/options [get]
func (h *SessionHandler) ListOptions(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	options, err := h.sessions.ListOptions(c.Request.Context(), id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

// AddEligibility godoc
// @Summary Add a voter to the eligibility roster
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body models.AddEligibilityRequest true "Roster entry"
// @Success 201 {object} models.VoterEligibility
// @Failure 409 {object} models.ErrorResponse
// @Router /sessions/{id}/eligibility [post]
func (h *SessionHandler) AddEligibility(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req models.AddEligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}
	entry, err := h.sessions.AddEligibility(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListEligibility godoc
// @Summary List the eligibility roster
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {array} models.VoterEligibility
// @Router /sessions/{id}/eligibility [get]
func (h *SessionHandler) ListEligibility(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	roster, err := h.sessions.Eligibility(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

// ActivateSession godoc
// @Summary Activate a draft session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body models.ActivateSessionRequest true "Voting window"
// @Success 200 {object} models.VotingSession
// @Failure 409 {object} models.ErrorResponse
// @Router /sessions/{id}/activate [post]
func (h *SessionHandler) ActivateSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req models.ActivateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}
	session, err := h.sessions.Activate(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CloseSession godoc
// @Summary Close an active session
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} models.VotingSession
// @Failure 409 {object} models.ErrorResponse
// @Router /sessions/{id}/close [post]
func (h *SessionHandler) CloseSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	session, err := h.sessions.Close(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// VoidSession godoc
// @Summary Void a draft session
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} models.VotingSession
// @Failure 409 {object} models.ErrorResponse
// @Router /sessions/{id}/void [post]
func (h *SessionHandler) VoidSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	session, err := h.sessions.Void(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
