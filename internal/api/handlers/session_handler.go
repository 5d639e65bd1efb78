package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoostory/internal/services"
	"github.com/yoockh/yoostory/internal/utils"
)

type SessionHandler struct {
	svc services.SessionService
}

func NewSessionHandler(svc services.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

type SessionResponse struct {
	SessionID     string `json:"sessionId"`
	LifeStoryMode bool   `json:"lifeStoryMode"`
}

type StartSessionRequest struct {
	LifeStoryMode bool `json:"lifeStoryMode"`
}

// Current returns the active session, creating one if needed.
func (h *SessionHandler) Current(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sess, err := h.svc.GetOrCreateActive(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{SessionID: sess.SessionID, LifeStoryMode: sess.LifeStoryMode})
}

func (h *SessionHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	// empty body is allowed
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Start", "invalid request body", err))
		return
	}

	sess, err := h.svc.Start(c.Request.Context(), userID, req.LifeStoryMode)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{SessionID: sess.SessionID, LifeStoryMode: sess.LifeStoryMode})
}

func (h *SessionHandler) End(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.End", "sessionId required", err))
		return
	}
	c.Set("session_id", req.SessionID)

	res, err := h.svc.End(c.Request.Context(), userID, req.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *SessionHandler) Resume(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Resume", "sessionId required", err))
		return
	}
	c.Set("session_id", req.SessionID)

	sess, err := h.svc.Resume(c.Request.Context(), userID, req.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "sessionId": sess.SessionID})
}

func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": list})
}
