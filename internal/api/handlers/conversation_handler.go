package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoostory/internal/models"
	"github.com/yoockh/yoostory/internal/services"
	"github.com/yoockh/yoostory/internal/utils"
)

type ConversationHandler struct {
	sessions services.SessionService
	svc      services.ConversationService
}

func NewConversationHandler(sessions services.SessionService, svc services.ConversationService) *ConversationHandler {
	return &ConversationHandler{sessions: sessions, svc: svc}
}

// Messages returns the stored transcript in the chat client's message
// shape so a session can be resumed.
func (h *ConversationHandler) Messages(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ConversationHandler.Messages", "sessionId required", nil))
		return
	}
	c.Set("session_id", sessionID)

	if _, err := h.sessions.GetOwned(c.Request.Context(), userID, sessionID); err != nil {
		writeError(c, err)
		return
	}

	rows, err := h.svc.ListBySession(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]models.ChatMessage, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.TextMessage(r.ID, r.Role, r.Content))
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}
