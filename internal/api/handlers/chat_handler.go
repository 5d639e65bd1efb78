package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoostory/internal/services"
	"github.com/yoockh/yoostory/internal/utils"
)

type ChatHandler struct {
	svc services.ChatService
}

func NewChatHandler(svc services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type deltaEvent struct {
	Text string `json:"text"`
}

// Chat streams one exchange as server-sent events: "delta" per chunk,
// then "done", or "error" if the stream fails part way.
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ChatHandler.Chat", "invalid request body", err))
		return
	}
	c.Set("session_id", req.SessionID)

	chunks, errs, err := h.svc.Stream(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.Stream(func(w io.Writer) bool {
		chunk, ok := <-chunks
		if ok {
			c.SSEvent("delta", deltaEvent{Text: chunk})
			return true
		}
		if err := <-errs; err != nil {
			_ = c.Error(err)
			c.SSEvent("error", apiError(err))
			return false
		}
		if c.Request.Context().Err() == nil {
			c.SSEvent("done", gin.H{"ok": true})
		}
		return false
	})
}

// Check reports whether the model credentials work. It always answers 200.
func (h *ChatHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Check(c.Request.Context()))
}
