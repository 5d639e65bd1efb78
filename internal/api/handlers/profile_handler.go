package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoostory/internal/services"
	"github.com/yoockh/yoostory/internal/utils"
)

type ProfileHandler struct {
	svc   services.ProfileService
	notes services.NotesService
}

func NewProfileHandler(svc services.ProfileService, notes services.NotesService) *ProfileHandler {
	return &ProfileHandler{svc: svc, notes: notes}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.Update", "invalid request body", err))
		return
	}

	p, err := h.svc.Update(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// Notes returns the captured profile, work experience and projects plus
// the categories still missing.
func (h *ProfileHandler) Notes(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	n, err := h.notes.Notes(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, n)
}
