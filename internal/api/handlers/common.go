package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoostory/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func apiError(err error) APIError {
	var ae *utils.AppError
	if errors.As(err, &ae) {
		return APIError{Code: ae.Code, Message: ae.Message}
	}
	code := utils.CodeOf(err)
	return APIError{Code: code, Message: http.StatusText(utils.HTTPStatus(err))}
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(utils.HTTPStatus(err), apiError(err))
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// sessionRequest is the body of the session end and resume calls.
type sessionRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}
