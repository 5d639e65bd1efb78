package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoostory/internal/api/handlers"
	"github.com/yoockh/yoostory/internal/api/middleware"
)

type Deps struct {
	Auth         middleware.JWTConfig
	Session      *handlers.SessionHandler
	Profile      *handlers.ProfileHandler
	Conversation *handlers.ConversationHandler
	Chat         *handlers.ChatHandler
	WS           *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	api := r.Group("/api")
	api.Use(middleware.JWTAuth(d.Auth))

	api.GET("/session", d.Session.Current)
	api.POST("/session", d.Session.Start)
	api.POST("/session/end", d.Session.End)
	api.POST("/session/resume", d.Session.Resume)
	api.GET("/sessions", d.Session.List)

	api.GET("/messages", d.Conversation.Messages)

	api.POST("/chat", d.Chat.Chat)
	api.GET("/chat/check", d.Chat.Check)

	api.GET("/notes", d.Profile.Notes)
	api.GET("/profile", d.Profile.Me)
	api.PUT("/profile", d.Profile.Update)

	// WebSocket
	ws := r.Group("/ws")
	ws.Use(middleware.JWTAuth(d.Auth))
	ws.GET("/notes", d.WS.NotesWS)
}
