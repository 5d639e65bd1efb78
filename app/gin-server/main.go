package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/yoostory/config"
	"github.com/yoockh/yoostory/internal/api/handlers"
	"github.com/yoockh/yoostory/internal/api/middleware"
	"github.com/yoockh/yoostory/internal/api/routes"
	"github.com/yoockh/yoostory/internal/cache"
	"github.com/yoockh/yoostory/internal/logger"
	"github.com/yoockh/yoostory/internal/providers/llm"
	mongorepo "github.com/yoockh/yoostory/internal/repositories/mongo"
	pgrepo "github.com/yoockh/yoostory/internal/repositories/postgres"
	"github.com/yoockh/yoostory/internal/services"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}

	if err := config.InitMongo(cfg.MongoURI); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(cfg.MongoDB); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")

	if err := config.InitPostgres(cfg.PostgresURI); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if cfg.AutoMigrate {
		if err := pgrepo.Migrate(config.PostgresDB); err != nil {
			log.WithError(err).Fatal("PostgreSQL migrate error")
		}
	}
	log.Info("PostgreSQL connected")

	if err := config.InitRedis(cfg.RedisAddr); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("LLM provider init error")
	}
	defer provider.Close()
	log.WithFields(logrus.Fields{"mode": cfg.LLMMode, "provider": cfg.LLMProvider}).Info("LLM provider ready")

	// repositories
	profiles := pgrepo.NewProfileRepo(config.PostgresDB)
	work := pgrepo.NewWorkExperienceRepo(config.PostgresDB)
	projects := pgrepo.NewProjectRepo(config.PostgresDB)
	convoRepo := pgrepo.NewConversationRepo(config.PostgresDB)
	sessionRepo := mongorepo.NewSessionRepo(config.MongoClient.Database(cfg.MongoDB))
	rc := cache.NewRedisCache(config.RedisClient)

	// services
	notesSvc := services.NewNotesService(profiles, work, projects, rc, rc, cfg.NotesCacheTTL, log)
	convoSvc := services.NewConversationService(convoRepo)
	mergeSvc := services.NewMergeService(profiles, work, projects, log)
	profileSvc := services.NewProfileService(profiles, notesSvc)

	var summarizer llm.Provider
	if !cfg.Mock() {
		summarizer = provider
	}
	sessionSvc := services.NewSessionService(sessionRepo, convoSvc, notesSvc, summarizer, log)
	chatSvc := services.NewChatService(sessionSvc, convoSvc, mergeSvc, notesSvc, provider, cfg.Mock(), log)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Auth: middleware.JWTConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		},
		Session:      handlers.NewSessionHandler(sessionSvc),
		Profile:      handlers.NewProfileHandler(profileSvc, notesSvc),
		Conversation: handlers.NewConversationHandler(sessionSvc, convoSvc),
		Chat:         handlers.NewChatHandler(chatSvc),
		WS:           handlers.NewWSHandler(rc, log, cfg.AllowedOrigins),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	_ = config.MongoClient.Disconnect(shutdownCtx)
	_ = config.RedisClient.Close()
}

func newProvider(ctx context.Context, cfg config.App) (llm.Provider, error) {
	if cfg.Mock() {
		return llm.NewMock(""), nil
	}
	switch cfg.LLMProvider {
	case config.ProviderOpenRouter:
		return llm.NewOpenRouter(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel), nil
	default:
		return llm.NewVertexGemini(ctx, cfg.VertexProjectID, cfg.VertexLocation, cfg.VertexModel)
	}
}
