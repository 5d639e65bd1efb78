package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	LLMModeRemote = "remote"
	LLMModeMock   = "mock"

	ProviderVertex     = "vertex"
	ProviderOpenRouter = "openrouter"
)

// App holds the settings read from the environment at boot.
type App struct {
	Port        string
	AutoMigrate bool

	PostgresURI string
	MongoURI    string
	MongoDB     string
	RedisAddr   string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	LLMMode     string // remote|mock
	LLMProvider string // vertex|openrouter

	VertexProjectID string
	VertexLocation  string
	VertexModel     string

	OpenRouterBaseURL string
	OpenRouterAPIKey  string
	OpenRouterModel   string

	NotesCacheTTL  time.Duration
	AllowedOrigins []string
}

func (a App) Mock() bool { return a.LLMMode == LLMModeMock }

func Load() (App, error) {
	a := App{
		Port:        getenv("PORT", "8080"),
		AutoMigrate: getbool("AUTO_MIGRATE"),

		PostgresURI: os.Getenv("POSTGRES_URI"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getenv("MONGO_DB", "yoostory"),
		RedisAddr:   firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),

		JWTSecret:   os.Getenv("SUPABASE_JWT_SECRET"),
		JWTIssuer:   os.Getenv("SUPABASE_JWT_ISSUER"),
		JWTAudience: os.Getenv("SUPABASE_JWT_AUDIENCE"),

		LLMMode:     strings.ToLower(getenv("LLM_MODE", LLMModeRemote)),
		LLMProvider: strings.ToLower(getenv("LLM_PROVIDER", ProviderVertex)),

		VertexProjectID: os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation:  getenv("VERTEX_LOCATION", "us-central1"),
		VertexModel:     os.Getenv("VERTEX_MODEL"),

		OpenRouterBaseURL: os.Getenv("OPENROUTER_BASE_URL"),
		OpenRouterAPIKey:  strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		OpenRouterModel:   getenv("OPENROUTER_MODEL", "anthropic/claude-3.5-sonnet"),

		NotesCacheTTL:  5 * time.Minute,
		AllowedOrigins: splitList(os.Getenv("WS_ALLOWED_ORIGINS")),
	}

	if v := os.Getenv("NOTES_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return App{}, errors.New("NOTES_CACHE_TTL must be a duration like 5m")
		}
		a.NotesCacheTTL = d
	}

	switch a.LLMMode {
	case LLMModeRemote, LLMModeMock:
	default:
		return App{}, errors.New("LLM_MODE must be remote or mock")
	}
	switch a.LLMProvider {
	case ProviderVertex, ProviderOpenRouter:
	default:
		return App{}, errors.New("LLM_PROVIDER must be vertex or openrouter")
	}
	if !a.Mock() && a.LLMProvider == ProviderVertex && a.VertexProjectID == "" {
		return App{}, errors.New("VERTEX_PROJECT_ID environment variable is not set")
	}
	return a, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getbool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
