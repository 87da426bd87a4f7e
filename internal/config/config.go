package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	// Persistence. DBDriver picks the paper store: "mongo" for the document
	// store, "sqlite"/"postgres" for the SQL fallback.
	DBDriver string
	DBDSN    string
	MongoURI string
	MongoDB  string

	// Uploaded source documents.
	BlobBasePath string

	// Optional extracted-text cache. Empty disables caching.
	CacheURL string

	// Generative suggestion endpoint (OpenAI-compatible).
	GenAIBaseURL string
	GenAIAPIKey  string
	GenAIModel   string

	// Exam blueprints seeding new papers.
	BlueprintDir string

	AuthSecret    string
	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:     mode,
		HTTPAddr: addr,

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),
		MongoURI: envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  envOr("MONGO_DB", "paperforge"),

		BlobBasePath: envOr("BLOB_BASE_PATH", "./data/sources"),
		CacheURL:     os.Getenv("CACHE_URL"),

		GenAIBaseURL: envOr("GENAI_BASE_URL", ""),
		GenAIAPIKey:  os.Getenv("GENAI_API_KEY"),
		GenAIModel:   envOr("GENAI_MODEL", "gpt-4o-mini"),

		BlueprintDir: envOr("BLUEPRINT_DIR", "./blueprints"),

		AuthSecret:    envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://papers.example.com"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
