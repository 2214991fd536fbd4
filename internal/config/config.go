package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. An env file (first
// existing of env, .env, env.example) is loaded first; real environment
// variables win over file values.
type Config struct {
	Addr                    string
	KKHostPublic            string
	MaxUploadBytes          int64
	TempDir                 string
	Workers                 int
	MineruDefaultBaseURL    string
	MineruParsePath         string
	MineruTimeoutSeconds    int
	GotenbergTimeoutSeconds int
}

func Load() Config {
	for _, name := range []string{"env", ".env", "env.example"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
			break
		}
	}

	return Config{
		Addr:                    envOr("ADDR", ":8000"),
		KKHostPublic:            envOr("KK_HOST_PUBLIC", "localhost:8000"),
		MaxUploadBytes:          envInt64Or("MAX_UPLOAD_SIZE_BYTES", 100*1024*1024),
		TempDir:                 envOr("TEMP_DIR", "temp"),
		Workers:                 envIntOr("WORKERS", 4),
		MineruDefaultBaseURL:    envOr("MINERU_DEFAULT_BASE_URL", ""),
		MineruParsePath:         envOr("MINERU_PARSE_PATH", "/file_parse"),
		MineruTimeoutSeconds:    envIntOr("MINERU_TIMEOUT_SECONDS", 600),
		GotenbergTimeoutSeconds: envIntOr("GOTENBERG_TIMEOUT_SECONDS", 300),
	}
}

func envOr(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envInt64Or(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return i
}
