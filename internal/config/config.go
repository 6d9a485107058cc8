package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	JWTSecret       string
	CORSOrigins     []string
	RequirePrepared bool

	// Surface settings.
	APIURL       string
	PollInterval time.Duration
	LogLevel     string
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8081"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		RequirePrepared: getBool("REQUIRE_PREPARED_TO_COMPLETE", false),
		APIURL:          getEnv("API_URL", "http://localhost:8081"),
		PollInterval:    getDuration("POLL_INTERVAL", 3*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "normal"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
