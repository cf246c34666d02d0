package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr   string
	Store      string // "mongo" or "memory"
	MongoURI   string
	MongoDB    string
	JWTSecret  string // empty disables auth entirely
	AdminEmail string
	AdminPass  string
	GelfAddr   string
	SeedDemo   bool
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	return &Config{
		HTTPAddr:   getEnv("FORMBOX_ADDR", ":8080"),
		Store:      getEnv("FORMBOX_STORE", "mongo"),
		MongoURI:   getEnv("FORMBOX_MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:    getEnv("FORMBOX_MONGO_DB", "formbox"),
		JWTSecret:  getEnv("FORMBOX_JWT_SECRET", ""),
		AdminEmail: getEnv("FORMBOX_ADMIN_EMAIL", "admin@formbox.local"),
		AdminPass:  getEnv("FORMBOX_ADMIN_PASS", "admin123"),
		GelfAddr:   getEnv("FORMBOX_GELF_ADDR", ""),
		SeedDemo:   getEnvBool("FORMBOX_SEED_DEMO", false),
	}
}

// AuthEnabled reports whether builder endpoints require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
