package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	LogLevel  string
	LogFormat string

	RoutingBaseURL string
	RoutingTimeout time.Duration

	AdminEmail    string
	AdminPassword string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading environment directly")
	}

	return &Config{
		DBSource:       getEnv("DB_SOURCE", "hotdrop.db"),
		Port:           getEnv("PORT", "3000"),
		JWTSecret:      getEnv("JWT_SECRET", "changeme"),
		JWTTTL:         time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		RoutingBaseURL: getEnv("ROUTING_BASE_URL", "https://router.project-osrm.org"),
		RoutingTimeout: time.Duration(getEnvInt("ROUTING_TIMEOUT_SECONDS", 5)) * time.Second,
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
