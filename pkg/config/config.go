package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API reads from the environment.
type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	JWTTTL        time.Duration
	CookieSecure  bool
	CORSOrigins   string
	Location      *time.Location
	LogLevel      string
	AdminUserName string
	AdminPassword string
}

// Load reads .env (if present) and then the process environment.
// Precedence: explicit env var > .env file > default.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := Config{
		Port:          getEnv("PORT", "3000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		JWTTTL:        time.Duration(getInt("JWT_TTL_HOURS", 24*7)) * time.Hour,
		CookieSecure:  getBool("COOKIE_SECURE", true),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:5173"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AdminUserName: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	tz := getEnv("APP_TIMEZONE", "Asia/Kolkata")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: unknown APP_TIMEZONE %q, using UTC", tz)
		loc = time.UTC
	}
	cfg.Location = loc

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "host=" + getEnv("DB_HOST", "localhost") +
			" user=" + getEnv("DB_USER", "postgres") +
			" password=" + os.Getenv("DB_PASSWORD") +
			" dbname=" + getEnv("DB_NAME", "diamond") +
			" port=" + getEnv("DB_PORT", "5432") +
			" sslmode=disable TimeZone=" + tz
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("invalid integer for %s: %s", key, v)
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid boolean for %s: %s", key, v)
		return def
	}
	return b
}
