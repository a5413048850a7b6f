package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	AuthCookieSecure bool

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// SourceURL is the base URL of the Prometheus-compatible telemetry
	// source the poller queries.
	SourceURL    string
	PollInterval time.Duration
	FetchTimeout time.Duration

	RedisAddr string

	Email  EmailConfig
	Report ReportConfig

	AdminUsername string
	AdminPassword string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

type ReportConfig struct {
	Enabled  bool
	Interval time.Duration
	Window   time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	pollInterval := getenvDuration("POLL_INTERVAL", 5*time.Second)
	fetchTimeout := getenvDuration("FETCH_TIMEOUT", pollInterval/2)
	if fetchTimeout >= pollInterval {
		fetchTimeout = pollInterval / 2
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "pulseboard"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,

		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "pulseboard"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),

		SourceURL:    getenv("SOURCE_URL", "http://127.0.0.1:9090"),
		PollInterval: pollInterval,
		FetchTimeout: fetchTimeout,

		RedisAddr: strings.TrimSpace(getenv("REDIS_ADDR", "")),

		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "reports@pulseboard.local"),
		},
		Report: ReportConfig{
			Enabled:  getenvBool("REPORT_ENABLED", false),
			Interval: getenvDuration("REPORT_INTERVAL", 24*time.Hour),
			Window:   getenvDuration("REPORT_WINDOW", 24*time.Hour),
		},

		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: strings.TrimSpace(getenv("ADMIN_PASSWORD", "")),
	}
}

func getenv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
