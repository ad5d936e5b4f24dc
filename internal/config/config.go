package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// AppConfig is constructed once at process start and handed to each
// component's constructor; nothing reads the environment after Load returns.
type AppConfig struct {
	OpenWeatherAPIKey string `validate:"required"`

	// Mail relay settings. SenderPassword is an application credential, not
	// the account password.
	SenderEmail    string `validate:"required,email"`
	SenderPassword string `validate:"required"`
	ReceiverEmail  string `validate:"required,email"`
	SMTPHost       string `validate:"required"`
	SMTPPort       int    `validate:"required,min=1,max=65535"`

	// Cities to include in the daily report, in report order.
	Cities []string `validate:"required,min=1,dive,required"`

	// ScheduleAt is the local time of day ("HH:MM") the daily job fires.
	ScheduleAt string `validate:"required"`

	// FetchDelay separates consecutive city lookups.
	FetchDelay time.Duration

	HTTPTimeout time.Duration
	ReportDir   string

	// Run-history retention for the status API.
	HistoryMaxRuns int
	HistoryMaxAge  time.Duration

	Port string

	// Database connection parameters are part of the deployment contract but
	// are not used by the report flow.
	DB DBConfig
}

// DBConfig holds connection parameters for a database the reporter declares
// but never dials.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Load reads configuration from the environment with sensible defaults.
// Any missing required value fails startup rather than proceeding with a
// blank credential.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	cfg.SenderEmail = os.Getenv("SENDER_EMAIL")
	cfg.SenderPassword = os.Getenv("SENDER_APP_PASSWORD")
	cfg.ReceiverEmail = os.Getenv("RECEIVER_EMAIL")
	cfg.SMTPHost = getenvDefault("SMTP_HOST", "smtp.gmail.com")
	cfg.SMTPPort = getenvInt("SMTP_PORT", 465)

	cfg.Cities = splitList(os.Getenv("WEATHER_CITIES"))

	cfg.ScheduleAt = getenvDefault("SCHEDULE_AT", "07:00")
	if _, err := time.Parse("15:04", cfg.ScheduleAt); err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_AT %q: %w", cfg.ScheduleAt, err)
	}

	fetchDelay, err := getenvDuration("FETCH_DELAY", "2s")
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_DELAY: %w", err)
	}
	cfg.FetchDelay = fetchDelay

	httpTimeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = httpTimeout

	cfg.ReportDir = getenvDefault("REPORT_DIR", ".")

	cfg.HistoryMaxRuns = getenvInt("HISTORY_MAX_RUNS", 30)

	historyMaxAge, err := getenvDuration("HISTORY_MAX_AGE", "720h")
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_MAX_AGE: %w", err)
	}
	cfg.HistoryMaxAge = historyMaxAge

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.DB = DBConfig{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
