package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Auth      AuthConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AuthConfig holds the operator account and token settings.
type AuthConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

// ReportingConfig holds scheduler and day-boundary settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig enables mirroring daily reports to a Google spreadsheet when both values are set.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// WhatsAppConfig enables daily summaries over the WhatsApp Cloud API when token,
// phone number id and recipient are set.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	ManagerID     string
}

// Enabled reports whether the spreadsheet mirror is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// Enabled reports whether WhatsApp notifications are configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.ManagerID != ""
}

// Location resolves the configured timezone.
func (c ReportingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	ttl, err := time.ParseDuration(getenvWithDefault("TOKEN_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS")),
			LogLevel:       getenvWithDefault("LOG_LEVEL", "info"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "station"),
		},
		Auth: AuthConfig{
			Username:     getenvWithDefault("ADMIN_USERNAME", "admin"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			JWTSecret:    os.Getenv("JWT_SECRET"),
			TokenTTL:     ttl,
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 22 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Africa/Conakry"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerID:     os.Getenv("WHATSAPP_MANAGER_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	switch {
	case c.Auth.Username == "":
		return errors.New("ADMIN_USERNAME must be provided")
	case c.Auth.PasswordHash == "":
		return errors.New("ADMIN_PASSWORD_HASH must be provided")
	case c.Auth.JWTSecret == "":
		return errors.New("JWT_SECRET must be provided")
	case c.Auth.TokenTTL <= 0:
		return errors.New("TOKEN_TTL must be positive")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.WhatsApp.AccessToken != "" && c.WhatsApp.PhoneNumberID == "" {
		return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided with WHATSAPP_TOKEN")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
