package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	SMTP     SMTPConfig
	Leave    LeaveConfig
	Report   ReportConfig
}

type DatabaseConfig struct {
	URL         string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// SMTPConfig holds outgoing mail configuration. An empty Host disables delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string

	// Timeout bounds one SMTP session and how long a request waits for delivery
	Timeout time.Duration
}

// LeaveConfig holds the business parameters of the leave workflow
type LeaveConfig struct {
	DefaultBalance     int
	DepartmentCapacity int
	SMSEnabled         bool

	// BalanceSyncInterval is how often missing balances are opened; 0 disables the job
	BalanceSyncInterval time.Duration
}

type ReportConfig struct {
	BasePath string
	BaseURL  string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		URL:         getEnv("DATABASE_URL", ""),
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "hris_leave"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		MaxConns:    int32(maxConns),
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "hris-leave"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	smtpTimeout, err := time.ParseDuration(getEnv("SMTP_TIMEOUT", "5s"))
	if err != nil || smtpTimeout <= 0 {
		return nil, fmt.Errorf("invalid SMTP_TIMEOUT: %q", getEnv("SMTP_TIMEOUT", "5s"))
	}

	config.SMTP = SMTPConfig{
		Timeout:  smtpTimeout,
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@hris.local"),
		FromName: getEnv("SMTP_FROM_NAME", "HR Back Office"),
	}

	// Leave workflow configuration
	defaultBalance, err := strconv.Atoi(getEnv("LEAVE_DEFAULT_BALANCE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_DEFAULT_BALANCE: %w", err)
	}
	capacity, err := strconv.Atoi(getEnv("LEAVE_DEPARTMENT_CAPACITY", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_DEPARTMENT_CAPACITY: %w", err)
	}

	syncInterval, err := time.ParseDuration(getEnv("LEAVE_BALANCE_SYNC_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_BALANCE_SYNC_INTERVAL: %w", err)
	}

	config.Leave = LeaveConfig{
		DefaultBalance:      defaultBalance,
		DepartmentCapacity:  capacity,
		SMSEnabled:          getEnvBool("NOTIFICATION_SMS_ENABLED", true),
		BalanceSyncInterval: syncInterval,
	}

	config.Report = ReportConfig{
		BasePath: getEnv("REPORT_BASE_PATH", "./storage/reports"),
		BaseURL:  getEnv("REPORT_BASE_URL", "http://localhost:8080/reports/archive"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return fmt.Errorf("DATABASE_URL or DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Leave.DefaultBalance < 0 {
		return fmt.Errorf("LEAVE_DEFAULT_BALANCE must not be negative")
	}
	if c.Leave.DepartmentCapacity < 1 {
		return fmt.Errorf("LEAVE_DEPARTMENT_CAPACITY must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
