package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Log       LogConfig
	CORS      CORSConfig
	Numbering NumberingConfig
	S3        S3Config
	Email     EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// NumberingConfig holds document numbering settings. Prefixes default
// to FAC (invoices) and DEV (quotes); the month segment is included in
// document numbers unless disabled.
type NumberingConfig struct {
	PrefixInvoice string `mapstructure:"prefix_invoice"`
	PrefixQuote   string `mapstructure:"prefix_quote"`
	IncludeMonth  bool   `mapstructure:"include_month"`
}

// S3Config holds object storage settings for the company logo.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// Load reads configuration from environment variables with the
// FACTURIO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FACTURIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "facturio")
	v.SetDefault("db.password", "facturio_secret")
	v.SetDefault("db.name", "facturio_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Numbering defaults
	v.SetDefault("numbering.prefix_invoice", "FAC")
	v.SetDefault("numbering.prefix_quote", "DEV")
	v.SetDefault("numbering.include_month", true)

	// S3 defaults
	v.SetDefault("s3.region", "eu-west-3")
	v.SetDefault("s3.bucket", "facturio-assets")
	v.SetDefault("s3.endpoint", "")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-west-3")
	v.SetDefault("email.from_address", "noreply@facturio.local")
	v.SetDefault("email.from_name", "Facturio")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "FACTURIO_SERVER_PORT",
		"server.read_timeout":      "FACTURIO_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "FACTURIO_SERVER_WRITE_TIMEOUT",
		"server.environment":       "FACTURIO_SERVER_ENVIRONMENT",
		"db.host":                  "FACTURIO_DB_HOST",
		"db.port":                  "FACTURIO_DB_PORT",
		"db.user":                  "FACTURIO_DB_USER",
		"db.password":              "FACTURIO_DB_PASSWORD",
		"db.name":                  "FACTURIO_DB_NAME",
		"db.sslmode":               "FACTURIO_DB_SSLMODE",
		"db.max_open":              "FACTURIO_DB_MAX_OPEN",
		"db.max_idle":              "FACTURIO_DB_MAX_IDLE",
		"log.level":                "FACTURIO_LOG_LEVEL",
		"log.format":               "FACTURIO_LOG_FORMAT",
		"cors.allowed_origins":     "FACTURIO_CORS_ALLOWED_ORIGINS",
		"numbering.prefix_invoice": "FACTURIO_NUMBERING_PREFIX_INVOICE",
		"numbering.prefix_quote":   "FACTURIO_NUMBERING_PREFIX_QUOTE",
		"numbering.include_month":  "FACTURIO_NUMBERING_INCLUDE_MONTH",
		"s3.region":                "FACTURIO_S3_REGION",
		"s3.bucket":                "FACTURIO_S3_BUCKET",
		"s3.endpoint":              "FACTURIO_S3_ENDPOINT",
		"s3.access_key":            "FACTURIO_S3_ACCESS_KEY",
		"s3.secret_key":            "FACTURIO_S3_SECRET_KEY",
		"email.provider":           "FACTURIO_EMAIL_PROVIDER",
		"email.region":             "FACTURIO_EMAIL_REGION",
		"email.from_address":       "FACTURIO_EMAIL_FROM_ADDRESS",
		"email.from_name":          "FACTURIO_EMAIL_FROM_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if
	// FACTURIO_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FACTURIO_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Numbering = NumberingConfig{
		PrefixInvoice: v.GetString("numbering.prefix_invoice"),
		PrefixQuote:   v.GetString("numbering.prefix_quote"),
		IncludeMonth:  v.GetBool("numbering.include_month"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	return cfg, nil
}
