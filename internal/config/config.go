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
	Server  ServerConfig
	DB      DBConfig
	Auth    AuthConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Batch   BatchConfig
	Extract ExtractConfig
	Export  ExportConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxBodyMB    int64         `mapstructure:"max_body_mb"`
}

// DBConfig holds database connection settings. Driver is "postgres" or
// "sqlite3"; Path is only used by sqlite3.
type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the driver-specific connection string.
func (d *DBConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", d.Path)
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// MigrateURL returns the database URL understood by golang-migrate.
func (d *DBConfig) MigrateURL() string {
	if d.Driver == DriverSQLite {
		return "sqlite3://" + d.Path
	}
	return d.DSN()
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// AuthConfig holds API bearer-token settings. When Enabled is false the API
// is open.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
	Issuer  string `mapstructure:"issuer"`
}

// S3Config holds the export archive settings. An empty Bucket disables uploads.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Prefix        string `mapstructure:"prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
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

// BatchConfig holds settings for parsing a directory of agreements.
type BatchConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	DocTimeout  time.Duration `mapstructure:"doc_timeout"`
}

// ExtractConfig holds extraction engine settings.
type ExtractConfig struct {
	LegalForms    []string `mapstructure:"legal_forms"`
	ExcludedNames []string `mapstructure:"excluded_names"`
	PlanMode      string   `mapstructure:"plan_mode"`
	Extensions    []string `mapstructure:"extensions"`
	Markers       []string `mapstructure:"markers"`
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	// LinkRoot prefixes source IDs in workbook hyperlinks. Empty disables links.
	LinkRoot string `mapstructure:"link_root"`
}

// Load reads configuration from environment variables with the SUPPLYPLAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SUPPLYPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_body_mb", 10)

	// DB defaults
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "supplyplan")
	v.SetDefault("db.password", "supplyplan_secret")
	v.SetDefault("db.name", "supplyplan_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "supplyplan.db")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// Auth defaults
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.secret", "change-me-in-production")
	v.SetDefault("auth.issuer", "supplyplan")

	// S3 defaults
	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "exports/")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.doc_timeout", "30s")

	// Extraction defaults; empty lists fall back to the engine's built-ins
	v.SetDefault("extract.legal_forms", "")
	v.SetDefault("extract.excluded_names", "")
	v.SetDefault("extract.plan_mode", "summed")
	v.SetDefault("extract.extensions", "txt,html,htm,pdf")
	v.SetDefault("extract.markers", "")

	v.SetDefault("export.output_dir", ".")
	v.SetDefault("export.link_root", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":            "SUPPLYPLAN_SERVER_PORT",
		"server.read_timeout":    "SUPPLYPLAN_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "SUPPLYPLAN_SERVER_WRITE_TIMEOUT",
		"server.environment":     "SUPPLYPLAN_SERVER_ENVIRONMENT",
		"server.max_body_mb":     "SUPPLYPLAN_SERVER_MAX_BODY_MB",
		"db.driver":              "SUPPLYPLAN_DB_DRIVER",
		"db.host":                "SUPPLYPLAN_DB_HOST",
		"db.port":                "SUPPLYPLAN_DB_PORT",
		"db.user":                "SUPPLYPLAN_DB_USER",
		"db.password":            "SUPPLYPLAN_DB_PASSWORD",
		"db.name":                "SUPPLYPLAN_DB_NAME",
		"db.sslmode":             "SUPPLYPLAN_DB_SSLMODE",
		"db.path":                "SUPPLYPLAN_DB_PATH",
		"db.max_open":            "SUPPLYPLAN_DB_MAX_OPEN",
		"db.max_idle":            "SUPPLYPLAN_DB_MAX_IDLE",
		"auth.enabled":           "SUPPLYPLAN_AUTH_ENABLED",
		"auth.secret":            "SUPPLYPLAN_AUTH_SECRET",
		"auth.issuer":            "SUPPLYPLAN_AUTH_ISSUER",
		"s3.region":              "SUPPLYPLAN_S3_REGION",
		"s3.bucket":              "SUPPLYPLAN_S3_BUCKET",
		"s3.endpoint":            "SUPPLYPLAN_S3_ENDPOINT",
		"s3.access_key":          "SUPPLYPLAN_S3_ACCESS_KEY",
		"s3.secret_key":          "SUPPLYPLAN_S3_SECRET_KEY",
		"s3.prefix":              "SUPPLYPLAN_S3_PREFIX",
		"s3.presign_expiry":      "SUPPLYPLAN_S3_PRESIGN_EXPIRY",
		"log.level":              "SUPPLYPLAN_LOG_LEVEL",
		"log.format":             "SUPPLYPLAN_LOG_FORMAT",
		"cors.allowed_origins":   "SUPPLYPLAN_CORS_ALLOWED_ORIGINS",
		"batch.concurrency":      "SUPPLYPLAN_BATCH_CONCURRENCY",
		"batch.doc_timeout":      "SUPPLYPLAN_BATCH_DOC_TIMEOUT",
		"extract.legal_forms":    "SUPPLYPLAN_EXTRACT_LEGAL_FORMS",
		"extract.excluded_names": "SUPPLYPLAN_EXTRACT_EXCLUDED_NAMES",
		"extract.plan_mode":      "SUPPLYPLAN_EXTRACT_PLAN_MODE",
		"extract.extensions":     "SUPPLYPLAN_EXTRACT_EXTENSIONS",
		"extract.markers":        "SUPPLYPLAN_EXTRACT_MARKERS",
		"export.output_dir":      "SUPPLYPLAN_EXPORT_OUTPUT_DIR",
		"export.link_root":       "SUPPLYPLAN_EXPORT_LINK_ROOT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if SUPPLYPLAN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SUPPLYPLAN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxBodyMB:    v.GetInt64("server.max_body_mb"),
	}
	cfg.DB = DBConfig{
		Driver:   v.GetString("db.driver"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		Path:     v.GetString("db.path"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	if cfg.DB.Driver != DriverPostgres && cfg.DB.Driver != DriverSQLite {
		return nil, fmt.Errorf("config: unsupported db driver %q", cfg.DB.Driver)
	}
	cfg.Auth = AuthConfig{
		Enabled: v.GetBool("auth.enabled"),
		Secret:  v.GetString("auth.secret"),
		Issuer:  v.GetString("auth.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		Prefix:        v.GetString("s3.prefix"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins"), ","),
	}
	cfg.Batch = BatchConfig{
		Concurrency: v.GetInt("batch.concurrency"),
		DocTimeout:  v.GetDuration("batch.doc_timeout"),
	}
	if cfg.Batch.Concurrency < 1 {
		cfg.Batch.Concurrency = 1
	}
	// Legal forms and names contain commas rarely but spaces often, so
	// lists of them are separated by "|".
	cfg.Extract = ExtractConfig{
		LegalForms:    splitList(v.GetString("extract.legal_forms"), "|"),
		ExcludedNames: splitList(v.GetString("extract.excluded_names"), "|"),
		PlanMode:      v.GetString("extract.plan_mode"),
		Extensions:    splitList(v.GetString("extract.extensions"), ","),
		Markers:       splitList(v.GetString("extract.markers"), ","),
	}
	cfg.Export = ExportConfig{
		OutputDir: v.GetString("export.output_dir"),
		LinkRoot:  v.GetString("export.link_root"),
	}

	return cfg, nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, item := range strings.Split(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
