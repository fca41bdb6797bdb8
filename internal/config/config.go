package config

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// When URL is set it takes precedence over the individual components.
type DatabaseConfig struct {
	URL                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds settings for the S3-compatible bucket used when the
// cloud storage provider is active (Supabase Storage exposes such an endpoint).
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PublicBaseURL is the project URL public object links are built from:
	// <PublicBaseURL>/storage/v1/object/public/<bucket>/<key>
	PublicBaseURL string
}

// Enabled reports whether enough settings are present to build a client.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}

// StorageConfig selects the active file storage provider and upload limits.
type StorageConfig struct {
	Provider       string // "local" or "supabase"
	UploadsDir     string
	TempDir        string
	MaxUploadBytes int64
	PurgeOnDelete  bool
	// SignedURLTTLSec > 0 hands out presigned bucket URLs valid for that many
	// seconds instead of public ones. Needed when the bucket is private.
	SignedURLTTLSec int
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	Secret            string
	Issuer            string
	ExpirationMinutes int
	Required          bool
}

// HTTPConfig holds settings applied by the HTTP middleware chain.
type HTTPConfig struct {
	AllowedOrigins []string
	Maintenance    bool
}

// LogConfig selects log format and level.
type LogConfig struct {
	Env   string
	Level string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Storage  StorageConfig
	Auth     AuthConfig
	HTTP     HTTPConfig
	Log      LogConfig
}

const (
	ProviderLocal    = "local"
	ProviderSupabase = "supabase"

	defaultMaxUploadBytes = 5 * 1024 * 1024
)

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	v := viper.New()
	v.AutomaticEnv()

	return &AppConfig{
		AppHost: getEnv(v, "APP_HOST", "localhost:4000"),
		Port:    getEnv(v, "PORT", "4000"),
		Database: DatabaseConfig{
			URL:                getEnv(v, "DATABASE_URL", ""),
			Host:               getEnv(v, "DB_HOST", ""),
			Port:               getEnv(v, "DB_PORT", "5432"),
			User:               getEnv(v, "DB_USER", ""),
			Password:           getEnv(v, "DB_PASSWORD", ""),
			Name:               getEnv(v, "DB_NAME", ""),
			SSLMode:            getEnv(v, "DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt(v, "DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt(v, "DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt(v, "DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv(v, "MINIO_ENDPOINT", ""),
			AccessKey:     getEnv(v, "MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv(v, "MINIO_SECRET_KEY", ""),
			Bucket:        getEnv(v, "MINIO_BUCKET", getEnv(v, "SUPABASE_BUCKET", "alquileres")),
			Region:        getEnv(v, "MINIO_REGION", ""),
			UseSSL:        getEnvBool(v, "MINIO_USE_SSL", true),
			PublicBaseURL: strings.TrimRight(getEnv(v, "STORAGE_PUBLIC_BASE_URL", getEnv(v, "SUPABASE_URL", "")), "/"),
		},
		Storage: StorageConfig{
			Provider:        strings.ToLower(getEnv(v, "STORAGE_PROVIDER", ProviderLocal)),
			UploadsDir:      getEnv(v, "UPLOADS_DIR", "uploads"),
			TempDir:         getEnv(v, "UPLOADS_TMP_DIR", "tmp/uploads"),
			MaxUploadBytes:  int64(getEnvInt(v, "UPLOAD_MAX_BYTES", defaultMaxUploadBytes)),
			PurgeOnDelete:   getEnvBool(v, "PAYMENT_DELETE_PURGE_FILES", false),
			SignedURLTTLSec: getEnvInt(v, "STORAGE_SIGNED_URL_TTL_SECONDS", 0),
		},
		Auth: AuthConfig{
			Secret:            getEnv(v, "JWT_SECRET", ""),
			Issuer:            getEnv(v, "JWT_ISSUER", "rentalapi"),
			ExpirationMinutes: getEnvInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Required:          getEnvBool(v, "AUTH_REQUIRED", false),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: getEnvList(v, "CORS_ORIGINS", getEnv(v, "CORS_ORIGIN", "")),
			Maintenance:    getEnvBool(v, "MAINTENANCE_MODE", false),
		},
		Log: LogConfig{
			Env:   getEnv(v, "APP_ENV", "production"),
			Level: getEnv(v, "LOG_LEVEL", "info"),
		},
	}
}

func getEnv(v *viper.Viper, key, def string) string {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return def
}

func getEnvBool(v *viper.Viper, key string, def bool) bool {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		b, err := strconv.ParseBool(s)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(v *viper.Viper, key string, def int) int {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		i, err := strconv.Atoi(s)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList splits a comma separated value, falling back to def when the key is unset.
func getEnvList(v *viper.Viper, key, def string) []string {
	raw := getEnv(v, key, def)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
