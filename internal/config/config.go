package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Supabase
	SupabaseURL           string
	SupabaseKey           string
	SupabaseJWTSecret     string
	SupabaseStorageBucket string

	// Database
	DatabaseURL string

	// Replicate
	ReplicateAPIToken     string
	ReplicateRembgVersion string
	ReplicateVideoModel   string
	ReplicateBaseURL      string

	// Google credentials
	GoogleCredentialsBase64   string
	GooglePrivateKey          string
	GoogleClientEmail         string
	GoogleProjectID           string
	GoogleWIFAudience         string
	GoogleServiceAccountEmail string
	GoogleOIDCToken           string
	GoogleCloudLocation       string

	// Vertex Veo
	VeoModel            string
	VeoOutputStorageURI string
	VeoPollInterval     time.Duration
	VeoMaxPolls         int

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Billing and admin
	CreditCost    int
	AdminPassword string

	// Infra
	RedisURL          string
	WorkerEnabled     bool
	WorkerInterval    time.Duration
	WorkerConcurrency int

	// Server
	Port        string
	Environment string
	BaseURL     string
	LogMode     string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	cfg := LoadEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadEnv is Load without validation, for tools that only need part of the
// configuration.
func LoadEnv() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() *Config {
	environment := getEnv("ENVIRONMENT", "development")

	adminDefault := "admin123"
	if IsProduction(environment) {
		adminDefault = ""
	}

	return &Config{
		SupabaseURL:           strings.TrimSuffix(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseKey:           getEnv("SUPABASE_SERVICE_ROLE_KEY", getEnv("SUPABASE_PUBLISHABLE_KEY", "")),
		SupabaseJWTSecret:     getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "3D_hologram_images"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		ReplicateAPIToken:     getEnv("REPLICATE_API_TOKEN", ""),
		ReplicateRembgVersion: getEnv("REPLICATE_REMBG_VERSION", ""),
		ReplicateVideoModel:   getEnv("REPLICATE_VIDEO_MODEL", "google/veo-3-fast"),
		ReplicateBaseURL:      getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),

		GoogleCredentialsBase64:   getEnv("GOOGLE_APPLICATION_CREDENTIALS_BASE64", ""),
		GooglePrivateKey:          getEnv("GOOGLE_PRIVATE_KEY", ""),
		GoogleClientEmail:         getEnv("GOOGLE_CLIENT_EMAIL", ""),
		GoogleProjectID:           getEnv("GOOGLE_PROJECT_ID", ""),
		GoogleWIFAudience:         getEnv("GOOGLE_WIF_AUDIENCE", ""),
		GoogleServiceAccountEmail: getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
		GoogleOIDCToken:           getEnv("GOOGLE_OIDC_TOKEN", getEnv("VERCEL_OIDC_TOKEN", "")),
		GoogleCloudLocation:       getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),

		VeoModel:            getEnv("VEO_MODEL", "veo-3.1-fast-generate-preview"),
		VeoOutputStorageURI: getEnv("VEO_OUTPUT_STORAGE_URI", ""),
		VeoPollInterval:     getDuration("VEO_POLL_INTERVAL", 20*time.Second),
		VeoMaxPolls:         getInt("VEO_MAX_POLLS", 150),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		CreditCost:    getInt("CREDIT_COST", 10),
		AdminPassword: getEnv("ADMIN_PASSWORD", adminDefault),

		RedisURL:          getEnv("REDIS_URL", ""),
		WorkerEnabled:     getBool("WORKER_ENABLED", true),
		WorkerInterval:    getDuration("WORKER_INTERVAL", 20*time.Second),
		WorkerConcurrency: getInt("WORKER_CONCURRENCY", 4),

		Port:        getEnv("PORT", "8080"),
		Environment: environment,
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		LogMode:     getEnv("LOG_MODE", environment),
	}
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return errors.New("SUPABASE_URL is required")
	}
	if c.SupabaseKey == "" {
		return errors.New("SUPABASE_SERVICE_ROLE_KEY or SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.CreditCost <= 0 {
		return fmt.Errorf("CREDIT_COST must be positive, got %d", c.CreditCost)
	}
	if c.VeoMaxPolls <= 0 {
		return fmt.Errorf("VEO_MAX_POLLS must be positive, got %d", c.VeoMaxPolls)
	}
	if IsProduction(c.Environment) && c.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required in production")
	}
	return nil
}

// GoogleEnvCheck reports which Google credential settings are present.
func (c *Config) GoogleEnvCheck() map[string]bool {
	return map[string]bool{
		"hasCredentialsBase64":   c.GoogleCredentialsBase64 != "",
		"hasPrivateKey":          c.GooglePrivateKey != "",
		"hasClientEmail":         c.GoogleClientEmail != "",
		"hasProjectId":           c.GoogleProjectID != "",
		"hasWifAudience":         c.GoogleWIFAudience != "",
		"hasServiceAccountEmail": c.GoogleServiceAccountEmail != "",
		"hasOidcToken":           c.GoogleOIDCToken != "",
	}
}

func IsProduction(environment string) bool {
	env := strings.ToLower(environment)
	return env == "production" || env == "prod"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	raw := strings.ToLower(getEnv(key, ""))
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// getDuration accepts Go duration strings ("20s") or bare seconds ("20").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
