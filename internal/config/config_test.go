package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holoframe-backend/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co/")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")
	t.Setenv("ENVIRONMENT", "development")
	for _, key := range []string{"CREDIT_COST", "VEO_POLL_INTERVAL", "VEO_MAX_POLLS", "ADMIN_PASSWORD", "WORKER_ENABLED", "SUPABASE_STORAGE_BUCKET", "REPLICATE_VIDEO_MODEL"} {
		t.Setenv(key, "")
	}

	cfg := config.FromEnv()

	assert.Equal(t, "https://proj.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "3D_hologram_images", cfg.SupabaseStorageBucket)
	assert.Equal(t, 10, cfg.CreditCost)
	assert.Equal(t, 20*time.Second, cfg.VeoPollInterval)
	assert.Equal(t, 150, cfg.VeoMaxPolls)
	assert.Equal(t, "google/veo-3-fast", cfg.ReplicateVideoModel)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.True(t, cfg.WorkerEnabled)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")
	t.Setenv("SUPABASE_PUBLISHABLE_KEY", "anon-key")
	t.Setenv("GOOGLE_OIDC_TOKEN", "")
	t.Setenv("CREDIT_COST", "25")
	t.Setenv("VEO_POLL_INTERVAL", "5")
	t.Setenv("WORKER_ENABLED", "false")
	t.Setenv("VERCEL_OIDC_TOKEN", "oidc-from-platform")

	cfg := config.FromEnv()

	assert.Equal(t, "anon-key", cfg.SupabaseKey)
	assert.Equal(t, 25, cfg.CreditCost)
	assert.Equal(t, 5*time.Second, cfg.VeoPollInterval)
	assert.False(t, cfg.WorkerEnabled)
	assert.Equal(t, "oidc-from-platform", cfg.GoogleOIDCToken)
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{SupabaseKey: "k", CreditCost: 10, VeoMaxPolls: 1}
	assert.ErrorContains(t, cfg.Validate(), "SUPABASE_URL")

	cfg.SupabaseURL = "https://proj.supabase.co"
	assert.NoError(t, cfg.Validate())

	cfg.CreditCost = 0
	assert.ErrorContains(t, cfg.Validate(), "CREDIT_COST")

	cfg.CreditCost = 10
	cfg.Environment = "production"
	assert.ErrorContains(t, cfg.Validate(), "ADMIN_PASSWORD")
}

func TestProductionHasNoAdminDefault(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ADMIN_PASSWORD", "")
	cfg := config.FromEnv()
	assert.Empty(t, cfg.AdminPassword)
}

func TestGoogleEnvCheck(t *testing.T) {
	cfg := &config.Config{GoogleProjectID: "holo-project", GoogleWIFAudience: "//iam.googleapis.com/pool"}
	check := cfg.GoogleEnvCheck()

	assert.True(t, check["hasProjectId"])
	assert.True(t, check["hasWifAudience"])
	assert.False(t, check["hasCredentialsBase64"])
	assert.False(t, check["hasOidcToken"])
	assert.Len(t, check, 7)
}
