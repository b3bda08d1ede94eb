package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"holoframe-backend/internal/cache"
	"holoframe-backend/internal/config"
	"holoframe-backend/internal/database"
	"holoframe-backend/internal/gcs"
	"holoframe-backend/internal/gemini"
	"holoframe-backend/internal/googleauth"
	"holoframe-backend/internal/logger"
	"holoframe-backend/internal/middleware"
	"holoframe-backend/internal/replicate"
	"holoframe-backend/internal/services"
	"holoframe-backend/internal/supabase"
	"holoframe-backend/internal/vertex"
	"holoframe-backend/internal/worker"
)

const workerBatchSize = 50

// App is the assembled service graph shared by the server and holoctl.
type App struct {
	Config *config.Config
	Log    *logger.Logger

	DB       *supabase.DatabaseClient
	Storage  *supabase.StorageClient
	Realtime *supabase.RealtimeClient
	Google   *googleauth.Provider
	Gemini   *gemini.Client
	Verifier middleware.SessionVerifier

	Images     *services.ImageService
	Videos     *services.VideoService
	Operations *services.OperationService
	Jobs       *services.JobService
	Library    *services.LibraryService

	gcsReader *gcs.Reader
	redis     *redis.Client
}

// New connects to Postgres, Supabase and (optionally) Redis and wires every
// service. Google credentials are selected here but only fail on use.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	a := &App{Config: cfg, Log: log}

	db, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %w", err)
	}
	a.DB = db

	a.Storage, err = supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseStorageBucket)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}
	a.Realtime = supabase.NewRealtimeClient(cfg.SupabaseURL, cfg.SupabaseKey)

	if cfg.SupabaseJWTSecret != "" {
		a.Verifier = middleware.NewJWTVerifier(cfg.SupabaseJWTSecret)
	} else {
		log.Warn("SUPABASE_JWT_SECRET not set, verifying sessions through Supabase Auth")
		a.Verifier, err = supabase.NewSessionVerifierFromKey(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	var locker cache.Locker = cache.NoopLocker{}
	if cfg.RedisURL != "" {
		a.redis, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		locker = cache.NewFolderLock(a.redis)
	} else {
		log.Info("REDIS_URL not set, sequential file naming is not locked across instances")
	}

	a.Google = googleauth.FromSettings(GoogleSettings(cfg))
	if err := a.Google.Err(); err != nil {
		log.Warn("google credentials unavailable", "error", err)
	} else {
		log.Info("google credentials selected", "method", string(a.Google.Method()))
	}
	a.gcsReader = gcs.NewReader(a.Google)

	projectID := a.Google.ProjectID()
	if projectID == "" {
		projectID = cfg.GoogleProjectID
	}
	veo := vertex.NewClient(projectID, cfg.GoogleCloudLocation, cfg.VeoModel, a.Google,
		vertex.WithPolling(cfg.VeoPollInterval, cfg.VeoMaxPolls),
	)
	rep := replicate.NewClient(cfg.ReplicateBaseURL, cfg.ReplicateAPIToken)
	a.Gemini = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	assets := services.NewMaterializer(a.Storage,
		services.WithObjectReader(a.gcsReader),
		services.WithTokenProvider(a.Google),
		services.WithLocker(locker),
	)
	billing := services.NewBiller(db, cfg.CreditCost, log)

	a.Images = services.NewImageService(rep, cfg.ReplicateRembgVersion, assets, log)
	a.Videos = services.NewVideoService(billing, db, db, rep, veo, assets, services.VideoServiceConfig{
		ReplicateModel: cfg.ReplicateVideoModel,
		VeoStorageURI:  cfg.VeoOutputStorageURI,
	}, log)
	a.Operations = services.NewOperationService(db, veo, assets, log)
	a.Jobs = services.NewJobService(db, veo, assets, billing, db, a.Realtime, cfg.VeoMaxPolls, log)
	a.Library = services.NewLibraryService(a.Storage, db, log)

	return a, nil
}

// GoogleSettings maps the GOOGLE_* variables onto credential settings.
func GoogleSettings(cfg *config.Config) googleauth.Settings {
	return googleauth.Settings{
		CredentialsBase64:   cfg.GoogleCredentialsBase64,
		PrivateKey:          cfg.GooglePrivateKey,
		ClientEmail:         cfg.GoogleClientEmail,
		ProjectID:           cfg.GoogleProjectID,
		WIFAudience:         cfg.GoogleWIFAudience,
		ServiceAccountEmail: cfg.GoogleServiceAccountEmail,
		OIDCToken:           cfg.GoogleOIDCToken,
	}
}

// Migrate applies pending schema migrations and returns the ones it ran.
func (a *App) Migrate(ctx context.Context) ([]string, error) {
	return database.NewMigratorFromDB(a.DB.DB(), a.Log).Run(ctx)
}

func (a *App) Poller() *worker.Poller {
	return worker.NewPoller(a.Jobs, a.Jobs, worker.Config{
		Interval:    a.Config.WorkerInterval,
		BatchSize:   workerBatchSize,
		Concurrency: a.Config.WorkerConcurrency,
	}, a.Log)
}

func (a *App) Close() error {
	var errs []error
	if a.gcsReader != nil {
		errs = append(errs, a.gcsReader.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
