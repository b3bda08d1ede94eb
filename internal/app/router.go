package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"holoframe-backend/internal/handlers"
	"holoframe-backend/internal/logger"
	"holoframe-backend/internal/middleware"
	"holoframe-backend/internal/telemetry"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Health    *handlers.HealthHandler
	Images    *handlers.ImagesHandler
	Videos    *handlers.VideosHandler
	Holograms *handlers.HologramsHandler
	Profiles  *handlers.ProfilesHandler
	Admin     *handlers.AdminHandler
	Debug     *handlers.DebugHandler
	Gemini    *handlers.GeminiHandler
}

type RouterConfig struct {
	ServiceName   string
	AdminPassword string
	Verifier      middleware.SessionVerifier
	Log           *logger.Logger
}

func (a *App) Handlers() Handlers {
	return Handlers{
		Health:    handlers.NewHealthHandler(a.DB),
		Images:    handlers.NewImagesHandler(a.Images),
		Videos:    handlers.NewVideosHandler(a.Videos, a.Operations),
		Holograms: handlers.NewHologramsHandler(a.DB, a.Library),
		Profiles:  handlers.NewProfilesHandler(a.DB, a.Config.CreditCost),
		Admin:     handlers.NewAdminHandler(a.Library),
		Debug:     handlers.NewDebugHandler(a.Google, a.Config.GoogleEnvCheck()),
		Gemini:    handlers.NewGeminiHandler(a.Gemini),
	}
}

func NewRouter(h Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		router.Use(telemetry.Middleware(cfg.ServiceName))
	}
	if cfg.Log != nil {
		router.Use(middleware.RequestLogger(cfg.Log))
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	if h.Health == nil {
		h.Health = handlers.NewHealthHandler(nil)
	}
	router.GET("/health", h.Health.Health)

	api := router.Group("/api/v1")
	requireUser := middleware.AuthMiddleware(cfg.Verifier)
	optionalUser := middleware.OptionalAuth(cfg.Verifier)

	// Images
	api.POST("/remove-background", optionalUser, h.Images.RemoveBackground)
	api.POST("/user-images", optionalUser, h.Images.UploadUserImage)

	// Video generation
	api.POST("/hologram-videos", requireUser, h.Videos.CreateVideo)
	api.GET("/hologram-operations", optionalUser, h.Videos.CheckOperation)

	// Holograms and archive
	api.GET("/holograms", optionalUser, h.Holograms.ListHolograms)
	api.POST("/holograms", optionalUser, h.Holograms.CreateHologram)
	api.GET("/archive", h.Holograms.Archive)

	api.GET("/me", requireUser, h.Profiles.Me)

	api.GET("/debug/auth", h.Debug.GoogleAuth)
	api.POST("/debug/auth", h.Debug.GoogleAuth)
	api.POST("/gemini", h.Gemini.Generate)

	admin := api.Group("/admin", middleware.AdminMiddleware(cfg.AdminPassword))
	admin.GET("/files", h.Admin.ListFiles)
	admin.DELETE("/files", h.Admin.DeleteFile)

	return router
}
