package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pixvault/api/internal/cache"
	"pixvault/api/internal/config"
	"pixvault/api/internal/media/ingest"
	"pixvault/api/internal/middleware"
	"pixvault/api/internal/repository"
	"pixvault/api/internal/service"
	"pixvault/api/internal/storage"
	"pixvault/api/internal/tier"
)

type HandlerSet struct {
	log    zerolog.Logger
	cfg    *config.AppConfig
	tiers  *tier.Set
	auth   *service.AuthService
	images *service.ImageService
	links  *service.LinkService
	users  *repository.UserRepository
	db     *pgxpool.Pool
	cache  *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, redisClient *redis.Client, store *storage.ObjectStore, tiers *tier.Set, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	imageRepo := repository.NewImageRepository(db)
	linkRepo := repository.NewLinkRepository(db)

	validator := ingest.NewValidator(cfg.Upload.AllowedExtensions)
	linkCache := cache.NewLinkCache(redisClient)

	authService := service.NewAuthService(userRepo, tiers, cfg.Security, log)
	imageService := service.NewImageService(imageRepo, linkRepo, store, linkCache, validator, cfg.Upload, log)
	linkService := service.NewLinkService(imageRepo, linkRepo, store, linkCache, cfg.PublicBaseURL, log)

	return HandlerSet{
		log:    log,
		cfg:    cfg,
		tiers:  tiers,
		auth:   authService,
		images: imageService,
		links:  linkService,
		users:  userRepo,
		db:     db,
		cache:  redisClient,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)

		images := v1.Group("/images")
		images.Use(middleware.Auth(h.cfg, h.users, h.tiers))
		images.POST("/upload", h.UploadImage)
		images.GET("", h.ListImages)
		images.POST("/:id/create-link", h.CreateLink)
		images.DELETE("/:id", h.DeleteImage)

		// Capability-token access: deliberately unauthenticated.
		v1.GET("/expiring-images/:token", h.ServeExpiringImage)
	}
}
