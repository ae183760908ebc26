// Package server assembles the HTTP surface from the domain packages.
package server

import (
	"net/http"

	"carrental/internal/config"
	"carrental/internal/domain/booking"
	"carrental/internal/domain/car"
	"carrental/internal/domain/maintenance"
	"carrental/internal/domain/notification"
	"carrental/internal/domain/profile"
	"carrental/internal/domain/upload"
	"carrental/internal/middleware"
	"carrental/internal/pkg/jwt"
	"carrental/internal/pkg/logger"
	"carrental/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the shared handles the router is built from. Redis and Gatherer are optional.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	JWT      *jwt.Service
}

func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}

	var cache profile.Cache
	if d.Redis != nil {
		cache = profile.NewRedisCache(d.Redis, cfg.ProfileCacheTTL)
	}

	profileService := profile.NewService(profile.NewRepository(d.DB), cache, log)
	carService := car.NewService(car.NewRepository(d.DB), log)
	bookingService := booking.NewService(booking.NewRepository(d.DB), carService, booking.Options{
		Strict:  cfg.StrictTransitions,
		Logger:  log,
		Metrics: d.Metrics,
	})
	notificationService := notification.NewService(notification.NewRepository(d.DB))
	maintenanceService := maintenance.NewService(maintenance.NewRepository(d.DB), carService, maintenance.Options{
		Strict:   cfg.StrictTransitions,
		Notifier: notificationService,
		Staff:    profileService,
		Logger:   log,
		Metrics:  d.Metrics,
	})
	uploadService := upload.NewService(upload.NewRepository(d.DB), cfg.UploadDir, cfg.UploadURLBase, log)

	r := gin.New()
	r.Use(middleware.RequestLogger(log, d.Metrics))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static(cfg.UploadURLBase, cfg.UploadDir)
	if d.Gatherer != nil {
		r.GET("/metrics",
			middleware.InternalTokenAuth(cfg.MetricsToken, cfg.MetricsAllowedIPs),
			gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})),
		)
	}

	v1 := r.Group("/api/v1")

	identity := v1.Group("", middleware.JWTAuth(d.JWT))
	profile.RegisterIdentityRoutes(identity, profile.NewHandler(profileService))

	loaded := identity.Group("", middleware.LoadProfile(profileService))
	profile.RegisterRoutes(loaded, profile.NewHandler(profileService))
	car.RegisterRoutes(loaded, car.NewHandler(carService))
	booking.RegisterRoutes(loaded, booking.NewHandler(bookingService))
	maintenance.RegisterRoutes(loaded, maintenance.NewHandler(maintenanceService))
	notification.RegisterRoutes(loaded, notification.NewHandler(notificationService))
	upload.RegisterRoutes(loaded, upload.NewHandler(uploadService))

	return r
}
