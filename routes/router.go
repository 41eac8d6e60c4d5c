package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/megaecommerce/backoffice/config"
	"github.com/megaecommerce/backoffice/controllers"
	"github.com/megaecommerce/backoffice/media"
	"github.com/megaecommerce/backoffice/middleware"
	"github.com/megaecommerce/backoffice/utils"
)

// Media bundles the asset components handlers need.
type Media struct {
	Intake *media.Intake
	Assets *media.Orchestrator
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, m Media) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
		r.Use(ginzap.RecoveryWithZap(gl, true))
	} else {
		utils.Sugar.Warnf("gin logger init failed, using default recovery: %v", err)
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.SecurityHeaders())

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})

	adminController := controllers.NewSuperAdminController(db, m.Assets)
	productController := controllers.NewProductController(db, m.Assets)
	packController := controllers.NewHealthPackController(db, m.Assets)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(time.Duration(cfg.RateLimitWindowMS)*time.Millisecond, cfg.RateLimitMax))
	api.GET("/test", func(ctx *gin.Context) {
		utils.Respond(ctx, http.StatusOK, 0, "API is running", gin.H{"env": cfg.AppEnv})
	})

	sa := api.Group("/super-admin")
	sa.POST("/register/super-admin-register-secret", adminController.Register)
	sa.POST("/login", adminController.Login)

	protected := sa.Group("")
	protected.Use(middleware.AdminRequired(db))
	protected.POST("/logout", adminController.Logout)
	protected.GET("/profile", adminController.Profile)
	protected.PUT("/profile", middleware.MediaIntake(m.Intake, media.PhotoField), adminController.UpdateProfile)

	productIntake := middleware.MediaIntake(m.Intake, controllers.ProductFields...)
	protected.GET("/products", productController.List)
	protected.GET("/products/:id", productController.Get)
	protected.POST("/products", productIntake, productController.Create)
	protected.PUT("/products/:id", productIntake, productController.Update)
	protected.DELETE("/products/:id", productController.Delete)
	protected.PATCH("/products/:id/toggle", productController.Toggle)

	packIntake := middleware.MediaIntake(m.Intake, media.VideoDemoField)
	protected.GET("/health-packs", packController.List)
	protected.GET("/health-packs/:id", packController.Get)
	protected.POST("/health-packs", packIntake, packController.Create)
	protected.PUT("/health-packs/:id", packIntake, packController.Update)
	protected.DELETE("/health-packs/:id", packController.Delete)
	protected.PATCH("/health-packs/:id/toggle", packController.Toggle)

	protected.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found: "+ctx.Request.Method+" "+ctx.Request.URL.Path)
	})

	return r
}
