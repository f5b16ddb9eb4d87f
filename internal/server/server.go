package server

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"referral-tracker/internal/auth"
	"referral-tracker/internal/config"
	"referral-tracker/internal/handlers"
	"referral-tracker/internal/middleware"
	"referral-tracker/internal/repository"
	"referral-tracker/internal/services"
)

// NewRouter wires repositories, services and handlers onto a gin engine
func NewRouter(cfg *config.Config, db *gorm.DB, log *logrus.Logger) *gin.Engine {
	tokens := auth.NewTokenService(cfg.App.JWTSecret, cfg.App.TokenTTL)

	// Initialize repositories
	users := repository.NewUserRepository(db)
	referrals := repository.NewReferralRepository(db)

	// Initialize services
	accountService := services.NewAccountService(users, referrals, tokens, cfg.App.ReferralCodeAttempts, log)
	referralService := services.NewReferralService(referrals, tokens, log)
	exportService := services.NewExportService(users, referrals, log)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accountService, log)
	referralHandler := handlers.NewReferralHandler(referralService, log)
	exportHandler := handlers.NewExportHandler(exportService, log)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Landing page
	index := filepath.Join(cfg.Server.StaticDir, "index.html")
	router.GET("/", func(c *gin.Context) {
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusOK, gin.H{"message": "Referral service is running."})
			return
		}
		c.File(index)
	})
	if info, err := os.Stat(cfg.Server.StaticDir); err == nil && info.IsDir() {
		router.Static("/static", cfg.Server.StaticDir)
	}

	// Account routes (public)
	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)
	router.GET("/protected", authHandler.Protected)
	router.POST("/send_referral", referralHandler.SendReferral)

	// Token-guarded routes
	router.GET("/referral_stats", auth.AuthMiddleware(tokens, log), referralHandler.GetReferralStats)

	// Admin routes; open when no admin token is configured
	if cfg.App.AdminToken == "" {
		log.Warn("ADMIN_TOKEN is not set: /update_purchases and /download_db are unauthenticated")
	}
	admin := router.Group("/")
	admin.Use(auth.AdminMiddleware(cfg.App.AdminToken))
	{
		admin.POST("/update_purchases", referralHandler.UpdatePurchases)
		admin.GET("/download_db", exportHandler.DownloadDB)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept", auth.AdminTokenHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
