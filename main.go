package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"issue-analyze-service/config"
	"issue-analyze-service/database"
	"issue-analyze-service/handlers"
	"issue-analyze-service/metrics"
	"issue-analyze-service/middleware"
	"issue-analyze-service/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.SetLevelFromString(cfg.LogLevel)

	// Validate required configuration
	if cfg.APIKey() == "" {
		log.Fatalf("API key for LLM provider %q is required", cfg.LLMProvider)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	// Initialize database
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.CreateAdminsTable(); err != nil {
		log.Fatalf("Failed to create admins table: %v", err)
	}

	// Register analyzer metrics
	metrics.Register()

	// Initialize services
	analyzer := service.NewAnalyzer(cfg)
	defer analyzer.Close()
	admins := database.NewAdminService(db.GetDB(), cfg.JWTSecret, cfg.TokenDuration)

	// Initialize handlers
	h := handlers.NewHandlers(analyzer, admins)

	// Setup HTTP server
	router := gin.Default()
	router.Use(middleware.CORSMiddleware())

	router.POST("/analyze", h.Analyze)
	router.POST("/login", h.Login)
	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Admin CRUD requires a valid token
	protected := router.Group("/", middleware.AuthMiddleware(admins))
	{
		protected.POST("/create-admin", h.CreateAdmin)
		protected.PUT("/update-admin", h.UpdateAdmin)
		protected.DELETE("/delete-admin/:id", h.DeleteAdmin)
		protected.GET("/admins", h.ListAdmins)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
