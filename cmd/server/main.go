package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/camprep/identity/internal/config"
	"github.com/camprep/identity/internal/db"
	"github.com/camprep/identity/internal/handlers"
	"github.com/camprep/identity/internal/payment"
	"github.com/camprep/identity/internal/repository"
	"github.com/camprep/identity/internal/service"
)

// otpSweepInterval is how often expired OTP rows are garbage collected
const otpSweepInterval = 15 * time.Minute

func main() {
	// 1. Load configuration (fails fast when a secret is missing)
	cfg := config.LoadConfig()
	log.Println("✓ Configuration loaded")

	// 2. Initialize database connection
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DBUrl)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer pool.Close()

	// 3. Initialize collaborators
	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}
	razorpayClient := payment.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	// 4. Initialize layers
	userRepo := repository.NewUserRepository(pool)
	otpRepo := repository.NewOTPRepository(pool)
	subRepo := repository.NewSubscriptionRepository(pool)

	authService := service.NewAuthService(userRepo, otpRepo, emailService, cfg.JWTSecret)
	paymentService := service.NewPaymentService(razorpayClient, subRepo, cfg.PremiumAmount)

	authMiddleware := handlers.NewAuthMiddleware(userRepo, cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(authService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	healthHandler := handlers.NewHealthHandler()

	// 5. Setup Gin router
	router := gin.Default()
	healthHandler.RegisterRoutes(router)
	authHandler.RegisterRoutes(router, authMiddleware)
	paymentHandler.RegisterRoutes(router, authMiddleware)

	// 6. Background sweep of expired OTP rows
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepExpiredOTPs(sweepCtx, authService)

	// 7. Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("✓ Server exited")
}

// sweepExpiredOTPs deletes lapsed codes on a ticker to bound table growth
func sweepExpiredOTPs(ctx context.Context, authService *service.AuthService) {
	ticker := time.NewTicker(otpSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := authService.SweepExpiredOTPs(ctx)
			if err != nil {
				log.Printf("OTP sweep failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("OTP sweep removed %d expired codes", deleted)
			}
		}
	}
}
