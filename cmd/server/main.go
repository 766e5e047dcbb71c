package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Stewz00/go-otp-service/internal/config"
	"github.com/Stewz00/go-otp-service/internal/database"
	"github.com/Stewz00/go-otp-service/internal/handler"
	"github.com/Stewz00/go-otp-service/internal/interfaces"
	"github.com/Stewz00/go-otp-service/internal/mailer"
	"github.com/Stewz00/go-otp-service/internal/middleware"
	"github.com/Stewz00/go-otp-service/internal/otp"
	"github.com/Stewz00/go-otp-service/internal/repository"
	"github.com/Stewz00/go-otp-service/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// sweepInterval is how often expired OTP rows are purged. Expiry is also
// enforced on every verify, so a late sweep never lets a stale code through.
const sweepInterval = time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize database
	db, err := database.New(cfg.DbURL)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	// Initialize repositories, collaborators, services, and handlers
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	notifier := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	})
	authService := service.NewAuthService(userRepo, otpRepo, notifier, otp.NewGenerator())
	authHandler := handler.NewAuthHandler(authService)

	// Background purge of expired OTP records
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepExpiredOTPs(sweepCtx, otpRepo)

	// Create router with middleware
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RateLimiter())

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth routes with strict rate limiting
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.StrictRateLimiter())
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/verify", authHandler.VerifyOTP)
	})

	// Create server with timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(fmt.Sprintf("Server failed to start: %v", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server is shutting down...")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	log.Println("Server exited properly")
}

// sweepExpiredOTPs periodically removes OTP records older than the TTL
func sweepExpiredOTPs(ctx context.Context, otpRepo interfaces.OTPRepository) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := otpRepo.DeleteExpired(ctx, service.OTPTTL)
			if err != nil {
				log.Printf("Failed to purge expired OTPs: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Purged %d expired OTP record(s)", n)
			}
		}
	}
}
