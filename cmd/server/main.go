package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/nexaworks/site-backend/internal/config"
	"github.com/nexaworks/site-backend/internal/handler"
	"github.com/nexaworks/site-backend/internal/logging"
	"github.com/nexaworks/site-backend/internal/metrics"
	"github.com/nexaworks/site-backend/internal/notify"
	"github.com/nexaworks/site-backend/internal/repository"
	"github.com/nexaworks/site-backend/internal/service"
	"github.com/nexaworks/site-backend/pkg/auth"
	"github.com/nexaworks/site-backend/pkg/mail"
	"github.com/nexaworks/site-backend/pkg/whatsapp"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()
	cfg := config.Load()

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	contactRepo := repository.NewPgContactRepository(pool)

	mailClient := mail.NewClient(cfg.ResendAPIKey)
	waClient := whatsapp.NewClient(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneID, cfg.WhatsAppVerifyToken)

	var mailSender mail.Sender
	if cfg.ResendAPIKey != "" {
		mailSender = mailClient
	}
	var textSender whatsapp.TextSender
	if cfg.WhatsAppAccessToken != "" && cfg.WhatsAppPhoneID != "" {
		textSender = waClient
	}
	dispatcher := notify.NewDispatcher(mailSender, textSender, notify.Config{
		From:       cfg.MailFrom,
		AdminEmail: cfg.AdminEmail,
		AdminPhone: cfg.AdminWhatsApp,
		Timeout:    cfg.NotifyTimeout,
	})

	contactService := service.NewContactService(contactRepo, dispatcher)

	h := handler.New(pool)
	contactHandler := handler.NewContactHandler(contactService)
	webhookHandler := handler.NewWebhookHandler(waClient)
	limiter := handler.NewRateLimiter(cfg.RateLimitPerMinute)

	// Admin routes are open in development when no token is configured.
	wrapAdmin := auth.Open
	if cfg.AdminAPIToken != "" {
		wrapAdmin = auth.RequireToken(cfg.AdminAPIToken)
	} else {
		slog.Warn("ADMIN_API_TOKEN not set, admin routes are unauthenticated")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	// Public form submission (rate limited)
	mux.Handle("POST /contact", limiter.Middleware(http.HandlerFunc(contactHandler.Submit)))

	// WhatsApp Cloud API webhook
	mux.HandleFunc("GET /webhooks/whatsapp", webhookHandler.Verify)
	mux.HandleFunc("POST /webhooks/whatsapp", webhookHandler.Receive)

	// Admin routes
	mux.Handle("GET /contacts", wrapAdmin(http.HandlerFunc(contactHandler.List)))
	mux.Handle("GET /contacts/{id}", wrapAdmin(http.HandlerFunc(contactHandler.Get)))
	mux.Handle("GET /contacts/{id}/responses", wrapAdmin(http.HandlerFunc(contactHandler.ListResponses)))
	mux.Handle("PATCH /contacts/{id}/status", wrapAdmin(http.HandlerFunc(contactHandler.UpdateStatus)))
	mux.Handle("POST /contacts/{id}/respond", wrapAdmin(http.HandlerFunc(contactHandler.Respond)))
	mux.Handle("DELETE /contacts/{id}", wrapAdmin(http.HandlerFunc(contactHandler.Delete)))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	chain := handler.RequestID(
		handler.SecurityHeaders(
			corsMiddleware.Handler(
				handler.RequestLogger(mux))))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      chain,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	// Let in-flight notification attempts finish before the pool closes.
	dispatcher.Wait()
}
