// Package server wires the application together: router, middleware,
// handlers and graceful shutdown. It is the composition root — every
// dependency chain (repository → service → handler) is assembled here and
// nowhere else.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/careercraft/internal/auth"
	"github.com/sakif/careercraft/internal/config"
	"github.com/sakif/careercraft/internal/handler"
	"github.com/sakif/careercraft/internal/insight"
	"github.com/sakif/careercraft/internal/mail"
	"github.com/sakif/careercraft/internal/middleware"
	sqliteRepo "github.com/sakif/careercraft/internal/repository/sqlite"
	"github.com/sakif/careercraft/internal/service"
	"github.com/sakif/careercraft/internal/storage"
)

// Server owns the router, the database connection and the listener
// lifecycle. The database is closed during graceful shutdown so the WAL is
// flushed and the file lock released.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph from config.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly for httptest in integration tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware, builds the service layer and maps
// every route.
//
// Route map:
//
//	GET  /                          → liveness line
//	GET  /uploads/*                 → locally stored PDFs (local store only)
//	POST /api/auth/register         → create account
//	POST /api/auth/login            → email+password login
//	POST /api/auth/google           → sign in with a Google ID token
//	POST /api/auth/logout           → clear the session cookie
//	POST /api/auth/forgot-password  → email a reset OTP
//	POST /api/auth/reset-password   → set a new password with the OTP
//	GET  /api/auth/me               → current user (auth)
//	GET  /api/resume                → fetch resume (auth)
//	POST /api/resume                → save resume (auth; PUT alias)
//	POST /api/resume/upload         → upload PDF (auth)
//	GET  /api/insights/resume       → resume analysis (auth)
//	GET  /api/insights/jobs         → job matches (auth)
//	GET  /api/insights/suggest      → reply suggestion (auth)
//	GET  /auth/google/login         → start Google redirect flow
//	GET  /auth/google/callback      → finish Google redirect flow
func (s *Server) setupRoutes(ctx context.Context) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Auth stack ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	mailer := mail.New(mail.Config{
		Host: s.config.Email.Host,
		Port: s.config.Email.Port,
		User: s.config.Email.User,
		Pass: s.config.Email.Pass,
		From: s.config.Email.From,
	}, s.logger)

	var google *auth.GoogleProvider
	if s.config.GoogleEnabled() {
		google = auth.NewGoogleProvider(
			s.config.GoogleClientID,
			s.config.GoogleClientSecret,
			s.config.GoogleCallbackURL,
		)
	} else {
		s.logger.Warn("GOOGLE_CLIENT_ID/SECRET not set, Google sign-in disabled")
	}

	// === File store ===
	var files storage.FileStore
	if s.config.S3Enabled() {
		s3store, err := storage.NewS3Store(ctx, storage.S3Config{
			AccessKey:    s.config.S3.AccessKey,
			SecretKey:    s.config.S3.SecretKey,
			Bucket:       s.config.S3.Bucket,
			Region:       s.config.S3.Region,
			BaseEndpoint: s.config.S3.BaseEndpoint,
			PublicURL:    s.config.S3.PublicURL,
		})
		if err != nil {
			return fmt.Errorf("creating S3 store: %w", err)
		}
		files = s3store
		s.logger.Info("uploads go to S3", slog.String("bucket", s.config.S3.Bucket))
	} else {
		local, err := storage.NewLocalStore(s.config.UploadDir, s.config.BaseURL)
		if err != nil {
			return fmt.Errorf("creating local store: %w", err)
		}
		files = local

		// Serve locally stored PDFs back out. With S3 the URLs point at
		// the bucket directly and no route is needed.
		fileServer := http.FileServer(http.Dir(s.config.UploadDir))
		s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))
	}

	// === Services and handlers ===
	authService := service.NewAuthService(s.db, tokens, passwords, mailer, s.logger)
	resumeService := service.NewResumeService(s.db, files, s.logger)
	analyzer := insight.New()

	authHandler := handler.NewAuthHandler(authService, google, s.logger)
	resumeHandler := handler.NewResumeHandler(resumeService, s.logger)
	insightHandler := handler.NewInsightHandler(analyzer)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "CareerCraft backend is running")
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/google", authHandler.HandleGoogleToken)
			r.Post("/logout", authHandler.HandleLogout)
			r.Post("/forgot-password", authHandler.HandleForgotPassword)
			r.Post("/reset-password", authHandler.HandleResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(tokens))
				r.Get("/me", authHandler.HandleMe)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/resume", resumeHandler.HandleGet)
			r.Post("/resume", resumeHandler.HandleSave)
			r.Put("/resume", resumeHandler.HandleSave)
			r.Post("/resume/upload", resumeHandler.HandleUpload)

			r.Get("/insights/resume", insightHandler.HandleAnalyzeResume)
			r.Get("/insights/jobs", insightHandler.HandleMatchJobs)
			r.Get("/insights/suggest", insightHandler.HandleSuggestReply)
		})
	})

	if google != nil {
		s.router.Get("/auth/google/login", authHandler.HandleGoogleLogin)
		s.router.Get("/auth/google/callback", authHandler.HandleGoogleCallback)
	}

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("baseURL", s.config.BaseURL),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
