package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/paperforge/paperforge/internal/ai"
	api "github.com/paperforge/paperforge/internal/api/http"
	auth "github.com/paperforge/paperforge/internal/auth/middleware"
	"github.com/paperforge/paperforge/internal/blueprint"
	"github.com/paperforge/paperforge/internal/config"
	"github.com/paperforge/paperforge/internal/db"
	"github.com/paperforge/paperforge/internal/extract"
	"github.com/paperforge/paperforge/internal/paper"
	"github.com/paperforge/paperforge/internal/platform/cache"
	"github.com/paperforge/paperforge/internal/rbac"
	"github.com/paperforge/paperforge/internal/session"
	"github.com/paperforge/paperforge/internal/storage"
	"github.com/paperforge/paperforge/internal/suggest"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// --- Paper store ---
	var store paper.Store
	switch cfg.DBDriver {
	case "mongo":
		client, ms, err := paper.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo connect failed: %v", err)
		}
		defer client.Disconnect(context.Background())
		store = ms
	case "sqlite", "postgres":
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		store = paper.NewSQLStore(dbh, cfg.DBDriver)
	default:
		log.Fatalf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}

	// --- Source blobs + extraction ---
	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	var extractor extract.Extractor = extract.NewPDFTextExtractor(bs)
	if cfg.CacheURL != "" {
		c, err := cache.New(ctx, cfg.CacheURL)
		if err != nil {
			log.Fatalf("cache connect failed: %v", err)
		}
		defer c.Close()
		extractor = extract.NewCachedExtractor(extractor, c, 24*time.Hour)
	}

	// --- Suggestion source ---
	var suggestSvc *suggest.Service
	if cfg.GenAIAPIKey != "" || cfg.GenAIBaseURL != "" {
		var opts []ai.Option
		if cfg.GenAIBaseURL != "" {
			opts = append(opts, ai.WithBaseURL(cfg.GenAIBaseURL))
		}
		provider := ai.NewOpenAIProvider(cfg.GenAIAPIKey, opts...)
		suggestSvc = suggest.NewService(provider, cfg.GenAIModel)
	}

	// --- Blueprints ---
	blueprints, err := blueprint.NewLoader(cfg.BlueprintDir)
	if err != nil {
		log.Fatalf("blueprints: %v", err)
	}

	mgr := session.NewManager()
	authSvc := auth.NewAuthService(cfg.AuthSecret)
	creds := auth.Credentials{AdminUser: cfg.AdminUser, AdminPassHash: cfg.AdminPassHash}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, creds))

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("paper:create")).
			Post("/sessions", api.CreateSessionHandler(mgr, store, blueprints))
		pr.With(rbac.Require("paper:view")).
			Get("/sessions/{sessionID}", api.GetSessionHandler(mgr))

		pr.Route("/sessions/{sessionID}", func(sr chi.Router) {
			sr.Use(rbac.Require("paper:edit"))
			sr.Post("/sections", api.AddSectionHandler(mgr))
			sr.Patch("/sections/{sectionID}", api.UpdateSectionHandler(mgr))
			sr.Delete("/sections/{sectionID}", api.DeleteSectionHandler(mgr))
			sr.Post("/sections/{sectionID}/questions", api.AddQuestionHandler(mgr))
			sr.Patch("/sections/{sectionID}/questions/{questionID}", api.UpdateQuestionHandler(mgr))
			sr.Delete("/sections/{sectionID}/questions/{questionID}", api.DeleteQuestionHandler(mgr))
			sr.Post("/sections/{sectionID}/questions/{questionID}/subparts", api.AddSubpartHandler(mgr))
			sr.Patch("/sections/{sectionID}/questions/{questionID}/subparts/{subpartID}", api.UpdateSubpartHandler(mgr))
			sr.Delete("/sections/{sectionID}/questions/{questionID}/subparts/{subpartID}", api.DeleteSubpartHandler(mgr))
			sr.Post("/suggestions/import", api.ImportSuggestionsHandler(mgr))
		})

		pr.With(rbac.Require("paper:save")).
			Post("/sessions/{sessionID}/save", api.SaveSessionHandler(mgr, store))
		pr.With(rbac.Require("suggestion:fetch")).
			Post("/sessions/{sessionID}/suggestions", api.FetchSuggestionsHandler(mgr, suggestSvc, extractor))
		pr.With(rbac.Require("paper:view")).
			Get("/sessions/{sessionID}/suggestions", api.GetSuggestionsHandler(mgr))

		pr.With(rbac.Require("paper:view")).
			Get("/papers", api.ListPapersHandler(store))
		pr.With(rbac.Require("paper:view")).
			Get("/papers/{paperID}", api.GetPaperHandler(store))
		pr.With(rbac.Require("paper:delete")).
			Delete("/papers/{paperID}", api.DeletePaperHandler(store))
		pr.With(rbac.Require("paper:approve")).
			Post("/papers/{paperID}/approve", api.ApprovePaperHandler(store))
		pr.With(rbac.Require("paper:export")).
			Get("/papers/{paperID}/export.xlsx", api.ExportXLSXHandler(store))

		pr.Group(func(ur chi.Router) {
			ur.Use(rbac.Require("source:upload"))
			ur.Route("/sources", func(srcr chi.Router) {
				api.MountSources(srcr, bs, extractor)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("server error: %v", err)
			os.Exit(1)
		}
	}()

	<-runCtx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
