package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/brightdesk/portal/internal/api/http"
	"github.com/brightdesk/portal/internal/audit"
	"github.com/brightdesk/portal/internal/auth"
	"github.com/brightdesk/portal/internal/config"
	"github.com/brightdesk/portal/internal/db"
	"github.com/brightdesk/portal/internal/identity"
	"github.com/brightdesk/portal/internal/kb"
	"github.com/brightdesk/portal/internal/rbac"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := kb.NewSQLStore(dbh)
	events := audit.NewRepo(dbh)
	ids := identity.NewUUIDSource()

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsIntranet
	if cfg.Mode == config.ModePublic {
		origins = cfg.CORSOriginsPublic
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dbh, cfg.AdminUser, cfg.AdminPassHash))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("folder:view")).
			Get("/folders", api.ListFoldersHandler(store))
		pr.With(rbac.Require("folder:edit")).
			Post("/folders", api.CreateFolderHandler(store, ids))
		pr.With(rbac.Require("folder:edit")).
			Delete("/folders/{folderID}", api.DeleteFolderHandler(store))

		pr.With(rbac.Require("article:view")).
			Get("/articles", api.ListArticlesHandler(store))
		pr.With(rbac.Require("article:view")).
			Get("/articles/{articleID}", api.GetArticleHandler(store))
		pr.With(rbac.Require("article:view")).
			Post("/articles/{articleID}/views", api.ViewArticleHandler(store))
		pr.With(rbac.Require("article:edit")).
			Post("/articles", api.CreateArticleHandler(store, ids, events))
		pr.With(rbac.Require("article:edit")).
			Put("/articles/{articleID}", api.UpdateArticleHandler(store, events))
		pr.With(rbac.Require("article:delete")).
			Delete("/articles/{articleID}", api.DeleteArticleHandler(store))

		pr.With(rbac.Require("quiz:edit")).
			Put("/articles/{articleID}/quizzes", api.UpsertQuizHandler(store, ids, events))
		pr.With(rbac.Require("quiz:edit")).
			Delete("/articles/{articleID}/quizzes/{quizID}", api.DeleteQuizHandler(store))
		pr.With(rbac.Require("quiz:take")).
			Post("/articles/{articleID}/quizzes/{quizID}/grade", api.GradeQuizHandler(store, events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
