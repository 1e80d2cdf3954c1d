package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/workhive/workhive/internal/api/handlers"
	"github.com/workhive/workhive/internal/api/middleware"
	"github.com/workhive/workhive/internal/auth"
	"github.com/workhive/workhive/internal/ordering"
	"github.com/workhive/workhive/internal/todos"
	"github.com/workhive/workhive/internal/users"
	"github.com/workhive/workhive/internal/votes"
	"github.com/workhive/workhive/internal/workspaces"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize services
	engine := ordering.NewEngine(cfg.DB)
	workspaceService := workspaces.NewService(cfg.DB)
	todoService := todos.NewService(cfg.DB, engine)
	voteService := votes.NewService(cfg.DB)
	userService := users.NewService(cfg.DB)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	userHandler := handlers.NewUserHandler(userService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
	folderHandler := handlers.NewFolderHandler(workspaceService, todoService)
	todoHandler := handlers.NewTodoHandler(workspaceService, todoService)
	voteHandler := handlers.NewVoteHandler(workspaceService, voteService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Public auth endpoints
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTService))

		// Self-scoped user routes
		r.Route("/user/{userID}", func(r chi.Router) {
			r.Use(middleware.RequireSelf())

			r.Get("/", userHandler.Get)
			r.Patch("/", userHandler.Update)
			r.Put("/", userHandler.ChangePassword)
			r.Delete("/", userHandler.Delete)

			r.Get("/workspace", workspaceHandler.List)
			r.Post("/workspace", workspaceHandler.Create)
			r.Post("/workspace/{account}", workspaceHandler.RequestJoin)
		})

		// Admin-scoped workspace routes
		r.Route("/workspace/admin/{account}", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(workspaceService))

			r.Patch("/", workspaceHandler.Update)
			r.Delete("/", workspaceHandler.Delete)
			r.Patch("/member/{userID}", workspaceHandler.UpdateMember)
			r.Delete("/member/{userID}", workspaceHandler.RemoveMember)
		})

		// Member-scoped workspace routes
		r.Route("/workspace/{account}", func(r chi.Router) {
			r.Use(middleware.RequireMember(workspaceService))

			r.Get("/", workspaceHandler.Get)

			r.Route("/workfolder", func(r chi.Router) {
				r.Get("/", folderHandler.List)
				r.Post("/", folderHandler.Create)
				r.Patch("/{folderID}", folderHandler.Rename)
				r.Delete("/{folderID}", folderHandler.Delete)
			})

			r.Route("/todo", func(r chi.Router) {
				r.Post("/", todoHandler.Create)
				r.Get("/{todoID}", todoHandler.Get)
				r.Put("/{todoID}", todoHandler.Update)
				r.Delete("/{todoID}", todoHandler.Delete)
				r.Patch("/{todoID}/order", todoHandler.Move)
			})

			r.Route("/vote", func(r chi.Router) {
				r.Get("/", voteHandler.List)
				r.Post("/", voteHandler.Create)

				r.Post("/result", voteHandler.SubmitResult)
				r.Put("/result", voteHandler.UpdateResult)
				r.Get("/result/{voteID}", voteHandler.Results)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin(workspaceService))
					r.Delete("/admin/{voteID}", voteHandler.Delete)
				})

				r.Get("/{voteID}", voteHandler.Get)
				r.Put("/{voteID}", voteHandler.Update)
			})
		})
	})

	return &Router{r}
}
