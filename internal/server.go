package internal

import (
	"context"
	"database/sql"
	"embed"
	"log"
	"net/http"
	"os"
	"time"

	"itam-inventory-api/internal/auth"
	"itam-inventory-api/internal/config"
	"itam-inventory-api/internal/handlers"
	"itam-inventory-api/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed openapi
var openapiFS embed.FS

type Server struct {
	DB         *sql.DB
	Pool       *pgxpool.Pool
	Router     *chi.Mux
	JWTManager *auth.JWTManager
	Metrics    *Metrics
}

func NewServer(dsn string, cfg *config.Config) *Server {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Database ping failed:", err)
	}

	// Separate pgxpool for the export path, which streams large result sets
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal("Failed to create pgxpool:", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)
	if err := jwtManager.ValidateConfig(); err != nil {
		log.Fatal("JWT configuration validation failed:", err)
	}

	metrics := NewMetrics()

	s := &Server{
		DB:         db,
		Pool:       pool,
		Router:     chi.NewRouter(),
		JWTManager: jwtManager,
		Metrics:    metrics,
	}

	// Public routes first (no middleware)
	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.Router.Get("/dbping", func(w http.ResponseWriter, r *http.Request) {
		if err := s.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "db: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte("db: ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	s.Router.Post("/auth/login", s.loginUser)
	s.mountDocs(s.Router)

	if os.Getenv("ENABLE_METRICS") == "true" {
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(s.JWTManager))
		s.mountProtectedRoutes(r)
	})

	return s
}

// Close properly shuts down the server and cleans up resources
func (s *Server) Close(ctx context.Context) error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// mountDocs serves the OpenAPI spec and Swagger UI
func (s *Server) mountDocs(mux *chi.Mux) {
	if os.Getenv("ENABLE_SWAGGER") != "true" {
		return
	}

	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := openapiFS.ReadFile("openapi/openapi.yaml")
		if err != nil {
			http.Error(w, "Failed to read OpenAPI spec", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		if _, err := w.Write(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		w.Write([]byte(`<!doctype html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>ITAM Inventory API - Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: '/openapi.yaml',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.presets.standalone],
                layout: "StandaloneLayout"
            });
        };
    </script>
</body>
</html>`))
	})
}

// mountProtectedRoutes mounts all routes that require authentication.
// Reads are open to any authenticated user; writes require the admin role.
func (s *Server) mountProtectedRoutes(r chi.Router) {
	admin := auth.MustRole(models.RoleAdmin)

	// Asset directory
	r.Get("/assets", s.listAssets)
	r.Get("/assets/{id}", s.getAsset)
	r.With(admin).Post("/assets", s.createAsset)
	r.With(admin).Put("/assets/{id}", s.updateAsset)
	r.With(admin).Delete("/assets/{id}", s.deleteAsset)

	// Assignments
	r.Get("/assignments", s.listAssignments)
	r.Get("/assignments/{id}", s.getAssignment)
	r.With(admin).Post("/assignments", s.createAssignment)
	r.With(admin).Put("/assignments/{id}", s.updateAssignment)
	r.With(admin).Post("/assignments/{id}/return", s.returnAssignment)
	r.With(admin).Delete("/assignments/{id}", s.deleteAssignment)

	// Service records
	r.Get("/service-records", s.listServiceRecords)
	r.Get("/service-records/{id}", s.getServiceRecord)
	r.With(admin).Post("/service-records", s.createServiceRecord)
	r.With(admin).Patch("/service-records/{id}", s.updateServiceRecord)
	r.With(admin).Delete("/service-records/{id}", s.deleteServiceRecord)

	// Category master data
	r.Get("/categories", s.listCategories)
	r.Get("/categories/{id}", s.getCategory)
	r.With(admin).Post("/categories", s.createCategory)
	r.With(admin).Put("/categories/{id}", s.updateCategory)
	r.With(admin).Delete("/categories/{id}", s.deleteCategory)
	r.With(admin).Post("/categories/{id}/reinstate", s.reinstateCategory)

	// Asset register export
	exportsHandler := handlers.NewExportsHandler(s.Pool)
	r.Get("/exports/assets.xlsx", exportsHandler.DownloadAssets)

	// Self-service routes
	r.Get("/auth/profile", s.getUserProfile)
	r.Put("/auth/change-password", s.changePassword)
}
