package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/dumbcrm/internal/auth"
	"github.com/geocoder89/dumbcrm/internal/config"
	"github.com/geocoder89/dumbcrm/internal/http/handlers"
	"github.com/geocoder89/dumbcrm/internal/http/middlewares"
	"github.com/geocoder89/dumbcrm/internal/observability"
	"github.com/geocoder89/dumbcrm/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const sessionTTL = 7 * 24 * time.Hour

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// metrics registry stays local to the router so tests can spin up
	// independent engines
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(otelgin.Middleware("dumbcrm"))
	r.Use(prom.GinHandleMiddleware())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool)
	customersRepo := postgres.NewCustomersRepo(pool)
	contactsRepo := postgres.NewContactsRepo(pool)
	dealsRepo := postgres.NewDealsRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, sessionTTL)

	authMw := middlewares.NewAuthMiddleware(jwtManager, usersRepo)

	// wire up handlers
	healthHandler := handlers.NewHealthHandler(ping)
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, cfg)
	usersHandler := handlers.NewUsersHandler(usersRepo)
	customersHandler := handlers.NewCustomersHandler(customersRepo)
	contactsHandler := handlers.NewContactsHandler(contactsRepo)
	dealsHandler := handlers.NewDealsHandler(dealsRepo)

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{
			"message": "Dumb CRM API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"auth":      "/api/auth",
				"users":     "/api/users",
				"customers": "/api/customers",
				"contacts":  "/api/contacts",
				"deals":     "/api/deals",
				"health":    "/health",
			},
		})
	})
	r.GET("/health", healthHandler.Health)
	r.GET("/readyz", healthHandler.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
		authRoutes.GET("/me", authMw.RequireAuth(), authHandler.Me)
		authRoutes.POST("/register", authMw.RequireAuth(), authMw.RequireAdmin(), authHandler.Register)
		authRoutes.POST("/change-password", authMw.RequireAuth(), authHandler.ChangePassword)
	}

	customers := api.Group("/customers", authMw.RequireAuth())
	{
		customers.GET("", customersHandler.List)
		customers.GET("/search", customersHandler.Search)
		customers.GET("/:id", customersHandler.Get)
		customers.POST("", customersHandler.Create)
		customers.PUT("/:id", customersHandler.Update)
		customers.DELETE("/:id", customersHandler.Delete)
	}

	contacts := api.Group("/contacts", authMw.RequireAuth())
	{
		contacts.GET("", contactsHandler.List)
		contacts.GET("/:id", contactsHandler.Get)
		contacts.GET("/customer/:customerId", contactsHandler.ListByCustomer)
		contacts.POST("", contactsHandler.Create)
		contacts.PUT("/:id", contactsHandler.Update)
		contacts.DELETE("/:id", contactsHandler.Delete)
	}

	deals := api.Group("/deals", authMw.RequireAuth())
	{
		deals.GET("", dealsHandler.List)
		deals.GET("/stats", dealsHandler.Stats)
		deals.GET("/:id", dealsHandler.Get)
		deals.GET("/customer/:customerId", dealsHandler.ListByCustomer)
		deals.GET("/status/:status", dealsHandler.ListByStatus)
		deals.POST("", dealsHandler.Create)
		deals.PUT("/:id", dealsHandler.Update)
		deals.DELETE("/:id", dealsHandler.Delete)
	}

	users := api.Group("/users", authMw.RequireAuth(), authMw.RequireAdmin())
	{
		users.GET("", usersHandler.List)
		users.GET("/stats", usersHandler.Stats)
		users.GET("/:id", usersHandler.Get)
		users.POST("", usersHandler.Create)
		users.PUT("/:id", usersHandler.Update)
		users.DELETE("/:id", usersHandler.Delete)
		users.POST("/:id/toggle-status", usersHandler.ToggleStatus)
	}

	return r
}
