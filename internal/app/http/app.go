package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/knufflepuffle/lfg-bot/internal/handlers"
	"github.com/knufflepuffle/lfg-bot/internal/routes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readHeaderTimeout = 5 * time.Second

type App struct {
	log    *slog.Logger
	engine *gin.Engine
	server *http.Server
	port   int
}

// NewApp sets up the status api, the metrics endpoint and the healthcheck.
func NewApp(
	log *slog.Logger,
	port int,
	handler *handlers.StatusHandler,
	authHandler *handlers.AuthHandler,
	authMiddleware gin.HandlerFunc,
	gatherer prometheus.Gatherer,
) *App {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// /api/status/*, /api/auth/*
	api := r.Group("/api")
	{
		routes.RegisterAuthRoutes(api.Group("/auth"), authHandler)

		publicGroup := api.Group("/status")
		routes.RegisterPublicRoutes(publicGroup, handler)

		privateGroup := api.Group("/status", authMiddleware)
		routes.RegisterPrivateRoutes(privateGroup, handler)
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return &App{
		log:    log,
		engine: r,
		server: httpServer,
		port:   port,
	}
}

// Run blocks until the server stops. A graceful shutdown is not an error.
func (a *App) Run() error {
	a.log.Info("http server is running", slog.String("addr", a.server.Addr))

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	a.log.Info("http server is stopping")
	return a.server.Shutdown(ctx)
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}
