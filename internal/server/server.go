// Package server exposes the price chart screen over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"StockEstimator/internal/chart"
	"StockEstimator/internal/logger"
	"StockEstimator/internal/recorder"
	"StockEstimator/internal/screen"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	DefaultTimeout      = 60 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServiceName         = "stockestimator-ui"
	ServiceVersion      = "1.0.0"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// Screen is the view-model surface the handlers drive.
type Screen interface {
	View() screen.View
	Scene() chart.Scene
	Apply(in screen.SelectionInput) error
	GetData(ctx context.Context) error
}

// Handler serves the screen API and the rendered chart.
type Handler struct {
	screen  Screen
	history recorder.HistoryReader
	log     *zap.Logger
	now     func() time.Time
}

// NewHandler creates a handler. history may be nil when no store is configured.
func NewHandler(s Screen, history recorder.HistoryReader, log *zap.Logger) *Handler {
	return &Handler{
		screen:  s,
		history: history,
		log:     logger.OrNop(log),
		now:     time.Now,
	}
}

// SetupRoutes configures all routes.
func (h *Handler) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(requestIDMiddleware())
	router.Use(accessLogMiddleware(h.log))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type", RequestIDHeaderKey},
		ExposeHeaders:   []string{RequestIDHeaderKey},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", h.HealthCheck)
	router.GET("/chart.svg", h.Chart)

	api := router.Group("/api")
	api.GET("/view", h.GetView)
	api.PUT("/selection", h.PutSelection)
	api.POST("/data", h.PostData)
	api.GET("/history", h.GetHistory)

	return router
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (h *Handler) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.SetupRoutes(),
		ReadHeaderTimeout: 20 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.log.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	h.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
