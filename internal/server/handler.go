package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"StockEstimator/internal/chart"
	"StockEstimator/internal/model"
	"StockEstimator/internal/screen"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

// GetView handles GET /api/view requests
func (h *Handler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.screen.View())
}

// PutSelection handles PUT /api/selection requests
func (h *Handler) PutSelection(c *gin.Context) {
	var in screen.SelectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.handleError(c, err, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.screen.Apply(in); err != nil {
		switch {
		case errors.Is(err, screen.ErrBusy):
			h.handleError(c, err, http.StatusConflict, err.Error())
		case errors.Is(err, model.ErrUnknownTicker), errors.Is(err, screen.ErrInvalidDate):
			h.handleError(c, err, http.StatusBadRequest, err.Error())
		default:
			h.handleError(c, err, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	c.JSON(http.StatusOK, h.screen.View())
}

// PostData handles POST /api/data requests
func (h *Handler) PostData(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	if err := h.screen.GetData(ctx); err != nil {
		if errors.Is(err, screen.ErrBusy) {
			h.handleError(c, err, http.StatusConflict, err.Error())
			return
		}
		h.logError(c, err, http.StatusBadGateway)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      err.Error(),
			"request_id": requestID(c),
			"view":       h.screen.View(),
		})
		return
	}
	c.JSON(http.StatusOK, h.screen.View())
}

// Chart handles GET /chart.svg requests
func (h *Handler) Chart(c *gin.Context) {
	var buf bytes.Buffer
	if err := chart.RenderSVG(&buf, h.screen.Scene()); err != nil {
		h.handleError(c, err, http.StatusInternalServerError, "render chart failed")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// GetHistory handles GET /api/history requests
func (h *Handler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fetch history is not enabled", "request_id": requestID(c)})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 500 {
		h.handleError(c, errors.New("limit must be between 1 and 500"), http.StatusBadRequest, "limit must be between 1 and 500")
		return
	}
	events, err := h.history.RecentFetches(limit)
	if err != nil {
		h.handleError(c, err, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func requestID(c *gin.Context) string {
	if id := c.GetString(RequestIDContextKey); id != "" {
		return id
	}
	return "unknown"
}

func (h *Handler) logError(c *gin.Context, err error, statusCode int) {
	h.log.Error("API error",
		zap.String("request_id", requestID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
		zap.Int("status_code", statusCode),
	)
}

// handleError logs the error and sends the JSON error response.
func (h *Handler) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	h.logError(c, err, statusCode)
	c.JSON(statusCode, gin.H{
		"error":      userMessage,
		"request_id": requestID(c),
	})
}
