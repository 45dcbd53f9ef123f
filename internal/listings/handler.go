package listings

import (
	"errors"
	"log/slog"
	"net/http"

	httperr "github.com/corsa-lab/corsa-api/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the market API under r.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/models", s.HandleListModels)
	api.GET("/models/:key/price-history", s.HandlePriceHistory)
	api.GET("/metrics/summary", s.HandleSummaryMetrics)
}

// HandleListModels handles GET /api/models
func (s *Service) HandleListModels(c *gin.Context) {
	models, err := s.ListModels(c.Request.Context())
	if err != nil {
		s.writeError(c, err, "Failed to list models")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": models})
}

// HandlePriceHistory handles GET /api/models/:key/price-history
func (s *Service) HandlePriceHistory(c *gin.Context) {
	history, err := s.GetPriceHistory(c.Request.Context(), c.Param("key"))
	if err != nil {
		s.writeError(c, err, "Failed to load price history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// HandleSummaryMetrics handles GET /api/metrics/summary
// Query parameters: modelKey (optional)
func (s *Service) HandleSummaryMetrics(c *gin.Context) {
	metrics, err := s.GetSummaryMetrics(c.Request.Context(), c.Query("modelKey"))
	if err != nil {
		s.writeError(c, err, "Failed to load summary metrics")
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (s *Service) writeError(c *gin.Context, err error, message string) {
	if errors.Is(err, ErrUnknownModel) {
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpModelNotFoundError,
			Message:   err.Error(),
		})
		return
	}

	slog.Error("[Listings] Request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   message,
		Details:   err.Error(),
	})
}
