package handler

import (
	"net/http"

	"github.com/erp/customers/internal/infrastructure/logger"
	"github.com/erp/customers/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service identity reported by the index route
const (
	ServiceName    = "Customer REST API Service"
	ServiceVersion = "1.0"
)

// Pinger checks that the backing store answers
type Pinger interface {
	Ping() error
}

// SystemHandler serves the index and health routes
type SystemHandler struct {
	BaseHandler
	db       Pinger
	listPath string
}

// NewSystemHandler creates a new SystemHandler. listPath is the path of the
// customer collection advertised by the index route.
func NewSystemHandler(db Pinger, listPath string) *SystemHandler {
	return &SystemHandler{
		db:       db,
		listPath: listPath,
	}
}

// Index godoc
// @ID           getIndex
// @Summary      Service information
// @Description  Name and version of the service and the URL of the customer collection
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.IndexResponse
// @Router       / [get]
func (h *SystemHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, dto.IndexResponse{
		Name:    ServiceName,
		Version: ServiceVersion,
		Paths:   absoluteURL(c, h.listPath),
	})
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Reports whether the service can reach its database
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.HealthResponse
// @Failure      503 {object} dto.HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
				Status:  http.StatusServiceUnavailable,
				Message: "Unhealthy",
			})
			return
		}
	}
	c.JSON(http.StatusOK, dto.HealthResponse{Status: http.StatusOK, Message: "Healthy"})
}
