package handler

import (
	"errors"
	"net/http"

	"github.com/erp/customers/internal/domain/shared"
	"github.com/erp/customers/internal/infrastructure/logger"
	"github.com/erp/customers/internal/interfaces/http/dto"
	"github.com/erp/customers/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// invalidBodyMessage is returned when the request body is empty or not JSON
const invalidBodyMessage = "Invalid Customer: body of request contained bad or no data"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(statusCode, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, message)
}

// HandleDomainError converts domain errors to HTTP responses.
// Server-side failures are logged and answered with a generic message.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		statusCode := dto.GetHTTPStatus(domainErr.Code)
		if statusCode < http.StatusInternalServerError {
			h.Error(c, statusCode, domainErr.Message)
			return
		}
	}

	logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}

// bindPayload decodes the JSON body into an untyped value.
// It writes the error response itself and reports whether decoding worked.
func (h *BaseHandler) bindPayload(c *gin.Context) (any, bool) {
	payload, err := decodePayload(c)
	if err != nil {
		h.writeBindError(c, err)
		return nil, false
	}
	return payload, true
}

func decodePayload(c *gin.Context) (any, error) {
	var payload any
	if err := c.ShouldBindJSON(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// writeBindError answers an error from decodePayload: 413 for an oversized
// body, 400 for everything else
func (h *BaseHandler) writeBindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.Error(c, http.StatusRequestEntityTooLarge, "Request body exceeds maximum allowed size")
		return
	}
	logger.GetGinLogger(c).Debug("Undecodable request body", zap.Error(err))
	h.BadRequest(c, invalidBodyMessage)
}

// absoluteURL resolves path against the scheme and host the request came in on
func absoluteURL(c *gin.Context, path string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	} else if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + path
}
