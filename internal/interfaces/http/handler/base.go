// Package handler holds the HTTP handlers of the assetdesk API. Handlers
// bind requests, resolve the acting team and hand off to application
// services; errors are mapped to the envelope in one place.
package handler

import (
	"net/http"

	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/assetdesk/backend/internal/interfaces/http/dto"
	"github.com/assetdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getTeamID returns the acting team. Auth guarantees it on every API
// route; a missing team answers 401 and reports false.
func getTeamID(c *gin.Context) (uuid.UUID, bool) {
	teamID, ok := middleware.GetTeamID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail(
			dto.ErrCodeUnauthorized, "Team not resolved", middleware.GetRequestID(c)))
		return uuid.Nil, false
	}
	return teamID, true
}

// parseID parses the named path parameter as a UUID
func (h *BaseHandler) parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.BadRequest(c, "Invalid "+param+" format")
		return uuid.Nil, false
	}
	return id, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.OK(data))
}

// Paged sends one page of a listing
func (h *BaseHandler) Paged(c *gin.Context, data any, total int64, page, perPage int) {
	c.JSON(http.StatusOK, dto.Paged(data, dto.NewMeta(total, page, perPage)))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.OK(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status and code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.Fail(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Forbidden sends a 403 cross-team response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeCrossTeam, message)
}

// BindError answers a failed bind with 400 and field details
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(err, middleware.GetRequestID(c)))
}

// HandleError maps an application error to its status and envelope.
// Internal failures are logged with the request's identity; their cause
// never reaches the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, code, message := dto.StatusForError(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.String("code", code),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	h.Error(c, status, code, message)
}
