package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scm-platform/transport-service/internal/application"
	"github.com/scm-platform/transport-service/internal/domain"
	"github.com/scm-platform/transport-service/pkg/errors"
	"github.com/scm-platform/transport-service/pkg/logging"
	"github.com/scm-platform/transport-service/pkg/middleware"
)

// TransportService defines the application operations the handlers expose
type TransportService interface {
	CreateRequest(ctx context.Context, principal domain.Principal, cmd application.CreateTransportRequestCommand) (*application.TransportRequestDTO, error)
	GetRequest(ctx context.Context, query application.GetTransportRequestQuery) (*application.TransportRequestDTO, error)
	ListRequests(ctx context.Context, query application.ListTransportRequestsQuery) ([]application.TransportRequestDTO, error)
	TransitionStatus(ctx context.Context, cmd application.TransitionStatusCommand) (*application.TransportRequestDTO, error)
	DeleteRequest(ctx context.Context, cmd application.DeleteTransportRequestCommand) error
}

// TransportHandlers contains handlers for transport request operations
type TransportHandlers struct {
	service TransportService
	logger  *logging.Logger
}

// NewTransportHandlers creates a new TransportHandlers
func NewTransportHandlers(service TransportService, logger *logging.Logger) *TransportHandlers {
	return &TransportHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers transport request routes on the router
func (h *TransportHandlers) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/transport-requests")
	requests.Use(RequirePrincipal())
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListRequests)
		requests.GET("/:shortId", h.GetRequest)
		requests.PUT("/:shortId/status", h.TransitionStatus)
		requests.DELETE("/:shortId", h.DeleteRequest)
	}
}

// CreateRequest handles transport request creation by a sender
func (h *TransportHandlers) CreateRequest(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	principal, ok := GetPrincipal(c)
	if !ok {
		responder.RespondWithAppError(errors.ErrUnauthorized("no principal"))
		return
	}

	var req struct {
		RequestID       string `json:"requestId" binding:"required,short_id"`
		ReceiverID      string `json:"receiverId" binding:"required"`
		ReceiverType    string `json:"receiverType" binding:"required"`
		TransporterID   string `json:"transporterId" binding:"required"`
		TransporterName string `json:"transporterName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responder.RespondValidationError(err.Error(), nil)
		return
	}

	cmd := application.CreateTransportRequestCommand{
		RequestID:       req.RequestID,
		SenderID:        principal.ID,
		SenderType:      string(principal.Role),
		ReceiverID:      req.ReceiverID,
		ReceiverType:    req.ReceiverType,
		TransporterID:   req.TransporterID,
		TransporterName: req.TransporterName,
	}

	request, err := h.service.CreateRequest(c.Request.Context(), principal, cmd)
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListRequests handles listing the acting transporter's requests
func (h *TransportHandlers) ListRequests(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	principal, ok := GetPrincipal(c)
	if !ok || principal.Role != domain.RoleTransporter {
		responder.RespondForbidden("only transporters may list transport requests")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	requests, err := h.service.ListRequests(c.Request.Context(), application.ListTransportRequestsQuery{
		TransporterID: principal.ID,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests, "count": len(requests)})
}

// GetRequest handles getting a transport request by short ID
func (h *TransportHandlers) GetRequest(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	principal, ok := GetPrincipal(c)
	if !ok {
		responder.RespondWithAppError(errors.ErrUnauthorized("no principal"))
		return
	}

	shortID := c.Param("shortId")
	if !middleware.IsValidTransportID(shortID) {
		responder.RespondBadRequest("invalid transport request id")
		return
	}

	request, err := h.service.GetRequest(c.Request.Context(), application.GetTransportRequestQuery{
		TransportRequestID: shortID,
		TransporterID:      principal.ID,
	})
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// TransitionStatus handles a transporter-initiated status transition
func (h *TransportHandlers) TransitionStatus(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	principal, ok := GetPrincipal(c)
	if !ok {
		responder.RespondWithAppError(errors.ErrUnauthorized("no principal"))
		return
	}

	shortID := c.Param("shortId")
	if !middleware.IsValidTransportID(shortID) {
		responder.RespondBadRequest("invalid transport request id")
		return
	}

	var req struct {
		Status             string     `json:"status" binding:"required"`
		ActualDeliveryDate *time.Time `json:"actualDeliveryDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responder.RespondValidationError(err.Error(), nil)
		return
	}

	request, err := h.service.TransitionStatus(c.Request.Context(), application.TransitionStatusCommand{
		TransportRequestID: shortID,
		TransporterID:      principal.ID,
		Status:             req.Status,
		ActualDeliveryDate: req.ActualDeliveryDate,
	})
	if err != nil {
		h.respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// DeleteRequest handles deleting a transport request
func (h *TransportHandlers) DeleteRequest(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	principal, ok := GetPrincipal(c)
	if !ok {
		responder.RespondWithAppError(errors.ErrUnauthorized("no principal"))
		return
	}

	shortID := c.Param("shortId")
	if !middleware.IsValidTransportID(shortID) {
		responder.RespondBadRequest("invalid transport request id")
		return
	}

	if err := h.service.DeleteRequest(c.Request.Context(), application.DeleteTransportRequestCommand{
		TransportRequestID: shortID,
		TransporterID:      principal.ID,
	}); err != nil {
		h.respondError(responder, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TransportHandlers) respondError(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		responder.RespondWithAppError(appErr)
		return
	}
	responder.RespondInternalError(err)
}
