package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scm-platform/transport-service/internal/application"
	"github.com/scm-platform/transport-service/internal/domain"
	"github.com/scm-platform/transport-service/pkg/errors"
	"github.com/scm-platform/transport-service/pkg/logging"
	"github.com/scm-platform/transport-service/pkg/middleware"
)

type mockTransportService struct {
	createFn     func(ctx context.Context, principal domain.Principal, cmd application.CreateTransportRequestCommand) (*application.TransportRequestDTO, error)
	getFn        func(ctx context.Context, query application.GetTransportRequestQuery) (*application.TransportRequestDTO, error)
	listFn       func(ctx context.Context, query application.ListTransportRequestsQuery) ([]application.TransportRequestDTO, error)
	transitionFn func(ctx context.Context, cmd application.TransitionStatusCommand) (*application.TransportRequestDTO, error)
	deleteFn     func(ctx context.Context, cmd application.DeleteTransportRequestCommand) error
}

func (m *mockTransportService) CreateRequest(ctx context.Context, principal domain.Principal, cmd application.CreateTransportRequestCommand) (*application.TransportRequestDTO, error) {
	if m.createFn == nil {
		panic("CreateRequest not implemented")
	}
	return m.createFn(ctx, principal, cmd)
}

func (m *mockTransportService) GetRequest(ctx context.Context, query application.GetTransportRequestQuery) (*application.TransportRequestDTO, error) {
	if m.getFn == nil {
		panic("GetRequest not implemented")
	}
	return m.getFn(ctx, query)
}

func (m *mockTransportService) ListRequests(ctx context.Context, query application.ListTransportRequestsQuery) ([]application.TransportRequestDTO, error) {
	if m.listFn == nil {
		panic("ListRequests not implemented")
	}
	return m.listFn(ctx, query)
}

func (m *mockTransportService) TransitionStatus(ctx context.Context, cmd application.TransitionStatusCommand) (*application.TransportRequestDTO, error) {
	if m.transitionFn == nil {
		panic("TransitionStatus not implemented")
	}
	return m.transitionFn(ctx, cmd)
}

func (m *mockTransportService) DeleteRequest(ctx context.Context, cmd application.DeleteTransportRequestCommand) error {
	if m.deleteFn == nil {
		panic("DeleteRequest not implemented")
	}
	return m.deleteFn(ctx, cmd)
}

func newTestRouter(service TransportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()
	router := gin.New()
	logger := logging.New(logging.DefaultConfig("test"))
	handlers := NewTransportHandlers(service, logger)
	handlers.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func performRequest(router *gin.Engine, method, path, body, userID, role string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	if role != "" {
		req.Header.Set(HeaderUserRole, role)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTransportHandlers_MissingIdentityHeaders(t *testing.T) {
	router := newTestRouter(&mockTransportService{})

	rec := performRequest(router, http.MethodGet, "/api/v1/transport-requests", "", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = performRequest(router, http.MethodGet, "/api/v1/transport-requests", "", "u-1", "astronaut")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "invalid role must be rejected")
}

func TestTransportHandlers_TransitionStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockTransportService{
			transitionFn: func(ctx context.Context, cmd application.TransitionStatusCommand) (*application.TransportRequestDTO, error) {
				assert.Equal(t, "t12abc345", cmd.TransportRequestID)
				assert.Equal(t, "trans-1", cmd.TransporterID)
				assert.Equal(t, "accepted", cmd.Status)
				return &application.TransportRequestDTO{ShortID: cmd.TransportRequestID, Status: "accepted"}, nil
			},
		}
		router := newTestRouter(service)

		rec := performRequest(router, http.MethodPut, "/api/v1/transport-requests/t12abc345/status", `{"status":"accepted"}`, "trans-1", "transporter")
		require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"status":"accepted"`)
	})

	t.Run("malformed short id", func(t *testing.T) {
		router := newTestRouter(&mockTransportService{})
		rec := performRequest(router, http.MethodPut, "/api/v1/transport-requests/nope/status", `{"status":"accepted"}`, "trans-1", "transporter")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing status", func(t *testing.T) {
		router := newTestRouter(&mockTransportService{})
		rec := performRequest(router, http.MethodPut, "/api/v1/transport-requests/t12abc345/status", `{}`, "trans-1", "transporter")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sync failure maps to 502", func(t *testing.T) {
		service := &mockTransportService{
			transitionFn: func(ctx context.Context, cmd application.TransitionStatusCommand) (*application.TransportRequestDTO, error) {
				return nil, errors.ErrSyncFailure("sender-side update failed")
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPut, "/api/v1/transport-requests/t12abc345/status", `{"status":"accepted"}`, "trans-1", "transporter")
		require.Equal(t, http.StatusBadGateway, rec.Code, "body: %s", rec.Body.String())
		assert.Contains(t, rec.Body.String(), errors.CodeSyncFailure)
	})

	t.Run("forbidden maps to 403", func(t *testing.T) {
		service := &mockTransportService{
			transitionFn: func(ctx context.Context, cmd application.TransitionStatusCommand) (*application.TransportRequestDTO, error) {
				return nil, errors.ErrForbidden("transport request belongs to another transporter")
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPut, "/api/v1/transport-requests/t12abc345/status", `{"status":"accepted"}`, "trans-2", "transporter")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid transition maps to 400", func(t *testing.T) {
		service := &mockTransportService{
			transitionFn: func(ctx context.Context, cmd application.TransitionStatusCommand) (*application.TransportRequestDTO, error) {
				return nil, errors.ErrInvalidTransition(`cannot move from "delivered" to "accepted"`)
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPut, "/api/v1/transport-requests/t12abc345/status", `{"status":"accepted"}`, "trans-1", "transporter")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransportHandlers_CreateRequest(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockTransportService{
			createFn: func(ctx context.Context, principal domain.Principal, cmd application.CreateTransportRequestCommand) (*application.TransportRequestDTO, error) {
				assert.Equal(t, "sup-1", principal.ID)
				assert.Equal(t, domain.RoleSupplier, principal.Role)
				return &application.TransportRequestDTO{ShortID: "t12abc345", Status: "pending"}, nil
			},
		}
		router := newTestRouter(service)

		body := `{"requestId":"r12abc4567","receiverId":"man-1","receiverType":"manufacturer","transporterId":"trans-1","transporterName":"Fast Freight"}`
		rec := performRequest(router, http.MethodPost, "/api/v1/transport-requests", body, "sup-1", "supplier")
		require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		router := newTestRouter(&mockTransportService{})
		rec := performRequest(router, http.MethodPost, "/api/v1/transport-requests", `{"requestId":"r12abc4567"}`, "sup-1", "supplier")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransportHandlers_ListRequests(t *testing.T) {
	t.Run("transporter lists own requests", func(t *testing.T) {
		service := &mockTransportService{
			listFn: func(ctx context.Context, query application.ListTransportRequestsQuery) ([]application.TransportRequestDTO, error) {
				assert.Equal(t, "trans-1", query.TransporterID)
				assert.Equal(t, 5, query.Limit)
				assert.Equal(t, 10, query.Offset)
				return []application.TransportRequestDTO{{ShortID: "t12abc345"}}, nil
			},
		}
		router := newTestRouter(service)

		rec := performRequest(router, http.MethodGet, "/api/v1/transport-requests?limit=5&offset=10", "", "trans-1", "transporter")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"count":1`)
	})

	t.Run("sender role is rejected", func(t *testing.T) {
		router := newTestRouter(&mockTransportService{})
		rec := performRequest(router, http.MethodGet, "/api/v1/transport-requests", "", "sup-1", "supplier")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestTransportHandlers_GetRequest(t *testing.T) {
	service := &mockTransportService{
		getFn: func(ctx context.Context, query application.GetTransportRequestQuery) (*application.TransportRequestDTO, error) {
			if query.TransportRequestID == "t12abc345" {
				return &application.TransportRequestDTO{ShortID: "t12abc345"}, nil
			}
			return nil, errors.ErrNotFoundWithID("transport request", query.TransportRequestID)
		},
	}
	router := newTestRouter(service)

	rec := performRequest(router, http.MethodGet, "/api/v1/transport-requests/t12abc345", "", "trans-1", "transporter")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(router, http.MethodGet, "/api/v1/transport-requests/t99zzz999", "", "trans-1", "transporter")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransportHandlers_DeleteRequest(t *testing.T) {
	service := &mockTransportService{
		deleteFn: func(ctx context.Context, cmd application.DeleteTransportRequestCommand) error {
			return nil
		},
	}
	router := newTestRouter(service)

	rec := performRequest(router, http.MethodDelete, "/api/v1/transport-requests/t12abc345", "", "trans-1", "transporter")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
