package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/scm-platform/transport-service/internal/domain"
	"github.com/scm-platform/transport-service/pkg/errors"
	"github.com/scm-platform/transport-service/pkg/middleware"
)

const principalKey = "principal"

// Identity headers set by the API gateway after token verification.
// This service trusts them.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// RequirePrincipal extracts the acting principal from the identity
// headers and aborts with 401 when they are missing or malformed.
func RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderUserID)
		role := domain.Role(c.GetHeader(HeaderUserRole))

		if id == "" || !role.IsValid() {
			middleware.AbortWithAppError(c, errors.ErrUnauthorized("missing or invalid identity headers"))
			return
		}

		c.Set(principalKey, domain.Principal{ID: id, Role: role})
		c.Next()
	}
}

// GetPrincipal returns the principal stored by RequirePrincipal
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return domain.Principal{}, false
	}
	principal, ok := value.(domain.Principal)
	return principal, ok
}
