package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"minpaku/internal/app/services/auth"
	domainauth "minpaku/internal/domain/auth"
)

const principalContextKey = "minpaku.principal"

type principal struct {
	ID        string
	Email     string
	Name      string
	Role      string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p principal) HasRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return false
	}
	return strings.ToLower(p.Role) == role
}

type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	u := resolved.User
	setPrincipal(c, principal{
		ID:        string(u.ID),
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Token:     token,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
	c.Next()
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireUser(c *gin.Context) (principal, bool) {
	return requireRole(c, "")
}

func requireRole(c *gin.Context, role string) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	if role != "" && !p.HasRole(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return principal{}, false
	}
	return p, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	token := strings.TrimSpace(header[7:])
	return token
}
