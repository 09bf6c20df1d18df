package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"minpaku/internal/app/dto"
	authsvc "minpaku/internal/app/services/auth"
	domainauth "minpaku/internal/domain/auth"
	domainuser "minpaku/internal/domain/user"
)

type AuthHandler struct {
	Service *authsvc.Service
	Logger  *slog.Logger
}

type signupRequest struct {
	Name            string `json:"name"`
	Furigana        string `json:"furigana"`
	PostalCode      string `json:"postal_code"`
	Address         string `json:"address"`
	PhoneNumber     string `json:"phone_number"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h AuthHandler) Signup(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	u, err := h.Service.Signup(c.Request.Context(), authsvc.SignupParams{
		Name:            req.Name,
		Furigana:        req.Furigana,
		PostalCode:      req.PostalCode,
		Address:         req.Address,
		PhoneNumber:     req.PhoneNumber,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapUserProfile(u))
}

func (h AuthHandler) Verify(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	token := strings.TrimSpace(c.Query("token"))
	u, err := h.Service.Verify(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domainauth.ErrTokenRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		case errors.Is(err, domainauth.ErrVerificationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "verification token not found"})
		default:
			if h.Logger != nil {
				h.Logger.Error("verification failed", "error", err)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.MapUserProfile(u))
}

func (h AuthHandler) Login(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := h.Service.Login(c.Request.Context(), authsvc.LoginParams{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAuthResponse(result.User, result.Token))
}

func (h AuthHandler) Logout(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	token := bearerTokenFromContext(c)
	if err := h.Service.Logout(c.Request.Context(), token); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("logout failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AuthHandler) Me(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return
	}
	c.JSON(http.StatusOK, dto.UserProfile{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      p.Role,
		Enabled:   true,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
}

type profileUpdateRequest struct {
	Name        string `json:"name"`
	Furigana    string `json:"furigana"`
	PostalCode  string `json:"postal_code"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

func (h AuthHandler) UpdateMe(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	u, err := h.Service.UpdateProfile(c.Request.Context(), domainuser.ID(p.ID), authsvc.ProfileParams{
		Name:        req.Name,
		Furigana:    req.Furigana,
		PostalCode:  req.PostalCode,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapUserProfile(u))
}

func (h AuthHandler) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, authsvc.ErrUserNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": "email address not verified"})
	case errors.Is(err, authsvc.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  err.Error(),
			"errors": []gin.H{{"field": "password_confirmation", "message": "password confirmation does not match"}},
		})
	case errors.Is(err, domainuser.ErrEmailAlreadyUsed):
		c.JSON(http.StatusConflict, gin.H{
			"error":  err.Error(),
			"errors": []gin.H{{"field": "email", "message": "email already used"}},
		})
	case errors.Is(err, authsvc.ErrPasswordTooShort),
		errors.Is(err, domainuser.ErrEmailRequired),
		errors.Is(err, domainuser.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("auth operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func bearerTokenFromContext(c *gin.Context) string {
	if p, ok := currentPrincipal(c); ok && p.Token != "" {
		return p.Token
	}
	header := c.GetHeader("Authorization")
	return extractBearerToken(header)
}

var _ AuthHTTP = (*AuthHandler)(nil)
