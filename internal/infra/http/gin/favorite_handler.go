package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"minpaku/internal/app/dto"
	favoritesvc "minpaku/internal/app/services/favorite"
	domainfavorite "minpaku/internal/domain/favorite"
	domainhouse "minpaku/internal/domain/house"
)

type FavoriteHandler struct {
	Service *favoritesvc.Service
	Logger  *slog.Logger
}

// Add is idempotent: favoriting the same house twice still returns 204.
func (h FavoriteHandler) Add(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Service.Add(c.Request.Context(), domainhouse.HouseID(c.Param("id")), p.ID); err != nil {
		if errors.Is(err, domainhouse.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "house not found"})
			return
		}
		if h.Logger != nil {
			h.Logger.Error("favorite add failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h FavoriteHandler) Remove(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Service.Remove(c.Request.Context(), domainhouse.HouseID(c.Param("id")), p.ID); err != nil {
		if errors.Is(err, domainfavorite.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
			return
		}
		if h.Logger != nil {
			h.Logger.Error("favorite remove failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h FavoriteHandler) List(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", domainhouse.DefaultPageSize)
	result, err := h.Service.ListByUser(c.Request.Context(), p.ID, page, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("favorite list failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.MapFavoriteCollection(result))
}

var _ FavoriteHTTP = (*FavoriteHandler)(nil)
