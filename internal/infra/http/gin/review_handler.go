package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"minpaku/internal/app/dto"
	reviewsvc "minpaku/internal/app/services/review"
	domainhouse "minpaku/internal/domain/house"
	domainreview "minpaku/internal/domain/review"
	domainuser "minpaku/internal/domain/user"
)

type ReviewHandler struct {
	Service *reviewsvc.Service
	Users   domainuser.Repository
	Logger  *slog.Logger
}

type reviewRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

func (h ReviewHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", domainhouse.DefaultPageSize)
	result, err := h.Service.ListByHouse(c.Request.Context(), domainhouse.HouseID(c.Param("id")), page, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("review list failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.MapReviewCollection(result))
}

func (h ReviewHandler) Post(c *gin.Context) {
	actor, ok := h.resolveActor(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	r, err := h.Service.Post(c.Request.Context(), actor, reviewsvc.PostParams{
		HouseID: domainhouse.HouseID(c.Param("id")),
		Score:   req.Score,
		Comment: req.Comment,
	})
	if err != nil {
		h.respondReviewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapReview(r))
}

func (h ReviewHandler) Update(c *gin.Context) {
	actor, ok := h.resolveActor(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	r, err := h.Service.Update(c.Request.Context(), actor, domainreview.ReviewID(c.Param("reviewId")), req.Score, req.Comment)
	if err != nil {
		h.respondReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReview(r))
}

func (h ReviewHandler) Delete(c *gin.Context) {
	actor, ok := h.resolveActor(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), actor, domainreview.ReviewID(c.Param("reviewId"))); err != nil {
		h.respondReviewError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h ReviewHandler) resolveActor(c *gin.Context) (*domainuser.User, bool) {
	p, ok := requireUser(c)
	if !ok {
		return nil, false
	}
	actor, err := h.Users.ByID(c.Request.Context(), domainuser.ID(p.ID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return nil, false
	}
	return actor, true
}

func (h ReviewHandler) respondReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainhouse.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "house not found"})
	case errors.Is(err, domainreview.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
	case errors.Is(err, domainreview.ErrInvalidScore):
		c.JSON(http.StatusBadRequest, gin.H{"error": "score must be between 1 and 5"})
	case errors.Is(err, domainreview.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author may modify a review"})
	case errors.Is(err, reviewsvc.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": "review already posted for this house"})
	default:
		if h.Logger != nil {
			h.Logger.Error("review operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ ReviewHTTP = (*ReviewHandler)(nil)
