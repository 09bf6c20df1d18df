package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"minpaku/internal/app/dto"
	catalogsvc "minpaku/internal/app/services/catalog"
	domainhouse "minpaku/internal/domain/house"
)

type HouseHandler struct {
	Service *catalogsvc.Service
	Logger  *slog.Logger
}

func (h HouseHandler) Search(c *gin.Context) {
	params := domainhouse.SearchParams{
		Keyword: c.Query("keyword"),
		Area:    c.Query("area"),
		Order:   domainhouse.SortOrder(c.Query("order")),
		Page:    queryInt(c, "page", 0),
		Size:    queryInt(c, "size", domainhouse.DefaultPageSize),
	}
	if raw := strings.TrimSpace(c.Query("max_price")); raw != "" {
		maxPrice, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || maxPrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_price must be a non-negative integer"})
			return
		}
		params.MaxPrice = maxPrice
	}
	result, err := h.Service.Search(c.Request.Context(), params)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("house search failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.MapHouseCatalog(result, params))
}

func (h HouseHandler) Home(c *gin.Context) {
	feed, err := h.Service.Home(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("home feed failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.MapHomeFeed(feed.Newest, feed.Popular))
}

func (h HouseHandler) Detail(c *gin.Context) {
	viewerID := ""
	if p, ok := currentPrincipal(c); ok {
		viewerID = p.ID
	}
	detail, err := h.Service.Detail(c.Request.Context(), domainhouse.HouseID(c.Param("id")), viewerID)
	if err != nil {
		if errors.Is(err, domainhouse.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "house not found"})
			return
		}
		if h.Logger != nil {
			h.Logger.Error("house detail failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	reviews := make([]dto.Review, 0, len(detail.Reviews))
	for _, rv := range detail.Reviews {
		reviews = append(reviews, dto.MapReview(rv))
	}
	c.JSON(http.StatusOK, gin.H{
		"house":             dto.MapHouseDetail(detail.House),
		"reviews":           reviews,
		"has_posted_review": detail.HasPostedReview,
		"has_favorite":      detail.HasFavorite,
	})
}

var _ HouseHTTP = (*HouseHandler)(nil)
