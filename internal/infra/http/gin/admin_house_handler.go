package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"minpaku/internal/app/dto"
	catalogsvc "minpaku/internal/app/services/catalog"
	domainhouse "minpaku/internal/domain/house"
	domainuser "minpaku/internal/domain/user"
)

type AdminHouseHandler struct {
	Service *catalogsvc.Service
	Users   domainuser.Repository
	Logger  *slog.Logger
}

type houseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Capacity    int    `json:"capacity"`
	PostalCode  string `json:"postal_code"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	ImageName   string `json:"image_name"`
}

func (h AdminHouseHandler) Create(c *gin.Context) {
	actor, ok := h.resolveAdmin(c)
	if !ok {
		return
	}
	var req houseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	created, err := h.Service.CreateHouse(c.Request.Context(), actor, houseParams(req))
	if err != nil {
		h.respondHouseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapHouseDetail(created))
}

func (h AdminHouseHandler) Update(c *gin.Context) {
	actor, ok := h.resolveAdmin(c)
	if !ok {
		return
	}
	var req houseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	updated, err := h.Service.UpdateHouse(c.Request.Context(), actor, domainhouse.HouseID(c.Param("id")), houseParams(req))
	if err != nil {
		h.respondHouseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHouseDetail(updated))
}

func (h AdminHouseHandler) Delete(c *gin.Context) {
	actor, ok := h.resolveAdmin(c)
	if !ok {
		return
	}
	if err := h.Service.DeleteHouse(c.Request.Context(), actor, domainhouse.HouseID(c.Param("id"))); err != nil {
		h.respondHouseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHouseHandler) resolveAdmin(c *gin.Context) (*domainuser.User, bool) {
	p, ok := requireRole(c, string(domainuser.RoleAdmin))
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

func (h AdminHouseHandler) respondHouseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainhouse.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "house not found"})
	case errors.Is(err, catalogsvc.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	case errors.Is(err, domainhouse.ErrNameRequired),
		errors.Is(err, domainhouse.ErrInvalidPrice),
		errors.Is(err, domainhouse.ErrInvalidCapacity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("house admin operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func houseParams(req houseRequest) catalogsvc.HouseParams {
	return catalogsvc.HouseParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Capacity:    req.Capacity,
		PostalCode:  req.PostalCode,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		ImageName:   req.ImageName,
	}
}

var _ AdminHouseHTTP = (*AdminHouseHandler)(nil)
