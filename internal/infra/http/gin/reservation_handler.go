package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"minpaku/internal/app/dto"
	"minpaku/internal/app/policies"
	bookingsvc "minpaku/internal/app/services/booking"
	domainhouse "minpaku/internal/domain/house"
	domainreservation "minpaku/internal/domain/reservation"
	"minpaku/internal/infra/obs"
)

const dateLayout = "2006-01-02"

type ReservationHandler struct {
	Service *bookingsvc.Service
	Logger  *slog.Logger
}

type reservationInputRequest struct {
	CheckinDate    string `json:"checkin_date"`
	CheckoutDate   string `json:"checkout_date"`
	NumberOfPeople int    `json:"number_of_people"`
}

type reservationCreateRequest struct {
	PaymentRef string `json:"payment_ref"`
}

// Input validates the dates and party size against the house and stores the
// draft under the caller's session.
func (h ReservationHandler) Input(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req reservationInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	checkin, err := time.Parse(dateLayout, strings.TrimSpace(req.CheckinDate))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkin_date must be formatted as YYYY-MM-DD"})
		return
	}
	checkout, err := time.Parse(dateLayout, strings.TrimSpace(req.CheckoutDate))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkout_date must be formatted as YYYY-MM-DD"})
		return
	}
	draft, err := h.Service.Input(c.Request.Context(), bookingsvc.InputParams{
		SessionID:      p.Token,
		HouseID:        domainhouse.HouseID(c.Param("id")),
		CheckinDate:    checkin,
		CheckoutDate:   checkout,
		NumberOfPeople: req.NumberOfPeople,
	})
	if err != nil {
		var validation *domainreservation.ValidationError
		switch {
		case errors.As(err, &validation):
			// Echo the submitted dates so the form can re-render them.
			c.JSON(http.StatusBadRequest, gin.H{
				"error":         "invalid reservation input",
				"errors":        validation.Fields,
				"checkin_date":  req.CheckinDate,
				"checkout_date": req.CheckoutDate,
			})
		case errors.Is(err, domainhouse.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "house not found"})
		default:
			if h.Logger != nil {
				h.Logger.Error("reservation input failed",
					"error", err,
					"request_id", obs.RequestIDFromContext(c.Request.Context()))
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.MapDraftSummary(draft))
}

// Confirm replays the pending draft and opens the payment session the client
// must complete before finalizing.
func (h ReservationHandler) Confirm(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	confirmation, err := h.Service.Confirm(c.Request.Context(), p.Token)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Confirmation{
		Draft:       dto.MapDraftSummary(confirmation.Draft),
		HouseName:   confirmation.House.Name,
		PaymentID:   confirmation.PaymentID,
		RedirectURL: confirmation.RedirectURL,
	})
}

// Create finalizes the draft into a persisted reservation. Replaying the same
// payment reference returns the stored reservation instead of a duplicate.
func (h ReservationHandler) Create(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req reservationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	r, err := h.Service.Finalize(c.Request.Context(), bookingsvc.FinalizeParams{
		SessionID:  p.Token,
		UserID:     p.ID,
		PaymentRef: strings.TrimSpace(req.PaymentRef),
	})
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapReservation(r))
}

func (h ReservationHandler) List(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", domainhouse.DefaultPageSize)
	result, err := h.Service.ListByUser(c.Request.Context(), p.ID, page, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("reservation list failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.MapReservationCollection(result))
}

func (h ReservationHandler) respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainreservation.ErrDraftMissing):
		c.JSON(http.StatusConflict, gin.H{"error": "no pending reservation for this session", "code": "session_expired"})
	case errors.Is(err, domainreservation.ErrPaymentRefMissing):
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_ref is required"})
	case errors.Is(err, domainreservation.ErrPaymentRefInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "payment reference already used"})
	case errors.Is(err, domainhouse.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "house not found"})
	case errors.Is(err, policies.ErrPaymentRejected):
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider rejected the session"})
	case errors.Is(err, policies.ErrPaymentUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment provider unavailable"})
	case errors.Is(err, policies.ErrPaymentInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("reservation operation failed",
				"error", err,
				"request_id", obs.RequestIDFromContext(c.Request.Context()))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

var _ ReservationHTTP = (*ReservationHandler)(nil)
