package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

// Dates are RFC3339 timestamps; both ends of the range are inclusive.
type createBookingRequest struct {
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the admission route under properties and the read and
// delete routes under bookings.
func (h *BookingHandler) Register(properties, bookings *gin.RouterGroup, guards Guards) {
	properties.POST("/:id/bookings", guards.LoggedIn, h.create)
	bookings.GET("/:id", guards.LoggedIn, h.get)
	bookings.DELETE("/:id", guards.LoggedIn, h.delete)
}

func (h *BookingHandler) create(c *gin.Context) {
	propertyID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		PropertyID: propertyID,
		GuestID:    callerID(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	b, ok := h.authorized(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, ok := h.authorized(c, id); !ok {
		return
	}
	if err := h.service.DeleteBooking(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// authorized loads booking id and admits its guest or the owner of its
// property. Anything else aborts the request.
func (h *BookingHandler) authorized(c *gin.Context, id int64) (*domain.Booking, bool) {
	ctx := c.Request.Context()
	b, err := h.service.GetBooking(ctx, id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	caller := callerID(c)
	if b.GuestID == caller {
		return b, true
	}
	ownerID, err := h.service.GetOwnerID(ctx, b.PropertyID)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if ownerID != caller {
		unauthorized(c)
		return nil, false
	}
	return b, true
}
