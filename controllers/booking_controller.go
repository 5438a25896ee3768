// controllers/booking_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-bookings/models"
	"storefront-bookings/services"
)

// CreateBookingRequest accepts customer_id as a string or a number.
type CreateBookingRequest struct {
	BookingDate string            `json:"booking_date"`
	CustomerID  models.FlexString `json:"customer_id"`
}

type BookingController struct {
	BookingSvc *services.BookingService
	Log        *zap.Logger
}

func NewBookingController(svc *services.BookingService, log *zap.Logger) *BookingController {
	return &BookingController{BookingSvc: svc, Log: log}
}

// GET /bookings?date=YYYY-MM-DD
func (bc *BookingController) GetBookings(c *gin.Context) {
	bookings, err := bc.BookingSvc.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		bc.Log.Error("list bookings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// POST /bookings
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	booking, err := bc.BookingSvc.CreateManual(c.Request.Context(), req.BookingDate, req.CustomerID.String())
	switch {
	case errors.Is(err, services.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing booking_date or customer_id"})
		return
	case errors.Is(err, services.ErrBookingExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This date is already booked."})
		return
	case err != nil:
		bc.Log.Error("create booking failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Booking created successfully", "booking": booking})
}

// GET /bookings/booked-dates?category=service|event_rental|event_decor
// Without a category every booked date is returned.
func (bc *BookingController) GetBookedDates(c *gin.Context) {
	var category models.BookingCategory
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		parsed, ok := models.ParseBookingCategory(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		category = parsed
	}

	dates, err := bc.BookingSvc.BookedDates(c.Request.Context(), category)
	if err != nil {
		bc.Log.Error("list booked dates failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": dates})
}
