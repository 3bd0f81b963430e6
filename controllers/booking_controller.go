package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/fitvault/tracker"
	"github.com/cppla/fitvault/utils"
)

// BookingController appends to and lists the trainer bookings ledger.
type BookingController struct {
	bookings *tracker.Bookings
}

func NewBookingController(b *tracker.Bookings) *BookingController {
	return &BookingController{bookings: b}
}

type bookingRequest struct {
	TrainerID   int    `json:"trainerId" binding:"required"`
	TrainerName string `json:"trainerName" binding:"required"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes"`
}

// ListBookings returns the ledger in insertion order.
func (b *BookingController) ListBookings(ctx *gin.Context) {
	utils.Success(ctx, b.bookings.List(ctx.Request.Context()))
}

// CreateBooking books a session. The id is always assigned by the server.
func (b *BookingController) CreateBooking(ctx *gin.Context) {
	var req bookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid booking payload")
		return
	}
	booking, err := b.bookings.Book(ctx.Request.Context(),
		req.TrainerID,
		utils.SanitizeText(req.TrainerName),
		req.Date,
		req.Time,
		utils.SanitizeText(req.Notes),
	)
	if err != nil {
		respondWriteError(ctx, err, 50060)
		return
	}
	utils.Created(ctx, booking)
}
