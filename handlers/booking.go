package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stayhub/middleware"
	"stayhub/services/booking"
	"stayhub/utils"
)

// BookingHandler exposes the reservation endpoints.
type BookingHandler struct {
	bookings booking.BookingService
}

type bookingRequest struct {
	HotelID         string `json:"hotelId" binding:"required"`
	RoomID          string `json:"roomId" binding:"required"`
	CheckIn         string `json:"checkIn" binding:"required"`
	CheckOut        string `json:"checkOut" binding:"required"`
	Guests          int    `json:"guests" binding:"required"`
	SpecialRequests string `json:"specialRequests"`
	OfferCode       string `json:"offerCode"`
	CoinsToUse      int    `json:"coinsToUse"`
}

func (r bookingRequest) toInput(userID string) booking.CreateInput {
	return booking.CreateInput{
		UserID:          userID,
		HotelID:         r.HotelID,
		RoomID:          r.RoomID,
		CheckIn:         r.CheckIn,
		CheckOut:        r.CheckOut,
		Guests:          r.Guests,
		SpecialRequests: r.SpecialRequests,
		OfferCode:       r.OfferCode,
		CoinsToUse:      r.CoinsToUse,
	}
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("hotelId, roomId, checkIn, checkOut and guests are required"))
		return
	}
	result, err := h.bookings.Create(c.Request.Context(), req.toInput(middleware.UserID(c)))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Quote prices a prospective stay without reserving anything.
func (h *BookingHandler) Quote(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("hotelId, roomId, checkIn, checkOut and guests are required"))
		return
	}
	quote, err := h.bookings.PreviewQuote(c.Request.Context(), req.toInput(middleware.UserID(c)))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *BookingHandler) Get(c *gin.Context) {
	bkg, err := h.bookings.GetByID(c.Request.Context(), c.Param("bookingId"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bkg)
}

// Invoice returns the canonical money breakdown for a booking.
func (h *BookingHandler) Invoice(c *gin.Context) {
	bkg, err := h.bookings.GetByID(c.Request.Context(), c.Param("bookingId"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookingId": bkg.ID,
		"totals":    bkg.Totals(),
		"status":    bkg.Status,
		"payment":   bkg.PaymentStatus,
	})
}

// ResendInvoice re-sends the confirmation email for a paid booking.
func (h *BookingHandler) ResendInvoice(c *gin.Context) {
	err := h.bookings.ResendConfirmation(c.Request.Context(), c.Param("bookingId"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "confirmation email queued"})
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	bookings, err := h.bookings.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListForHotel is admin only; supports ?status=a,b and ?userId= filters.
func (h *BookingHandler) ListForHotel(c *gin.Context) {
	var statuses []string
	if raw := c.Query("status"); raw != "" {
		statuses = strings.Split(raw, ",")
	}
	bookings, err := h.bookings.ListForHotel(c.Request.Context(), c.Param("hotelId"), statuses, c.Query("userId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListAll is admin only.
func (h *BookingHandler) ListAll(c *gin.Context) {
	bookings, err := h.bookings.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	bkg, err := h.bookings.Cancel(c.Request.Context(), c.Param("bookingId"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bkg)
}

// Refund is admin only and idempotent.
func (h *BookingHandler) Refund(c *gin.Context) {
	bkg, err := h.bookings.Refund(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bkg)
}

// CheckIn is admin only (front desk).
func (h *BookingHandler) CheckIn(c *gin.Context) {
	bkg, err := h.bookings.CheckIn(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bkg)
}

// Complete is admin only (front desk checkout).
func (h *BookingHandler) Complete(c *gin.Context) {
	bkg, err := h.bookings.Complete(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bkg)
}

// RetryPayment re-issues a confirmable payment intent for a pending booking.
func (h *BookingHandler) RetryPayment(c *gin.Context) {
	intent, err := h.bookings.RetryPayment(c.Request.Context(), c.Param("bookingId"), middleware.UserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}
