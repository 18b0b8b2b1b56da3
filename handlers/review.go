package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhub/middleware"
	"stayhub/services/review"
	"stayhub/utils"
)

// ReviewHandler exposes review endpoints.
type ReviewHandler struct {
	reviews review.ReviewService
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req struct {
		BookingID string `json:"bookingId" binding:"required"`
		Rating    int    `json:"rating" binding:"required"`
		Comment   string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("bookingId and rating are required"))
		return
	}
	created, err := h.reviews.Create(c.Request.Context(), middleware.UserID(c), req.BookingID, req.Rating, req.Comment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ReviewHandler) ListByHotel(c *gin.Context) {
	reviews, err := h.reviews.ListByHotel(c.Request.Context(), c.Param("hotelId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
