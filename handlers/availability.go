package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stayhub/services/availability"
	"stayhub/utils"
)

// AvailabilityHandler exposes the public availability endpoints.
type AvailabilityHandler struct {
	availability availability.AvailabilityService
}

// Summarize answers GET /hotels/:hotelId/availability?checkIn=&checkOut=&minGuests=.
func (h *AvailabilityHandler) Summarize(c *gin.Context) {
	checkIn := c.Query("checkIn")
	checkOut := c.Query("checkOut")
	if checkIn == "" || checkOut == "" {
		utils.RespondError(c, utils.ValidationError("checkIn and checkOut query parameters are required"))
		return
	}
	minGuests, _ := strconv.Atoi(c.DefaultQuery("minGuests", "0"))

	summary, err := h.availability.Summarize(c.Request.Context(), c.Param("hotelId"), checkIn, checkOut, minGuests)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Calendar answers GET /hotels/:hotelId/rooms/:roomId/calendar?from=&to=.
func (h *AvailabilityHandler) Calendar(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		utils.RespondError(c, utils.ValidationError("from and to query parameters are required"))
		return
	}

	days, err := h.availability.Calendar(c.Request.Context(), c.Param("hotelId"), c.Param("roomId"), from, to)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomId": c.Param("roomId"), "days": days})
}
