package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	offerRepo "stayhub/database/repository/offer"
	"stayhub/middleware"
	"stayhub/models"
	"stayhub/services/offer"
	"stayhub/utils"
)

// OfferHandler exposes offer management endpoints. Mutations are admin only.
type OfferHandler struct {
	offers offer.OfferService
}

func (h *OfferHandler) Create(c *gin.Context) {
	var input models.Offer
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ValidationError("invalid offer payload"))
		return
	}
	input.HotelID = c.Param("hotelId")
	input.CreatedBy = middleware.UserID(c)
	created, err := h.offers.Create(c.Request.Context(), &input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *OfferHandler) Get(c *gin.Context) {
	found, err := h.offers.GetByID(c.Request.Context(), c.Param("offerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *OfferHandler) List(c *gin.Context) {
	filter := offerRepo.ListFilter{
		HotelID: c.Param("hotelId"),
		Status:  c.Query("status"),
	}
	offers, err := h.offers.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *OfferHandler) Update(c *gin.Context) {
	var input models.Offer
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ValidationError("invalid offer payload"))
		return
	}
	input.ID = c.Param("offerId")
	if err := h.offers.Update(c.Request.Context(), &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "offer updated"})
}

func (h *OfferHandler) Deactivate(c *gin.Context) {
	deactivated, err := h.offers.Deactivate(c.Request.Context(), c.Param("offerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deactivated)
}
