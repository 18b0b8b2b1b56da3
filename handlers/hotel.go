package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhub/middleware"
	"stayhub/models"
	"stayhub/services/hotel"
	"stayhub/utils"
)

// HotelHandler exposes the hotel catalog endpoints. Mutations are admin only.
type HotelHandler struct {
	hotels hotel.HotelService
}

func (h *HotelHandler) Create(c *gin.Context) {
	var input models.Hotel
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ValidationError("invalid hotel payload"))
		return
	}
	created, err := h.hotels.Create(c.Request.Context(), &input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *HotelHandler) Get(c *gin.Context) {
	found, err := h.hotels.GetByID(c.Request.Context(), c.Param("hotelId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *HotelHandler) List(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true" && middleware.IsAdmin(c)
	hotels, err := h.hotels.List(c.Request.Context(), includeInactive)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotels)
}

func (h *HotelHandler) Update(c *gin.Context) {
	var input models.Hotel
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ValidationError("invalid hotel payload"))
		return
	}
	input.ID = c.Param("hotelId")
	if err := h.hotels.Update(c.Request.Context(), &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "hotel updated"})
}

func (h *HotelHandler) SetActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("active flag is required"))
		return
	}
	if err := h.hotels.SetActive(c.Request.Context(), c.Param("hotelId"), *req.Active); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "hotel updated"})
}

func (h *HotelHandler) Delete(c *gin.Context) {
	if err := h.hotels.Delete(c.Request.Context(), c.Param("hotelId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "hotel deleted"})
}

func (h *HotelHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, utils.ValidationError("image file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, utils.ValidationError("could not read uploaded file"))
		return
	}
	defer file.Close()

	img, err := h.hotels.AddImage(c.Request.Context(), c.Param("hotelId"), file)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

func (h *HotelHandler) DeleteImage(c *gin.Context) {
	if err := h.hotels.RemoveImage(c.Request.Context(), c.Param("hotelId"), c.Query("publicId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image removed"})
}
