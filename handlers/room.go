package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stayhub/models"
	"stayhub/services/room"
	"stayhub/utils"
)

// RoomHandler exposes room catalog endpoints scoped under a hotel.
type RoomHandler struct {
	rooms room.RoomService
}

func (h *RoomHandler) Create(c *gin.Context) {
	var input models.Room
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ValidationError("invalid room payload"))
		return
	}
	input.HotelID = c.Param("hotelId")
	created, err := h.rooms.Create(c.Request.Context(), &input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RoomHandler) Get(c *gin.Context) {
	found, err := h.rooms.Get(c.Request.Context(), c.Param("hotelId"), c.Param("roomId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *RoomHandler) List(c *gin.Context) {
	minGuests, _ := strconv.Atoi(c.DefaultQuery("minGuests", "0"))
	rooms, err := h.rooms.ListByHotel(c.Request.Context(), c.Param("hotelId"), minGuests)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) Update(c *gin.Context) {
	var input models.Room
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.ValidationError("invalid room payload"))
		return
	}
	input.ID = c.Param("roomId")
	input.HotelID = c.Param("hotelId")
	if err := h.rooms.Update(c.Request.Context(), &input); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room updated"})
}

func (h *RoomHandler) Delete(c *gin.Context) {
	if err := h.rooms.Delete(c.Request.Context(), c.Param("hotelId"), c.Param("roomId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room deleted"})
}

func (h *RoomHandler) UploadImage(c *gin.Context) {
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

	img, err := h.rooms.AddImage(c.Request.Context(), c.Param("hotelId"), c.Param("roomId"), file)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}
