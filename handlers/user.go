package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhub/middleware"
	"stayhub/services/loyalty"
	"stayhub/services/user"
	"stayhub/utils"
)

// UserHandler exposes profile and loyalty endpoints.
type UserHandler struct {
	users   user.UserService
	loyalty loyalty.LoyaltyService
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateName(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("name is required"))
		return
	}
	if err := h.users.UpdateName(c.Request.Context(), middleware.UserID(c), req.Name); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

func (h *UserHandler) ToggleFavorite(c *gin.Context) {
	favorites, err := h.users.ToggleFavorite(c.Request.Context(), middleware.UserID(c), c.Param("hotelId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (h *UserHandler) LoyaltyBalance(c *gin.Context) {
	balance, err := h.loyalty.Balance(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loyaltyCoins": balance})
}

// ListUsers is admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
