package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"stayhub/handlers"
	"stayhub/middleware"
)

// RegisterRoutes attaches all endpoints to the engine. The webhook route sits
// outside the rate-limited API group; Stripe controls its own delivery rate
// and must never be throttled into redelivery storms.
func RegisterRoutes(r *gin.Engine, h *handlers.HandlerBundle) {
	r.GET("/health", handlers.Health)
	r.POST("/webhooks/stripe", h.Webhook.HandleStripe)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rate.Limit(10), 30))

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/verify", h.Auth.VerifyEmail)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/password/forgot", h.Auth.RequestPasswordReset)
		auth.POST("/password/reset", h.Auth.ResetPassword)
	}

	// Public catalog and availability.
	api.GET("/hotels", h.Hotel.List)
	api.GET("/hotels/:hotelId", h.Hotel.Get)
	api.GET("/hotels/:hotelId/rooms", h.Room.List)
	api.GET("/hotels/:hotelId/rooms/:roomId", h.Room.Get)
	api.GET("/hotels/:hotelId/availability", h.Availability.Summarize)
	api.GET("/hotels/:hotelId/rooms/:roomId/calendar", h.Availability.Calendar)
	api.GET("/hotels/:hotelId/reviews", h.Review.ListByHotel)
	api.GET("/hotels/:hotelId/offers", h.Offer.List)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/me", h.User.GetProfile)
		authed.PATCH("/me", h.User.UpdateName)
		authed.POST("/me/favorites/:hotelId", h.User.ToggleFavorite)
		authed.GET("/me/loyalty", h.User.LoyaltyBalance)

		authed.POST("/bookings", h.Booking.Create)
		authed.POST("/bookings/quote", h.Booking.Quote)
		authed.GET("/bookings", h.Booking.ListMine)
		authed.GET("/bookings/:bookingId", h.Booking.Get)
		authed.GET("/bookings/:bookingId/invoice", h.Booking.Invoice)
		authed.POST("/bookings/:bookingId/invoice/resend", h.Booking.ResendInvoice)
		authed.POST("/bookings/:bookingId/cancel", h.Booking.Cancel)
		authed.POST("/bookings/:bookingId/retry-payment", h.Booking.RetryPayment)

		authed.POST("/reviews", h.Review.Create)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/users", h.User.ListUsers)

		admin.POST("/hotels", h.Hotel.Create)
		admin.PUT("/hotels/:hotelId", h.Hotel.Update)
		admin.PATCH("/hotels/:hotelId/active", h.Hotel.SetActive)
		admin.DELETE("/hotels/:hotelId", h.Hotel.Delete)
		admin.POST("/hotels/:hotelId/images", h.Hotel.UploadImage)
		admin.DELETE("/hotels/:hotelId/images", h.Hotel.DeleteImage)

		admin.POST("/hotels/:hotelId/rooms", h.Room.Create)
		admin.PUT("/hotels/:hotelId/rooms/:roomId", h.Room.Update)
		admin.DELETE("/hotels/:hotelId/rooms/:roomId", h.Room.Delete)
		admin.POST("/hotels/:hotelId/rooms/:roomId/images", h.Room.UploadImage)

		admin.POST("/hotels/:hotelId/offers", h.Offer.Create)
		admin.GET("/offers/:offerId", h.Offer.Get)
		admin.PUT("/offers/:offerId", h.Offer.Update)
		admin.POST("/offers/:offerId/deactivate", h.Offer.Deactivate)

		admin.GET("/bookings", h.Booking.ListAll)
		admin.GET("/hotels/:hotelId/bookings", h.Booking.ListForHotel)
		admin.POST("/bookings/:bookingId/refund", h.Booking.Refund)
		admin.POST("/bookings/:bookingId/checkin", h.Booking.CheckIn)
		admin.POST("/bookings/:bookingId/complete", h.Booking.Complete)
	}
}
