package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"stayhub/config"
	"stayhub/cron"
	"stayhub/database"
	bookingRepo "stayhub/database/repository/booking"
	hotelRepo "stayhub/database/repository/hotel"
	offerRepo "stayhub/database/repository/offer"
	reviewRepo "stayhub/database/repository/review"
	roomRepo "stayhub/database/repository/room"
	userRepo "stayhub/database/repository/user"
	"stayhub/handlers"
	"stayhub/routes"
	availabilitySvc "stayhub/services/availability"
	bookingSvc "stayhub/services/booking"
	hotelSvc "stayhub/services/hotel"
	loyaltySvc "stayhub/services/loyalty"
	notificationSvc "stayhub/services/notification"
	offerSvc "stayhub/services/offer"
	paymentSvc "stayhub/services/payment"
	reviewSvc "stayhub/services/review"
	roomSvc "stayhub/services/room"
	userSvc "stayhub/services/user"
	"stayhub/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	stripe.Key = config.AppConfig.StripeKey

	database.InitDB()
	utils.InitRedis()
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
	)

	// Repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	hotels := hotelRepo.NewMongoHotelRepo()
	rooms := roomRepo.NewMongoRoomRepo()
	offers := offerRepo.NewMongoOfferRepo()
	users := userRepo.NewMongoUserRepo()
	reviews := reviewRepo.NewMongoReviewRepo()

	ensureIndexes(bookings, hotels, rooms, offers, users, reviews)

	// Collaborators.
	gateway := paymentSvc.NewStripeGateway()
	verifier := paymentSvc.NewStripeEventVerifier(config.AppConfig.StripeWebhookSecret)
	mailer := notificationSvc.NewSMTPMailer()
	locker := bookingSvc.NewRoomLocker(utils.GetCacheClient())

	var images utils.ImageStore
	if store, err := utils.NewCloudinaryStore(); err != nil {
		logger.Warn("image store disabled", zap.Error(err))
	} else {
		images = store
	}

	// Services.
	loyalty := loyaltySvc.NewLoyaltyService(users)
	bookingService := bookingSvc.NewBookingService(bookings, hotels, rooms, offers, users, loyalty, gateway, mailer, locker)
	availabilityService := availabilitySvc.NewAvailabilityService(bookings, hotels, rooms)
	userService := userSvc.NewUserService(users, mailer)
	hotelService := hotelSvc.NewHotelService(hotels, images)
	roomService := roomSvc.NewRoomService(rooms, hotels, images)
	offerService := offerSvc.NewOfferService(offers, hotels)
	reviewService := reviewSvc.NewReviewService(reviews, bookings, hotels)

	bundle := handlers.NewHandlerBundle(
		userService, hotelService, roomService, offerService,
		bookingService, availabilityService, reviewService, loyalty, verifier,
	)

	// Background jobs.
	worker := cron.NewWorker(bookings, hotels, users, gateway, mailer)
	if err := worker.Start(); err != nil {
		logger.Fatal("failed to start background worker", zap.Error(err))
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(router, bundle)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("mongo disconnect failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func ensureIndexes(
	bookings bookingRepo.BookingRepository,
	hotels hotelRepo.HotelRepository,
	rooms roomRepo.RoomRepository,
	offers offerRepo.OfferRepository,
	users userRepo.UserRepository,
	reviews reviewRepo.ReviewRepository,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	type indexed interface {
		EnsureIndexes(ctx context.Context) error
	}
	for _, repo := range []indexed{bookings, hotels, rooms, offers, users, reviews} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			utils.GetLogger().Fatal("failed to ensure indexes", zap.Error(err))
		}
	}
}
