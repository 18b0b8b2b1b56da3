package cron

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"stayhub/config"
	bookingRepo "stayhub/database/repository/booking"
	hotelRepo "stayhub/database/repository/hotel"
	userRepo "stayhub/database/repository/user"
	"stayhub/services/notification"
	"stayhub/services/payment"
	"stayhub/utils"
)

// Task types handled by the background worker.
const (
	TypeCompleteSweep = "booking:complete_sweep"
	TypeExpirePending = "booking:expire_pending"
	TypeReviewInvites = "booking:review_invites"
)

// Worker runs the periodic booking maintenance jobs on asynq.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler

	bookings bookingRepo.BookingRepository
	hotels   hotelRepo.HotelRepository
	users    userRepo.UserRepository
	gateway  payment.Gateway
	mailer   notification.Mailer
}

// NewWorker builds the worker over the jobs Redis DB.
func NewWorker(
	bookings bookingRepo.BookingRepository,
	hotels hotelRepo.HotelRepository,
	users userRepo.UserRepository,
	gateway payment.Gateway,
	mailer notification.Mailer,
) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisJobsDB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 3,
	})
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	return &Worker{
		server:    server,
		scheduler: scheduler,
		bookings:  bookings,
		hotels:    hotels,
		users:     users,
		gateway:   gateway,
		mailer:    mailer,
	}
}

// Start registers schedules and launches the worker loops.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCompleteSweep, w.handleCompleteSweep)
	mux.HandleFunc(TypeExpirePending, w.handleExpirePending)
	mux.HandleFunc(TypeReviewInvites, w.handleReviewInvites)

	schedules := map[string]string{
		TypeCompleteSweep: "*/15 * * * *",
		TypeExpirePending: "*/5 * * * *",
		TypeReviewInvites: "0 * * * *",
	}
	for taskType, spec := range schedules {
		if _, err := w.scheduler.Register(spec, asynq.NewTask(taskType, nil)); err != nil {
			return err
		}
	}

	go func() {
		if err := w.scheduler.Run(); err != nil {
			utils.GetLogger().Fatal("scheduler stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := w.server.Run(mux); err != nil {
			utils.GetLogger().Fatal("job server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops the scheduler and drains the job server.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

// handleCompleteSweep promotes paid booked stays past checkout to completed.
func (w *Worker) handleCompleteSweep(ctx context.Context, _ *asynq.Task) error {
	promoted, err := w.bookings.MarkCompletedBefore(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if promoted > 0 {
		utils.GetLogger().Info("completed stays past checkout", zap.Int64("count", promoted))
	}
	return nil
}

// handleExpirePending reclaims rooms held by abandoned pending bookings:
// open intents are abandoned, then the records are deleted. Pending bookings
// hold no loyalty coins, so there is no balance to return.
func (w *Worker) handleExpirePending(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().UTC().Add(-time.Duration(config.AppConfig.PendingExpiryMinutes) * time.Minute)

	stale, err := w.bookings.ListStalePending(ctx, cutoff)
	if err != nil {
		return err
	}
	for _, bkg := range stale {
		if bkg.StripePaymentIntentID != "" {
			if err := w.gateway.CancelIntent(ctx, bkg.StripePaymentIntentID); err != nil {
				utils.GetLogger().Warn("failed to abandon intent for expired booking",
					zap.String("bookingId", bkg.ID), zap.Error(err))
			}
		}
	}

	deleted, err := w.bookings.DeleteStalePending(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		utils.GetLogger().Info("expired stale pending bookings", zap.Int64("count", deleted))
	}
	return nil
}

// handleReviewInvites emails guests who checked out in the last two days and
// have not been invited yet. The sent flag keeps reruns from double-mailing.
func (w *Worker) handleReviewInvites(ctx context.Context, _ *asynq.Task) error {
	now := time.Now().UTC()
	candidates, err := w.bookings.ListReviewInvitePending(ctx, now.Add(-48*time.Hour), now)
	if err != nil {
		return err
	}

	for _, bkg := range candidates {
		user, err := w.users.GetByID(ctx, bkg.UserID)
		if err != nil {
			utils.GetLogger().Error("review invite skipped, user lookup failed",
				zap.String("bookingId", bkg.ID), zap.Error(err))
			continue
		}
		hotel, err := w.hotels.GetByID(ctx, bkg.HotelID)
		if err != nil {
			utils.GetLogger().Error("review invite skipped, hotel lookup failed",
				zap.String("bookingId", bkg.ID), zap.Error(err))
			continue
		}

		booking := bkg
		if err := w.mailer.SendReviewInvite(&booking, user, hotel); err != nil {
			utils.GetLogger().Error("failed to send review invite",
				zap.String("bookingId", bkg.ID), zap.Error(err))
			continue
		}
		if err := w.bookings.UpdateFields(ctx, bkg.ID, map[string]interface{}{
			"reviewInviteSent": true,
		}); err != nil {
			utils.GetLogger().Error("failed to flag review invite",
				zap.String("bookingId", bkg.ID), zap.Error(err))
		}
	}
	return nil
}
