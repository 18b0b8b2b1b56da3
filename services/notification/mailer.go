package notification

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"stayhub/config"
	"stayhub/models"
	"stayhub/utils"
)

// Mailer sends transactional booking emails. Implementations must be safe for
// concurrent use.
type Mailer interface {
	SendBookingConfirmation(booking *models.Booking, user *models.User, hotel *models.Hotel, room *models.Room) error
	SendBookingCancellation(booking *models.Booking, user *models.User, hotel *models.Hotel, refunded bool) error
	SendReviewInvite(booking *models.Booking, user *models.User, hotel *models.Hotel) error
	SendOTP(email, code, purpose string) error
}

// SMTPMailer implements Mailer over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer constructs a mailer from the loaded configuration.
func NewSMTPMailer() Mailer {
	cfg := config.AppConfig
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		utils.GetLogger().Error("failed to send email",
			zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("sending email to %s: %w", to, err)
	}
	return nil
}

func (m *SMTPMailer) SendBookingConfirmation(booking *models.Booking, user *models.User, hotel *models.Hotel, room *models.Room) error {
	subject := fmt.Sprintf("Booking confirmed at %s", hotel.Name)
	body := confirmationBody(booking, user, hotel, room)
	return m.send(user.Email, subject, body)
}

func (m *SMTPMailer) SendBookingCancellation(booking *models.Booking, user *models.User, hotel *models.Hotel, refunded bool) error {
	subject := fmt.Sprintf("Booking cancelled at %s", hotel.Name)
	body := cancellationBody(booking, user, hotel, refunded)
	return m.send(user.Email, subject, body)
}

func (m *SMTPMailer) SendReviewInvite(booking *models.Booking, user *models.User, hotel *models.Hotel) error {
	subject := fmt.Sprintf("How was your stay at %s?", hotel.Name)
	body := reviewInviteBody(booking, user, hotel)
	return m.send(user.Email, subject, body)
}

func (m *SMTPMailer) SendOTP(email, code, purpose string) error {
	subject := "Your verification code"
	if purpose == "reset" {
		subject = "Your password reset code"
	}
	body := otpBody(code, purpose)
	return m.send(email, subject, body)
}
