package notification

import (
	"fmt"
	"strings"

	"stayhub/models"
	"stayhub/utils"
)

func confirmationBody(booking *models.Booking, user *models.User, hotel *models.Hotel, room *models.Room) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h2>Hi %s,</h2>", user.Name))
	sb.WriteString(fmt.Sprintf("<p>Your stay at <b>%s</b> is confirmed.</p>", hotel.Name))
	sb.WriteString("<ul>")
	sb.WriteString(fmt.Sprintf("<li>Room: %s</li>", room.DisplayName()))
	sb.WriteString(fmt.Sprintf("<li>Check-in: %s</li>", utils.FormatYMD(booking.CheckIn)))
	sb.WriteString(fmt.Sprintf("<li>Check-out: %s</li>", utils.FormatYMD(booking.CheckOut)))
	sb.WriteString(fmt.Sprintf("<li>Guests: %d</li>", booking.Guests))
	sb.WriteString(fmt.Sprintf("<li>Amount paid: %.2f %s</li>", booking.FinalAmount, strings.ToUpper(booking.Currency)))
	if booking.LoyaltyCoinsUsed > 0 {
		sb.WriteString(fmt.Sprintf("<li>Loyalty coins applied: %d</li>", booking.LoyaltyCoinsUsed))
	}
	if booking.LoyaltyCoinsEarned > 0 {
		sb.WriteString(fmt.Sprintf("<li>Loyalty coins earned: %d</li>", booking.LoyaltyCoinsEarned))
	}
	sb.WriteString("</ul>")
	if ec := booking.EmergencyContactSnapshot; ec.Phone != "" {
		sb.WriteString(fmt.Sprintf("<p>Emergency contact: %s (%s), %s, available %s.</p>",
			ec.Name, ec.Role, ec.Phone, ec.AvailableHours))
	}
	if booking.PaymentReceiptURL != "" {
		sb.WriteString(fmt.Sprintf(`<p><a href="%s">View payment receipt</a></p>`, booking.PaymentReceiptURL))
	}
	sb.WriteString(fmt.Sprintf("<p>Booking reference: %s</p>", booking.ID))
	return sb.String()
}

func cancellationBody(booking *models.Booking, user *models.User, hotel *models.Hotel, refunded bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h2>Hi %s,</h2>", user.Name))
	sb.WriteString(fmt.Sprintf("<p>Your booking at <b>%s</b> (%s to %s) has been cancelled.</p>",
		hotel.Name, utils.FormatYMD(booking.CheckIn), utils.FormatYMD(booking.CheckOut)))
	if refunded {
		sb.WriteString(fmt.Sprintf("<p>A refund of %.2f %s has been issued to your original payment method.</p>",
			booking.FinalAmount, strings.ToUpper(booking.Currency)))
	}
	if booking.LoyaltyCoinsUsed > 0 {
		sb.WriteString(fmt.Sprintf("<p>%d loyalty coins have been returned to your balance.</p>", booking.LoyaltyCoinsUsed))
	}
	sb.WriteString(fmt.Sprintf("<p>Booking reference: %s</p>", booking.ID))
	return sb.String()
}

func reviewInviteBody(booking *models.Booking, user *models.User, hotel *models.Hotel) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h2>Hi %s,</h2>", user.Name))
	sb.WriteString(fmt.Sprintf("<p>Thanks for staying at <b>%s</b>. We'd love to hear how it went.</p>", hotel.Name))
	sb.WriteString(fmt.Sprintf("<p>Leave a review using booking reference %s.</p>", booking.ID))
	return sb.String()
}

func otpBody(code, purpose string) string {
	action := "verify your email address"
	if purpose == "reset" {
		action = "reset your password"
	}
	return fmt.Sprintf("<p>Use code <b>%s</b> to %s. It expires in 10 minutes.</p>", code, action)
}
