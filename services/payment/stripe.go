package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"

	"stayhub/models"
	"stayhub/utils"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct{}

// NewStripeGateway constructs the production payment gateway. The Stripe API
// key is set globally in main.
func NewStripeGateway() Gateway {
	return &StripeGateway{}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency, bookingID string) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("bookingId", bookingID)

	intent, err := paymentintent.New(params)
	if err != nil {
		utils.GetLogger().Error("stripe intent creation failed",
			zap.String("bookingId", bookingID), zap.Error(err))
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}
	return &models.PaymentIntent{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}, nil
}

// RetrieveIntent returns the intent and whether it is still confirmable by
// the client (not yet succeeded or canceled).
func (g *StripeGateway) RetrieveIntent(ctx context.Context, intentID string) (*models.PaymentIntent, bool, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, false, fmt.Errorf("retrieving payment intent %s: %w", intentID, err)
	}
	confirmable := intent.Status != stripe.PaymentIntentStatusSucceeded &&
		intent.Status != stripe.PaymentIntentStatusCanceled
	return &models.PaymentIntent{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}, confirmable, nil
}

func (g *StripeGateway) CancelIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String("abandoned"),
	}
	params.Context = ctx

	if _, err := paymentintent.Cancel(intentID, params); err != nil {
		return fmt.Errorf("canceling payment intent %s: %w", intentID, err)
	}
	return nil
}

func (g *StripeGateway) Refund(ctx context.Context, intentID string) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
	}
	params.Context = ctx

	ref, err := refund.New(params)
	if err != nil {
		utils.GetLogger().Error("stripe refund failed",
			zap.String("intentId", intentID), zap.Error(err))
		return "", fmt.Errorf("refunding payment intent %s: %w", intentID, err)
	}
	return ref.ID, nil
}
