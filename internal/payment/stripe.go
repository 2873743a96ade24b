package payment

import (
	"context"
	"errors"
	"log"
	"math"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"madrasti/elearning-app/internal/config"
)

// stripeProvider implements Provider against Stripe PaymentIntents.
type stripeProvider struct {
	sc       *client.API
	currency string
}

// NewStripeProvider builds a Stripe-backed Provider. It returns an error
// when no secret key is configured; callers then fall back to the offline
// provider instead of running with a half-configured integration.
func NewStripeProvider(cfg config.StripeConfig) (Provider, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key is not configured")
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "mad"
	}

	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)

	log.Printf("Stripe payment provider initialized (currency %s)", currency)
	return &stripeProvider{sc: sc, currency: currency}, nil
}

// CreateIntent creates a Stripe PaymentIntent for the amount in major units.
func (p *stripeProvider) CreateIntent(ctx context.Context, amount float64, description string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params:      stripe.Params{Context: ctx},
		Amount:      stripe.Int64(int64(math.Round(amount * 100))), // minor units
		Currency:    stripe.String(p.currency),
		Description: stripe.String(description),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.sc.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Succeeded:    pi.Status == stripe.PaymentIntentStatusSucceeded,
	}, nil
}

// GetIntent fetches the intent state from Stripe.
func (p *stripeProvider) GetIntent(ctx context.Context, id string) (*Intent, error) {
	pi, err := p.sc.PaymentIntents.Get(id, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, err
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Succeeded:    pi.Status == stripe.PaymentIntentStatusSucceeded,
	}, nil
}
