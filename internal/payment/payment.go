package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Intent is the provider-neutral view of a payment intent. ClientSecret is
// what the mobile payment sheet is initialized with; success, cancellation
// and error are the only outcomes the app consumes.
type Intent struct {
	ID           string
	ClientSecret string
	Succeeded    bool
}

// Provider abstracts the hosted payment-sheet backend.
type Provider interface {
	// CreateIntent registers a payment for the given amount (major units,
	// e.g. MAD) and returns the intent whose client secret the app uses to
	// present the payment sheet.
	CreateIntent(ctx context.Context, amount float64, description string, metadata map[string]string) (*Intent, error)

	// GetIntent fetches the current state of a previously created intent.
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

// offlineProvider issues fake intents that are immediately payable. It keeps
// checkout exercisable in development when no Stripe key is configured, the
// same way the catalog falls back to placeholder data.
type offlineProvider struct{}

// NewOfflineProvider returns a Provider that approves everything.
func NewOfflineProvider() Provider {
	return offlineProvider{}
}

func (offlineProvider) CreateIntent(_ context.Context, amount float64, _ string, _ map[string]string) (*Intent, error) {
	id := "offline_" + uuid.NewString()
	return &Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%.0f", id, amount*100),
	}, nil
}

func (offlineProvider) GetIntent(_ context.Context, id string) (*Intent, error) {
	return &Intent{ID: id, Succeeded: true}, nil
}
