package payment

import (
    "context"
    "time"

    "donate-payment-api/models"
    "donate-payment-api/services/payment/braintree"
)

// Processor is the surface the handlers depend on. *Service implements
// it; tests substitute func-field mocks.
type Processor interface {
    Currency(code string) (CurrencyConfig, bool)
    ValidateAmount(amount float64, currency string) bool
    CreateCustomer(ctx context.Context, req *models.CardDonationRequest) (*braintree.Result, error)
    CreatePaypalCustomer(ctx context.Context, nonce string) (*braintree.Result, error)
    SaleWithToken(ctx context.Context, currency, token string, amount float64) (*braintree.Result, error)
    SaleWithNonce(ctx context.Context, nonce string, amount float64) (*braintree.Result, error)
    CreateSubscription(ctx context.Context, currency, token string, price float64) (*braintree.Result, error)
    CreatePaypalSubscription(ctx context.Context, currency, token string, price float64) (*braintree.Result, error)
    CreateUpsellSubscription(ctx context.Context, currency, token string, price float64, firstBillingDate time.Time) (*braintree.Result, error)
}

var _ Processor = (*Service)(nil)
