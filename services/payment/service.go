package payment

import (
    "context"
    "fmt"
    "log"
    "strings"
    "time"

    "donate-payment-api/models"
    "donate-payment-api/services/payment/braintree"
    "donate-payment-api/utils"
)

// BraintreeConfig carries the gateway credentials.
type BraintreeConfig struct {
    MerchantID  string
    PublicKey   string
    PrivateKey  string
    Environment string
}

// CurrencyConfig holds the per-currency gateway wiring: which merchant
// account settles transactions, which plans back monthly donations, and
// the smallest amount the form accepts.
type CurrencyConfig struct {
    Code              string
    MinimumAmount     float64
    MerchantAccountID string
    PlanID            string
    PaypalPlanID      string
}

type Service struct {
    client     *braintree.Client
    currencies map[string]CurrencyConfig
}

func NewPaymentService(cfg BraintreeConfig, currencies map[string]CurrencyConfig) *Service {
    client := braintree.NewClient(cfg.MerchantID, cfg.PublicKey, cfg.PrivateKey, cfg.Environment)
    return &Service{
        client:     client,
        currencies: currencies,
    }
}

// Gateway exposes the underlying client, for tests that stub the
// gateway endpoint.
func (s *Service) Gateway() *braintree.Client {
    return s.client
}

// Currency resolves the configuration for a currency code.
func (s *Service) Currency(code string) (CurrencyConfig, bool) {
    cfg, ok := s.currencies[strings.ToLower(code)]
    return cfg, ok
}

// ValidateAmount reports whether the amount is acceptable for the
// currency. Unknown currencies and amounts below the configured
// minimum are rejected before any gateway call is made.
func (s *Service) ValidateAmount(amount float64, currency string) bool {
    cfg, ok := s.Currency(currency)
    if !ok {
        log.Printf("Unknown currency: %s", currency)
        return false
    }
    if amount < cfg.MinimumAmount {
        log.Printf("Amount %.2f below minimum %.2f for currency %s", amount, cfg.MinimumAmount, currency)
        return false
    }
    return true
}

// CreateCustomer stores the donor at the gateway, vaulting the card
// behind the nonce together with the billing address.
func (s *Service) CreateCustomer(ctx context.Context, req *models.CardDonationRequest) (*braintree.Result, error) {
    result, err := s.client.CreateCustomer(ctx, braintree.CustomerRequest{
        FirstName:          req.FirstName,
        LastName:           req.LastName,
        Email:              req.Email,
        PaymentMethodNonce: req.Nonce,
        CustomFields:       map[string]string{},
        CreditCard: &braintree.CreditCardRequest{
            BillingAddress: req.BillingAddress(),
        },
    })
    if err != nil {
        return nil, fmt.Errorf("customer creation failed: %v", err)
    }
    return result, nil
}

// CreatePaypalCustomer vaults a PayPal account from its nonce. PayPal
// donors carry no billing address.
func (s *Service) CreatePaypalCustomer(ctx context.Context, nonce string) (*braintree.Result, error) {
    result, err := s.client.CreateCustomer(ctx, braintree.CustomerRequest{
        PaymentMethodNonce: nonce,
        CustomFields:       map[string]string{},
    })
    if err != nil {
        return nil, fmt.Errorf("customer creation failed: %v", err)
    }
    return result, nil
}

// SaleWithToken charges a vaulted payment method once, settled through
// the currency's merchant account.
func (s *Service) SaleWithToken(ctx context.Context, currency, token string, amount float64) (*braintree.Result, error) {
    cfg, ok := s.Currency(currency)
    if !ok {
        return nil, fmt.Errorf("unknown currency: %s", currency)
    }

    result, err := s.client.Sale(ctx, braintree.TransactionRequest{
        Amount:             utils.FormatAmount(amount),
        MerchantAccountID:  cfg.MerchantAccountID,
        PaymentMethodToken: token,
        Options:            &braintree.TransactionOptions{SubmitForSettlement: true},
    })
    if err != nil {
        return nil, fmt.Errorf("transaction sale failed: %v", err)
    }
    return result, nil
}

// SaleWithNonce charges a one-time payment method nonce directly.
// Used by the single PayPal flow, which never vaults the account.
func (s *Service) SaleWithNonce(ctx context.Context, nonce string, amount float64) (*braintree.Result, error) {
    result, err := s.client.Sale(ctx, braintree.TransactionRequest{
        Amount:             utils.FormatAmount(amount),
        PaymentMethodNonce: nonce,
        CustomFields:       map[string]string{},
        Options:            &braintree.TransactionOptions{SubmitForSettlement: true},
    })
    if err != nil {
        return nil, fmt.Errorf("transaction sale failed: %v", err)
    }
    return result, nil
}

// CreateSubscription starts a monthly card donation on the currency's
// card plan and merchant account.
func (s *Service) CreateSubscription(ctx context.Context, currency, token string, price float64) (*braintree.Result, error) {
    cfg, ok := s.Currency(currency)
    if !ok {
        return nil, fmt.Errorf("unknown currency: %s", currency)
    }

    result, err := s.client.CreateSubscription(ctx, braintree.SubscriptionRequest{
        PlanID:             cfg.PlanID,
        MerchantAccountID:  cfg.MerchantAccountID,
        PaymentMethodToken: token,
        Price:              utils.FormatAmount(price),
    })
    if err != nil {
        return nil, fmt.Errorf("subscription creation failed: %v", err)
    }
    return result, nil
}

// CreatePaypalSubscription starts a monthly PayPal donation. PayPal
// plans settle through the default merchant account.
func (s *Service) CreatePaypalSubscription(ctx context.Context, currency, token string, price float64) (*braintree.Result, error) {
    cfg, ok := s.Currency(currency)
    if !ok {
        return nil, fmt.Errorf("unknown currency: %s", currency)
    }

    result, err := s.client.CreateSubscription(ctx, braintree.SubscriptionRequest{
        PlanID:             cfg.PaypalPlanID,
        PaymentMethodToken: token,
        Price:              utils.FormatAmount(price),
    })
    if err != nil {
        return nil, fmt.Errorf("subscription creation failed: %v", err)
    }
    return result, nil
}

// CreateUpsellSubscription converts a settled single card donation into
// a monthly one. Billing starts one month out so the donor is not
// charged twice in the same cycle.
func (s *Service) CreateUpsellSubscription(ctx context.Context, currency, token string, price float64, firstBillingDate time.Time) (*braintree.Result, error) {
    cfg, ok := s.Currency(currency)
    if !ok {
        return nil, fmt.Errorf("unknown currency: %s", currency)
    }

    result, err := s.client.CreateSubscription(ctx, braintree.SubscriptionRequest{
        PlanID:             cfg.PlanID,
        MerchantAccountID:  cfg.MerchantAccountID,
        PaymentMethodToken: token,
        Price:              utils.FormatAmount(price),
        FirstBillingDate:   utils.FormatDate(firstBillingDate),
    })
    if err != nil {
        return nil, fmt.Errorf("subscription creation failed: %v", err)
    }
    return result, nil
}
