package models

import (
    "math"
    "strconv"
    "strings"
    "time"

    "donate-payment-api/types"
)

// Amount is a donor-submitted donation amount. Forms post it as a
// number or a numeric string; anything unparseable decodes to zero so
// amount validation rejects it instead of the JSON decoder failing the
// whole request.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
    raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
    value, err := strconv.ParseFloat(raw, 64)
    if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
        *a = 0
        return nil
    }
    *a = Amount(math.Round(value*100) / 100)
    return nil
}

func (a Amount) Value() float64 {
    return float64(a)
}

// CardDonationRequest is the payload submitted by the card donation form.
type CardDonationRequest struct {
    FirstName    string `json:"first_name"`
    LastName     string `json:"last_name"`
    Email        string `json:"email"`
    PhoneNumber  string `json:"phone_number,omitempty"`
    AddressLine1 string `json:"address_line_1"`
    Town         string `json:"town"`
    Region       string `json:"region,omitempty"`
    PostCode     string `json:"post_code"`
    Country      string `json:"country"`
    Amount       Amount `json:"amount"`
    Currency     string `json:"currency,omitempty"`
    Nonce        string `json:"braintree_nonce"`
}

// BillingAddress maps the request address fields into the shape the
// gateway expects.
func (r *CardDonationRequest) BillingAddress() *types.BillingAddressType {
    return &types.BillingAddressType{
        StreetAddress:     r.AddressLine1,
        Locality:          r.Town,
        Region:            r.Region,
        PostalCode:        r.PostCode,
        CountryCodeAlpha2: r.Country,
    }
}

// PaypalDonationRequest is the payload submitted by the PayPal flow.
// Frequency arrives in the body because PayPal uses a single endpoint.
type PaypalDonationRequest struct {
    Amount    Amount                 `json:"amount"`
    Currency  string                 `json:"currency,omitempty"`
    Frequency types.PaymentFrequency `json:"frequency"`
    Nonce     string                 `json:"braintree_nonce"`
}

// UpsellRequest is the payload for converting a completed single card
// donation into a monthly subscription.
type UpsellRequest struct {
    Amount Amount `json:"amount"`
}

// TransactionDetails is the session record of a completed gateway call.
// It is written only after a successful sale or subscription and read
// by the upsell and completed endpoints.
type TransactionDetails struct {
    FirstName          string                 `json:"first_name,omitempty"`
    LastName           string                 `json:"last_name,omitempty"`
    Email              string                 `json:"email,omitempty"`
    Amount             float64                `json:"amount"`
    Currency           string                 `json:"currency"`
    TransactionID      string                 `json:"transaction_id"`
    PaymentMethod      types.PaymentMethod    `json:"payment_method"`
    PaymentFrequency   types.PaymentFrequency `json:"payment_frequency"`
    PaymentMethodToken string                 `json:"payment_method_token,omitempty"`
}

// Donation is the persisted record of a completed donation.
type Donation struct {
    ID               string    `json:"id"`
    TransactionID    string    `json:"transaction_id"`
    Amount           float64   `json:"amount"`
    Currency         string    `json:"currency"`
    PaymentMethod    string    `json:"payment_method"`
    PaymentFrequency string    `json:"payment_frequency"`
    DonorName        string    `json:"donor_name,omitempty"`
    DonorEmail       string    `json:"donor_email,omitempty"`
    CreatedAt        time.Time `json:"created_at"`
}
