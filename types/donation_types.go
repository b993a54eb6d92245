package types

// BillingAddressType carries the donor address fields submitted with a
// card donation. It is shared by the request models and the gateway
// client to avoid an import cycle.
type BillingAddressType struct {
    StreetAddress     string `json:"street_address,omitempty"`
    Locality          string `json:"locality,omitempty"`
    Region            string `json:"region,omitempty"`
    PostalCode        string `json:"postal_code,omitempty"`
    CountryCodeAlpha2 string `json:"country_code_alpha2,omitempty"`
}

// PaymentFrequency is the cadence of a donation.
type PaymentFrequency string

const (
    FrequencySingle  PaymentFrequency = "single"
    FrequencyMonthly PaymentFrequency = "monthly"
)

// Valid reports whether the frequency is one of the known cadences.
func (f PaymentFrequency) Valid() bool {
    return f == FrequencySingle || f == FrequencyMonthly
}

// PaymentMethod identifies how the donor paid.
type PaymentMethod string

const (
    MethodCard   PaymentMethod = "card"
    MethodPaypal PaymentMethod = "paypal"
)
