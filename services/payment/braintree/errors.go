package braintree

// Gateway validation error codes the service branches on. Scopes match
// the keys of the error collection returned by the gateway.
const (
    ScopeCreditCard = "credit_card"
    ScopeCustomer   = "customer"
    ScopeAddress    = "address"
)

// Credit card error codes.
const (
    ErrCodeCardTypeNotAccepted      = "81703"
    ErrCodeCardCVVIsInvalid         = "81707"
    ErrCodeCardExpirationInvalid    = "81710"
    ErrCodeCardNumberInvalid        = "81715"
    ErrCodeCardCustomerIDIsInvalid  = "91510"
    ErrCodeCardDeclinedByProcessor  = "2000"
    ErrCodeCardInsufficientFunds    = "2001"
)

// Address error codes.
const (
    ErrCodeAddressCannotBeBlank          = "81801"
    ErrCodeAddressPostalCodeRequired     = "81808"
    ErrCodeAddressPostalCodeInvalidChars = "81813"
)
