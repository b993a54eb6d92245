package braintree

import "donate-payment-api/types"

type CustomerRequest struct {
    FirstName          string             `json:"first_name,omitempty"`
    LastName           string             `json:"last_name,omitempty"`
    Email              string             `json:"email,omitempty"`
    PaymentMethodNonce string             `json:"payment_method_nonce"`
    CustomFields       map[string]string  `json:"custom_fields,omitempty"`
    CreditCard         *CreditCardRequest `json:"credit_card,omitempty"`
}

type CreditCardRequest struct {
    BillingAddress *types.BillingAddressType `json:"billing_address,omitempty"`
}

type TransactionRequest struct {
    Amount             string            `json:"amount"`
    MerchantAccountID  string            `json:"merchant_account_id,omitempty"`
    PaymentMethodToken string            `json:"payment_method_token,omitempty"`
    PaymentMethodNonce string            `json:"payment_method_nonce,omitempty"`
    CustomFields       map[string]string `json:"custom_fields,omitempty"`
    Options            *TransactionOptions `json:"options,omitempty"`
}

type TransactionOptions struct {
    SubmitForSettlement bool `json:"submit_for_settlement"`
}

type SubscriptionRequest struct {
    PlanID             string `json:"plan_id"`
    MerchantAccountID  string `json:"merchant_account_id,omitempty"`
    PaymentMethodToken string `json:"payment_method_token"`
    Price              string `json:"price"`
    FirstBillingDate   string `json:"first_billing_date,omitempty"`
}

type Customer struct {
    ID             string          `json:"id"`
    PaymentMethods []PaymentMethod `json:"payment_methods"`
}

// DefaultPaymentMethodToken returns the token of the vaulted payment
// method, or an empty string when the customer has none.
func (c *Customer) DefaultPaymentMethodToken() string {
    if c == nil || len(c.PaymentMethods) == 0 {
        return ""
    }
    return c.PaymentMethods[0].Token
}

type PaymentMethod struct {
    Token string `json:"token"`
}

type Transaction struct {
    ID     string `json:"id"`
    Status string `json:"status"`
    Amount string `json:"amount"`
}

type Subscription struct {
    ID     string `json:"id"`
    Status string `json:"status"`
}

// ValidationError is a single gateway validation failure.
type ValidationError struct {
    Code    string `json:"code"`
    Message string `json:"message"`
}

type scopedErrors struct {
    Errors []ValidationError `json:"errors"`
}

// ErrorCollection groups validation errors by the gateway object that
// produced them ("credit_card", "address", "customer", ...).
type ErrorCollection map[string]scopedErrors

// ForScope returns the validation errors attached to one gateway object.
func (ec ErrorCollection) ForScope(scope string) []ValidationError {
    return ec[scope].Errors
}

// All flattens the collection across scopes.
func (ec ErrorCollection) All() []ValidationError {
    var out []ValidationError
    for _, scoped := range ec {
        out = append(out, scoped.Errors...)
    }
    return out
}

// Result is the decoded outcome of a gateway call. Exactly one of
// Customer, Transaction or Subscription is populated on success,
// depending on the operation.
type Result struct {
    Success      bool            `json:"success"`
    Message      string          `json:"message"`
    Customer     *Customer       `json:"customer,omitempty"`
    Transaction  *Transaction    `json:"transaction,omitempty"`
    Subscription *Subscription   `json:"subscription,omitempty"`
    Errors       ErrorCollection `json:"errors,omitempty"`
}

type customerRequestWrapper struct {
    Customer CustomerRequest `json:"customer"`
}

type transactionRequestWrapper struct {
    Transaction TransactionRequest `json:"transaction"`
}

type subscriptionRequestWrapper struct {
    Subscription SubscriptionRequest `json:"subscription"`
}
