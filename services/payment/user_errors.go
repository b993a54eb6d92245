package payment

import (
    "fmt"
    "strings"

    "donate-payment-api/services/payment/braintree"
)

// GenericPaymentErrorMessage is shown when the gateway declined for a
// reason the donor cannot act on.
const GenericPaymentErrorMessage = "Sorry there was an error processing your payment. " +
    "Please try again later or use a different payment method."

// cardErrorMessages maps gateway card error codes the donor can act on
// to user-facing messages. Codes outside this map are never surfaced.
var cardErrorMessages = map[string]string{
    braintree.ErrCodeCardTypeNotAccepted:     "The type of card you used is not accepted.",
    braintree.ErrCodeCardNumberInvalid:       "The card number you entered was invalid.",
    braintree.ErrCodeCardExpirationInvalid:   "The expiration date you entered was invalid.",
    braintree.ErrCodeCardCVVIsInvalid:        "The CVV code you entered was invalid.",
    braintree.ErrCodeCardDeclinedByProcessor: "Your card was declined. Please use a different payment method.",
    braintree.ErrCodeCardInsufficientFunds:   "Your card has insufficient funds.",
}

// InvalidAddressError signals that the gateway rejected the billing
// address. The caller sends the donor back to the address step.
type InvalidAddressError struct {
    Messages []string
}

func (e *InvalidAddressError) Error() string {
    return fmt.Sprintf("gateway rejected billing address: %s", strings.Join(e.Messages, "; "))
}

// FilterUserCardErrors extracts the card error messages a donor can act
// on from a failed gateway result.
func FilterUserCardErrors(result *braintree.Result) []string {
    var filtered []string
    for _, verr := range result.Errors.ForScope(braintree.ScopeCreditCard) {
        if msg, ok := cardErrorMessages[verr.Code]; ok {
            filtered = append(filtered, msg)
        }
    }
    return filtered
}

// CheckForAddressErrors returns an InvalidAddressError when any of the
// result's errors are address-scoped, nil otherwise.
func CheckForAddressErrors(result *braintree.Result) error {
    addressErrors := result.Errors.ForScope(braintree.ScopeAddress)
    if len(addressErrors) == 0 {
        return nil
    }

    messages := make([]string, 0, len(addressErrors))
    for _, verr := range addressErrors {
        messages = append(messages, verr.Message)
    }
    return &InvalidAddressError{Messages: messages}
}
