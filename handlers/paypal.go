package handlers

import (
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "strings"

    "github.com/google/uuid"

    "donate-payment-api/models"
    "donate-payment-api/services/payment"
    "donate-payment-api/services/payment/braintree"
    "donate-payment-api/types"
    "donate-payment-api/utils"
)

// PaypalPayment processes a PayPal donation. Frequency arrives in the
// body: single donations charge the nonce directly, monthly donations
// vault the PayPal account first and subscribe the vaulted token.
func (h *PaymentHandler) PaypalPayment(w http.ResponseWriter, r *http.Request) {
    requestID := uuid.New().String()

    var req models.PaypalDonationRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("[RequestID: %s] Invalid request body: %v", requestID, err)
        utils.SendErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
        return
    }

    if !req.Frequency.Valid() {
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid payment frequency")
        return
    }

    if req.Nonce == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "Missing payment method nonce")
        return
    }

    if req.Currency == "" {
        req.Currency = "usd"
    }
    req.Currency = strings.ToLower(req.Currency)

    if !h.processor.ValidateAmount(req.Amount.Value(), req.Currency) {
        log.Printf("[RequestID: %s] Invalid amount %.2f %s, redirecting", requestID, req.Amount.Value(), req.Currency)
        http.Redirect(w, r, homePath, http.StatusFound)
        return
    }

    log.Printf("[RequestID: %s] Starting %s PayPal donation", requestID, req.Frequency)

    var (
        result *braintree.Result
        token  string
        err    error
    )

    if req.Frequency == types.FrequencySingle {
        result, err = h.processor.SaleWithNonce(r.Context(), req.Nonce, req.Amount.Value())
    } else {
        var customerResult *braintree.Result
        customerResult, err = h.processor.CreatePaypalCustomer(r.Context(), req.Nonce)
        if err == nil {
            if !customerResult.Success {
                log.Printf("[RequestID: %s] Customer creation declined: %s", requestID, customerResult.Message)
                h.processGatewayErrors(w, requestID, customerResult)
                return
            }

            token = customerResult.Customer.DefaultPaymentMethodToken()
            if token == "" {
                log.Printf("[RequestID: %s] Customer created without payment method", requestID)
                utils.SendPaymentErrors(w, []string{payment.GenericPaymentErrorMessage}, nil)
                return
            }

            result, err = h.processor.CreatePaypalSubscription(r.Context(), req.Currency, token, req.Amount.Value())
        }
    }

    if err != nil {
        log.Printf("[RequestID: %s] Gateway error: %v", requestID, err)
        utils.SendPaymentErrors(w, []string{payment.GenericPaymentErrorMessage}, nil)
        return
    }

    if !result.Success {
        log.Printf("[RequestID: %s] Payment declined: %s", requestID, result.Message)
        h.processGatewayErrors(w, requestID, result)
        return
    }

    details := models.TransactionDetails{
        Amount:             req.Amount.Value(),
        Currency:           req.Currency,
        TransactionID:      transactionID(result),
        PaymentMethod:      types.MethodPaypal,
        PaymentFrequency:   req.Frequency,
        PaymentMethodToken: token,
    }

    h.success(w, r, requestID, details)
}
