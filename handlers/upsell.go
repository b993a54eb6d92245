package handlers

import (
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "time"

    "github.com/google/uuid"

    "donate-payment-api/models"
    "donate-payment-api/services/payment"
    "donate-payment-api/types"
    "donate-payment-api/utils"
)

// upsellEligible reports whether the session transaction can be
// converted into a monthly subscription. Only settled single card
// donations qualify: PayPal donors were never vaulted with a billing
// agreement, and monthly donors already have one.
func upsellEligible(details *models.TransactionDetails) bool {
    return details.PaymentMethod == types.MethodCard &&
        details.PaymentFrequency == types.FrequencySingle &&
        details.PaymentMethodToken != ""
}

// CardUpsellPage serves the upsell offer. Donors whose last donation
// cannot be upsold are sent straight to the completed page.
func (h *PaymentHandler) CardUpsellPage(w http.ResponseWriter, r *http.Request) {
    details, ok := h.sessions.TransactionDetails(r)
    if !ok {
        http.Redirect(w, r, homePath, http.StatusFound)
        return
    }

    if !upsellEligible(details) {
        http.Redirect(w, r, completedPath, http.StatusFound)
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Upsell available",
        Data: map[string]interface{}{
            "currency":         details.Currency,
            "single_amount":    details.Amount,
            "suggested_amount": h.suggestedUpsellAmount(details),
        },
    })
}

// CardUpsell converts a completed single card donation into a monthly
// subscription against the vaulted payment method. Billing starts one
// month out.
func (h *PaymentHandler) CardUpsell(w http.ResponseWriter, r *http.Request) {
    details, ok := h.sessions.TransactionDetails(r)
    if !ok {
        http.Redirect(w, r, homePath, http.StatusFound)
        return
    }

    if !upsellEligible(details) {
        http.Redirect(w, r, completedPath, http.StatusFound)
        return
    }

    requestID := uuid.New().String()

    var req models.UpsellRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("[RequestID: %s] Invalid request body: %v", requestID, err)
        utils.SendErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
        return
    }

    if !h.processor.ValidateAmount(req.Amount.Value(), details.Currency) {
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid amount")
        return
    }

    log.Printf("[RequestID: %s] Starting card upsell for transaction %s", requestID, details.TransactionID)

    firstBillingDate := utils.AddOneMonth(time.Now())
    result, err := h.processor.CreateUpsellSubscription(
        r.Context(), details.Currency, details.PaymentMethodToken, req.Amount.Value(), firstBillingDate)

    if err != nil {
        log.Printf("[RequestID: %s] Gateway error: %v", requestID, err)
        utils.SendPaymentErrors(w, []string{payment.GenericPaymentErrorMessage}, nil)
        return
    }

    if !result.Success {
        log.Printf("[RequestID: %s] Upsell declined: %s", requestID, result.Message)
        h.processGatewayErrors(w, requestID, result)
        return
    }

    newDetails := models.TransactionDetails{
        FirstName:          details.FirstName,
        LastName:           details.LastName,
        Email:              details.Email,
        Amount:             req.Amount.Value(),
        Currency:           details.Currency,
        TransactionID:      transactionID(result),
        PaymentMethod:      types.MethodCard,
        PaymentFrequency:   types.FrequencyMonthly,
        PaymentMethodToken: details.PaymentMethodToken,
    }

    h.success(w, r, requestID, newDetails)
}

// Completed reports the details of the donation that just finished.
func (h *PaymentHandler) Completed(w http.ResponseWriter, r *http.Request) {
    details, ok := h.sessions.TransactionDetails(r)
    if !ok {
        http.Redirect(w, r, homePath, http.StatusFound)
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Donation completed",
        Data:    details,
    })
}

// suggestedUpsellAmount proposes a monthly amount roughly a quarter of
// the single gift, floored at the currency's minimum donation.
func (h *PaymentHandler) suggestedUpsellAmount(details *models.TransactionDetails) float64 {
    minimum := 2.0
    if cfg, ok := h.processor.Currency(details.Currency); ok {
        minimum = cfg.MinimumAmount
    }

    suggested := utils.Round(details.Amount / 4)
    if suggested < minimum {
        suggested = minimum
    }
    return suggested
}
