package handlers

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "net/http"
    "strings"

    "github.com/google/uuid"
    "github.com/gorilla/mux"

    "donate-payment-api/models"
    "donate-payment-api/queue"
    "donate-payment-api/services/payment"
    "donate-payment-api/services/payment/braintree"
    "donate-payment-api/types"
    "donate-payment-api/utils"
)

// jobEnqueuer is the slice of the job queue the payment flow needs.
type jobEnqueuer interface {
    Enqueue(ctx context.Context, jobType queue.JobType, data map[string]interface{}) error
}

type PaymentHandler struct {
    processor payment.Processor
    sessions  *SessionStore
    queue     jobEnqueuer
}

func NewPaymentHandler(processor payment.Processor, sessions *SessionStore, q jobEnqueuer) (*PaymentHandler, error) {
    if processor == nil {
        return nil, fmt.Errorf("payment processor is required")
    }
    if sessions == nil {
        return nil, fmt.Errorf("session store is required")
    }
    if q == nil {
        return nil, fmt.Errorf("queue is required")
    }

    return &PaymentHandler{
        processor: processor,
        sessions:  sessions,
        queue:     q,
    }, nil
}

// CardPayment processes a card donation. The frequency path parameter
// selects between a one-off sale and a monthly subscription; anything
// outside the known set is a 404 before any validation runs.
func (h *PaymentHandler) CardPayment(w http.ResponseWriter, r *http.Request) {
    frequency := types.PaymentFrequency(mux.Vars(r)["frequency"])
    if !frequency.Valid() {
        http.NotFound(w, r)
        return
    }

    requestID := uuid.New().String()
    log.Printf("[RequestID: %s] Starting %s card donation", requestID, frequency)

    var req models.CardDonationRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("[RequestID: %s] Invalid request body: %v", requestID, err)
        utils.SendErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
        return
    }

    if req.Currency == "" {
        req.Currency = "usd"
    }
    req.Currency = strings.ToLower(req.Currency)

    // A donor who tampered with the amount restarts the flow. An
    // unparseable amount decoded to zero and fails here too.
    if !h.processor.ValidateAmount(req.Amount.Value(), req.Currency) {
        log.Printf("[RequestID: %s] Invalid amount %.2f %s, redirecting", requestID, req.Amount.Value(), req.Currency)
        http.Redirect(w, r, homePath, http.StatusFound)
        return
    }

    if msg := validateCardRequest(&req); msg != "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, msg)
        return
    }

    customerResult, err := h.processor.CreateCustomer(r.Context(), &req)
    if err != nil {
        log.Printf("[RequestID: %s] Customer creation error: %v", requestID, err)
        utils.SendPaymentErrors(w, []string{payment.GenericPaymentErrorMessage}, nil)
        return
    }

    if !customerResult.Success {
        log.Printf("[RequestID: %s] Customer creation declined: %s", requestID, customerResult.Message)
        h.processGatewayErrors(w, requestID, customerResult)
        return
    }

    token := customerResult.Customer.DefaultPaymentMethodToken()
    if token == "" {
        log.Printf("[RequestID: %s] Customer created without payment method", requestID)
        utils.SendPaymentErrors(w, []string{payment.GenericPaymentErrorMessage}, nil)
        return
    }

    var result *braintree.Result
    if frequency == types.FrequencySingle {
        result, err = h.processor.SaleWithToken(r.Context(), req.Currency, token, req.Amount.Value())
    } else {
        result, err = h.processor.CreateSubscription(r.Context(), req.Currency, token, req.Amount.Value())
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
        FirstName:          req.FirstName,
        LastName:           req.LastName,
        Email:              req.Email,
        Amount:             req.Amount.Value(),
        Currency:           req.Currency,
        TransactionID:      transactionID(result),
        PaymentMethod:      types.MethodCard,
        PaymentFrequency:   frequency,
        PaymentMethodToken: token,
    }

    h.success(w, r, requestID, details)
}

// transactionID extracts the gateway identifier from a successful
// result, whichever object the operation produced.
func transactionID(result *braintree.Result) string {
    if result.Transaction != nil {
        return result.Transaction.ID
    }
    if result.Subscription != nil {
        return result.Subscription.ID
    }
    return ""
}

// success stores the completed transaction in the session, schedules
// the post-donation jobs, and sends the donor to the next step of the
// flow: single card donations get the upsell page, everything else the
// completed page.
func (h *PaymentHandler) success(w http.ResponseWriter, r *http.Request, requestID string, details models.TransactionDetails) {
    if err := h.sessions.SaveTransactionDetails(w, r, details); err != nil {
        log.Printf("[RequestID: %s] Failed to save session: %v", requestID, err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to save transaction details")
        return
    }

    h.enqueuePostDonationJobs(requestID, details)

    log.Printf("[RequestID: %s] Donation completed with transaction ID %s", requestID, details.TransactionID)

    target := completedPath
    if details.PaymentMethod == types.MethodCard && details.PaymentFrequency == types.FrequencySingle {
        target = upsellPath
    }
    http.Redirect(w, r, target, http.StatusFound)
}

// enqueuePostDonationJobs schedules donation recording and the receipt
// email. Failures are logged only; the donation has already succeeded.
func (h *PaymentHandler) enqueuePostDonationJobs(requestID string, details models.TransactionDetails) {
    ctx := context.Background()

    err := h.queue.Enqueue(ctx, queue.JobTypeRecordDonation, map[string]interface{}{
        "donation_id":       uuid.New().String(),
        "transaction_id":    details.TransactionID,
        "amount":            details.Amount,
        "currency":          details.Currency,
        "payment_method":    string(details.PaymentMethod),
        "payment_frequency": string(details.PaymentFrequency),
        "donor_name":        strings.TrimSpace(details.FirstName + " " + details.LastName),
        "donor_email":       details.Email,
    })
    if err != nil {
        log.Printf("[RequestID: %s] Warning: Failed to enqueue donation record: %v", requestID, err)
    }

    if details.Email == "" {
        return
    }

    err = h.queue.Enqueue(ctx, queue.JobTypeSendReceipt, map[string]interface{}{
        "email":          details.Email,
        "name":           details.FirstName,
        "amount":         details.Amount,
        "currency":       details.Currency,
        "transaction_id": details.TransactionID,
        "frequency":      string(details.PaymentFrequency),
    })
    if err != nil {
        log.Printf("[RequestID: %s] Warning: Failed to enqueue receipt email: %v", requestID, err)
    }
}

// processGatewayErrors turns a declined gateway result into the
// user-facing error response. Address-scoped errors are reported
// separately so the donor re-enters address details; card errors are
// filtered down to the ones the donor can act on, with a generic
// fallback when nothing is reportable.
func (h *PaymentHandler) processGatewayErrors(w http.ResponseWriter, requestID string, result *braintree.Result) {
    if err := payment.CheckForAddressErrors(result); err != nil {
        var invalidAddress *payment.InvalidAddressError
        if errors.As(err, &invalidAddress) {
            log.Printf("[RequestID: %s] Gateway rejected billing address: %v", requestID, invalidAddress.Messages)
            utils.SendPaymentErrors(w, nil, invalidAddress.Messages)
            return
        }
    }

    filtered := payment.FilterUserCardErrors(result)
    if len(filtered) == 0 {
        filtered = []string{payment.GenericPaymentErrorMessage}
    }
    utils.SendPaymentErrors(w, filtered, nil)
}

func validateCardRequest(req *models.CardDonationRequest) string {
    switch {
    case req.Nonce == "":
        return "Missing payment method nonce"
    case req.FirstName == "" || req.LastName == "":
        return "Missing donor name"
    case req.Email == "":
        return "Missing donor email"
    case req.AddressLine1 == "" || req.Town == "" || req.PostCode == "" || req.Country == "":
        return "Missing billing address"
    }
    return ""
}
