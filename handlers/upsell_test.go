package handlers

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "donate-payment-api/models"
    "donate-payment-api/services/payment"
    "donate-payment-api/services/payment/braintree"
    "donate-payment-api/types"
)

// requestWithSession builds a request whose session already carries the
// given completed transaction.
func requestWithSession(t *testing.T, sessions *SessionStore, method, target string, body []byte, details models.TransactionDetails) *http.Request {
    t.Helper()

    seed := httptest.NewRequest("GET", "/", nil)
    w := httptest.NewRecorder()
    require.NoError(t, sessions.SaveTransactionDetails(w, seed, details))

    req := httptest.NewRequest(method, target, bytes.NewReader(body))
    for _, c := range w.Result().Cookies() {
        req.AddCookie(c)
    }
    return req
}

func singleCardDetails() models.TransactionDetails {
    return models.TransactionDetails{
        FirstName:          "Jane",
        LastName:           "Doe",
        Email:              "jane.doe@example.org",
        Amount:             50,
        Currency:           "usd",
        TransactionID:      "txn-42",
        PaymentMethod:      types.MethodCard,
        PaymentFrequency:   types.FrequencySingle,
        PaymentMethodToken: "tok-123",
    }
}

func TestCardUpsellPageWithoutSessionRedirectsHome(t *testing.T) {
    h, _, _ := newTestHandler(t, &processorMock{})

    req := httptest.NewRequest("GET", "/donate/card-upsell", nil)
    w := httptest.NewRecorder()
    h.CardUpsellPage(w, req)

    assert.Equal(t, http.StatusFound, w.Code)
    assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestCardUpsellPageIneligibleRedirectsCompleted(t *testing.T) {
    h, _, sessions := newTestHandler(t, &processorMock{})

    for name, details := range map[string]models.TransactionDetails{
        "paypal": {
            Amount:           50,
            Currency:         "usd",
            TransactionID:    "txn-pp",
            PaymentMethod:    types.MethodPaypal,
            PaymentFrequency: types.FrequencySingle,
        },
        "already monthly": {
            Amount:             10,
            Currency:           "usd",
            TransactionID:      "sub-1",
            PaymentMethod:      types.MethodCard,
            PaymentFrequency:   types.FrequencyMonthly,
            PaymentMethodToken: "tok-123",
        },
        "no vaulted token": {
            Amount:           50,
            Currency:         "usd",
            TransactionID:    "txn-1",
            PaymentMethod:    types.MethodCard,
            PaymentFrequency: types.FrequencySingle,
        },
    } {
        req := requestWithSession(t, sessions, "GET", "/donate/card-upsell", nil, details)
        w := httptest.NewRecorder()
        h.CardUpsellPage(w, req)

        assert.Equal(t, http.StatusFound, w.Code, name)
        assert.Equal(t, "/donate/completed", w.Header().Get("Location"), name)
    }
}

func TestCardUpsellPageSuggestsAmount(t *testing.T) {
    h, _, sessions := newTestHandler(t, &processorMock{})

    req := requestWithSession(t, sessions, "GET", "/donate/card-upsell", nil, singleCardDetails())
    w := httptest.NewRecorder()
    h.CardUpsellPage(w, req)

    require.Equal(t, http.StatusOK, w.Code)

    var resp models.APIResponse
    require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
    data, ok := resp.Data.(map[string]interface{})
    require.True(t, ok)
    assert.Equal(t, 12.5, data["suggested_amount"])
}

func TestSuggestedUpsellAmountFloorsAtCurrencyMinimum(t *testing.T) {
    h, _, _ := newTestHandler(t, &processorMock{})
    details := singleCardDetails()

    details.Amount = 4
    assert.Equal(t, 2.0, h.suggestedUpsellAmount(&details))
    details.Amount = 100
    assert.Equal(t, 25.0, h.suggestedUpsellAmount(&details))

    // A currency configured with a higher minimum raises the floor.
    mock := &processorMock{currency: func(code string) (payment.CurrencyConfig, bool) {
        return payment.CurrencyConfig{Code: code, MinimumAmount: 5}, true
    }}
    h, _, _ = newTestHandler(t, mock)
    details.Amount = 12
    assert.Equal(t, 5.0, h.suggestedUpsellAmount(&details))
}

func TestCardUpsellCreatesMonthlySubscription(t *testing.T) {
    var subCurrency, subToken string
    var subPrice float64
    var billingDate time.Time

    mock := &processorMock{
        createUpsellSubscription: func(ctx context.Context, currency, token string, price float64, firstBillingDate time.Time) (*braintree.Result, error) {
            subCurrency, subToken, subPrice, billingDate = currency, token, price, firstBillingDate
            return &braintree.Result{
                Success:      true,
                Subscription: &braintree.Subscription{ID: "sub-up-1"},
            }, nil
        },
    }

    h, _, sessions := newTestHandler(t, mock)

    body, _ := json.Marshal(models.UpsellRequest{Amount: 12})
    req := requestWithSession(t, sessions, "POST", "/donate/card-upsell", body, singleCardDetails())
    w := httptest.NewRecorder()
    h.CardUpsell(w, req)

    assert.Equal(t, http.StatusFound, w.Code)
    assert.Equal(t, "/donate/completed", w.Header().Get("Location"))

    assert.Equal(t, "usd", subCurrency)
    assert.Equal(t, "tok-123", subToken)
    assert.Equal(t, 12.0, subPrice)

    // First charge lands one month out; the single gift already covers
    // the current month.
    expected := time.Now().AddDate(0, 1, 0)
    assert.WithinDuration(t, expected, billingDate, time.Minute)

    // The session now reflects the subscription, not the single gift.
    readBack := httptest.NewRequest("GET", "/donate/completed", nil)
    for _, c := range w.Result().Cookies() {
        readBack.AddCookie(c)
    }
    details, ok := sessions.TransactionDetails(readBack)
    require.True(t, ok)
    assert.Equal(t, "sub-up-1", details.TransactionID)
    assert.Equal(t, types.FrequencyMonthly, details.PaymentFrequency)
    assert.Equal(t, 12.0, details.Amount)
}

func TestCardUpsellBadAmountIs400(t *testing.T) {
    h, _, sessions := newTestHandler(t, &processorMock{})

    body, _ := json.Marshal(models.UpsellRequest{Amount: 0.5})
    req := requestWithSession(t, sessions, "POST", "/donate/card-upsell", body, singleCardDetails())
    w := httptest.NewRecorder()
    h.CardUpsell(w, req)

    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCardUpsellDeclineKeepsSession(t *testing.T) {
    mock := &processorMock{
        createUpsellSubscription: func(ctx context.Context, currency, token string, price float64, firstBillingDate time.Time) (*braintree.Result, error) {
            return declinedResult(braintree.ScopeCreditCard, braintree.ErrCodeCardInsufficientFunds, "Insufficient Funds"), nil
        },
    }

    h, _, sessions := newTestHandler(t, mock)

    body, _ := json.Marshal(models.UpsellRequest{Amount: 12})
    req := requestWithSession(t, sessions, "POST", "/donate/card-upsell", body, singleCardDetails())
    w := httptest.NewRecorder()
    h.CardUpsell(w, req)

    assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

    var resp models.PaymentErrorResponse
    require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
    assert.Equal(t, []string{"Your card has insufficient funds."}, resp.Errors)

    // The original single donation is still the session transaction.
    details, ok := sessions.TransactionDetails(req)
    require.True(t, ok)
    assert.Equal(t, "txn-42", details.TransactionID)
    assert.Equal(t, types.FrequencySingle, details.PaymentFrequency)
}

func TestCompletedReturnsSessionDetails(t *testing.T) {
    h, _, sessions := newTestHandler(t, &processorMock{})

    req := requestWithSession(t, sessions, "GET", "/donate/completed", nil, singleCardDetails())
    w := httptest.NewRecorder()
    h.Completed(w, req)

    require.Equal(t, http.StatusOK, w.Code)

    var resp models.APIResponse
    require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
    assert.Equal(t, "success", resp.Status)

    data, ok := resp.Data.(map[string]interface{})
    require.True(t, ok)
    assert.Equal(t, "txn-42", data["transaction_id"])
}

func TestTransactionRequiredBlocksWithoutSession(t *testing.T) {
    sessions := newTestSessionStore()

    next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
    })

    req := httptest.NewRequest("GET", "/donate/completed", nil)
    w := httptest.NewRecorder()
    sessions.TransactionRequired(next).ServeHTTP(w, req)

    assert.Equal(t, http.StatusFound, w.Code)
    assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestTransactionRequiredPassesWithSession(t *testing.T) {
    sessions := newTestSessionStore()

    called := false
    next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        called = true
        w.WriteHeader(http.StatusOK)
    })

    req := requestWithSession(t, sessions, "GET", "/donate/completed", nil, singleCardDetails())
    w := httptest.NewRecorder()
    sessions.TransactionRequired(next).ServeHTTP(w, req)

    assert.Equal(t, http.StatusOK, w.Code)
    assert.True(t, called)
}
