package handlers

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "donate-payment-api/models"
    "donate-payment-api/services/payment/braintree"
    "donate-payment-api/types"
)

func paypalRequest(t *testing.T, payload interface{}) *http.Request {
    t.Helper()
    body, err := json.Marshal(payload)
    require.NoError(t, err)
    return httptest.NewRequest("POST", "/donate/paypal", bytes.NewReader(body))
}

func TestPaypalPaymentInvalidFrequencyIs400(t *testing.T) {
    h, _, _ := newTestHandler(t, &processorMock{})

    req := paypalRequest(t, models.PaypalDonationRequest{
        Amount:    10,
        Frequency: "yearly",
        Nonce:     "fake-paypal-nonce",
    })
    w := httptest.NewRecorder()
    h.PaypalPayment(w, req)

    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaypalPaymentMissingNonceIs400(t *testing.T) {
    h, _, _ := newTestHandler(t, &processorMock{})

    req := paypalRequest(t, models.PaypalDonationRequest{
        Amount:    10,
        Frequency: types.FrequencySingle,
    })
    w := httptest.NewRecorder()
    h.PaypalPayment(w, req)

    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaypalPaymentBadAmountRedirectsHome(t *testing.T) {
    h, _, _ := newTestHandler(t, &processorMock{})

    req := paypalRequest(t, models.PaypalDonationRequest{
        Amount:    0.5,
        Frequency: types.FrequencySingle,
        Nonce:     "fake-paypal-nonce",
    })
    w := httptest.NewRecorder()
    h.PaypalPayment(w, req)

    assert.Equal(t, http.StatusFound, w.Code)
    assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestPaypalPaymentSingleChargesNonceDirectly(t *testing.T) {
    var saleNonce string
    var saleAmount float64

    mock := &processorMock{
        saleWithNonce: func(ctx context.Context, nonce string, amount float64) (*braintree.Result, error) {
            saleNonce, saleAmount = nonce, amount
            return &braintree.Result{
                Success:     true,
                Transaction: &braintree.Transaction{ID: "txn-pp-1"},
            }, nil
        },
    }

    h, _, sessions := newTestHandler(t, mock)

    req := paypalRequest(t, models.PaypalDonationRequest{
        Amount:    25,
        Frequency: types.FrequencySingle,
        Nonce:     "fake-paypal-nonce",
    })
    w := httptest.NewRecorder()
    h.PaypalPayment(w, req)

    // PayPal donors never see the card upsell.
    assert.Equal(t, http.StatusFound, w.Code)
    assert.Equal(t, "/donate/completed", w.Header().Get("Location"))

    assert.Equal(t, "fake-paypal-nonce", saleNonce)
    assert.Equal(t, 25.0, saleAmount)

    readBack := httptest.NewRequest("GET", "/donate/completed", nil)
    for _, c := range w.Result().Cookies() {
        readBack.AddCookie(c)
    }
    details, ok := sessions.TransactionDetails(readBack)
    require.True(t, ok)
    assert.Equal(t, types.MethodPaypal, details.PaymentMethod)
    assert.Equal(t, "txn-pp-1", details.TransactionID)
    assert.Empty(t, details.PaymentMethodToken)
}

func TestPaypalPaymentMonthlyVaultsThenSubscribes(t *testing.T) {
    var vaultedNonce, subCurrency, subToken string

    mock := &processorMock{
        createPaypalCustomer: func(ctx context.Context, nonce string) (*braintree.Result, error) {
            vaultedNonce = nonce
            return customerResultWithToken("tok-pp"), nil
        },
        createPaypalSubscription: func(ctx context.Context, currency, token string, price float64) (*braintree.Result, error) {
            subCurrency, subToken = currency, token
            return &braintree.Result{
                Success:      true,
                Subscription: &braintree.Subscription{ID: "sub-pp-1"},
            }, nil
        },
    }

    h, _, _ := newTestHandler(t, mock)

    req := paypalRequest(t, models.PaypalDonationRequest{
        Amount:    10,
        Frequency: types.FrequencyMonthly,
        Nonce:     "fake-paypal-nonce",
    })
    w := httptest.NewRecorder()
    h.PaypalPayment(w, req)

    assert.Equal(t, http.StatusFound, w.Code)
    assert.Equal(t, "/donate/completed", w.Header().Get("Location"))

    assert.Equal(t, "fake-paypal-nonce", vaultedNonce)
    assert.Equal(t, "usd", subCurrency)
    assert.Equal(t, "tok-pp", subToken)
}

func TestPaypalPaymentMonthlyCustomerDeclineStopsFlow(t *testing.T) {
    mock := &processorMock{
        createPaypalCustomer: func(ctx context.Context, nonce string) (*braintree.Result, error) {
            return declinedResult(braintree.ScopeCustomer, "91564", "Cannot use a payment method nonce more than once."), nil
        },
    }

    h, enq, _ := newTestHandler(t, mock)

    req := paypalRequest(t, models.PaypalDonationRequest{
        Amount:    10,
        Frequency: types.FrequencyMonthly,
        Nonce:     "fake-paypal-nonce",
    })
    w := httptest.NewRecorder()
    h.PaypalPayment(w, req)

    assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
    assert.Empty(t, enq.jobs)
}
