package models

type APIResponse struct {
    Status  string      `json:"status"`
    Message string      `json:"message"`
    Data    interface{} `json:"data,omitempty"`
}

// PaymentErrorResponse is returned when the gateway declines a payment.
// Errors holds user-facing messages; AddressErrors is populated when the
// gateway rejected the billing address so the client can send the donor
// back to the address step.
type PaymentErrorResponse struct {
    Status        string   `json:"status"`
    Errors        []string `json:"errors"`
    AddressErrors []string `json:"address_errors,omitempty"`
}
