package utils

import (
    "encoding/json"
    "net/http"

    "donate-payment-api/models"
)

func SendErrorResponse(w http.ResponseWriter, status int, message string) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(models.APIResponse{
        Status:  "error",
        Message: message,
    })
}

func SendSuccessResponse(w http.ResponseWriter, response models.APIResponse) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusOK)
    json.NewEncoder(w).Encode(response)
}

// SendPaymentErrors returns the gateway's user-facing decline messages.
// Address errors get their own field so the client can route the donor
// back to the address step.
func SendPaymentErrors(w http.ResponseWriter, errors, addressErrors []string) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusUnprocessableEntity)
    json.NewEncoder(w).Encode(models.PaymentErrorResponse{
        Status:        "error",
        Errors:        errors,
        AddressErrors: addressErrors,
    })
}
