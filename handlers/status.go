package handlers

import (
    "log"
    "net/http"

    "donate-payment-api/database"
    "donate-payment-api/models"
    "donate-payment-api/utils"
)

type StatusHandler struct {
    db *database.Connection
}

func NewStatusHandler(db *database.Connection) *StatusHandler {
    return &StatusHandler{db: db}
}

// DonationStatus looks up a recorded donation by record ID or gateway
// transaction ID.
func (h *StatusHandler) DonationStatus(w http.ResponseWriter, r *http.Request) {
    id := r.URL.Query().Get("id")
    transactionID := r.URL.Query().Get("transaction_id")

    if id == "" && transactionID == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "Missing id or transaction_id parameter")
        return
    }

    var (
        donation *models.Donation
        err      error
    )
    if id != "" {
        donation, err = h.db.GetDonation(r.Context(), id)
    } else {
        donation, err = h.db.GetDonationByTransactionID(r.Context(), transactionID)
    }

    if err != nil {
        log.Printf("Donation lookup failed: %v", err)
        utils.SendErrorResponse(w, http.StatusNotFound, "Donation not found")
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Donation found",
        Data:    donation,
    })
}
