package handlers

import (
    "encoding/json"
    "fmt"
    "log"
    "net/http"

    "donate-payment-api/models"
    "donate-payment-api/queue"
    "donate-payment-api/utils"
)

// InternalHandler serves the JWT-protected operations endpoints.
type InternalHandler struct {
    queue *queue.Queue
}

func NewInternalHandler(q *queue.Queue) *InternalHandler {
    return &InternalHandler{queue: q}
}

// RetryFailedJob requeues a job from the failed queue by ID.
func (h *InternalHandler) RetryFailedJob(w http.ResponseWriter, r *http.Request) {
    var req struct {
        JobID string `json:"job_id"`
    }

    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        utils.SendErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
        return
    }

    if req.JobID == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "Missing job_id parameter")
        return
    }

    if err := h.queue.RetryJob(r.Context(), req.JobID); err != nil {
        log.Printf("Failed to requeue job %s: %v", req.JobID, err)
        utils.SendErrorResponse(w, http.StatusNotFound, fmt.Sprintf("Failed to requeue job: %v", err))
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: fmt.Sprintf("Job %s requeued", req.JobID),
    })
}
