package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"donate-payment-api/database"
	"donate-payment-api/models"
	"donate-payment-api/queue"
	"donate-payment-api/services/email"
)

// Worker drains post-donation jobs: receipt emails and donation
// recording. Neither may fail the donor-facing request, which is why
// they run here instead of in the handlers.
type Worker struct {
	queue        *queue.Queue
	db           *database.Connection
	emailService email.EmailSender
	shutdown     chan struct{}
	isRunning    bool
}

func NewWorker(q *queue.Queue, db *database.Connection, es email.EmailSender) *Worker {
	return &Worker{
		queue:        q,
		db:           db,
		emailService: es,
		shutdown:     make(chan struct{}),
	}
}

// Start begins processing jobs and pumping due delayed jobs back onto
// the main queue.
func (w *Worker) Start(concurrency int) {
	w.isRunning = true

	for i := 0; i < concurrency; i++ {
		go w.processJobs(i)
	}
	go w.pumpDelayedJobs()

	log.Printf("Started %d worker goroutines", concurrency)
}

func (w *Worker) Stop() {
	if !w.isRunning {
		return
	}

	log.Println("Stopping worker...")
	close(w.shutdown)
	w.isRunning = false
}

func (w *Worker) pumpDelayedJobs() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := w.queue.ProcessDelayedJobs(ctx); err != nil {
				log.Printf("Error processing delayed jobs: %v", err)
			}
			cancel()
		}
	}
}

func (w *Worker) processJobs(workerID int) {
	log.Printf("Worker %d starting", workerID)

	for {
		select {
		case <-w.shutdown:
			log.Printf("Worker %d shutting down", workerID)
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			job, err := w.queue.Dequeue(ctx, 5*time.Second)
			cancel()

			if err != nil {
				log.Printf("Worker %d: Error dequeuing job: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}

			if job == nil {
				time.Sleep(100 * time.Millisecond)
				continue
			}

			log.Printf("Worker %d processing job %s of type %s", workerID, job.ID, job.Type)

			jobErr := w.processJob(job)
			if jobErr != nil {
				log.Printf("Worker %d: Error processing job %s: %v", workerID, job.ID, jobErr)

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				failErr := w.queue.FailJob(ctx, job, jobErr)
				cancel()

				if failErr != nil {
					log.Printf("Worker %d: Error marking job %s as failed: %v", workerID, job.ID, failErr)
				}

				time.Sleep(time.Second)
				continue
			}

			ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			completeErr := w.queue.CompleteJob(ctx, job)
			cancel()

			if completeErr != nil {
				log.Printf("Worker %d: Error marking job %s as complete: %v", workerID, job.ID, completeErr)
			}
		}
	}
}

func (w *Worker) processJob(job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeSendReceipt:
		return w.processSendReceipt(job)
	case queue.JobTypeRecordDonation:
		return w.processRecordDonation(job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (w *Worker) processSendReceipt(job *queue.Job) error {
	to, ok := job.Data["email"].(string)
	if !ok || to == "" {
		return fmt.Errorf("invalid email in job data")
	}

	name, _ := job.Data["name"].(string)
	amount, _ := job.Data["amount"].(float64)
	currency, _ := job.Data["currency"].(string)
	transactionID, _ := job.Data["transaction_id"].(string)
	frequency, _ := job.Data["frequency"].(string)

	log.Printf("Sending donation receipt to %s for transaction %s", to, transactionID)

	return w.emailService.SendReceiptEmail(to, name, email.ReceiptDetails{
		Amount:        amount,
		Currency:      currency,
		TransactionID: transactionID,
		Frequency:     frequency,
	})
}

func (w *Worker) processRecordDonation(job *queue.Job) error {
	donation := &models.Donation{}

	var ok bool
	if donation.ID, ok = job.Data["donation_id"].(string); !ok || donation.ID == "" {
		return fmt.Errorf("invalid donation_id in job data")
	}
	if donation.TransactionID, ok = job.Data["transaction_id"].(string); !ok || donation.TransactionID == "" {
		return fmt.Errorf("invalid transaction_id in job data")
	}

	donation.Amount, _ = job.Data["amount"].(float64)
	donation.Currency, _ = job.Data["currency"].(string)
	donation.PaymentMethod, _ = job.Data["payment_method"].(string)
	donation.PaymentFrequency, _ = job.Data["payment_frequency"].(string)
	donation.DonorName, _ = job.Data["donor_name"].(string)
	donation.DonorEmail, _ = job.Data["donor_email"].(string)

	log.Printf("Recording donation %s for transaction %s", donation.ID, donation.TransactionID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return w.db.SaveDonation(ctx, donation)
}
