package database

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "donate-payment-api/models"
)

// SaveDonation records a completed donation. Duplicate transaction IDs
// are ignored so job retries stay idempotent.
func (c *Connection) SaveDonation(ctx context.Context, d *models.Donation) error {
    opCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
    defer cancel()

    query := `
        INSERT INTO donations (
            id, transaction_id, amount, currency,
            payment_method, payment_frequency,
            donor_name, donor_email, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())
        ON DUPLICATE KEY UPDATE transaction_id = transaction_id
    `

    _, err := c.db.ExecContext(opCtx, query,
        d.ID,
        d.TransactionID,
        d.Amount,
        d.Currency,
        d.PaymentMethod,
        d.PaymentFrequency,
        d.DonorName,
        d.DonorEmail,
    )
    if err != nil {
        return fmt.Errorf("failed to save donation: %v", err)
    }

    return nil
}

// GetDonation looks a donation up by its record ID.
func (c *Connection) GetDonation(ctx context.Context, id string) (*models.Donation, error) {
    opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()

    var d models.Donation
    err := c.db.QueryRowContext(opCtx, `
        SELECT id, transaction_id, amount, currency,
               payment_method, payment_frequency,
               COALESCE(donor_name, ''), COALESCE(donor_email, ''), created_at
        FROM donations
        WHERE id = ?
    `, id).Scan(
        &d.ID, &d.TransactionID, &d.Amount, &d.Currency,
        &d.PaymentMethod, &d.PaymentFrequency,
        &d.DonorName, &d.DonorEmail, &d.CreatedAt,
    )

    if err == sql.ErrNoRows {
        return nil, fmt.Errorf("donation not found: %s", id)
    } else if err != nil {
        return nil, fmt.Errorf("failed to load donation: %v", err)
    }

    return &d, nil
}

// GetDonationByTransactionID looks a donation up by the gateway
// transaction or subscription ID.
func (c *Connection) GetDonationByTransactionID(ctx context.Context, transactionID string) (*models.Donation, error) {
    opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()

    var id string
    err := c.db.QueryRowContext(opCtx,
        `SELECT id FROM donations WHERE transaction_id = ? LIMIT 1`,
        transactionID).Scan(&id)

    if err == sql.ErrNoRows {
        return nil, fmt.Errorf("donation not found for transaction: %s", transactionID)
    } else if err != nil {
        return nil, fmt.Errorf("failed to load donation: %v", err)
    }

    return c.GetDonation(ctx, id)
}
