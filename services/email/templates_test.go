package email

import (
    "fmt"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestReceiptTemplateRendersCleanly(t *testing.T) {
    body := fmt.Sprintf(ReceiptEmailTemplate,
        "Thank you for your donation, Jane!",
        "Monthly donation",
        "10.00 USD",
        "sub-42",
    )

    assert.Contains(t, body, "Thank you for your donation, Jane!")
    assert.Contains(t, body, "Monthly donation")
    assert.Contains(t, body, "10.00 USD")
    assert.Contains(t, body, "sub-42")

    // A stray verb in the template would show up as a %! artifact.
    assert.NotContains(t, body, "%!")
    assert.False(t, strings.Contains(body, "%%"), "escaped percents should be rendered")
}

func TestNewSMTPServiceDefaultsFromAddress(t *testing.T) {
    svc := NewSMTPService(SMTPConfig{Host: "smtp.example.org", Port: "587"})
    assert.Equal(t, "no-reply@donate.example.org", svc.config.From)

    svc = NewSMTPService(SMTPConfig{From: "donations@example.org"})
    assert.Equal(t, "donations@example.org", svc.config.From)
}
