package email

import (
    "crypto/tls"
    "fmt"
    "net"
    "net/smtp"
    "strings"
)

type SMTPConfig struct {
    Host     string
    Port     string
    Username string
    Password string
    From     string
}

type SMTPService struct {
    config SMTPConfig
}

func NewSMTPService(config SMTPConfig) *SMTPService {
    if config.From == "" {
        config.From = "no-reply@donate.example.org"
    }
    return &SMTPService{
        config: config,
    }
}

func (s *SMTPService) SendEmail(to, subject, body string) error {
    tlsConfig := &tls.Config{
        ServerName: s.config.Host,
    }

    conn, err := net.Dial("tcp", fmt.Sprintf("%s:%s", s.config.Host, s.config.Port))
    if err != nil {
        return fmt.Errorf("failed to connect to SMTP server: %v", err)
    }

    client, err := smtp.NewClient(conn, s.config.Host)
    if err != nil {
        return fmt.Errorf("failed to create SMTP client: %v", err)
    }
    defer client.Close()

    if err = client.StartTLS(tlsConfig); err != nil {
        return fmt.Errorf("failed to start TLS: %v", err)
    }

    if err = client.Mail(s.config.From); err != nil {
        return fmt.Errorf("failed to set sender: %v", err)
    }
    if err = client.Rcpt(to); err != nil {
        return fmt.Errorf("failed to set recipient: %v", err)
    }

    w, err := client.Data()
    if err != nil {
        return fmt.Errorf("failed to create email body writer: %v", err)
    }

    headers := fmt.Sprintf(
        "From: Donations <%s>\r\n"+
            "To: %s\r\n"+
            "Subject: %s\r\n"+
            "MIME-Version: 1.0\r\n"+
            "Content-Type: text/html; charset=UTF-8\r\n"+
            "\r\n",
        s.config.From, to, subject,
    )

    if _, err = w.Write([]byte(headers + body)); err != nil {
        return fmt.Errorf("failed to write email body: %v", err)
    }

    if err = w.Close(); err != nil {
        return fmt.Errorf("failed to close email body writer: %v", err)
    }

    return client.Quit()
}

// ReceiptDetails carries the fields shown in a donation receipt.
type ReceiptDetails struct {
    Amount        float64
    Currency      string
    TransactionID string
    Frequency     string
}

// SendReceiptEmail sends the thank-you receipt for a completed donation.
func (s *SMTPService) SendReceiptEmail(to, name string, details ReceiptDetails) error {
    greeting := "Thank you for your donation!"
    if name != "" {
        greeting = fmt.Sprintf("Thank you for your donation, %s!", name)
    }

    cadence := "One-time donation"
    if details.Frequency == "monthly" {
        cadence = "Monthly donation"
    }

    body := fmt.Sprintf(
        ReceiptEmailTemplate,
        greeting,
        cadence,
        fmt.Sprintf("%.2f %s", details.Amount, strings.ToUpper(details.Currency)),
        details.TransactionID,
    )

    return s.SendEmail(to, "Your donation receipt", body)
}
