package email

type EmailSender interface {
    SendEmail(to, subject, body string) error
    SendReceiptEmail(to, name string, details ReceiptDetails) error
}
