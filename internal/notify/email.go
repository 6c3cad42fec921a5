package notify

import (
	"fmt"  // Body formatting
	"sync" // Waiting on the two concurrent sends
	"wallet_relay/internal/domain"

	"github.com/sirupsen/logrus" // Logging library
	"gopkg.in/gomail.v2"         // SMTP client
)

// Sender dispatches confirmation messages for an accepted transaction.
type Sender interface {
	Notify(tx domain.Transaction)
}

// Mailer sends one confirmation email to the sender and one to the
// recipient of each transaction. Pure side effect: no retry, no delivery
// confirmation surfaced anywhere.
type Mailer struct {
	from string
	send func(...*gomail.Message) error
}

// NewMailer builds a mailer on top of an SMTP dialer.
func NewMailer(host string, port int, user, password string) *Mailer {
	dialer := gomail.NewDialer(host, port, user, password)
	return &Mailer{from: user, send: dialer.DialAndSend}
}

// Notify dispatches both emails concurrently and waits for them. Failures
// are logged and swallowed: a broken mailbox must never fail the
// transaction or its broadcast.
func (m *Mailer) Notify(tx domain.Transaction) {
	var wg sync.WaitGroup
	for _, msg := range []*gomail.Message{m.senderMessage(tx), m.recipientMessage(tx)} {
		wg.Add(1)
		go func(msg *gomail.Message) {
			defer wg.Done()
			if err := m.send(msg); err != nil {
				logrus.WithFields(logrus.Fields{
					"tx_id": tx.ID,       // Transaction id
					"to":    msg.GetHeader("To"),
					"error": err.Error(), // Error message
				}).Error("Email send failed")
				return
			}
			logrus.WithField("tx_id", tx.ID).Info("Email sent")
		}(msg)
	}
	wg.Wait()
}

// senderMessage is the confirmation sent to the declared sender address.
func (m *Mailer) senderMessage(tx domain.Transaction) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", tx.SenderEmail)
	msg.SetHeader("Subject", "Blockchain transaction confirmation")
	msg.SetBody("text/html", senderBody(tx))
	return msg
}

// recipientMessage is the notice sent to the declared recipient address.
func (m *Mailer) recipientMessage(tx domain.Transaction) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", tx.RecipientEmail)
	msg.SetHeader("Subject", "Blockchain transaction received")
	msg.SetBody("text/html", recipientBody(tx))
	return msg
}

// senderBody carries the id, recipient address, amount and time.
func senderBody(tx domain.Transaction) string {
	return fmt.Sprintf(
		"<h2>Your transaction was sent successfully</h2>"+
			"<p>Transaction ID: %s</p>"+
			"<p>Recipient address: %s</p>"+
			"<p>Amount: %s BTC</p>"+
			"<p>Time: %s</p>",
		tx.ID, tx.Recipient, tx.Amount.StringFixed(8), tx.Timestamp.Local().Format("2006-01-02 15:04:05"))
}

// recipientBody carries the id, sender address, amount and time.
func recipientBody(tx domain.Transaction) string {
	return fmt.Sprintf(
		"<h2>A new transaction was received</h2>"+
			"<p>Transaction ID: %s</p>"+
			"<p>Sender address: %s</p>"+
			"<p>Amount: %s BTC</p>"+
			"<p>Time: %s</p>",
		tx.ID, tx.Sender, tx.Amount.StringFixed(8), tx.Timestamp.Local().Format("2006-01-02 15:04:05"))
}
