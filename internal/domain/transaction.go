package domain

import (
	"fmt"  // For id formatting
	"time" // Timestamps

	"github.com/shopspring/decimal" // Fixed-point amounts
)

func init() {
	// Amounts travel as bare JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction status values. A transaction is created PENDING and flips to
// COMPLETED exactly once; no other transitions exist.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// Transaction Model
type Transaction struct {
	ID             string          `json:"id"`             // Unique, time-derived id
	Sender         string          `json:"sender"`         // Sender wallet address
	Recipient      string          `json:"recipient"`      // Recipient wallet address
	Amount         decimal.Decimal `json:"amount"`         // Positive fixed-point amount
	Timestamp      time.Time       `json:"timestamp"`      // Creation instant, ISO-8601 on the wire
	SenderEmail    string          `json:"senderEmail"`    // Sender's declared email
	RecipientEmail string          `json:"recipientEmail"` // Recipient's declared email
	Message        string          `json:"message"`        // Optional free text
	Status         Status          `json:"status"`         // PENDING or COMPLETED
}

// NewTransaction builds a PENDING transaction with a fresh time-derived id.
func NewTransaction(sender, recipient string, amount decimal.Decimal, senderEmail, recipientEmail, message string) Transaction {
	now := time.Now()
	return Transaction{
		ID:             fmt.Sprintf("TX-%d", now.UnixMilli()), // Time-derived id
		Sender:         sender,                                // Sender wallet address
		Recipient:      recipient,                             // Recipient wallet address
		Amount:         amount,                                // Transfer amount
		Timestamp:      now,                                   // Creation instant
		SenderEmail:    senderEmail,                           // Sender's declared email
		RecipientEmail: recipientEmail,                        // Recipient's declared email
		Message:        message,                               // Optional free text
		Status:         StatusPending,                         // Always created PENDING
	}
}
