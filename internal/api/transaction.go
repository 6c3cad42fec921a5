package api

import (
	"encoding/json" // Envelope framing
	"net/http"      // HTTP status codes
	"time"          // Log timestamps
	"wallet_relay/internal/domain"
	"wallet_relay/internal/notify"
	"wallet_relay/internal/relay"

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// SubmitTransactionHandler accepts a bare transaction body and treats it
// exactly like a TRANSACTION envelope received on a socket: the
// notification hook fires asynchronously and the envelope is broadcast to
// every open connection (HTTP callers hold no socket to exclude).
func SubmitTransactionHandler(hub *relay.Hub, notifier notify.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tx domain.Transaction // Bind JSON request to struct
		if err := c.ShouldBindJSON(&tx); err != nil {
			// If binding fails, return the endpoint's single failure shape
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction processing failed"})
			return
		}
		env, err := domain.NewTransactionEnvelope(tx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction processing failed"})
			return
		}
		frame, err := json.Marshal(env)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction processing failed"})
			return
		}
		// Fire-and-forget: email failures are logged by the notifier and
		// never surface to the caller.
		go notifier.Notify(tx)
		hub.Broadcast(frame, nil)
		// Log accepted submission
		logrus.WithFields(logrus.Fields{
			"tx_id":     tx.ID,                           // Transaction id
			"sender":    tx.Sender,                       // Sender address
			"recipient": tx.Recipient,                    // Recipient address
			"amount":    tx.Amount,                       // Transfer amount
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Transaction submitted over HTTP")
		// Return success response
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Transaction processed successfully"})
	}
}

// HealthHandler reports process liveness.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	}
}
