package main

import (
	"log"                          // log package is needed for startup logging
	"net/http"                     // WebSocket listener
	"strconv"                      // Port formatting
	"wallet_relay/internal/api"    // Custom package for API handlers
	"wallet_relay/internal/config" // Custom package for configuration
	"wallet_relay/internal/notify" // Custom package for email notifications
	"wallet_relay/internal/relay"  // Custom package for the WebSocket hub

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main function to set up and run the relay server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup the email notifier
	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPassword)

	// Setup the WebSocket hub; every accepted transaction triggers the
	// notification emails off the broadcast path
	hub := relay.NewHub(mailer.Notify)

	// Run the persistent-connection server on its fixed port
	wsAddr := ":" + strconv.Itoa(config.WebSocketPort)
	go func() {
		log.Println("WebSocket server running on port " + strconv.Itoa(config.WebSocketPort))
		if err := http.ListenAndServe(wsAddr, hub.Handler()); err != nil {
			logrus.Fatalf("websocket server failed: %v", err)
		}
	}()

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	r.POST("/api/transaction", api.SubmitTransactionHandler(hub, mailer)) // HTTP transaction ingress
	r.GET("/health", api.HealthHandler())                                 // Liveness endpoint

	log.Println("Server running on " + cfg.HTTPPort) // Log server start
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		logrus.Fatalf("http server failed: %v", err) // Fatal error if the server cannot start
	}
}
