package main

import (
	"context"                      // Lifetime of the connection loop
	"strconv"                      // Port formatting
	"wallet_relay/internal/config" // Custom import path (Config)
	"wallet_relay/internal/ledger" // Custom import path (Ledger client)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for the headless ledger client. It mirrors what the
// browser page does: hold the two-node ledger, stay connected to the relay
// and apply every transaction envelope it observes.
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	l := ledger.NewLedger(ledger.NewLogRenderer()) // Two fixed nodes, logging renderer

	url := "ws://localhost:" + strconv.Itoa(config.WebSocketPort)
	connector := ledger.NewConnector(url, l)
	l.SetBroadcaster(connector) // Outgoing transfers ride the same connection

	connector.Run(context.Background()) // Reconnects forever on loss
}
