package domain

import "github.com/shopspring/decimal" // Fixed-point amounts

// WalletNode Model
type WalletNode struct {
	Address  string          `json:"address"`  // Fixed wallet address
	Balance  decimal.Decimal `json:"balance"`  // Current balance, never negative
	Sent     decimal.Decimal `json:"sent"`     // Cumulative outflow
	Received decimal.Decimal `json:"received"` // Cumulative inflow
	IsOnline bool            `json:"isOnline"` // Connection status flag
}
