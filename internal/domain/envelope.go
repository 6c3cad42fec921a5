package domain

import "encoding/json" // Wire encoding

// TypeTransaction is the one recognized envelope tag. Unknown tags are
// ignored by both ends, not treated as errors.
const TypeTransaction = "TRANSACTION"

// Envelope is the {type, data} wire wrapper for all relayed messages.
type Envelope struct {
	Type string          `json:"type"` // Message kind tag
	Data json.RawMessage `json:"data"` // Payload, decoded per tag
}

// NewTransactionEnvelope wraps a transaction for the wire.
func NewTransactionEnvelope(tx Transaction) (Envelope, error) {
	data, err := json.Marshal(tx) // Encode the payload
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: TypeTransaction, Data: data}, nil
}

// DecodeEnvelope parses a raw frame into an envelope.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, err // Malformed frame
	}
	return env, nil
}

// Transaction decodes the envelope payload. Callers must check the tag first.
func (e Envelope) Transaction() (Transaction, error) {
	var tx Transaction
	if err := json.Unmarshal(e.Data, &tx); err != nil {
		return Transaction{}, err // Payload does not match the transaction shape
	}
	return tx, nil
}
