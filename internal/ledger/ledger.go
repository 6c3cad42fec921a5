package ledger

import (
	"regexp" // Email shape check
	"sync"   // Ledger state guard
	"time"   // Completion timer
	"wallet_relay/internal/domain"

	"github.com/shopspring/decimal" // Fixed-point amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// Node ids and their fixed wallet addresses. Exactly two nodes exist.
const (
	Node1 = "node1"
	Node2 = "node2"

	Node1Address = "WALLET-1"
	Node2Address = "WALLET-2"
)

// CompletionDelay is the fixed wall-clock delay after which a freshly
// submitted transaction flips from PENDING to COMPLETED.
const CompletionDelay = 5 * time.Second

// emailRe is the basic email-shape check applied to both declared addresses.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// isValidEmail checks the basic shape of an email address
func isValidEmail(email string) bool {
	return emailRe.MatchString(email) // Return whether it matched
}

// Broadcaster sends an envelope over the ledger's own connection. Send
// reports whether the envelope actually went out; the ledger ignores the
// result because outgoing broadcast is best-effort with no queue or retry.
type Broadcaster interface {
	Send(env domain.Envelope) bool
}

// Ledger holds the wallet state authoritative for this client instance:
// two fixed nodes and a most-recent-first transaction history. Every
// connected client owns an independent, divergent copy of this state;
// nothing is shared or reconciled across instances.
type Ledger struct {
	mu              sync.Mutex
	nodes           map[string]*domain.WalletNode
	history         []*domain.Transaction
	renderer        Renderer
	broadcaster     Broadcaster
	completionDelay time.Duration
}

// NewLedger creates the two fixed wallet nodes, each starting at 1000.
func NewLedger(renderer Renderer) *Ledger {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	return &Ledger{
		nodes: map[string]*domain.WalletNode{
			Node1: {Address: Node1Address, Balance: decimal.NewFromInt(1000), IsOnline: true},
			Node2: {Address: Node2Address, Balance: decimal.NewFromInt(1000), IsOnline: true},
		},
		renderer:        renderer,
		completionDelay: CompletionDelay,
	}
}

// SetBroadcaster attaches the outgoing connection used for broadcast.
func (l *Ledger) SetBroadcaster(b Broadcaster) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.broadcaster = b
}

// SetCompletionDelay overrides the PENDING to COMPLETED delay.
func (l *Ledger) SetCompletionDelay(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.completionDelay = d
}

// SubmitTransfer validates and executes a transfer between the two nodes.
// Validation order: same node, then email shape, then amount bounds. Any
// failure leaves balances and history untouched. On success the transaction
// is applied optimistically before any network confirmation (there is no
// rollback if the broadcast fails), recorded most-recent-first, rendered,
// broadcast over the attached connection if it is open, and scheduled to
// complete after the fixed delay.
func (l *Ledger) SubmitTransfer(senderID, recipientID string, amount decimal.Decimal, senderEmail, recipientEmail, message string) (domain.Transaction, error) {
	l.mu.Lock()
	if senderID == recipientID {
		l.mu.Unlock()
		return domain.Transaction{}, ErrSameNode
	}
	if !isValidEmail(senderEmail) || !isValidEmail(recipientEmail) {
		l.mu.Unlock()
		return domain.Transaction{}, ErrInvalidEmail
	}
	sender, ok := l.nodes[senderID]
	if !ok {
		l.mu.Unlock()
		return domain.Transaction{}, ErrUnknownNode
	}
	recipient, ok := l.nodes[recipientID]
	if !ok {
		l.mu.Unlock()
		return domain.Transaction{}, ErrUnknownNode
	}
	if amount.Sign() <= 0 || amount.GreaterThan(sender.Balance) {
		l.mu.Unlock()
		return domain.Transaction{}, ErrInvalidAmount
	}
	tx := domain.NewTransaction(sender.Address, recipient.Address, amount, senderEmail, recipientEmail, message)
	l.applyLocked(tx)
	l.recordLocked(tx)
	broadcaster := l.broadcaster
	delay := l.completionDelay
	l.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"tx_id":     tx.ID,        // Transaction id
		"sender":    tx.Sender,    // Sender address
		"recipient": tx.Recipient, // Recipient address
		"amount":    tx.Amount,    // Transfer amount
	}).Info("Transfer submitted")
	l.renderAll()
	if broadcaster != nil {
		if env, err := domain.NewTransactionEnvelope(tx); err == nil {
			broadcaster.Send(env) // Best-effort, result ignored
		}
	}
	l.CompleteAfter(tx.ID, delay)
	return tx, nil
}

// Observe applies an incoming TRANSACTION envelope exactly as a local
// transfer would mutate the ledger, then records and re-renders. This is
// how a second client's ledger reflects a transfer initiated elsewhere.
// Each instance re-derives balances from whichever envelopes it happens to
// observe, with no ordering guarantee and no de-duplication by id; an
// envelope somehow delivered twice is applied twice. Unknown envelope
// types are a no-op.
func (l *Ledger) Observe(env domain.Envelope) {
	if env.Type != domain.TypeTransaction {
		return // Unknown tag, no-op
	}
	tx, err := env.Transaction()
	if err != nil {
		logrus.WithField("error", err.Error()).Error("Message handling failed")
		return
	}
	l.mu.Lock()
	l.applyLocked(tx)
	l.recordLocked(tx)
	l.mu.Unlock()
	logrus.WithFields(logrus.Fields{
		"tx_id":  tx.ID,     // Transaction id
		"amount": tx.Amount, // Transfer amount
	}).Info("Transaction observed")
	l.renderAll()
}

// applyLocked mutates the balances for one transaction. The branch keys on
// node1's address, like the page it reproduces: anything else debits node2.
func (l *Ledger) applyLocked(tx domain.Transaction) {
	node1 := l.nodes[Node1]
	node2 := l.nodes[Node2]
	if tx.Sender == node1.Address {
		node1.Sent = node1.Sent.Add(tx.Amount)
		node1.Balance = node1.Balance.Sub(tx.Amount)
		node2.Received = node2.Received.Add(tx.Amount)
		node2.Balance = node2.Balance.Add(tx.Amount)
	} else {
		node2.Sent = node2.Sent.Add(tx.Amount)
		node2.Balance = node2.Balance.Sub(tx.Amount)
		node1.Received = node1.Received.Add(tx.Amount)
		node1.Balance = node1.Balance.Add(tx.Amount)
	}
}

// recordLocked prepends the transaction to the history.
func (l *Ledger) recordLocked(tx domain.Transaction) {
	entry := tx
	l.history = append([]*domain.Transaction{&entry}, l.history...)
}

// CompleteAfter schedules the one-shot PENDING to COMPLETED flip for the
// given transaction. The flip happens at most once and never reverts. The
// returned timer is the cancel hook; callers matching the original page's
// behavior never use it.
func (l *Ledger) CompleteAfter(txID string, d time.Duration) *time.Timer {
	return time.AfterFunc(d, func() {
		l.mu.Lock()
		var completed *domain.Transaction
		for _, entry := range l.history {
			if entry.ID == txID && entry.Status == domain.StatusPending {
				entry.Status = domain.StatusCompleted
				completed = entry
				break
			}
		}
		var snapshot domain.Transaction
		if completed != nil {
			snapshot = *completed
		}
		l.mu.Unlock()
		if completed == nil {
			return
		}
		logrus.WithField("tx_id", txID).Info("Transaction completed")
		l.renderer.RenderTransaction(snapshot)
	})
}

// MarkOnline flips both nodes' online flag together, following the single
// shared connection they ride on.
func (l *Ledger) MarkOnline(online bool) {
	l.mu.Lock()
	for _, node := range l.nodes {
		node.IsOnline = online
	}
	l.mu.Unlock()
	l.renderer.RenderNodeStatus(Node1, online)
	l.renderer.RenderNodeStatus(Node2, online)
}

// Node returns a copy of one wallet node's current state.
func (l *Ledger) Node(id string) (domain.WalletNode, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	node, ok := l.nodes[id]
	if !ok {
		return domain.WalletNode{}, false
	}
	return *node, true
}

// History returns a copy of the transaction list, most recent first.
func (l *Ledger) History() []domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.historyLocked()
}

func (l *Ledger) historyLocked() []domain.Transaction {
	history := make([]domain.Transaction, len(l.history))
	for i, entry := range l.history {
		history[i] = *entry
	}
	return history
}

// TotalVolume sums the amounts of every recorded transaction.
func (l *Ledger) TotalVolume() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := decimal.Zero
	for _, entry := range l.history {
		total = total.Add(entry.Amount)
	}
	return total
}

// renderAll snapshots the state and triggers a full redraw.
func (l *Ledger) renderAll() {
	l.mu.Lock()
	nodes := make(map[string]domain.WalletNode, len(l.nodes))
	for id, node := range l.nodes {
		nodes[id] = *node
	}
	history := l.historyLocked()
	l.mu.Unlock()
	l.renderer.RenderLedger(nodes, history)
}
