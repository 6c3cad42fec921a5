package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"wallet_relay/internal/domain"
	"wallet_relay/internal/relay"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanNotifier records notified transactions.
type chanNotifier struct {
	calls chan domain.Transaction
}

func (n *chanNotifier) Notify(tx domain.Transaction) {
	n.calls <- tx
}

func newTestRouter(hub *relay.Hub, notifier *chanNotifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/transaction", SubmitTransactionHandler(hub, notifier))
	r.GET("/health", HealthHandler())
	return r
}

func transactionBody(t *testing.T) ([]byte, domain.Transaction) {
	t.Helper()
	tx := domain.Transaction{
		ID:             "TX-1700000000000",
		Sender:         "WALLET-1",
		Recipient:      "WALLET-2",
		Amount:         decimal.RequireFromString("250.5"),
		Timestamp:      time.Now().UTC(),
		SenderEmail:    "a@b.co",
		RecipientEmail: "c@d.co",
		Message:        "rent",
		Status:         domain.StatusPending,
	}
	body, err := json.Marshal(tx)
	require.NoError(t, err)
	return body, tx
}

func TestSubmitTransactionAcceptedAndNotified(t *testing.T) {
	notifier := &chanNotifier{calls: make(chan domain.Transaction, 1)}
	hub := relay.NewHub(nil)
	router := newTestRouter(hub, notifier)

	body, tx := transactionBody(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/transaction", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Message)

	// Notification is asynchronous but triggered by the accepted submission.
	select {
	case got := <-notifier.calls:
		assert.Equal(t, tx.ID, got.ID)
		assert.Equal(t, "a@b.co", got.SenderEmail)
	case <-time.After(time.Second):
		t.Fatal("notifier was not invoked")
	}
}

func TestSubmitTransactionBroadcastsToAllConnections(t *testing.T) {
	notifier := &chanNotifier{calls: make(chan domain.Transaction, 1)}
	hub := relay.NewHub(nil)
	router := newTestRouter(hub, notifier)

	wsSrv := httptest.NewServer(hub.Handler())
	defer wsSrv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(wsSrv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ConnCount() == 1 },
		time.Second, 5*time.Millisecond)

	body, tx := transactionBody(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/transaction", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// HTTP ingress holds no socket, so every connection is a target.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	env, err := domain.DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeTransaction, env.Type)
	got, err := env.Transaction()
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)
	assert.True(t, got.Amount.Equal(tx.Amount))
}

func TestSubmitTransactionRejectsBadBody(t *testing.T) {
	notifier := &chanNotifier{calls: make(chan domain.Transaction, 1)}
	router := newTestRouter(relay.NewHub(nil), notifier)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/transaction", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	select {
	case <-notifier.calls:
		t.Fatal("notifier must not run for rejected submissions")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(relay.NewHub(nil), &chanNotifier{calls: make(chan domain.Transaction, 1)})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"up"}`, w.Body.String())
}
