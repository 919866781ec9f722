package sync

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/sync/tally"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notifyServer accepts websocket connections on /notify, pushes one
// notification on the first connection, then drops every session shortly
// after it is established to force reconnects.
func notifyServer(t *testing.T, conns *int32) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notify" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if atomic.AddInt32(conns, 1) == 1 {
			_ = conn.WriteJSON(PushNotification{Kind: "ledger", Key: "guid-push"})
		}
		time.Sleep(100 * time.Millisecond)
	}))
}

func TestPushListener(t *testing.T) {
	stack := newSyncStack(t)
	ctx := context.Background()

	stack.transport.ledgers = []tally.LedgerDocument{
		ledgerDoc("guid-push", "Cash in Hand", "Asset", ""),
	}

	var conns int32
	srv := notifyServer(t, &conns)
	defer srv.Close()

	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	stack.cfg.Host = host
	stack.cfg.Port = port
	require.NoError(t, stack.configRepo.Save(ctx, stack.cfg))

	listener := NewPushListener(stack.engine, stack.configRepo, stack.cache, log.New(io.Discard, "", 0))
	listener.Start()
	defer listener.Stop()

	t.Run("notification triggers an import run", func(t *testing.T) {
		require.Eventually(t, func() bool {
			runs, err := stack.engine.ListRuns(ctx, 5)
			return err == nil && len(runs) > 0 && runs[0].Status != enum.SyncRunStatusRunning
		}, 5*time.Second, 25*time.Millisecond)

		runs, err := stack.engine.ListRuns(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, TriggerPush, runs[0].Trigger)
		assert.Equal(t, enum.SyncRunStatusSuccess, runs[0].Status)
		assert.Greater(t, stack.cache.count(), 0)

		account, err := stack.accounts.GetAccountByCode(ctx, fallbackCode("guid-push"))
		require.NoError(t, err)
		assert.Equal(t, "Cash in Hand", account.Name)
	})

	t.Run("dropped sessions reconnect on the reset backoff", func(t *testing.T) {
		// Each session connects successfully before the server drops it, so
		// the listener retries on the one-second floor rather than ramping
		// toward the cap. Three connections arrive well inside the window.
		require.Eventually(t, func() bool {
			return atomic.LoadInt32(&conns) >= 3
		}, 10*time.Second, 50*time.Millisecond)
	})
}
