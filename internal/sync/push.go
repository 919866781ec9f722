package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/medilink/hms-api/internal/application/service"
	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/pkg/apperror"
)

// PushNotification is what the external system sends when its data changes
type PushNotification struct {
	Kind string `json:"kind"` // ledger | voucher | company
	Key  string `json:"key,omitempty"`
}

// PushListener holds a websocket open to the external system's notification
// channel. A notification invalidates the chart cache immediately and kicks
// off an import run, so changes land without waiting for the next schedule.
type PushListener struct {
	engine     *Engine
	configRepo repository.SyncConfigRepository
	cache      service.ChartCache
	logger     *log.Logger

	stop chan struct{}
	done chan struct{}
}

// NewPushListener creates a new push listener
func NewPushListener(engine *Engine, configRepo repository.SyncConfigRepository, cache service.ChartCache, logger *log.Logger) *PushListener {
	if logger == nil {
		logger = log.Default()
	}
	return &PushListener{
		engine:     engine,
		configRepo: configRepo,
		cache:      cache,
		logger:     logger,
	}
}

// Start launches the listener loop in its own goroutine
func (l *PushListener) Start() {
	if l.stop != nil {
		return
	}
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go l.loop()
	l.logger.Println("sync push listener started")
}

// Stop shuts the listener down and waits for it to exit
func (l *PushListener) Stop() {
	if l.stop == nil {
		return
	}
	close(l.stop)
	<-l.done
	l.stop = nil
	l.logger.Println("sync push listener stopped")
}

func (l *PushListener) loop() {
	defer close(l.done)

	backoff := time.Second
	for {
		select {
		case <-l.stop:
			return
		default:
		}

		connected, err := l.listenOnce()
		if connected {
			// A session that made it onto the wire resets the clock; only
			// consecutive dial failures keep ramping.
			backoff = time.Second
		}
		if err != nil {
			l.logger.Printf("sync push listener: %v (retrying in %s)", err, backoff)
		}

		select {
		case <-l.stop:
			return
		case <-time.After(backoff):
		}
		if backoff < time.Minute {
			backoff *= 2
		}
	}
}

// listenOnce dials the notification channel and consumes messages until the
// connection drops or the listener stops. It reports whether a connection was
// established at all, so the caller can tell dial failures from dropped
// sessions.
func (l *PushListener) listenOnce() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	cfg, err := l.configRepo.Get(ctx)
	cancel()
	if err != nil {
		return false, err
	}
	if cfg == nil || !cfg.SyncEnabled {
		return false, errors.New("sync disabled")
	}

	url := fmt.Sprintf("ws://%s:%d/notify", cfg.Host, cfg.Port)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	// Unblock ReadMessage when Stop is called.
	connDone := make(chan struct{})
	defer close(connDone)
	go func() {
		select {
		case <-l.stop:
			conn.Close()
		case <-connDone:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-l.stop:
				return true, nil
			default:
				return true, err
			}
		}

		var note PushNotification
		if err := json.Unmarshal(data, &note); err != nil {
			l.logger.Printf("sync push listener: bad notification: %v", err)
			continue
		}
		l.handle(&note)
	}
}

func (l *PushListener) handle(note *PushNotification) {
	l.logger.Printf("sync push: %s changed (%s)", note.Kind, note.Key)

	// Stale reads are worse than a cold cache.
	if l.cache != nil {
		l.cache.Invalidate()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, err := l.engine.PerformSync(ctx, enum.SyncDirectionImport, TriggerPush); err != nil {
		if errors.Is(err, apperror.ErrAlreadySyncing) {
			return
		}
		l.logger.Printf("sync push: import failed: %v", err)
	}
}
