// Package fetch runs the one outstanding backend request per render
// lifecycle and delivers results to the Bubble Tea runtime.
package fetch

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/notifyprefs/internal/api"
	"github.com/nhle/notifyprefs/internal/model"
	"github.com/nhle/notifyprefs/internal/store"
)

// Client is the backend contract the fetcher depends on.
type Client interface {
	GetNotificationTypes(ctx context.Context, locale string) ([]model.NotificationType, error)
}

// ResultMsg is a tea.Msg delivered when a fetch completes. RequestID
// identifies the request that produced it; consumers must discard results
// whose RequestID is not the one they are currently waiting on.
type ResultMsg struct {
	RequestID string
	Locale    string
	Types     []model.NotificationType

	// FromCache reports that Types came from the local cache because the
	// live fetch failed for a non-auth reason.
	FromCache bool

	// Err is the fetch failure, nil on success. Set even when FromCache
	// data is present so the UI can show a stale notice.
	Err error

	// AuthFailed reports that Err is an authentication failure (401/403).
	AuthFailed bool
}

// Fetcher issues notification type requests one at a time. Starting a new
// request supersedes any still-pending one: the old request's result is
// dropped on arrival. Stop makes all completions no-ops.
type Fetcher struct {
	store   store.Store
	timeout time.Duration

	mu        sync.Mutex
	client    Client
	currentID string
	stopped   bool
}

// New creates a Fetcher over the given backend client and cache.
func New(client Client, s store.Store, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client:  client,
		store:   s,
		timeout: timeout,
	}
}

// SetClient swaps the backend client, e.g. after login stores a new token.
func (f *Fetcher) SetClient(client Client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.client = client
}

// Load starts a fetch for the given locale. It returns the request ID the
// caller should wait on and the command that performs the fetch. Any
// previously issued request is superseded immediately.
func (f *Fetcher) Load(locale string) (string, tea.Cmd) {
	requestID := uuid.New().String()

	f.mu.Lock()
	f.currentID = requestID
	client := f.client
	f.mu.Unlock()

	cmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()

		types, err := client.GetNotificationTypes(ctx, locale)

		msg := ResultMsg{
			RequestID: requestID,
			Locale:    locale,
			Types:     types,
			Err:       err,
		}

		if err != nil {
			if api.IsAuthError(err) {
				msg.AuthFailed = true
			} else if f.store != nil {
				// Network/server failure: fall back to the last known rows.
				if cached, cacheErr := f.store.GetTypes(ctx); cacheErr == nil && len(cached) > 0 {
					msg.Types = cached
					msg.FromCache = true
				}
			}
		} else if f.store != nil {
			// Best effort; a cache write failure must not fail the fetch.
			_ = f.store.UpsertTypes(ctx, types)
		}

		return f.deliver(msg)
	}

	return requestID, cmd
}

// Stop makes all in-flight completions no-ops. Used on teardown so a late
// response cannot write into a disposed view.
func (f *Fetcher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

// deliver returns msg unless the fetcher was stopped or the request was
// superseded by a newer one.
func (f *Fetcher) deliver(msg ResultMsg) tea.Msg {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped || msg.RequestID != f.currentID {
		return nil
	}
	return msg
}
