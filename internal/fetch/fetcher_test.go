package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/notifyprefs/internal/api"
	"github.com/nhle/notifyprefs/internal/model"
)

// fakeClient returns canned responses keyed by locale.
type fakeClient struct {
	types map[string][]model.NotificationType
	err   error
}

func (c *fakeClient) GetNotificationTypes(
	_ context.Context,
	locale string,
) ([]model.NotificationType, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.types[locale], nil
}

// fakeStore is an in-memory Store for cache fallback tests.
type fakeStore struct {
	types    []model.NotificationType
	upserted [][]model.NotificationType
	getErr   error
}

func (s *fakeStore) UpsertTypes(_ context.Context, types []model.NotificationType) error {
	s.upserted = append(s.upserted, types)
	s.types = types
	return nil
}

func (s *fakeStore) GetTypes(_ context.Context) ([]model.NotificationType, error) {
	return s.types, s.getErr
}

func (s *fakeStore) Close() error { return nil }

func runCmd(t *testing.T, f *Fetcher, locale string) (string, interface{}) {
	t.Helper()
	id, cmd := f.Load(locale)
	return id, cmd()
}

func TestLoadDeliversTypesAndCaches(t *testing.T) {
	client := &fakeClient{types: map[string][]model.NotificationType{
		"en": {{Key: "email_alert", Available: true}},
	}}
	st := &fakeStore{}
	f := New(client, st, time.Second)

	id, raw := runCmd(t, f, "en")
	msg, ok := raw.(ResultMsg)
	if !ok {
		t.Fatalf("got %T, want ResultMsg", raw)
	}
	if msg.RequestID != id {
		t.Errorf("request id = %q, want %q", msg.RequestID, id)
	}
	if msg.Err != nil || msg.FromCache || msg.AuthFailed {
		t.Errorf("unexpected msg flags: %+v", msg)
	}
	if len(msg.Types) != 1 || msg.Types[0].Key != "email_alert" {
		t.Errorf("types = %+v", msg.Types)
	}
	if len(st.upserted) != 1 {
		t.Errorf("cache writes = %d, want 1", len(st.upserted))
	}
}

func TestSupersededRequestIsDropped(t *testing.T) {
	client := &fakeClient{types: map[string][]model.NotificationType{
		"en": {{Key: "email_alert", Available: true}},
		"fr": {{Key: "push_alert", Available: true}},
	}}
	f := New(client, nil, time.Second)

	// Start a fetch for en, then supersede it with fr before it completes.
	_, enCmd := f.Load("en")
	frID, frCmd := f.Load("fr")

	// fr completes first and must be delivered.
	frRaw := frCmd()
	frMsg, ok := frRaw.(ResultMsg)
	if !ok {
		t.Fatalf("fr result: got %T", frRaw)
	}
	if frMsg.RequestID != frID || frMsg.Locale != "fr" {
		t.Errorf("fr msg = %+v", frMsg)
	}

	// The slow en response arrives afterwards and must be discarded.
	if enRaw := enCmd(); enRaw != nil {
		t.Errorf("stale en result delivered: %+v", enRaw)
	}
}

func TestStopMakesCompletionsNoops(t *testing.T) {
	client := &fakeClient{types: map[string][]model.NotificationType{
		"en": {{Key: "email_alert", Available: true}},
	}}
	f := New(client, nil, time.Second)

	_, cmd := f.Load("en")
	f.Stop()

	if raw := cmd(); raw != nil {
		t.Errorf("completion after Stop delivered: %+v", raw)
	}
}

func TestNetworkFailureFallsBackToCache(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	st := &fakeStore{types: []model.NotificationType{
		{Key: "email_alert", Available: true},
	}}
	f := New(client, st, time.Second)

	_, raw := runCmd(t, f, "en")
	msg := raw.(ResultMsg)

	if msg.Err == nil {
		t.Error("fetch error not surfaced alongside cached data")
	}
	if !msg.FromCache {
		t.Error("FromCache not set")
	}
	if len(msg.Types) != 1 {
		t.Errorf("cached types = %+v", msg.Types)
	}
}

func TestAuthFailureNeverFallsBackToCache(t *testing.T) {
	client := &fakeClient{err: &api.AuthError{StatusCode: 401, Message: "expired"}}
	st := &fakeStore{types: []model.NotificationType{
		{Key: "email_alert", Available: true},
	}}
	f := New(client, st, time.Second)

	_, raw := runCmd(t, f, "en")
	msg := raw.(ResultMsg)

	if !msg.AuthFailed {
		t.Error("AuthFailed not set for 401")
	}
	if msg.FromCache || len(msg.Types) != 0 {
		t.Errorf("auth failure leaked cached data: %+v", msg)
	}
}

func TestEmptyNetworkFailureWithEmptyCacheIsPlainError(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	st := &fakeStore{}
	f := New(client, st, time.Second)

	_, raw := runCmd(t, f, "en")
	msg := raw.(ResultMsg)

	if msg.FromCache || msg.Types != nil {
		t.Errorf("empty cache produced data: %+v", msg)
	}
	if msg.Err == nil {
		t.Error("error missing")
	}
}
