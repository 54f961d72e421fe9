package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notifyprefs/internal/fetch"
	"github.com/nhle/notifyprefs/internal/model"
)

// fakeClient implements fetch.Client with canned per-locale responses.
type fakeClient struct {
	types map[string][]model.NotificationType
}

func (c *fakeClient) GetNotificationTypes(
	_ context.Context,
	locale string,
) ([]model.NotificationType, error) {
	return c.types[locale], nil
}

func testConfig() *model.AppConfig {
	return &model.AppConfig{
		Server:  model.ServerConfig{BaseURL: "https://api.example.com", TimeoutSec: 5},
		Display: model.DisplayConfig{Locale: "en", Locales: []string{"en", "fr"}},
	}
}

func newTestModel(t *testing.T, tokens TokenSource) Model {
	t.Helper()

	client := &fakeClient{types: map[string][]model.NotificationType{}}
	f := fetch.New(client, nil, time.Second)
	return New(testConfig(), "", nil, f, tokens)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	mm, cmd := m.Update(msg)
	next, ok := mm.(Model)
	if !ok {
		t.Fatalf("Update returned %T", mm)
	}
	return next, cmd
}

func sampleTypes() []model.NotificationType {
	reason := "Replaced by push notifications"
	return []model.NotificationType{
		{Key: "email_alert", Available: true,
			Descriptions: map[string]string{"en": "Email alerts", "fr": "Alertes par email"}},
		{Key: "fax_alert", Available: false, Deprecated: false,
			Descriptions: map[string]string{"en": "Fax alerts"}},
		{Key: "sms_alert", Available: true, Deprecated: true, DeprecatedReason: &reason,
			Descriptions: map[string]string{"en": "SMS alerts"}},
	}
}

func TestStartsInInitState(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "tok", nil })
	if m.State() != StateInit {
		t.Errorf("state = %v, want StateInit", m.State())
	}
}

func TestAuthResolvedWithTokenEntersLoading(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "tok", nil })

	m, cmd := update(t, m, AuthResolvedMsg{Token: "tok"})
	if m.State() != StateLoading {
		t.Errorf("state = %v, want StateLoading", m.State())
	}
	if cmd == nil {
		t.Error("no fetch command issued")
	}
	if m.waitingRequestID == "" {
		t.Error("no outstanding request recorded")
	}
}

func TestMissingTokenEntersLogin(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "", nil })

	m, _ = update(t, m, AuthResolvedMsg{Token: ""})
	if m.State() != StateLogin {
		t.Errorf("state = %v, want StateLogin", m.State())
	}
}

func TestUnauthenticatedNeverRendersArrivingData(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "", nil })
	m, _ = update(t, m, AuthResolvedMsg{Token: ""})

	// A fetch response arriving while the login prompt is up is dropped.
	m, _ = update(t, m, fetch.ResultMsg{
		RequestID: m.waitingRequestID,
		Locale:    "en",
		Types:     sampleTypes(),
	})

	if m.State() != StateLogin {
		t.Errorf("state = %v, want StateLogin", m.State())
	}
	if got := m.Displays(); len(got) != 0 {
		t.Errorf("login state holds %d displays", len(got))
	}
}

func TestSuccessfulFetchRendersFilteredListInOrder(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "tok", nil })
	m, _ = update(t, m, AuthResolvedMsg{Token: "tok"})

	m, _ = update(t, m, fetch.ResultMsg{
		RequestID: m.waitingRequestID,
		Locale:    "en",
		Types:     sampleTypes(),
	})

	if m.State() != StateList {
		t.Fatalf("state = %v, want StateList", m.State())
	}

	displays := m.Displays()
	if len(displays) != 2 {
		t.Fatalf("got %d displays, want 2 (fax_alert hidden)", len(displays))
	}
	if displays[0].Key != "email_alert" || displays[1].Key != "sms_alert" {
		t.Errorf("order = [%s, %s], want [email_alert, sms_alert]",
			displays[0].Key, displays[1].Key)
	}
	if displays[1].Explanation != "Replaced by push notifications" {
		t.Errorf("sms explanation = %q", displays[1].Explanation)
	}
}

func TestEmptyVisibleSetStaysInListStateWithNoItems(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "tok", nil })
	m, _ = update(t, m, AuthResolvedMsg{Token: "tok"})

	m, _ = update(t, m, fetch.ResultMsg{
		RequestID: m.waitingRequestID,
		Locale:    "en",
		Types: []model.NotificationType{
			{Key: "gone", Available: false, Deprecated: false},
		},
	})

	// The list state with zero items renders the placeholder, not a bare
	// container; the view owns that rendering.
	if m.State() != StateList {
		t.Fatalf("state = %v, want StateList", m.State())
	}
	if got := m.Displays(); len(got) != 0 {
		t.Errorf("got %d displays, want 0", len(got))
	}
}

func TestStaleLocaleResponseIsDiscarded(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "tok", nil })
	m, _ = update(t, m, AuthResolvedMsg{Token: "tok"})
	enRequestID := m.waitingRequestID

	// Locale switch to fr while the en fetch is still pending.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if m.State() != StateLoading {
		t.Fatalf("state after locale switch = %v, want StateLoading", m.State())
	}
	frRequestID := m.waitingRequestID
	if frRequestID == enRequestID {
		t.Fatal("locale switch did not supersede the pending request")
	}

	// fr response arrives first and renders.
	m, _ = update(t, m, fetch.ResultMsg{
		RequestID: frRequestID,
		Locale:    "fr",
		Types:     sampleTypes(),
	})
	if m.State() != StateList {
		t.Fatalf("state = %v, want StateList", m.State())
	}
	if m.Displays()[0].Description != "Alertes par email" {
		t.Errorf("fr description = %q", m.Displays()[0].Description)
	}

	// The slow en response arrives afterwards and must not overwrite fr.
	m, _ = update(t, m, fetch.ResultMsg{
		RequestID: enRequestID,
		Locale:    "en",
		Types:     sampleTypes(),
	})
	if m.Displays()[0].Description != "Alertes par email" {
		t.Error("stale en response overwrote the fr render")
	}
}

func TestLocaleCycleFromListRestartsFetch(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "tok", nil })
	m, _ = update(t, m, AuthResolvedMsg{Token: "tok"})
	m, _ = update(t, m, fetch.ResultMsg{
		RequestID: m.waitingRequestID,
		Locale:    "en",
		Types:     sampleTypes(),
	})
	previousID := m.waitingRequestID

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if m.State() != StateLoading {
		t.Errorf("state = %v, want StateLoading", m.State())
	}
	if cmd == nil {
		t.Error("locale cycle issued no command")
	}
	if m.waitingRequestID == previousID {
		t.Error("locale cycle did not supersede the rendered request")
	}
	if m.locale != "fr" {
		t.Errorf("locale = %q, want fr", m.locale)
	}
}

func TestAuthFailureMidSessionEntersLogin(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "tok", nil })
	m, _ = update(t, m, AuthResolvedMsg{Token: "tok"})

	m, _ = update(t, m, fetch.ResultMsg{
		RequestID:  m.waitingRequestID,
		Locale:     "en",
		AuthFailed: true,
		Err:        errFake,
	})

	if m.State() != StateLogin {
		t.Errorf("state = %v, want StateLogin", m.State())
	}
}

func TestGenericFailureEntersErrorState(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "tok", nil })
	m, _ = update(t, m, AuthResolvedMsg{Token: "tok"})

	m, _ = update(t, m, fetch.ResultMsg{
		RequestID: m.waitingRequestID,
		Locale:    "en",
		Err:       errFake,
	})

	if m.State() != StateError {
		t.Fatalf("state = %v, want StateError", m.State())
	}
	if m.errText == "" {
		t.Error("error state has no message")
	}
	if got := m.Displays(); len(got) != 0 {
		t.Errorf("error state holds %d displays", len(got))
	}
}

func TestCacheFallbackRendersWithOfflineNotice(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "tok", nil })
	m, _ = update(t, m, AuthResolvedMsg{Token: "tok"})

	m, _ = update(t, m, fetch.ResultMsg{
		RequestID: m.waitingRequestID,
		Locale:    "en",
		Types:     sampleTypes(),
		FromCache: true,
		Err:       errFake,
	})

	if m.State() != StateList {
		t.Fatalf("state = %v, want StateList", m.State())
	}
	if !m.offline {
		t.Error("offline flag not set for cached render")
	}
}

func TestRetryFromErrorStateRestartsFetch(t *testing.T) {
	m := newTestModel(t, func() (string, error) { return "tok", nil })
	m, _ = update(t, m, AuthResolvedMsg{Token: "tok"})
	m, _ = update(t, m, fetch.ResultMsg{
		RequestID: m.waitingRequestID,
		Locale:    "en",
		Err:       errFake,
	})
	previousID := m.waitingRequestID

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.State() != StateLoading {
		t.Errorf("state = %v, want StateLoading", m.State())
	}
	if cmd == nil {
		t.Error("retry issued no command")
	}
	if m.waitingRequestID == previousID {
		t.Error("retry did not issue a fresh request")
	}
}

// errFake is a sentinel fetch failure for state machine tests.
var errFake = fakeError("backend unreachable")

type fakeError string

func (e fakeError) Error() string { return string(e) }
