// Package app hosts the root Bubble Tea model: an explicit state machine
// driven by discrete events (auth resolved, fetch resolved, locale changed,
// login completed) rather than ambient state, so every transition is
// testable without a terminal.
package app

import (
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notifyprefs/internal/api"
	"github.com/nhle/notifyprefs/internal/fetch"
	"github.com/nhle/notifyprefs/internal/i18n"
	"github.com/nhle/notifyprefs/internal/keys"
	"github.com/nhle/notifyprefs/internal/model"
	"github.com/nhle/notifyprefs/internal/resolver"
	"github.com/nhle/notifyprefs/internal/store"
	"github.com/nhle/notifyprefs/internal/theme"
	"github.com/nhle/notifyprefs/internal/ui"
	helpview "github.com/nhle/notifyprefs/internal/ui/help"
	"github.com/nhle/notifyprefs/internal/ui/login"
	"github.com/nhle/notifyprefs/internal/ui/preflist"
)

// State is the exclusive render state; exactly one is active per render.
type State int

const (
	// StateInit means authentication has not resolved yet.
	StateInit State = iota

	// StateLoading means a fetch is outstanding.
	StateLoading

	// StateList means the list (or its empty placeholder) is rendered.
	StateList

	// StateError means a page-level error message is rendered; the list
	// never renders alongside it.
	StateError

	// StateLogin means the login prompt is rendered; data arriving in
	// this state is discarded.
	StateLogin
)

// TokenSource supplies the stored bearer token. Injected so tests can
// drive arbitrary auth states deterministically.
type TokenSource func() (string, error)

// AuthResolvedMsg is sent once the stored credential has been checked.
type AuthResolvedMsg struct {
	Token string
	Err   error
}

// Model is the root application model.
type Model struct {
	state  State
	layout ui.Layout
	ready  bool

	cfg     *model.AppConfig
	cfgPath string
	store   store.Store
	fetcher *fetch.Fetcher
	tokens  TokenSource

	translator i18n.Translator
	keys       *keys.KeyMap

	prefList  preflist.Model
	helpView  helpview.Model
	loginView login.Model
	spinner   spinner.Model
	showHelp  bool

	locale    string
	localeIdx int

	// waitingRequestID is the fetch this model will accept next; results
	// carrying any other ID are stale and dropped (last-request-wins).
	waitingRequestID string

	errText string
	offline bool
}

// New creates the root application model.
func New(
	cfg *model.AppConfig,
	cfgPath string,
	s store.Store,
	f *fetch.Fetcher,
	tokens TokenSource,
) Model {
	k := keys.DefaultKeyMap()
	tr := i18n.Table{}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	locale := cfg.Display.Locale
	localeIdx := 0
	for i, l := range cfg.Display.Locales {
		if l == locale {
			localeIdx = i
			break
		}
	}

	pl := preflist.New(tr, 80, 24)
	pl.SetLocale(locale)

	return Model{
		state:      StateInit,
		cfg:        cfg,
		cfgPath:    cfgPath,
		store:      s,
		fetcher:    f,
		tokens:     tokens,
		translator: tr,
		keys:       k,
		prefList:   pl,
		helpView:   helpview.New(k, 80, 24),
		loginView:  login.New(80, 24),
		spinner:    sp,
		locale:     locale,
		localeIdx:  localeIdx,
	}
}

// State returns the active render state.
func (m Model) State() State { return m.state }

// Displays returns the display models currently held by the list view.
func (m Model) Displays() []resolver.Display { return m.prefList.Displays() }

// Init resolves authentication before anything else is allowed to render.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.resolveAuth(), m.spinner.Tick)
}

// resolveAuth checks the stored credential and reports the result.
func (m Model) resolveAuth() tea.Cmd {
	tokens := m.tokens
	return func() tea.Msg {
		token, err := tokens()
		return AuthResolvedMsg{Token: token, Err: err}
	}
}

// startFetch begins a fetch for the current locale, superseding any
// outstanding request.
func (m *Model) startFetch() tea.Cmd {
	id, cmd := m.fetcher.Load(m.locale)
	m.waitingRequestID = id
	m.state = StateLoading
	m.offline = false
	return tea.Batch(cmd, m.spinner.Tick)
}

// Update handles messages and drives the state machine.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.prefList.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.loginView.SetSize(w, h)
		return m.updateActiveView(msg)

	case AuthResolvedMsg:
		if msg.Err != nil || msg.Token == "" {
			return m.enterLogin(m.translate(i18n.KeyAuthRequired,
				"Authentication required. Please log in."))
		}
		m.fetcher.SetClient(m.newClient(msg.Token))
		return m, m.startFetch()

	case fetch.ResultMsg:
		return m.handleFetchResult(msg)

	case login.DoneMsg:
		return m.handleLoginDone(msg)

	case login.CancelMsg:
		// Nothing to show without credentials; leave the app.
		m.fetcher.Stop()
		return m, tea.Quit

	case spinner.TickMsg:
		if m.state == StateInit || m.state == StateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m.updateActiveView(msg)

	case tea.KeyMsg:
		if handled, mm, cmd := m.handleGlobalKey(msg); handled {
			return mm, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleFetchResult applies a completed fetch to the state machine.
func (m Model) handleFetchResult(msg fetch.ResultMsg) (tea.Model, tea.Cmd) {
	// An unauthenticated session never renders data, even if a response
	// arrives after the login prompt went up.
	if m.state == StateLogin {
		return m, nil
	}

	// Stale response for a superseded request (e.g. an old locale).
	if msg.RequestID != m.waitingRequestID {
		return m, nil
	}

	if msg.AuthFailed {
		return m.enterLogin(m.translate(i18n.KeySessionEnded,
			"Session expired. Please log in again."))
	}

	if msg.Err != nil && !msg.FromCache {
		m.state = StateError
		m.errText = m.translate(i18n.KeyFetchFailed,
			"Failed to fetch notification types. Please try again later.")
		return m, nil
	}

	m.state = StateList
	m.offline = msg.FromCache
	m.errText = ""
	displays := resolver.ResolveAll(m.translator, msg.Types, m.locale)
	m.prefList.SetLocale(m.locale)
	cmd := m.prefList.SetDisplays(displays)
	return m, cmd
}

// handleLoginDone persists the new server settings and restarts loading.
func (m Model) handleLoginDone(msg login.DoneMsg) (tea.Model, tea.Cmd) {
	m.cfg.Server.BaseURL = msg.BaseURL
	if m.cfgPath != "" {
		if err := model.SaveConfig(m.cfgPath, m.cfg); err != nil {
			log.Printf("saving config: %v", err)
		}
	}

	m.fetcher.SetClient(m.newClient(msg.Token))
	return m, m.startFetch()
}

// handleGlobalKey processes keys that work regardless of the active view.
// The login form owns its own keystrokes apart from ctrl+c.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.fetcher.Stop()
		return true, m, tea.Quit
	}

	if m.state == StateLogin {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		m.fetcher.Stop()
		return true, m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return true, m, nil

	case "l":
		// Allowed mid-load: the restart supersedes the pending request.
		if m.state == StateList || m.state == StateError || m.state == StateLoading {
			mm, cmd := m.cycleLocale()
			return true, mm, cmd
		}

	case "r":
		if m.state == StateList || m.state == StateError || m.state == StateLoading {
			cmd := m.startFetch()
			return true, m, cmd
		}

	case "i":
		if m.state == StateError {
			mm, cmd := m.enterLogin("")
			return true, mm, cmd
		}
	}

	return false, m, nil
}

// cycleLocale advances to the next configured locale and refetches.
// The fetch restart bumps the request ID, so a late response for the old
// locale can no longer be applied.
func (m Model) cycleLocale() (tea.Model, tea.Cmd) {
	locales := m.cfg.Display.Locales
	if len(locales) < 2 {
		return m, nil
	}
	m.localeIdx = (m.localeIdx + 1) % len(locales)
	m.locale = locales[m.localeIdx]
	m.prefList.SetLocale(m.locale)
	cmd := m.startFetch()
	return m, cmd
}

// enterLogin switches to the login prompt with the given page message.
func (m Model) enterLogin(prompt string) (tea.Model, tea.Cmd) {
	m.state = StateLogin
	m.showHelp = false
	cmd := m.loginView.Start(m.cfg.Server.BaseURL, prompt)
	return m, cmd
}

// newClient builds a backend client for the configured server.
func (m Model) newClient(token string) *api.Client {
	return api.NewClient(
		m.cfg.Server.BaseURL,
		token,
		time.Duration(m.cfg.Server.TimeoutSec)*time.Second,
	)
}

// updateActiveView dispatches the message to the active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case StateLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case StateList:
		if !m.showHelp {
			m.prefList, cmd = m.prefList.Update(msg)
		}
	}

	return m, cmd
}

// translate localizes a page-level message for the current locale.
func (m Model) translate(key, fallback string) string {
	return m.translator.Translate(m.locale, key, fallback)
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Notification Preferences", m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// headerStatus returns the right-hand header text: locale plus the
// offline notice when rendering cached data.
func (m Model) headerStatus() string {
	status := m.locale
	if m.offline {
		status = m.translate(i18n.KeyStaleCache, "offline: showing cached data") +
			" | " + status
	}
	return status
}

// renderContent returns the rendered string for the active state.
func (m Model) renderContent() string {
	if m.showHelp {
		return m.helpView.View()
	}

	switch m.state {
	case StateInit, StateLoading:
		return m.renderCentered(
			m.spinner.View() + " " +
				m.translate(i18n.KeyLoading, "Loading notification types..."))
	case StateError:
		return m.renderCentered(theme.ErrorStyle.Render(m.errText))
	case StateLogin:
		return m.loginView.View()
	case StateList:
		return m.prefList.View()
	default:
		return ""
	}
}

// renderCentered centers a message in the content area.
func (m Model) renderCentered(text string) string {
	return lipgloss.NewStyle().
		Width(m.layout.ContentWidth()).
		Height(m.layout.ContentHeight()).
		Align(lipgloss.Center, lipgloss.Center).
		Render(text)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.state {
	case StateLogin:
		return "enter submit | esc cancel"
	case StateError:
		return "r retry | i log in | l language | q quit"
	case StateList:
		return "j/k move | l language | r refresh | ? help | q quit"
	default:
		return "q quit"
	}
}
