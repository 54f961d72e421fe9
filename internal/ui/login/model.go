package login

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notifyprefs/internal/api"
	"github.com/nhle/notifyprefs/internal/credential"
	"github.com/nhle/notifyprefs/internal/theme"
)

// Mode represents the current state of the login view.
type Mode int

const (
	ModeForm       Mode = iota // Collecting server URL and token
	ModeValidating             // Testing the credentials against the backend
)

// DoneMsg signals a successful login. The token has already been stored
// in the system keyring; the app persists the base URL.
type DoneMsg struct {
	BaseURL string
	Token   string
}

// CancelMsg signals the user backed out of the login form.
type CancelMsg struct{}

// validateResultMsg carries the outcome of a credential check.
type validateResultMsg struct {
	baseURL string
	token   string
	err     error
}

// validateTimeout bounds the credential test request.
const validateTimeout = 10 * time.Second

// Model is the Bubble Tea model for the login form.
type Model struct {
	mode    Mode
	form    *huh.Form
	spinner spinner.Model

	// Form field values (huh binds to these).
	formBaseURL string
	formToken   string

	// prompt is the page-level message shown above the form, e.g. the
	// session-expired notice that brought the user here.
	prompt string

	errText string
	width   int
	height  int
}

// New creates a new login view model.
func New(width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// Start prepares the form with the given defaults and prompt text and
// returns the command that focuses it.
func (m *Model) Start(baseURL, prompt string) tea.Cmd {
	m.mode = ModeForm
	m.prompt = prompt
	m.errText = ""
	m.formBaseURL = baseURL
	m.formToken = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// buildForm constructs the huh form for server URL and API token.
func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Placeholder("https://api.example.com").
				Value(&m.formBaseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Value(&m.formToken).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("token is required")
					}
					return nil
				}),
		),
	).WithWidth(m.width - 4)
}

// validateURL checks the server URL field.
func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("server URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("enter a full URL, e.g. https://api.example.com")
	}
	return nil
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" && m.mode == ModeForm {
			return m, func() tea.Msg { return CancelMsg{} }
		}

	case validateResultMsg:
		if msg.err != nil {
			m.mode = ModeForm
			m.errText = loginErrorText(msg.err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}

		if err := credential.SetToken(msg.token); err != nil {
			m.mode = ModeForm
			m.errText = fmt.Sprintf("could not store token: %v", err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}

		return m, func() tea.Msg {
			return DoneMsg{BaseURL: msg.baseURL, Token: msg.token}
		}

	case spinner.TickMsg:
		if m.mode == ModeValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.mode != ModeForm || m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.mode = ModeValidating
		baseURL := strings.TrimRight(strings.TrimSpace(m.formBaseURL), "/")
		token := strings.TrimSpace(m.formToken)
		return m, tea.Batch(
			m.spinner.Tick,
			validateCmd(baseURL, token),
		)
	}

	return m, cmd
}

// validateCmd tests the credentials with a live request.
func validateCmd(baseURL, token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
		defer cancel()

		client := api.NewClient(baseURL, token, validateTimeout)
		_, err := client.GetNotificationTypes(ctx, "en")
		return validateResultMsg{baseURL: baseURL, token: token, err: err}
	}
}

// loginErrorText maps a validation failure to a form-level message.
func loginErrorText(err error) string {
	if api.IsAuthError(err) {
		return "The backend rejected these credentials. Check the token and try again."
	}
	return fmt.Sprintf("Could not reach the backend: %v", err)
}

// View renders the login view.
func (m Model) View() string {
	var sections []string

	if m.prompt != "" {
		sections = append(sections, theme.ErrorStyle.Render(m.prompt))
	}

	switch m.mode {
	case ModeValidating:
		sections = append(sections,
			m.spinner.View()+" Checking credentials...")
	default:
		if m.errText != "" {
			sections = append(sections, theme.ErrorStyle.Render(m.errText))
		}
		if m.form != nil {
			sections = append(sections, m.form.View())
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(1, 2).
		Render(content)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(width - 4)
	}
}
