package preflist

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notifyprefs/internal/i18n"
	"github.com/nhle/notifyprefs/internal/resolver"
	"github.com/nhle/notifyprefs/internal/theme"
)

// Model is the notification type list view component. It renders an
// already-resolved sequence of display models in the order given; it never
// re-sorts and never resolves records itself.
type Model struct {
	list       list.Model
	translator i18n.Translator
	locale     string
	width      int
	height     int
}

// New creates a new notification type list model.
func New(tr i18n.Translator, width, height int) Model {
	delegate := Delegate{}
	l := list.New([]list.Item{}, delegate, width, height)
	l.Title = "Notification Types"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:       l,
		translator: tr,
		locale:     i18n.DefaultLocale,
		width:      width,
		height:     height,
	}
}

// SetDisplays replaces the list contents. Callers pass displays already
// filtered by visibility; insertion order is preserved.
func (m *Model) SetDisplays(displays []resolver.Display) tea.Cmd {
	items := make([]list.Item, len(displays))
	for i, d := range displays {
		items[i] = Item{Display: d}
	}
	return m.list.SetItems(items)
}

// SetLocale records the locale used for the empty-state placeholder.
func (m *Model) SetLocale(locale string) {
	m.locale = locale
}

// Displays returns the currently rendered display models in order.
func (m Model) Displays() []resolver.Display {
	items := m.list.Items()
	displays := make([]resolver.Display, 0, len(items))
	for _, item := range items {
		if entry, ok := item.(Item); ok {
			displays = append(displays, entry.Display)
		}
	}
	return displays
}

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list, or the placeholder when nothing is visible.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows the "no notification types" placeholder. An empty
// post-filter list must never render as a bare empty container.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render(m.translator.Translate(
		m.locale, i18n.KeyNoTypes, "No notification types available.",
	))
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
