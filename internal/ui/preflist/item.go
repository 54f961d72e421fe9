package preflist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notifyprefs/internal/resolver"
	"github.com/nhle/notifyprefs/internal/theme"
)

// Item wraps a resolved display model so it can be used in a bubbles/list.
type Item struct {
	Display resolver.Display
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Display.Label }

// Title returns the item label for the list.
func (i Item) Title() string { return i.Display.Label }

// Description returns the localized description line.
func (i Item) Description() string { return i.Display.Description }

// Delegate implements list.ItemDelegate for rendering notification types.
type Delegate struct{}

// Height returns the number of lines each item takes: the label line and
// the description/explanation line.
func (d Delegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d Delegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification type entry.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	di := entry.Display
	isSelected := index == m.Index()

	var badge string
	if di.Inactive {
		badge = " " + theme.DeprecatedBadgeStyle.Render("⚠ deprecated")
	} else {
		badge = " " + theme.ActiveBadgeStyle.Render("✓ active")
	}

	label := di.Label
	if di.Inactive {
		label = theme.DimmedStyle.Render(label)
	}
	titleLine := fmt.Sprintf("● %s%s", label, badge)

	detail := di.Description
	if di.Explanation != "" {
		detail += "  " + theme.ExplanationStyle.Render(di.Explanation)
	}
	detailLine := theme.DimmedStyle.Render(detail)

	line := titleLine + "\n  " + detailLine
	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
