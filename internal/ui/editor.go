package ui

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Editor is one labelled input field of the form. Its value is read fresh
// whenever the form is submitted.
type Editor struct {
	label    string
	textarea textarea.Model
	width    int
}

// NewEditor creates an unfocused editor prefilled with value.
func NewEditor(label, placeholder, value string) *Editor {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = true
	ta.Prompt = ""
	ta.CharLimit = 0 // stylesheets are routinely larger than the default
	ta.MaxHeight = 0
	ta.SetHeight(5)

	theme := GetTheme()
	styles := ta.Styles()
	styles.Focused.Base = lipgloss.NewStyle()
	styles.Focused.Placeholder = lipgloss.NewStyle().Foreground(theme.VeryMuted)
	styles.Focused.Text = lipgloss.NewStyle().Foreground(theme.Text)
	styles.Focused.Prompt = lipgloss.NewStyle()
	styles.Focused.CursorLine = lipgloss.NewStyle()
	styles.Focused.LineNumber = lipgloss.NewStyle().Foreground(theme.VeryMuted)
	styles.Blurred.Base = lipgloss.NewStyle()
	styles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(theme.VeryMuted)
	styles.Blurred.Text = lipgloss.NewStyle().Foreground(theme.Muted)
	styles.Blurred.LineNumber = lipgloss.NewStyle().Foreground(theme.MutedBorder)
	ta.SetStyles(styles)

	if value != "" {
		ta.SetValue(value)
	}

	return &Editor{label: label, textarea: ta}
}

// Value returns the current text.
func (e *Editor) Value() string {
	return e.textarea.Value()
}

// SetValue replaces the text.
func (e *Editor) SetValue(s string) {
	e.textarea.SetValue(s)
}

// Focus gives the editor keyboard focus.
func (e *Editor) Focus() tea.Cmd {
	return e.textarea.Focus()
}

// Blur removes keyboard focus.
func (e *Editor) Blur() {
	e.textarea.Blur()
}

// SetSize sets the outer width and the number of text rows.
func (e *Editor) SetSize(width, rows int) {
	e.width = width
	e.textarea.SetWidth(max(width-3, 10)) // border + padding
	e.textarea.SetHeight(max(rows, 1))
}

// Update forwards msg to the textarea.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)
	return cmd
}

// View renders the label above the textarea. The border bar takes the
// primary color while the editor is focused.
func (e *Editor) View() string {
	theme := GetTheme()
	focused := e.textarea.Focused()

	border := theme.MutedBorder
	if focused {
		border = theme.Primary
	}

	label := StyleLabel(theme, focused).Render(e.label)
	body := renderContentBlock(e.textarea.View(), e.width,
		WithBorderColor(border),
	)
	return lipgloss.JoinVertical(lipgloss.Left, label, body)
}
