package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"

	"github.com/SamWanekeya/UnCSS-Online/internal/stats"
	"github.com/SamWanekeya/UnCSS-Online/internal/submission"
)

// Labels and placeholders shown on the form.
const (
	title             = "UnCSS Online!"
	tagline           = "Simply UnCSS your styles online!"
	htmlLabel         = "Your HTML"
	htmlPlaceholder   = "Insert your HTML here"
	cssLabel          = "Your CSS"
	cssPlaceholder    = "Insert your CSS here"
	submitLabel       = "UnCSS my styles"
	outputLabel       = "Your shortened CSS"
	outputPlaceholder = "Take your shortened CSS and use it!"
	copyLabel         = "Copy to clipboard"
	faultMessage      = "Something went wrong while drawing the form."
)

// focusArea is the form element that receives keyboard input.
type focusArea int

const (
	focusHTML focusArea = iota
	focusCSS
	focusSubmit
	focusOutput
	focusCopy
	focusCount
)

// Controller is the part of the submission controller the form drives. It is
// satisfied by *submission.Controller. Begin and Settle run on the update
// loop; Dispatch runs inside a tea.Cmd.
type Controller interface {
	State() submission.State
	Begin() submission.Ticket
	Dispatch(ctx context.Context, in submission.Input) submission.Outcome
	Settle(t submission.Ticket, outcome submission.Outcome)
}

// CopyBinding performs the copy off the update loop and then emits the
// outcome on it. Satisfied by *clipboard.Binding.
type CopyBinding interface {
	Write(text string) error
	Emit(err error)
}

// Reporter receives rendering faults. Satisfied by every telemetry reporter.
type Reporter interface {
	CaptureException(err error, extras map[string]any)
}

// Summarizer builds the status bar statistics. stats.Build satisfies it.
type Summarizer func(html, css, output string, hasOutput bool) (stats.Report, error)

// FormOptions holds configuration passed to NewFormModel.
type FormOptions struct {
	// Context bounds every request started from the form. Defaults to
	// context.Background().
	Context context.Context

	// HTML and CSS prefill the two editors.
	HTML string
	CSS  string

	// Endpoint is shown in the status bar.
	Endpoint string

	// Width and Height are the initial terminal size.
	Width  int
	Height int

	// Reporter receives rendering faults. Nil drops them.
	Reporter Reporter

	// Summarize computes statistics after each settled submission. Nil uses
	// stats.Build.
	Summarize Summarizer

	// Logger receives debug output. Nil uses log.Default().
	Logger *log.Logger
}

// settledMsg carries a finished dispatch back to the update loop.
type settledMsg struct {
	ticket  submission.Ticket
	outcome submission.Outcome
}

// copiedMsg carries the result of a clipboard write back to the update loop.
type copiedMsg struct {
	err error
}

// FormModel is the Bubble Tea model for the form.
//
// What the form shows about the submission (error panel, busy button,
// output, clipboard line) is derived from the controller state on every
// render; the model itself only holds widget and layout state.
type FormModel struct {
	ctx      context.Context
	ctrl     Controller
	copier   CopyBinding
	reporter Reporter
	logger   *log.Logger

	html   *Editor
	css    *Editor
	output viewport.Model
	help   help.Model
	keys   keyMap

	focus     focusArea
	showUsage bool

	// busyFrames drive the submit button animation while loading.
	busyFrames []string
	busyFrame  int
	ticking    bool

	// shownOutput is the output currently loaded into the viewport.
	shownOutput string

	summarize Summarizer
	statsLine string
	endpoint  string

	// lastFault is the message of the last reported rendering fault. It is
	// cleared by the next successful render so a recurring fault is
	// reported once per occurrence, not once per frame.
	lastFault string
	// loading mirrors State().Loading for fault reports, which must not
	// touch the controller.
	loading bool

	width  int
	height int
}

// NewFormModel creates the form. ctrl and copier must not be nil.
func NewFormModel(ctrl Controller, copier CopyBinding, opts FormOptions) *FormModel {
	width := opts.Width
	if width == 0 {
		width = 80
	}
	height := opts.Height
	if height == 0 {
		height = 24
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	summarize := opts.Summarize
	if summarize == nil {
		summarize = stats.Build
	}

	m := &FormModel{
		ctx:        ctx,
		ctrl:       ctrl,
		copier:     copier,
		reporter:   opts.Reporter,
		logger:     logger,
		html:       NewEditor(htmlLabel, htmlPlaceholder, opts.HTML),
		css:        NewEditor(cssLabel, cssPlaceholder, opts.CSS),
		output:     viewport.New(),
		help:       help.New(),
		keys:       defaultKeyMap(),
		busyFrames: knightRiderFrames(),
		summarize:  summarize,
		endpoint:   opts.Endpoint,
		width:      width,
		height:     height,
	}
	m.layout()
	return m
}

// --------------------------------------------------------------------------
// tea.Model interface
// --------------------------------------------------------------------------

// Init implements tea.Model. Focuses the HTML editor.
func (m *FormModel) Init() tea.Cmd {
	return m.setFocus(focusHTML)
}

// Update implements tea.Model.
func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case settledMsg:
		m.ctrl.Settle(msg.ticket, msg.outcome)
		m.loading = m.ctrl.State().Loading
		m.refreshStats()
		return m, nil

	case copiedMsg:
		m.copier.Emit(msg.err)
		if msg.err != nil {
			m.logger.Debug("copy failed", "err", msg.err)
		}
		return m, nil

	case busyTickMsg:
		if m.ctrl.State().Loading {
			m.busyFrame++
			return m, busyTickCmd()
		}
		m.ticking = false
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	return m, m.forward(msg)
}

// handleKey routes a key press. Global bindings win over the focused widget.
func (m *FormModel) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}

	if m.showUsage {
		if key.Matches(msg, m.keys.Close) {
			m.showUsage = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Usage):
		m.showUsage = true
		return nil
	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Copy):
		return m.copy()
	}

	switch m.focus {
	case focusSubmit:
		if key.Matches(msg, m.keys.Press) {
			return m.submit()
		}
		return nil
	case focusCopy:
		if key.Matches(msg, m.keys.Press) {
			return m.copy()
		}
		return nil
	}
	return m.forward(msg)
}

// forward passes msg to the focused widget.
func (m *FormModel) forward(msg tea.Msg) tea.Cmd {
	switch m.focus {
	case focusHTML:
		return m.html.Update(msg)
	case focusCSS:
		return m.css.Update(msg)
	case focusOutput:
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return cmd
	}
	return nil
}

// setFocus moves keyboard focus to area.
func (m *FormModel) setFocus(area focusArea) tea.Cmd {
	m.focus = area
	m.html.Blur()
	m.css.Blur()
	switch area {
	case focusHTML:
		return m.html.Focus()
	case focusCSS:
		return m.css.Focus()
	}
	return nil
}

// submit starts a submission unless one is already in flight, in which case
// the submit control is disabled and the key is ignored.
func (m *FormModel) submit() tea.Cmd {
	if m.ctrl.State().Loading {
		return nil
	}

	ticket := m.ctrl.Begin()
	m.loading = true
	in := submission.Input{HTML: m.html.Value(), CSS: m.css.Value()}

	ctrl, ctx := m.ctrl, m.ctx
	cmds := []tea.Cmd{func() tea.Msg {
		return settledMsg{ticket: ticket, outcome: ctrl.Dispatch(ctx, in)}
	}}
	if !m.ticking {
		m.ticking = true
		m.busyFrame = 0
		cmds = append(cmds, busyTickCmd())
	}
	return tea.Batch(cmds...)
}

// copy writes the current output to the clipboard. It is allowed while a
// submission is in flight.
func (m *FormModel) copy() tea.Cmd {
	text := m.ctrl.State().OutputCSS
	copier := m.copier
	return func() tea.Msg {
		return copiedMsg{err: copier.Write(text)}
	}
}

// refreshStats recomputes the status bar statistics from the current inputs
// and the stored output.
func (m *FormModel) refreshStats() {
	st := m.ctrl.State()
	report, err := m.summarize(m.html.Value(), m.css.Value(), st.OutputCSS, st.OutputCSS != "" || st.LastError == nil)
	if err != nil {
		m.logger.Debug("stats unavailable", "err", err)
	}
	m.statsLine = report.String()
}

// View implements tea.Model. A panic while rendering is recovered, reported
// to telemetry once, and replaced by a fallback screen; the submission state
// is left untouched.
func (m *FormModel) View() (v tea.View) {
	defer func() {
		if r := recover(); r != nil {
			m.reportFault(r)
			v = tea.NewView(m.renderFault())
			v.AltScreen = true
		}
	}()

	content := m.render()
	m.lastFault = ""

	v = tea.NewView(content)
	v.AltScreen = true
	v.WindowTitle = title
	return v
}

// --------------------------------------------------------------------------
// Rendering
// --------------------------------------------------------------------------

// render lays out the whole form from the controller state.
func (m *FormModel) render() string {
	if m.showUsage {
		return m.renderUsage()
	}

	st := m.ctrl.State()

	parts := []string{m.renderHeader()}
	if st.LastError != nil {
		parts = append(parts, m.renderError(*st.LastError))
	}
	parts = append(parts,
		m.renderEditors(),
		m.renderSubmit(st.Loading),
		m.renderOutput(st.OutputCSS),
		m.renderCopy(st.ClipboardMessage),
		m.renderStatusBar(),
		m.help.ShortHelpView(m.keys.ShortHelp()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *FormModel) renderHeader() string {
	theme := GetTheme()
	return StyleHeader(theme).Render(title) + "  " + StyleMuted(theme).Render(tagline)
}

// renderError shows the error name as a heading and the message below it,
// both verbatim.
func (m *FormModel) renderError(info submission.ErrorInfo) string {
	theme := GetTheme()
	content := lipgloss.JoinVertical(lipgloss.Left,
		StyleError(theme).Render(info.Name),
		lipgloss.NewStyle().Foreground(theme.Text).Render(info.Message),
	)
	return renderContentBlock(content, m.width,
		WithBorderColor(theme.Error),
		WithMarginTop(1),
	)
}

func (m *FormModel) renderEditors() string {
	if m.sideBySide() {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.html.View(), " ", m.css.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.html.View(), m.css.View())
}

// renderSubmit draws the submit control. While loading it is disabled and
// carries the busy animation.
func (m *FormModel) renderSubmit(loading bool) string {
	theme := GetTheme()
	button := CreateButton(submitLabel, m.focus == focusSubmit, loading, theme)
	if loading && len(m.busyFrames) > 0 {
		button += "  " + m.busyFrames[m.busyFrame%len(m.busyFrames)]
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, button)
}

// renderOutput shows the stored output, possibly stale from an earlier
// success.
func (m *FormModel) renderOutput(outputCSS string) string {
	theme := GetTheme()
	if outputCSS != m.shownOutput {
		m.shownOutput = outputCSS
		m.output.SetContent(outputCSS)
		m.output.GotoTop()
	}

	body := m.output.View()
	if outputCSS == "" {
		body = StyleMuted(theme).Render(outputPlaceholder)
	}

	focused := m.focus == focusOutput
	border := theme.MutedBorder
	if focused {
		border = theme.Primary
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		StyleLabel(theme, focused).Render(outputLabel),
		renderContentBlock(body, m.width, WithBorderColor(border)),
	)
}

// renderCopy draws the copy control and, when present, the clipboard
// message below it.
func (m *FormModel) renderCopy(message *string) string {
	theme := GetTheme()
	lines := []string{
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center,
			CreateButton(copyLabel, m.focus == focusCopy, false, theme)),
	}
	if message != nil {
		style := StyleSuccess(theme)
		if *message != submission.CopiedMessage {
			style = StyleWarning(theme)
		}
		lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, style.Render(*message)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderStatusBar shows the endpoint on the left and statistics on the
// right.
func (m *FormModel) renderStatusBar() string {
	theme := GetTheme()
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	left := muted.Render(m.endpoint)
	right := muted.Render(m.statsLine)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m *FormModel) renderUsage() string {
	theme := GetTheme()
	body := renderContentBlock(toMarkdown(usageMarkdown, max(m.width-4, 20)), m.width,
		WithNoBorder(),
		WithPaddingTop(1),
		WithPaddingBottom(1),
	)
	hint := StyleMuted(theme).Render("esc to return to the form")
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, hint)
}

// renderFault is the fallback screen. It must not touch the controller.
func (m *FormModel) renderFault() string {
	theme := GetTheme()
	content := lipgloss.JoinVertical(lipgloss.Left,
		StyleError(theme).Render(faultMessage),
		StyleMuted(theme).Render("The error has been reported. Press ctrl+c to quit."),
	)
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// reportFault sends a recovered render panic to telemetry together with the
// surrounding layout.
func (m *FormModel) reportFault(r any) {
	err, ok := r.(error)
	if ok {
		err = fmt.Errorf("render failed: %w", err)
	} else {
		err = errors.New(fmt.Sprint("render failed: ", r))
	}

	if err.Error() == m.lastFault {
		return
	}
	m.lastFault = err.Error()
	m.logger.Error("rendering fault", "err", err)

	if m.reporter == nil {
		return
	}
	m.reporter.CaptureException(err, map[string]any{
		"component": "form",
		"width":     m.width,
		"height":    m.height,
		"loading":   m.loading,
		"usage":     m.showUsage,
	})
}

// --------------------------------------------------------------------------
// Layout
// --------------------------------------------------------------------------

// sideBySide reports whether the editors fit next to each other.
func (m *FormModel) sideBySide() bool {
	return m.width >= 100
}

// layout distributes the terminal height between the editors and the output
// viewport:
//
//	header          = 1 line
//	error panel     = 3 lines when present (reserved always)
//	labels          = 1 line per editor row + 1 for output
//	submit          = 1 line
//	copy + message  = 2 lines
//	status + help   = 2 lines
func (m *FormModel) layout() {
	const fixedLines = 1 + 3 + 1 + 2 + 2

	editorRows := 2
	if m.sideBySide() {
		editorRows = 1
	}
	labelLines := editorRows + 1
	avail := max(m.height-fixedLines-labelLines, 3*(editorRows+1))

	// Editors share two thirds, output takes the rest.
	perEditor := max(avail*2/3/editorRows, 3)
	outputRows := max(avail-perEditor*editorRows, 3)

	editorWidth := m.width
	if m.sideBySide() {
		editorWidth = (m.width - 1) / 2
	}
	m.html.SetSize(editorWidth, perEditor)
	m.css.SetSize(editorWidth, perEditor)

	m.output.SetWidth(max(m.width-3, 10))
	m.output.SetHeight(outputRows)
}
