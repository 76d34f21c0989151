package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// busyFPS is the frame rate of the submit button's busy animation.
const busyFPS = time.Second / 14

// knightRiderFrames generates a scanning animation where a bright dot
// bounces across a row of dim ones. Colors come from the active theme.
func knightRiderFrames() []string {
	const numDots = 8
	const dot = "▪"

	theme := GetTheme()
	bright := lipgloss.NewStyle().Foreground(theme.Primary)
	med := lipgloss.NewStyle().Foreground(theme.Muted)
	dim := lipgloss.NewStyle().Foreground(theme.VeryMuted)
	off := lipgloss.NewStyle().Foreground(theme.MutedBorder)

	// Scanner bounces: 0→7→0
	positions := make([]int, 0, 2*numDots-2)
	for i := range numDots {
		positions = append(positions, i)
	}
	for i := numDots - 2; i > 0; i-- {
		positions = append(positions, i)
	}

	frames := make([]string, len(positions))
	for f, pos := range positions {
		var b strings.Builder
		for i := range numDots {
			d := pos - i
			if d < 0 {
				d = -d
			}
			switch d {
			case 0:
				b.WriteString(bright.Render(dot))
			case 1:
				b.WriteString(med.Render(dot))
			case 2:
				b.WriteString(dim.Render(dot))
			default:
				b.WriteString(off.Render(dot))
			}
		}
		frames[f] = b.String()
	}
	return frames
}

// busyTickMsg advances the busy animation by one frame.
type busyTickMsg struct{}

func busyTickCmd() tea.Cmd {
	return tea.Tick(busyFPS, func(time.Time) tea.Msg {
		return busyTickMsg{}
	})
}

// Spinner is a line spinner for non-interactive commands. It writes frames
// to w from its own goroutine and erases the line when stopped.
type Spinner struct {
	w       io.Writer
	message string
	frames  []string
	done    chan struct{}
	exited  chan struct{}
	started bool
	once    sync.Once
}

// NewSpinner returns a Spinner showing message on w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		frames:  knightRiderFrames(),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// Start begins the animation. Start and Stop must be called from the same
// goroutine.
func (s *Spinner) Start() {
	if s.started {
		return
	}
	s.started = true
	go s.run()
}

// Stop halts the animation and blocks until the line is cleared. It is safe
// to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		if s.started {
			<-s.exited
		}
	})
}

func (s *Spinner) run() {
	defer close(s.exited)

	messageStyle := lipgloss.NewStyle().
		Foreground(GetTheme().Text).
		Italic(true)

	ticker := time.NewTicker(busyFPS)
	defer ticker.Stop()

	var frame int
	for {
		select {
		case <-s.done:
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
			fmt.Fprintf(s.w, "\r %s %s",
				s.frames[frame%len(s.frames)],
				messageStyle.Render(s.message))
			frame++
		}
	}
}
