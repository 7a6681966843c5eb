// Package ui renders live lowering progress in a terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"treelower/internal/driver"
)

// maxRows bounds the file list; queued files beyond it are summarized.
const maxRows = 12

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	queuedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	workingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	unresolvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

type fileRow struct {
	name       string
	status     driver.Status
	worker     int
	elapsed    time.Duration
	unresolved int
}

func (r fileRow) finished() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

type progressModel struct {
	title      string
	events     <-chan driver.FileEvent
	spinner    spinner.Model
	bar        progress.Model
	rows       []fileRow
	failed     int
	unresolved int
	width      int
	done       bool
}

type eventMsg driver.FileEvent
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that follows the events of one
// LowerFiles run. files must be in the order given to LowerFiles; the model
// quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.FileEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40

	rows := make([]fileRow, len(files))
	for i, f := range files {
		rows[i] = fileRow{name: f, status: driver.StatusQueued}
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    rows,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.FileEvent(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = min(40, max(msg.Width-30, 10))
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// next waits for the following driver event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.FileEvent) tea.Cmd {
	if ev.Index < 0 || ev.Index >= len(m.rows) {
		return nil
	}
	row := &m.rows[ev.Index]
	if row.finished() {
		return nil
	}
	row.status = ev.Status
	if ev.Worker > 0 {
		row.worker = ev.Worker
	}
	if row.finished() {
		row.elapsed = ev.Elapsed
		row.unresolved = ev.Unresolved
		m.unresolved += ev.Unresolved
		if ev.Status == driver.StatusError {
			m.failed++
		}
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) finished() int {
	n := 0
	for _, r := range m.rows {
		if r.finished() {
			n++
		}
	}
	return n
}

// fraction counts a file being lowered as half done.
func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 1
	}
	var total float64
	for _, r := range m.rows {
		switch {
		case r.finished():
			total++
		case r.status == driver.StatusWorking:
			total += 0.5
		}
	}
	return total / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	mark := m.spinner.View()
	if m.done {
		mark = doneStyle.Render("✓")
	}
	header := fmt.Sprintf("%s %d/%d", m.title, m.finished(), len(m.rows))
	fmt.Fprintf(&b, "%s %s", mark, titleStyle.Render(header))
	if m.unresolved > 0 {
		b.WriteString(unresolvedStyle.Render(fmt.Sprintf("  %d unresolved", m.unresolved)))
	}
	if m.failed > 0 {
		b.WriteString(failedStyle.Render(fmt.Sprintf("  %d failed", m.failed)))
	}
	b.WriteString("\n\n")

	shown, hidden := m.visibleRows()
	nameWidth := max(m.width-28, 16)
	for _, r := range shown {
		b.WriteString("  ")
		b.WriteString(m.renderRow(r, nameWidth))
		b.WriteString("\n")
	}
	if hidden > 0 {
		fmt.Fprintf(&b, "  %s\n", queuedStyle.Render(fmt.Sprintf("… %d more queued", hidden)))
	}

	b.WriteString("\n  ")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visibleRows keeps every started file and fills the rest of the window with
// queued files in input order.
func (m *progressModel) visibleRows() ([]fileRow, int) {
	if len(m.rows) <= maxRows {
		return m.rows, 0
	}
	shown := make([]fileRow, 0, maxRows)
	var queued []fileRow
	for _, r := range m.rows {
		if r.status == driver.StatusQueued {
			queued = append(queued, r)
			continue
		}
		shown = append(shown, r)
	}
	if len(shown) > maxRows {
		shown = shown[len(shown)-maxRows:]
	}
	room := min(maxRows-len(shown), len(queued))
	shown = append(shown, queued[:room]...)
	return shown, len(queued) - room
}

func (m *progressModel) renderRow(r fileRow, nameWidth int) string {
	name := runewidth.FillRight(truncate(r.name, nameWidth), nameWidth)
	switch r.status {
	case driver.StatusWorking:
		return fmt.Sprintf("%s %s %s", workingStyle.Render(fmt.Sprintf("%-8s", r.status)), name,
			queuedStyle.Render(fmt.Sprintf("w%d", r.worker)))
	case driver.StatusDone, driver.StatusError:
		style := doneStyle
		if r.status == driver.StatusError {
			style = failedStyle
		}
		line := fmt.Sprintf("%s %s %6s", style.Render(fmt.Sprintf("%-8s", r.status)), name,
			r.elapsed.Round(time.Millisecond))
		if r.unresolved > 0 {
			line += " " + unresolvedStyle.Render(fmt.Sprintf("%d unresolved", r.unresolved))
		}
		return line
	default:
		return fmt.Sprintf("%s %s", queuedStyle.Render(fmt.Sprintf("%-8s", r.status)), name)
	}
}

// truncate shortens value to width cells, keeping the file name end of a
// path visible.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 1 {
		return runewidth.Truncate(value, width, "")
	}
	// Cut from the left so the base name survives.
	runes := []rune(value)
	for i := range runes {
		rest := string(runes[i:])
		if runewidth.StringWidth(rest)+1 <= width {
			return "…" + rest
		}
	}
	return "…"
}
