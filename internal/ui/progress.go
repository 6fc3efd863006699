package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 32

type progressImpl struct {
	theme    *Theme
	headless *HeadlessManager
	writer   io.Writer
}

// NewProgress creates a Progress backed by the given theme and headless manager.
// Output goes to os.Stderr so it never mixes with diffs on stdout.
func NewProgress(theme *Theme, hm *HeadlessManager) Progress {
	return newProgressImpl(theme, hm, os.Stderr)
}

func newProgressImpl(theme *Theme, hm *HeadlessManager, w io.Writer) *progressImpl {
	return &progressImpl{theme: theme, headless: hm, writer: w}
}

// Start returns an animated bar on a terminal and a line logger otherwise.
func (p *progressImpl) Start(title string, total int) ProgressBar {
	if p.headless.IsHeadless() || p.theme.NoColor {
		return &lineBar{title: title, total: total, w: p.writer}
	}
	return newAnimatedBar(p.theme, title, total, p.writer)
}

// --- animated ---

type (
	stepMsg   string
	incrMsg   int
	finishMsg struct{}
)

// stepModel shows a spinner, the bar and the current step on one line.
type stepModel struct {
	theme   *Theme
	spin    spinner.Model
	bar     progress.Model
	title   string
	step    string
	current int
	total   int
	done    bool
}

func newStepModel(theme *Theme, title string, total int) stepModel {
	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	bar := progress.New(progress.WithoutPercentage(), progress.WithWidth(barWidth), progress.WithDefaultGradient())
	if !theme.NoColor {
		spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Colors.Primary))
		bar = progress.New(
			progress.WithoutPercentage(),
			progress.WithWidth(barWidth),
			progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary),
		)
	}
	return stepModel{theme: theme, spin: spin, bar: bar, title: title, total: total}
}

func (m stepModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		m.step = string(msg)
	case incrMsg:
		m.current = min(m.current+int(msg), m.total)
	case finishMsg:
		m.current = m.total
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m stepModel) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.current) / float64(m.total)
}

func (m stepModel) View() string {
	if m.done {
		return fmt.Sprintf("%s %s (%d/%d)\n", m.theme.Success.Render("✓"), m.title, m.current, m.total)
	}
	step := m.step
	if step == "" {
		step = m.title
	}
	return fmt.Sprintf("%s %s %s\n", m.spin.View(), m.bar.ViewAs(m.percent()),
		m.theme.Muted.Render(fmt.Sprintf("[%d/%d] %s", m.current, m.total, step)))
}

// animatedBar drives a stepModel running in its own program.
type animatedBar struct {
	program *tea.Program
	once    sync.Once
}

// @MX:WARN: [AUTO] the program reads the terminal until Done; Done blocks until it exits.
func newAnimatedBar(theme *Theme, title string, total int, w io.Writer) *animatedBar {
	p := tea.NewProgram(newStepModel(theme, title, total), tea.WithOutput(w))
	go func() {
		_, _ = p.Run()
	}()
	return &animatedBar{program: p}
}

func (b *animatedBar) Increment(n int)       { b.program.Send(incrMsg(n)) }
func (b *animatedBar) SetTitle(title string) { b.program.Send(stepMsg(title)) }

// Done fills the bar and stops the program. Later calls do nothing.
func (b *animatedBar) Done() {
	b.once.Do(func() {
		b.program.Send(finishMsg{})
		b.program.Wait()
	})
}

// --- headless ---

// lineBar logs one line per increment, for CI logs and pipes.
type lineBar struct {
	title   string
	step    string
	total   int
	current int
	w       io.Writer
}

func (b *lineBar) Increment(n int) {
	b.current = min(b.current+n, b.total)
	_, _ = fmt.Fprintf(b.w, "[%d/%d] %s\n", b.current, b.total, b.step)
}

func (b *lineBar) SetTitle(title string) { b.step = title }

func (b *lineBar) Done() {
	_, _ = fmt.Fprintf(b.w, "%s: %d/%d done\n", b.title, b.current, b.total)
}
