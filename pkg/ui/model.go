// Package ui is the terminal host: a bubbletea program that drives the
// stack's frame loop from tea ticks and paints the scene into cells.
package ui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/Dicklesworthstone/golden_stack/pkg/engine"
	"github.com/Dicklesworthstone/golden_stack/pkg/frameloop"
	"github.com/Dicklesworthstone/golden_stack/pkg/model"
	"github.com/Dicklesworthstone/golden_stack/pkg/scene"
)

const (
	// wheelLines is how many lines one terminal wheel report scrolls,
	// matching the usual browser line-mode delta.
	wheelLines = 3
	// keyScrollPixels is one j/k press.
	keyScrollPixels = 120
	statusHeight    = 1
	statusTimeout   = 3 * time.Second
)

// Options configures the terminal host.
type Options struct {
	CellWidth     float64
	CellHeight    float64
	FrameInterval time.Duration
	Engine        engine.Options
	Logger        *slog.Logger
	// StartIndex is restored once the terminal size is known.
	StartIndex int
	// OnSnap runs after every committed snap, on the UI goroutine.
	OnSnap   func(deck model.Deck, ev engine.SnapEvent)
	Renderer *lipgloss.Renderer
	Now      func() time.Time
}

func (o *Options) defaults() {
	if o.CellWidth <= 0 {
		o.CellWidth = 8
	}
	if o.CellHeight <= 0 {
		o.CellHeight = 16
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = frameloop.DefaultFrameInterval
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// frameMsg is one tick of the frame loop. gen guards against a stale tick
// chain outliving a restart.
type frameMsg struct {
	gen int
	at  time.Time
}

type clearStatusMsg struct{ seq int }

// ReloadMsg replaces the deck, rebuilding the stack from scratch. A
// non-nil Err is shown instead.
type ReloadMsg struct {
	Deck model.Deck
	Err  error
}

// Model is the bubbletea model hosting one stack.
type Model struct {
	opts Options
	log  *slog.Logger

	deck   model.Deck
	loop   *frameloop.Loop
	stage  *scene.Stage
	canvas *Canvas

	theme Theme
	keys  KeyMap
	help  help.Model

	jump      JumpModel
	jumping   bool
	showHelp  bool
	pending   int // index to restore once sized; -1 when done
	gen       int
	width     int
	height    int
	status    string
	statusSeq int
}

// NewModel builds the host for deck. The engine starts immediately; it
// has zero width until the first WindowSizeMsg.
func NewModel(deck model.Deck, opts Options) Model {
	opts.defaults()
	theme := DefaultTheme(opts.Renderer)
	h := help.New()

	m := Model{
		opts:    opts,
		log:     opts.Logger.With("component", "ui"),
		deck:    deck,
		loop:    frameloop.New(opts.Now()),
		canvas:  NewCanvas(theme),
		theme:   theme,
		keys:    DefaultKeyMap(),
		help:    h,
		pending: opts.StartIndex,
	}
	m.build()
	return m
}

// build creates a stage for the current deck and starts its engine.
func (m *Model) build() {
	deck := m.deck
	opts := []engine.Option{
		engine.WithOptions(m.opts.Engine),
		engine.WithLogger(m.opts.Logger),
	}
	if m.opts.OnSnap != nil {
		onSnap := m.opts.OnSnap
		opts = append(opts, engine.WithSnapHook(func(ev engine.SnapEvent) { onSnap(deck, ev) }))
	}
	m.stage = scene.NewStage(deck.Items, m.loop, m.viewportWidth(), opts...)
	m.stage.Engine.Start()
}

func (m Model) viewportWidth() float64 {
	return float64(m.width) * m.opts.CellWidth
}

func (m Model) canvasRows() int {
	rows := m.height - statusHeight
	if rows < 0 {
		return 0
	}
	return rows
}

// Init starts the frame ticks.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg{gen: gen, at: t}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loop.Tick(msg.at)
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.jump.SetSize(msg.Width, msg.Height)
		m.stage.Input.SetWidth(m.viewportWidth())
		if m.pending >= 0 && m.width > 0 {
			m.stage.Engine.SnapTo(m.pending)
			m.pending = -1
		}
		return m, nil

	case tea.MouseMsg:
		if m.jumping || m.showHelp {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			m.stage.Input.Wheel(engine.WheelEvent{DeltaY: wheelLines, DeltaMode: engine.DeltaLine})
		case tea.MouseButtonWheelUp:
			m.stage.Input.Wheel(engine.WheelEvent{DeltaY: -wheelLines, DeltaMode: engine.DeltaLine})
		}
		return m, nil

	case ReloadMsg:
		if msg.Err != nil {
			m.log.Warn("reload failed", "error", msg.Err)
			return m.setStatus("reload failed: " + msg.Err.Error())
		}
		m.reload(msg.Deck)
		// A fresh tick chain; the old one dies on its next frame.
		m.gen++
		next, status := m.setStatus(fmt.Sprintf("reloaded %d slides", len(msg.Deck.Items)))
		return next, tea.Batch(next.(Model).tick(), status)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.jumping {
		m.jump.Update(msg.String())
		if m.jump.Done() {
			m.jumping = false
			if idx, ok := m.jump.Choice(); ok {
				m.stage.Engine.JumpTo(idx)
			}
		}
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	e := m.stage.Engine
	switch {
	case key.Matches(msg, m.keys.Quit):
		e.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		e.ScrollBy(keyScrollPixels)
	case key.Matches(msg, m.keys.Up):
		e.ScrollBy(-keyScrollPixels)
	case key.Matches(msg, m.keys.NextPage):
		// From the target, so presses made while easing add up.
		e.JumpTo(e.TargetIndex() + 1)
	case key.Matches(msg, m.keys.PrevPage):
		e.JumpTo(e.TargetIndex() - 1)
	case key.Matches(msg, m.keys.First):
		e.JumpTo(0)
	case key.Matches(msg, m.keys.Last):
		e.JumpTo(e.PanelCount() - 1)
	case key.Matches(msg, m.keys.Number):
		e.JumpTo(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Search):
		m.jump = NewJumpModel(m.deck.Titles(), m.theme)
		m.jump.SetSize(m.width, m.height)
		m.jumping = true
	case key.Matches(msg, m.keys.Copy):
		return m.copyActive()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	return m, nil
}

func (m Model) copyActive() (tea.Model, tea.Cmd) {
	idx := m.stage.Engine.ActiveIndex()
	if idx < 0 || idx >= len(m.deck.Items) {
		return m, nil
	}
	s := m.deck.Items[idx].Slide
	text := strings.TrimSpace(slideMarkdown(s))
	if err := clipboard.WriteAll(text); err != nil {
		return m.setStatus("clipboard unavailable: " + err.Error())
	}
	return m.setStatus(fmt.Sprintf("copied %q", m.deck.Titles()[idx]))
}

func (m Model) setStatus(s string) (tea.Model, tea.Cmd) {
	m.status = s
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// reload tears the stage down and builds a new one for deck, keeping the
// active panel where the new deck allows.
func (m *Model) reload(deck model.Deck) {
	active := m.stage.Engine.ActiveIndex()
	m.stage.Engine.Stop()
	m.deck = deck
	m.build()
	if m.width > 0 {
		m.stage.Engine.SnapTo(active)
	} else if m.pending < 0 {
		m.pending = active
	}
	m.log.Info("deck reloaded", "slides", len(deck.Items), "active", active)
}

// Deck returns the deck being shown.
func (m Model) Deck() model.Deck { return m.deck }

// Engine returns the running engine.
func (m Model) Engine() *engine.Engine { return m.stage.Engine }

// View renders the stack and the status bar.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}
	rows := m.canvasRows()

	var body string
	switch {
	case m.jumping:
		body = lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, m.jump.View())
	case m.showHelp:
		body = lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, m.helpView())
	default:
		body = m.canvas.Render(m.stage.Scene, m.width, rows, m.opts.CellWidth, m.opts.CellHeight)
	}
	if rows == 0 {
		return m.statusBar()
	}
	return body + "\n" + m.statusBar()
}

func (m Model) helpView() string {
	t := m.theme
	h := m.help
	h.ShowAll = true
	title := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render("Golden Stack Keys")
	content := title + "\n" + RenderDivider(30, t) + "\n\n" + h.View(m.keys) + "\n\n" +
		t.Renderer.NewStyle().Foreground(t.Subtext).Render("press any key to close")
	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Render(content)
}

func (m Model) statusBar() string {
	t := m.theme
	e := m.stage.Engine
	idx := e.ActiveIndex()
	titles := m.deck.Titles()

	label := m.deck.Name
	if idx >= 0 && idx < len(titles) {
		label = fmt.Sprintf("%s  %d/%d %s", m.deck.Name, idx+1, len(titles), titles[idx])
	}
	if m.status != "" {
		label = m.status
	}

	badge := RenderPhaseBadge(e.Phase() == engine.PhaseSettling, t)
	hint := t.Renderer.NewStyle().Foreground(t.Subtext).Render(m.help.ShortHelpView(m.keys.ShortHelp()))

	right := badge
	if lipgloss.Width(badge)+lipgloss.Width(hint)+SpaceXS+20 <= m.width {
		right = badge + " " + hint
	}

	barWidth := m.width / 6
	bar := RenderProgressBar(e.State().Fraction(), barWidth, t)

	avail := m.width - lipgloss.Width(right) - lipgloss.Width(bar) - 2*SpaceXS
	if avail < 0 {
		avail = 0
		bar = ""
	}
	left := t.Base.Render(truncate.StringWithTail(label, uint(avail), "…"))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(bar) - lipgloss.Width(right) - SpaceXS
	if gap < 0 {
		gap = 0
	}
	line := left + strings.Repeat(" ", gap) + bar + strings.Repeat(" ", SpaceXS) + right
	return truncate.String(line, uint(m.width))
}
