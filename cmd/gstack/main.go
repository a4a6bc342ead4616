package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/golden_stack/pkg/config"
	"github.com/Dicklesworthstone/golden_stack/pkg/engine"
	"github.com/Dicklesworthstone/golden_stack/pkg/export"
	"github.com/Dicklesworthstone/golden_stack/pkg/frameloop"
	"github.com/Dicklesworthstone/golden_stack/pkg/loader"
	"github.com/Dicklesworthstone/golden_stack/pkg/model"
	"github.com/Dicklesworthstone/golden_stack/pkg/scene"
	"github.com/Dicklesworthstone/golden_stack/pkg/session"
	"github.com/Dicklesworthstone/golden_stack/pkg/ui"
	"github.com/Dicklesworthstone/golden_stack/pkg/updater"
	"github.com/Dicklesworthstone/golden_stack/pkg/version"
	"github.com/Dicklesworthstone/golden_stack/pkg/watcher"
)

const (
	// snapshotSettle bounds how long a headless run may take to settle.
	snapshotSettle = 30 * time.Second
	defaultWidth   = 1280
	defaultHeight  = 800
)

// snapshotEpoch keeps headless runs independent of the wall clock.
var snapshotEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type options struct {
	configPath  string
	deck        string
	pick        bool
	db          string
	logPath     string
	logLevel    string
	resume      bool
	watch       bool
	snapshot    string
	at          float64
	index       int
	free        bool
	width       int
	height      int
	showVersion bool
	checkUpdate bool

	ease      float64
	damping   float64
	snapDelay time.Duration
	frameRate int

	set map[string]bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("gstack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: gstack [options]")
		fmt.Fprintln(stderr, "\nA golden-ratio stack of slides that rotates as you scroll.")
		fs.PrintDefaults()
	}

	fs.StringVar(&o.configPath, "config", "", "Config file (default ~/.config/gstack/config.yaml)")
	fs.StringVar(&o.deck, "deck", "", "Deck file or directory (default: built-in deck)")
	fs.BoolVar(&o.pick, "pick", false, "Choose a deck from the deck directory")
	fs.StringVar(&o.db, "db", "", "Session database for --resume")
	fs.StringVar(&o.logPath, "log", "", "Write logs to this file")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&o.resume, "resume", false, "Resume on the panel where this deck was left")
	fs.BoolVar(&o.watch, "watch", false, "Reload the deck when it or its slide files change")
	fs.StringVar(&o.snapshot, "snapshot", "", "Render one frame to a .png or .svg file and exit")
	fs.Float64Var(&o.at, "at", 0, "Snapshot scroll position as a fraction of the range")
	fs.IntVar(&o.index, "index", -1, "Snapshot panel index (overrides --at)")
	fs.BoolVar(&o.free, "free", false, "Snapshot the unsnapped frame at --at")
	fs.IntVar(&o.width, "width", 0, "Snapshot width in pixels (default: terminal size)")
	fs.IntVar(&o.height, "height", 0, "Snapshot height in pixels (default: terminal size)")
	fs.BoolVar(&o.showVersion, "version", false, "Show version")
	fs.BoolVar(&o.checkUpdate, "check-update", false, "Check for a newer release")

	fs.Float64Var(&o.ease, "ease", 0, "Fraction of the remaining scroll covered per frame")
	fs.Float64Var(&o.damping, "wheel-damping", 0, "Wheel delta multiplier")
	fs.DurationVar(&o.snapDelay, "snap-delay", 0, "Idle time before snapping")
	fs.IntVar(&o.frameRate, "frame-rate", 0, "Frames per second")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("parsing flags: unexpected argument %q", fs.Arg(0))
	}
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// apply layers flags that were given explicitly over cfg.
func (o options) apply(cfg *config.Config) {
	if o.set["deck"] {
		cfg.Deck = o.deck
	}
	if o.set["db"] {
		cfg.DB = o.db
	}
	if o.set["log"] {
		cfg.Log = o.logPath
	}
	if o.set["log-level"] {
		cfg.LogLevel = o.logLevel
	}
	if o.set["ease"] {
		cfg.Ease = o.ease
	}
	if o.set["wheel-damping"] {
		cfg.WheelDamping = o.damping
	}
	if o.set["snap-delay"] {
		cfg.SnapDelay = o.snapDelay
	}
	if o.set["frame-rate"] {
		cfg.FrameRate = o.frameRate
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if o.showVersion {
		fmt.Fprintf(stdout, "gstack version %s\n", version.String())
		return nil
	}
	if o.checkUpdate {
		tag, url, err := updater.CheckForUpdates(ctx)
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}
		if tag == "" {
			fmt.Fprintf(stdout, "gstack %s is up to date\n", version.Version)
		} else {
			fmt.Fprintf(stdout, "gstack %s is available: %s\n", tag, url)
		}
		return nil
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	o.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg.Log, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	deck, err := resolveDeck(ctx, cfg.Deck, o.pick)
	if err != nil {
		return fmt.Errorf("loading deck: %w", err)
	}
	logger.Info("deck loaded", "name", deck.Name, "path", deck.Path, "slides", len(deck.Items))

	if o.snapshot != "" {
		return runSnapshot(cfg, deck, o, logger, stdout)
	}
	return runTUI(ctx, cfg, deck, o, logger)
}

// openLogger writes text records to path, or discards them when path is
// empty: the terminal belongs to the TUI.
func openLogger(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl}))
	return logger, func() { f.Close() }, nil
}

// resolveDeck loads the deck at path, lets the user pick one from path's
// directory, or falls back to the built-in deck.
func resolveDeck(ctx context.Context, path string, pick bool) (model.Deck, error) {
	if pick {
		dir := path
		if dir == "" {
			dir = "."
		} else if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			dir = filepath.Dir(dir)
		}
		chosen, err := ui.PickDeck(ctx, dir)
		if err != nil {
			return model.Deck{}, err
		}
		return loader.LoadDeck(chosen)
	}
	if path == "" {
		return loader.DefaultDeck()
	}
	return loader.LoadDeck(path)
}

// runSnapshot drives the stack on a private loop until it settles and
// writes the displayed frame.
func runSnapshot(cfg config.Config, deck model.Deck, o options, logger *slog.Logger, stdout io.Writer) error {
	width, height := o.width, o.height
	if width <= 0 || height <= 0 {
		tw, th := terminalPixels(cfg)
		if width <= 0 {
			width = tw
		}
		if height <= 0 {
			height = th
		}
	}

	loop := frameloop.New(snapshotEpoch)
	st := scene.NewStage(deck.Items, loop, float64(width),
		engine.WithOptions(cfg.EngineOptions()),
		engine.WithLogger(logger),
	)
	st.Engine.Start()

	if o.index >= 0 {
		st.Engine.SnapTo(o.index)
	} else {
		st.Engine.PlaceAt(o.at)
	}
	if !o.free && !st.Settle(snapshotSettle, cfg.FrameInterval()) {
		logger.Warn("stack did not settle before the snapshot", "state", fmt.Sprintf("%+v", st.Engine.State()))
	}
	st.Engine.Stop()

	err := export.SaveFrameSnapshot(export.FrameSnapshotOptions{
		Path:   o.snapshot,
		Scene:  st.Scene,
		Width:  width,
		Height: height,
		Title:  deck.Name,
	})
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	fmt.Fprintf(stdout, "Saved %s (panel %d of %d, %dx%d)\n",
		o.snapshot, st.Engine.ActiveIndex()+1, st.Engine.PanelCount(), width, height)
	return nil
}

// terminalPixels maps the terminal size to virtual pixels, or a fixed size
// when stdout is not a terminal.
func terminalPixels(cfg config.Config) (int, int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return defaultWidth, defaultHeight
	}
	return int(float64(cols) * cfg.CellWidth), int(float64(rows) * cfg.CellHeight)
}

func runTUI(ctx context.Context, cfg config.Config, deck model.Deck, o options, logger *slog.Logger) error {
	uiOpts := ui.Options{
		CellWidth:     cfg.CellWidth,
		CellHeight:    cfg.CellHeight,
		FrameInterval: cfg.FrameInterval(),
		Engine:        cfg.EngineOptions(),
		Logger:        logger,
	}

	if o.resume {
		db, err := session.Open(cfg.DB)
		if err != nil {
			return fmt.Errorf("opening session db: %w", err)
		}
		defer db.Close()

		key := session.DeckKey(deck)
		pos, ok, err := db.Load(key)
		if err != nil {
			return fmt.Errorf("loading position: %w", err)
		}
		if ok {
			uiOpts.StartIndex = pos.Index
			recent, err := db.History(key, 5)
			if err != nil {
				logger.Warn("reading snap history failed", "error", err)
			}
			logger.Info("resuming", "deck", pos.DeckKey, "index", pos.Index, "recent", recent)
		}
		uiOpts.OnSnap = func(d model.Deck, ev engine.SnapEvent) {
			frac := 0.0
			if ev.Limit > 0 {
				frac = ev.Value / ev.Limit
			}
			err := db.Save(session.Position{
				DeckKey:  session.DeckKey(d),
				DeckName: d.Name,
				Index:    ev.Index,
				Fraction: frac,
			})
			if err != nil {
				logger.Error("saving position failed", "error", err)
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	m := ui.NewModel(deck, uiOpts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(gctx))

	if o.watch && deck.Path == "" {
		logger.Warn("nothing to watch for the built-in deck")
	}
	if o.watch && deck.Path != "" {
		watchers, err := newDeckWatchers(deck, p.Send, logger)
		if err != nil {
			return err
		}
		wctx, stopWatch := context.WithCancel(gctx)
		defer stopWatch()
		for _, w := range watchers {
			g.Go(func() error {
				return w.Run(wctx)
			})
		}
		g.Go(func() error {
			defer stopWatch()
			return runProgram(p)
		})
	} else {
		g.Go(func() error { return runProgram(p) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runProgram(p *tea.Program) error {
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running gstack: %w", err)
	}
	return nil
}

// newDeckWatchers watches the deck file and every slide file it
// references. Any change reloads the whole deck and hands it to send,
// which delivers it to the program's goroutine. Slide files first
// referenced by a reload are picked up on the next start.
func newDeckWatchers(deck model.Deck, send func(tea.Msg), logger *slog.Logger) ([]*watcher.Watcher, error) {
	reload := func() {
		next, err := loader.LoadDeck(deck.Path)
		if err != nil {
			logger.Warn("deck reload failed", "path", deck.Path, "error", err)
		}
		send(ui.ReloadMsg{Deck: next, Err: err})
	}

	paths := append([]string{deck.Path}, deck.Files...)
	watchers := make([]*watcher.Watcher, 0, len(paths))
	for _, path := range paths {
		w, err := watcher.New(path, reload, watcher.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("watching deck: %w", err)
		}
		logger.Info("watching deck", "path", w.Path())
		watchers = append(watchers, w)
	}
	return watchers, nil
}
