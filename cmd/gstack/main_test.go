package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/golden_stack/pkg/config"
	"github.com/Dicklesworthstone/golden_stack/pkg/loader"
	"github.com/Dicklesworthstone/golden_stack/pkg/ui"
)

const threeSlides = `
name: Three
items:
  - background: "#101010"
    foreground: "#f0f0f0"
    title: One
    body: first
  - background: "#202020"
    foreground: "#e0e0e0"
    title: Two
    body: second
  - background: "#303030"
    foreground: "#d0d0d0"
    title: Three
    body: third
`

// isolate points HOME at an empty directory so no user config leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func runArgs(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunVersion(t *testing.T) {
	isolate(t)
	out, _, err := runArgs(t, "--version")
	if err != nil {
		t.Fatalf("run --version: %v", err)
	}
	if !strings.HasPrefix(out, "gstack version v") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRunHelp(t *testing.T) {
	isolate(t)
	_, errOut, err := runArgs(t, "--help")
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(errOut, "Usage: gstack") {
		t.Errorf("usage not printed: %q", errOut)
	}
}

func TestRunSnapshotBuiltinDeck(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "frame.svg")

	stdout, _, err := runArgs(t, "--snapshot", out, "--index", "3", "--width", "640", "--height", "400")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if !strings.Contains(stdout, "panel 4 of 12") {
		t.Errorf("stdout = %q, want panel 4 of 12", stdout)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("output is not an SVG document")
	}
}

func TestRunSnapshotAtFraction(t *testing.T) {
	dir := isolate(t)
	deck := filepath.Join(dir, "deck.yaml")
	if err := os.WriteFile(deck, []byte(threeSlides), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "frame.png")

	stdout, _, err := runArgs(t, "--deck", dir, "--snapshot", out, "--at", "0.5", "--width", "200", "--height", "150")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if !strings.Contains(stdout, "panel 2 of 3") {
		t.Errorf("stdout = %q, want panel 2 of 3", stdout)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 150 {
		t.Errorf("png is %dx%d, want 200x150", cfg.Width, cfg.Height)
	}
}

func TestRunWritesLogFile(t *testing.T) {
	dir := isolate(t)
	logPath := filepath.Join(dir, "logs", "gstack.log")
	out := filepath.Join(dir, "frame.svg")

	_, _, err := runArgs(t, "--snapshot", out, "--width", "100", "--height", "100", "--log", logPath, "--log-level", "debug")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log not written: %v", err)
	}
	if !strings.Contains(string(data), "deck loaded") {
		t.Errorf("log missing deck record:\n%s", data)
	}
}

func TestRunErrors(t *testing.T) {
	dir := isolate(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--nope"}, "not defined"},
		{"extra argument", []string{"stray"}, "unexpected argument"},
		{"missing config", []string{"--config", filepath.Join(dir, "none.yaml")}, "loading config"},
		{"invalid ease", []string{"--ease", "2"}, "ease must be in (0, 1]"},
		{"bad log level", []string{"--log-level", "loud"}, "log_level"},
		{"missing deck", []string{"--deck", filepath.Join(dir, "none.yaml")}, "loading deck"},
		{"bad snapshot format", []string{"--snapshot", filepath.Join(dir, "x.gif"), "--width", "10", "--height", "10"}, "unsupported snapshot format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runArgs(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestRunFlagOverridesInvalidEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("GSTACK_EASE", "2")
	out := filepath.Join(dir, "frame.png")

	if _, _, err := runArgs(t, "--ease", "0.1", "--snapshot", out, "--width", "64", "--height", "64"); err != nil {
		t.Fatalf("flag should override the invalid env value: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}

	_, _, err := runArgs(t, "--snapshot", out, "--width", "64", "--height", "64")
	if err == nil || !strings.Contains(err.Error(), "ease must be in (0, 1]") {
		t.Errorf("invalid env without override: err = %v", err)
	}
}

func TestOptionsApplyOnlyExplicitFlags(t *testing.T) {
	o, err := parseFlags([]string{"--ease", "0.2", "--snap-delay", "1s"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.FrameRate = 30
	cfg.Deck = "talk.yaml"
	o.apply(&cfg)

	if cfg.Ease != 0.2 || cfg.SnapDelay != time.Second {
		t.Errorf("explicit flags not applied: ease %v snap_delay %v", cfg.Ease, cfg.SnapDelay)
	}
	if cfg.FrameRate != 30 || cfg.Deck != "talk.yaml" {
		t.Errorf("unset flags overrode config: frame_rate %d deck %q", cfg.FrameRate, cfg.Deck)
	}
}

func TestDeckWatchersReloadOnSlideFileChange(t *testing.T) {
	dir := t.TempDir()
	slide := filepath.Join(dir, "intro.md")
	if err := os.WriteFile(slide, []byte("# Intro\n\nbefore\n"), 0644); err != nil {
		t.Fatal(err)
	}
	deckPath := filepath.Join(dir, "deck.yaml")
	deckYAML := `
items:
  - background: "#000000"
    foreground: "#ffffff"
    file: intro.md
`
	if err := os.WriteFile(deckPath, []byte(deckYAML), 0644); err != nil {
		t.Fatal(err)
	}
	deck, err := loader.LoadDeck(deckPath)
	if err != nil {
		t.Fatal(err)
	}

	msgs := make(chan tea.Msg, 8)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	watchers, err := newDeckWatchers(deck, func(m tea.Msg) { msgs <- m }, logger)
	if err != nil {
		t.Fatalf("newDeckWatchers failed: %v", err)
	}
	if len(watchers) != 2 {
		t.Fatalf("got %d watchers, want deck + slide file", len(watchers))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for _, w := range watchers {
		go w.Run(ctx)
	}

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(slide, []byte("# Intro\n\nafter the edit\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-msgs:
		reload, ok := m.(ui.ReloadMsg)
		if !ok {
			t.Fatalf("got %T, want ui.ReloadMsg", m)
		}
		if reload.Err != nil {
			t.Fatalf("reload failed: %v", reload.Err)
		}
		if body := reload.Deck.Items[0].Slide.Body; !strings.Contains(body, "after the edit") {
			t.Errorf("reloaded body = %q", body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("editing the slide file did not reload the deck")
	}
}
