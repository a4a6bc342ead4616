package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/huh"
)

// ErrNoDecks is returned when a directory holds no deck files.
var ErrNoDecks = errors.New("no deck files found")

// FindDecks lists the YAML files directly inside dir, sorted by name.
func FindDecks(dir string) ([]string, error) {
	var out []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob decks: %w", err)
		}
		out = append(out, matches...)
	}
	sort.Strings(out)
	return out, nil
}

// PickDeck asks the user to choose one of the deck files in dir. A
// directory with a single deck returns it without asking.
func PickDeck(ctx context.Context, dir string) (string, error) {
	paths, err := FindDecks(dir)
	if err != nil {
		return "", err
	}
	switch len(paths) {
	case 0:
		return "", fmt.Errorf("%w in %s", ErrNoDecks, dir)
	case 1:
		return paths[0], nil
	}

	options := make([]huh.Option[string], len(paths))
	for i, p := range paths {
		options[i] = huh.NewOption(filepath.Base(p), p)
	}

	choice := paths[0]
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Choose a deck").
			Description(dir).
			Options(options...).
			Value(&choice),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return "", fmt.Errorf("deck picker: %w", err)
	}
	return choice, nil
}
