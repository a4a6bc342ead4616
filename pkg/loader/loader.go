package loader

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/golden_stack/pkg/model"
)

// DefaultDeckFile is the name looked up when a directory is given.
const DefaultDeckFile = "deck.yaml"

//go:embed decks
var builtin embed.FS

type deckFile struct {
	Name  string     `yaml:"name"`
	Items []itemFile `yaml:"items"`
}

type itemFile struct {
	Background model.Color `yaml:"background"`
	Foreground model.Color `yaml:"foreground"`
	Title      string      `yaml:"title"`
	Body       string      `yaml:"body"`
	File       string      `yaml:"file"`
}

// DefaultDeck returns the deck compiled into the binary.
func DefaultDeck() (model.Deck, error) {
	sub, err := fs.Sub(builtin, "decks")
	if err != nil {
		return model.Deck{}, fmt.Errorf("failed to open built-in decks: %w", err)
	}
	return LoadDeckFS(sub, "default.yaml")
}

// LoadDeck reads a deck from path. A directory is searched for deck.yaml;
// an empty path means the current working directory.
func LoadDeck(p string) (model.Deck, error) {
	if p == "" {
		var err error
		p, err = os.Getwd()
		if err != nil {
			return model.Deck{}, fmt.Errorf("failed to get current working directory: %w", err)
		}
	}

	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Deck{}, fmt.Errorf("no deck found at %s", p)
	}
	if err != nil {
		return model.Deck{}, fmt.Errorf("failed to stat deck: %w", err)
	}
	if info.IsDir() {
		p = filepath.Join(p, DefaultDeckFile)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return model.Deck{}, fmt.Errorf("failed to resolve deck path: %w", err)
	}
	deck, err := LoadDeckFS(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
	if err != nil {
		return model.Deck{}, err
	}
	deck.Path = abs
	for i, f := range deck.Files {
		deck.Files[i] = filepath.Join(filepath.Dir(abs), filepath.FromSlash(f))
	}
	return deck, nil
}

// LoadDeckFS reads the deck called name from fsys. Slide files are
// resolved relative to the deck and listed in Files as fsys paths.
func LoadDeckFS(fsys fs.FS, name string) (model.Deck, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return model.Deck{}, fmt.Errorf("failed to read deck: %w", err)
	}

	var df deckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return model.Deck{}, fmt.Errorf("failed to parse deck %s: %w", name, err)
	}
	if len(df.Items) == 0 {
		return model.Deck{}, fmt.Errorf("deck %s has no items", name)
	}

	deck := model.Deck{Name: df.Name}
	if deck.Name == "" {
		deck.Name = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}

	dir := path.Dir(name)
	seen := make(map[string]bool)
	for i, it := range df.Items {
		body := it.Body
		if it.File != "" {
			if body != "" {
				return model.Deck{}, fmt.Errorf("item %d: body and file are mutually exclusive", i+1)
			}
			file := path.Join(dir, it.File)
			raw, err := fs.ReadFile(fsys, file)
			if err != nil {
				return model.Deck{}, fmt.Errorf("item %d: failed to read slide file: %w", i+1, err)
			}
			body = string(raw)
			if !seen[file] {
				seen[file] = true
				deck.Files = append(deck.Files, file)
			}
		}

		item := model.ContentItem{
			Background: it.Background,
			Foreground: it.Foreground,
			Slide: model.Slide{
				Title: it.Title,
				Body:  strings.TrimRight(body, "\n"),
			},
		}
		if err := item.Validate(); err != nil {
			return model.Deck{}, fmt.Errorf("item %d: %w", i+1, err)
		}
		deck.Items = append(deck.Items, item)
	}
	return deck, nil
}
