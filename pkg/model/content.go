package model

import (
	"fmt"
	"strings"
)

// Slide is the renderable content carried by a panel.
// Body is markdown; hosts decide how to render it.
type Slide struct {
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

// IsEmpty reports whether the slide has nothing to render.
func (s Slide) IsEmpty() bool {
	return strings.TrimSpace(s.Title) == "" && strings.TrimSpace(s.Body) == ""
}

// ContentItem is one entry of a deck: a color pair and a slide.
// Items are immutable once handed to an engine; their order decides the
// rotation index of the panel built for them.
type ContentItem struct {
	Background Color `json:"background"`
	Foreground Color `json:"foreground"`
	Slide      Slide `json:"slide"`
}

// Validate checks that the item carries usable colors.
func (c ContentItem) Validate() error {
	if c.Background.IsZero() {
		return fmt.Errorf("background color cannot be empty")
	}
	if c.Foreground.IsZero() {
		return fmt.Errorf("foreground color cannot be empty")
	}
	return nil
}

// Deck is an ordered, named sequence of content items.
type Deck struct {
	Name  string
	Path  string // source file, empty for the built-in deck
	Items []ContentItem
	// Files are the slide files the deck pulls bodies from, resolved the
	// same way as Path.
	Files []string
}

// Titles returns the slide titles in deck order, falling back to a
// positional label for untitled slides.
func (d Deck) Titles() []string {
	titles := make([]string, len(d.Items))
	for i, item := range d.Items {
		if t := strings.TrimSpace(item.Slide.Title); t != "" {
			titles[i] = t
		} else {
			titles[i] = fmt.Sprintf("Slide %d", i+1)
		}
	}
	return titles
}
