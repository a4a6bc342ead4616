package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Dicklesworthstone/golden_stack/pkg/model"
)

// minSlideWidth is the narrowest column a slide body is rendered into;
// below it only the title is shown.
const minSlideWidth = 12

type slideKey struct {
	title string
	body  string
	width int
}

// SlideRenderer turns slides into plain text lines for a given column
// width. Colors come from the panel palette, so markdown is rendered
// without ANSI styling. Results are cached per width.
type SlideRenderer struct {
	cache     map[slideKey][]string
	renderers map[int]*glamour.TermRenderer
}

// NewSlideRenderer returns an empty renderer.
func NewSlideRenderer() *SlideRenderer {
	return &SlideRenderer{
		cache:     make(map[slideKey][]string),
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Lines renders s to at most width columns.
func (r *SlideRenderer) Lines(s model.Slide, width int) []string {
	if width <= 0 || s.IsEmpty() {
		return nil
	}
	k := slideKey{title: s.Title, body: s.Body, width: width}
	if lines, ok := r.cache[k]; ok {
		return lines
	}

	var lines []string
	if width < minSlideWidth {
		if t := strings.TrimSpace(s.Title); t != "" {
			lines = []string{truncate.StringWithTail(t, uint(width), "…")}
		}
	} else {
		lines = r.render(s, width)
	}
	r.cache[k] = lines
	return lines
}

func (r *SlideRenderer) render(s model.Slide, width int) []string {
	md := slideMarkdown(s)

	out := wordwrap.String(md, width)
	if tr := r.termRenderer(width); tr != nil {
		if rendered, err := tr.Render(md); err == nil {
			out = rendered
		}
	}
	return tidyLines(ansi.Strip(out), width)
}

func (r *SlideRenderer) termRenderer(width int) *glamour.TermRenderer {
	if tr, ok := r.renderers[width]; ok {
		return tr
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	r.renderers[width] = tr
	return tr
}

// slideMarkdown prefixes the title as a heading unless the body already
// opens with one.
func slideMarkdown(s model.Slide) string {
	title := strings.TrimSpace(s.Title)
	body := strings.TrimSpace(s.Body)
	if title == "" || strings.HasPrefix(body, "#") {
		return body
	}
	if body == "" {
		return "# " + title
	}
	return "# " + title + "\n\n" + body
}

// tidyLines trims the renderer's margins and blank edges and clips every
// line to width.
func tidyLines(s string, width int) []string {
	raw := strings.Split(s, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimRight(l, " "))
	}

	// Drop the common left margin glamour adds.
	margin := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lead := len(l) - len(strings.TrimLeft(l, " "))
		if margin < 0 || lead < margin {
			margin = lead
		}
	}
	for i, l := range lines {
		if margin > 0 && len(l) >= margin {
			l = l[margin:]
		}
		lines[i] = truncate.String(l, uint(width))
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
