package engine

import "github.com/Dicklesworthstone/golden_stack/pkg/model"

// Panel is one rotating slot of the stack.
type Panel struct {
	Index      int
	Node       Node
	Background model.Color
	Foreground model.Color
	Scale      float64
	Rotation   float64
	Visible    bool
}

// ensurePanels creates the panels missing for items and renders their
// slides. Panels that already exist are reused untouched, so slide state
// survives; only layout is refreshed.
func (e *Engine) ensurePanels(items []model.ContentItem) {
	for i := len(e.panels); i < len(items); i++ {
		item := items[i]
		p := &Panel{
			Index:      i,
			Node:       e.host.Mount.CreateNode(i),
			Background: item.Background,
			Foreground: item.Foreground,
			Visible:    true,
		}
		p.Node.Render(item.Slide)
		e.panels = append(e.panels, p)
		e.log.Debug("panel created", "index", i)
	}
	e.tracker.SetLimit(e.geom.Limit(len(e.panels)))
	e.relayout()
}

// relayout re-derives every panel's geometry from the current constants.
func (e *Engine) relayout() {
	e.host.Mount.SetOrigin(e.geom.OriginX, e.geom.OriginY)
	for _, p := range e.panels {
		l := e.geom.PanelLayout(p.Index)
		p.Scale = l.Transform.Scale
		p.Rotation = l.Transform.Rotate
		p.Node.SetLayout(l)
	}
	// Palettes belong to the previous layout pass; force the next aligned
	// frame to reapply them.
	e.themed = -1
}
