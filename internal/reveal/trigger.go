package reveal

import (
	"fmt"
	"strconv"
	"strings"
)

// Edge is a point along a length: Frac of it plus Px pixels.
type Edge struct {
	Frac float64
	Px   float64
}

func (e Edge) at(length float64) float64 {
	return e.Frac*length + e.Px
}

// Start says when a target fires: when the Element edge of the target meets
// the Viewport edge of the screen. "top 85%" fires once the element's top
// reaches 85% down the viewport.
type Start struct {
	Element  Edge
	Viewport Edge
}

// DefaultStart is "top 85%".
var DefaultStart = Start{Element: Edge{}, Viewport: Edge{Frac: 0.85}}

// ParseStart reads "<element edge> <viewport edge>", each one of top,
// center, bottom, N% or Npx. A single token applies to both.
func ParseStart(expr string) (Start, error) {
	parts := strings.Fields(expr)
	switch len(parts) {
	case 0:
		return DefaultStart, nil
	case 1:
		parts = append(parts, parts[0])
	case 2:
	default:
		return Start{}, fmt.Errorf("start %q: want two positions", expr)
	}
	el, err := parseEdge(parts[0])
	if err != nil {
		return Start{}, fmt.Errorf("start %q: %w", expr, err)
	}
	vp, err := parseEdge(parts[1])
	if err != nil {
		return Start{}, fmt.Errorf("start %q: %w", expr, err)
	}
	return Start{Element: el, Viewport: vp}, nil
}

func parseEdge(tok string) (Edge, error) {
	switch tok {
	case "top":
		return Edge{}, nil
	case "center":
		return Edge{Frac: 0.5}, nil
	case "bottom":
		return Edge{Frac: 1}, nil
	}
	switch {
	case strings.HasSuffix(tok, "%"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(tok, "%"), 64)
		if err != nil {
			return Edge{}, fmt.Errorf("bad position %q", tok)
		}
		return Edge{Frac: n / 100}, nil
	case strings.HasSuffix(tok, "px"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(tok, "px"), 64)
		if err != nil {
			return Edge{}, fmt.Errorf("bad position %q", tok)
		}
		return Edge{Px: n}, nil
	}
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return Edge{Px: n}, nil
	}
	return Edge{}, fmt.Errorf("bad position %q", tok)
}

// Rect is a target's box in document coordinates.
type Rect struct {
	Top    float64
	Height float64
}

// Viewport is the visible window: how far the document is scrolled and how
// tall the window is.
type Viewport struct {
	ScrollY float64
	Height  float64
}

// Crossed reports whether the trigger line has been passed.
func (s Start) Crossed(r Rect, v Viewport) bool {
	return r.Top+s.Element.at(r.Height) <= v.ScrollY+s.Viewport.at(v.Height)
}
