package gantt

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// RenderSVGLayer writes the overlay as an SVG group. Each connector becomes
// a focusable path with its accessibility role, label, and tab stop; the
// critical ones reference the glow filter defined alongside the group. A nil
// overlay writes nothing at all.
//
// The caller owns the enclosing <svg> document (canvas) and has already
// drawn the bars underneath; connectors land on top, non-critical first.
func RenderSVGLayer(canvas *svg.SVG, o *Overlay) {
	if o == nil {
		return
	}

	canvas.Def()
	canvas.Filter(GlowFilterID)
	canvas.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic", Result: "blur"}, 2.5, 2.5)
	canvas.FeMerge([]string{"blur", "SourceGraphic"})
	canvas.Fend()
	canvas.DefEnd()

	attrs := []string{`class="connector-layer"`}
	if o.AriaHidden() {
		attrs = append(attrs, `aria-hidden="true"`)
	}
	canvas.Group(attrs...)
	for _, e := range o.Elements {
		renderElement(canvas, o, e)
	}
	canvas.Gend()
}

func renderElement(canvas *svg.SVG, o *Overlay, e *Element) {
	c := &e.Connector
	stroke := o.ColorFor(c)
	width := 1.6
	opacity := 1.0
	switch e.Class() {
	case ClassHovered:
		width = 2.6
	case ClassDimmed:
		opacity = 0.25
	}

	style := fmt.Sprintf("stroke:%s;stroke-width:%.1f;fill:none;opacity:%.2f", stroke, width, opacity)
	attrs := []string{
		style,
		fmt.Sprintf(`role="%s"`, ElementRole),
		fmt.Sprintf(`aria-label="%s"`, xmlEscape(e.AriaLabel)),
		fmt.Sprintf(`tabindex="%d"`, e.TabIndex),
		fmt.Sprintf(`data-key="%s"`, xmlEscape(c.Key)),
	}
	if e.FilterID != "" {
		attrs = append(attrs, fmt.Sprintf(`filter="url(#%s)"`, e.FilterID))
	}

	canvas.Path(routePath(c.From, c.To), attrs...)
	drawArrowHead(canvas, c.From, c.To, stroke, opacity)
}

// routePath routes a connector between its endpoints. Same-row connectors
// are straight lines; cross-row ones take an orthogonal elbow with a short
// horizontal stub on each side, which keeps arrows readable when rows are
// far apart. Edge selection is the semantic contract, the elbow is only
// aesthetics.
func routePath(from, to Point) string {
	if from.Y == to.Y {
		return fmt.Sprintf("M %.1f %.1f L %.1f %.1f", from.X, from.Y, to.X, to.Y)
	}
	stub := 12.0
	if to.X < from.X {
		stub = -stub
	}
	midX := from.X + stub
	return fmt.Sprintf("M %.1f %.1f L %.1f %.1f L %.1f %.1f L %.1f %.1f",
		from.X, from.Y, midX, from.Y, midX, to.Y, to.X, to.Y)
}

// drawArrowHead renders a small triangle at the target end. The final
// approach segment is always horizontal (straight line or elbow), so the
// head points along the x direction of travel.
func drawArrowHead(canvas *svg.SVG, from, to Point, fill string, opacity float64) {
	dir := 1.0
	if to.X < from.X {
		dir = -1
	}
	size := 6.0
	xs := []int{
		int(math.Round(to.X)),
		int(math.Round(to.X - dir*size)),
		int(math.Round(to.X - dir*size)),
	}
	ys := []int{
		int(math.Round(to.Y)),
		int(math.Round(to.Y - size/2)),
		int(math.Round(to.Y + size/2)),
	}
	canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;opacity:%.2f", fill, opacity))
}

// SVGDocument renders a standalone SVG containing just the connector layer,
// sized to the given canvas. Returns false without writing when the overlay
// is nil, mirroring the "no container" contract.
func SVGDocument(w io.Writer, o *Overlay, width, height int) bool {
	if o == nil {
		return false
	}
	canvas := svg.New(w)
	canvas.Start(width, height)
	RenderSVGLayer(canvas, o)
	canvas.End()
	return true
}

func xmlEscape(s string) string {
	var buf xmlBuf
	_ = xml.EscapeText(&buf, []byte(s))
	return string(buf)
}

type xmlBuf []byte

func (b *xmlBuf) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}
