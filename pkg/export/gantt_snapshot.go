// Package export renders static Gantt snapshots (SVG or PNG) for sharing a
// schedule outside the terminal UI.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/sitework/pkg/gantt"
	"github.com/vanderheijden86/sitework/pkg/model"
	"github.com/vanderheijden86/sitework/pkg/schedule"
)

// GanttSnapshotOptions controls Gantt snapshot export behaviour.
type GanttSnapshotOptions struct {
	Path     string           // Output path; format inferred from extension when Format empty
	Format   string           // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title    string           // Optional title rendered in summary block
	Preset   string           // Layout preset: "compact" (default) or "roomy"
	Project  *model.Project   // Project to render
	Schedule *schedule.Result // Schedule computation used for criticality/summary
}

// SaveGanttSnapshot renders a static Gantt snapshot with bars, milestone
// markers, the dependency connector layer, and a minimal summary block.
func SaveGanttSnapshot(opts GanttSnapshotOptions) error {
	if opts.Project == nil || len(opts.Project.WorkItems) == 0 {
		return fmt.Errorf("no work items to export")
	}
	if opts.Schedule == nil {
		return fmt.Errorf("schedule result is required for snapshot export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildSnapshotLayout(opts)

	switch format {
	case "svg":
		return renderSVG(opts, layout)
	case "png":
		return renderPNG(opts, layout)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// --- layout computation ----------------------------------------------------

type snapshotLayout struct {
	Geometry   gantt.Geometry
	Connectors []gantt.Connector
	Items      []model.WorkItem
	Milestones []model.Milestone
	Width      int
	Height     int
	Header     float64
	Summary    summaryInfo
}

type summaryInfo struct {
	Title         string
	ItemCount     int
	ConnCount     int
	CriticalCount int
	Makespan      int
}

func buildSnapshotLayout(opts GanttSnapshotOptions) snapshotLayout {
	const headerHeight = 120.0

	lo := gantt.DefaultLayout()
	if strings.EqualFold(opts.Preset, "roomy") {
		lo.PxPerDay = 24
		lo.RowHeight = 32
		lo.RowGap = 14
	}
	lo.Top = headerHeight + 48

	geo := gantt.BuildGeometry(opts.Project.WorkItems, opts.Project.Milestones, lo)
	// Milestone markers sit in a lane between the header and the first row.
	for id, pt := range geo.Milestones {
		geo.Milestones[id] = gantt.Point{X: pt.X, Y: headerHeight + 20}
	}

	connectors := gantt.BuildConnectors(gantt.Inputs{
		Dependencies:   opts.Project.Dependencies,
		Contributors:   contributorsByMilestone(opts.Project.Milestones),
		Required:       requiredByItem(opts.Project.WorkItems),
		CriticalSet:    opts.Schedule.CriticalSet,
		CriticalOrder:  opts.Schedule.CriticalOrder,
		Geometry:       geo,
		Titles:         opts.Project.TitleMap(),
		MilestoneNames: opts.Project.MilestoneNames(),
	})

	width, height := gantt.CanvasSize(opts.Project.WorkItems, opts.Project.Milestones, lo)
	if width < 760 {
		width = 760
	}

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = opts.Project.Name
	}
	if strings.TrimSpace(title) == "" {
		title = "Gantt Snapshot"
	}

	return snapshotLayout{
		Geometry:   geo,
		Connectors: connectors,
		Items:      opts.Project.WorkItems,
		Milestones: opts.Project.Milestones,
		Width:      width,
		Height:     height,
		Header:     headerHeight,
		Summary: summaryInfo{
			Title:         title,
			ItemCount:     len(opts.Project.WorkItems),
			ConnCount:     len(connectors),
			CriticalCount: len(opts.Schedule.CriticalOrder),
			Makespan:      opts.Schedule.TotalDuration,
		},
	}
}

func contributorsByMilestone(milestones []model.Milestone) map[int][]string {
	m := make(map[int][]string, len(milestones))
	for _, ms := range milestones {
		if len(ms.Contributors) > 0 {
			m[ms.ID] = ms.Contributors
		}
	}
	return m
}

func requiredByItem(items []model.WorkItem) map[string][]int {
	m := make(map[string][]int)
	for _, it := range items {
		if len(it.RequiredMilestones) > 0 {
			m[it.ID] = it.RequiredMilestones
		}
	}
	return m
}

// --- rendering -------------------------------------------------------------

var (
	colorPlanned   = color.RGBA{0xc8, 0xe6, 0xc9, 0xff}
	colorBlocked   = color.RGBA{0xff, 0xcd, 0xd2, 0xff}
	colorInProg    = color.RGBA{0xff, 0xf3, 0xe0, 0xff}
	colorDone      = color.RGBA{0xcf, 0xd8, 0xdc, 0xff}
	colorStroke    = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorEdge      = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorCritical  = color.RGBA{0xe0, 0x52, 0x52, 0xff}
	colorMilestone = color.RGBA{0x8a, 0x63, 0xc9, 0xff}
	colorText      = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle    = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop  = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG  = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorLegendBG  = color.RGBA{0xee, 0xee, 0xee, 0xff}
)

func statusColor(s model.Status) color.RGBA {
	switch s {
	case model.StatusDone, model.StatusCancelled:
		return colorDone
	case model.StatusBlocked:
		return colorBlocked
	case model.StatusInProgress:
		return colorInProg
	default:
		return colorPlanned
	}
}

func connectorColor(c gantt.Connector) color.RGBA {
	switch {
	case c.Role == gantt.RoleMilestoneContribution, c.Role == gantt.RoleMilestoneRequirement:
		return colorMilestone
	case c.IsCritical:
		return colorCritical
	default:
		return colorEdge
	}
}

func renderPNG(opts GanttSnapshotOptions, layout snapshotLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	// header
	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, layout.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	drawSummaryBlock(dc, layout)
	drawLegend(dc, layout)

	// connectors first so bars sit on top of elbow segments
	for _, c := range layout.Connectors {
		col := connectorColor(c)
		dc.SetColor(col)
		width := 1.6
		if c.IsCritical {
			width = 2.2
		}
		dc.SetLineWidth(width)
		dc.DrawLine(c.From.X, c.From.Y, c.To.X, c.To.Y)
		dc.Stroke()
		drawArrow(dc, c.From, c.To, col)
	}

	for _, it := range layout.Items {
		drawBar(dc, layout, it)
	}
	for _, ms := range layout.Milestones {
		drawMilestone(dc, layout, ms)
	}

	return dc.SavePNG(opts.Path)
}

func renderSVG(opts GanttSnapshotOptions, layout snapshotLayout) error {
	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, layout)
}

func renderSVGToWriter(w io.Writer, layout snapshotLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(layout.Header-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	drawSummaryBlockSVG(canvas, layout)
	drawLegendSVG(canvas, layout)

	for _, it := range layout.Items {
		bar, ok := layout.Geometry.Bar(it.ID)
		if !ok {
			continue
		}
		rowH := int(layout.Geometry.RowHeight)
		x := int(bar.X)
		y := int(layout.Geometry.RowCenterY(bar.RowIndex) - layout.Geometry.RowHeight/2)
		canvas.Roundrect(x, y, int(bar.Width), rowH, 4, 4,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(statusColor(it.Status)), css(colorStroke)))
		canvas.Text(x+6, y+rowH/2+4, truncate(it.Title, 40),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorText)))
	}

	for _, ms := range layout.Milestones {
		pt, ok := layout.Geometry.MilestonePoint(ms.ID)
		if !ok {
			continue
		}
		drawDiamondSVG(canvas, pt, 7, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorMilestone), css(colorStroke)))
		canvas.Text(int(pt.X)+12, int(pt.Y)+4, truncate(ms.Name, 30),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle)))
	}

	// The interactive connector layer handles arrows, filters, and ARIA
	// attributes for both the snapshot and the viewer.
	overlay := gantt.BuildOverlay(layout.Connectors, true, nil, gantt.DefaultColors())
	gantt.RenderSVGLayer(canvas, overlay)

	canvas.End()
	return nil
}

func drawBar(dc *gg.Context, layout snapshotLayout, it model.WorkItem) {
	bar, ok := layout.Geometry.Bar(it.ID)
	if !ok {
		return
	}
	y := layout.Geometry.RowCenterY(bar.RowIndex) - layout.Geometry.RowHeight/2
	dc.SetColor(statusColor(it.Status))
	dc.DrawRoundedRectangle(bar.X, y, bar.Width, layout.Geometry.RowHeight, 4)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(bar.X, y, bar.Width, layout.Geometry.RowHeight, 4)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored(truncate(it.Title, 40), bar.X+6, y+layout.Geometry.RowHeight/2, 0, 0.5)
}

func drawMilestone(dc *gg.Context, layout snapshotLayout, ms model.Milestone) {
	pt, ok := layout.Geometry.MilestonePoint(ms.ID)
	if !ok {
		return
	}
	dc.SetColor(colorMilestone)
	dc.NewSubPath()
	dc.MoveTo(pt.X, pt.Y-7)
	dc.LineTo(pt.X+7, pt.Y)
	dc.LineTo(pt.X, pt.Y+7)
	dc.LineTo(pt.X-7, pt.Y)
	dc.ClosePath()
	dc.Fill()

	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(truncate(ms.Name, 30), pt.X+12, pt.Y, 0, 0.5)
}

func drawArrow(dc *gg.Context, from, to gantt.Point, col color.RGBA) {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	const size = 7.0
	dc.SetColor(col)
	dc.NewSubPath()
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-size*math.Cos(angle-0.4), to.Y-size*math.Sin(angle-0.4))
	dc.LineTo(to.X-size*math.Cos(angle+0.4), to.Y-size*math.Sin(angle+0.4))
	dc.ClosePath()
	dc.Fill()
}

func drawDiamondSVG(canvas *svg.SVG, pt gantt.Point, r int, style string) {
	x := int(pt.X)
	y := int(pt.Y)
	canvas.Polygon(
		[]int{x, x + r, x, x - r},
		[]int{y - r, y, y + r, y},
		style,
	)
}

func drawSummaryBlock(dc *gg.Context, layout snapshotLayout) {
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Summary.Title, 32, 44, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("work items: %d  connectors: %d", layout.Summary.ItemCount, layout.Summary.ConnCount), 32, 64, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("critical path: %d items, %d days", layout.Summary.CriticalCount, layout.Summary.Makespan), 32, 84, 0, 0.5)
}

func drawLegend(dc *gg.Context, layout snapshotLayout) {
	boxW := 200.0
	boxH := 96.0
	x := float64(layout.Width) - boxW - 20
	y := 24.0
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored("Legend", x+12, y+18, 0, 0.5)
	drawLegendRow(dc, x+12, y+36, colorEdge, "Dependency")
	drawLegendRow(dc, x+12, y+52, colorCritical, "Critical path")
	drawLegendRow(dc, x+12, y+68, colorMilestone, "Milestone link")
	drawLegendRow(dc, x+12, y+84, colorDone, "Done / Cancelled")
}

func drawLegendRow(dc *gg.Context, x, y float64, c color.RGBA, label string) {
	dc.SetColor(c)
	dc.DrawRoundedRectangle(x, y-8, 14, 14, 3)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y-8, 14, 14, 3)
	dc.Stroke()
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(label, x+20, y, 0, 0.5)
}

func drawSummaryBlockSVG(canvas *svg.SVG, layout snapshotLayout) {
	canvas.Text(32, 44, layout.Summary.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 64, fmt.Sprintf("work items: %d  connectors: %d", layout.Summary.ItemCount, layout.Summary.ConnCount),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	canvas.Text(32, 84, fmt.Sprintf("critical path: %d items, %d days", layout.Summary.CriticalCount, layout.Summary.Makespan),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
}

func drawLegendSVG(canvas *svg.SVG, layout snapshotLayout) {
	boxW := 200
	boxH := 96
	x := layout.Width - boxW - 20
	y := 24
	canvas.Roundrect(x, y, boxW, boxH, 10, 10, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorLegendBG), css(colorStroke)))
	canvas.Text(x+12, y+18, "Legend", fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	drawLegendRowSVG(canvas, x+12, y+36, colorEdge, "Dependency")
	drawLegendRowSVG(canvas, x+12, y+52, colorCritical, "Critical path")
	drawLegendRowSVG(canvas, x+12, y+68, colorMilestone, "Milestone link")
	drawLegendRowSVG(canvas, x+12, y+84, colorDone, "Done / Cancelled")
}

func drawLegendRowSVG(canvas *svg.SVG, x, y int, c color.RGBA, label string) {
	canvas.Roundrect(x, y-8, 14, 14, 3, 3, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(c), css(colorStroke)))
	canvas.Text(x+20, y, label, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
