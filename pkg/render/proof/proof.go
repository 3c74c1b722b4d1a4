package proof

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/pi-bie/ocitysmap/pkg/buildinfo"
	"github.com/pi-bie/ocitysmap/pkg/fonts"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/grid"
	"github.com/pi-bie/ocitysmap/pkg/layout"
	"github.com/pi-bie/ocitysmap/pkg/paging"
	"github.com/pi-bie/ocitysmap/pkg/pipeline"
)

// Option configures proof rendering.
type Option func(*renderer)

// WithFontFamily sets the embedded family used for decorations. Index
// blocks keep the family of their style.
func WithFontFamily(family string) Option {
	return func(r *renderer) { r.family = family }
}

// WithCreationDate stamps the document with t instead of the current time.
func WithCreationDate(t time.Time) Option {
	return func(r *renderer) { r.created = t }
}

// WithoutCompression leaves page streams uncompressed.
func WithoutCompression() Option {
	return func(r *renderer) { r.compress = false }
}

type renderer struct {
	family   string
	created  time.Time
	compress bool

	plan *pipeline.Plan
	pdf  *fpdf.Fpdf
	w, h float64
}

// Margin is the print-safe border around every page, in points.
const Margin = pipeline.PrintSafeMarginPt

const (
	footerSize = 8
	titleSize  = 24
	labelSize  = 7
)

// Render draws plan as a PDF proof on w.
func Render(plan *pipeline.Plan, w io.Writer, opts ...Option) error {
	r, err := newRenderer(plan, opts...)
	if err != nil {
		return err
	}
	r.draw()
	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("write proof: %w", err)
	}
	return nil
}

// WriteFile renders plan into the file at path.
func WriteFile(plan *pipeline.Plan, path string, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(plan, f, opts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newRenderer(plan *pipeline.Plan, opts ...Option) (*renderer, error) {
	if plan == nil {
		return nil, fmt.Errorf("proof: nil plan")
	}
	if err := plan.Paper.Validate(); err != nil {
		return nil, err
	}
	if w, h := plan.Paper.Usable(Margin); w <= 0 || h <= 0 {
		return nil, fmt.Errorf("proof: paper %s leaves no room inside the margins", plan.Paper)
	}
	r := &renderer{
		family:   fonts.DefaultFamily,
		created:  time.Now(),
		compress: true,
		plan:     plan,
		w:        plan.Paper.WidthPt(),
		h:        plan.Paper.HeightPt(),
	}
	for _, opt := range opts {
		opt(r)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: r.w, Ht: r.h},
	})
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(r.created)
	pdf.SetCreator(buildinfo.Producer(), true)
	pdf.SetTitle(plan.Title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	for _, family := range fonts.Families() {
		pdf.AddUTF8FontFromBytes(family, "", fonts.TTF(family, false))
		pdf.AddUTF8FontFromBytes(family, "B", fonts.TTF(family, true))
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	r.pdf = pdf
	return r, nil
}

// =============================================================================
// Pages
// =============================================================================

func (r *renderer) draw() {
	for _, fp := range r.plan.FrontMatter {
		r.pdf.AddPage()
		switch fp.Kind {
		case pipeline.FrontCover:
			r.cover()
		case pipeline.FrontContents:
			r.contents()
		case pipeline.FrontOverview:
			r.overview(fp)
		}
		r.footer(fp.Label, "")
	}

	for _, mp := range r.plan.Pages {
		r.pdf.AddPage()
		if r.plan.Single != nil {
			r.single(mp)
			continue
		}
		r.mapPage(mp)
		r.footer(strconv.Itoa(mp.Number), NeighborsText(mp.Neighbors))
	}

	for _, area := range r.plan.IndexPages {
		r.pdf.AddPage()
		r.area(area)
		r.footer(strconv.Itoa(area.Page), "")
	}
}

func (r *renderer) cover() {
	title := r.plan.Title
	if title == "" {
		title = "Untitled"
	}
	r.pdf.SetTextColor(0, 0, 0)
	r.font(true, titleSize)
	r.centered(title, r.h/3)
	r.font(false, 12)
	r.centered(fmt.Sprintf("%s, %s", r.plan.Mode, r.plan.Paper), r.h/3+2*titleSize)
	r.centered(fmt.Sprintf("1:%d", int(r.plan.Scale)), r.h/3+2*titleSize+18)
}

func (r *renderer) contents() {
	r.font(true, 16)
	r.pdf.Text(Margin, Margin+16, "Contents")
	r.font(false, 10)
	y := Margin + 40
	line := func(label, page string) {
		if y > r.h-2*Margin {
			return
		}
		r.pdf.Text(Margin, y, label)
		r.pdf.Text(r.w-Margin-r.pdf.GetStringWidth(page), y, page)
		y += 14
	}
	for _, mp := range r.plan.Pages {
		line(mp.Label, strconv.Itoa(mp.Number))
	}
	for _, a := range r.plan.IndexPages {
		line(a.PageLabel, strconv.Itoa(a.Page))
	}
}

// overview draws every visible page frame over the covered area.
func (r *renderer) overview(fp pipeline.FrontPage) {
	if fp.BBox == nil || r.plan.Pagination == nil {
		return
	}
	zone := fitZone(*fp.BBox, layout.Zone{X: Margin, Y: Margin, W: r.w - 2*Margin, H: r.h - 3*Margin})
	p := newProjector(*fp.BBox, zone)

	r.pdf.SetDrawColor(0, 0, 0)
	r.pdf.SetLineWidth(0.5)
	r.rect(zone, "D")
	r.font(false, labelSize*2)
	for _, pg := range r.plan.Pagination.Pages() {
		z := p.box(pg.Inner)
		r.rect(z, "D")
		label := strconv.Itoa(pg.Number)
		r.pdf.Text(z.X+(z.W-r.pdf.GetStringWidth(label))/2, z.Y+z.H/2, label)
	}
}

func (r *renderer) mapPage(mp pipeline.MapPage) {
	p := newProjector(mp.Outer, mp.Map)
	r.shade(mp.Map, p.box(mp.Inner))
	r.grid(mp.Grid, p)
	r.pdf.SetDrawColor(0, 0, 0)
	r.pdf.SetLineWidth(1)
	r.rect(mp.Map, "D")
}

func (r *renderer) single(mp pipeline.MapPage) {
	s := r.plan.Single
	if s.Title.H > 0 {
		r.font(true, s.Title.H*0.6)
		r.centered(r.plan.Title, s.Title.Y+s.Title.H*0.75)
	}

	p := newProjector(mp.Outer, s.Map)
	r.grid(mp.Grid, p)
	r.pdf.SetDrawColor(0, 0, 0)
	r.pdf.SetLineWidth(1)
	r.rect(s.Map, "D")

	if s.Index != nil {
		r.area(*s.Index)
	}

	if s.Copyright.H > 0 {
		r.font(false, min(footerSize, s.Copyright.H*0.6))
		r.pdf.SetTextColor(80, 80, 80)
		r.pdf.Text(s.Copyright.X, s.Copyright.Y+s.Copyright.H*0.7,
			fmt.Sprintf("1:%d, zoom %d. %s", int(r.plan.Scale), r.plan.Zoom, buildinfo.Producer()))
	}
}

// area draws the blocks of an index area.
func (r *renderer) area(a layout.Area) {
	r.pdf.SetDrawColor(200, 200, 200)
	r.pdf.SetLineWidth(0.25)
	r.rect(a.Zone, "D")
	r.pdf.SetTextColor(0, 0, 0)
	for _, b := range a.Blocks {
		spec := a.Style.Label
		if b.Kind == layout.BlockHeader {
			spec = a.Style.Header
		}
		r.setFont(spec)
		base := b.Y + baseline(spec, b.H)
		text, loc := b.Text, b.Location
		if r.plan.RTL {
			text, loc = loc, text
		}
		if b.Kind == layout.BlockHeader {
			r.pdf.SetFillColor(230, 230, 230)
			r.rect(b.Zone, "F")
			r.pdf.Text(b.X, base, b.Text)
			continue
		}
		if text != "" {
			r.pdf.Text(b.X, base, text)
		}
		if loc != "" {
			r.pdf.Text(b.X+b.W-r.pdf.GetStringWidth(loc), base, loc)
		}
	}
}

// =============================================================================
// Drawing helpers
// =============================================================================

func (r *renderer) grid(g *grid.Grid, p projector) {
	if g == nil {
		return
	}
	z := p.zone
	r.pdf.SetDrawColor(90, 90, 200)
	r.pdf.SetLineWidth(0.5)
	r.pdf.SetDashPattern([]float64{4, 2}, 0)
	xs := []float64{z.X}
	for _, lon := range g.VerticalLines {
		x := p.x(lon)
		if x <= z.X || x >= z.X+z.W {
			continue
		}
		r.pdf.Line(x, z.Y, x, z.Y+z.H)
		xs = append(xs, x)
	}
	ys := []float64{z.Y}
	for _, lat := range g.HorizontalLines {
		y := p.y(lat)
		if y <= z.Y || y >= z.Y+z.H {
			continue
		}
		r.pdf.Line(z.X, y, z.X+z.W, y)
		ys = append(ys, y)
	}
	r.pdf.SetDashPattern(nil, 0)
	xs = append(xs, z.X+z.W)
	ys = append(ys, z.Y+z.H)

	r.pdf.SetTextColor(90, 90, 200)
	r.font(true, labelSize)
	for i, label := range g.HorizontalLabels {
		if i+1 >= len(xs) {
			break
		}
		x := (xs[i] + xs[i+1] - r.pdf.GetStringWidth(label)) / 2
		r.pdf.Text(x, z.Y+labelSize, label)
		r.pdf.Text(x, z.Y+z.H-2, label)
	}
	for i, label := range g.VerticalLabels {
		if i+1 >= len(ys) {
			break
		}
		y := (ys[i] + ys[i+1] + labelSize) / 2
		r.pdf.Text(z.X+2, y, label)
		r.pdf.Text(z.X+z.W-2-r.pdf.GetStringWidth(label), y, label)
	}
	r.pdf.SetTextColor(0, 0, 0)
}

// shade grays the part of outer lying outside inner.
func (r *renderer) shade(outer, inner layout.Zone) {
	r.pdf.SetFillColor(220, 220, 220)
	r.pdf.SetAlpha(0.6, "Normal")
	right := inner.X + inner.W
	bottom := inner.Y + inner.H
	for _, z := range []layout.Zone{
		{X: outer.X, Y: outer.Y, W: outer.W, H: inner.Y - outer.Y},
		{X: outer.X, Y: bottom, W: outer.W, H: outer.Y + outer.H - bottom},
		{X: outer.X, Y: inner.Y, W: inner.X - outer.X, H: inner.H},
		{X: right, Y: inner.Y, W: outer.X + outer.W - right, H: inner.H},
	} {
		if z.W > 0 && z.H > 0 {
			r.rect(z, "F")
		}
	}
	r.pdf.SetAlpha(1, "Normal")
}

func (r *renderer) footer(label, extra string) {
	r.font(false, footerSize)
	r.pdf.SetTextColor(0, 0, 0)
	y := r.h - Margin/2
	r.pdf.Text(r.w-Margin-r.pdf.GetStringWidth(label), y, label)
	if extra != "" {
		r.pdf.Text(Margin, y, extra)
	}
}

func (r *renderer) centered(s string, y float64) {
	r.pdf.Text((r.w-r.pdf.GetStringWidth(s))/2, y, s)
}

func (r *renderer) rect(z layout.Zone, style string) {
	r.pdf.Rect(z.X, z.Y, z.W, z.H, style)
}

func (r *renderer) font(bold bool, size float64) {
	r.setFont(layout.FontSpec{Family: r.family, Bold: bold, Size: size})
}

func (r *renderer) setFont(f layout.FontSpec) {
	family := f.Family
	if family == "" {
		family = fonts.DefaultFamily
	}
	style := ""
	if f.Bold {
		style = "B"
	}
	r.pdf.SetFont(family, style, f.Size)
}

// baseline returns the offset of the baseline from the top of a line of
// height h set in f.
func baseline(f layout.FontSpec, h float64) float64 {
	m, err := fonts.LineMetrics(f.Family, f.Bold, f.Size)
	if err != nil || m.Ascent+m.Descent == 0 {
		return h * 0.8
	}
	return m.Ascent + (h-m.Ascent-m.Descent)/2
}

// NeighborsText lists the neighboring pages of a map page as "N 1  S 7",
// in north, south, west, east order.
func NeighborsText(n paging.Neighbors) string {
	var parts []string
	for _, d := range []struct {
		name string
		page int
	}{{"N", n.North}, {"S", n.South}, {"W", n.West}, {"E", n.East}} {
		if d.page != 0 {
			parts = append(parts, fmt.Sprintf("%s %d", d.name, d.page))
		}
	}
	return strings.Join(parts, "  ")
}

// =============================================================================
// Projection
// =============================================================================

// projector maps a bounding box linearly onto a zone, north up.
type projector struct {
	bbox geo.BoundingBox
	zone layout.Zone
}

func newProjector(bbox geo.BoundingBox, zone layout.Zone) projector {
	return projector{bbox: bbox, zone: zone}
}

func (p projector) x(lon float64) float64 {
	return p.zone.X + (lon-p.bbox.Left)/(p.bbox.Right-p.bbox.Left)*p.zone.W
}

func (p projector) y(lat float64) float64 {
	return p.zone.Y + (p.bbox.Top-lat)/(p.bbox.Top-p.bbox.Bottom)*p.zone.H
}

func (p projector) box(b geo.BoundingBox) layout.Zone {
	x0, x1 := p.x(b.Left), p.x(b.Right)
	y0, y1 := p.y(b.Top), p.y(b.Bottom)
	return layout.Zone{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// fitZone returns the largest zone inside z with the proportions of bbox,
// centered.
func fitZone(bbox geo.BoundingBox, z layout.Zone) layout.Zone {
	hM, wM := bbox.SphericSizes()
	if hM <= 0 || wM <= 0 {
		return z
	}
	ratio := wM / hM
	if z.W/z.H > ratio {
		w := z.H * ratio
		return layout.Zone{X: z.X + (z.W-w)/2, Y: z.Y, W: w, H: z.H}
	}
	h := z.W / ratio
	return layout.Zone{X: z.X, Y: z.Y + (z.H-h)/2, W: z.W, H: h}
}
