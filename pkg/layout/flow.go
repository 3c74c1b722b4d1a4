package layout

import (
	"fmt"
	"math"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/index"
)

// DefaultPageNumberMargin is kept free at the bottom of every index page
// for the page number, in points.
var DefaultPageNumberMargin = geo.MMToPt(10)

// FlowOptions configure Flow.
type FlowOptions struct {
	Style            Style
	PageNumberMargin float64
	// FirstPage is the number printed on the first index page.
	FirstPage int
	// RTL fills columns from right to left.
	RTL bool
}

// ValidateAndSetDefaults fills unset options.
func (o *FlowOptions) ValidateAndSetDefaults() error {
	if o.Style == (Style{}) {
		o.Style = DefaultFlowStyle()
	}
	if o.PageNumberMargin == 0 {
		o.PageNumberMargin = DefaultPageNumberMargin
	}
	if o.PageNumberMargin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "page number margin must not be negative: %v", o.PageNumberMargin)
	}
	if o.Style.Label.Size <= 0 || o.Style.Header.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font sizes must be positive: %s", o.Style)
	}
	return nil
}

// PageLabel returns the label of the k-th index page, counted from 0.
func PageLabel(k int) string { return fmt.Sprintf("Index page %d", k+1) }

// Flow pours cats into columns over as many pages of zone as needed. A
// header is moved to the next column when the current one cannot also
// hold its first item. Categories without items still get their header.
func Flow(cats []index.Category, zone Zone, m Measurer, opts FlowOptions) ([]Area, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if zone.W <= 0 || zone.H <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "index zone %s is empty", zone)
	}
	if len(cats) == 0 {
		return nil, errors.New(errors.ErrCodeIndexEmpty, "index has no categories")
	}

	hm, err := m.Metrics(opts.Style.Header)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "measure header font")
	}
	lm, err := m.Metrics(opts.Style.Label)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "measure label font")
	}

	var maxLabel, maxLoc, maxHeader float64
	var items int
	for _, c := range cats {
		w, err := m.Width(opts.Style.Header, c.Name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "measure header")
		}
		maxHeader = max(maxHeader, w)
		items += len(c.Items)
		for _, it := range c.Items {
			w, err := m.Width(opts.Style.Label, it.Label)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "measure label")
			}
			maxLabel = max(maxLabel, w)
			w, err = m.Width(opts.Style.Label, it.Location)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "measure location")
			}
			maxLoc = max(maxLoc, w)
		}
	}
	if items == 0 && maxHeader == 0 {
		return nil, errors.New(errors.ErrCodeIndexEmpty, "index has no items and no named categories")
	}

	margin := lm.Em
	maxH := zone.H - opts.PageNumberMargin
	cols := max(1, int(math.Floor(zone.W/(max(maxLabel+maxLoc, maxHeader)+2*margin))))
	colW := zone.W / float64(cols)

	f := &flow{zone: zone, opts: opts, cols: cols, colW: colW, margin: margin}
	f.newPage()

	for _, c := range cats {
		need := hm.Height
		if len(c.Items) > 0 {
			need += lm.Height
		}
		if f.y+need+margin/2 > maxH {
			f.nextColumn()
		}
		f.place(BlockHeader, c.Name, "", hm.Height)
		for _, it := range c.Items {
			if f.y+lm.Height+margin/2 > maxH {
				f.nextColumn()
			}
			f.place(BlockItem, it.Label, it.Location, lm.Height)
		}
	}
	return f.pages, nil
}

// flow is the cursor state of Flow.
type flow struct {
	zone   Zone
	opts   FlowOptions
	cols   int
	colW   float64
	margin float64

	pages []Area
	col   int
	y     float64
}

func (f *flow) newPage() {
	k := len(f.pages)
	f.pages = append(f.pages, Area{
		Zone:      f.zone,
		Columns:   f.cols,
		Style:     f.opts.Style,
		Page:      f.opts.FirstPage + k,
		PageLabel: PageLabel(k),
	})
	f.col = 0
	f.y = f.margin / 2
}

func (f *flow) nextColumn() {
	f.col++
	f.y = f.margin / 2
	if f.col == f.cols {
		f.newPage()
	}
}

func (f *flow) x() float64 {
	if f.opts.RTL {
		return f.zone.W - float64(f.col+1)*f.colW + f.margin/2
	}
	return float64(f.col)*f.colW + f.margin/2
}

func (f *flow) place(kind BlockKind, text, loc string, h float64) {
	page := &f.pages[len(f.pages)-1]
	page.Blocks = append(page.Blocks, Block{
		Kind:     kind,
		Text:     text,
		Location: loc,
		Column:   f.col,
		Zone: Zone{
			X: f.zone.X + f.x(),
			Y: f.zone.Y + f.y,
			W: f.colW - f.margin,
			H: h,
		},
	})
	f.y += h
}
