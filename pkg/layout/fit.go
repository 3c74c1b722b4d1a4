package layout

import (
	"math"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/index"
)

// Freedom is the zone dimension Fit may shrink.
type Freedom int

const (
	FreeHeight Freedom = iota
	FreeWidth
)

func (f Freedom) String() string {
	if f == FreeWidth {
		return "width"
	}
	return "height"
}

// Align is the zone side an index sticks to when it does not use all of
// the free dimension.
type Align int

const (
	AlignTop Align = iota
	AlignBottom
	AlignLeft
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignBottom:
		return "bottom"
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	}
	return "top"
}

// Location column padding, in ems: one em gap plus room for a reference
// as wide as "Z99-Z99".
const (
	labelPadEm  = 1 + 7
	headerPadEm = 2
)

// column is the single tall column holding the whole index.
type column struct {
	width  float64
	height float64
	// extra is reserved under each column so a header and a label never
	// overflow it.
	extra float64
}

func measureColumn(cats []index.Category, style Style, m Measurer) (column, error) {
	var labels, names []string
	for _, c := range cats {
		names = append(names, c.Name)
		labels = append(labels, c.Labels()...)
	}
	lb, err := measureLines(m, style.Label, labelPadEm, labels)
	if err != nil {
		return column{}, err
	}
	hb, err := measureLines(m, style.Header, headerPadEm, names)
	if err != nil {
		return column{}, err
	}
	return column{
		width:  max(lb.width, hb.width),
		height: lb.height + hb.height,
		extra:  lb.metrics.Height + hb.metrics.Height + lb.metrics.Em,
	}, nil
}

// split returns the column count and the required size along the free
// dimension, or ok=false when the tall column cannot be split to fit.
func (c column) split(w, h float64, freedom Freedom) (n int, size float64, ok bool) {
	if w < c.width {
		return 0, 0, false
	}
	switch freedom {
	case FreeHeight:
		n = int(math.Floor(w / c.width))
		if n <= 0 {
			return 0, 0, false
		}
		size = math.Ceil((c.height + float64(n)*c.extra) / float64(n))
		return n, size, size <= h
	case FreeWidth:
		n = int(math.Ceil(c.height / h))
		size = float64(n) * c.width
		if size > w || c.height+float64(n)*c.extra > float64(n)*h {
			return 0, 0, false
		}
		return n, size, true
	}
	return 0, 0, false
}

// BestStyle returns the index of the first style accepted by fits, or -1.
// Styles are expected largest first, so the result is the largest
// fitting one.
func BestStyle(styles []Style, fits func(Style) (bool, error)) (int, error) {
	for i, s := range styles {
		ok, err := fits(s)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

// Fit finds the largest style at which cats fit in zone, shrinking the
// free dimension to what the columns need and aligning the result to one
// side. Height freedom pairs with top or bottom alignment, width freedom
// with left or right.
func Fit(cats []index.Category, zone Zone, freedom Freedom, align Align, styles []Style, m Measurer) (Area, error) {
	if (freedom == FreeHeight && align != AlignTop && align != AlignBottom) ||
		(freedom == FreeWidth && align != AlignLeft && align != AlignRight) {
		return Area{}, errors.New(errors.ErrCodeInvalidInput, "alignment %s does not match %s freedom", align, freedom)
	}
	if zone.W <= 0 || zone.H <= 0 {
		return Area{}, errors.New(errors.ErrCodeInvalidInput, "index zone %s is empty", zone)
	}
	if len(cats) == 0 {
		return Area{}, errors.New(errors.ErrCodeIndexEmpty, "index has no categories")
	}

	var (
		cols int
		size float64
	)
	best, err := BestStyle(styles, func(s Style) (bool, error) {
		c, err := measureColumn(cats, s, m)
		if err != nil {
			return false, err
		}
		n, sz, ok := c.split(zone.W, zone.H, freedom)
		if ok {
			cols, size = n, sz
		}
		return ok, nil
	})
	if err != nil {
		return Area{}, errors.Wrap(errors.ErrCodeInternal, err, "measure index")
	}
	if best < 0 {
		return Area{}, errors.New(errors.ErrCodeIndexDoesNotFit, "index does not fit in %s", zone)
	}

	area := Area{Zone: zone, Columns: cols, Style: styles[best]}
	if freedom == FreeHeight {
		area.H = size
	} else {
		area.W = size
	}
	switch align {
	case AlignBottom:
		area.Y += zone.H - area.H
	case AlignRight:
		area.X += zone.W - area.W
	}
	return area, nil
}
