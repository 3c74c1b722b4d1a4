package layout

import (
	"fmt"

	"seehuhn.de/go/geom/rect"
)

// Zone is a rectangle on the page, origin at the top-left.
type Zone struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// PDFRect converts the zone to PDF user space, where the origin is the
// bottom-left corner of a page of height pageH.
func (z Zone) PDFRect(pageH float64) rect.Rect {
	return rect.Rect{LLx: z.X, LLy: pageH - z.Y - z.H, URx: z.X + z.W, URy: pageH - z.Y}
}

// ZoneFromPDF is the inverse of PDFRect.
func ZoneFromPDF(r rect.Rect, pageH float64) Zone {
	return Zone{X: r.LLx, Y: pageH - r.URy, W: r.Dx(), H: r.Dy()}
}

func (z Zone) String() string {
	return fmt.Sprintf("%gx%g+%g+%g", z.W, z.H, z.X, z.Y)
}

// BlockKind tells headers from items.
type BlockKind int

const (
	BlockHeader BlockKind = iota
	BlockItem
)

func (k BlockKind) String() string {
	if k == BlockHeader {
		return "header"
	}
	return "item"
}

// MarshalText implements encoding.TextMarshaler.
func (k BlockKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *BlockKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "header":
		*k = BlockHeader
	case "item":
		*k = BlockItem
	default:
		return fmt.Errorf("unknown block kind %q", b)
	}
	return nil
}

// Block is one positioned line of a flowed index.
type Block struct {
	Kind     BlockKind `json:"kind"`
	Text     string    `json:"text"`
	Location string    `json:"location,omitempty"`
	Column   int       `json:"column"`
	Zone
}

// Area is where and how an index is drawn. Page, PageLabel and Blocks are
// set by Flow only.
type Area struct {
	Zone
	Columns   int     `json:"columns"`
	Style     Style   `json:"style"`
	Page      int     `json:"page,omitempty"`
	PageLabel string  `json:"page_label,omitempty"`
	Blocks    []Block `json:"blocks,omitempty"`
}

func (a Area) String() string {
	return fmt.Sprintf("Area(%s, %s, columns=%d)", a.Style, a.Zone, a.Columns)
}
