package layout

import (
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/index"
)

// monoMeasurer sets every rune half an em wide and lines one size high.
type monoMeasurer struct{}

func (monoMeasurer) Width(f FontSpec, s string) (float64, error) {
	return float64(utf8.RuneCountInString(s)) * f.Size / 2, nil
}

func (monoMeasurer) Metrics(f FontSpec) (Metrics, error) {
	return Metrics{Ascent: f.Size * 0.8, Height: f.Size, Em: f.Size / 2}, nil
}

// streets returns one category of n nine-rune labels.
func streets(n int) []index.Category {
	cat := index.Category{Name: "A", IsStreet: true}
	for i := range n {
		cat.Items = append(cat.Items, index.Item{Label: fmt.Sprintf("Street %02d", i), Location: "A1"})
	}
	return []index.Category{cat}
}

func evenStyles(sizes ...float64) []Style {
	var out []Style
	for _, s := range sizes {
		out = append(out, NewStyle(s, s))
	}
	return out
}

func TestDefaultStyles(t *testing.T) {
	styles := DefaultStyles()
	if len(styles) != 11 {
		t.Fatalf("len(DefaultStyles()) = %d, want 11", len(styles))
	}
	if styles[0].Header.Size != 16 || styles[0].Label.Size != 12 {
		t.Errorf("DefaultStyles()[0] = %s, want 16/12", styles[0])
	}
	for i := 1; i < len(styles); i++ {
		if styles[i].Label.Size > styles[i-1].Label.Size {
			t.Errorf("DefaultStyles() not decreasing at %d: %s after %s", i, styles[i], styles[i-1])
		}
	}
	if !styles[0].Header.Bold || styles[0].Label.Bold {
		t.Errorf("DefaultStyles()[0] = %s, want bold header and regular label", styles[0])
	}
}

func TestFitOnlySmallestTier(t *testing.T) {
	// 80 items: tall column is 81 lines of 8.5 ems wide.
	cats := streets(80)
	zone := Zone{X: 10, Y: 20, W: 200, H: 300}
	styles := evenStyles(12, 8, 4)

	got, err := Fit(cats, zone, FreeHeight, AlignBottom, styles, monoMeasurer{})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	// At 4pt: width 34, floor(200/34) = 5 columns,
	// height ceil((81*4 + 5*10) / 5) = 75.
	want := Area{Zone: Zone{X: 10, Y: 20 + 300 - 75, W: 200, H: 75}, Columns: 5, Style: styles[2]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fit() mismatch (-want +got):\n%s", diff)
	}
}

func TestFitWidthFreedom(t *testing.T) {
	cats := streets(80)
	zone := Zone{X: 0, Y: 0, W: 200, H: 300}

	got, err := Fit(cats, zone, FreeWidth, AlignRight, evenStyles(12, 8, 4), monoMeasurer{})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	// 12pt: 972/300 needs 4 columns of 102. 8pt: 648/300 needs 3 columns
	// of 68 = 204 > 200. 4pt: 2 columns of 34.
	if got.Columns != 2 || got.W != 68 || got.X != 132 || got.H != 300 {
		t.Errorf("Fit() = %s at x=%v, want 2 columns of width 68 at x=132", got, got.X)
	}
	if got.Style.Label.Size != 4 {
		t.Errorf("Fit() style = %s, want 4pt", got.Style)
	}
}

func TestFitLargestWins(t *testing.T) {
	got, err := Fit(streets(5), Zone{W: 400, H: 400}, FreeHeight, AlignTop, DefaultStyles(), monoMeasurer{})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if got.Style != DefaultStyles()[0] {
		t.Errorf("Fit() style = %s, want the largest tier", got.Style)
	}
	if got.Y != 0 {
		t.Errorf("Fit() top aligned Y = %v, want 0", got.Y)
	}
}

func TestFitErrors(t *testing.T) {
	tests := []struct {
		name    string
		cats    []index.Category
		zone    Zone
		freedom Freedom
		align   Align
		code    errors.Code
	}{
		{"empty", nil, Zone{W: 100, H: 100}, FreeHeight, AlignTop, errors.ErrCodeIndexEmpty},
		{"too small", streets(500), Zone{W: 10, H: 10}, FreeHeight, AlignTop, errors.ErrCodeIndexDoesNotFit},
		{"bad alignment", streets(1), Zone{W: 100, H: 100}, FreeHeight, AlignLeft, errors.ErrCodeInvalidInput},
		{"bad alignment width", streets(1), Zone{W: 100, H: 100}, FreeWidth, AlignBottom, errors.ErrCodeInvalidInput},
		{"empty zone", streets(1), Zone{W: 0, H: 100}, FreeWidth, AlignLeft, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.cats, tt.zone, tt.freedom, tt.align, DefaultStyles(), monoMeasurer{})
			if !errors.Is(err, tt.code) {
				t.Errorf("Fit() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBestStyle(t *testing.T) {
	styles := DefaultStyles()
	got, err := BestStyle(styles, func(s Style) (bool, error) { return s.Label.Size <= 7, nil })
	if err != nil {
		t.Fatalf("BestStyle() error = %v", err)
	}
	if got != 3 {
		t.Errorf("BestStyle(<=7) = %d, want 3", got)
	}
	got, _ = BestStyle(styles, func(Style) (bool, error) { return false, nil })
	if got != -1 {
		t.Errorf("BestStyle(never) = %d, want -1", got)
	}
}

func TestFlowPaging(t *testing.T) {
	// Column width: 45 label + 10 location + 2 ems of 5 = 65; 160/65
	// gives 2 columns of 80. Usable height is 100 - 20 = 80.
	opts := FlowOptions{Style: NewStyle(10, 10), PageNumberMargin: 20, FirstPage: 41}
	pages, err := Flow(streets(30), Zone{X: 5, Y: 7, W: 160, H: 100}, monoMeasurer{}, opts)
	if err != nil {
		t.Fatalf("Flow() error = %v", err)
	}

	// Column 0: y starts at 2.5; header then 6 items end at 72.5. An item
	// needs y <= 67.5, so column 0 holds header + 6 items, later columns
	// 7 items each. 1+6 = 7 lines, then 30-6 = 24 items over columns of
	// 7: 4 more columns, 5 columns over 3 pages.
	if len(pages) != 3 {
		t.Fatalf("Flow() pages = %d, want 3", len(pages))
	}
	for k, p := range pages {
		if p.Page != 41+k {
			t.Errorf("page %d number = %d, want %d", k, p.Page, 41+k)
		}
		if p.PageLabel != PageLabel(k) {
			t.Errorf("page %d label = %q, want %q", k, p.PageLabel, PageLabel(k))
		}
		if p.Columns != 2 {
			t.Errorf("page %d columns = %d, want 2", k, p.Columns)
		}
	}

	first := pages[0].Blocks
	if first[0].Kind != BlockHeader || first[0].Text != "A" {
		t.Errorf("first block = %+v, want header A", first[0])
	}
	if first[0].X != 5+2.5 || first[0].Y != 7+2.5 {
		t.Errorf("first block at (%v, %v), want (7.5, 9.5)", first[0].X, first[0].Y)
	}
	if b := first[7]; b.Column != 1 || b.X != 5+80+2.5 || b.Y != 7+2.5 {
		t.Errorf("block 7 = %+v, want first line of column 1", b)
	}

	total := 0
	for _, p := range pages {
		for _, b := range p.Blocks {
			if b.Kind == BlockItem {
				total++
			}
		}
	}
	if total != 30 {
		t.Errorf("Flow() placed %d items, want 30", total)
	}
}

func TestFlowRTL(t *testing.T) {
	opts := FlowOptions{Style: NewStyle(10, 10), PageNumberMargin: 20, RTL: true}
	pages, err := Flow(streets(3), Zone{W: 160, H: 100}, monoMeasurer{}, opts)
	if err != nil {
		t.Fatalf("Flow() error = %v", err)
	}
	if x := pages[0].Blocks[0].X; x != 80+2.5 {
		t.Errorf("RTL first column x = %v, want 82.5", x)
	}
}

func TestFlowHeaderNotAlone(t *testing.T) {
	cats := []index.Category{
		{Name: "A", Items: streets(6)[0].Items},
		{Name: "B", Items: streets(2)[0].Items},
	}
	opts := FlowOptions{Style: NewStyle(10, 10), PageNumberMargin: 20}
	pages, err := Flow(cats, Zone{W: 160, H: 100}, monoMeasurer{}, opts)
	if err != nil {
		t.Fatalf("Flow() error = %v", err)
	}
	// Column 0 ends at 72.5 after A and 6 items; B cannot fit with an
	// item, so it opens column 1.
	for _, b := range pages[0].Blocks {
		if b.Kind == BlockHeader && b.Text == "B" && b.Column != 1 {
			t.Errorf("header B in column %d, want 1", b.Column)
		}
	}
}

func TestFlowHeaderOnly(t *testing.T) {
	cats := []index.Category{{Name: "Amenities"}, {Name: "Villages"}}
	opts := FlowOptions{Style: NewStyle(10, 10), PageNumberMargin: 20}
	pages, err := Flow(cats, Zone{W: 160, H: 100}, monoMeasurer{}, opts)
	if err != nil {
		t.Fatalf("Flow() error = %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("Flow() pages = %d, want 1", len(pages))
	}
	var got []string
	for _, b := range pages[0].Blocks {
		if b.Kind != BlockHeader {
			t.Errorf("block %+v, want only headers", b)
		}
		got = append(got, b.Text)
	}
	if diff := cmp.Diff([]string{"Amenities", "Villages"}, got); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestFlowBlankLabels(t *testing.T) {
	cats := []index.Category{{Name: "A", Items: []index.Item{{Label: "", Location: "B2"}}}}
	opts := FlowOptions{Style: NewStyle(10, 10), PageNumberMargin: 20}
	pages, err := Flow(cats, Zone{W: 160, H: 100}, monoMeasurer{}, opts)
	if err != nil {
		t.Fatalf("Flow() error = %v", err)
	}
	blocks := pages[0].Blocks
	if len(blocks) != 2 || blocks[1].Kind != BlockItem || blocks[1].Location != "B2" {
		t.Errorf("Flow() blocks = %+v, want header then item at B2", blocks)
	}
}

func TestFlowErrors(t *testing.T) {
	if _, err := Flow(nil, Zone{W: 100, H: 100}, monoMeasurer{}, FlowOptions{}); !errors.Is(err, errors.ErrCodeIndexEmpty) {
		t.Errorf("Flow(nil) error = %v, want INDEX_EMPTY", err)
	}
	unnamed := []index.Category{{}, {}}
	if _, err := Flow(unnamed, Zone{W: 100, H: 100}, monoMeasurer{}, FlowOptions{}); !errors.Is(err, errors.ErrCodeIndexEmpty) {
		t.Errorf("Flow(unnamed empty categories) error = %v, want INDEX_EMPTY", err)
	}
	if _, err := Flow(streets(1), Zone{}, monoMeasurer{}, FlowOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Flow(empty zone) error = %v, want INVALID_INPUT", err)
	}
}

func TestZonePDFRect(t *testing.T) {
	z := Zone{X: 10, Y: 20, W: 100, H: 50}
	r := z.PDFRect(842)
	if r.LLx != 10 || r.URx != 110 || r.URy != 822 || r.LLy != 772 {
		t.Errorf("PDFRect() = %+v", r)
	}
	if back := ZoneFromPDF(r, 842); back != z {
		t.Errorf("ZoneFromPDF(PDFRect()) = %v, want %v", back, z)
	}
}

func TestFaceMeasurer(t *testing.T) {
	var m FaceMeasurer
	f := FontSpec{Size: 10}
	met, err := m.Metrics(f)
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if met.Em <= 0 || met.Height <= met.Ascent {
		t.Errorf("Metrics() = %+v, want positive em and height above ascent", met)
	}
	got, err := Fit(streets(20), Zone{W: 300, H: 600}, FreeHeight, AlignTop, DefaultStyles(), m)
	if err != nil {
		t.Fatalf("Fit(FaceMeasurer) error = %v", err)
	}
	if got.Columns < 1 || got.H > 600 {
		t.Errorf("Fit(FaceMeasurer) = %s", got)
	}
}
