package layout

import (
	"fmt"

	"github.com/pi-bie/ocitysmap/pkg/fonts"
)

// FontSpec names a font variant and size.
type FontSpec struct {
	Family string  `json:"family" toml:"family"`
	Bold   bool    `json:"bold,omitempty" toml:"bold"`
	Size   float64 `json:"size" toml:"size"`
}

// String renders the spec like "Go Bold 12".
func (f FontSpec) String() string {
	family := f.Family
	if family == "" {
		family = fonts.DefaultFamily
	}
	if f.Bold {
		return fmt.Sprintf("%s Bold %g", family, f.Size)
	}
	return fmt.Sprintf("%s %g", family, f.Size)
}

// Style is the pair of fonts an index is set in.
type Style struct {
	Header FontSpec `json:"header" toml:"header"`
	Label  FontSpec `json:"label" toml:"label"`
}

// NewStyle returns a style with a bold header of headerSize and regular
// labels of labelSize in the default family.
func NewStyle(headerSize, labelSize float64) Style {
	return Style{
		Header: FontSpec{Family: fonts.DefaultFamily, Bold: true, Size: headerSize},
		Label:  FontSpec{Family: fonts.DefaultFamily, Size: labelSize},
	}
}

// String renders the style like "Go Bold 12 / Go 8".
func (s Style) String() string { return s.Header.String() + " / " + s.Label.String() }

var defaultTiers = [...][2]float64{
	{16, 12}, {14, 10}, {12, 8}, {10, 7}, {8, 6}, {6, 5},
	{5, 4}, {4, 3}, {3, 2}, {2, 2}, {1, 1},
}

// DefaultStyles returns the tiers tried by Fit, largest first.
func DefaultStyles() []Style {
	out := make([]Style, len(defaultTiers))
	for i, t := range defaultTiers {
		out[i] = NewStyle(t[0], t[1])
	}
	return out
}

// DefaultFlowStyle is the style of multi-page indexes.
func DefaultFlowStyle() Style { return NewStyle(12, 6) }
