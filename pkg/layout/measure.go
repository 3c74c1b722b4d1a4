package layout

import (
	"github.com/pi-bie/ocitysmap/pkg/fonts"
)

// Metrics are the vertical metrics of a font, in points.
type Metrics struct {
	// Ascent is the distance from the top of a line to its baseline.
	Ascent float64
	// Height is ascent plus descent, the advance between lines.
	Height float64
	// Em is the approximate width of one character.
	Em float64
}

// Measurer measures text set in a font.
type Measurer interface {
	Width(f FontSpec, s string) (float64, error)
	Metrics(f FontSpec) (Metrics, error)
}

// FaceMeasurer measures with the embedded Go fonts.
type FaceMeasurer struct{}

var _ Measurer = FaceMeasurer{}

// Width returns the advance width of s.
func (FaceMeasurer) Width(f FontSpec, s string) (float64, error) {
	return fonts.Measure(f.Family, f.Bold, f.Size, s)
}

// Metrics returns the line metrics of f. The em is the advance of "m".
func (FaceMeasurer) Metrics(f FontSpec) (Metrics, error) {
	lm, err := fonts.LineMetrics(f.Family, f.Bold, f.Size)
	if err != nil {
		return Metrics{}, err
	}
	em, err := fonts.Measure(f.Family, f.Bold, f.Size, "m")
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{Ascent: lm.Ascent, Height: lm.Ascent + lm.Descent, Em: em}, nil
}

// block is the extent of a list of lines set in one font.
type block struct {
	width   float64
	height  float64
	metrics Metrics
}

// measureLines returns the widest line plus padEm ems, and the total
// height of the lines.
func measureLines(m Measurer, f FontSpec, padEm float64, lines []string) (block, error) {
	met, err := m.Metrics(f)
	if err != nil {
		return block{}, err
	}
	widest := 0.0
	for _, l := range lines {
		w, err := m.Width(f, l)
		if err != nil {
			return block{}, err
		}
		widest = max(widest, w)
	}
	return block{
		width:   widest + padEm*met.Em,
		height:  met.Height * float64(len(lines)),
		metrics: met,
	}, nil
}
