package paging

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
)

// Names of the computed paper entries of the single-page list.
const (
	BestFitPaper = "Best fit"
	CustomPaper  = "Custom"
)

// Paper is a named paper format in portrait orientation.
type Paper struct {
	Name     string  `json:"name"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

var paperPattern = regexp.MustCompile(`^\s*(\d+)\s*x\s*(\d+)\s*$`)

// ParsePaper reads a "<width>x<height>" size in millimeters.
func ParsePaper(name, value string) (Paper, error) {
	m := paperPattern.FindStringSubmatch(value)
	if m == nil {
		return Paper{}, errors.New(errors.ErrCodeInvalidPaper, "invalid paper size %q for format %q", value, name)
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	p := Paper{Name: name, WidthMM: float64(w), HeightMM: float64(h)}
	if err := p.Validate(); err != nil {
		return Paper{}, err
	}
	return p, nil
}

// DefaultPapers returns the formats used when none are configured.
func DefaultPapers() []Paper {
	return []Paper{
		{Name: "DinA4", WidthMM: 210, HeightMM: 297},
		{Name: "US_letter", WidthMM: 216, HeightMM: 279},
	}
}

// Validate checks the paper dimensions.
func (p Paper) Validate() error {
	return errors.ValidatePaperSize(p.WidthMM, p.HeightMM)
}

// WidthPt returns the width in points.
func (p Paper) WidthPt() float64 { return geo.MMToPt(p.WidthMM) }

// HeightPt returns the height in points.
func (p Paper) HeightPt() float64 { return geo.MMToPt(p.HeightMM) }

// Landscape returns p rotated by a quarter turn.
func (p Paper) Landscape() Paper {
	return Paper{Name: p.Name, WidthMM: p.HeightMM, HeightMM: p.WidthMM}
}

// Usable returns the printable size in points once margin is removed on
// every side.
func (p Paper) Usable(margin float64) (w, h float64) {
	return p.WidthPt() - 2*margin, p.HeightPt() - 2*margin
}

func (p Paper) String() string {
	return fmt.Sprintf("%s (%gx%g mm)", p.Name, p.WidthMM, p.HeightMM)
}

// PaperName returns the name of the format of w×h millimeters in papers,
// suffixed with its orientation.
func PaperName(papers []Paper, w, h float64) (string, bool) {
	for _, p := range papers {
		if (p.WidthMM == w && p.HeightMM == h) || (p.WidthMM == h && p.HeightMM == w) {
			if w > h {
				return p.Name + " (landscape)", true
			}
			return p.Name + " (portrait)", true
		}
	}
	return "", false
}

// LookupPaper finds a paper by name.
func LookupPaper(papers []Paper, name string) (Paper, error) {
	for _, p := range papers {
		if p.Name == name {
			return p, nil
		}
	}
	return Paper{}, errors.New(errors.ErrCodeNotFound, "paper size %q not found", name)
}
