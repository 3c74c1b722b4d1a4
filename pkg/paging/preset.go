package paging

import "github.com/pi-bie/ocitysmap/pkg/geo"

// DefaultCeilingScale is the coarsest scale a paginated map may reach.
const DefaultCeilingScale = 7000000

// Preset holds the tunables of one pagination variant. Growth factors
// are empirical and kept as configuration.
type Preset struct {
	Name string `toml:"name" json:"name"`

	// StartScale is the first scale denominator tried, expressed in the
	// tile renderer's convention (see geo.RendererPPI).
	StartScale float64 `toml:"start_scale" json:"start_scale"`
	Growth     float64 `toml:"growth" json:"growth"`
	MaxPages   int     `toml:"max_pages" json:"max_pages"`
	Ceiling    float64 `toml:"ceiling_scale" json:"ceiling_scale"`

	GrayedMM        float64 `toml:"grayed_margin_mm" json:"grayed_margin_mm"`
	OverlapWidthMM  float64 `toml:"overlap_width_mm" json:"overlap_width_mm"`
	OverlapHeightMM float64 `toml:"overlap_height_mm" json:"overlap_height_mm"`

	// Spreads lays pages out as facing pairs with overlap only between
	// pairs. Otherwise every neighbor overlaps uniformly.
	Spreads bool `toml:"spreads" json:"spreads"`
}

// Atlas is the facing-spread preset.
var Atlas = Preset{
	Name:            "atlas",
	StartScale:      700000,
	Growth:          1.189,
	MaxPages:        40,
	Ceiling:         DefaultCeilingScale,
	GrayedMM:        8,
	OverlapWidthMM:  6,
	OverlapHeightMM: 16,
	Spreads:         true,
}

// MultiPage is the uniform-overlap preset.
var MultiPage = Preset{
	Name:            "multipage",
	StartScale:      4200,
	Growth:          1.41,
	MaxPages:        15,
	Ceiling:         DefaultCeilingScale,
	GrayedMM:        10,
	OverlapWidthMM:  20,
	OverlapHeightMM: 20,
}

// InitialScale converts StartScale to the 72 ppi paper convention.
func (p Preset) InitialScale() float64 {
	return p.StartScale * geo.PtPerInch / geo.RendererPPI
}

// SetDefaults fills zero fields from base.
func (p *Preset) SetDefaults(base Preset) {
	if p.Name == "" {
		p.Name = base.Name
	}
	if p.StartScale <= 0 {
		p.StartScale = base.StartScale
	}
	if p.Growth <= 1 {
		p.Growth = base.Growth
	}
	if p.MaxPages <= 0 {
		p.MaxPages = base.MaxPages
	}
	if p.Ceiling <= 0 {
		p.Ceiling = base.Ceiling
	}
	if p.GrayedMM <= 0 {
		p.GrayedMM = base.GrayedMM
	}
	if p.OverlapWidthMM <= 0 {
		p.OverlapWidthMM = base.OverlapWidthMM
	}
	if p.OverlapHeightMM <= 0 {
		p.OverlapHeightMM = base.OverlapHeightMM
	}
}
