package geo

// Paper unit conversions.
const (
	// PtPerInch is the PostScript point density.
	PtPerInch = 72.0
	// MMPerInch is the millimeter count of an inch.
	MMPerInch = 25.4
	// RendererPPI is the pixel density the tile renderer assumes when it
	// reports scale denominators. Scales are multiplied by
	// PtPerInch/RendererPPI before paper computations.
	RendererPPI = 90.0
)

// MMToPt converts millimeters to points.
func MMToPt(mm float64) float64 { return mm / MMPerInch * PtPerInch }

// PtToMM converts points to millimeters.
func PtToMM(pt float64) float64 { return pt / PtPerInch * MMPerInch }

// PaperToGround converts a paper distance in points to ground meters at
// scale 1:scale.
func PaperToGround(pt, scale float64) float64 { return PtToMM(pt) * scale / 1000 }

// GroundToPaper converts ground meters to a paper distance in points at
// scale 1:scale.
func GroundToPaper(m, scale float64) float64 { return MMToPt(m * 1000 / scale) }

var zoomThresholds = [...]float64{
	500, 1250, 2500, 5000, 12500, 25000, 50000, 100000, 200000, 400000,
	750000, 1500000, 3000000, 6500000, 12500000, 25000000, 50000000,
	100000000, 200000000, 500000000,
}

// ScaleToZoom maps a scale denominator to the closest web-map zoom level,
// from 20 (street detail) down to 0 (whole world).
func ScaleToZoom(scale float64) int {
	for i, limit := range zoomThresholds {
		if scale < limit {
			return 20 - i
		}
	}
	return 0
}
