// Package fonts provides the embedded Go font family used for index
// measurement and proof output.
//
// The fonts come from golang.org/x/image/font/gofont, so measurements are
// identical on every machine and no system font lookup happens. Parsed
// fonts and sized faces are cached after first use.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Family names.
const (
	Sans = "Go"
	Mono = "Go Mono"
)

// DefaultFamily is used when a style names no family.
const DefaultFamily = Sans

var ttfs = map[string][2][]byte{
	Sans: {goregular.TTF, gobold.TTF},
	Mono: {gomono.TTF, gomonobold.TTF},
}

// Families lists the embedded families.
func Families() []string { return []string{Sans, Mono} }

// TTF returns the raw TrueType data of a family variant. Unknown families
// fall back to DefaultFamily.
func TTF(family string, bold bool) []byte {
	v, ok := ttfs[family]
	if !ok {
		v = ttfs[DefaultFamily]
	}
	if bold {
		return v[1]
	}
	return v[0]
}

type faceKey struct {
	family string
	bold   bool
	size   float64
}

var (
	mu     sync.Mutex
	parsed = map[string]*opentype.Font{}
	faces  = map[faceKey]font.Face{}
)

// Metrics holds the vertical metrics of a face, in points.
type Metrics struct {
	Ascent  float64
	Descent float64
	Height  float64
}

// Measure returns the advance width of s in points.
func Measure(family string, bold bool, size float64, s string) (float64, error) {
	mu.Lock()
	defer mu.Unlock()
	face, err := faceLocked(family, bold, size)
	if err != nil {
		return 0, err
	}
	return ToFloat(font.MeasureString(face, s)), nil
}

// LineMetrics returns the vertical metrics of a face.
func LineMetrics(family string, bold bool, size float64) (Metrics, error) {
	mu.Lock()
	defer mu.Unlock()
	face, err := faceLocked(family, bold, size)
	if err != nil {
		return Metrics{}, err
	}
	m := face.Metrics()
	return Metrics{
		Ascent:  ToFloat(m.Ascent),
		Descent: ToFloat(m.Descent),
		Height:  ToFloat(m.Height),
	}, nil
}

// faceLocked returns a face of the given family and size in points, at
// 72 dpi so that one pixel is one point. Faces are not safe for
// concurrent use; mu must be held.
func faceLocked(family string, bold bool, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("fonts: size must be positive, got %v", size)
	}
	if _, ok := ttfs[family]; !ok {
		family = DefaultFamily
	}
	key := faceKey{family, bold, size}

	if f, ok := faces[key]; ok {
		return f, nil
	}

	name := family
	if bold {
		name += " Bold"
	}
	otf, ok := parsed[name]
	if !ok {
		var err error
		otf, err = opentype.Parse(TTF(family, bold))
		if err != nil {
			return nil, fmt.Errorf("fonts: parse %s: %w", name, err)
		}
		parsed[name] = otf
	}

	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("fonts: face %s %vpt: %w", name, size, err)
	}
	faces[key] = face
	return face, nil
}

// ToFloat converts a 26.6 fixed-point value to points.
func ToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
