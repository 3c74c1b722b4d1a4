package geo

import (
	"math"
	"testing"

	"github.com/pi-bie/ocitysmap/pkg/errors"
)

func TestNewBoundingBoxOrdersCorners(t *testing.T) {
	b := NewBoundingBox(48.80, 2.40, 48.90, 2.30)
	want := BoundingBox{Top: 48.90, Left: 2.30, Bottom: 48.80, Right: 2.40}
	if b != want {
		t.Errorf("NewBoundingBox() = %v, want %v", b, want)
	}
}

func TestBoundingBoxValidate(t *testing.T) {
	tests := []struct {
		name    string
		box     BoundingBox
		wantErr bool
	}{
		{"paris", NewBoundingBox(48.80, 2.30, 48.90, 2.40), false},
		{"zero width", NewBoundingBox(48.80, 2.30, 48.90, 2.30), true},
		{"zero height", NewBoundingBox(48.80, 2.30, 48.80, 2.40), true},
		{"beyond pole", BoundingBox{Top: 91, Left: 0, Bottom: 80, Right: 1}, true},
		{"beyond antimeridian", BoundingBox{Top: 1, Left: 179, Bottom: 0, Right: 181}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.box.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidBBox) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidBBox)
			}
		})
	}
}

func TestSphericSizes(t *testing.T) {
	// One degree of latitude on the equator.
	b := NewBoundingBox(0, 0, 1, 1)
	h, w := b.SphericSizes()

	wantH := EarthRadius * math.Pi / 180
	if math.Abs(h-wantH) > 1e-6 {
		t.Errorf("SphericSizes() height = %v, want %v", h, wantH)
	}
	wantW := EarthRadius * math.Cos(math.Pi/180) * math.Pi / 180
	if math.Abs(w-wantW) > 1e-6 {
		t.Errorf("SphericSizes() width = %v, want %v", w, wantW)
	}
}

func TestExpandedClampsToWorld(t *testing.T) {
	b := NewBoundingBox(89.5, 179.5, 89, 179).Expanded(1, 1)
	if b.Top != 90 || b.Right != 180 {
		t.Errorf("Expanded() = %v, want top 90 and right 180", b)
	}
	if b.Bottom != 88 || b.Left != 178 {
		t.Errorf("Expanded() = %v, want bottom 88 and left 178", b)
	}
}

func TestEnsureExtent(t *testing.T) {
	b := BoundingBox{Top: 10, Left: 5, Bottom: 10, Right: 5}.EnsureExtent()
	if err := b.Validate(); err != nil {
		t.Errorf("EnsureExtent() produced invalid box: %v", err)
	}
}

func TestFitRatio(t *testing.T) {
	tests := []struct {
		name  string
		box   BoundingBox
		ratio float64
	}{
		{"widen", NewBoundingBox(48.80, 2.30, 48.90, 2.35), 2},
		{"heighten", NewBoundingBox(48.80, 2.30, 48.81, 2.60), 0.5},
		{"unchanged", NewBoundingBox(0, 0, 1, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.box.FitRatio(tt.ratio)
			if got.Top < tt.box.Top || got.Bottom > tt.box.Bottom || got.Left > tt.box.Left || got.Right < tt.box.Right {
				t.Fatalf("FitRatio() = %v shrank %v", got, tt.box)
			}
			if tt.ratio == 0 {
				if got != tt.box {
					t.Errorf("FitRatio(0) = %v, want %v", got, tt.box)
				}
				return
			}
			c0, c1 := tt.box.Center(), got.Center()
			if math.Abs(c0.Lat-c1.Lat) > 1e-9 || math.Abs(c0.Lon-c1.Lon) > 1e-9 {
				t.Errorf("FitRatio() moved center from %v to %v", c0, c1)
			}
		})
	}
}

func TestContains(t *testing.T) {
	b := NewBoundingBox(0, 0, 10, 10)
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{Lat: 5, Lon: 5}, true},
		{Point{Lat: 10, Lon: 0}, true},
		{Point{Lat: 11, Lon: 5}, false},
		{Point{Lat: 5, Lon: -1}, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
