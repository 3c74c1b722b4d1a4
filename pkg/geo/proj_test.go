package geo

import (
	"math"
	"testing"
)

func TestMercatorRoundTrip(t *testing.T) {
	p, err := NewMercator()
	if err != nil {
		t.Fatalf("NewMercator() error = %v", err)
	}

	b := NewBoundingBox(48.80, 2.30, 48.90, 2.40)
	env, err := p.Envelope(b)
	if err != nil {
		t.Fatalf("Envelope() error = %v", err)
	}
	if env.Width() <= 0 || env.Height() <= 0 {
		t.Fatalf("Envelope() = %+v, want positive extent", env)
	}

	back, err := p.BoundingBox(env)
	if err != nil {
		t.Fatalf("BoundingBox() error = %v", err)
	}
	for _, d := range []float64{back.Top - b.Top, back.Left - b.Left, back.Bottom - b.Bottom, back.Right - b.Right} {
		if math.Abs(d) > 1e-7 {
			t.Fatalf("BoundingBox(Envelope(b)) = %v, want %v", back, b)
		}
	}
}

func TestMercatorOrigin(t *testing.T) {
	p, err := NewMercator()
	if err != nil {
		t.Fatal(err)
	}
	m, err := p.Forward(Point{})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.X) > 1e-6 || math.Abs(m.Y) > 1e-6 {
		t.Errorf("Forward(0,0) = %v, want origin", m)
	}
}

func TestEnvelopeOverlap(t *testing.T) {
	a := NewEnvelope(0, 0, 10, 10)
	b := NewEnvelope(8, 5, 10, 10)
	dx, dy := a.Overlap(b)
	if dx != 2 || dy != 5 {
		t.Errorf("Overlap() = (%v, %v), want (2, 5)", dx, dy)
	}
	dx, dy = a.Overlap(NewEnvelope(20, 20, 1, 1))
	if dx != 0 || dy != 0 {
		t.Errorf("Overlap(disjoint) = (%v, %v), want (0, 0)", dx, dy)
	}
}
