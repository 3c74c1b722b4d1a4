package geo

import (
	"testing"

	"github.com/ctessum/geom"

	"github.com/pi-bie/ocitysmap/pkg/errors"
)

func TestWKTRoundTrip(t *testing.T) {
	b := NewBoundingBox(48.80, 2.30, 48.90, 2.40)
	got, err := ParseBoundingBox(b.WKT())
	if err != nil {
		t.Fatalf("ParseBoundingBox(%q) error = %v", b.WKT(), err)
	}
	if got != b {
		t.Errorf("ParseBoundingBox(WKT()) = %v, want %v", got, b)
	}
}

func TestBoundingBoxWKT(t *testing.T) {
	b := NewBoundingBox(48.9, 2.25, 48.8, 2.42)
	want := "POLYGON((2.25 48.8,2.42 48.8,2.42 48.9,2.25 48.9,2.25 48.8))"
	if got := b.WKT(); got != want {
		t.Errorf("WKT() = %q, want %q", got, want)
	}
}

func TestParseWKT(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType string
		wantErr  bool
	}{
		{"polygon", "POLYGON((0 0, 1 0, 1 1, 0 1, 0 0))", "polygon", false},
		{"lowercase", "polygon ((0 0,1 0,1 1,0 0))", "polygon", false},
		{"polygon with hole", "POLYGON((0 0, 4 0, 4 4, 0 4, 0 0), (1 1, 2 1, 2 2, 1 1))", "polygon", false},
		{"multipolygon", "MULTIPOLYGON(((0 0, 1 0, 1 1, 0 0)), ((5 5, 6 5, 6 6, 5 5)))", "multipolygon", false},
		{"linestring", "LINESTRING(0 0, 1 1, 2 1)", "linestring", false},
		{"multilinestring", "MULTILINESTRING((0 0, 1 1), (2 2, 3 3))", "multilinestring", false},
		{"scientific", "LINESTRING(1e-3 -2.5E1, 3 4)", "linestring", false},
		{"point", "POINT(2.35 48.85)", "point", false},

		{"empty", "", "", true},
		{"no coordinates", "POLYGON", "", true},
		{"unknown type", "CIRCULARSTRING(0 0, 1 1, 2 0)", "", true},
		{"multi-coordinate point", "POINT(1 2, 3 4)", "", true},
		{"short ring", "POLYGON((0 0, 1 1, 0 0))", "", true},
		{"unbalanced", "POLYGON((0 0, 1 0, 1 1, 0 0)", "", true},
		{"trailing garbage", "LINESTRING(0 0, 1 1) x", "", true},
		{"bad number", "LINESTRING(0 0, 1 --1)", "", true},
		{"odd coordinate", "LINESTRING(0 0, 1)", "", true},
		{"empty linestring", "LINESTRING EMPTY", "", true},
		{"empty multipolygon", "MULTIPOLYGON EMPTY", "", true},
		{"multipoint", "MULTIPOINT((0 0), (1 1))", "", true},
		{"short ring in multipolygon", "MULTIPOLYGON(((0 0, 1 0, 1 1, 0 0)), ((5 5, 6 6, 5 5)))", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseWKT(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWKT(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidWKT) {
					t.Errorf("ParseWKT() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidWKT)
				}
				return
			}
			var got string
			switch g.(type) {
			case geom.Point:
				got = "point"
			case geom.Polygon:
				got = "polygon"
			case geom.MultiPolygon:
				got = "multipolygon"
			case geom.LineString:
				got = "linestring"
			case geom.MultiLineString:
				got = "multilinestring"
			}
			if got != tt.wantType {
				t.Errorf("ParseWKT(%q) type = %s, want %s", tt.input, got, tt.wantType)
			}
		})
	}
}

func TestParseArea(t *testing.T) {
	mp, err := ParseArea("POLYGON((0 0, 1 0, 1 1, 0 0))")
	if err != nil {
		t.Fatalf("ParseArea() error = %v", err)
	}
	if len(mp) != 1 {
		t.Errorf("ParseArea() polygons = %d, want 1", len(mp))
	}

	if _, err := ParseArea("LINESTRING(0 0, 1 1)"); !errors.Is(err, errors.ErrCodeInvalidWKT) {
		t.Errorf("ParseArea(linestring) error = %v, want %v", err, errors.ErrCodeInvalidWKT)
	}
}

func TestLines(t *testing.T) {
	g, err := ParseWKT("MULTILINESTRING((0 0, 1 1), (2 2, 3 3))")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(Lines(g)); got != 2 {
		t.Errorf("Lines() = %d lines, want 2", got)
	}
	if got := Lines(geom.Polygon{}); got != nil {
		t.Errorf("Lines(polygon) = %v, want nil", got)
	}
}
