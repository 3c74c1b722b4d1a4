package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/pi-bie/ocitysmap/pkg/config"
	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/index"
	"github.com/pi-bie/ocitysmap/pkg/paging"
	"github.com/pi-bie/ocitysmap/pkg/pipeline"
)

var paris = geo.NewBoundingBox(48.90, 2.25, 48.80, 2.42)

func TestParseBBox(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    geo.BoundingBox
		wantErr bool
	}{
		{"empty", "", geo.BoundingBox{}, false},
		{"commas", "48.90,2.25,48.80,2.42", paris, false},
		{"spaces", " 48.90 2.25  48.80 2.42 ", paris, false},
		{"corners in any order", "48.80,2.42,48.90,2.25", paris, false},
		{"three numbers", "48.90,2.25,48.80", geo.BoundingBox{}, true},
		{"not a number", "48.90,east,48.80,2.42", geo.BoundingBox{}, true},
		{"latitude out of range", "95,2.25,48.80,2.42", geo.BoundingBox{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBBox(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseBBox(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidBBox) {
					t.Errorf("parseBBox(%q) error = %v, want code %s", tt.in, err, errors.ErrCodeInvalidBBox)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseBBox(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseBBoxWKT(t *testing.T) {
	got, err := parseBBox("POLYGON((2.25 48.80, 2.42 48.80, 2.42 48.90, 2.25 48.90, 2.25 48.80))")
	if err != nil {
		t.Fatalf("parseBBox() error = %v", err)
	}
	if !got.Contains(paris.Center()) {
		t.Errorf("parseBBox() = %v, does not hold %v", got, paris.Center())
	}
}

func TestReadWKT(t *testing.T) {
	const wkt = "POLYGON((0 0, 1 0, 1 1, 0 0))"
	path := filepath.Join(t.TempDir(), "area.wkt")
	if err := os.WriteFile(path, []byte(wkt), 0o644); err != nil {
		t.Fatal(err)
	}

	if got, err := readWKT(wkt); err != nil || got != wkt {
		t.Errorf("readWKT(inline) = %q, %v", got, err)
	}
	if got, err := readWKT("@" + path); err != nil || got != wkt {
		t.Errorf("readWKT(@file) = %q, %v", got, err)
	}
	if got, err := readWKT(""); err != nil || got != "" {
		t.Errorf("readWKT(\"\") = %q, %v", got, err)
	}
	_, err := readWKT("@" + filepath.Join(t.TempDir(), "missing.wkt"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("readWKT(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestResolvePaper(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		name      string
		paper     string
		landscape bool
		want      paging.Paper
		wantErr   bool
	}{
		{"unset", "", false, paging.Paper{}, false},
		{"named", "DinA4", false, paging.Paper{Name: "DinA4", WidthMM: 210, HeightMM: 297}, false},
		{"named landscape", "DinA4", true, paging.Paper{Name: "DinA4", WidthMM: 297, HeightMM: 210}, false},
		{"unset landscape", "", true, paging.Paper{Name: "DinA4", WidthMM: 297, HeightMM: 210}, false},
		{"custom", "300x400", false, paging.Paper{Name: paging.CustomPaper, WidthMM: 300, HeightMM: 400}, false},
		{"unknown", "Tabloid", false, paging.Paper{}, true},
		{"custom zero width", "0x297", false, paging.Paper{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePaper(cfg, pipeline.ModeSingle, tt.paper, tt.landscape)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolvePaper(%q) error = %v, wantErr %v", tt.paper, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("resolvePaper(%q) mismatch (-want +got):\n%s", tt.paper, diff)
			}
		})
	}
}

const featureFile = `{"features": [
  {"id": 1, "name": "Rue de Rivoli", "tags": {"highway": "primary"},
   "wkt": "LINESTRING(2.33 48.86, 2.36 48.855)"}
]}`

func TestOpenIndexer(t *testing.T) {
	logger := log.New(io.Discard)
	dir := t.TempDir()
	features := filepath.Join(dir, "features.json")
	if err := os.WriteFile(features, []byte(featureFile), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("disabled", func(t *testing.T) {
		src, err := openIndexer(config.Default(), "none", features, "", logger)
		if err != nil {
			t.Fatalf("openIndexer() error = %v", err)
		}
		if src.Indexer != nil {
			t.Errorf("Indexer = %v, want nil", src.Indexer)
		}
	})

	t.Run("no gazetteer", func(t *testing.T) {
		src, err := openIndexer(config.Default(), "", "", "", logger)
		if err != nil {
			t.Fatalf("openIndexer() error = %v", err)
		}
		if src.Indexer != nil {
			t.Errorf("Indexer = %v, want nil", src.Indexer)
		}
		if err := src.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	t.Run("feature file", func(t *testing.T) {
		src, err := openIndexer(config.Default(), "Health", features, "", logger)
		if err != nil {
			t.Fatalf("openIndexer() error = %v", err)
		}
		defer src.Close()
		if src.Indexer == nil {
			t.Fatal("Indexer = nil")
		}
		if got := src.Indexer.Kind(); got != index.KindHealth {
			t.Errorf("Kind() = %v, want %v", got, index.KindHealth)
		}
		if src.Hash == "" {
			t.Error("Hash is empty")
		}
	})

	t.Run("config gazetteer", func(t *testing.T) {
		cfg := config.Default()
		cfg.Gazetteer = features
		src, err := openIndexer(cfg, "", "", "", logger)
		if err != nil {
			t.Fatalf("openIndexer() error = %v", err)
		}
		defer src.Close()
		if src.Indexer == nil || src.Indexer.Kind() != index.KindStreet {
			t.Errorf("Indexer = %v, want a Street indexer", src.Indexer)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := openIndexer(config.Default(), "", filepath.Join(dir, "missing.json"), "", logger)
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("openIndexer() error = %v, want %s", err, errors.ErrCodeFileNotFound)
		}
	})

	t.Run("poi without file", func(t *testing.T) {
		if _, err := openIndexer(config.Default(), "Poi", "", "", logger); err == nil {
			t.Error("openIndexer() succeeded without a POI file")
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		if _, err := openIndexer(config.Default(), "Bakeries", "", "", logger); err == nil {
			t.Error("openIndexer() accepted an unknown kind")
		}
	})
}

func TestParseAreaFlag(t *testing.T) {
	area, err := parseAreaFlag("")
	if err != nil || area != nil {
		t.Errorf("parseAreaFlag(\"\") = %v, %v", area, err)
	}
	area, err = parseAreaFlag("POLYGON((2.25 48.80, 2.42 48.80, 2.42 48.90, 2.25 48.80))")
	if err != nil {
		t.Fatalf("parseAreaFlag() error = %v", err)
	}
	if len(area) != 1 {
		t.Errorf("parseAreaFlag() = %d polygons, want 1", len(area))
	}
}

func TestAreaBBox(t *testing.T) {
	if _, err := areaBBox("", ""); !errors.Is(err, errors.ErrCodeInvalidBBox) {
		t.Errorf("areaBBox() error = %v, want %s", err, errors.ErrCodeInvalidBBox)
	}
	got, err := areaBBox("", "POLYGON((2.25 48.80, 2.42 48.80, 2.42 48.90, 2.25 48.90, 2.25 48.80))")
	if err != nil {
		t.Fatalf("areaBBox() error = %v", err)
	}
	if !got.Contains(paris.Center()) {
		t.Errorf("areaBBox() = %v, does not hold %v", got, paris.Center())
	}
	got, err = areaBBox("48.90,2.25,48.80,2.42", "ignored")
	if err != nil {
		t.Fatalf("areaBBox() error = %v", err)
	}
	if diff := cmp.Diff(paris, got); diff != "" {
		t.Errorf("areaBBox() mismatch (-want +got):\n%s", diff)
	}
}
