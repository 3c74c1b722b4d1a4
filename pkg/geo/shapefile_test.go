package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
)

func TestWriteLineShapefile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid0.shp")

	features := []LineFeature{
		{LineString: geom.LineString{{X: 0, Y: 0}, {X: 0, Y: 1}}, Kind: "vertical", Label: "A"},
		{LineString: geom.LineString{{X: 0, Y: 0}, {X: 1, Y: 0}}, Kind: "horizontal", Label: "1"},
	}
	if err := WriteLineShapefile(path, features); err != nil {
		t.Fatalf("WriteLineShapefile() error = %v", err)
	}
	for _, ext := range []string{".shp", ".prj"} {
		if _, err := os.Stat(filepath.Join(dir, "grid0"+ext)); err != nil {
			t.Errorf("missing %s sidecar: %v", ext, err)
		}
	}
}

func TestWritePolygonShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shade0.shp")
	features := []PolygonFeature{{Polygon: NewBoundingBox(0, 0, 1, 1).Polygon(), Kind: "shade"}}
	if err := WritePolygonShapefile(path, features); err != nil {
		t.Fatalf("WritePolygonShapefile() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("shapefile not written: %v", err)
	}
}
