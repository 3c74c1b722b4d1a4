package geo

import (
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// wgs84PRJ is written next to every shapefile so the renderer does not
// have to guess the reference system.
const wgs84PRJ = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["Degree",0.017453292519943295]]`

// LineFeature is one record of a line shapefile.
type LineFeature struct {
	geom.LineString
	Kind  string
	Label string
}

// PolygonFeature is one record of a polygon shapefile.
type PolygonFeature struct {
	geom.Polygon
	Kind  string
	Label string
}

// WriteLineShapefile writes features to path (".shp" plus its ".shx",
// ".dbf" and ".prj" siblings).
func WriteLineShapefile(path string, features []LineFeature) error {
	enc, err := shp.NewEncoder(path, LineFeature{})
	if err != nil {
		return fmt.Errorf("geo: create %s: %w", path, err)
	}
	for i, f := range features {
		if err := enc.Encode(f); err != nil {
			enc.Close()
			return fmt.Errorf("geo: encode %s record %d: %w", path, i, err)
		}
	}
	enc.Close()
	return writePRJ(path)
}

// WritePolygonShapefile writes features to path.
func WritePolygonShapefile(path string, features []PolygonFeature) error {
	enc, err := shp.NewEncoder(path, PolygonFeature{})
	if err != nil {
		return fmt.Errorf("geo: create %s: %w", path, err)
	}
	for i, f := range features {
		if err := enc.Encode(f); err != nil {
			enc.Close()
			return fmt.Errorf("geo: encode %s record %d: %w", path, i, err)
		}
	}
	enc.Close()
	return writePRJ(path)
}

func writePRJ(path string) error {
	prj := strings.TrimSuffix(path, ".shp") + ".prj"
	if err := os.WriteFile(prj, []byte(wgs84PRJ), 0o644); err != nil {
		return fmt.Errorf("geo: write %s: %w", prj, err)
	}
	return nil
}
