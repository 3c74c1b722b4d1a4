package gazetteer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/index"
)

// POICategory is a titled, colored group of points of interest.
type POICategory struct {
	Name  string
	Color string
	Icon  string
	Nodes []POI
}

// POI is one point of interest.
type POI struct {
	Label string
	Point geo.Point
	Icon  string
}

// POIIndex serves a point-of-interest file as an index.
type POIIndex struct {
	Title      string
	Center     geo.Point
	Categories []POICategory
}

var _ index.Indexer = (*POIIndex)(nil)

// number accepts JSON numbers and numeric strings.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return err
	}
	*n = number(v)
	return nil
}

type poiFile struct {
	Title     string           `json:"title"`
	CenterLat number           `json:"center_lat"`
	CenterLon number           `json:"center_lon"`
	Nodes     []poiFileSection `json:"nodes"`
}

type poiFileSection struct {
	Text  string            `json:"text"`
	Color string            `json:"color"`
	Icon  string            `json:"icon"`
	Nodes []json.RawMessage `json:"nodes"`
}

type poiNode struct {
	Text string `json:"text"`
	Lat  number `json:"lat"`
	Lon  number `json:"lon"`
	Icon string `json:"icon"`
}

// ReadPOI decodes a POI file. Nodes that cannot be decoded are skipped.
func ReadPOI(r io.Reader) (*POIIndex, error) {
	var file poiFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode POI file")
	}
	p := &POIIndex{
		Title:  file.Title,
		Center: geo.Point{Lat: float64(file.CenterLat), Lon: float64(file.CenterLon)},
	}
	for _, c := range file.Nodes {
		cat := POICategory{Name: c.Text, Color: c.Color, Icon: c.Icon}
		for _, raw := range c.Nodes {
			var n poiNode
			if err := json.Unmarshal(raw, &n); err != nil {
				continue
			}
			cat.Nodes = append(cat.Nodes, POI{
				Label: n.Text,
				Point: geo.Point{Lat: float64(n.Lat), Lon: float64(n.Lon)},
				Icon:  n.Icon,
			})
		}
		p.Categories = append(p.Categories, cat)
	}
	return p, nil
}

// LoadPOI reads a POI file.
func LoadPOI(path string) (*POIIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "POI file %s", path)
		}
		return nil, fmt.Errorf("open POI file: %w", err)
	}
	defer f.Close()
	p, err := ReadPOI(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Kind returns index.KindPoi.
func (p *POIIndex) Kind() index.Kind { return index.KindPoi }

// Build returns the categories in file order with the points inside
// req.BBox. Empty categories are omitted.
func (p *POIIndex) Build(ctx context.Context, req index.Request) ([]index.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCanceled, err, "build POI index")
	}
	var out []index.Category
	for _, c := range p.Categories {
		cat := index.Category{Name: c.Name}
		for _, n := range c.Nodes {
			if !req.BBox.Contains(n.Point) {
				continue
			}
			cat.Items = append(cat.Items, index.NewItem(n.Label, n.Point, n.Point, req.Page))
		}
		if len(cat.Items) > 0 {
			out = append(out, cat)
		}
	}
	return out, nil
}
