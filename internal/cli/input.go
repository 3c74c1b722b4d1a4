package cli

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/pi-bie/ocitysmap/pkg/cache"
	"github.com/pi-bie/ocitysmap/pkg/config"
	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/gazetteer"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/index"
	"github.com/pi-bie/ocitysmap/pkg/paging"
	"github.com/pi-bie/ocitysmap/pkg/pipeline"
)

// noIndex disables the index on the command line.
const noIndex = "none"

// =============================================================================
// Area flags
// =============================================================================

// parseBBox reads a bounding box given as four numbers
// "lat1,lon1,lat2,lon2" (commas or spaces) or as WKT. An empty string is
// the zero box.
func parseBBox(s string) (geo.BoundingBox, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return geo.BoundingBox{}, nil
	}
	if strings.Contains(s, "(") {
		return geo.ParseBoundingBox(s)
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	if len(fields) != 4 {
		return geo.BoundingBox{}, errors.New(errors.ErrCodeInvalidBBox, "bbox %q: want lat1,lon1,lat2,lon2", s)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geo.BoundingBox{}, errors.Wrap(errors.ErrCodeInvalidBBox, err, "bbox %q", s)
		}
		v[i] = n
	}
	bbox := geo.NewBoundingBox(v[0], v[1], v[2], v[3])
	if err := bbox.Validate(); err != nil {
		return geo.BoundingBox{}, err
	}
	return bbox, nil
}

// readWKT returns a WKT flag value. "@path" reads the geometry from a
// file.
func readWKT(s string) (string, error) {
	path, ok := strings.CutPrefix(s, "@")
	if !ok {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "geometry file %s", path)
		}
		return "", err
	}
	return string(data), nil
}

// resolvePaper finds the paper named by the --paper flag: a configured
// format name or a "<width>x<height>" size in millimeters. An empty name
// leaves the choice to the pipeline.
func resolvePaper(cfg *config.Config, mode pipeline.Mode, name string, landscape bool) (paging.Paper, error) {
	if name == "" {
		if !landscape {
			return paging.Paper{}, nil
		}
		name = cfg.Papers(mode.Paged())[0].Name
	}
	var p paging.Paper
	var err error
	if strings.ContainsAny(name, "0123456789") && strings.Contains(name, "x") {
		p, err = paging.ParsePaper(paging.CustomPaper, name)
	} else {
		p, err = paging.LookupPaper(cfg.Papers(mode.Paged()), name)
	}
	if err != nil {
		return paging.Paper{}, err
	}
	if landscape {
		p = p.Landscape()
	}
	return p, nil
}

// =============================================================================
// Index sources
// =============================================================================

// indexSource is an opened indexer with the hash of its input.
type indexSource struct {
	Indexer index.Indexer
	Hash    string
	closer  io.Closer
}

// Close releases the underlying feature source.
func (s *indexSource) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// openIndexer opens the indexer selected by the --index, --gazetteer and
// --poi flags, falling back to the configuration. It returns a nil
// indexer when the index is disabled or no source is configured.
func openIndexer(cfg *config.Config, kindName, gazetteerPath, poiPath string, logger *log.Logger) (*indexSource, error) {
	kind := cfg.Index.Kind
	if kindName != "" {
		if strings.EqualFold(kindName, noIndex) {
			return &indexSource{}, nil
		}
		k, err := index.ParseKind(kindName)
		if err != nil {
			return nil, err
		}
		kind = k
	}

	if kind == index.KindPoi {
		if poiPath == "" {
			poiPath = cfg.Index.POIFile
		}
		if poiPath == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s index needs a POI file (--poi)", kind)
		}
		poi, err := gazetteer.LoadPOI(poiPath)
		if err != nil {
			return nil, err
		}
		hash, err := cache.HashFile(poiPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded POI file", "path", poiPath, "categories", len(poi.Categories))
		return &indexSource{Indexer: poi, Hash: hash}, nil
	}

	if gazetteerPath == "" {
		gazetteerPath = cfg.Gazetteer
	}
	if gazetteerPath == "" {
		logger.Warn("no gazetteer configured, planning without index", "kind", kind)
		return &indexSource{}, nil
	}

	var src gazetteer.Source
	switch strings.ToLower(filepath.Ext(gazetteerPath)) {
	case ".json", ".geojson":
		mem, err := gazetteer.LoadJSON(gazetteerPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded feature file", "path", gazetteerPath, "features", mem.Len())
		src = mem
	default:
		db, err := gazetteer.OpenSQLite(gazetteerPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("opened gazetteer", "path", db.Path())
		src = db
	}
	hash, err := cache.HashFile(gazetteerPath)
	if err != nil {
		src.Close()
		return nil, err
	}
	ix, err := gazetteer.NewIndexer(kind, src, logger)
	if err != nil {
		src.Close()
		return nil, err
	}
	return &indexSource{Indexer: ix, Hash: hash, closer: src}, nil
}
