package gazetteer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
)

// Schema is the table layout OpenSQLite expects. Tags hold a JSON object
// and the bounding columns are in degrees.
const Schema = `CREATE TABLE IF NOT EXISTS features (
	id      INTEGER PRIMARY KEY,
	name    TEXT NOT NULL DEFAULT '',
	tags    TEXT NOT NULL DEFAULT '{}',
	wkt     TEXT NOT NULL,
	min_lon REAL NOT NULL,
	min_lat REAL NOT NULL,
	max_lon REAL NOT NULL,
	max_lat REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS features_bounds ON features (min_lon, max_lon, min_lat, max_lat);`

const featureQuery = `SELECT id, name, tags, wkt FROM features
WHERE max_lon >= ? AND min_lon <= ? AND max_lat >= ? AND min_lat <= ?
ORDER BY id`

// SQLite is a read-only Source backed by a gazetteer database.
type SQLite struct {
	db   *sql.DB
	path string
}

var _ Source = (*SQLite)(nil)

// OpenSQLite opens the database at path read-only.
func OpenSQLite(path string) (*SQLite, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "gazetteer %s", path)
		}
		return nil, fmt.Errorf("stat gazetteer: %w", err)
	}
	dsn := (&url.URL{Scheme: "file", OmitHost: true, Path: path, RawQuery: "mode=ro&_pragma=busy_timeout(5000)"}).String()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open gazetteer: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &SQLite{db: db, path: path}, nil
}

// Path returns the database file.
func (s *SQLite) Path() string { return s.path }

// Features returns the features whose stored extent intersects bbox.
func (s *SQLite) Features(ctx context.Context, bbox geo.BoundingBox) ([]Feature, error) {
	rows, err := s.db.QueryContext(ctx, featureQuery, bbox.Left, bbox.Right, bbox.Bottom, bbox.Top)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeCanceled, err, "query gazetteer")
		}
		return nil, fmt.Errorf("query gazetteer: %w", err)
	}
	defer rows.Close()

	var out []Feature
	for rows.Next() {
		var (
			f         Feature
			tags, wkt string
		)
		if err := rows.Scan(&f.ID, &f.Name, &tags, &wkt); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &f.Tags); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "feature %d tags", f.ID)
		}
		if f.Geometry, err = geo.ParseWKT(wkt); err != nil {
			return nil, fmt.Errorf("feature %d: %w", f.ID, err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }
