package index

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pi-bie/ocitysmap/pkg/errors"
)

// csvMarker opens every exported index so spreadsheet tools pick the
// right encoding.
const csvMarker = "# (UTF-8)"

// Notice returns the copyright line written in CSV exports.
func Notice(year int) string {
	return fmt.Sprintf("© %d ocitysmap authors. Map data © %d OpenStreetMap.org and contributors (ODbL)", year, year)
}

// WriteCSV exports cats as a three-column sheet: a header row with the
// title and notice, then one row per category name followed by one row
// per item (blank, label, location).
func WriteCSV(w io.Writer, title, notice string, cats []Category) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{csvMarker, title, notice}}
	for _, cat := range cats {
		rows = append(rows, []string{cat.Name})
		for _, it := range cat.Items {
			loc := it.Location
			if loc == "" {
				loc = UnknownLocation
			}
			rows = append(rows, []string{"", it.Label, loc})
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write index csv: %w", err)
	}
	return nil
}

// ReadCSV parses a sheet written by WriteCSV. Items carry labels and
// locations only; streetNames marks which categories are street
// categories, since the sheet does not record it.
func ReadCSV(r io.Reader, streetNames func(string) bool) (title string, cats []Category, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read index csv")
	}
	if len(records) == 0 || records[0][0] != csvMarker {
		return "", nil, errors.New(errors.ErrCodeInvalidInput, "index csv: missing %q header", csvMarker)
	}
	if len(records[0]) > 1 {
		title = records[0][1]
	}
	for i, rec := range records[1:] {
		switch {
		case len(rec) == 1 || (len(rec) > 0 && rec[0] != ""):
			isStreet := streetNames != nil && streetNames(rec[0])
			cats = append(cats, Category{Name: rec[0], IsStreet: isStreet})
		case len(rec) == 3 && len(cats) > 0:
			last := &cats[len(cats)-1]
			last.Items = append(last.Items, Item{Label: rec[1], Location: rec[2]})
		default:
			return "", nil, errors.New(errors.ErrCodeInvalidInput, "index csv: malformed row %d", i+2)
		}
	}
	return title, cats, nil
}

// IsStreetCategory reports whether name is a street initial category.
func IsStreetCategory(name string) bool {
	if name == NumberCategory {
		return true
	}
	return len([]rune(name)) == 1 && Initial(name) == name
}
