package gazetteer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pi-bie/ocitysmap/pkg/index"
)

// Category size limits. A category exceeding its limit is dropped rather
// than truncated, and a street index with more than MaxStreets streets
// lists none.
const (
	MaxStreets             = 1000
	MaxStreetCategoryItems = 30
	MaxVillages            = 100
	MaxCategoryItems       = 300
)

// Category names.
const (
	VillagesCategory = "Villages"
	NotesCategory    = "OSM Notes"
	AdminCategory    = "Administrative areas"
)

// UnknownName labels healthcare facilities without a name.
const UnknownName = "***???***"

// maxNoteLabel bounds note labels, in runes.
const maxNoteLabel = 50

var amenityCategories = map[string]string{
	"place_of_worship": "Places of worship",
	"kindergarten":     "Education",
	"school":           "Education",
	"college":          "Education",
	"university":       "Education",
	"library":          "Education",
	"townhall":         "Public buildings",
	"post_office":      "Public buildings",
	"public_building":  "Public buildings",
	"police":           "Public buildings",
}

var villagePlaces = set("borough", "suburb", "quarter", "neighbourhood", "village", "hamlet", "isolated_dwelling")

var townPlaces = set("city", "town", "municipality")

// generalTags are tried in order to categorize features of the general
// index.
var generalTags = []string{"amenity", "shop", "tourism", "leisure", "historic"}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// classifier maps a feature to a category and label; ok is false when the
// feature does not belong to the index.
type classifier func(f Feature) (category, label string, ok bool)

func classifyStreet(f Feature) (string, string, bool) {
	if !f.HasName() || f.Tag("highway") == "" {
		return "", "", false
	}
	return index.Initial(f.Name), strings.TrimSpace(f.Name), true
}

func classifyAmenity(f Feature) (string, string, bool) {
	cat, ok := amenityCategories[f.Tag("amenity")]
	if !ok || !f.HasName() {
		return "", "", false
	}
	return cat, strings.TrimSpace(f.Name), true
}

func classifyVillage(f Feature) (string, string, bool) {
	if !villagePlaces[f.Tag("place")] || !f.HasName() {
		return "", "", false
	}
	return VillagesCategory, strings.TrimSpace(f.Name), true
}

func classifyHealth(f Feature) (string, string, bool) {
	kind := f.Tag("healthcare")
	if kind == "" {
		return "", "", false
	}
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = UnknownName
	}
	return kind, name, true
}

func classifyTree(f Feature) (string, string, bool) {
	if f.Tag("natural") != "tree" {
		return "", "", false
	}
	genus, species := f.Tag("genus"), f.Tag("species")
	switch {
	case genus == "" && species == "":
		return "", "", false
	case genus == "":
		genus, _, _ = strings.Cut(species, " ")
	case species == "":
		species = genus
	}
	return genus, species, true
}

func classifyTown(f Feature) (string, string, bool) {
	if !townPlaces[f.Tag("place")] || !f.HasName() {
		return "", "", false
	}
	name := strings.TrimSpace(f.Name)
	r, _ := utf8.DecodeRuneInString(name)
	return index.Unaccent(string(r)), name, true
}

func classifyGeneral(f Feature) (string, string, bool) {
	if !f.HasName() {
		return "", "", false
	}
	for _, tag := range generalTags {
		if v := f.Tag(tag); v != "" {
			return humanize(v), strings.TrimSpace(f.Name), true
		}
	}
	return "", "", false
}

// isAdmin reports whether f is an administrative boundary of level.
func isAdmin(f Feature, level string) bool {
	return f.Tag("boundary") == "administrative" && f.Tag("admin_level") == level && f.HasName()
}

// noteLabel numbers a note and bounds its length.
func noteLabel(n int, text string) string {
	label := fmt.Sprintf("Note %d - %s", n, text)
	if utf8.RuneCountInString(label) > maxNoteLabel {
		label = string([]rune(label)[:maxNoteLabel])
	}
	return label
}

// humanize turns a tag value like "fast_food" into "Fast food".
func humanize(v string) string {
	v = strings.ReplaceAll(v, "_", " ")
	r, size := utf8.DecodeRuneInString(v)
	return strings.ToUpper(string(r)) + v[size:]
}
