package index

import (
	"strings"

	"github.com/pi-bie/ocitysmap/pkg/errors"
)

// Kind identifies what an index lists.
type Kind int

const (
	KindStreet Kind = iota
	KindHealth
	KindTree
	KindTown
	KindAdmin
	KindNotes
	KindPoi
	KindGeneral
)

var kindNames = [...]string{
	KindStreet:  "Street",
	KindHealth:  "Health",
	KindTree:    "Tree",
	KindTown:    "Town",
	KindAdmin:   "Admin",
	KindNotes:   "Notes",
	KindPoi:     "Poi",
	KindGeneral: "General",
}

var kindDescriptions = [...]string{
	KindStreet:  "Streets, amenities and villages",
	KindHealth:  "Healthcare facilities",
	KindTree:    "Tree genus and species",
	KindTown:    "Cities and towns",
	KindAdmin:   "Administrative boundaries",
	KindNotes:   "Map notes",
	KindPoi:     "Points of interest",
	KindGeneral: "All named features",
}

// String returns the kind name used on the command line.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Description returns a one-line human description.
func (k Kind) Description() string {
	if k < 0 || int(k) >= len(kindDescriptions) {
		return ""
	}
	return kindDescriptions[k]
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind resolves a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown index kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
