package index

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders labels according to a language's conventions. It is
// safe for concurrent use.
type Collator struct {
	mu  sync.Mutex
	c   *collate.Collator
	tag language.Tag
}

// NewCollator returns a collator for tag. With natural set, digit runs
// compare by value and case is ignored, so "Rue 9" sorts before "rue 10".
func NewCollator(tag language.Tag, natural bool) *Collator {
	var opts []collate.Option
	if natural {
		opts = append(opts, collate.Numeric, collate.IgnoreCase)
	}
	return &Collator{c: collate.New(tag, opts...), tag: tag}
}

// Language returns the collation language.
func (c *Collator) Language() language.Tag { return c.tag }

// Compare returns -1, 0 or 1.
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}

// NaturalCompare compares strings chunk by chunk, ordering digit runs by
// numeric value and everything else bytewise. It needs no locale and is
// used for grid references.
func NaturalCompare(a, b string) int {
	for a != "" && b != "" {
		ca, ra := nextChunk(a)
		cb, rb := nextChunk(b)
		if isDigit(ca[0]) && isDigit(cb[0]) {
			if c := compareDigits(ca, cb); c != 0 {
				return c
			}
		} else if c := strings.Compare(ca, cb); c != 0 {
			return c
		}
		a, b = ra, rb
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	}
	return 1
}

// NaturalLess reports whether a sorts before b under NaturalCompare.
func NaturalLess(a, b string) bool { return NaturalCompare(a, b) < 0 }

func nextChunk(s string) (chunk, rest string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// IsRTL reports whether tag is usually written right to left. Grids and
// location strings are mirrored for such languages.
func IsRTL(tag language.Tag) bool {
	script, _ := tag.Script()
	switch script.String() {
	case "Arab", "Hebr", "Thaa", "Syrc", "Nkoo", "Adlm":
		return true
	}
	return false
}
