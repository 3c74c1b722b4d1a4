package paging

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// 0 marks a culled slot:
//
//	1 2 0
//	0 3 4
//	5 0 6
func sampleTable() *DispositionTable {
	d := NewDispositionTable(3, 3)
	for r, row := range [][]int{{1, 2, 0}, {0, 3, 4}, {5, 0, 6}} {
		for c, p := range row {
			d.Set(r, c, p)
		}
	}
	return d
}

func TestDispositionAt(t *testing.T) {
	d := sampleTable()
	if p, ok := d.At(1, 2); !ok || p != 4 {
		t.Errorf("At(1, 2) = (%d, %v), want (4, true)", p, ok)
	}
	if _, ok := d.At(0, 2); ok {
		t.Error("At(0, 2) ok = true for a culled slot")
	}
	if _, ok := d.At(5, 0); ok {
		t.Error("At(5, 0) ok = true out of range")
	}
}

func TestDispositionNeighbors(t *testing.T) {
	d := sampleTable()
	tests := []struct {
		page int
		want Neighbors
	}{
		{1, Neighbors{South: 5, East: 2}},
		{3, Neighbors{North: 2, East: 4}},
		{5, Neighbors{North: 1, East: 6}},
		{4, Neighbors{South: 6, West: 3}},
	}
	for _, tt := range tests {
		got, ok := d.Neighbors(tt.page)
		if !ok {
			t.Fatalf("Neighbors(%d) ok = false", tt.page)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Neighbors(%d) mismatch (-want +got):\n%s", tt.page, diff)
		}
	}
	if _, ok := d.Neighbors(42); ok {
		t.Error("Neighbors(42) ok = true for unknown page")
	}
}

func TestDispositionJSON(t *testing.T) {
	d := sampleTable()
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	var back DispositionTable
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d.Grid(), back.Grid()); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
	if r, c, ok := back.Position(6); !ok || r != 2 || c != 2 {
		t.Errorf("Position(6) = (%d, %d, %v), want (2, 2, true)", r, c, ok)
	}
}
