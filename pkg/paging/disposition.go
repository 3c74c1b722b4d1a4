package paging

import (
	"encoding/json"
)

// DispositionTable maps every page slot (row, col) to its page number.
// Row 0 is the northern row. Culled slots hold 0.
type DispositionTable struct {
	rows, cols int
	cells      []int
	pos        map[int]int
}

// NewDispositionTable returns an empty rows×cols table.
func NewDispositionTable(rows, cols int) *DispositionTable {
	return &DispositionTable{
		rows:  rows,
		cols:  cols,
		cells: make([]int, rows*cols),
		pos:   make(map[int]int),
	}
}

// Rows returns the row count.
func (d *DispositionTable) Rows() int { return d.rows }

// Cols returns the column count.
func (d *DispositionTable) Cols() int { return d.cols }

// Set records page number at (row, col). A zero page clears the slot.
func (d *DispositionTable) Set(row, col, page int) {
	i := row*d.cols + col
	if old := d.cells[i]; old != 0 {
		delete(d.pos, old)
	}
	d.cells[i] = page
	if page != 0 {
		d.pos[page] = i
	}
}

// At returns the page at (row, col) and whether the slot holds one.
// Out-of-range positions report false.
func (d *DispositionTable) At(row, col int) (int, bool) {
	if row < 0 || col < 0 || row >= d.rows || col >= d.cols {
		return 0, false
	}
	p := d.cells[row*d.cols+col]
	return p, p != 0
}

// Position returns the slot of page.
func (d *DispositionTable) Position(page int) (row, col int, ok bool) {
	i, ok := d.pos[page]
	if !ok {
		return 0, 0, false
	}
	return i / d.cols, i % d.cols, true
}

// Neighbors holds the nearest page in each direction, 0 when none.
type Neighbors struct {
	North int `json:"north,omitempty"`
	South int `json:"south,omitempty"`
	East  int `json:"east,omitempty"`
	West  int `json:"west,omitempty"`
}

// Neighbors returns the closest visible page in each compass direction,
// skipping culled slots. ok is false for an unknown page.
func (d *DispositionTable) Neighbors(page int) (n Neighbors, ok bool) {
	row, col, ok := d.Position(page)
	if !ok {
		return Neighbors{}, false
	}
	n.North = d.scan(row, col, -1, 0)
	n.South = d.scan(row, col, 1, 0)
	n.West = d.scan(row, col, 0, -1)
	n.East = d.scan(row, col, 0, 1)
	return n, true
}

func (d *DispositionTable) scan(row, col, dr, dc int) int {
	for r, c := row+dr, col+dc; r >= 0 && c >= 0 && r < d.rows && c < d.cols; r, c = r+dr, c+dc {
		if p := d.cells[r*d.cols+c]; p != 0 {
			return p
		}
	}
	return 0
}

// Grid returns the table as rows of page numbers, 0 for culled slots.
func (d *DispositionTable) Grid() [][]int {
	out := make([][]int, d.rows)
	for r := range out {
		out[r] = append([]int(nil), d.cells[r*d.cols:(r+1)*d.cols]...)
	}
	return out
}

// MarshalJSON encodes the table as its row grid.
func (d *DispositionTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Grid())
}

// UnmarshalJSON rebuilds the table from a row grid.
func (d *DispositionTable) UnmarshalJSON(b []byte) error {
	var grid [][]int
	if err := json.Unmarshal(b, &grid); err != nil {
		return err
	}
	cols := 0
	if len(grid) > 0 {
		cols = len(grid[0])
	}
	*d = *NewDispositionTable(len(grid), cols)
	for r, row := range grid {
		for c, p := range row {
			if c < cols {
				d.Set(r, c, p)
			}
		}
	}
	return nil
}
