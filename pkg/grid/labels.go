package grid

import "strconv"

// ColumnLabel returns the base-26 letter label of the zero-based column
// index: 0 → A, 25 → Z, 26 → AA, 27 → AB.
func ColumnLabel(x int) string {
	if x < 0 {
		return ""
	}
	var buf []byte
	for x != -1 {
		buf = append([]byte{byte('A' + x%26)}, buf...)
		x = x/26 - 1
	}
	return string(buf)
}

// RowLabel returns the 1-based row label of the zero-based row index.
func RowLabel(y int) string {
	return strconv.Itoa(y + 1)
}
