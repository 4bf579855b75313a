package qlite

// Row maps column names to the values of one result row. A fetch clears
// the map and repopulates it, one entry per result column. Column names
// are unique within a row; treat a Row as keyed access, not positional.
type Row map[string]Value

func clearRow(row Row) {
	for k := range row {
		delete(row, k)
	}
}
