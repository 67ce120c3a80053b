package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CellKind tells which field of a Cell holds the value
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellNumber
	CellString
)

// Cell is a single spreadsheet value. Workbooks written by spreadsheet
// tooling mix native numbers with numbers stored as text, so ParseCell
// coerces numeric-looking text to CellNumber.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
}

// NumberCell returns a numeric cell. NaN becomes an empty cell.
func NumberCell(f float64) Cell {
	if math.IsNaN(f) {
		return Cell{}
	}
	return Cell{Kind: CellNumber, Num: f}
}

// StringCell returns a text cell without coercion.
func StringCell(s string) Cell {
	return Cell{Kind: CellString, Str: s}
}

// naMarkers are the texts read as missing values. Matching is case-sensitive.
var naMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// ParseCell converts raw cell text into a Cell. Missing-value markers
// such as "N/A" or "NULL" become empty cells.
func ParseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if _, ok := naMarkers[s]; ok {
		return Cell{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
		return NumberCell(f)
	}
	return StringCell(raw)
}

func (c Cell) IsEmpty() bool  { return c.Kind == CellEmpty }
func (c Cell) IsNumber() bool { return c.Kind == CellNumber }

// String renders the cell the way it would appear unformatted.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellString:
		return c.Str
	default:
		return ""
	}
}

// MarshalJSON writes numbers as JSON numbers, text as strings and empty
// cells as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellNumber:
		return json.Marshal(c.Num)
	case CellString:
		return json.Marshal(c.Str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, numbers and strings. Strings are kept as text
// so that a cached report round-trips unchanged.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Cell{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("cell unmarshal: %w", err)
		}
		*c = StringCell(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("cell unmarshal: %w", err)
	}
	*c = NumberCell(f)
	return nil
}
