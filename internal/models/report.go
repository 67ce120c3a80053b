package models

import "time"

// Sheet names inside a scouting report workbook
const (
	SummarySheet = "Summary"
	RawDataSheet = "Raw Data"
)

// Summary sheet columns with dedicated display rules
const (
	ColTime           = "Time (ET)"
	ColPredictedScore = "PredictedScore"
	ColWinProbability = "WinProbability"
	ColTeamAEff       = "Team A (Eff)"
	ColTeamAShoot     = "Team A (Shoot)"
	ColTeamADelta     = "TeamA (Delta)"
	ColTeamBEff       = "Team B (Eff)"
	ColTeamBShoot     = "Team B (Shoot)"
	ColTeamBDelta     = "TeamB (Delta)"
)

// DateLayout is the layout of report dates and object keys
const DateLayout = "2006-01-02"

// Sheet is one worksheet of a report: a header row and the data rows below it.
type Sheet struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// ColumnIndex returns the position of the named column, or -1.
func (s *Sheet) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Report is a parsed daily scouting report
type Report struct {
	Date     string    `json:"date"`
	Summary  Sheet     `json:"summary"`
	RawData  Sheet     `json:"raw_data"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Table is a display-ready rendition of a sheet
type Table struct {
	Columns []TableColumn  `json:"columns"`
	Rows    [][]StyledCell `json:"rows"`
	Height  int            `json:"height"`
}

// TableColumn describes a rendered column
type TableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Width string `json:"width,omitempty"` // "small", "medium", "large" or empty
	Align string `json:"align"`           // "left" or "right"
}

// StyledCell is the formatted text of a cell with an optional background
type StyledCell struct {
	Text       string `json:"text"`
	Background string `json:"background,omitempty"`
}

// SummaryResponse is the JSON body for a formatted report
type SummaryResponse struct {
	Date     string    `json:"date"`
	LoadedAt time.Time `json:"loaded_at"`
	Table    Table     `json:"table"`
}
