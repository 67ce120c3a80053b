package logic

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hoopsreport/dashboard/internal/models"
)

// Delta cell backgrounds
const (
	NegativeDeltaColor = "#ffcdd2"
	PositiveDeltaColor = "#c8e6c9"
)

// SummaryTableHeight is the height in pixels of the scrollable summary table
const SummaryTableHeight = 800

type columnStyle struct {
	label  string
	width  string
	format func(models.Cell) models.StyledCell
}

var summaryColumns = map[string]columnStyle{
	models.ColTime:           {label: "Time (ET)", width: "small", format: formatTime},
	models.ColPredictedScore: {label: "Predicted Score", width: "small"},
	models.ColWinProbability: {label: "Win Prob", width: "small", format: formatPercent},
	models.ColTeamAEff:       {label: "Team A Eff", format: formatOneDecimal},
	models.ColTeamAShoot:     {label: "Team A Shoot", format: formatOneDecimal},
	models.ColTeamADelta:     {label: "Team A Δ", format: formatDelta},
	models.ColTeamBEff:       {label: "Team B Eff", format: formatOneDecimal},
	models.ColTeamBShoot:     {label: "Team B Shoot", format: formatOneDecimal},
	models.ColTeamBDelta:     {label: "Team B Δ", format: formatDelta},
}

// FormatSummary turns the Summary sheet into the games table: numbers are
// rounded to two decimals, win probabilities become percentages, rows are
// ordered by tip-off time and the delta columns are colored by sign.
// Columns that are absent from the sheet are skipped.
func FormatSummary(sheet models.Sheet) models.Table {
	// time serials are fractions of a day and must keep full precision
	timeIdx := sheet.ColumnIndex(models.ColTime)
	rows := roundRows(sheet.Rows, timeIdx)
	if timeIdx >= 0 {
		sortByTime(rows, timeIdx)
	}

	table := models.Table{Height: SummaryTableHeight}
	formatters := make([]func(models.Cell) models.StyledCell, len(sheet.Columns))
	for i, name := range sheet.Columns {
		col := models.TableColumn{Key: name, Label: name, Align: columnAlign(rows, i)}
		formatters[i] = formatPlain
		if style, ok := summaryColumns[name]; ok {
			col.Label = style.label
			col.Width = style.width
			if style.format != nil {
				formatters[i] = style.format
			}
		}
		table.Columns = append(table.Columns, col)
	}

	for _, r := range rows {
		out := make([]models.StyledCell, len(r))
		for i, c := range r {
			out[i] = formatters[i](c)
		}
		table.Rows = append(table.Rows, out)
	}
	return table
}

// FormatSheet renders any sheet with numbers rounded to two decimals and no
// column-specific styling.
func FormatSheet(sheet models.Sheet) models.Table {
	rows := roundRows(sheet.Rows, -1)
	table := models.Table{}
	for i, name := range sheet.Columns {
		table.Columns = append(table.Columns, models.TableColumn{Key: name, Label: name, Align: columnAlign(rows, i)})
	}
	for _, r := range rows {
		out := make([]models.StyledCell, len(r))
		for i, c := range r {
			out[i] = formatPlain(c)
		}
		table.Rows = append(table.Rows, out)
	}
	return table
}

// roundRows copies rows with numbers rounded to two decimals, leaving the
// column at skip untouched.
func roundRows(in [][]models.Cell, skip int) [][]models.Cell {
	out := make([][]models.Cell, len(in))
	for i, r := range in {
		row := make([]models.Cell, len(r))
		for j, c := range r {
			if c.IsNumber() && j != skip {
				c.Num = round2(c.Num)
			}
			row[j] = c
		}
		out[i] = row
	}
	return out
}

// round2 rounds to two places, half to even.
func round2(f float64) float64 {
	return math.RoundToEven(f*100) / 100
}

// columnAlign right-aligns columns whose non-empty values are all numeric.
func columnAlign(rows [][]models.Cell, idx int) string {
	numeric := false
	for _, r := range rows {
		if idx >= len(r) || r[idx].IsEmpty() {
			continue
		}
		if !r[idx].IsNumber() {
			return "left"
		}
		numeric = true
	}
	if numeric {
		return "right"
	}
	return "left"
}

func formatPlain(c models.Cell) models.StyledCell {
	return models.StyledCell{Text: c.String()}
}

func formatOneDecimal(c models.Cell) models.StyledCell {
	if !c.IsNumber() {
		return formatPlain(c)
	}
	return models.StyledCell{Text: strconv.FormatFloat(c.Num, 'f', 1, 64)}
}

func formatPercent(c models.Cell) models.StyledCell {
	if !c.IsNumber() {
		return formatPlain(c)
	}
	return models.StyledCell{Text: fmt.Sprintf("%.1f%%", c.Num*100)}
}

func formatDelta(c models.Cell) models.StyledCell {
	if !c.IsNumber() {
		return formatPlain(c)
	}
	color := PositiveDeltaColor
	if c.Num < 0 {
		color = NegativeDeltaColor
	}
	return models.StyledCell{Text: fmt.Sprintf("%+.1f", c.Num), Background: color}
}

func formatTime(c models.Cell) models.StyledCell {
	if m, ok := serialMinutes(c); ok {
		return models.StyledCell{Text: clockText(m)}
	}
	return formatPlain(c)
}

// serialMinutes reads a spreadsheet time serial. Full date-time serials
// keep only their fractional time of day.
func serialMinutes(c models.Cell) (int, bool) {
	if !c.IsNumber() || c.Num < 0 || math.IsInf(c.Num, 0) {
		return 0, false
	}
	_, frac := math.Modf(c.Num)
	return int(math.Round(frac*24*60)) % (24 * 60), true
}

func clockText(minutes int) string {
	t := time.Date(2000, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

var clockLayouts = []string{"3:04 PM", "3:04PM", "3 PM", "3PM", "15:04", "15:04:05"}

// parseClock reads tip-off times such as "7:00 PM", "7:00 pm ET" or "19:00"
// and returns minutes after midnight.
func parseClock(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "ET"))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

type timeKey struct {
	rank    int // 0 clock time, 1 other text, 2 empty
	minutes int
	text    string
}

func timeSortKey(c models.Cell) timeKey {
	if c.IsEmpty() {
		return timeKey{rank: 2}
	}
	if m, ok := serialMinutes(c); ok {
		return timeKey{rank: 0, minutes: m}
	}
	if m, ok := parseClock(c.String()); ok {
		return timeKey{rank: 0, minutes: m}
	}
	return timeKey{rank: 1, text: c.String()}
}

func (a timeKey) less(b timeKey) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	if a.rank == 0 {
		return a.minutes < b.minutes
	}
	return a.text < b.text
}

func sortByTime(rows [][]models.Cell, idx int) {
	type keyed struct {
		key timeKey
		row []models.Cell
	}
	tmp := make([]keyed, len(rows))
	for i, r := range rows {
		k := timeKey{rank: 2}
		if idx < len(r) {
			k = timeSortKey(r[idx])
		}
		tmp[i] = keyed{key: k, row: r}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		return tmp[i].key.less(tmp[j].key)
	})
	for i := range tmp {
		rows[i] = tmp[i].row
	}
}
