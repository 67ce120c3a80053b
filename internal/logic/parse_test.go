package logic

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hoopsreport/dashboard/internal/models"
)

func sampleSummary() models.Sheet {
	return models.Sheet{
		Name: models.SummarySheet,
		Columns: []string{
			models.ColTime, "Matchup", models.ColPredictedScore, models.ColWinProbability,
			models.ColTeamAEff, models.ColTeamAShoot, models.ColTeamADelta,
			models.ColTeamBEff, models.ColTeamBShoot, models.ColTeamBDelta,
		},
		Rows: [][]models.Cell{
			{
				models.StringCell("9:00 PM"), models.StringCell("Gonzaga vs Saint Mary's"), models.StringCell("74-70"), models.NumberCell(0.6123),
				models.NumberCell(118.46), models.NumberCell(55.21), models.NumberCell(-2.31),
				models.NumberCell(112.04), models.NumberCell(52.9), models.NumberCell(1.26),
			},
			{
				models.StringCell("7:00 PM"), models.StringCell("Duke vs North Carolina"), models.StringCell("78-75"), models.NumberCell(0.5561),
				models.NumberCell(120.11), models.NumberCell(54.04), models.NumberCell(0),
				models.NumberCell(117.5), models.NumberCell(53.33), {},
			},
		},
	}
}

func sampleRaw() models.Sheet {
	return models.Sheet{
		Name:    models.RawDataSheet,
		Columns: []string{"Team", "AdjO", "AdjD"},
		Rows: [][]models.Cell{
			{models.StringCell("Duke"), models.NumberCell(120.11), models.NumberCell(95.3)},
			{models.StringCell("North Carolina"), models.NumberCell(117.5), models.NumberCell(96.12)},
		},
	}
}

func buildSample(t *testing.T, sheets ...models.Sheet) []byte {
	t.Helper()
	data, err := BuildWorkbook(sheets...)
	if err != nil {
		t.Fatalf("BuildWorkbook: %v", err)
	}
	return data
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		date    string
		wantErr bool
	}{
		{"2024-03-01", false},
		{"2024-02-29", false},
		{"2023-02-29", true},
		{"2024-3-1", true},
		{"03/01/2024", true},
		{"", true},
		{"../2024-03-01", true},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			err := ValidateDate(tt.date)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDate(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDate) {
				t.Errorf("error %v is not ErrInvalidDate", err)
			}
		})
	}
}

func TestParseReport(t *testing.T) {
	data := buildSample(t, sampleSummary(), sampleRaw())

	report, err := ParseReport("2024-03-01", data)
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}

	if report.Date != "2024-03-01" {
		t.Errorf("Date = %q", report.Date)
	}
	if report.LoadedAt.IsZero() {
		t.Error("LoadedAt should be set")
	}

	s := report.Summary
	if len(s.Columns) != 10 {
		t.Fatalf("summary columns = %v", s.Columns)
	}
	if len(s.Rows) != 2 {
		t.Fatalf("summary rows = %d; want 2", len(s.Rows))
	}
	if got := s.Rows[0][0]; got.Kind != models.CellString || got.Str != "9:00 PM" {
		t.Errorf("time cell = %+v", got)
	}
	if got := s.Rows[0][3]; !got.IsNumber() || got.Num != 0.6123 {
		t.Errorf("win probability cell = %+v", got)
	}
	if got := s.Rows[1][9]; !got.IsEmpty() {
		t.Errorf("blank delta cell = %+v; want empty", got)
	}

	if len(report.RawData.Rows) != 2 || report.RawData.Columns[1] != "AdjO" {
		t.Errorf("raw data = %+v", report.RawData)
	}
}

func TestParseReport_MissingSheet(t *testing.T) {
	data := buildSample(t, sampleSummary())

	_, err := ParseReport("2024-03-01", data)
	if !errors.Is(err, ErrSheetMissing) {
		t.Fatalf("error = %v; want ErrSheetMissing", err)
	}
}

func TestParseReport_NotAWorkbook(t *testing.T) {
	if _, err := ParseReport("2024-03-01", []byte("definitely not xlsx")); err == nil {
		t.Fatal("expected error for invalid workbook")
	}
}

func TestParseReport_HeaderAndBlankRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", models.SummarySheet); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet(models.RawDataSheet); err != nil {
		t.Fatal(err)
	}
	// header: Team, <blank>, Team ; one blank row between two data rows
	f.SetCellValue(models.SummarySheet, "A1", "Team")
	f.SetCellValue(models.SummarySheet, "C1", "Team")
	f.SetCellValue(models.SummarySheet, "A2", "Duke")
	f.SetCellValue(models.SummarySheet, "B2", "12.5")
	f.SetCellValue(models.SummarySheet, "A4", "Kansas")
	f.SetCellValue(models.SummarySheet, "D4", 3)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	report, err := ParseReport("2024-03-01", buf.Bytes())
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}

	want := []string{"Team", "Unnamed: 1", "Team.1", "Unnamed: 3"}
	got := report.Summary.Columns
	if len(got) != len(want) {
		t.Fatalf("columns = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q; want %q", i, got[i], want[i])
		}
	}

	if len(report.Summary.Rows) != 2 {
		t.Fatalf("rows = %d; want 2 (blank row dropped)", len(report.Summary.Rows))
	}
	if c := report.Summary.Rows[0][1]; !c.IsNumber() || c.Num != 12.5 {
		t.Errorf("numeric text should be coerced, got %+v", c)
	}
	if len(report.Summary.Rows[0]) != 4 {
		t.Errorf("short row should be padded to 4 cells, got %d", len(report.Summary.Rows[0]))
	}
	if len(report.RawData.Rows) != 0 || len(report.RawData.Columns) != 0 {
		t.Errorf("empty raw sheet = %+v", report.RawData)
	}
}

func TestBuildWorkbook_NoSheets(t *testing.T) {
	if _, err := BuildWorkbook(); err == nil {
		t.Error("expected error")
	}
}
