package logic

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hoopsreport/dashboard/internal/models"
)

var (
	// ErrSheetMissing is returned when a workbook lacks a required sheet
	ErrSheetMissing = errors.New("sheet missing")
	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form
	ErrInvalidDate = errors.New("invalid date")
)

// ValidateDate checks that date is a real calendar day in YYYY-MM-DD form.
func ValidateDate(date string) error {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil || t.Format(models.DateLayout) != date {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// ParseReport reads the Summary and Raw Data sheets out of an xlsx workbook.
func ParseReport(date string, data []byte) (*models.Report, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	summary, err := readSheet(f, models.SummarySheet)
	if err != nil {
		return nil, err
	}
	raw, err := readSheet(f, models.RawDataSheet)
	if err != nil {
		return nil, err
	}

	return &models.Report{
		Date:     date,
		Summary:  *summary,
		RawData:  *raw,
		LoadedAt: time.Now().UTC(),
	}, nil
}

func readSheet(f *excelize.File, name string) (*models.Sheet, error) {
	if !hasSheet(f, name) {
		return nil, fmt.Errorf("%w: %q", ErrSheetMissing, name)
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	sheet := &models.Sheet{Name: name}
	if len(rows) == 0 {
		return sheet, nil
	}

	width := len(rows[0])
	for _, r := range rows[1:] {
		if len(r) > width {
			width = len(r)
		}
	}
	sheet.Columns = headerNames(rows[0], width)

	for _, r := range rows[1:] {
		if isBlankRow(r) {
			continue
		}
		cells := make([]models.Cell, width)
		for i, raw := range r {
			cells[i] = models.ParseCell(raw)
		}
		sheet.Rows = append(sheet.Rows, cells)
	}
	return sheet, nil
}

func hasSheet(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// headerNames names blank headers "Unnamed: N" and suffixes duplicates
// with ".1", ".2", ... so every column key is unique.
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

func isBlankRow(r []string) bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
