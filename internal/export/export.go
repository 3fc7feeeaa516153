// Package export renders water test history as CSV or an Excel workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/deepbluepool/poolchem/internal/chemistry"
	"github.com/deepbluepool/poolchem/internal/history"
)

// Service handles data export functionality.
type Service struct{}

// NewService creates a new export service instance.
func NewService() *Service {
	return &Service{}
}

// Data bundles the readings and metadata a workbook render needs.
type Data struct {
	Readings []*history.Reading
	Metadata Metadata
}

// Metadata describes the export itself.
type Metadata struct {
	GeneratedAt   time.Time
	DateRange     string
	Customer      string
	TotalReadings int
}

// CSVHeaders are the export columns, shared by the CSV and the workbook's
// readings sheet.
var CSVHeaders = []string{
	"Date", "Time", "Customer", "pH", "Free Chlorine", "Total Chlorine",
	"Alkalinity", "Calcium", "Cyanuric Acid", "Temperature", "Source",
}

// GenerateCSV renders readings as CSV records, header row first. Rows are
// written in the order given; optional measurements render as empty cells.
func (s *Service) GenerateCSV(readings []*history.Reading) ([][]string, error) {
	records := [][]string{CSVHeaders}

	for _, r := range readings {
		records = append(records, []string{
			r.RecordedAt.Format("2006-01-02"),
			r.RecordedAt.Format("15:04:05"),
			r.Customer,
			num(r.Chemistry.PH),
			num(r.Chemistry.FreeChlorine),
			optNum(r.Chemistry.TotalChlorine),
			num(r.Chemistry.TotalAlkalinity),
			num(r.Chemistry.CalciumHardness),
			optNum(r.Chemistry.CyanuricAcid),
			num(r.Chemistry.TemperatureF),
			r.Source,
		})
	}

	return records, nil
}

// WriteCSV writes CSV records to a writer.
func (s *Service) WriteCSV(w *csv.Writer, records [][]string) error {
	return w.WriteAll(records)
}

// GenerateExcel creates an Excel workbook with the reading history: a Summary
// sheet, the raw Readings and a derived Water Quality analysis per reading.
// The caller owns the returned file and closes it after writing.
func (s *Service) GenerateExcel(data Data) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetDocProps(&excelize.DocProperties{
		Category:       "Pool Water Chemistry",
		Created:        data.Metadata.GeneratedAt.Format(time.RFC3339),
		Creator:        "Deep Blue Pool Chemistry",
		Description:    "Water test history and quality analysis export",
		LastModifiedBy: "Deep Blue Pool Chemistry",
		Modified:       data.Metadata.GeneratedAt.Format(time.RFC3339),
		Subject:        "Water Test History",
		Title:          "Pool Chemistry Report",
		Version:        "1.0",
	})

	s.createSummarySheet(f, data)
	s.createReadingsSheet(f, data.Readings)
	s.createWaterQualitySheet(f, data.Readings)

	f.SetActiveSheet(0)

	return f, nil
}

// createSummarySheet creates the summary overview sheet.
func (s *Service) createSummarySheet(f *excelize.File, data Data) {
	sheetName := "Summary"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// Title
	f.SetCellValue(sheetName, "A1", "Deep Blue Pool Chemistry Report")
	f.MergeCell(sheetName, "A1", "D1")
	f.SetCellStyle(sheetName, "A1", "D1", headerStyle)
	f.SetRowHeight(sheetName, 1, 25)

	// Export metadata
	f.SetCellValue(sheetName, "A3", "Generated At:")
	f.SetCellValue(sheetName, "B3", data.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"))
	f.SetCellValue(sheetName, "A4", "Date Range:")
	f.SetCellValue(sheetName, "B4", data.Metadata.DateRange)
	f.SetCellValue(sheetName, "A5", "Customer:")
	f.SetCellValue(sheetName, "B5", data.Metadata.Customer)
	f.SetCellValue(sheetName, "A6", "Total Readings:")
	f.SetCellValue(sheetName, "B6", data.Metadata.TotalReadings)

	// Readings by source
	f.SetCellValue(sheetName, "A8", "Readings by Source")
	f.SetCellStyle(sheetName, "A8", "A8", headerStyle)

	counts := make(map[string]int)
	for _, r := range data.Readings {
		counts[r.Source]++
	}
	sources := make([]string, 0, len(counts))
	for src := range counts {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	row := 9
	for _, src := range sources {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), src+":")
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), counts[src])
		row++
	}

	// Column widths
	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "D", 15)
}

// createReadingsSheet creates the raw readings sheet.
func (s *Service) createReadingsSheet(f *excelize.File, readings []*history.Reading) {
	sheetName := "Readings"
	f.NewSheet(sheetName)

	for i, header := range CSVHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2E74B5"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	f.SetCellStyle(sheetName, "A1", "K1", headerStyle)

	// Data rows; optional measurements stay blank
	for i, r := range readings {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.RecordedAt.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.RecordedAt.Format("15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Customer)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Chemistry.PH)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Chemistry.FreeChlorine)
		if r.Chemistry.TotalChlorine != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), *r.Chemistry.TotalChlorine)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.Chemistry.TotalAlkalinity)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.Chemistry.CalciumHardness)
		if r.Chemistry.CyanuricAcid != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), *r.Chemistry.CyanuricAcid)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), r.Chemistry.TemperatureF)
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), r.Source)
	}

	// Format columns
	f.SetColWidth(sheetName, "A", "C", 14)
	f.SetColWidth(sheetName, "D", "K", 12)
}

// createWaterQualitySheet derives a quality and balance analysis per reading.
func (s *Service) createWaterQualitySheet(f *excelize.File, readings []*history.Reading) {
	sheetName := "Water Quality"
	f.NewSheet(sheetName)

	headers := []string{
		"Date", "pH", "Free Chlorine", "Alkalinity", "Calcium Hardness",
		"Quality Score", "Quality Status", "Saturation Index", "Water Balance",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"5B9BD5"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	f.SetCellStyle(sheetName, "A1", "I1", headerStyle)

	// Data rows
	for i, r := range readings {
		score, status := chemistry.QualityScore(r.Chemistry)
		index := chemistry.BalanceIndex(
			r.Chemistry.PH,
			r.Chemistry.TotalAlkalinity,
			r.Chemistry.CalciumHardness,
			r.Chemistry.TemperatureF,
		)
		balance := chemistry.BalanceStatusFor(index)

		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.RecordedAt.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Chemistry.PH)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Chemistry.FreeChlorine)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Chemistry.TotalAlkalinity)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Chemistry.CalciumHardness)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), score)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), string(status))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), index)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), string(balance))
	}

	// Format columns
	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "I", 15)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optNum(p *float64) string {
	if p == nil {
		return ""
	}
	return num(*p)
}
