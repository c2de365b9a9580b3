package export

import (
	"fmt"
	"time"

	"github.com/foodscore/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// HistorySheet is the worksheet holding exported analyses
const HistorySheet = "History"

var historyHeaders = []string{
	"Analyzed At",
	"Product",
	"Barcode",
	"Source",
	"Score",
	"Band",
	"Score Impact",
	"Ingredients",
	"Analysis ID",
}

// HistoryXLSX renders history entries as a single-sheet workbook, one row per analysis
func HistoryXLSX(entries []domain.HistoryEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(HistorySheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range historyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(HistorySheet, cell, h)
	}

	for i, e := range entries {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(HistorySheet, cell, v)
		}

		write(1, e.CreatedAt.UTC().Format(time.RFC3339))
		write(2, e.ProductName)
		write(3, e.Barcode)
		write(4, e.Source)
		write(5, e.Score)
		write(6, string(e.Band))
		write(7, e.ScoreImpact)
		write(8, e.IngredientsCount)
		write(9, e.ID)
	}

	_ = f.SetColWidth(HistorySheet, "A", "A", 22)
	_ = f.SetColWidth(HistorySheet, "B", "B", 36)
	_ = f.SetColWidth(HistorySheet, "C", "D", 16)
	_ = f.SetColWidth(HistorySheet, "E", "H", 12)
	_ = f.SetColWidth(HistorySheet, "I", "I", 38)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
