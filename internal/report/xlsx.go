package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func writeXLSX(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := r.values()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// values keeps numbers numeric in the workbook; nil fields are left blank.
func (r Row) values() []interface{} {
	out := []interface{}{r.Act, r.Scene, r.Speaker, r.SentenceNumber, r.Text, nil, nil, nil, nil}
	if r.LocalLabel != nil {
		out[5] = string(*r.LocalLabel)
	}
	if r.LocalScore != nil {
		out[6] = *r.LocalScore
	}
	if r.MainEmotion != nil {
		out[7] = string(*r.MainEmotion)
	}
	if r.Sentiment != nil {
		out[8] = string(*r.Sentiment)
	}
	return out
}

func readXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, err := f.GetSheetIndex(SheetName); err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}

	// Raw values keep full float precision for flair_score
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return decode(raw)
}

// decode parses a header row followed by data rows.
func decode(raw [][]string) ([]Row, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("report is empty")
	}
	if err := checkHeader(raw[0]); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(raw)-1)
	for i, cells := range raw[1:] {
		if blank(cells) {
			continue
		}
		row, err := parseRow(cells)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
