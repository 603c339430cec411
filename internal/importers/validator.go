package importers

import (
	"fmt"
	"strings"
)

// headerOffset converts a zero-based data index into the row number a user
// sees in their spreadsheet, where row 1 holds the headers.
const headerOffset = 2

// ImportPreview summarizes a parsed file before anything is persisted.
type ImportPreview struct {
	ValidRows    []RawRow `json:"-"`
	TotalRows    int      `json:"total_rows"`
	ValidCount   int      `json:"valid_rows"`
	InvalidCount int      `json:"invalid_rows"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
}

// ValidateRows partitions rows into valid and invalid ones. Every problem of an
// invalid row is reported; valid rows keep their file order.
func ValidateRows(rows []RawRow) ImportPreview {
	preview := ImportPreview{
		ValidRows: make([]RawRow, 0, len(rows)),
		TotalRows: len(rows),
		Errors:    []string{},
		Warnings:  []string{},
	}

	for i, row := range rows {
		rowNum := i + headerOffset
		rowErrors := validateRow(row, rowNum)
		if len(rowErrors) > 0 {
			preview.InvalidCount++
			preview.Errors = append(preview.Errors, rowErrors...)
			continue
		}

		if raw := Resolve(row, FieldDate); raw != "" && IsAmbiguousDate(raw) {
			date, _ := NormalizeDate(raw)
			preview.Warnings = append(preview.Warnings,
				fmt.Sprintf("row %d: ambiguous date (%s), read as day first (%s).", rowNum, raw, date.Format("2006-01-02")))
		}

		preview.ValidRows = append(preview.ValidRows, row)
		preview.ValidCount++
	}

	return preview
}

func validateRow(row RawRow, rowNum int) []string {
	var errs []string

	if Resolve(row, FieldTitle) == "" {
		errs = append(errs, fmt.Sprintf("row %d: title missing.", rowNum))
	}
	if Resolve(row, FieldDescription) == "" {
		errs = append(errs, fmt.Sprintf("row %d: description missing.", rowNum))
	}

	_, dateValue := lookup(row, FieldDate)
	if dateValue != nil {
		if _, ok := NormalizeDate(dateValue); !ok {
			errs = append(errs, fmt.Sprintf("row %d: invalid date format (%s).", rowNum, strings.TrimSpace(cellString(dateValue))))
		}
	}

	return errs
}
