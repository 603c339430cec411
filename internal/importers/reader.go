package importers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("file has no header row")
)

// Format identifies how an uploaded file is parsed.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// DetectFormat dispatches on the file extension only.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ReadRows parses an uploaded file into raw rows keyed by lower-cased header.
func ReadRows(filename string, r io.Reader) ([]RawRow, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var table [][]string
	switch format {
	case FormatCSV:
		table, err = readCSV(data)
	case FormatXLSX:
		table, err = readXLSX(data)
	case FormatXLS:
		table, err = readXLS(data)
	}
	if err != nil {
		return nil, err
	}

	return tableToRows(table)
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		// Spreadsheet programs on Windows still default to cp1252 for CSV.
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.Comma = sniffDelimiter(data)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return records, nil
}

// sniffDelimiter picks the separator that occurs most often in the header line.
func sniffDelimiter(data []byte) rune {
	header := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		header = data[:idx]
	}

	best, bestCount := ',', bytes.Count(header, []byte{','})
	for _, candidate := range []rune{';', '\t'} {
		if n := bytes.Count(header, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	// Raw values keep date cells as serial numbers instead of locale formatted text.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrEmptyFile
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyFile
	}

	table := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			table = append(table, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		table = append(table, cells)
	}
	return table, nil
}

// tableToRows uses the first row as headers and maps every following row
// positionally. Blank rows are dropped. Cells stay text so leading zeros and
// date spellings reach the normalizers untouched.
func tableToRows(table [][]string) ([]RawRow, error) {
	if len(table) == 0 {
		return nil, ErrEmptyFile
	}

	headers := make([]string, len(table[0]))
	for i, h := range table[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]RawRow, 0, len(table)-1)
	for _, record := range table[1:] {
		row := make(RawRow, len(headers))
		blank := true
		for i, header := range headers {
			if header == "" || i >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[i])
			if cell != "" {
				blank = false
			}
			row[header] = cell
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
