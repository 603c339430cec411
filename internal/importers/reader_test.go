package importers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"log.csv", FormatCSV},
		{"LOG.CSV", FormatCSV},
		{"export.xlsx", FormatXLSX},
		{"old.xls", FormatXLS},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.filename)
		require.NoError(t, err, tt.filename)
		assert.Equal(t, tt.want, got)
	}

	_, err := DetectFormat("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = DetectFormat("noextension")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadRows_CSV(t *testing.T) {
	data := "Title,Description,Date\nTalked to neighbor,Loud noise complaint,15.03.2024\n"

	rows, err := ReadRows("log.csv", strings.NewReader(data))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Talked to neighbor", rows[0]["title"])
	assert.Equal(t, "Loud noise complaint", rows[0]["description"])
	assert.Equal(t, "15.03.2024", rows[0]["date"])
}

func TestReadRows_CSVSemicolonAndBOM(t *testing.T) {
	data := "\xef\xbb\xbfTitel;Beschreibung;Datum\n\"Streit; laut\";Nachbar beschwert sich;01.02.2024\n"

	rows, err := ReadRows("log.csv", strings.NewReader(data))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Streit; laut", rows[0]["titel"])
	assert.Equal(t, "01.02.2024", rows[0]["datum"])
}

func TestReadRows_CSVWindows1252(t *testing.T) {
	data := []byte("Titel;Beschreibung\nGespr\xe4ch;Gr\xfc\xdfe\n")

	rows, err := ReadRows("log.csv", bytes.NewReader(data))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Gespräch", rows[0]["titel"])
	assert.Equal(t, "Grüße", rows[0]["beschreibung"])
}

func TestReadRows_CSVDropsBlankAndShortRows(t *testing.T) {
	data := "title,description,date\n,,\nA,B,01.01.2024\nOnly title\n"

	rows, err := ReadRows("log.csv", strings.NewReader(data))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0]["title"])
	assert.Equal(t, "Only title", rows[1]["title"])
	_, hasDescription := rows[1]["description"]
	assert.False(t, hasDescription)
}

func TestReadRows_Errors(t *testing.T) {
	_, err := ReadRows("log.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ReadRows("log.pdf", strings.NewReader("title\nA\n"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadRows("log.xlsx", strings.NewReader("definitely not a zip archive"))
	assert.Error(t, err)
}

func TestReadRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Title", "Description", "Date", "Tags"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Handover", "Late pickup", 45366, "school, handover"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Call", "Holiday plans", "02.04.2024"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, err := ReadRows("log.xlsx", &buf)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Handover", rows[0]["title"])
	assert.Equal(t, "45366", rows[0]["date"])
	assert.Equal(t, "Call", rows[1]["title"])

	date, ok := NormalizeDate(rows[0]["date"])
	require.True(t, ok)
	assert.Equal(t, day(2024, 3, 15), date)
}
