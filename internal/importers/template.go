package importers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type templateSheet struct {
	name    string
	headers []string
	rows    [][]any
}

var templateSheets = []templateSheet{
	{
		name: "English",
		headers: []string{
			"title", "description", "date", "category", "tags",
			"isImportant", "initiator", "mediationAttempt", "chatExtract",
		},
		rows: [][]any{
			{
				"Handover at school", "Pickup was 40 minutes late without notice.", "15.03.2024",
				"childcare", "handover, school", "yes", "other parent", "", "",
			},
			{
				"Phone call about holidays", "Discussed the summer schedule, no agreement.", "2024-04-02",
				"conversation", "holidays", "no", "me", "suggested a mediator", "",
			},
		},
	},
	{
		name: "Deutsch",
		headers: []string{
			"Titel", "Beschreibung", "Datum", "Kategorie", "Schlagwörter",
			"Wichtig", "Initiiert von", "Vermittlungsversuch", "Chatauszug",
		},
		rows: [][]any{
			{
				"Übergabe an der Schule", "Abholung 40 Minuten zu spät, ohne Nachricht.", "15.03.2024",
				"Kindbetreuung", "Übergabe, Schule", "ja", "anderer Elternteil", "", "",
			},
			{
				"Telefonat zu den Ferien", "Sommerplanung besprochen, keine Einigung.", "02.04.2024",
				"Gespräch", "Ferien", "nein", "ich", "Mediation vorgeschlagen", "",
			},
		},
	},
}

// WriteTemplate writes an .xlsx workbook with one example sheet per supported
// header language.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range templateSheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet.name, err)
		}

		header := make([]any, len(sheet.headers))
		for j, h := range sheet.headers {
			header[j] = h
		}
		if err := f.SetSheetRow(sheet.name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header of %q: %w", sheet.name, err)
		}

		for j, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			values := row
			if err := f.SetSheetRow(sheet.name, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d of %q: %w", j+2, sheet.name, err)
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}
