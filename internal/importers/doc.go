// Package importers turns spreadsheet files into communication log entries.
//
// # Architecture
//
// An import follows a fixed flow:
//
//	File (.csv/.xlsx/.xls) → ReadRows → RawRow → ValidateRows → ImportPreview → Commit → EntryCreator
//
// ReadRows keys every data row by its lower-cased header. ValidateRows checks
// each row independently and reports problems by the row number the user sees
// in their spreadsheet. Rows that pass are turned into a ParsedEntryCandidate
// by BuildCandidate, which applies the field aliases, MapCategory and
// NormalizeDate, and only then into an entities.Entry.
//
// # Sessions
//
// A Session holds one file between preview and commit:
//
//	idle → parsing → previewed → committing → complete
//
// Commit writes rows one at a time in file order. A failing row is recorded in
// the ImportResult and the next row is attempted; nothing already stored is
// rolled back. Once complete, a session refuses further commits until a new
// file is loaded into it.
//
// The Registry keeps sessions between HTTP requests and drops idle ones via
// PurgeExpired.
//
// # Adding a Header Language
//
// Append the new headers to FieldAliases and the category labels to
// categoryAliases. Add a sheet to templateSheets so the downloadable template
// shows the new spelling.
//
// # Example Usage
//
//	registry := importers.NewRegistry(entryService, 30*time.Minute)
//
//	session := registry.Create(userID)
//	preview, err := session.Load(ctx, "log.xlsx", file)
//	// show preview.Errors and preview.Warnings
//
//	result, err := session.Commit(ctx, userID)
package importers
