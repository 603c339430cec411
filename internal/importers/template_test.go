package importers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mrlokans/commlog/internal/entities"
)

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"English", "Deutsch"}, f.GetSheetList())

	for _, name := range f.GetSheetList() {
		t.Run(name, func(t *testing.T) {
			table, err := f.GetRows(name)
			require.NoError(t, err)
			require.Len(t, table, 3)

			rows, err := tableToRows(table)
			require.NoError(t, err)

			preview := ValidateRows(rows)
			assert.Equal(t, 2, preview.ValidCount)
			assert.Empty(t, preview.Errors)

			first := BuildCandidate(preview.ValidRows[0], day(2024, 1, 1))
			assert.Equal(t, entities.CategoryChildcare, first.Category)
			assert.True(t, first.IsImportant)
			assert.Len(t, first.Tags, 2)

			second := BuildCandidate(preview.ValidRows[1], day(2024, 1, 1))
			assert.Equal(t, entities.CategoryConversation, second.Category)
			assert.False(t, second.IsImportant)
			assert.NotEmpty(t, second.MediationAttempt)
		})
	}
}

func TestWriteTemplate_ImportsThroughReadRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	rows, err := ReadRows("template.xlsx", &buf)

	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Handover at school", rows[0]["title"])
}
