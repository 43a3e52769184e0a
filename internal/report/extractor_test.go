package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerReport = `
<html><body><table>
<tr><th>Date</th><th>Time</th><th>Phone</th><th>Agent</th><th>Store</th></tr>
<tr><td>2025-11-03</td><td>10:15 AM</td><td>555-1212</td><td>Sam</td><td>North</td></tr>
<tr><td>2025-11-03</td><td>11:40 AM</td><td>555-3434</td><td>Alex</td><td>South</td></tr>
</table></body></html>`

func TestExtractor_HeaderDrivenMapping(t *testing.T) {
	rows, skipped, err := NewExtractor(nil).Extract(headerReport)

	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 2)

	assert.Equal(t, "2025-11-03", rows[0].Fields[FieldDate])
	assert.Equal(t, "10:15 AM", rows[0].Fields[FieldTime])
	assert.Equal(t, "555-1212", rows[0].Fields[FieldCaller])
	assert.Equal(t, "Sam", rows[0].Fields[FieldAgent])
	assert.Equal(t, "North", rows[0].Fields[FieldStore])

	// Order preserved from the table.
	assert.Equal(t, "Alex", rows[1].Fields[FieldAgent])
}

func TestExtractor_FallbackPositionalMapping(t *testing.T) {
	html := `<table>
<tr><td>12/01/25</td><td>9:00 AM</td><td>555-0000</td><td>Ray</td><td>Airport</td><td>Answered</td><td>2:31</td><td>follow up</td></tr>
</table>`

	rows, skipped, err := NewExtractor(nil).Extract(html)

	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 1)

	assert.Equal(t, "12/01/25", rows[0].Fields[FieldDate])
	assert.Equal(t, "9:00 AM", rows[0].Fields[FieldTime])
	assert.Equal(t, "555-0000", rows[0].Fields[FieldCaller])
	assert.Equal(t, "Ray", rows[0].Fields[FieldAgent])
	assert.Equal(t, "Airport", rows[0].Fields[FieldStore])
	assert.Equal(t, "Answered", rows[0].Fields[FieldStatus])
	assert.Equal(t, "2:31", rows[0].Fields[FieldDuration])
	assert.Equal(t, "follow up", rows[0].Fields[FieldNotes])
}

func TestExtractor_SkipsShortRows(t *testing.T) {
	html := `<table>
<tr><th>Date</th><th>Time</th><th>Phone</th><th>Agent</th><th>Store</th></tr>
<tr><td>totals</td></tr>
<tr><td>2025-11-03</td><td>10:15 AM</td><td>555-1212</td><td>Sam</td><td>North</td></tr>
</table>`

	rows, skipped, err := NewExtractor(nil).Extract(html)

	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, "555-1212", rows[0].Fields[FieldCaller])
}

func TestExtractor_DiscardsRowsWithoutDateDigit(t *testing.T) {
	html := `<table>
<tr><th>Date</th><th>Time</th><th>Phone</th></tr>
<tr><td>N/A</td><td>10:15 AM</td><td>555-1212</td></tr>
<tr><td>2025-11-03</td><td>11:00 AM</td><td>555-3434</td></tr>
</table>`

	rows, skipped, err := NewExtractor(nil).Extract(html)

	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-11-03", rows[0].Fields[FieldDate])
}

func TestExtractor_NotesEmptyOnShortRows(t *testing.T) {
	// Notes is mapped to column 5 but the data row only has six cells; rows
	// shorter than eight columns never carry notes.
	html := `<table>
<tr><th>Date</th><th>Time</th><th>Phone</th><th>Agent</th><th>Store</th><th>Notes</th></tr>
<tr><td>2025-11-03</td><td>10:15 AM</td><td>555-1212</td><td>Sam</td><td>North</td><td>call back</td></tr>
</table>`

	rows, _, err := NewExtractor(nil).Extract(html)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Fields[FieldNotes])
}

func TestExtractor_CollectsRowLinks(t *testing.T) {
	html := `<table>
<tr><th>Date</th><th>Time</th><th>Phone</th><th>Audio</th><th>Lead</th></tr>
<tr>
  <td>2025-11-03</td><td>10:15 AM</td><td>555-1212</td>
  <td><a href="https://rec.example.com/a.mp3">Listen</a></td>
  <td><a href="https://crm.example.com/lead/42">View</a></td>
</tr>
</table>`

	rows, _, err := NewExtractor(nil).Extract(html)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://rec.example.com/a.mp3", rows[0].AudioURL)
	assert.Equal(t, "https://crm.example.com/lead/42", rows[0].CRMURL)
}

func TestExtractor_LastLinkWins(t *testing.T) {
	html := `<table>
<tr><th>Date</th><th>Phone</th><th>A</th><th>B</th></tr>
<tr>
  <td>2025-11-03</td><td>555-1212</td>
  <td><a href="https://rec.example.com/first.mp3">Listen</a></td>
  <td><a href="https://rec.example.com/second.mp3">Listen</a></td>
</tr>
</table>`

	rows, _, err := NewExtractor(nil).Extract(html)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://rec.example.com/second.mp3", rows[0].AudioURL)
}

func TestExtractor_EmptyDocument(t *testing.T) {
	rows, skipped, err := NewExtractor(nil).Extract("<html><body><p>no tables here</p></body></html>")

	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Empty(t, rows)
}

func TestExtractor_FixedResolverIgnoresHeader(t *testing.T) {
	rows, skipped, err := NewExtractor(FixedResolver{}).Extract(headerReport)

	require.NoError(t, err)
	// Header row has only 5 cells, below the fixed mapping's reach, and both
	// data rows are too short for the fixed 8-column layout.
	assert.Equal(t, 3, skipped)
	assert.Empty(t, rows)
}
