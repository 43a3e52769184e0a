package ingest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simard-insights/callsync/internal/ingest"
	"github.com/simard-insights/callsync/internal/observability"
	"github.com/simard-insights/callsync/internal/report"
	"github.com/simard-insights/callsync/internal/store"
)

const sampleReport = `
<table>
<tr><th>Date</th><th>Time</th><th>Phone</th><th>Agent</th><th>Store</th></tr>
<tr><td>2025-11-03</td><td>10:15 AM</td><td>555-1212</td><td>Sam</td><td>North</td></tr>
<tr><td>2025-11-03</td><td>11:40 AM</td><td>555-3434</td><td>Alex</td><td>South</td></tr>
</table>`

func newPipeline(st ingest.Store, opts ingest.Options) *ingest.Pipeline {
	if opts.Year == 0 {
		opts.Year = 2025
	}
	return ingest.NewPipeline(observability.Nop(), nil, st, opts)
}

func TestPipeline_IngestUpsertsRecords(t *testing.T) {
	st := store.NewMemoryStore()
	p := newPipeline(st, ingest.Options{})

	res, err := p.Ingest(context.Background(), report.Document{HTML: sampleReport})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, 2, res.Upserted)
	assert.Equal(t, 0, res.RowsSkipped)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, st.Len())
}

func TestPipeline_ReingestIsIdempotent(t *testing.T) {
	st := store.NewMemoryStore()
	p := newPipeline(st, ingest.Options{})
	ctx := context.Background()

	_, err := p.Ingest(ctx, report.Document{HTML: sampleReport})
	require.NoError(t, err)

	// Same rows, but the second extraction saw an updated status column.
	updated := `
<table>
<tr><th>Date</th><th>Time</th><th>Phone</th><th>Agent</th><th>Store</th><th>Status</th></tr>
<tr><td>2025-11-03</td><td>10:15 AM</td><td>555-1212</td><td>Sam</td><td>North</td><td>Booked</td></tr>
<tr><td>2025-11-03</td><td>11:40 AM</td><td>555-3434</td><td>Alex</td><td>South</td><td>Missed</td></tr>
</table>`
	_, err = p.Ingest(ctx, report.Document{HTML: updated})
	require.NoError(t, err)

	assert.Equal(t, 2, st.Len(), "re-ingesting the same events must not duplicate records")

	key := ingest.IdentityKey(ingest.CallRecord{Date: "2025-11-03", Time: "10:15 AM", Caller: "555-1212"})
	doc, ok := st.Get(key)
	require.True(t, ok)
	assert.Equal(t, "Booked", doc["status"], "field values come from the most recent extraction")
}

func TestPipeline_EmptyDocumentSucceeds(t *testing.T) {
	st := store.NewMemoryStore()
	p := newPipeline(st, ingest.Options{})

	res, err := p.Ingest(context.Background(), report.Document{HTML: "<p>nothing to see</p>"})

	require.NoError(t, err)
	assert.Equal(t, 0, res.Records)
	assert.Equal(t, 0, st.Len())
}

func TestPipeline_SkipCountsObservable(t *testing.T) {
	html := `
<table>
<tr><th>Date</th><th>Time</th><th>Phone</th></tr>
<tr><td>totals</td></tr>
<tr><td>N/A</td><td>-</td><td>-</td></tr>
<tr><td>2025-11-03</td><td>10:15 AM</td><td>555-1212</td></tr>
</table>`
	st := store.NewMemoryStore()
	p := newPipeline(st, ingest.Options{})

	res, err := p.Ingest(context.Background(), report.Document{HTML: html})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Records)
	assert.Equal(t, 2, res.RowsSkipped)
}

func TestPipeline_SubjectStore(t *testing.T) {
	html := `
<table>
<tr><th>Date</th><th>Time</th><th>Phone</th><th>Agent</th></tr>
<tr><td>2025-11-03</td><td>10:15 AM</td><td>555-1212</td><td>Sam</td></tr>
</table>`
	st := store.NewMemoryStore()
	p := newPipeline(st, ingest.Options{UseSubjectStore: true})

	_, err := p.Ingest(context.Background(), report.Document{
		HTML:    html,
		Subject: "Appt InSights - Seward",
	})
	require.NoError(t, err)

	key := ingest.IdentityKey(ingest.CallRecord{Date: "2025-11-03", Time: "10:15 AM", Caller: "555-1212"})
	doc, ok := st.Get(key)
	require.True(t, ok)
	assert.Equal(t, "Seward", doc["store"])
}

type failingStore struct {
	calls int
}

func (f *failingStore) Upsert(ctx context.Context, key string, rec ingest.CallRecord) error {
	f.calls++
	return errors.New("store unavailable")
}

func TestPipeline_UpsertFailuresDoNotAbort(t *testing.T) {
	st := &failingStore{}
	p := newPipeline(st, ingest.Options{})

	res, err := p.Ingest(context.Background(), report.Document{HTML: sampleReport})

	require.NoError(t, err, "persistence failures are per-record, not fatal")
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, 0, res.Upserted)
	assert.Len(t, res.Errors, 2)
	assert.Equal(t, 2, st.calls, "every record is still attempted")
}

func TestPipeline_IngestAllIsolatesDocuments(t *testing.T) {
	st := store.NewMemoryStore()
	p := newPipeline(st, ingest.Options{})

	docs := []report.Document{
		{HTML: "<p>no table</p>"},
		{HTML: sampleReport},
	}
	results := p.IngestAll(context.Background(), docs)

	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Records)
	assert.Equal(t, 2, results[1].Records)
	assert.Equal(t, 2, st.Len())
}
