package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simard-insights/callsync/internal/normalize"
	"github.com/simard-insights/callsync/internal/observability"
	"github.com/simard-insights/callsync/internal/report"
)

// Store is the document store the pipeline writes to. Upsert creates the
// record if absent or merges the supplied fields into an existing record with
// the same key; writes with the same key are commutative.
type Store interface {
	Upsert(ctx context.Context, key string, rec CallRecord) error
}

// Options configure the pipeline's extraction variant.
type Options struct {
	// AdvisorAttribution derives agent/store from the advisor cell.
	AdvisorAttribution bool
	// UseSubjectStore falls back to a store name parsed from the message
	// subject when the table has no store column.
	UseSubjectStore bool
	// StoreName overrides subject parsing with an explicit store name.
	StoreName string
	// Year is the processing year for friendly dates; zero means the current
	// year.
	Year int
}

// Pipeline orchestrates one document's extraction: resolve the schema, walk
// the rows, normalize and attribute, then upsert each assembled record.
type Pipeline struct {
	logger   *observability.Logger
	resolver report.Resolver
	store    Store
	opts     Options
}

// Result reports what one document's ingestion produced.
type Result struct {
	JobID       uuid.UUID
	Records     int
	Upserted    int
	RowsSkipped int
	Errors      []string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
}

// NewPipeline creates a pipeline. A nil resolver defaults to header
// inference with the fixed-position fallback.
func NewPipeline(logger *observability.Logger, resolver report.Resolver, store Store, opts Options) *Pipeline {
	if resolver == nil {
		resolver = report.HeaderResolver{}
	}
	if opts.Year == 0 {
		opts.Year = time.Now().Year()
	}
	return &Pipeline{
		logger:   logger,
		resolver: resolver,
		store:    store,
		opts:     opts,
	}
}

// Ingest extracts one report document and upserts every assembled record.
// Zero valid rows is not an error: the result simply reports a zero count.
// Per-record upsert failures are collected in the result and do not abort the
// remaining records.
func (p *Pipeline) Ingest(ctx context.Context, doc report.Document) (*Result, error) {
	res := &Result{JobID: uuid.New(), StartedAt: time.Now()}

	p.logger.Debug().
		Str("job_id", res.JobID.String()).
		Str("subject", doc.Subject).
		Msg("Starting document ingestion")

	rows, skipped, err := report.NewExtractor(p.resolver).Extract(doc.HTML)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("extract rows: %v", err))
		p.finalize(res)
		return res, err
	}
	res.RowsSkipped = skipped

	opts := AssemblerOptions{
		AdvisorAttribution: p.opts.AdvisorAttribution,
		Year:               p.opts.Year,
	}
	if p.opts.StoreName != "" {
		opts.SubjectStore = p.opts.StoreName
	} else if p.opts.UseSubjectStore {
		opts.SubjectStore = normalize.SubjectStore(doc.Subject)
	}

	for _, row := range rows {
		rec, ok := Assemble(row, opts)
		if !ok {
			res.RowsSkipped++
			continue
		}
		res.Records++

		key := IdentityKey(rec)
		if err := p.store.Upsert(ctx, key, rec); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("upsert %s: %v", key, err))
			p.logger.Warn().
				Err(err).
				Str("job_id", res.JobID.String()).
				Str("key", key).
				Msg("Failed to upsert record")
			continue
		}
		res.Upserted++
	}

	p.finalize(res)
	p.logger.Info().
		Str("job_id", res.JobID.String()).
		Int("records", res.Records).
		Int("upserted", res.Upserted).
		Int("rows_skipped", res.RowsSkipped).
		Dur("duration", res.Duration).
		Msg("Document ingestion completed")

	return res, nil
}

// IngestAll processes a batch of documents independently and sequentially.
// One document's extraction failure does not block the remaining documents.
func (p *Pipeline) IngestAll(ctx context.Context, docs []report.Document) []*Result {
	results := make([]*Result, 0, len(docs))
	for i, doc := range docs {
		res, err := p.Ingest(ctx, doc)
		if err != nil {
			p.logger.Error().
				Err(err).
				Int("document", i).
				Msg("Document ingestion failed")
		}
		results = append(results, res)
	}
	return results
}

func (p *Pipeline) finalize(res *Result) {
	res.CompletedAt = time.Now()
	res.Duration = res.CompletedAt.Sub(res.StartedAt)
}
