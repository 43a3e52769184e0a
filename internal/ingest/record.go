// Package ingest assembles normalized call records from extracted report rows
// and drives them into the document store.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/simard-insights/callsync/internal/normalize"
	"github.com/simard-insights/callsync/internal/report"
)

// CallRecord is the persisted call/appointment entity. Absent fields are
// empty strings, never omitted, so merge-upserts overwrite stale values.
type CallRecord struct {
	Date        string `json:"date" firestore:"date"`
	Time        string `json:"time" firestore:"time"`
	Caller      string `json:"caller" firestore:"caller"`
	Agent       string `json:"agent" firestore:"agent"`
	Store       string `json:"store" firestore:"store"`
	Status      string `json:"status" firestore:"status"`
	Duration    string `json:"duration" firestore:"duration"`
	Notes       string `json:"notes" firestore:"notes"`
	Score       string `json:"score" firestore:"score"`
	DisplayDate string `json:"displayDate" firestore:"displayDate"`
	AudioURL    string `json:"audioUrl" firestore:"audioUrl"`
	CRMURL      string `json:"crmUrl" firestore:"crmUrl"`
}

// Fields returns the record as a field map, the shape both store backends
// write. Merge semantics operate per field, so every field is present.
func (r CallRecord) Fields() map[string]any {
	return map[string]any{
		"date":        r.Date,
		"time":        r.Time,
		"caller":      r.Caller,
		"agent":       r.Agent,
		"store":       r.Store,
		"status":      r.Status,
		"duration":    r.Duration,
		"notes":       r.Notes,
		"score":       r.Score,
		"displayDate": r.DisplayDate,
		"audioUrl":    r.AudioURL,
		"crmUrl":      r.CRMURL,
	}
}

// AssemblerOptions select the post-processing steps applied after extraction.
// Report revisions differ in where attribution lives; these options replace
// the per-revision pipelines the reports accumulated over time.
type AssemblerOptions struct {
	// AdvisorAttribution derives agent and store from the advisor cell's free
	// text instead of trusting dedicated columns.
	AdvisorAttribution bool
	// SubjectStore fills the store field when the table carries no store
	// column of its own.
	SubjectStore string
	// Year is the processing year assumed for friendly dates without one.
	Year int
}

// Assemble builds a CallRecord from one extracted row. It reports false when
// the row does not look like real data and must be discarded.
func Assemble(row report.Row, opts AssemblerOptions) (CallRecord, bool) {
	rawDate := row.Fields[report.FieldDate]
	date, clock := normalize.DateTime(rawDate, opts.Year)

	rec := CallRecord{
		Date:        date,
		Time:        row.Fields[report.FieldTime],
		Caller:      row.Fields[report.FieldCaller],
		Agent:       row.Fields[report.FieldAgent],
		Store:       row.Fields[report.FieldStore],
		Status:      row.Fields[report.FieldStatus],
		Duration:    row.Fields[report.FieldDuration],
		Notes:       row.Fields[report.FieldNotes],
		Score:       row.Fields[report.FieldScore],
		DisplayDate: rawDate,
		AudioURL:    row.AudioURL,
		CRMURL:      row.CRMURL,
	}
	// A parsed friendly timestamp carries the clock time inside the date
	// cell; it wins over whatever the time column holds.
	if clock != "" {
		rec.Time = clock
	}

	if opts.AdvisorAttribution {
		if advisor := row.Fields[report.FieldAgent]; advisor != "" {
			attr := normalize.Advisor(advisor)
			rec.Agent = attr.Agent
			rec.Store = attr.Store
		}
	}
	if rec.Store == "" && opts.SubjectStore != "" {
		rec.Store = opts.SubjectStore
	}

	if !containsDigit(rec.Date) {
		return CallRecord{}, false
	}
	return rec, true
}

// IdentityKey computes the deterministic upsert key for a record. Two
// extractions of the same underlying event hash identically regardless of
// which report revision produced them, so re-ingesting merges rather than
// duplicates.
func IdentityKey(rec CallRecord) string {
	sum := sha256.Sum256([]byte(rec.Date + "|" + rec.Time + "|" + rec.Caller))
	return hex.EncodeToString(sum[:])
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
