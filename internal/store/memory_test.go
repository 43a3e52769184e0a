package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simard-insights/callsync/internal/ingest"
)

func TestMemoryStore_UpsertMergesFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, "k1", ingest.CallRecord{
		Date:   "2025-11-03",
		Time:   "10:15 AM",
		Caller: "555-1212",
		Status: "Missed",
	}))
	require.NoError(t, s.Upsert(ctx, "k1", ingest.CallRecord{
		Date:   "2025-11-03",
		Time:   "10:15 AM",
		Caller: "555-1212",
		Status: "Booked",
		Notes:  "left voicemail",
	}))

	assert.Equal(t, 1, s.Len())

	doc, ok := s.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "Booked", doc["status"])
	assert.Equal(t, "left voicemail", doc["notes"])
	assert.Equal(t, "555-1212", doc["caller"])
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(context.Background(), "k1", ingest.CallRecord{Agent: "Sam"}))

	doc, ok := s.Get("k1")
	require.True(t, ok)
	doc["agent"] = "mutated"

	fresh, _ := s.Get("k1")
	assert.Equal(t, "Sam", fresh["agent"])
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get("absent")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}
