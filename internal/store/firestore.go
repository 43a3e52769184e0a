// Package store provides merge-upsert document store backends for call
// records. Every backend writes a record's full field map under its identity
// key; repeating a write is always safe.
package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/simard-insights/callsync/internal/ingest"
)

// FirestoreConfig holds Firestore connection settings.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
	// AppID scopes the calls collection under artifacts/{AppID}/public/data.
	AppID string
}

// FirestoreStore persists call records in the app's public calls collection.
type FirestoreStore struct {
	client *firestore.Client
	calls  *firestore.CollectionRef
}

// NewFirestoreStore connects to Firestore and resolves the calls collection.
func NewFirestoreStore(ctx context.Context, cfg FirestoreConfig) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}

	calls := client.Collection("artifacts").
		Doc(cfg.AppID).
		Collection("public").
		Doc("data").
		Collection("calls")

	return &FirestoreStore{client: client, calls: calls}, nil
}

// Upsert creates or merges the record document keyed by its identity hash.
func (s *FirestoreStore) Upsert(ctx context.Context, key string, rec ingest.CallRecord) error {
	if _, err := s.calls.Doc(key).Set(ctx, rec.Fields(), firestore.MergeAll); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
