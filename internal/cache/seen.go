package cache

import (
	"context"
	"fmt"
	"time"
)

// Seen marks mailbox messages that have already been ingested successfully.
type Seen struct {
	client  Client
	mailbox string
	ttl     time.Duration
}

// NewSeen creates a seen-message marker scoped to one mailbox.
func NewSeen(client Client, mailbox string, ttl time.Duration) *Seen {
	return &Seen{client: client, mailbox: mailbox, ttl: ttl}
}

// Has reports whether the message was already ingested. Cache errors read as
// "not seen": re-processing is safe, losing messages is not.
func (s *Seen) Has(ctx context.Context, uid uint32) bool {
	_, err := s.client.Get(ctx, s.key(uid))
	return err == nil
}

// Mark records the message as ingested.
func (s *Seen) Mark(ctx context.Context, uid uint32) error {
	return s.client.Set(ctx, s.key(uid), []byte("1"), s.ttl)
}

func (s *Seen) key(uid uint32) string {
	return fmt.Sprintf("seen:%s:%d", s.mailbox, uid)
}
