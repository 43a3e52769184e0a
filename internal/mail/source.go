// Package mail retrieves call report documents from a mailbox.
package mail

import (
	"context"

	"github.com/simard-insights/callsync/internal/report"
)

// Message is one retrieved report message: the mailbox UID for seen-tracking
// plus the extracted document.
type Message struct {
	UID uint32
	Doc report.Document
}

// Source supplies a finite batch of report messages per invocation. Callers
// decide batch size and selection; implementations only promise that each
// document's HTML, if relevant, contains table rows.
type Source interface {
	Fetch(ctx context.Context) ([]Message, error)
}
