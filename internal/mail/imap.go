package mail

import (
	"context"
	"fmt"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"github.com/simard-insights/callsync/internal/observability"
	"github.com/simard-insights/callsync/internal/report"
)

// IMAPConfig holds mailbox connection and search settings.
type IMAPConfig struct {
	// Server is the IMAP host:port, dialed over TLS.
	Server   string
	Username string
	Password string
	Mailbox  string
	// Subject filters messages by subject substring.
	Subject string
	// Limit caps the batch at the most recent N matching messages.
	Limit int
}

// IMAPSource fetches report messages from an IMAP mailbox.
type IMAPSource struct {
	cfg    IMAPConfig
	logger *observability.Logger
}

// NewIMAPSource creates an IMAP message source.
func NewIMAPSource(cfg IMAPConfig, logger *observability.Logger) *IMAPSource {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 3
	}
	return &IMAPSource{cfg: cfg, logger: logger}
}

// Fetch connects to the mailbox, searches by subject, and returns the HTML
// payload of the most recent matching messages. Messages without an HTML
// part are logged and dropped.
func (s *IMAPSource) Fetch(ctx context.Context) ([]Message, error) {
	c, err := client.DialTLS(s.cfg.Server, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", s.cfg.Server, err)
	}
	defer c.Logout()

	if err := c.Login(s.cfg.Username, s.cfg.Password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	if _, err := c.Select(s.cfg.Mailbox, true); err != nil {
		return nil, fmt.Errorf("select %s: %w", s.cfg.Mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Header.Add("Subject", s.cfg.Subject)
	uids, err := c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("search subject %q: %w", s.cfg.Subject, err)
	}
	if len(uids) == 0 {
		s.logger.Info().
			Str("subject", s.cfg.Subject).
			Msg("No matching messages found")
		return nil, nil
	}
	if len(uids) > s.cfg.Limit {
		uids = uids[len(uids)-s.cfg.Limit:]
	}

	s.logger.Debug().
		Int("messages", len(uids)).
		Str("mailbox", s.cfg.Mailbox).
		Msg("Fetching report messages")

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)
	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope, imap.FetchUid}

	ch := make(chan *imap.Message, len(uids))
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, items, ch)
	}()

	var out []Message
	for msg := range ch {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		html, err := htmlPart(body)
		if err != nil || html == "" {
			s.logger.Warn().
				Err(err).
				Uint32("uid", msg.Uid).
				Msg("Message has no readable HTML part")
			continue
		}
		subject := ""
		if msg.Envelope != nil {
			subject = msg.Envelope.Subject
		}
		out = append(out, Message{
			UID: msg.Uid,
			Doc: report.Document{HTML: html, Subject: subject},
		})
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	return out, nil
}
