package mail

import (
	"errors"
	"io"

	"github.com/emersion/go-message/mail"
)

// htmlPart walks a message's MIME structure and returns the first text/html
// part's body, or "" when the message carries none.
func htmlPart(r io.Reader) (string, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ctype, _, err := header.ContentType()
		if err != nil || ctype != "text/html" {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	return "", nil
}
