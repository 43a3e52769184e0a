// Package report extracts rows from HTML call report tables. Column order,
// column count, and header wording change between report revisions, so the
// package infers the layout per table instead of assuming a fixed contract.
package report

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkKind classifies a hyperlink embedded in a table cell by its purpose.
type LinkKind string

const (
	LinkNone  LinkKind = ""
	LinkAudio LinkKind = "audio"
	LinkCRM   LinkKind = "crm"
)

// Cell is one table cell after text normalization, with at most one
// classified hyperlink.
type Cell struct {
	Text     string
	LinkKind LinkKind
	LinkURL  string
}

// Document is one retrieved report: raw HTML plus optional free-text context
// derived from message metadata, typically the subject line.
type Document struct {
	HTML    string
	Subject string
}

// NormalizeText collapses whitespace runs, including non-breaking spaces, to
// single ASCII spaces and trims the ends.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ClassifyCell normalizes a <td>/<th> cell and tags its first hyperlink.
// "Listen"/"Play" text or an .mp3/.wav target marks the row's audio link;
// "View"/"CRM" text or a crm substring in the target marks the CRM link.
// Anything else is left unclassified.
func ClassifyCell(sel *goquery.Selection) Cell {
	cell := Cell{Text: NormalizeText(sel.Text())}

	anchor := sel.Find("a[href]").First()
	if anchor.Length() == 0 {
		return cell
	}
	href, _ := anchor.Attr("href")
	lower := strings.ToLower(cell.Text)

	switch {
	case strings.Contains(lower, "listen"), strings.Contains(lower, "play"),
		strings.HasSuffix(href, ".mp3"), strings.HasSuffix(href, ".wav"):
		cell.LinkKind = LinkAudio
		cell.LinkURL = href
	case strings.Contains(lower, "view"), strings.Contains(lower, "crm"),
		strings.Contains(href, "crm"):
		cell.LinkKind = LinkCRM
		cell.LinkURL = href
	}

	return cell
}
