package report

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Row is one extracted data row: raw field values keyed by semantic field,
// plus the row's classified links. At most one audio and one CRM link are
// kept per row; the last matching cell wins.
type Row struct {
	Fields   map[Field]string
	AudioURL string
	CRMURL   string
}

// Extractor walks a document's table rows and yields raw field rows using a
// resolved column mapping.
type Extractor struct {
	resolver Resolver
}

// NewExtractor creates an extractor. A nil resolver defaults to header
// inference.
func NewExtractor(r Resolver) *Extractor {
	if r == nil {
		r = HeaderResolver{}
	}
	return &Extractor{resolver: r}
}

// Extract parses all <tr> rows reachable in the document, resolves the column
// layout, and returns the extracted data rows in table order together with
// the number of rows skipped for structural reasons. A row is skipped when it
// has too few columns to satisfy the mapping or when its date cell carries no
// digit; neither is an error.
func (e *Extractor) Extract(html string) ([]Row, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, 0, fmt.Errorf("parse html: %w", err)
	}

	var cellRows [][]Cell
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []Cell
		tr.Find("td, th").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, ClassifyCell(td))
		})
		cellRows = append(cellRows, cells)
	})

	texts := make([][]string, len(cellRows))
	for i, cells := range cellRows {
		row := make([]string, len(cells))
		for j, c := range cells {
			row[j] = c.Text
		}
		texts[i] = row
	}

	mapping, start := e.resolver.Resolve(texts)
	maxIdx := mapping.MaxIndex()

	var rows []Row
	skipped := 0
	for i := start; i < len(cellRows); i++ {
		row, ok := buildRow(cellRows[i], mapping, maxIdx)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	return rows, skipped, nil
}

// buildRow assembles one raw row, reporting false when the row is not data.
func buildRow(cells []Cell, mapping Mapping, maxIdx int) (Row, bool) {
	if len(cells) <= maxIdx {
		return Row{}, false
	}

	row := Row{Fields: make(map[Field]string, len(mapping))}
	for field, idx := range mapping {
		row.Fields[field] = cells[idx].Text
	}
	// Short rows never carry notes, even when the notes column is mapped.
	if len(cells) < 8 {
		row.Fields[FieldNotes] = ""
	}

	// Decorative and blank rows have no digit in the date cell.
	if !containsDigit(row.Fields[FieldDate]) {
		return Row{}, false
	}

	for _, c := range cells {
		switch c.LinkKind {
		case LinkAudio:
			row.AudioURL = c.LinkURL
		case LinkCRM:
			row.CRMURL = c.LinkURL
		}
	}

	return row, true
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
