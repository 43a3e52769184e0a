package report

import "strings"

// Field names a semantic column a report row can carry.
type Field string

const (
	FieldDate     Field = "date"
	FieldTime     Field = "time"
	FieldCaller   Field = "caller"
	FieldAgent    Field = "agent"
	FieldStore    Field = "store"
	FieldStatus   Field = "status"
	FieldDuration Field = "duration"
	FieldNotes    Field = "notes"
	FieldScore    Field = "score"
)

// Mapping assigns semantic fields to zero-based column indices. Indices need
// not be contiguous or cover every field; unmapped fields read as empty.
type Mapping map[Field]int

// MaxIndex returns the largest column index the mapping references.
func (m Mapping) MaxIndex() int {
	max := 0
	for _, idx := range m {
		if idx > max {
			max = idx
		}
	}
	return max
}

// DefaultMapping is the fixed positional layout used when no header row is
// recognizable. The absolute indices are intentional and apply regardless of
// the table's actual column count.
func DefaultMapping() Mapping {
	return Mapping{
		FieldDate:     0,
		FieldTime:     1,
		FieldCaller:   2,
		FieldAgent:    3,
		FieldStore:    4,
		FieldStatus:   5,
		FieldDuration: 6,
		FieldNotes:    7,
	}
}

// Resolver locates the column layout of a table, returning the field mapping
// and the index of the first data row.
type Resolver interface {
	Resolve(rows [][]string) (Mapping, int)
}

// FixedResolver always reports the default positional layout with data
// starting at the first row.
type FixedResolver struct{}

// Resolve implements Resolver.
func (FixedResolver) Resolve(rows [][]string) (Mapping, int) {
	return DefaultMapping(), 0
}

// HeaderResolver infers the layout from header keywords, falling back to the
// fixed default layout when no row in the table looks like a header.
type HeaderResolver struct{}

// headerRules maps header-cell keywords to fields, in priority order.
var headerRules = []struct {
	field Field
	keys  []string
}{
	{FieldDate, []string{"date"}},
	{FieldTime, []string{"time"}},
	{FieldCaller, []string{"call", "phone", "number"}},
	{FieldAgent, []string{"agent", "rep"}},
	{FieldStore, []string{"store", "dealership", "loc"}},
	{FieldStatus, []string{"status", "result"}},
	{FieldDuration, []string{"duration", "length"}},
	{FieldNotes, []string{"note", "comment"}},
}

// Resolve scans rows in order and treats the first row whose concatenated
// text mentions a date, caller, or store as the header. Each header cell is
// assigned to the first matching rule whose field is still unassigned.
func (HeaderResolver) Resolve(rows [][]string) (Mapping, int) {
	for i, row := range rows {
		joined := strings.ToLower(strings.Join(row, " "))
		if !strings.Contains(joined, "date") &&
			!strings.Contains(joined, "caller") &&
			!strings.Contains(joined, "store") {
			continue
		}

		mapping := make(Mapping, len(headerRules))
		for col, text := range row {
			text = strings.ToLower(text)
		rules:
			for _, rule := range headerRules {
				if _, taken := mapping[rule.field]; taken {
					continue
				}
				for _, key := range rule.keys {
					if strings.Contains(text, key) {
						mapping[rule.field] = col
						break rules
					}
				}
			}
		}
		return mapping, i + 1
	}

	return DefaultMapping(), 0
}
