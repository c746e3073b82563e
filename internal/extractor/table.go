package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Snapshot is the structured content of one rendering of a table.
// Header and Rows are separate so callers can emit the header exactly
// once across paginated renderings.
type Snapshot struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the snapshot carries no data at all.
func (s Snapshot) Empty() bool {
	return len(s.Header) == 0 && len(s.Rows) == 0
}

// Lines renders the snapshot as delimiter-joined lines, header first.
func (s Snapshot) Lines(delimiter string) []string {
	lines := make([]string, 0, len(s.Rows)+1)
	if len(s.Header) > 0 {
		lines = append(lines, strings.Join(s.Header, delimiter))
	}
	for _, row := range s.Rows {
		lines = append(lines, strings.Join(row, delimiter))
	}
	return lines
}

// ParseTable extracts the table with the given element id from an HTML
// document. A missing table yields an empty snapshot, not an error:
// the portal renders the branch table only for IECs that have
// branches. Cell text is whitespace-collapsed; all-blank header or
// rows are dropped.
func ParseTable(html, tableID string) (Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Snapshot{}, err
	}

	var snapshot Snapshot
	table := doc.Find("#" + tableID).First()
	if table.Length() == 0 {
		return snapshot, nil
	}

	header := cellTexts(table.Find("thead th"))
	if !allBlank(header) {
		snapshot.Header = header
	}

	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		row := cellTexts(tr.Find("td"))
		if len(row) == 0 || allBlank(row) {
			return
		}
		snapshot.Rows = append(snapshot.Rows, row)
	})

	return snapshot, nil
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, collapseWhitespace(cell.Text()))
	})
	return texts
}

func allBlank(texts []string) bool {
	for _, t := range texts {
		if t != "" {
			return false
		}
	}
	return true
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
