package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseDetails extracts label/value pairs from the detail panel's
// .form-group blocks, one delimiter-joined line per group in DOM
// order. Groups missing a label or a value, or whose text is blank
// after trimming, are skipped.
func ParseDetails(html, delimiter string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var lines []string
	doc.Find(".form-group").Each(func(_ int, group *goquery.Selection) {
		label := collapseWhitespace(group.Find("label").First().Text())
		value := collapseWhitespace(group.Find("p").First().Text())
		if label == "" || value == "" {
			return
		}
		lines = append(lines, label+delimiter+value)
	})

	return lines, nil
}
