package table

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockElements = "p, div, br, li, td, th, tr, h1, h2, h3, h4, h5, h6, blockquote, pre"

// HTMLText renders rich-text HTML (requirement descriptions) as a single line of plain text.
// Values that are not strings use the default formatting.
func HTMLText(v any) string {
	s, ok := v.(string)
	if !ok {
		return Format(v)
	}
	if !strings.Contains(s, "<") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()
	// keep words of adjacent blocks apart
	doc.Find(blockElements).AfterHtml(" ")

	return strings.Join(strings.Fields(doc.Text()), " ")
}
