package candidate

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText strips markup from a provider snippet and collapses whitespace.
// Plain text passes through unchanged apart from whitespace.
func CleanText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(s)
	}

	doc.Find("script, style, iframe, noscript").Each(func(i int, sel *goquery.Selection) {
		sel.Remove()
	})

	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
