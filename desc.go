package main

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// descText extracts a plain-text summary from a placemark description.
// Garmin exports embed HTML fragments (usually a table of recording
// stats); the first non-empty paragraph or table cell wins, otherwise
// the flattened text of the whole fragment. Plain-text descriptions pass
// through unchanged.
func descText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "<") {
		return collapse(s)
	}

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}

	var out string
	dom.Find("p, td").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(sel.Nodes) == 0 || sel.Nodes[0].Type != html.ElementNode {
			return true
		}
		if t := collapse(sel.Text()); t != "" {
			out = t
			return false
		}
		return true
	})
	if out == "" {
		out = collapse(dom.Text())
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
