package util

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// skipped holds elements whose text never shows on the page.
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"template": true,
}

// WalkText calls fn for each visible text node under the selection, in
// document order.
func WalkText(sel *goquery.Selection, fn func(*html.Node)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			fn(n)
			return
		case html.ElementNode:
			if skipped[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
}

// JoinText joins the trimmed, non-empty text nodes under sel with sep.
func JoinText(sel *goquery.Selection, sep string) string {
	var parts []string
	WalkText(sel, func(n *html.Node) {
		if t := strings.TrimSpace(n.Data); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, sep)
}

// RawText joins every text node under sel with sep, untrimmed.
func RawText(sel *goquery.Selection, sep string) string {
	var parts []string
	WalkText(sel, func(n *html.Node) {
		parts = append(parts, n.Data)
	})
	return strings.Join(parts, sep)
}

// Lines flattens sel to trimmed, non-empty text lines.
func Lines(sel *goquery.Selection) []string {
	var out []string
	for _, ln := range strings.Split(RawText(sel, "\n"), "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}
