package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResolveText walks a fallback chain and returns the first non-empty
// text it finds. A selector that fails to compile or match simply moves
// the chain to the next strategy; the function never panics.
func ResolveText(root *goquery.Selection, strategies []Strategy) Field {
	for _, s := range strategies {
		if text := resolveOne(root, s); text != "" {
			return Field{Value: text, Found: true}
		}
	}
	return Field{Value: NotFound}
}

// ResolveList returns the texts of every element matched by the first
// strategy that yields any, in document order, deduplicated and capped
// at max (0 means unlimited).
func ResolveList(root *goquery.Selection, strategies []Strategy, max int) []string {
	for _, s := range strategies {
		items := resolveAll(root, s)
		if len(items) == 0 {
			continue
		}
		out := make([]string, 0, len(items))
		seen := make(map[string]bool, len(items))
		for _, item := range items {
			if seen[item] {
				continue
			}
			seen[item] = true
			out = append(out, item)
			if max > 0 && len(out) >= max {
				break
			}
		}
		return out
	}
	return nil
}

// resolveOne extracts trimmed text (or an attribute) from the first
// element matching the strategy. goquery panics on selectors it cannot
// compile, so the recover here keeps a bad entry in a chain from taking
// down the whole extraction.
func resolveOne(root *goquery.Selection, s Strategy) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	sel := root.Find(s.Selector).First()
	if sel.Length() == 0 {
		return ""
	}
	if s.Attr != "" {
		val, _ := sel.Attr(s.Attr)
		return strings.TrimSpace(val)
	}
	return strings.TrimSpace(sel.Text())
}

func resolveAll(root *goquery.Selection, s Strategy) (texts []string) {
	defer func() {
		if recover() != nil {
			texts = nil
		}
	}()

	root.Find(s.Selector).Each(func(_ int, sel *goquery.Selection) {
		var val string
		if s.Attr != "" {
			val, _ = sel.Attr(s.Attr)
		} else {
			val = sel.Text()
		}
		if val = strings.TrimSpace(val); val != "" {
			texts = append(texts, val)
		}
	})
	return texts
}
