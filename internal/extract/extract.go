package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is the visible content of an HTML page.
type Document struct {
	// Title is the text of the first <title> element, trimmed.
	Title string

	// Text is the visible text with whitespace collapsed. Lines separate
	// block-level elements.
	Text string
}

// invisibleSelector matches elements whose content is never rendered as text.
const invisibleSelector = "script, style, noscript, template, iframe, object, svg"

// inlineElements are rendered without a line break, so text on both sides
// of them stays on the same line.
var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true,
	"cite": true, "code": true, "data": true, "dfn": true, "em": true,
	"font": true, "i": true, "kbd": true, "label": true, "mark": true,
	"q": true, "s": true, "samp": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "time": true, "tt": true,
	"u": true, "var": true, "wbr": true,
}

// Text returns the visible text of rawHTML.
// It is shorthand for FromHTML(rawHTML).Text.
func Text(rawHTML string) string {
	return FromHTML(rawHTML).Text
}

// FromHTML extracts the title and visible text of rawHTML.
// It never fails; unreadable input yields an empty Document.
func FromHTML(rawHTML string) Document {
	if strings.TrimSpace(rawHTML) == "" {
		return Document{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Document{}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(invisibleSelector).Remove()

	var b strings.Builder
	for _, n := range doc.Nodes {
		collectText(&b, n)
	}

	return Document{
		Title: title,
		Text:  normalizeWhitespace(b.String()),
	}
}

// collectText appends the text nodes below n to b in document order.
// Every text node is followed by a space, so words never merge across tag
// boundaries: "<b>a</b><i>b</i>" is "a b". Comments and doctypes are
// skipped.
func collectText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && !inlineElements[strings.ToLower(n.Data)]
	if block {
		b.WriteByte('\n')
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}

	if block {
		b.WriteByte('\n')
	}
}

// normalizeWhitespace collapses runs of whitespace inside each line to a
// single space and drops empty lines.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
