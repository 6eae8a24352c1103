package view

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML writes n as an HTML fragment to w.
func RenderHTML(w io.Writer, n Node) error {
	if err := html.Render(w, toHTML(n)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// RenderString renders n to an HTML string.
func RenderString(n Node) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toHTML(n Node) *html.Node {
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}

	hn := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	if n.Class != "" {
		hn.Attr = append(hn.Attr, html.Attribute{Key: "class", Val: n.Class})
	}
	if n.Style != "" {
		hn.Attr = append(hn.Attr, html.Attribute{Key: "style", Val: n.Style})
	}

	for _, c := range n.Children {
		hn.AppendChild(toHTML(c))
	}
	return hn
}
