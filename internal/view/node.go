package view

// Node is an element or a text leaf in a render tree.
// A Node with an empty Tag is a text node and only Text is meaningful.
type Node struct {
	Tag      string
	Class    string
	Style    string
	Text     string
	Children []Node
}

// El builds an element node.
func El(tag, class, style string, children ...Node) Node {
	return Node{
		Tag:      tag,
		Class:    class,
		Style:    style,
		Children: children,
	}
}

// TextNode builds a text leaf.
func TextNode(s string) Node {
	return Node{Text: s}
}

// IsText reports whether n is a text leaf.
func (n Node) IsText() bool {
	return n.Tag == ""
}

// Glyphs returns the text of every text leaf under n in document order.
func Glyphs(n Node) []string {
	var out []string
	walk(n, func(c Node) {
		if c.IsText() {
			out = append(out, c.Text)
		}
	})
	return out
}

// FindClass returns every element under n (n included) whose class is class, in document order.
func FindClass(n Node, class string) []Node {
	var out []Node
	walk(n, func(c Node) {
		if !c.IsText() && c.Class == class {
			out = append(out, c)
		}
	})
	return out
}

func walk(n Node, fn func(Node)) {
	fn(n)
	for _, c := range n.Children {
		walk(c, fn)
	}
}
