package form

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Serialize renders the fragment back to HTML with the live control state
// baked into attributes. Plain re-rendering would reflect only load-time
// attributes; checkbox/radio checks, select choices, and edited text live
// outside the attribute set until synced here. The result is what the
// workspace caches for draft restoration.
func (f *Form) Serialize() (string, error) {
	for _, field := range f.Fields {
		field.syncNode()
	}
	var b strings.Builder
	for _, n := range f.nodes {
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (field *Field) syncNode() {
	n := field.node
	if n == nil {
		return
	}
	switch field.Type {
	case "select":
		i := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.DataAtom != atom.Option {
				continue
			}
			if i < len(field.Options) && field.Options[i].Selected {
				setAttr(c, "selected", "selected")
			} else {
				removeAttr(c, "selected")
			}
			i++
		}
	case "textarea":
		for n.FirstChild != nil {
			n.RemoveChild(n.FirstChild)
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: field.Value})
	case "checkbox", "radio":
		if field.Checked {
			setAttr(n, "checked", "checked")
		} else {
			removeAttr(n, "checked")
		}
		if field.Value != "" {
			setAttr(n, "value", field.Value)
		}
	default:
		setAttr(n, "value", field.Value)
	}
}

// strictValueTypes are input types whose value attribute the browser-side
// controls reject outright when it carries stray whitespace.
var strictValueTypes = map[string]bool{
	"number":         true,
	"date":           true,
	"datetime-local": true,
	"time":           true,
	"month":          true,
	"week":           true,
}

// Sanitize trims whitespace from the value attributes of strict-format
// inputs in a cached fragment. Drafts serialized with accidental padding
// would otherwise fail to restore those controls.
func Sanitize(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var scrub func(*html.Node)
	scrub = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Input {
			if strictValueTypes[strings.ToLower(attr(n, "type"))] && hasAttr(n, "value") {
				setAttr(n, "value", strings.TrimSpace(attr(n, "value")))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			scrub(c)
		}
	}

	var b strings.Builder
	for _, n := range nodes {
		scrub(n)
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
