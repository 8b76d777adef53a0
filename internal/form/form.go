// Package form models an editable job form parsed from a Corral HTML
// partial. It keeps the parsed fragment tree alongside typed field state so
// the live form can be diffed against its load-time baseline and serialized
// back to HTML for draft caching.
package form

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Form is one parsed job edit partial.
type Form struct {
	// Action is the save target declared by the fragment itself: the
	// partial-swap attribute (hx-post) wins over a plain form action.
	Action string
	Method string

	Fields []*Field

	nodes    []*html.Node
	formNode *html.Node
}

// Field is one named form control. Input buttons and hidden fields are
// carried for wire encoding but are not trackable.
type Field struct {
	Name    string
	Type    string // lowercased input type; "select" or "textarea" for those tags
	Value   string
	Checked bool // checkbox/radio only
	Options []Option

	node *html.Node

	tracked         bool
	baseline        string
	baselineChecked bool
}

// Option is one choice of a select field.
type Option struct {
	Value    string
	Label    string
	Selected bool
	Color    string // data-color attribute, used for calendar swatches
}

// Parse builds a Form from a job edit partial.
func Parse(fragment string) (*Form, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	f := &Form{Method: "POST", nodes: nodes}
	for _, n := range nodes {
		f.collect(n)
	}
	if f.formNode != nil {
		if post := attr(f.formNode, "hx-post"); post != "" {
			f.Action = post
		} else if action := attr(f.formNode, "action"); action != "" {
			f.Action = action
		}
		if method := attr(f.formNode, "method"); method != "" {
			f.Method = strings.ToUpper(method)
		}
	}
	return f, nil
}

func (f *Form) collect(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Form:
			if f.formNode == nil {
				f.formNode = n
			}
		case atom.Input, atom.Select, atom.Textarea:
			if field := newField(n); field != nil {
				f.Fields = append(f.Fields, field)
			}
			if n.DataAtom == atom.Select {
				return // options already consumed
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.collect(c)
	}
}

func newField(n *html.Node) *Field {
	name := attr(n, "name")
	if name == "" {
		// Unnamed controls never reach the wire and are exempt from
		// dirty checks.
		return nil
	}

	field := &Field{Name: name, node: n}
	switch n.DataAtom {
	case atom.Select:
		field.Type = "select"
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.DataAtom != atom.Option {
				continue
			}
			opt := Option{
				Label:    strings.TrimSpace(textContent(c)),
				Selected: hasAttr(c, "selected"),
				Color:    attr(c, "data-color"),
			}
			opt.Value = attr(c, "value")
			if !hasAttr(c, "value") {
				opt.Value = opt.Label
			}
			field.Options = append(field.Options, opt)
		}
		for _, opt := range field.Options {
			if opt.Selected {
				field.Value = opt.Value
				break
			}
		}
	case atom.Textarea:
		field.Type = "textarea"
		field.Value = textContent(n)
	default:
		field.Type = strings.ToLower(attr(n, "type"))
		if field.Type == "" {
			field.Type = "text"
		}
		field.Value = attr(n, "value")
		field.Checked = hasAttr(n, "checked")
	}
	return field
}

// Lookup returns the first field with the given wire name, or nil.
func (f *Form) Lookup(name string) *Field {
	for _, field := range f.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// SetValue updates the live value of the named field. Unknown names are
// ignored so callers can apply partial updates blindly.
func (f *Form) SetValue(name, value string) {
	field := f.Lookup(name)
	if field == nil {
		return
	}
	field.Value = value
	if field.Type == "select" {
		for i := range field.Options {
			field.Options[i].Selected = field.Options[i].Value == value
		}
	}
}

// SetChecked updates the live checked state of a checkbox or radio field.
func (f *Form) SetChecked(name string, checked bool) {
	if field := f.Lookup(name); field != nil {
		field.Checked = checked
	}
}

// InsertField appends a control to the form after parse, mirroring fragments
// the backend swaps in dynamically. The new field has no baseline until the
// next Track or Rebaseline.
func (f *Form) InsertField(name, typ, value string) *Field {
	n := &html.Node{Type: html.ElementNode, Data: "input", DataAtom: atom.Input}
	n.Attr = []html.Attribute{
		{Key: "type", Val: typ},
		{Key: "name", Val: name},
		{Key: "value", Val: value},
	}
	if f.formNode != nil {
		f.formNode.AppendChild(n)
	} else if len(f.nodes) > 0 {
		f.nodes[len(f.nodes)-1].AppendChild(n)
	} else {
		f.nodes = append(f.nodes, n)
	}
	field := &Field{Name: name, Type: strings.ToLower(typ), Value: value, node: n}
	f.Fields = append(f.Fields, field)
	return field
}

// Values encodes the live form state for a form-encoded POST. Unclicked
// buttons stay off the wire; checkables contribute only when checked.
func (f *Form) Values() url.Values {
	values := url.Values{}
	for _, field := range f.Fields {
		switch field.Type {
		case "submit", "button", "image", "reset":
			continue
		case "checkbox", "radio":
			if !field.Checked {
				continue
			}
			v := field.Value
			if v == "" {
				v = "on"
			}
			values.Add(field.Name, v)
		default:
			values.Add(field.Name, field.Value)
		}
	}
	return values
}

// trackable reports whether the field participates in dirty tracking.
func (field *Field) trackable() bool {
	switch field.Type {
	case "hidden", "submit", "button", "image", "reset":
		return false
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			walk(gc)
		}
	}
	walk(n)
	return b.String()
}
