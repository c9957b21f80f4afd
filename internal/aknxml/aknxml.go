// Package aknxml serializes a finished document tree into Akoma Ntoso
// 3.0 XML. Serialization is a pure function of the tree: one element
// per structural and content node, the eId attached as an attribute,
// children in the exact order the earlier stages established.
package aknxml

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/bmcallis/aknetl/internal/akn"
)

// Namespace is the Akoma Ntoso 3.0 namespace.
const Namespace = "http://docs.oasis-open.org/legaldocml/ns/akn/3.0"

// element is a generic markup element. Children carry their own tag
// names, so one shape covers the whole output tree.
type element struct {
	XMLName  xml.Name
	Xmlns    string `xml:"xmlns,attr,omitempty"`
	EID      string `xml:"eId,attr,omitempty"`
	Name     string `xml:"name,attr,omitempty"`
	InnerXML string `xml:",innerxml"`
	Text     string `xml:",chardata"`
	Children []element
}

func el(tag string, children ...element) element {
	return element{XMLName: xml.Name{Local: tag}, Children: children}
}

func textEl(tag, text string) element {
	return element{XMLName: xml.Name{Local: tag}, Text: text}
}

// Serialize renders the document as an Akoma Ntoso act. docName
// becomes the name attribute of the act element.
func Serialize(doc *akn.Document, docName string) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}

	act := el("act")
	act.Name = docName

	if doc.MetaXML != "" {
		act.Children = append(act.Children, element{
			XMLName:  xml.Name{Local: "meta"},
			InnerXML: doc.MetaXML,
		})
	}
	if doc.Preface != nil {
		preface := el("preface")
		preface.Children = paragraphs(doc.PrefaceText)
		act.Children = append(act.Children, preface)
	}
	if len(doc.Recitals) > 0 {
		recitals := el("recitals")
		for _, r := range doc.Recitals {
			rec := el("recital",
				textEl("num", "("+r.Number+")"),
			)
			rec.EID = r.EID
			rec.Children = append(rec.Children, paragraphs(r.Text)...)
			recitals.Children = append(recitals.Children, rec)
		}
		act.Children = append(act.Children, el("preamble", recitals))
	}

	body := el("body")
	for _, u := range doc.Units() {
		body.Children = append(body.Children, unitElement(u))
	}
	act.Children = append(act.Children, body)

	root := el("akomaNtoso", act)
	root.Xmlns = Namespace

	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal akoma ntoso: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func unitElement(u *akn.Unit) element {
	e := el(string(u.Kind))
	e.EID = u.EID
	e.Children = append(e.Children, textEl("num", unitNum(u)))
	if u.Heading != "" {
		e.Children = append(e.Children, textEl("heading", u.Heading))
	}
	for _, child := range u.Children {
		e.Children = append(e.Children, unitElement(child))
	}
	for _, n := range u.Body {
		e.Children = append(e.Children, nodeElement(n))
	}
	return e
}

func nodeElement(n *akn.Node) element {
	if n.Kind == akn.NodeText {
		content := el("content")
		content.EID = n.EID
		content.Children = paragraphs(n.Text)
		return content
	}

	e := el(string(n.Kind))
	e.EID = n.EID
	if num := nodeNum(n); num != "" {
		e.Children = append(e.Children, textEl("num", num))
	}
	if len(n.Children) > 0 {
		for _, c := range n.Children {
			e.Children = append(e.Children, nodeElement(c))
		}
		return e
	}
	content := el("content")
	content.Children = paragraphs(n.Text)
	e.Children = append(e.Children, content)
	return e
}

func unitNum(u *akn.Unit) string {
	switch u.Kind {
	case akn.KindChapter:
		return "CHAPTER " + strings.ToUpper(u.Number)
	case akn.KindSection:
		return "Section " + u.Number
	case akn.KindArticle:
		return "Article " + u.Number
	}
	return u.Number
}

func nodeNum(n *akn.Node) string {
	if n.Number == "" {
		return ""
	}
	if n.Kind == akn.NodeParagraph {
		return n.Number + "."
	}
	return "(" + n.Number + ")"
}

// paragraphs renders text content as one p element per line.
func paragraphs(text string) []element {
	var out []element
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, textEl("p", line))
	}
	return out
}
