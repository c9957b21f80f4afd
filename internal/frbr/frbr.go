// Package frbr builds the FRBR identification block attached to the
// document root. The transform core treats the rendered block as an
// opaque pass-through value; only this package knows its shape.
package frbr

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Meta is the document identity supplied by the caller.
type Meta struct {
	DocType         string `json:"document_type"` // regulation, directive, …
	Number          string `json:"number"`        // e.g. 2022/2554
	Title           string `json:"title"`
	DateEnacted     string `json:"date_enacted"`             // YYYY-MM-DD
	DatePublished   string `json:"date_published,omitempty"` // YYYY-MM-DD
	Authority       string `json:"authority"`
	Country         string `json:"country"`  // eu, uk, us
	Language        string `json:"language"` // eng, fra, deu
	OfficialJournal string `json:"official_journal,omitempty"`
}

var docTypeShort = map[string]string{
	"regulation":             "reg",
	"act":                    "act",
	"directive":              "dir",
	"implementing regulation": "impl-reg",
	"delegated regulation":    "del-reg",
}

type valueAttr struct {
	Value string `xml:"value,attr"`
}

type dateAttr struct {
	Date string `xml:"date,attr"`
	Name string `xml:"name,attr"`
}

type hrefAttr struct {
	Href string `xml:"href,attr"`
}

type work struct {
	This     valueAttr `xml:"FRBRthis"`
	URI      valueAttr `xml:"FRBRuri"`
	Date     dateAttr  `xml:"FRBRdate"`
	Author   hrefAttr  `xml:"FRBRauthor"`
	Country  valueAttr `xml:"FRBRcountry"`
	Number   valueAttr `xml:"FRBRnumber"`
	DocName  valueAttr `xml:"FRBRname"`
}

type expression struct {
	FRBRthis valueAttr `xml:"FRBRthis"`
	URI      valueAttr `xml:"FRBRuri"`
	Date     dateAttr  `xml:"FRBRdate"`
	Author   hrefAttr  `xml:"FRBRauthor"`
	Language Lang      `xml:"FRBRlanguage"`
}

// Lang carries the language attribute of an FRBRlanguage element.
type Lang struct {
	Language string `xml:"language,attr"`
}

type manifestation struct {
	This   valueAttr `xml:"FRBRthis"`
	URI    valueAttr `xml:"FRBRuri"`
	Date   dateAttr  `xml:"FRBRdate"`
	Author hrefAttr  `xml:"FRBRauthor"`
	Format valueAttr `xml:"FRBRformat"`
}

type identification struct {
	XMLName       xml.Name      `xml:"identification"`
	Source        string        `xml:"source,attr"`
	Work          work          `xml:"FRBRWork"`
	Expression    expression    `xml:"FRBRExpression"`
	Manifestation manifestation `xml:"FRBRManifestation"`
}

// Validate checks the fields the URIs are built from.
func (m Meta) Validate() error {
	if m.Number == "" {
		return fmt.Errorf("metadata number is required")
	}
	if m.Country == "" {
		return fmt.Errorf("metadata country is required")
	}
	if m.Language == "" {
		return fmt.Errorf("metadata language is required")
	}
	if m.DateEnacted == "" {
		return fmt.Errorf("metadata date_enacted is required")
	}
	return nil
}

// Build renders the identification block as inner XML for the meta
// element, with work/expression/manifestation URIs derived from the
// document identity (e.g. /eu/reg/2022-2554/eng/xml).
func Build(m Meta) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}

	short, ok := docTypeShort[strings.ToLower(m.DocType)]
	if !ok {
		short = "doc"
	}
	numberSafe := strings.ReplaceAll(m.Number, "/", "-")
	workURI := fmt.Sprintf("/%s/%s/%s", m.Country, short, numberSafe)
	exprURI := workURI + "/" + m.Language
	maniURI := exprURI + "/xml"

	pubDate := m.DatePublished
	if pubDate == "" {
		pubDate = m.DateEnacted
	}
	author := hrefAttr{Href: "#" + m.Country}

	id := identification{
		Source: "#" + m.Country,
		Work: work{
			This:    valueAttr{workURI},
			URI:     valueAttr{workURI},
			Date:    dateAttr{Date: m.DateEnacted, Name: "enacted"},
			Author:  author,
			Country: valueAttr{m.Country},
			Number:  valueAttr{m.Number},
			DocName: valueAttr{m.Title},
		},
		Expression: expression{
			FRBRthis: valueAttr{exprURI},
			URI:      valueAttr{exprURI},
			Date:     dateAttr{Date: m.DateEnacted, Name: "enacted"},
			Author:   author,
			Language: Lang{Language: m.Language},
		},
		Manifestation: manifestation{
			This:   valueAttr{maniURI},
			URI:    valueAttr{maniURI},
			Date:   dateAttr{Date: pubDate, Name: "publication"},
			Author: author,
			Format: valueAttr{"xml"},
		},
	}

	out, err := xml.MarshalIndent(id, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal identification: %w", err)
	}
	return string(out), nil
}
