package pipeline

import (
	"context"
	"strings"

	"github.com/bmcallis/aknetl/internal/akn"
	"github.com/bmcallis/aknetl/internal/confirm"
	"github.com/bmcallis/aknetl/internal/content"
	"github.com/bmcallis/aknetl/internal/hierarchy"
	"github.com/bmcallis/aknetl/internal/ident"
	"github.com/bmcallis/aknetl/internal/scan"
	"github.com/bmcallis/aknetl/internal/source"
)

// TransformOptions configures a single document transform.
type TransformOptions struct {
	Scanner   *scan.Scanner
	Confirmer *confirm.Confirmer
	Title     string
	// MetaXML is the opaque metadata block attached verbatim to the
	// document root. May be empty.
	MetaXML string
}

// Transform runs the full pipeline over line-indexed text: preamble
// detection, boundary scan, confirmation, hierarchy assembly, content
// extraction and identifier assignment. The returned document carries
// any non-fatal findings; only structurally impossible input produces
// an error.
func Transform(ctx context.Context, lines []source.Line, opts TransformOptions) (*akn.Document, error) {
	if len(lines) == 0 {
		return nil, &akn.FatalInputError{Reason: "document is empty"}
	}
	for _, ln := range lines {
		if ln.Number < 1 {
			return nil, &akn.FatalInputError{Reason: "line numbers must start at 1"}
		}
	}

	preamble := scan.FindPreamble(lines)
	body := lines
	if preamble.BodyStart > 0 {
		body = source.Slice(lines, preamble.BodyStart, lines[len(lines)-1].Number)
	}
	if len(body) == 0 {
		return nil, &akn.FatalInputError{Reason: "document has no body after the enacting formula"}
	}

	cands := opts.Scanner.Scan(body, akn.KindChapter, akn.KindSection, akn.KindArticle)
	res := opts.Confirmer.Confirm(ctx, body, cands)

	doc, err := hierarchy.Build(res, lines[len(lines)-1].Number)
	if err != nil {
		return nil, err
	}

	doc.Title = opts.Title
	doc.MetaXML = opts.MetaXML
	if preamble.Preface.Valid() {
		span := preamble.Preface
		doc.Preface = &span
		doc.PrefaceText = source.Text(source.Slice(lines, span.Start, span.End))
	}
	doc.Recitals = preamble.Recitals

	doc.Walk(func(u *akn.Unit) {
		if u.Kind != akn.KindArticle {
			return
		}
		u.Body = content.Extract(articleBody(lines, u))
	})

	ident.Assign(doc)
	return doc, nil
}

// articleBody returns an article's lines with the "Article N" header
// and the title line stripped, leaving only body content.
func articleBody(lines []source.Line, u *akn.Unit) []source.Line {
	span := u.Span
	body := source.Slice(lines, span.Start, span.End)
	if len(body) > 0 && body[0].Number == span.Start {
		body = body[1:]
	}
	if u.Heading != "" && len(body) > 0 && strings.TrimSpace(body[0].Text) == u.Heading {
		body = body[1:]
	}
	return body
}
