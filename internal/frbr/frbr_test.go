package frbr

import (
	"strings"
	"testing"
)

func validMeta() Meta {
	return Meta{
		DocType:     "regulation",
		Number:      "2022/2554",
		Title:       "Digital Operational Resilience Act",
		DateEnacted: "2022-12-14",
		Authority:   "European Parliament",
		Country:     "eu",
		Language:    "eng",
	}
}

func TestBuild_URIs(t *testing.T) {
	out, err := Build(validMeta())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		`<identification source="#eu">`,
		`<FRBRuri value="/eu/reg/2022-2554"></FRBRuri>`,
		`<FRBRuri value="/eu/reg/2022-2554/eng"></FRBRuri>`,
		`<FRBRuri value="/eu/reg/2022-2554/eng/xml"></FRBRuri>`,
		`<FRBRdate date="2022-12-14" name="enacted">`,
		`<FRBRlanguage language="eng">`,
		`<FRBRname value="Digital Operational Resilience Act">`,
		`<FRBRformat value="xml">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestBuild_UnknownDocType(t *testing.T) {
	m := validMeta()
	m.DocType = "communication"
	out, err := Build(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `value="/eu/doc/2022-2554"`) {
		t.Errorf("expected generic doc segment, got:\n%s", out)
	}
}

func TestBuild_PublicationDateFallsBackToEnacted(t *testing.T) {
	out, err := Build(validMeta())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `<FRBRdate date="2022-12-14" name="publication">`) {
		t.Errorf("expected publication date to fall back to enacted date:\n%s", out)
	}

	m := validMeta()
	m.DatePublished = "2022-12-27"
	out, err = Build(m)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<FRBRdate date="2022-12-27" name="publication">`) {
		t.Errorf("expected explicit publication date:\n%s", out)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Meta)
	}{
		{"number", func(m *Meta) { m.Number = "" }},
		{"country", func(m *Meta) { m.Country = "" }},
		{"language", func(m *Meta) { m.Language = "" }},
		{"date_enacted", func(m *Meta) { m.DateEnacted = "" }},
	}
	for _, c := range cases {
		m := validMeta()
		c.mutate(&m)
		if _, err := Build(m); err == nil {
			t.Errorf("expected error for missing %s", c.name)
		}
	}
}
