package classic

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestOutput_MinimalRecord(t *testing.T) {
	rec := &Record{Title: "A Study", Bibcode: "2024ApJ...1..1A"}

	got := NewSerializer().Output(rec)
	want := "%R 2024ApJ...1..1A\n%T A Study\n"
	if got != want {
		t.Errorf("Output() = %q, want %q", got, want)
	}
}

func TestOutput_EmptyRecord(t *testing.T) {
	s := NewSerializer()
	if got := s.Output(&Record{}); got != "" {
		t.Errorf("Output(empty) = %q, want empty", got)
	}
	if got := s.Output(nil); got != "" {
		t.Errorf("Output(nil) = %q, want empty", got)
	}
}

func TestOutput_FullRecordGolden(t *testing.T) {
	rec := &Record{
		Bibcode:       "2023ApJ...950...12S",
		Title:         "A Study of &ldquo;Things&rdquo;",
		Authors:       []string{"Smith, John", "Doe, Jane", "Roe, Richard"},
		NativeAuthors: []string{"", "", ""},
		Affiliations: []string{
			"Harvard",
			"",
			`<AFF id="ROR:042nb2s44">MIT</AFF>; <ID system="ORCID">0000-0002-1825-0097</ID>`,
		},
		PubDate:     "03/2023",
		Publication: "The Astrophysical Journal, Volume 950, Issue 2, pp. 12-20",
		Source:      "Zenodo",
		Copyright:   "(c) 2023 The Authors",
		UATKeys:     "1234, 5678",
		Keywords:    "stars, galaxies",
		Abstract:    "We study things&nbsp;carefully &amp; well.",
	}
	rec.Properties.Set(PropDOI, "10.1234/abc")
	rec.Properties.Set(PropOpen, "1")

	got := NewSerializer().Output(rec)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "full_record", []byte(got))
}

func TestOutput_TypographicEntities(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"double quotes", "&ldquo;Hello&rdquo;", `"Hello"`},
		{"single quotes", "&lsquo;Hi&rsquo;", "'Hi'"},
		{"unicode quotes", "“Hello”", `"Hello"`},
		{"nbsp", "a&nbsp;b", "a b"},
		{"zwnj", "a&zwnj;b", "a b"},
		{"named entity", "caf&eacute;", "caf\u00e9"},
		{"numeric entity", "&#955; Ori", "λ Ori"},
		{"nfc", "cafe\u0301", "caf\u00e9"},
	}

	s := NewSerializer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Output(&Record{Title: tt.title})
			want := "%T " + tt.want + "\n"
			if got != want {
				t.Errorf("Output() = %q, want %q", got, want)
			}
		})
	}
}

func TestOutput_FieldOrderFollowsSchema(t *testing.T) {
	rec := &Record{
		References: []string{"ref one", "ref two"},
		Abstract:   "Abstract.",
		Language:   "fr",
		Bibcode:    "2020Test..123..456X",
		Database:   []string{"AST", "PHY"},
	}

	got := NewSerializer().Output(rec)
	want := "%R 2020Test..123..456X\n" +
		"%M fr\n" +
		"%W AST; PHY\n" +
		"%B Abstract.\n" +
		"%Z ref one\n   ref two\n"
	if got != want {
		t.Errorf("Output() =\n%s\nwant\n%s", got, want)
	}
}

func TestOutput_ListsSkipEmptyItems(t *testing.T) {
	rec := &Record{
		Authors:  []string{"Smith, J.", "", "Doe, J."},
		Comments: []string{"", ""},
	}

	got := NewSerializer().Output(rec)
	want := "%A Smith, J.; Doe, J.\n"
	if got != want {
		t.Errorf("Output() = %q, want %q", got, want)
	}
}

func TestOutput_NativeAuthorsLabeled(t *testing.T) {
	rec := &Record{NativeAuthors: []string{"", "山田", "田中"}}

	got := NewSerializer().Output(rec)
	want := "%n AA(山田), AB(田中)\n"
	if got != want {
		t.Errorf("Output() = %q, want %q", got, want)
	}
}

func TestAffLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "AA"},
		{1, "AB"},
		{25, "AZ"},
		{26, "BA"},
		{675, "ZZ"},
		{676, "AAA"},
		{677, "AAB"},
		{676 + 26, "ABA"},
		{676 + 17575, "ZZZ"},
		{676 + 17576, "AAAA"},
		{-1, ""},
	}

	for _, tt := range tests {
		if got := AffLabel(tt.n); got != tt.want {
			t.Errorf("AffLabel(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestLabelEntries_SkipsEmptyWithoutGap(t *testing.T) {
	got := labelEntries([]string{"", "Harvard", "", "", "MIT", "Caltech"})
	want := []string{"AA(Harvard)", "AB(MIT)", "AC(Caltech)"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("labelEntries() = %v, want %v", got, want)
	}
}

func TestProperties_SetKeepsPosition(t *testing.T) {
	var p Properties
	p.Set(PropPDF, "a.pdf")
	p.Set(PropDOI, "10.1/x")
	p.Set(PropPDF, "b.pdf")

	if len(p) != 2 {
		t.Fatalf("len = %d, want 2", len(p))
	}
	if p[0].Key != PropPDF || p[0].Value != "b.pdf" {
		t.Errorf("p[0] = %+v, want PDF: b.pdf", p[0])
	}
	if v, ok := p.Get(PropDOI); !ok || v != "10.1/x" {
		t.Errorf("Get(DOI) = %q, %v", v, ok)
	}
	if _, ok := p.Get(PropOpen); ok {
		t.Error("Get(OPEN) should be absent")
	}
}

func TestSchema_TagsAndOrder(t *testing.T) {
	fields := Schema()
	if len(fields) != 19 {
		t.Fatalf("Schema() has %d fields, want 19", len(fields))
	}
	if fields[0].Name != "bibcode" || fields[0].Tag != "R" {
		t.Errorf("first field = %+v", fields[0])
	}
	if fields[len(fields)-1].Name != "references" || fields[len(fields)-1].Tag != "Z" {
		t.Errorf("last field = %+v", fields[len(fields)-1])
	}

	f, ok := Lookup("properties")
	if !ok || f.Tag != "I" || f.Sep != "; " {
		t.Errorf("Lookup(properties) = %+v, %v", f, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}

	// Mutating the copy must not affect the serializer's table.
	fields[0].Tag = "X"
	if f, _ := Lookup("bibcode"); f.Tag != "R" {
		t.Error("Schema() returned a shared slice")
	}
}

func TestAppendFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tag")
	s := NewSerializer()

	if err := s.AppendFile(path, []*Record{{Bibcode: "A"}, {Bibcode: "B"}}); err != nil {
		t.Fatalf("AppendFile() error = %v", err)
	}
	if err := s.AppendFile(path, []*Record{{Bibcode: "C"}}); err != nil {
		t.Fatalf("AppendFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "%R A\n%R B\n%R C\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}
