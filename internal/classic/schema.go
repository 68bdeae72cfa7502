package classic

// Field describes one tagged output field: its canonical name, its tag and
// the separator used to flatten multi-valued fields.
type Field struct {
	Name string
	Tag  string
	Sep  string

	// labeled fields get positional affiliation labels before joining.
	labeled bool
	values  func(*Record) []string
}

// schema is the fixed output order of the tagged format.
var schema = []Field{
	{Name: "bibcode", Tag: "R", values: scalar(func(r *Record) string { return r.Bibcode })},
	{Name: "title", Tag: "T", values: scalar(func(r *Record) string { return r.Title })},
	{Name: "authors", Tag: "A", Sep: "; ", values: func(r *Record) []string { return r.Authors }},
	{Name: "native_authors", Tag: "n", Sep: ", ", labeled: true, values: func(r *Record) []string { return r.NativeAuthors }},
	{Name: "affiliations", Tag: "F", Sep: ", ", labeled: true, values: func(r *Record) []string { return r.Affiliations }},
	{Name: "pubdate", Tag: "D", values: scalar(func(r *Record) string { return r.PubDate })},
	{Name: "publication", Tag: "J", values: scalar(func(r *Record) string { return r.Publication })},
	{Name: "language", Tag: "M", values: scalar(func(r *Record) string { return r.Language })},
	{Name: "comments", Tag: "X", Sep: "; ", values: func(r *Record) []string { return r.Comments }},
	{Name: "source", Tag: "G", values: scalar(func(r *Record) string { return r.Source })},
	{Name: "copyright", Tag: "C", values: scalar(func(r *Record) string { return r.Copyright })},
	{Name: "uatkeys", Tag: "U", Sep: ", ", values: scalar(func(r *Record) string { return r.UATKeys })},
	{Name: "keywords", Tag: "K", Sep: ", ", values: scalar(func(r *Record) string { return r.Keywords })},
	{Name: "subjectcategory", Tag: "Q", Sep: "; ", values: func(r *Record) []string { return r.SubjectCategory }},
	{Name: "database", Tag: "W", Sep: "; ", values: func(r *Record) []string { return r.Database }},
	{Name: "page", Tag: "P", values: scalar(func(r *Record) string { return r.Page })},
	{Name: "abstract", Tag: "B", values: scalar(func(r *Record) string { return r.Abstract })},
	{Name: "properties", Tag: "I", Sep: "; ", values: propertyValues},
	{Name: "references", Tag: "Z", Sep: "\n   ", values: func(r *Record) []string { return r.References }},
}

// Schema returns a copy of the output field table in emission order.
func Schema() []Field {
	out := make([]Field, len(schema))
	copy(out, schema)
	return out
}

// Lookup returns the field descriptor for a canonical field name.
func Lookup(name string) (Field, bool) {
	for _, f := range schema {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func scalar(get func(*Record) string) func(*Record) []string {
	return func(r *Record) []string {
		v := get(r)
		if v == "" {
			return nil
		}
		return []string{v}
	}
}

func propertyValues(r *Record) []string {
	if len(r.Properties) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.Properties))
	for _, p := range r.Properties {
		out = append(out, p.Key+": "+p.Value)
	}
	return out
}
