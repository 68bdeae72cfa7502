// Package classic renders canonical records into the legacy tagged text
// format, one "%<TAG> <value>" line per field.
package classic

// Record is the flat canonical representation between translation and
// serialization. Empty fields are never emitted.
type Record struct {
	Bibcode         string     `json:"bibcode,omitempty"`
	Title           string     `json:"title,omitempty"`
	Authors         []string   `json:"authors,omitempty"`
	NativeAuthors   []string   `json:"native_authors,omitempty"`
	Affiliations    []string   `json:"affiliations,omitempty"`
	PubDate         string     `json:"pubdate,omitempty"`
	Publication     string     `json:"publication,omitempty"`
	Language        string     `json:"language,omitempty"`
	Comments        []string   `json:"comments,omitempty"`
	Source          string     `json:"source,omitempty"`
	Copyright       string     `json:"copyright,omitempty"`
	UATKeys         string     `json:"uatkeys,omitempty"`
	Keywords        string     `json:"keywords,omitempty"`
	SubjectCategory []string   `json:"subjectcategory,omitempty"`
	Database        []string   `json:"database,omitempty"`
	Page            string     `json:"page,omitempty"`
	Abstract        string     `json:"abstract,omitempty"`
	Properties      Properties `json:"properties,omitempty"`
	References      []string   `json:"references,omitempty"`
}

// Property is one KEY: value entry of the properties field.
type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Properties is an insertion-ordered set of properties with unique keys.
type Properties []Property

// Well-known property keys.
const (
	PropDOI   = "DOI"
	PropArXiv = "ARXIV"
	PropPDF   = "PDF"
	PropHTML  = "HTML"
	PropOpen  = "OPEN"
	PropFile  = "FILE"
)

// Set assigns value to key. A key that is already present keeps its position.
func (p *Properties) Set(key, value string) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Property{Key: key, Value: value})
}

// Get returns the value stored under key.
func (p Properties) Get(key string) (string, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return "", false
}
