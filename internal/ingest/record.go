// Package ingest defines the generic bibliographic ingest record produced by
// the format-specific parsers (JATS, Crossref, DataCite, ...).
//
// Every field is optional. Absence is the common case and never an error.
package ingest

// Record is one ingest data model document describing a publication.
type Record struct {
	Title            *Text              `json:"title,omitempty"`
	Subtitle         *Text              `json:"subtitle,omitempty"`
	Abstract         *Text              `json:"abstract,omitempty"`
	Authors          []Contributor      `json:"authors,omitempty"`
	OtherContributor []OtherContributor `json:"otherContributor,omitempty"`
	Keywords         []Keyword          `json:"keywords,omitempty"`
	PubDate          *PubDate           `json:"pubDate,omitempty"`
	Publication      *Publication       `json:"publication,omitempty"`
	Pagination       *Pagination        `json:"pagination,omitempty"`
	PersistentIDs    []PersistentID     `json:"persistentIDs,omitempty"`
	PublisherIDs     []PublisherID      `json:"publisherIDs,omitempty"`
	ESources         []ESource          `json:"esources,omitempty"`
	OpenAccess       *OpenAccess        `json:"openAccess,omitempty"`
	Copyright        *Copyright         `json:"copyright,omitempty"`
	References       []string           `json:"references,omitempty"`
	RecordData       *RecordData        `json:"recordData,omitempty"`
}

// Text is a piece of text available in English and/or a native language.
type Text struct {
	English    string `json:"textEnglish,omitempty"`
	Native     string `json:"textNative,omitempty"`
	NativeLang string `json:"langNative,omitempty"`
}

// Contributor is an author entry: a name, affiliations and attributes.
type Contributor struct {
	Name        *Name         `json:"name,omitempty"`
	Affiliation []Affiliation `json:"affiliation,omitempty"`
	Attrib      *Attrib       `json:"attrib,omitempty"`
}

// Name holds the parts of a contributor's name.
type Name struct {
	Surname    string `json:"surname,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	PubRaw     string `json:"pubraw,omitempty"`
	Collab     string `json:"collab,omitempty"`
	NativeLang string `json:"native_lang,omitempty"`
}

// Affiliation is one raw affiliation string with its external identifiers.
type Affiliation struct {
	PubRaw string          `json:"affPubRaw,omitempty"`
	PubID  []AffiliationID `json:"affPubID,omitempty"`
}

// AffiliationID is a typed organization identifier (ROR, GRID, ISNI, ...).
type AffiliationID struct {
	Type string `json:"affIDType"`
	ID   string `json:"affID"`
}

// Attrib holds per-contributor attributes.
type Attrib struct {
	ORCID  string `json:"orcid,omitempty"`
	Email  string `json:"email,omitempty"`
	Collab bool   `json:"collab,omitempty"`
}

// OtherContributor is a non-author contributor with a role (editor, ...).
type OtherContributor struct {
	Role    string       `json:"role,omitempty"`
	Contrib *Contributor `json:"contrib,omitempty"`
}

// Keyword is a free-text keyword with an optional controlled-vocabulary id.
type Keyword struct {
	String string `json:"keyString,omitempty"`
	System string `json:"keySystem,omitempty"`
	ID     string `json:"keyID,omitempty"`
}

// PubDate holds the candidate publication dates.
type PubDate struct {
	PrintDate string      `json:"printDate,omitempty"`
	ElectDate string      `json:"electrDate,omitempty"`
	OtherDate []OtherDate `json:"otherDate,omitempty"`
}

// OtherDate is a typed date such as "Available" or "Issued".
type OtherDate struct {
	Type  string `json:"otherDateType,omitempty"`
	Value string `json:"otherDateValue,omitempty"`
}

// Publication identifies the journal, book series or conference.
type Publication struct {
	PubName    string         `json:"pubName,omitempty"`
	PubYear    FlexibleString `json:"pubYear,omitempty"`
	VolumeNum  FlexibleString `json:"volumeNum,omitempty"`
	IssueNum   FlexibleString `json:"issueNum,omitempty"`
	Publisher  string         `json:"publisher,omitempty"`
	BookSeries *BookSeries    `json:"bookSeries,omitempty"`
	ConfName   string         `json:"confName,omitempty"`
	ConfDates  string         `json:"confDates,omitempty"`
}

// BookSeries names the series a book belongs to.
type BookSeries struct {
	SeriesName string `json:"seriesName,omitempty"`
}

// Pagination holds every page or identifier scheme a parser may find.
type Pagination struct {
	FirstPage    FlexibleString `json:"firstPage,omitempty"`
	LastPage     FlexibleString `json:"lastPage,omitempty"`
	PageRange    string         `json:"pageRange,omitempty"`
	ElectronicID string         `json:"electronicID,omitempty"`
	PageCount    FlexibleString `json:"pageCount,omitempty"`
}

// PersistentID is a DOI and/or preprint identifier.
type PersistentID struct {
	DOI      string    `json:"DOI,omitempty"`
	Preprint *Preprint `json:"preprint,omitempty"`
}

// Preprint identifies a preprint server record.
type Preprint struct {
	Source     string `json:"source,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

// PublisherID is a publisher-assigned identifier (URNs, internal ids).
type PublisherID struct {
	Attribute  string `json:"attribute,omitempty"`
	Identifier string `json:"Identifier,omitempty"`
}

// ESource is an electronic source location (publisher PDF, HTML, ...).
type ESource struct {
	Source   string `json:"source,omitempty"`
	Location string `json:"location,omitempty"`
}

// OpenAccess flags open access availability.
type OpenAccess struct {
	Open bool `json:"open,omitempty"`
}

// Copyright holds the copyright statement.
type Copyright struct {
	Statement string `json:"statement,omitempty"`
}

// RecordData holds provenance information.
type RecordData struct {
	LoadLocation string `json:"loadLocation,omitempty"`
	LoadFormat   string `json:"loadFormat,omitempty"`
	LoadType     string `json:"loadType,omitempty"`
	Parser       string `json:"parser,omitempty"`
}

// FirstDOI returns the first DOI listed in the persistent identifiers.
func (r *Record) FirstDOI() string {
	for _, id := range r.PersistentIDs {
		if id.DOI != "" {
			return id.DOI
		}
	}
	return ""
}

// Year returns the four-digit publication year, preferring the publication
// block and falling back to the leading digits of the print, electronic and
// other dates.
func (r *Record) Year() string {
	if r.Publication != nil && len(r.Publication.PubYear.String()) >= 4 {
		return r.Publication.PubYear.String()[:4]
	}
	if r.PubDate == nil {
		return ""
	}
	candidates := []string{r.PubDate.PrintDate, r.PubDate.ElectDate}
	for _, od := range r.PubDate.OtherDate {
		candidates = append(candidates, od.Value)
	}
	for _, c := range candidates {
		if len(c) >= 4 {
			return c[:4]
		}
	}
	return ""
}
