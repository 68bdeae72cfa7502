package translator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/adsabs/adsmanparse/internal/ingest"
)

// Kind classifies a bibstem for special handling.
type Kind int

const (
	// KindStandard bibstems get no special handling.
	KindStandard Kind = iota
	// KindPDS covers NASA Planetary Data System data sets.
	KindPDS
	// KindMPEC covers Minor Planet Electronic Circulars.
	KindMPEC
)

func (k Kind) String() string {
	switch k {
	case KindPDS:
		return "pds"
	case KindMPEC:
		return "mpec"
	default:
		return "standard"
	}
}

// MPCStaff is the placeholder author removed from circulars.
const MPCStaff = "Minor Planet Center Staff"

// Classify returns the special-handling kind for a bibstem.
func Classify(bibstem string) Kind {
	switch bibstem {
	case "pds..data", "pdss.data":
		return KindPDS
	case "MPEC":
		return KindMPEC
	default:
		return KindStandard
	}
}

// transform rewrites a record for one kind of bibstem. It returns a new
// record (the input is never modified), an optional publication string that
// replaces normal publication assembly, and a non-fatal error describing
// anything it could not do.
type transform func(rec *ingest.Record) (*ingest.Record, string, error)

var transforms = map[Kind]transform{
	KindPDS:  transformPDS,
	KindMPEC: transformMPEC,
}

func applySpecial(kind Kind, rec *ingest.Record) (*ingest.Record, string, error) {
	tf, ok := transforms[kind]
	if !ok {
		return rec, "", absent("bibstem special handling")
	}
	return tf(rec)
}

// transformPDS builds the publication from the record's URN identifier.
func transformPDS(rec *ingest.Record) (*ingest.Record, string, error) {
	var urn string
	for _, id := range rec.PublisherIDs {
		if strings.HasPrefix(id.Identifier, "urn") {
			urn = id.Identifier
		}
	}
	if urn == "" {
		return rec, "NASA Planetary Data System", fmt.Errorf("no urn publisher identifier")
	}
	return rec, "NASA Planetary Data System, " + urn, nil
}

var circularIssue = regexp.MustCompile(`^(\D+)(\d+)$`)

// transformMPEC splits "MPEC 2023-F01: Title" into the circular number and
// the title proper, sets volume and first page from the circular number,
// drops the abstract and the MPC staff author, and promotes editors to
// authors.
func transformMPEC(rec *ingest.Record) (*ingest.Record, string, error) {
	out := *rec
	out.Abstract = nil

	var authors []ingest.Contributor
	for _, a := range rec.Authors {
		if a.Name != nil && a.Name.PubRaw == MPCStaff {
			continue
		}
		authors = append(authors, a)
	}
	for _, oc := range rec.OtherContributor {
		if oc.Role == EditorRole && oc.Contrib != nil {
			authors = append(authors, *oc.Contrib)
		}
	}
	out.Authors = authors

	if rec.Title == nil || rec.Title.English == "" {
		return &out, "", absent("circular title")
	}

	number, title, series, page, err := parseCircularTitle(rec.Title.English)
	if err != nil {
		return &out, "", err
	}

	t := *rec.Title
	t.English = title
	out.Title = &t

	if rec.Publication != nil {
		p := *rec.Publication
		p.VolumeNum = ingest.FlexibleString(series)
		out.Publication = &p
	}

	pg := ingest.Pagination{}
	if rec.Pagination != nil {
		pg = *rec.Pagination
	}
	pg.FirstPage = ingest.FlexibleString(page)
	out.Pagination = &pg

	return &out, "Minor Planet Electronic Circ., No. " + number, nil
}

// parseCircularTitle returns the circular number ("2023-F01"), the title
// proper, the half-month series letter ("F") and the page ("1").
func parseCircularTitle(s string) (number, title, series, page string, err error) {
	head, rest, ok := strings.Cut(s, ":")
	if !ok {
		return "", "", "", "", fmt.Errorf("circular title %q has no ':'", s)
	}

	number = strings.TrimSpace(strings.Replace(head, "MPEC ", "", 1))
	_, issue, ok := strings.Cut(number, "-")
	if !ok {
		return "", "", "", "", fmt.Errorf("circular number %q has no '-'", number)
	}

	m := circularIssue.FindStringSubmatch(issue)
	if m == nil {
		return "", "", "", "", fmt.Errorf("unrecognized circular issue %q", issue)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", "", "", "", fmt.Errorf("circular page %q: %w", m[2], err)
	}

	return number, strings.TrimSpace(rest), m[1], strconv.Itoa(n), nil
}
