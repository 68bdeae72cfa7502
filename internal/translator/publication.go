package translator

import (
	"strings"

	"github.com/adsabs/adsmanparse/internal/classic"
	"github.com/adsabs/adsmanparse/internal/ingest"
)

// Publisher names with special treatment.
const (
	PublisherZenodo = "Zenodo"
	EditorRole      = "editor"
)

// advanceAccessPublishers publish unvolumed articles as "Advance Access".
var advanceAccessPublishers = map[string]bool{
	"OUP":                     true,
	"Oxford University Press": true,
}

func derivePublication(rec *ingest.Record, out *classic.Record) error {
	if out.Publication != "" {
		// Already set by bibstem special handling.
		return nil
	}
	if rec.Publication == nil && rec.Pagination == nil {
		return absent("publication and pagination")
	}

	var pub string
	if p := rec.Publication; p != nil {
		editors := formatEditors(rec.OtherContributor)

		switch {
		case p.PubName != "":
			pub = p.PubName
		case p.BookSeries != nil && p.BookSeries.SeriesName != "":
			pub = p.BookSeries.SeriesName
			if editors != "" {
				pub += "; " + editors
			}
		case p.ConfName != "":
			pub = p.ConfName
			if p.ConfDates != "" {
				pub += ", " + p.ConfDates
			}
			if editors != "" {
				pub += "; " + editors
			}
		}

		if v := p.VolumeNum.String(); v != "" {
			pub = appendPart(pub, "Volume "+v)
		} else if advanceAccessPublishers[p.Publisher] {
			pub = appendPart(pub, "Advance Access")
		}
		if i := p.IssueNum.String(); i != "" {
			pub = appendPart(pub, "Issue "+i)
		}

		if p.Publisher == PublisherZenodo {
			out.Source = p.Publisher
		}
	}

	if pg := rec.Pagination; pg != nil {
		first, last := pg.FirstPage.String(), pg.LastPage.String()
		pageRange := pg.PageRange
		if pageRange == "" && first != "" && last != "" {
			pageRange = first + "-" + last
		}

		switch {
		case pageRange != "":
			pub = appendPart(pub, "pp. "+pageRange)
		case first != "":
			// A bare page marker means nothing without a publication.
			if pub != "" {
				pub = appendPart(pub, "page "+first)
			}
		case pg.ElectronicID != "":
			pub = appendPart(pub, "id."+pg.ElectronicID)
		}
		if count := pg.PageCount.String(); count != "" {
			pub = appendPart(pub, count+" pp.")
		}
	}

	if pub == "" {
		return absent("publication name and pagination values")
	}
	out.Publication = pub
	return nil
}

// appendPart adds a ", "-separated part, without a leading separator.
func appendPart(pub, part string) string {
	if pub == "" {
		return part
	}
	return pub + ", " + part
}

// formatEditors renders editor-role contributors as "I. Surname, editor.",
// "A, B[, C], editors." or "A et al., editors.".
func formatEditors(others []ingest.OtherContributor) string {
	var editors []string
	for _, oc := range others {
		if oc.Role != EditorRole || oc.Contrib == nil || oc.Contrib.Name == nil {
			continue
		}
		if name := editorName(oc.Contrib.Name); name != "" {
			editors = append(editors, name)
		}
	}

	switch {
	case len(editors) == 0:
		return ""
	case len(editors) == 1:
		return editors[0] + ", editor."
	case len(editors) <= 3:
		return strings.Join(editors, ", ") + ", editors."
	default:
		return editors[0] + " et al., editors."
	}
}

func editorName(n *ingest.Name) string {
	var initial string
	for _, r := range n.GivenName {
		initial = string(r)
		break
	}
	if initial == "" || n.Surname == "" {
		return n.Surname
	}
	return initial + ". " + n.Surname
}
