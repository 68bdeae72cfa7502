package translator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/adsabs/adsmanparse/internal/classic"
	"github.com/adsabs/adsmanparse/internal/ingest"
)

// UATSystem is the controlled vocabulary whose keyword ids become uatkeys.
const UATSystem = "UAT"

func deriveTitle(rec *ingest.Record, out *classic.Record) error {
	if rec.Title == nil {
		return absent("title")
	}

	switch {
	case rec.Title.English != "":
		out.Title = rec.Title.English
	case rec.Title.Native != "":
		out.Title = rec.Title.Native
		out.Language = rec.Title.NativeLang
	default:
		return fmt.Errorf("title has neither English nor native text")
	}

	if rec.Subtitle != nil {
		switch {
		case rec.Subtitle.English != "":
			out.Title += ": " + rec.Subtitle.English
		case rec.Subtitle.Native != "":
			out.Title += ": " + rec.Subtitle.Native
		}
	}
	return nil
}

func deriveAbstract(rec *ingest.Record, out *classic.Record) error {
	if rec.Abstract == nil || rec.Abstract.English == "" {
		return absent("abstract")
	}
	out.Abstract = detag(rec.Abstract.English)
	return nil
}

func deriveKeywords(rec *ingest.Record, out *classic.Record) error {
	if len(rec.Keywords) == 0 {
		return absent("keywords")
	}

	var keywords, uat []string
	for _, k := range rec.Keywords {
		if k.String != "" {
			keywords = append(keywords, k.String)
		}
		if k.System == UATSystem && k.ID != "" {
			uat = append(uat, k.ID)
		}
	}
	out.Keywords = strings.Join(keywords, ", ")
	out.UATKeys = strings.Join(uat, ", ")
	return nil
}

func derivePubDate(rec *ingest.Record, out *classic.Record) error {
	date := choosePubDate(rec.PubDate)
	if date == "" {
		return absent("publication date")
	}

	pubdate, err := normalizeDate(date)
	if err != nil {
		return err
	}
	out.PubDate = pubdate
	return nil
}

// choosePubDate prefers the print date, then the electronic date, then the
// last "Available" or "Issued" other date. Print and electronic dates shorter
// than four characters are ignored.
func choosePubDate(pd *ingest.PubDate) string {
	if pd == nil {
		return ""
	}
	if len(pd.PrintDate) >= 4 {
		return pd.PrintDate
	}
	if len(pd.ElectDate) >= 4 {
		return pd.ElectDate
	}

	var other string
	for _, od := range pd.OtherDate {
		if od.Type == "Available" || od.Type == "Issued" {
			other = od.Value
		}
	}
	return other
}

// normalizeDate turns YYYY, YYYY-MM or YYYY-MM-DD into MM/YYYY. A month
// outside 1-12 becomes 00.
func normalizeDate(date string) (string, error) {
	parts := strings.Split(date, "-")

	var year, month string
	switch len(parts) {
	case 1:
		year, month = parts[0], "0"
	case 2, 3:
		year, month = parts[0], parts[1]
	default:
		return "", fmt.Errorf("unrecognized date %q", date)
	}

	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return "", fmt.Errorf("unrecognized month in date %q", date)
	}
	if m < 1 || m > 12 {
		m = 0
	}
	return fmt.Sprintf("%02d/%s", m, year), nil
}

// esource labels that become link properties.
var esourceProperties = map[string]string{
	"pub_pdf":  classic.PropPDF,
	"pub_html": classic.PropHTML,
}

// ArXivSource is the preprint source label for arXiv identifiers.
const ArXivSource = "arxiv"

func deriveProperties(rec *ingest.Record, out *classic.Record, recordFilename bool) error {
	var props classic.Properties

	for _, src := range rec.ESources {
		if key, ok := esourceProperties[src.Source]; ok && src.Location != "" {
			props.Set(key, src.Location)
		}
	}

	for _, id := range rec.PersistentIDs {
		if id.DOI != "" {
			props.Set(classic.PropDOI, id.DOI)
		}
		if id.Preprint != nil && id.Preprint.Source == ArXivSource && id.Preprint.Identifier != "" {
			props.Set(classic.PropArXiv, id.Preprint.Identifier)
		}
	}

	if rec.OpenAccess != nil && rec.OpenAccess.Open {
		props.Set(classic.PropOpen, "1")
	}

	if recordFilename && rec.RecordData != nil && rec.RecordData.LoadLocation != "" {
		props.Set(classic.PropFile, rec.RecordData.LoadLocation)
	}

	if len(props) == 0 {
		return absent("properties")
	}
	out.Properties = props
	return nil
}

func deriveCopyright(rec *ingest.Record, out *classic.Record) error {
	if rec.Copyright == nil || rec.Copyright.Statement == "" {
		return absent("copyright")
	}
	out.Copyright = rec.Copyright.Statement
	return nil
}
