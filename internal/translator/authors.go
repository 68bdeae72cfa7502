package translator

import (
	"fmt"
	"strings"

	"github.com/adsabs/adsmanparse/internal/classic"
	"github.com/adsabs/adsmanparse/internal/ingest"
)

// affIDSystems lists the organization id systems tried, in priority order.
var affIDSystems = []string{"ROR", "GRID", "ISNI"}

func deriveAuthors(rec *ingest.Record, out *classic.Record) error {
	if len(rec.Authors) == 0 {
		return absent("authors")
	}

	var authors, natives, affils []string
	for _, a := range rec.Authors {
		if a.Name == nil {
			continue
		}
		name, native := formatName(a.Name)
		authors = append(authors, name)
		natives = append(natives, native)
		affils = append(affils, formatAffiliation(a))
	}
	if len(authors) == 0 {
		return absent("author names")
	}

	out.Authors = authors
	out.NativeAuthors = natives
	out.Affiliations = affils
	return nil
}

// formatName returns "Surname, Given Middle" (or the collaboration name when
// there is no surname) and the contributor's native-language name.
func formatName(n *ingest.Name) (string, string) {
	var name string
	switch {
	case n.Surname != "":
		name = n.Surname
		if n.GivenName != "" {
			name += ", " + n.GivenName
			if n.MiddleName != "" {
				name += " " + n.MiddleName
			}
		}
	case n.Collab != "":
		name = n.Collab
	}
	return name, n.NativeLang
}

// formatAffiliation joins a contributor's affiliations, ORCID and email
// into one "; "-separated string. Affiliations with a known organization id
// are wrapped in an AFF marker. Returns "" when there is nothing to say.
func formatAffiliation(c ingest.Contributor) string {
	var parts []string

	for _, aff := range c.Affiliation {
		if aff.PubRaw == "" {
			continue
		}
		if system, id, ok := preferredAffID(aff.PubID); ok {
			parts = append(parts, fmt.Sprintf(`<AFF id="%s:%s">%s</AFF>`, system, id, aff.PubRaw))
		} else {
			parts = append(parts, aff.PubRaw)
		}
	}

	if c.Attrib != nil {
		if c.Attrib.ORCID != "" {
			parts = append(parts, `<ID system="ORCID">`+c.Attrib.ORCID+`</ID>`)
		}
		if c.Attrib.Email != "" {
			parts = append(parts, "<EMAIL>"+c.Attrib.Email+"</EMAIL>")
		}
	}

	return strings.Join(parts, "; ")
}

// preferredAffID returns the first id found in affIDSystems order.
func preferredAffID(ids []ingest.AffiliationID) (string, string, bool) {
	if len(ids) == 0 {
		return "", "", false
	}
	bySystem := make(map[string]string, len(ids))
	for _, id := range ids {
		if id.ID != "" {
			bySystem[id.Type] = id.ID
		}
	}
	for _, system := range affIDSystems {
		if id, ok := bySystem[system]; ok {
			return system, id, true
		}
	}
	return "", "", false
}
