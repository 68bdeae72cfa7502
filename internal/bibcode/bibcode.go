// Package bibcode builds the 19-character bibliographic codes assigned to
// every classic record:
//
//	YYYYJJJJJVVVVMPPPPA
//
// year, bibstem (dot padded right), volume (dot padded left), qualifier,
// page (dot padded left) and the first author's initial.
package bibcode

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/adsabs/adsmanparse/internal/ingest"
)

// Length is the fixed width of a bibcode.
const Length = 19

// Generator makes a bibcode for an ingest record. bibstem and volume, when
// non-empty, override what the record says.
type Generator interface {
	MakeBibcode(ctx context.Context, rec *ingest.Record, bibstem, volume string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, rec *ingest.Record, bibstem, volume string) (string, error)

// MakeBibcode calls f.
func (f GeneratorFunc) MakeBibcode(ctx context.Context, rec *ingest.Record, bibstem, volume string) (string, error) {
	return f(ctx, rec, bibstem, volume)
}

// Local builds bibcodes from the record alone.
type Local struct {
	// Journals maps publication names to bibstems for records that are
	// translated without an explicit bibstem.
	Journals map[string]string
}

// NewLocal returns a local generator with an optional journal->bibstem table.
func NewLocal(journals map[string]string) *Local {
	return &Local{Journals: journals}
}

// MakeBibcode implements Generator.
func (l *Local) MakeBibcode(_ context.Context, rec *ingest.Record, bibstem, volume string) (string, error) {
	year := rec.Year()
	if len(year) != 4 || !isDigits(year) {
		return "", ErrMissingYear
	}

	if bibstem == "" && rec.Publication != nil {
		bibstem = l.Journals[rec.Publication.PubName]
	}
	if bibstem == "" {
		return "", ErrMissingBibstem
	}

	if volume == "" && rec.Publication != nil {
		volume = rec.Publication.VolumeNum.String()
	}

	qualifier, page, err := pageParts(rec)
	if err != nil {
		return "", err
	}

	return Assemble(year, bibstem, volume, qualifier, page, initial(rec)), nil
}

// Assemble packs already-resolved parts into a bibcode. A bibstem longer
// than five characters runs into the volume slot; the volume then fills
// whatever is left of it, or is dropped when it does not fit.
func Assemble(year, bibstem, volume, qualifier, page, initial string) string {
	if qualifier == "" {
		qualifier = "."
	}
	if initial == "" {
		initial = "."
	}

	var b strings.Builder
	b.WriteString(year)
	b.WriteString(journalVolume(bibstem, volume))
	b.WriteString(qualifier[:1])
	b.WriteString(padLeft(page, 4))
	b.WriteString(initial[:1])
	return b.String()
}

// pageParts chooses the first page, else the electronic id, and splits off
// the qualifier character.
func pageParts(rec *ingest.Record) (string, string, error) {
	var page string
	if rec.Pagination != nil {
		page = rec.Pagination.FirstPage.String()
		if page == "" {
			page = rec.Pagination.ElectronicID
		}
	}
	page = strings.TrimSpace(page)
	if page == "" {
		return "", "", ErrMissingPage
	}

	var qualifier string
	if r := rune(page[0]); unicode.IsLetter(r) {
		qualifier = strings.ToUpper(page[:1])
		page = page[1:]
	}
	if !isDigits(page) {
		return "", "", ErrInvalidPage
	}
	page = strings.TrimLeft(page, "0")
	if page == "" {
		page = "0"
	}

	switch {
	case len(page) <= 4:
		return qualifier, page, nil
	case len(page) == 5 && qualifier == "":
		return page[:1], page[1:], nil
	case len(page) == 6 && qualifier == "":
		// pages 100000 and above carry their leading two digits as a
		// lower-case letter: 10 -> a, 11 -> b, ...
		lead, _ := strconv.Atoi(page[:2])
		if lead < 10 || lead > 35 {
			return "", "", ErrInvalidPage
		}
		return string(rune('a' + lead - 10)), page[2:], nil
	}
	return "", "", ErrInvalidPage
}

// initial returns the upper-cased first letter of the first author's
// surname or collaboration name.
func initial(rec *ingest.Record) string {
	for _, a := range rec.Authors {
		if a.Name == nil {
			continue
		}
		name := a.Name.Surname
		if name == "" {
			name = a.Name.Collab
		}
		for _, r := range name {
			if unicode.IsLetter(r) {
				return string(unicode.ToUpper(asciiFold(r)))
			}
		}
		return ""
	}
	return ""
}

// asciiFold strips diacritics so the initial stays ASCII; anything that has
// no ASCII base letter becomes '.'.
func asciiFold(r rune) rune {
	for _, d := range norm.NFD.String(string(r)) {
		if d < unicode.MaxASCII {
			return d
		}
		break
	}
	return '.'
}

// journalVolume renders the nine characters after the year.
func journalVolume(bibstem, volume string) string {
	if len(bibstem) <= 5 {
		return padRight(bibstem, 5) + padLeft(volume, 4)
	}
	if len(bibstem) > 9 {
		bibstem = bibstem[:9]
	}
	rest := 9 - len(bibstem)
	if len(volume) > rest {
		volume = ""
	}
	return bibstem + padLeft(volume, rest)
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(".", n-len(s))
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s[len(s)-n:]
	}
	return strings.Repeat(".", n-len(s)) + s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
