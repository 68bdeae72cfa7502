package lookup

import (
	"context"
	"errors"
	"strings"

	"github.com/adsabs/adsmanparse/internal/bibcode"
	"github.com/adsabs/adsmanparse/internal/ingest"
)

// Generator returns a bibcode generator that answers from the table when the
// record's DOI is known and asks fallback otherwise. fallback may be nil.
func Generator(t *Table, fallback bibcode.Generator) bibcode.Generator {
	return bibcode.GeneratorFunc(func(ctx context.Context, rec *ingest.Record, bibstem, volume string) (string, error) {
		if doi := rec.FirstDOI(); doi != "" {
			code, err := t.Get(doi)
			if err == nil {
				return code, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return "", err
			}
		}
		if fallback == nil {
			return "", ErrNotFound
		}
		return fallback.MakeBibcode(ctx, rec, bibstem, volume)
	})
}

// hasPage reports whether the record carries any page or electronic id.
func hasPage(rec *ingest.Record) bool {
	pg := rec.Pagination
	if pg == nil {
		return false
	}
	return pg.FirstPage != "" || pg.PageRange != "" || pg.ElectronicID != ""
}

// withPagination returns a shallow copy of rec with its own Pagination.
func withPagination(rec *ingest.Record) *ingest.Record {
	out := *rec
	pg := ingest.Pagination{}
	if rec.Pagination != nil {
		pg = *rec.Pagination
	}
	out.Pagination = &pg
	return &out
}

// ElectronicIDFromDOI fills in an electronic id from the last segment of the
// DOI suffix ("10.22323/1.395.0123" gives "0123") for records without any
// page. The input is returned unchanged when there is nothing to do.
func ElectronicIDFromDOI(rec *ingest.Record) *ingest.Record {
	if hasPage(rec) {
		return rec
	}
	doi := rec.FirstDOI()
	_, suffix, ok := strings.Cut(doi, "/")
	if !ok || suffix == "" {
		return rec
	}
	id := suffix
	if i := strings.LastIndexAny(suffix, "./"); i >= 0 {
		id = suffix[i+1:]
	}
	if id == "" {
		return rec
	}

	out := withPagination(rec)
	out.Pagination.ElectronicID = id
	return out
}

// WithFirstPage sets a synthetic first page on records without any page.
// The input is returned unchanged when it already has one.
func WithFirstPage(rec *ingest.Record, page string) *ingest.Record {
	if hasPage(rec) || page == "" {
		return rec
	}
	out := withPagination(rec)
	out.Pagination.FirstPage = ingest.FlexibleString(page)
	return out
}

// NeedsPage reports whether a synthetic page should be allocated for rec.
func NeedsPage(rec *ingest.Record) bool {
	return !hasPage(rec)
}
