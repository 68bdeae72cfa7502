package classic

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var typographic = strings.NewReplacer(
	"&lsquo;", "'", "&rsquo;", "'",
	"&ldquo;", `"`, "&rdquo;", `"`,
	"&nbsp;", " ", "&zwnj;", " ",
	"\u2018", "'", "\u2019", "'",
	"\u201c", `"`, "\u201d", `"`,
	"\u00a0", " ", "\u200c", " ",
)

// Clean decodes HTML named entities, flattens curly quotes, non-breaking
// spaces and zero-width non-joiners to ASCII, and NFC-normalizes the result.
func Clean(s string) string {
	s = html.UnescapeString(s)
	s = typographic.Replace(s)
	return norm.NFC.String(s)
}
