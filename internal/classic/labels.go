package classic

import "fmt"

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// AffLabel returns the positional label for the n-th labeled entry:
// AA..ZZ for the first 676 entries, then AAA..ZZZ, and so on.
func AffLabel(n int) string {
	if n < 0 {
		return ""
	}

	width := 2
	block := len(alphabet) * len(alphabet)
	for n >= block {
		n -= block
		width++
		block *= len(alphabet)
	}

	label := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		label[i] = alphabet[n%len(alphabet)]
		n /= len(alphabet)
	}
	return string(label)
}

// labelEntries prefixes every non-empty entry with its label. Empty entries
// are dropped and do not consume a label.
func labelEntries(entries []string) []string {
	var out []string
	for _, e := range entries {
		if e == "" {
			continue
		}
		out = append(out, fmt.Sprintf("%s(%s)", AffLabel(len(out)), e))
	}
	return out
}
