// Package ingest turns raw bank-statement CSV text into canonical
// transactions: it infers column roles from the header row, tokenizes
// each data row and normalizes dates and amounts.
package ingest

import "strings"

// SplitLine splits one raw CSV line into trimmed field values.
//
// A double quote toggles quote mode: while inside a quoted field the
// delimiter is literal content. Quote characters themselves are consumed.
// Doubled quotes are not unescaped; a quote always flips the mode. An
// empty line yields a single empty field, so callers must skip all-blank
// lines upstream.
func SplitLine(line string, delimiter rune) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == delimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}
