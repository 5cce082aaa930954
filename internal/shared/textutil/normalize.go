// Package textutil normalizes free text typed into report and profile forms.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Clean applies NFC normalization, trims the ends and collapses runs of
// whitespace into single spaces. Use for single-line fields.
func Clean(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// CleanMultiline is Clean for bodies: NFC, trimmed, line breaks kept.
func CleanMultiline(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// FoldKey returns a case-folded key for case-insensitive name matching,
// e.g. "MAINTENANCE" and "Maintenance" compare equal.
func FoldKey(s string) string {
	return folder.String(Clean(s))
}
