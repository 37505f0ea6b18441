package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s and strips diacritics ("Açúcar" -> "acucar").
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// transform.Chain keeps state, so each call gets its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Terms splits a normalized query on whitespace, dropping empty pieces.
func Terms(query string) []string {
	return strings.Fields(Normalize(query))
}
