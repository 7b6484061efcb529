// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup collapses records describing the same paper across sources
// into single merged records.
package dedup

import (
	"strings"
	"unicode"

	"github.com/pdiddy/litreview/pkg/types"
)

// Output holds the merged records and the number of duplicates removed.
type Output struct {
	Records    []types.PaperRecord
	Duplicates int
}

// Deduplicate merges records that share an identifier or a normalized
// title + first-author key. First occurrence wins position; later
// duplicates merge into it, so input order is preserved. Each surviving
// record carries its canonical DedupKey and the full MergedFrom source list.
func Deduplicate(records []types.PaperRecord) Output {
	seen := make(map[string]int) // dedup key → index in deduped
	var deduped []types.PaperRecord
	removed := 0

	for _, r := range records {
		idKey := idKey(r)
		titleKey := titleKey(r)

		if idx, ok := lookup(seen, idKey, titleKey); ok {
			// Known recall gap: when a title-key match fills in an
			// Identifier the retained record lacked, that identifier is
			// not registered in seen, so a later record carrying only the
			// identifier starts a new entry instead of merging here.
			mergeInto(&deduped[idx], r)
			removed++
			continue
		}

		r.DedupKey = idKey
		if r.DedupKey == "" {
			r.DedupKey = titleKey
		}
		if len(r.MergedFrom) == 0 {
			r.MergedFrom = []string{r.Source}
		}

		idx := len(deduped)
		deduped = append(deduped, r)
		if idKey != "" {
			seen[idKey] = idx
		}
		if titleKey != "" {
			seen[titleKey] = idx
		}
	}

	return Output{Records: deduped, Duplicates: removed}
}

func lookup(seen map[string]int, keys ...string) (int, bool) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if idx, ok := seen[k]; ok {
			return idx, ok
		}
	}
	return 0, false
}

// idKey returns the identifier-based dedup key, empty when the record has
// no source-native identifier.
func idKey(r types.PaperRecord) string {
	if r.Identifier == "" {
		return ""
	}
	return "id:" + strings.ToLower(r.Identifier)
}

// titleKey returns the normalized title + first-author-surname key, empty
// when the record has no title.
func titleKey(r types.PaperRecord) string {
	title := normalizeTitle(r.Title)
	if title == "" {
		return ""
	}
	return "title:" + title + "|" + firstAuthorSurname(r.Authors)
}

// mergeInto fills empty fields of dst from src, preferring the more
// complete value, and accumulates the source list.
func mergeInto(dst *types.PaperRecord, src types.PaperRecord) {
	if dst.Identifier == "" && src.Identifier != "" {
		dst.Identifier = src.Identifier
	}
	if dst.Title == "" && src.Title != "" {
		dst.Title = src.Title
	}
	if len(src.Abstract) > len(dst.Abstract) {
		dst.Abstract = src.Abstract
	}
	if len(src.Authors) > len(dst.Authors) {
		dst.Authors = src.Authors
	}
	if dst.Year == 0 && src.Year != 0 {
		dst.Year = src.Year
	}
	if dst.URL == "" && src.URL != "" {
		dst.URL = src.URL
	}

	for _, s := range append([]string{src.Source}, src.MergedFrom...) {
		if s != "" && !containsString(dst.MergedFrom, s) {
			dst.MergedFrom = append(dst.MergedFrom, s)
		}
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the
// title with collapsed whitespace.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// firstAuthorSurname extracts the last name token of the first author.
func firstAuthorSurname(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	fields := strings.Fields(authors[0])
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
