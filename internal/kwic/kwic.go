// Package kwic finds whole-word keyword occurrences in a text and returns each
// with its surrounding context.
//
// Word characters are Unicode letters, combining marks, digits and underscore,
// so Arabic words (with or without harakat) behave like Latin ones at boundaries.
// Positions and window sizes are counted in characters, not bytes.
package kwic

import (
	"regexp"
	"sort"
	"unicode"
	"unicode/utf8"
)

// DefaultWindow is the number of characters of context on each side of a hit.
const DefaultWindow = 50

// Hit is a single keyword occurrence.
type Hit struct {
	Keyword  string `json:"keyword"`
	Context  string `json:"context"`
	Position int    `json:"position"`
}

// IsWordRune reports whether r belongs to the word-character class.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r)
}

// Extract returns every case-insensitive whole-word occurrence of each keyword,
// ordered by position. Hits at the same position keep keyword order.
func Extract(text string, keywords []string, window int) []Hit {
	hits := []Hit{}
	if text == "" || len(keywords) == 0 {
		return hits
	}

	if window < 0 {
		window = 0
	}

	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}

		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
		for _, m := range findWholeWords(re, text) {
			hits = append(hits, Hit{
				Keyword:  keyword,
				Context:  contextAround(text, m[0], m[1], window),
				Position: utf8.RuneCountInString(text[:m[0]]),
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Position < hits[j].Position
	})

	return hits
}

// findWholeWords returns byte ranges of matches with a word boundary on both ends.
// A rejected match restarts the search one character later so overlapping
// candidates are not skipped.
func findWholeWords(re *regexp.Regexp, text string) [][2]int {
	var found [][2]int

	offset := 0
	for offset <= len(text) {
		loc := re.FindStringIndex(text[offset:])
		if loc == nil {
			break
		}

		start, end := offset+loc[0], offset+loc[1]
		if end > start && isBoundary(text, start) && isBoundary(text, end) {
			found = append(found, [2]int{start, end})
			offset = end

			continue
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		if size == 0 {
			break
		}

		offset = start + size
	}

	return found
}

// isBoundary reports whether a word boundary sits at byte offset i.
func isBoundary(text string, i int) bool {
	before, after := false, false

	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = IsWordRune(r)
	}

	if i < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i:])
		after = IsWordRune(r)
	}

	return before != after
}

// contextAround slices text from window characters before start to window
// characters after end, clipped at the text boundaries.
func contextAround(text string, start, end, window int) string {
	from := start
	for n := 0; n < window && from > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}

	to := end
	for n := 0; n < window && to < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}

	return text[from:to]
}
