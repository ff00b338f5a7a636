// Package sentence splits paragraph text into sentences and maps between
// sentence indices and character offsets. Offsets are counted in runes.
package sentence

import (
	"regexp"
	"unicode/utf8"
)

// boundaryPattern matches a terminator followed by a quote or whitespace.
// The match belongs to the sentence it terminates.
var boundaryPattern = regexp.MustCompile(`[.!?]["'\s]`)

// IsTerminator reports whether r can end a sentence.
func IsTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// IsTail reports whether r, directly after a terminator, closes the sentence.
// It mirrors the `["'\s]` class of boundaryPattern (RE2 \s is ASCII only).
func IsTail(r rune) bool {
	switch r {
	case '"', '\'', ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// Split splits text after every terminator+tail pair. A trailing remainder
// without terminal punctuation is kept as the last sentence.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	last := 0
	for _, loc := range boundaryPattern.FindAllStringIndex(text, -1) {
		out = append(out, text[last:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, text[last:])
	}
	return out
}

// Span locates one sentence inside its paragraph, in runes.
type Span struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// End returns the offset just past the sentence.
func (s Span) End() int { return s.Start + s.Length }

// Get returns the position of the index-th sentence. An index outside the
// paragraph yields a zero-length span at the end of the text.
func Get(content string, index int) Span {
	start := 0
	for i, s := range Split(content) {
		n := utf8.RuneCountInString(s)
		if i == index {
			return Span{Start: start, Length: n}
		}
		start += n
	}
	return Span{Start: start}
}

// Text returns the index-th sentence, or "" when it does not exist.
func Text(content string, index int) string {
	parts := Split(content)
	if index < 0 || index >= len(parts) {
		return ""
	}
	return parts[index]
}

// Index returns the smallest sentence index whose end offset is past
// charStart. Offsets beyond the text clamp to the last sentence.
func Index(content string, charStart int) int {
	parts := Split(content)
	if len(parts) == 0 {
		return 0
	}
	end := 0
	for i, s := range parts {
		end += utf8.RuneCountInString(s)
		if end > charStart {
			return i
		}
	}
	return len(parts) - 1
}

// Count returns the number of sentences in content.
func Count(content string) int {
	return len(Split(content))
}
