// Package jsontext implements the small, tolerant JSON text handling used for
// on-disk state and provider payloads. It is deliberately not a JSON library:
// it knows flat string fields, flat string arrays and a handful of integers,
// and every function degrades to an empty result instead of failing.
package jsontext

import (
	"strconv"
	"strings"
	"unicode"
)

// Dialect selects which characters are escaped.
type Dialect struct {
	// ControlChars adds carriage return and tab to the escaped set.
	ControlChars bool
}

var (
	// Wire is used for provider request bodies and answers.
	Wire = Dialect{ControlChars: true}
	// Store is used for the persisted state files.
	Store = Dialect{}
)

// Escape quotes s for embedding inside a JSON string literal.
// The backslash is handled first so inserted escapes are not doubled.
func (d Dialect) Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == '"':
			b.WriteString(`\"`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r' && d.ControlChars:
			b.WriteString(`\r`)
		case c == '\t' && d.ControlChars:
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unescape reverses Escape. Sequences the dialect does not know are copied
// through unchanged.
func (d Dialect) Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		switch next := s[i+1]; {
		case next == 'n':
			b.WriteByte('\n')
		case next == 'r' && d.ControlChars:
			b.WriteByte('\r')
		case next == 't' && d.ControlChars:
			b.WriteByte('\t')
		case next == '"':
			b.WriteByte('"')
		case next == '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(c)
			continue
		}
		i++
	}
	return b.String()
}

// ReadQuoted skips whitespace at s[from:], expects an opening quote and
// returns the raw text up to the next unescaped quote.
func ReadQuoted(s string, from int) (string, bool) {
	if from < 0 || from > len(s) {
		return "", false
	}
	i := skipSpace(s, from)
	if i >= len(s) || s[i] != '"' {
		return "", false
	}
	start := i + 1
	for j := start; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return s[start:j], true
		}
	}
	return "", false
}

// ExtractField returns the unescaped value of the flat string field name, or
// "" when the field is absent or malformed.
func ExtractField(doc, name string) string {
	at := valueIndex(doc, name)
	if at < 0 {
		return ""
	}
	raw, ok := ReadQuoted(doc, at)
	if !ok {
		return ""
	}
	return Store.Unescape(raw)
}

// HasField reports whether the key "name": occurs in doc.
func HasField(doc, name string) bool {
	return valueIndex(doc, name) >= 0
}

// ExtractStringArray returns the elements of the flat string array name.
// The array ends at the first ']' after its '[', so an element holding ']'
// truncates the array there: ["Math [adv]", "Art"] yields just "Math [adv".
// Elements containing escaped quotes are not supported either; see
// SplitQuoted.
func ExtractStringArray(doc, name string) []string {
	at := valueIndex(doc, name)
	if at < 0 {
		return []string{}
	}
	open := strings.IndexByte(doc[at:], '[')
	if open < 0 {
		return []string{}
	}
	open += at + 1
	end := strings.IndexByte(doc[open:], ']')
	if end < 0 {
		return []string{}
	}
	return SplitQuoted(doc[open : open+end])
}

// SplitQuoted splits span on every raw quote character and keeps the
// odd-indexed tokens, i.e. the text that sat between a pair of quotes.
// Blank tokens are dropped. An element holding an escaped quote is cut at
// that quote and shifts the parity of what follows: `"a\"b", "c"` yields
// `a\` and `, `.
func SplitQuoted(span string) []string {
	parts := strings.Split(span, `"`)
	out := make([]string, 0, len(parts)/2)
	for i := 1; i < len(parts); i += 2 {
		if strings.TrimSpace(parts[i]) == "" {
			continue
		}
		out = append(out, Store.Unescape(parts[i]))
	}
	return out
}

// ExtractInt reads the integer field name. The second result is false when
// the field is missing or not a number.
func ExtractInt(doc, name string) (int, bool) {
	at := valueIndex(doc, name)
	if at < 0 {
		return 0, false
	}
	i := skipSpace(doc, at)
	j := i
	if j < len(doc) && doc[j] == '-' {
		j++
	}
	for j < len(doc) && doc[j] >= '0' && doc[j] <= '9' {
		j++
	}
	n, err := strconv.Atoi(doc[i:j])
	if err != nil {
		return 0, false
	}
	return n, true
}

// valueIndex returns the offset just past `"name":`, or -1.
func valueIndex(doc, name string) int {
	key := `"` + name + `":`
	i := strings.Index(doc, key)
	if i < 0 {
		return -1
	}
	return i + len(key)
}

func skipSpace(s string, i int) int {
	for i < len(s) && unicode.IsSpace(rune(s[i])) {
		i++
	}
	return i
}
