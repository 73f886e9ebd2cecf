package types

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the human-readable stamp embedded in history entries.
const TimestampLayout = "2006-01-02 15:04:05"

// EntryKind marks a history line as a question or an answer.
type EntryKind string

const (
	Question EntryKind = "Q"
	Answer   EntryKind = "A"
)

// Entry is a parsed history line.
type Entry struct {
	Timestamp string
	Kind      EntryKind
	Text      string
}

// FormatEntry renders "[<timestamp>] <kind>: <text>".
func FormatEntry(t time.Time, kind EntryKind, text string) string {
	return fmt.Sprintf("[%s] %s: %s", t.Format(TimestampLayout), kind, text)
}

// ParseEntry splits a line produced by FormatEntry. Lines in any other
// shape report false.
func ParseEntry(line string) (Entry, bool) {
	if !strings.HasPrefix(line, "[") {
		return Entry{}, false
	}
	end := strings.Index(line, "] ")
	if end < 0 {
		return Entry{}, false
	}
	rest := line[end+2:]
	for _, k := range []EntryKind{Question, Answer} {
		prefix := string(k) + ": "
		if strings.HasPrefix(rest, prefix) {
			return Entry{Timestamp: line[1:end], Kind: k, Text: rest[len(prefix):]}, true
		}
	}
	return Entry{}, false
}

// History is the ordered, append-only conversation log.
type History struct {
	entries []string
}

// NewHistory wraps previously persisted entries.
func NewHistory(entries []string) *History {
	return &History{entries: append([]string(nil), entries...)}
}

func (h *History) Append(entry ...string) {
	h.entries = append(h.entries, entry...)
}

// Entries returns a copy of the log in insertion order.
func (h *History) Entries() []string {
	return append([]string{}, h.entries...)
}

func (h *History) Len() int    { return len(h.entries) }
func (h *History) Empty() bool { return len(h.entries) == 0 }
