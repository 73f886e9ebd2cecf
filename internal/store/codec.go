package store

import (
	"fmt"
	"strings"

	"github.com/jeanpaul/studymentor/internal/jsontext"
	"github.com/jeanpaul/studymentor/internal/types"
)

// Field names of the persisted documents.
const (
	keyName        = "name"
	keyGrade       = "grade"
	keyEmail       = "email"
	keyPreferredAI = "preferredAI"
	keySubjects    = "subjects"

	keyQuestionsAsked     = "questionsAsked"
	keyStudyPlansCreated  = "studyPlansCreated"
	keyMotivationSessions = "motivationSessions"
	keyTotalSessions      = "totalSessions"
	keyTotalQuestions     = "totalQuestions"
)

var esc = jsontext.Store.Escape

// EncodeProfile renders p with a fixed key order.
func EncodeProfile(p types.Profile) string {
	var b strings.Builder
	b.WriteString("{\n")
	fmt.Fprintf(&b, "  %q: \"%s\",\n", keyName, esc(p.Name))
	fmt.Fprintf(&b, "  %q: \"%s\",\n", keyGrade, esc(p.Grade))
	fmt.Fprintf(&b, "  %q: \"%s\",\n", keyEmail, esc(p.Email))
	fmt.Fprintf(&b, "  %q: \"%s\",\n", keyPreferredAI, p.PreferredAI)
	fmt.Fprintf(&b, "  %q: [", keySubjects)
	for i, s := range p.Subjects {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`"` + esc(s) + `"`)
	}
	b.WriteString("]\n}\n")
	return b.String()
}

// DecodeProfile reads a profile document. It reports false when the text
// does not look like a profile at all.
func DecodeProfile(doc string) (types.Profile, bool) {
	if !jsontext.HasField(doc, keyName) {
		return types.Profile{}, false
	}
	kind, _ := types.ParseProviderKind(jsontext.ExtractField(doc, keyPreferredAI))
	return types.Profile{
		Name:        jsontext.ExtractField(doc, keyName),
		Grade:       jsontext.ExtractField(doc, keyGrade),
		Email:       jsontext.ExtractField(doc, keyEmail),
		Subjects:    jsontext.ExtractStringArray(doc, keySubjects),
		PreferredAI: kind,
	}, true
}

// EncodeHistory renders entries as an array, one element per line.
func EncodeHistory(entries []string) string {
	var b strings.Builder
	b.WriteString("[\n")
	for i, e := range entries {
		b.WriteString(`  "` + esc(e) + `"`)
		if i < len(entries)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("]\n")
	return b.String()
}

// DecodeHistory applies the quote-splitting heuristic to the outermost
// bracket span. Anything unrecognisable decodes to an empty log.
func DecodeHistory(doc string) []string {
	start := strings.IndexByte(doc, '[')
	end := strings.LastIndexByte(doc, ']')
	if start < 0 || end <= start {
		return []string{}
	}
	return jsontext.SplitQuoted(doc[start+1 : end])
}

// EncodeStats renders the counters as a flat object.
func EncodeStats(s types.Stats) string {
	var b strings.Builder
	b.WriteString("{\n")
	fmt.Fprintf(&b, "  %q: %d,\n", keyQuestionsAsked, s.QuestionsAsked)
	fmt.Fprintf(&b, "  %q: %d,\n", keyStudyPlansCreated, s.StudyPlansCreated)
	fmt.Fprintf(&b, "  %q: %d,\n", keyMotivationSessions, s.MotivationSessions)
	fmt.Fprintf(&b, "  %q: %d,\n", keyTotalSessions, s.TotalSessions)
	fmt.Fprintf(&b, "  %q: %d\n", keyTotalQuestions, s.TotalQuestions)
	b.WriteString("}\n")
	return b.String()
}

// DecodeStats reads the counters back. Missing counters stay zero; false
// means none was found.
func DecodeStats(doc string) (types.Stats, bool) {
	var s types.Stats
	found := false
	for _, f := range []struct {
		key string
		dst *int
	}{
		{keyQuestionsAsked, &s.QuestionsAsked},
		{keyStudyPlansCreated, &s.StudyPlansCreated},
		{keyMotivationSessions, &s.MotivationSessions},
		{keyTotalSessions, &s.TotalSessions},
		{keyTotalQuestions, &s.TotalQuestions},
	} {
		if n, ok := jsontext.ExtractInt(doc, f.key); ok && n >= 0 {
			*f.dst = n
			found = true
		}
	}
	return s, found
}
