package types

import "strings"

// Profile is the student's persisted identity and preferences.
type Profile struct {
	Name        string
	Grade       string
	Email       string // optional
	Subjects    []string
	PreferredAI ProviderKind
}

// Clone returns a copy that shares no slice storage with p.
func (p Profile) Clone() Profile {
	c := p
	c.Subjects = append([]string(nil), p.Subjects...)
	return c
}

// SubjectList joins the subjects for display.
func (p Profile) SubjectList() string {
	return strings.Join(p.Subjects, ", ")
}

// ParseSubjects splits a comma-separated line, trimming each element.
// Order and duplicates are kept.
func ParseSubjects(line string) []string {
	fields := strings.Split(line, ",")
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.TrimSpace(f))
	}
	return out
}
