// Package session holds the state of one run of the study assistant and the
// operations the console offers on it. Nothing here touches the terminal.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jeanpaul/studymentor/internal/export"
	"github.com/jeanpaul/studymentor/internal/provider"
	"github.com/jeanpaul/studymentor/internal/store"
	"github.com/jeanpaul/studymentor/internal/types"
)

// ProviderFactory builds the client for a provider kind.
type ProviderFactory func(types.ProviderKind) provider.Provider

type Session struct {
	ID       string
	Profile  *types.Profile // nil until a profile exists
	History  *types.History
	Stats    *types.Stats
	Provider provider.Provider

	store   *store.Store
	factory ProviderFactory
	log     *logrus.Entry
	now     func() time.Time
}

type Option func(*Session)

// WithClock replaces time.Now for history stamps and export names.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(log *logrus.Entry) Option {
	return func(s *Session) { s.log = log }
}

// Open restores the saved profile and history and builds the provider for
// the profile's preferred kind, or fallback when there is no profile.
// Counters always start fresh.
func Open(st *store.Store, factory ProviderFactory, fallback types.ProviderKind, opts ...Option) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		History: types.NewHistory(st.LoadHistory()),
		Stats:   types.NewStats(),
		store:   st,
		factory: factory,
		log:     logrus.NewEntry(logrus.StandardLogger()),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithFields(logrus.Fields{"component": "session", "session": s.ID})

	kind := fallback
	if p, ok := st.LoadProfile(); ok {
		s.Profile = &p
		kind = p.PreferredAI
	}
	s.Provider = factory(kind)
	s.log.WithFields(logrus.Fields{
		"provider":  s.Provider.Name(),
		"available": s.Provider.Available(),
		"history":   s.History.Len(),
	}).Info("Session opened")
	return s
}

// NeedsProfile reports whether the student still has to create a profile.
func (s *Session) NeedsProfile() bool { return s.Profile == nil }

// CurrentKind is the provider kind in use.
func (s *Session) CurrentKind() types.ProviderKind { return s.Provider.Kind() }

// CreateProfile stores p as the session profile and switches to its
// preferred provider.
func (s *Session) CreateProfile(p types.Profile) {
	c := p.Clone()
	s.Profile = &c
	s.store.SaveProfile(c)
	if s.Provider.Kind() != c.PreferredAI {
		s.Provider = s.factory(c.PreferredAI)
	}
}

// Ask forwards question to the provider. A successful exchange is appended
// to the history, which is saved right away.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	answer, err := s.Provider.Ask(ctx, question)
	if err != nil {
		s.log.WithError(err).Warn("Question failed")
		return "", err
	}

	at := s.now()
	s.History.Append(
		types.FormatEntry(at, types.Question, question),
		types.FormatEntry(at, types.Answer, answer),
	)
	s.store.SaveHistory(s.History.Entries())
	s.Stats.RecordQuestion()
	return answer, nil
}

// PlanRequest describes a study plan. Values are passed to the prompt as
// typed by the student.
type PlanRequest struct {
	Subject string
	Days    string
	Hours   string
	Level   string
}

func (r PlanRequest) Prompt() string {
	return fmt.Sprintf("Create a %s-day study plan for %s.\n"+
		"Level: %s\n"+
		"Daily time: %s hours\n"+
		"Include daily goals, topics, and weekly review.\n",
		r.Days, r.Subject, r.Level, r.Hours)
}

// StudyPlan asks for a plan. Plans are not added to the history.
func (s *Session) StudyPlan(ctx context.Context, req PlanRequest) (string, error) {
	answer, err := s.Provider.Ask(ctx, req.Prompt())
	if err != nil {
		return "", err
	}
	s.Stats.RecordStudyPlan()
	return answer, nil
}

// ExplainStyle selects how a concept is explained.
type ExplainStyle int

const (
	ELI5 ExplainStyle = iota + 1
	Technical
	Visual
	Analogy
)

// ExplainStyles lists the styles in menu order.
func ExplainStyles() []ExplainStyle {
	return []ExplainStyle{ELI5, Technical, Visual, Analogy}
}

func (e ExplainStyle) String() string {
	switch e {
	case ELI5:
		return "ELI5"
	case Technical:
		return "Technical"
	case Visual:
		return "Visual"
	case Analogy:
		return "Analogy"
	}
	return fmt.Sprintf("ExplainStyle(%d)", int(e))
}

func ExplainPrompt(concept string, style ExplainStyle) string {
	return "Explain " + concept + " in a " + style.String() + " style."
}

func (s *Session) Explain(ctx context.Context, concept string, style ExplainStyle) (string, error) {
	return s.Provider.Ask(ctx, ExplainPrompt(concept, style))
}

const motivationPrompt = "Give motivational study tips."

func (s *Session) Motivate(ctx context.Context) (string, error) {
	answer, err := s.Provider.Ask(ctx, motivationPrompt)
	if err != nil {
		return "", err
	}
	s.Stats.RecordMotivation()
	return answer, nil
}

// Rename, SetGrade and SetSubjects mutate the profile and save it.

func (s *Session) Rename(name string) {
	s.updateProfile(func(p *types.Profile) { p.Name = name })
}

func (s *Session) SetGrade(grade string) {
	s.updateProfile(func(p *types.Profile) { p.Grade = grade })
}

func (s *Session) SetSubjects(subjects []string) {
	s.updateProfile(func(p *types.Profile) { p.Subjects = append([]string(nil), subjects...) })
}

func (s *Session) updateProfile(fn func(*types.Profile)) {
	if s.Profile == nil {
		s.Profile = &types.Profile{PreferredAI: s.Provider.Kind()}
	}
	fn(s.Profile)
	s.store.SaveProfile(*s.Profile)
}

// SwitchProvider moves to kind, saving it as the preferred provider. It
// reports false when kind is already in use.
func (s *Session) SwitchProvider(kind types.ProviderKind) bool {
	if kind == s.Provider.Kind() {
		return false
	}
	s.Provider = s.factory(kind)
	s.updateProfile(func(p *types.Profile) { p.PreferredAI = kind })
	s.log.WithFields(logrus.Fields{
		"provider":  s.Provider.Name(),
		"available": s.Provider.Available(),
	}).Info("Provider changed")
	return true
}

// ExportHistory writes the history into dir and returns the file path.
func (s *Session) ExportHistory(dir string, f export.Format) (string, error) {
	return export.Export(s.History.Entries(), dir, f, s.now())
}

// Close saves the profile, when there is one, and the counters.
func (s *Session) Close() {
	if s.Profile != nil {
		s.store.SaveProfile(*s.Profile)
	}
	s.store.SaveStats(*s.Stats)
	s.log.WithFields(logrus.Fields{
		"questions": s.Stats.QuestionsAsked,
		"plans":     s.Stats.StudyPlansCreated,
	}).Info("Session closed")
}

// Greeting names the student for banners.
func (s *Session) Greeting() string {
	if s.Profile == nil || strings.TrimSpace(s.Profile.Name) == "" {
		return "student"
	}
	return s.Profile.Name
}
