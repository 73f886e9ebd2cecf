package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/studymentor/internal/export"
	"github.com/jeanpaul/studymentor/internal/provider"
	"github.com/jeanpaul/studymentor/internal/store"
	"github.com/jeanpaul/studymentor/internal/types"
)

type fakeProvider struct {
	kind      types.ProviderKind
	available bool
	answer    string
	err       error
	asked     []string
}

func (f *fakeProvider) Name() string             { return f.kind.String() }
func (f *fakeProvider) Kind() types.ProviderKind { return f.kind }
func (f *fakeProvider) Available() bool          { return f.available }

func (f *fakeProvider) Ask(_ context.Context, q string) (string, error) {
	f.asked = append(f.asked, q)
	if !f.available {
		return "", provider.ErrUnavailable
	}
	return f.answer, f.err
}

type fixture struct {
	store     *store.Store
	providers map[types.ProviderKind]*fakeProvider
	built     []types.ProviderKind
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return &fixture{
		store: store.New(store.DefaultPaths(t.TempDir()), logrus.NewEntry(logger)),
		providers: map[types.ProviderKind]*fakeProvider{
			types.OpenAI: {kind: types.OpenAI, available: true, answer: "openai says hi"},
			types.Gemini: {kind: types.Gemini, available: true, answer: "gemini says hi"},
		},
	}
}

func (f *fixture) factory(k types.ProviderKind) provider.Provider {
	f.built = append(f.built, k)
	return f.providers[k]
}

var fixedNow = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

func (f *fixture) open() *Session {
	logger, _ := test.NewNullLogger()
	return Open(f.store, f.factory, types.OpenAI,
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(logrus.NewEntry(logger)))
}

func TestOpen_FirstRun(t *testing.T) {
	f := newFixture(t)
	s := f.open()

	assert.True(t, s.NeedsProfile())
	assert.True(t, s.History.Empty())
	assert.Equal(t, types.OpenAI, s.CurrentKind())
	assert.Equal(t, 1, s.Stats.TotalSessions)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "student", s.Greeting())
}

func TestOpen_RestoresProfileAndHistory(t *testing.T) {
	f := newFixture(t)
	f.store.SaveProfile(types.Profile{Name: "Ada", Subjects: []string{"Math"}, PreferredAI: types.Gemini})
	f.store.SaveHistory([]string{"[2026-01-01 00:00:00] Q: old"})

	s := f.open()
	require.False(t, s.NeedsProfile())
	assert.Equal(t, "Ada", s.Greeting())
	assert.Equal(t, types.Gemini, s.CurrentKind())
	assert.Equal(t, []string{"[2026-01-01 00:00:00] Q: old"}, s.History.Entries())
}

func TestOpen_TotalSessionsNotAccumulated(t *testing.T) {
	// known limitation: each run starts counting sessions at 1 again
	f := newFixture(t)
	f.store.SaveStats(types.Stats{TotalSessions: 7, TotalQuestions: 20})

	s := f.open()
	assert.Equal(t, 1, s.Stats.TotalSessions)
	assert.Equal(t, 0, s.Stats.TotalQuestions)
}

func TestAsk_RecordsHistory(t *testing.T) {
	f := newFixture(t)
	s := f.open()

	answer, err := s.Ask(context.Background(), "What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, "openai says hi", answer)

	want := []string{
		"[2026-05-06 07:08:09] Q: What is 2+2?",
		"[2026-05-06 07:08:09] A: openai says hi",
	}
	assert.Equal(t, want, s.History.Entries())
	assert.Equal(t, want, f.store.LoadHistory(), "history is saved after every exchange")
	assert.Equal(t, 1, s.Stats.QuestionsAsked)
	assert.Equal(t, 1, s.Stats.TotalQuestions)
}

func TestAsk_FailureLeavesStateAlone(t *testing.T) {
	f := newFixture(t)
	f.providers[types.OpenAI].err = &provider.APIError{Provider: "OpenAI", StatusCode: 500, Body: "boom"}
	s := f.open()

	_, err := s.Ask(context.Background(), "q")
	var apiErr *provider.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, s.History.Empty())
	assert.Equal(t, 0, s.Stats.QuestionsAsked)
	_, statErr := os.Stat(f.store.Paths().History)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAsk_Unavailable(t *testing.T) {
	f := newFixture(t)
	f.providers[types.OpenAI].available = false
	s := f.open()

	_, err := s.Ask(context.Background(), "q")
	assert.ErrorIs(t, err, provider.ErrUnavailable)
	assert.True(t, s.History.Empty())
}

func TestStudyPlanPrompt(t *testing.T) {
	f := newFixture(t)
	s := f.open()

	_, err := s.StudyPlan(context.Background(), PlanRequest{Subject: "Chemistry", Days: "7", Hours: "2", Level: "Beginner"})
	require.NoError(t, err)
	assert.Equal(t, "Create a 7-day study plan for Chemistry.\nLevel: Beginner\nDaily time: 2 hours\nInclude daily goals, topics, and weekly review.\n",
		f.providers[types.OpenAI].asked[0])
	assert.Equal(t, 1, s.Stats.StudyPlansCreated)
	assert.True(t, s.History.Empty())
}

func TestExplainAndMotivate(t *testing.T) {
	f := newFixture(t)
	s := f.open()

	_, err := s.Explain(context.Background(), "recursion", Analogy)
	require.NoError(t, err)
	_, err = s.Motivate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Explain recursion in a Analogy style.",
		"Give motivational study tips.",
	}, f.providers[types.OpenAI].asked)
	assert.Equal(t, 1, s.Stats.MotivationSessions)
	assert.Equal(t, 0, s.Stats.QuestionsAsked)

	assert.Equal(t, []ExplainStyle{ELI5, Technical, Visual, Analogy}, ExplainStyles())
	assert.Equal(t, "ExplainStyle(9)", ExplainStyle(9).String())
}

func TestProfileMutationsAreSaved(t *testing.T) {
	f := newFixture(t)
	s := f.open()

	s.CreateProfile(types.Profile{Name: "Ada", Grade: "10", Subjects: []string{"Math"}, PreferredAI: types.Gemini})
	assert.Equal(t, types.Gemini, s.CurrentKind())

	s.Rename("Ada L.")
	s.SetGrade("11")
	s.SetSubjects([]string{"Math", "Art"})

	saved, ok := f.store.LoadProfile()
	require.True(t, ok)
	assert.Equal(t, types.Profile{Name: "Ada L.", Grade: "11", Subjects: []string{"Math", "Art"}, PreferredAI: types.Gemini}, saved)
}

func TestSwitchProvider(t *testing.T) {
	f := newFixture(t)
	s := f.open()
	s.CreateProfile(types.Profile{Name: "Ada"})

	assert.False(t, s.SwitchProvider(types.OpenAI))
	require.True(t, s.SwitchProvider(types.Gemini))
	assert.Equal(t, types.Gemini, s.CurrentKind())

	answer, err := s.Ask(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "gemini says hi", answer)

	saved, ok := f.store.LoadProfile()
	require.True(t, ok)
	assert.Equal(t, types.Gemini, saved.PreferredAI)
	assert.Equal(t, []types.ProviderKind{types.OpenAI, types.Gemini}, f.built)
}

func TestExportHistory(t *testing.T) {
	f := newFixture(t)
	s := f.open()
	dir := t.TempDir()

	_, err := s.ExportHistory(dir, export.Text)
	assert.ErrorIs(t, err, export.ErrEmptyHistory)

	_, err = s.Ask(context.Background(), "q")
	require.NoError(t, err)
	path, err := s.ExportHistory(dir, export.Text)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, path, "study_history_20260506_070809.txt")
}

func TestClose_SavesProfileAndStats(t *testing.T) {
	f := newFixture(t)
	s := f.open()
	s.Close()

	_, ok := f.store.LoadProfile()
	assert.False(t, ok, "no profile is written for a student who never created one")
	stats, ok := f.store.LoadStats()
	require.True(t, ok)
	assert.Equal(t, types.Stats{TotalSessions: 1}, stats)

	s.CreateProfile(types.Profile{Name: "Ada"})
	_, err := s.Ask(context.Background(), "q")
	require.NoError(t, err)
	s.Close()

	stats, ok = f.store.LoadStats()
	require.True(t, ok)
	assert.Equal(t, 1, stats.TotalQuestions)
}
