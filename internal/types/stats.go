package types

// Stats holds the usage counters persisted at exit.
type Stats struct {
	QuestionsAsked     int
	StudyPlansCreated  int
	MotivationSessions int
	TotalSessions      int
	TotalQuestions     int
}

// NewStats starts a run's counters. TotalSessions is always seeded to 1;
// counts from earlier runs are not carried over.
func NewStats() *Stats {
	return &Stats{TotalSessions: 1}
}

func (s *Stats) RecordQuestion() {
	s.QuestionsAsked++
	s.TotalQuestions++
}

func (s *Stats) RecordStudyPlan()  { s.StudyPlansCreated++ }
func (s *Stats) RecordMotivation() { s.MotivationSessions++ }

// AvgQuestionsPerSession uses integer division, 0 when there are no sessions.
func (s *Stats) AvgQuestionsPerSession() int {
	if s.TotalSessions <= 0 {
		return 0
	}
	return s.TotalQuestions / s.TotalSessions
}
