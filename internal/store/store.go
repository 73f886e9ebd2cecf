// Package store persists the profile, conversation history and statistics
// as small JSON-shaped files. Every call is an independent file transaction:
// the file is read or rewritten in full and closed before returning. Failures
// are logged and absorbed; callers always get a usable value back.
package store

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/jeanpaul/studymentor/internal/types"
)

// ErrMalformed tags state files whose content could not be decoded.
var ErrMalformed = errors.New("malformed persisted state")

// Paths locates the three state files.
type Paths struct {
	Profile string
	History string
	Stats   string
}

// DefaultPaths returns the file names used when nothing is configured,
// resolved against dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Profile: filepath.Join(dir, "studymentor_config.json"),
		History: filepath.Join(dir, "study_history.json"),
		Stats:   filepath.Join(dir, "study_stats.json"),
	}
}

type Store struct {
	paths Paths
	log   *logrus.Entry
}

func New(paths Paths, log *logrus.Entry) *Store {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Store{paths: paths, log: log.WithField("component", "store")}
}

func (s *Store) Paths() Paths { return s.paths }

// LoadProfile returns the saved profile, or false when there is none or it
// cannot be decoded.
func (s *Store) LoadProfile() (types.Profile, bool) {
	doc, ok := s.read(s.paths.Profile)
	if !ok {
		return types.Profile{}, false
	}
	p, ok := DecodeProfile(doc)
	if !ok {
		s.log.WithError(ErrMalformed).WithField("path", s.paths.Profile).Warn("Ignoring unreadable profile")
		return types.Profile{}, false
	}
	return p, true
}

func (s *Store) SaveProfile(p types.Profile) {
	s.write(s.paths.Profile, EncodeProfile(p), "profile")
}

// LoadHistory returns the saved conversation log, empty on any failure.
func (s *Store) LoadHistory() []string {
	doc, ok := s.read(s.paths.History)
	if !ok {
		return []string{}
	}
	return DecodeHistory(doc)
}

func (s *Store) SaveHistory(entries []string) {
	s.write(s.paths.History, EncodeHistory(entries), "history")
}

func (s *Store) SaveStats(st types.Stats) {
	s.write(s.paths.Stats, EncodeStats(st), "stats")
}

// LoadStats returns the counters written by the last run.
func (s *Store) LoadStats() (types.Stats, bool) {
	doc, ok := s.read(s.paths.Stats)
	if !ok {
		return types.Stats{}, false
	}
	st, ok := DecodeStats(doc)
	if !ok {
		s.log.WithError(ErrMalformed).WithField("path", s.paths.Stats).Warn("Ignoring unreadable stats")
	}
	return st, ok
}

func (s *Store) read(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.WithError(err).WithField("path", path).Error("Error reading state file")
		}
		return "", false
	}
	return string(data), true
}

func (s *Store) write(path, doc, what string) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			s.log.WithError(err).WithField("path", path).Errorf("Error saving %s", what)
			return
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		s.log.WithError(err).WithField("path", path).Errorf("Error saving %s", what)
	}
}
