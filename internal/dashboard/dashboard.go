// Package dashboard serves analytics from the last dataset loaded from the
// store. Reads never touch the database; Refresh swaps in a new dataset.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/store"
)

// ErrNotLoaded is returned when an operation needs a dataset and Refresh
// has never succeeded.
var ErrNotLoaded = errors.New("dashboard: no dataset loaded")

// Dataset is everything the analytics read. It is immutable once loaded.
type Dataset struct {
	Submissions []assessment.Submission
	Materials   []assessment.Material
	Skills      []assessment.Skill
	Students    []assessment.Student
	Lessons     []assessment.LessonProgress
	Chapter     assessment.ChapterConfig
	LoadedAt    time.Time
}

// Service holds the current dataset and answers analytics queries from it.
type Service struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time

	// SnapshotKeep bounds the number of stored snapshots. Zero keeps all.
	SnapshotKeep int

	mu   sync.RWMutex
	data *Dataset

	schedMu sync.Mutex
	sched   *gocron.Scheduler
}

// New returns a service reading from st. A nil logger discards output.
func New(st *store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:        st,
		log:          log,
		now:          time.Now,
		SnapshotKeep: 50,
	}
}

// Refresh reloads the dataset from the store. On failure the previous
// dataset keeps being served and the error is returned.
func (s *Service) Refresh(ctx context.Context) error {
	start := s.now()
	ds, err := s.load(ctx)
	if err != nil {
		s.mu.RLock()
		stale := s.data != nil
		s.mu.RUnlock()
		s.log.Warn("dashboard refresh failed", zap.Error(err), zap.Bool("serving_stale", stale))
		return err
	}

	s.mu.Lock()
	s.data = ds
	s.mu.Unlock()

	s.log.Info("dashboard refreshed",
		zap.Int("submissions", len(ds.Submissions)),
		zap.Int("materials", len(ds.Materials)),
		zap.Int("students", len(ds.Students)),
		zap.Duration("took", s.now().Sub(start)),
	)
	return nil
}

func (s *Service) load(ctx context.Context) (*Dataset, error) {
	subs, err := s.store.SubmissionRepo().List(ctx, store.SubmissionFilter{})
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}
	materials, err := s.store.MaterialRepo().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	skills, err := s.store.SkillRepo().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	students, err := s.store.StudentRepo().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	lessons, err := s.store.LessonRepo().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	chapter, err := s.store.ConfigRepo().Chapter(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chapter: %w", err)
	}
	return &Dataset{
		Submissions: subs,
		Materials:   materials,
		Skills:      skills,
		Students:    students,
		Lessons:     lessons,
		Chapter:     chapter,
		LoadedAt:    s.now(),
	}, nil
}

// Dataset returns the current dataset, or nil before the first successful
// Refresh. Callers must not modify it.
func (s *Service) Dataset() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// current returns the dataset or an empty one.
func (s *Service) current() *Dataset {
	if ds := s.Dataset(); ds != nil {
		return ds
	}
	return &Dataset{}
}
