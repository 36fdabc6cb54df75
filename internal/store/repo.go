package store

import (
	"context"
	"time"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/assessment"
)

// SubmissionFilter narrows a submission listing. Empty fields match
// everything; Limit 0 means unlimited.
type SubmissionFilter struct {
	StudentID  string
	MaterialID string
	TestType   assessment.TestType
	Quarter    string
	Limit      int
}

// SubmissionRepo stores submissions. Submissions are write-once.
type SubmissionRepo interface {
	// Insert stores a new submission. It returns ErrDuplicate if the ID is
	// already taken.
	Insert(ctx context.Context, sub assessment.Submission) error

	// Get returns the submission with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*assessment.Submission, error)

	// List returns matching submissions ordered by submission time, then ID.
	List(ctx context.Context, f SubmissionFilter) ([]assessment.Submission, error)

	// Count returns the number of stored submissions.
	Count(ctx context.Context) (int, error)
}

// MaterialRepo stores reading materials.
type MaterialRepo interface {
	Upsert(ctx context.Context, m assessment.Material) error
	Get(ctx context.Context, id string) (*assessment.Material, error)
	List(ctx context.Context) ([]assessment.Material, error)
}

// SkillRepo stores skills.
type SkillRepo interface {
	Upsert(ctx context.Context, s assessment.Skill) error
	List(ctx context.Context) ([]assessment.Skill, error)
	// Delete removes a skill. Materials that reference it are kept and
	// aggregate under the unknown bucket.
	Delete(ctx context.Context, id string) error
}

// StudentRepo stores the student directory used for export joins.
type StudentRepo interface {
	Upsert(ctx context.Context, s assessment.Student) error
	List(ctx context.Context) ([]assessment.Student, error)
}

// ConfigRepo stores the chapter configuration singleton.
type ConfigRepo interface {
	// Chapter returns the stored configuration, or the zero value when none
	// has been saved.
	Chapter(ctx context.Context) (assessment.ChapterConfig, error)
	SetChapter(ctx context.Context, cfg assessment.ChapterConfig) error
}

// LessonRepo tracks lesson progress per student.
type LessonRepo interface {
	// Get returns progress for one lesson, or ErrNotFound.
	Get(ctx context.Context, studentID, lessonID string) (*assessment.LessonProgress, error)

	// MarkCompleted records a finished content section, creating the
	// progress row on first use. totalContents updates the lesson size when
	// positive.
	MarkCompleted(ctx context.Context, studentID, lessonID, contentID string, totalContents int, now time.Time) (*assessment.LessonProgress, error)

	// Put stores progress as given, replacing any existing row.
	Put(ctx context.Context, p assessment.LessonProgress) error

	ListByStudent(ctx context.Context, studentID string) ([]assessment.LessonProgress, error)
	List(ctx context.Context) ([]assessment.LessonProgress, error)
}

// SnapshotData is the analytics state captured at a point in time.
type SnapshotData struct {
	Version     int                            `json:"version"`
	Submissions int                            `json:"submissions"`
	Overview    analytics.Overview             `json:"overview"`
	Skills      []analytics.SkillRanking       `json:"skills,omitempty"`
	Students    []analytics.StudentImprovement `json:"students,omitempty"`
}

// Snapshot represents a point-in-time capture of the analytics.
type Snapshot struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages analytics snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot. A zero Sequence is assigned from the
	// store's global counter.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}
