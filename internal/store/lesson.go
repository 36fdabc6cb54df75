package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/abhisek/tbrite/internal/assessment"
)

const lessonTable = "lesson_progress"

var lessonColumns = []string{"student_id", "lesson_id", "completed_contents", "total_contents", "completed_at"}

type lessonRow struct {
	StudentID         string         `db:"student_id"`
	LessonID          string         `db:"lesson_id"`
	CompletedContents string         `db:"completed_contents"`
	TotalContents     int            `db:"total_contents"`
	CompletedAt       sql.NullString `db:"completed_at"`
}

func (r lessonRow) toProgress() (assessment.LessonProgress, error) {
	p := assessment.LessonProgress{
		StudentID:     r.StudentID,
		LessonID:      r.LessonID,
		TotalContents: r.TotalContents,
	}
	if err := decodeJSON(r.CompletedContents, &p.CompletedContents); err != nil {
		return p, fmt.Errorf("decode lesson contents: %w", err)
	}
	if r.CompletedAt.Valid && r.CompletedAt.String != "" {
		t, err := parseTime(r.CompletedAt.String)
		if err != nil {
			return p, err
		}
		p.CompletedAt = &t
	}
	return p, nil
}

// lessonRepo implements LessonRepo.
type lessonRepo struct {
	s *Store
}

func (r *lessonRepo) selectLessons() *entsql.Selector {
	return r.s.builder().Select(lessonColumns...).
		From(entsql.Table(lessonTable)).
		OrderBy("student_id", "lesson_id")
}

func (r *lessonRepo) Get(ctx context.Context, studentID, lessonID string) (*assessment.LessonProgress, error) {
	q := r.selectLessons().Where(entsql.And(
		entsql.EQ("student_id", studentID),
		entsql.EQ("lesson_id", lessonID),
	))
	var row lessonRow
	if err := r.s.get(ctx, &row, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("lesson %s/%s: %w", studentID, lessonID, ErrNotFound)
		}
		return nil, fmt.Errorf("get lesson progress: %w", err)
	}
	p, err := row.toProgress()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *lessonRepo) MarkCompleted(ctx context.Context, studentID, lessonID, contentID string, totalContents int, now time.Time) (*assessment.LessonProgress, error) {
	if studentID == "" || lessonID == "" || contentID == "" {
		return nil, fmt.Errorf("mark completed: student, lesson and content ids are required")
	}

	var out assessment.LessonProgress
	err := r.s.inTx(ctx, func(tx *sqlx.Tx) error {
		q := r.selectLessons().Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("lesson_id", lessonID),
		))
		query, args := q.Query()

		p := assessment.LessonProgress{StudentID: studentID, LessonID: lessonID}
		var row lessonRow
		switch err := tx.GetContext(ctx, &row, query, args...); {
		case err == nil:
			existing, err := row.toProgress()
			if err != nil {
				return err
			}
			p = existing
		case errors.Is(err, sql.ErrNoRows):
		default:
			return fmt.Errorf("load lesson progress: %w", err)
		}

		if totalContents > 0 {
			p.TotalContents = totalContents
		}
		p.MarkCompleted(contentID, now)
		// Lowering the total can complete a lesson on a section that was
		// already recorded.
		if p.CompletedAt == nil && p.IsCompleted() {
			t := now
			p.CompletedAt = &t
		}

		if err := r.save(ctx, tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *lessonRepo) Put(ctx context.Context, p assessment.LessonProgress) error {
	if p.StudentID == "" || p.LessonID == "" {
		return fmt.Errorf("put lesson progress: student and lesson ids are required")
	}
	return r.save(ctx, r.s.db, p)
}

func (r *lessonRepo) save(ctx context.Context, e execer, p assessment.LessonProgress) error {
	contents, err := encodeJSON(nonNilStrings(p.CompletedContents))
	if err != nil {
		return fmt.Errorf("encode lesson contents: %w", err)
	}
	var completedAt any
	if p.CompletedAt != nil {
		completedAt = formatTime(*p.CompletedAt)
	}
	ins := r.s.builder().Insert(lessonTable).
		Columns(lessonColumns...).
		Values(p.StudentID, p.LessonID, contents, p.TotalContents, completedAt).
		OnConflict(entsql.ConflictColumns("student_id", "lesson_id"), entsql.ResolveWithNewValues())
	if _, err := exec(ctx, e, ins); err != nil {
		return fmt.Errorf("save lesson progress: %w", err)
	}
	return nil
}

func (r *lessonRepo) ListByStudent(ctx context.Context, studentID string) ([]assessment.LessonProgress, error) {
	return r.list(ctx, r.selectLessons().Where(entsql.EQ("student_id", studentID)))
}

func (r *lessonRepo) List(ctx context.Context) ([]assessment.LessonProgress, error) {
	return r.list(ctx, r.selectLessons())
}

func (r *lessonRepo) list(ctx context.Context, q *entsql.Selector) ([]assessment.LessonProgress, error) {
	var rows []lessonRow
	if err := r.s.selectAll(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list lesson progress: %w", err)
	}
	out := make([]assessment.LessonProgress, 0, len(rows))
	for _, row := range rows {
		p, err := row.toProgress()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
