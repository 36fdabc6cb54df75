package store

import (
	"context"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/tbrite/internal/assessment"
)

const submissionsTable = "submissions"

var submissionColumns = []string{
	"id", "student_id", "material_id", "material_batch", "test_type", "quarter", "mode",
	"answers", "comprehension_score", "vocabulary_score", "number_of_words", "duration",
	"miscues", "submitted_at",
}

type submissionRow struct {
	ID                 string  `db:"id"`
	StudentID          string  `db:"student_id"`
	MaterialID         string  `db:"material_id"`
	MaterialBatch      string  `db:"material_batch"`
	TestType           string  `db:"test_type"`
	Quarter            string  `db:"quarter"`
	Mode               string  `db:"mode"`
	Answers            string  `db:"answers"`
	ComprehensionScore int     `db:"comprehension_score"`
	VocabularyScore    int     `db:"vocabulary_score"`
	NumberOfWords      int     `db:"number_of_words"`
	Duration           float64 `db:"duration"`
	Miscues            string  `db:"miscues"`
	SubmittedAt        string  `db:"submitted_at"`
}

func (r submissionRow) toSubmission() (assessment.Submission, error) {
	sub := assessment.Submission{
		ID:                 r.ID,
		StudentID:          r.StudentID,
		MaterialID:         r.MaterialID,
		MaterialBatch:      r.MaterialBatch,
		TestType:           assessment.TestType(r.TestType),
		Quarter:            r.Quarter,
		Mode:               r.Mode,
		ComprehensionScore: r.ComprehensionScore,
		VocabularyScore:    r.VocabularyScore,
		NumberOfWords:      r.NumberOfWords,
		Duration:           r.Duration,
	}
	if err := decodeJSON(r.Answers, &sub.Answers); err != nil {
		return sub, fmt.Errorf("decode answers of %s: %w", r.ID, err)
	}
	if err := decodeJSON(r.Miscues, &sub.Miscues); err != nil {
		return sub, fmt.Errorf("decode miscues of %s: %w", r.ID, err)
	}
	t, err := parseTime(r.SubmittedAt)
	if err != nil {
		return sub, err
	}
	sub.SubmittedAt = t
	return sub, nil
}

// submissionRepo implements SubmissionRepo.
type submissionRepo struct {
	s *Store
}

func (r *submissionRepo) Insert(ctx context.Context, sub assessment.Submission) error {
	if sub.ID == "" {
		return fmt.Errorf("insert submission: missing id")
	}
	answers, err := encodeJSON(nonNilAnswers(sub.Answers))
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	miscues, err := encodeJSON(nonNilStrings(sub.Miscues))
	if err != nil {
		return fmt.Errorf("encode miscues: %w", err)
	}

	ins := r.s.builder().Insert(submissionsTable).
		Columns(submissionColumns...).
		Values(
			sub.ID, sub.StudentID, sub.MaterialID, sub.MaterialBatch, string(sub.TestType),
			sub.Quarter, sub.Mode, answers, sub.ComprehensionScore, sub.VocabularyScore,
			sub.NumberOfWords, sub.Duration, miscues, formatTime(sub.SubmittedAt),
		)
	if _, err := exec(ctx, r.s.db, ins); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("submission %s: %w", sub.ID, ErrDuplicate)
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (r *submissionRepo) Get(ctx context.Context, id string) (*assessment.Submission, error) {
	q := r.s.builder().Select(submissionColumns...).
		From(entsql.Table(submissionsTable)).
		Where(entsql.EQ("id", id))
	var row submissionRow
	if err := r.s.get(ctx, &row, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	sub, err := row.toSubmission()
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) List(ctx context.Context, f SubmissionFilter) ([]assessment.Submission, error) {
	q := r.s.builder().Select(submissionColumns...).
		From(entsql.Table(submissionsTable)).
		OrderBy("submitted_at", "id")

	var preds []*entsql.Predicate
	if f.StudentID != "" {
		preds = append(preds, entsql.EQ("student_id", f.StudentID))
	}
	if f.MaterialID != "" {
		preds = append(preds, entsql.EQ("material_id", f.MaterialID))
	}
	if f.TestType != "" {
		preds = append(preds, entsql.EQ("test_type", string(f.TestType)))
	}
	if f.Quarter != "" {
		preds = append(preds, entsql.EQ("quarter", f.Quarter))
	}
	if len(preds) > 0 {
		q.Where(entsql.And(preds...))
	}
	if f.Limit > 0 {
		q.Limit(f.Limit)
	}

	var rows []submissionRow
	if err := r.s.selectAll(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	out := make([]assessment.Submission, 0, len(rows))
	for _, row := range rows {
		sub, err := row.toSubmission()
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func (r *submissionRepo) Count(ctx context.Context) (int, error) {
	q := r.s.builder().Select(entsql.Count("*")).From(entsql.Table(submissionsTable))
	var n int
	if err := r.s.get(ctx, &n, q); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

func nonNilAnswers(a []assessment.Answer) []assessment.Answer {
	if a == nil {
		return []assessment.Answer{}
	}
	return a
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
