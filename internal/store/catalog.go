package store

import (
	"context"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/tbrite/internal/assessment"
)

const (
	materialsTable = "materials"
	skillsTable    = "skills"
	studentsTable  = "students"
)

var materialColumns = []string{"id", "title", "body", "author", "skill", "quarter", "test_type", "questions"}

type materialRow struct {
	ID        string `db:"id"`
	Title     string `db:"title"`
	Body      string `db:"body"`
	Author    string `db:"author"`
	Skill     string `db:"skill"`
	Quarter   string `db:"quarter"`
	TestType  string `db:"test_type"`
	Questions string `db:"questions"`
}

func (r materialRow) toMaterial() (assessment.Material, error) {
	m := assessment.Material{
		ID:       r.ID,
		Title:    r.Title,
		Text:     r.Body,
		Author:   r.Author,
		Skill:    r.Skill,
		Quarter:  r.Quarter,
		TestType: assessment.TestType(r.TestType),
	}
	if err := decodeJSON(r.Questions, &m.Questions); err != nil {
		return m, fmt.Errorf("decode questions of %s: %w", r.ID, err)
	}
	return m, nil
}

// materialRepo implements MaterialRepo.
type materialRepo struct {
	s *Store
}

func (r *materialRepo) Upsert(ctx context.Context, m assessment.Material) error {
	if m.ID == "" {
		return fmt.Errorf("upsert material: missing id")
	}
	questions := m.Questions
	if questions == nil {
		questions = []assessment.Question{}
	}
	qs, err := encodeJSON(questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	ins := r.s.builder().Insert(materialsTable).
		Columns(materialColumns...).
		Values(m.ID, m.Title, m.Text, m.Author, m.Skill, m.Quarter, string(m.TestType), qs).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if _, err := exec(ctx, r.s.db, ins); err != nil {
		return fmt.Errorf("upsert material: %w", err)
	}
	return nil
}

func (r *materialRepo) Get(ctx context.Context, id string) (*assessment.Material, error) {
	q := r.s.builder().Select(materialColumns...).
		From(entsql.Table(materialsTable)).
		Where(entsql.EQ("id", id))
	var row materialRow
	if err := r.s.get(ctx, &row, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("material %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	m, err := row.toMaterial()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepo) List(ctx context.Context) ([]assessment.Material, error) {
	q := r.s.builder().Select(materialColumns...).
		From(entsql.Table(materialsTable)).
		OrderBy("id")
	var rows []materialRow
	if err := r.s.selectAll(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	out := make([]assessment.Material, 0, len(rows))
	for _, row := range rows {
		m, err := row.toMaterial()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// skillRepo implements SkillRepo. Skills list in ID order, which is the
// tie-break order for rankings.
type skillRepo struct {
	s *Store
}

func (r *skillRepo) Upsert(ctx context.Context, sk assessment.Skill) error {
	if sk.ID == "" {
		return fmt.Errorf("upsert skill: missing id")
	}
	ins := r.s.builder().Insert(skillsTable).
		Columns("id", "title").
		Values(sk.ID, sk.Title).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if _, err := exec(ctx, r.s.db, ins); err != nil {
		return fmt.Errorf("upsert skill: %w", err)
	}
	return nil
}

func (r *skillRepo) List(ctx context.Context) ([]assessment.Skill, error) {
	q := r.s.builder().Select("id", "title").From(entsql.Table(skillsTable)).OrderBy("id")
	var out []assessment.Skill
	if err := r.s.selectAll(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return out, nil
}

func (r *skillRepo) Delete(ctx context.Context, id string) error {
	del := r.s.builder().Delete(skillsTable).Where(entsql.EQ("id", id))
	res, err := exec(ctx, r.s.db, del)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("skill %s: %w", id, ErrNotFound)
	}
	return nil
}

// studentRepo implements StudentRepo.
type studentRepo struct {
	s *Store
}

func (r *studentRepo) Upsert(ctx context.Context, st assessment.Student) error {
	if st.ID == "" {
		return fmt.Errorf("upsert student: missing id")
	}
	ins := r.s.builder().Insert(studentsTable).
		Columns("id", "name", "email").
		Values(st.ID, st.Name, st.Email).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if _, err := exec(ctx, r.s.db, ins); err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}
	return nil
}

func (r *studentRepo) List(ctx context.Context) ([]assessment.Student, error) {
	q := r.s.builder().Select("id", "name", "email").From(entsql.Table(studentsTable)).OrderBy("id")
	var out []assessment.Student
	if err := r.s.selectAll(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return out, nil
}
