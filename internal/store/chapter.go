package store

import (
	"context"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/tbrite/internal/assessment"
)

const chapterTable = "chapter_config"

type chapterRow struct {
	ActiveChapter   string `db:"active_chapter"`
	PreTestEnabled  int    `db:"pre_test_enabled"`
	PostTestEnabled int    `db:"post_test_enabled"`
}

// configRepo implements ConfigRepo. The configuration is a single row with
// id 1.
type configRepo struct {
	s *Store
}

func (r *configRepo) Chapter(ctx context.Context) (assessment.ChapterConfig, error) {
	q := r.s.builder().Select("active_chapter", "pre_test_enabled", "post_test_enabled").
		From(entsql.Table(chapterTable)).
		Where(entsql.EQ("id", 1))
	var row chapterRow
	if err := r.s.get(ctx, &row, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return assessment.ChapterConfig{}, nil
		}
		return assessment.ChapterConfig{}, fmt.Errorf("get chapter config: %w", err)
	}
	return assessment.ChapterConfig{
		ActiveChapter:   row.ActiveChapter,
		PreTestEnabled:  row.PreTestEnabled != 0,
		PostTestEnabled: row.PostTestEnabled != 0,
	}, nil
}

func (r *configRepo) SetChapter(ctx context.Context, cfg assessment.ChapterConfig) error {
	ins := r.s.builder().Insert(chapterTable).
		Columns("id", "active_chapter", "pre_test_enabled", "post_test_enabled").
		Values(1, cfg.ActiveChapter, boolToInt(cfg.PreTestEnabled), boolToInt(cfg.PostTestEnabled)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if _, err := exec(ctx, r.s.db, ins); err != nil {
		return fmt.Errorf("set chapter config: %w", err)
	}
	return nil
}
