// Package importer loads JSON exports of the document store into the local
// database. Every document is validated against a JSON Schema before it is
// decoded.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/tbrite/internal/assessment"
	"github.com/abhisek/tbrite/internal/store"
)

// Kind names a document collection.
type Kind string

const (
	KindSubmissions Kind = "submissions"
	KindMaterials   Kind = "materials"
	KindSkills      Kind = "skills"
	KindStudents    Kind = "students"
	KindLessons     Kind = "lessons"
	KindChapter     Kind = "chapter"
)

// AllKinds lists the importable collections in dependency order.
func AllKinds() []Kind {
	return []Kind{KindSkills, KindMaterials, KindStudents, KindSubmissions, KindLessons, KindChapter}
}

// ParseKind accepts a collection name, its singular form, or a file name
// such as "submissions.json".
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSuffix(filepath.Base(s), filepath.Ext(s)))
	switch s {
	case "submissions", "submission":
		return KindSubmissions, true
	case "materials", "material":
		return KindMaterials, true
	case "skills", "skill":
		return KindSkills, true
	case "students", "student", "users":
		return KindStudents, true
	case "lessons", "lesson", "lessonprogress", "lesson_progress":
		return KindLessons, true
	case "chapter", "chapterconfig", "chapter_config", "config":
		return KindChapter, true
	}
	return "", false
}

// Result summarizes one import.
type Result struct {
	Kind     Kind     `json:"kind"`
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"` // submissions already present
	Invalid  int      `json:"invalid"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []error  `json:"-"`
}

// Options configures an import.
type Options struct {
	// Strict aborts on the first invalid document instead of skipping it.
	Strict bool
	// Now stamps lesson completion when the export carries no timestamp.
	Now func() time.Time
}

// Importer writes validated documents into a store.
type Importer struct {
	st   *store.Store
	opts Options
}

// New returns an Importer writing to st.
func New(st *store.Store, opts Options) *Importer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Importer{st: st, opts: opts}
}

// ImportFile imports a JSON file. When kind is empty it is inferred from the
// file name.
func (im *Importer) ImportFile(ctx context.Context, kind Kind, path string) (*Result, error) {
	if kind == "" {
		k, ok := ParseKind(path)
		if !ok {
			return nil, fmt.Errorf("cannot infer document kind from %q", path)
		}
		kind = k
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return im.Import(ctx, kind, f)
}

// Import reads a JSON array of documents (or a single object) of the given
// kind from r and stores them. Invalid documents are counted and reported in
// Result.Errors; with Options.Strict the first one aborts the import.
func (im *Importer) Import(ctx context.Context, kind Kind, r io.Reader) (*Result, error) {
	if _, ok := definitions[kind]; !ok {
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", kind, err)
	}
	docs, err := splitDocuments(raw)
	if err != nil {
		return nil, &ErrInvalidDocument{Kind: kind, Index: -1, Err: err}
	}

	res := &Result{Kind: kind, Total: len(docs)}
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := im.importOne(ctx, kind, doc, res)
		if err == nil {
			continue
		}
		var invalid *ErrInvalidDocument
		if !errors.As(err, &invalid) {
			return res, err
		}
		invalid.Index = i
		res.Invalid++
		res.Errors = append(res.Errors, invalid)
		if im.opts.Strict {
			return res, invalid
		}
	}
	return res, nil
}

// splitDocuments accepts a JSON array or a single JSON object.
func splitDocuments(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '{' {
		return []json.RawMessage{trimmed}, nil
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(trimmed, &docs); err != nil {
		return nil, fmt.Errorf("expected a JSON array of documents: %w", err)
	}
	return docs, nil
}

func (im *Importer) importOne(ctx context.Context, kind Kind, raw json.RawMessage, res *Result) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidDocument{Kind: kind, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := validateDocument(kind, parsed); err != nil {
		return &ErrInvalidDocument{Kind: kind, Err: err}
	}

	switch kind {
	case KindSubmissions:
		return im.importSubmission(ctx, raw, res)
	case KindMaterials:
		return im.importMaterial(ctx, raw, res)
	case KindSkills:
		var sk assessment.Skill
		if err := json.Unmarshal(raw, &sk); err != nil {
			return &ErrInvalidDocument{Kind: kind, Err: err}
		}
		if err := im.st.SkillRepo().Upsert(ctx, sk); err != nil {
			return err
		}
	case KindStudents:
		var st assessment.Student
		if err := json.Unmarshal(raw, &st); err != nil {
			return &ErrInvalidDocument{Kind: kind, Err: err}
		}
		if err := im.st.StudentRepo().Upsert(ctx, st); err != nil {
			return err
		}
	case KindLessons:
		return im.importLesson(ctx, raw, res)
	case KindChapter:
		var cfg assessment.ChapterConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return &ErrInvalidDocument{Kind: kind, Err: err}
		}
		if err := im.st.ConfigRepo().SetChapter(ctx, cfg); err != nil {
			return err
		}
	}
	res.Imported++
	return nil
}

type submissionDoc struct {
	assessment.Submission
	SubmittedAt flexTime `json:"submittedAt"`
}

func (im *Importer) importSubmission(ctx context.Context, raw json.RawMessage, res *Result) error {
	var doc submissionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ErrInvalidDocument{Kind: KindSubmissions, Err: err}
	}
	sub := doc.Submission
	sub.SubmittedAt = doc.SubmittedAt.Time
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if t, ok := assessment.ParseTestType(string(sub.TestType)); ok {
		sub.TestType = t
	} else {
		res.Warnings = append(res.Warnings, fmt.Sprintf("submission %s: unknown test type %q", sub.ID, sub.TestType))
	}

	err := im.st.SubmissionRepo().Insert(ctx, sub)
	if errors.Is(err, store.ErrDuplicate) {
		res.Skipped++
		return nil
	}
	if err != nil {
		return err
	}
	res.Imported++
	return nil
}

func (im *Importer) importMaterial(ctx context.Context, raw json.RawMessage, res *Result) error {
	var m assessment.Material
	if err := json.Unmarshal(raw, &m); err != nil {
		return &ErrInvalidDocument{Kind: KindMaterials, Err: err}
	}
	if m.TestType != "" {
		if t, ok := assessment.ParseTestType(string(m.TestType)); ok {
			m.TestType = t
		}
	}
	for _, verr := range m.Validate() {
		res.Warnings = append(res.Warnings, verr.Error())
	}
	if err := im.st.MaterialRepo().Upsert(ctx, m); err != nil {
		return err
	}
	res.Imported++
	return nil
}

type lessonDoc struct {
	assessment.LessonProgress
	CompletedAt flexTime `json:"completedAt"`
}

func (im *Importer) importLesson(ctx context.Context, raw json.RawMessage, res *Result) error {
	var doc lessonDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ErrInvalidDocument{Kind: KindLessons, Err: err}
	}
	p := doc.LessonProgress
	p.CompletedAt = nil
	if !doc.CompletedAt.IsZero() {
		t := doc.CompletedAt.Time
		p.CompletedAt = &t
	} else if p.IsCompleted() {
		t := im.opts.Now()
		p.CompletedAt = &t
	}
	if err := im.st.LessonRepo().Put(ctx, p); err != nil {
		return err
	}
	res.Imported++
	return nil
}
