package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const snapshotsTable = "snapshots"

type snapshotRow struct {
	ID       int64  `db:"id"`
	Sequence int64  `db:"sequence"`
	TakenAt  string `db:"taken_at"`
	Data     string `db:"data"`
}

// snapshotRepo implements SnapshotRepo.
type snapshotRepo struct {
	s *Store
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := encodeJSON(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.Sequence == 0 {
		seq, err := r.s.seq.Next(ctx)
		if err != nil {
			return err
		}
		snap.Sequence = seq
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}

	ins := r.s.builder().Insert(snapshotsTable).
		Columns("sequence", "taken_at", "data").
		Values(snap.Sequence, formatTime(snap.Timestamp), data)
	if _, err := exec(ctx, r.s.db, ins); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	q := r.s.builder().Select("id", "sequence", "taken_at", "data").
		From(entsql.Table(snapshotsTable)).
		OrderBy(entsql.Desc("taken_at"), entsql.Desc("id")).
		Limit(1)
	var row snapshotRow
	if err := r.s.get(ctx, &row, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return row.toSnapshot()
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// Find the ID threshold: the Nth most recent snapshot.
	q := r.s.builder().Select("id", "sequence", "taken_at", "data").
		From(entsql.Table(snapshotsTable)).
		OrderBy(entsql.Desc("taken_at"), entsql.Desc("id")).
		Offset(keep).
		Limit(1)
	var row snapshotRow
	if err := r.s.get(ctx, &row, q); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil // fewer than keep snapshots exist
		}
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	del := r.s.builder().Delete(snapshotsTable).Where(entsql.Or(
		entsql.LT("taken_at", row.TakenAt),
		entsql.And(entsql.EQ("taken_at", row.TakenAt), entsql.LTE("id", row.ID)),
	))
	if _, err := exec(ctx, r.s.db, del); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// count returns the number of stored snapshots.
func (r *snapshotRepo) count(ctx context.Context) (int, error) {
	q := r.s.builder().Select(entsql.Count("*")).From(entsql.Table(snapshotsTable))
	var n int
	err := r.s.get(ctx, &n, q)
	return n, err
}

func (row snapshotRow) toSnapshot() (*Snapshot, error) {
	ts, err := parseTime(row.TakenAt)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{ID: row.ID, Sequence: row.Sequence, Timestamp: ts}
	if err := decodeJSON(row.Data, &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return snap, nil
}
