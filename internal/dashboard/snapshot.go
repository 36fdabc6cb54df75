package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/tbrite/internal/analytics"
	"github.com/abhisek/tbrite/internal/store"
)

const snapshotVersion = 1

// Snapshot persists a summary of the current dataset and prunes old ones.
func (s *Service) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	ds := s.Dataset()
	if ds == nil {
		return nil, ErrNotLoaded
	}

	all := analytics.Filter{}
	snap := &store.Snapshot{
		Timestamp: s.now(),
		Data: store.SnapshotData{
			Version:     snapshotVersion,
			Submissions: len(ds.Submissions),
			Overview:    s.Overview(all),
			Skills:      s.SkillRanking(all),
			Students:    s.StudentImprovement(all),
		},
	}

	repo := s.store.SnapshotRepo()
	if err := repo.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	if s.SnapshotKeep > 0 {
		if err := repo.Prune(ctx, s.SnapshotKeep); err != nil {
			s.log.Warn("prune snapshots", zap.Error(err))
		}
	}
	return snap, nil
}

// LatestSnapshot returns the most recent stored snapshot, or nil.
func (s *Service) LatestSnapshot(ctx context.Context) (*store.Snapshot, error) {
	return s.store.SnapshotRepo().Latest(ctx)
}
