package sqlite

import (
	"context"
	"fmt"
)

// WALCheckpoint reports the outcome of a write-ahead log checkpoint.
type WALCheckpoint struct {
	Busy         bool // a reader or writer blocked part of the checkpoint
	LogFrames    int  // frames in the WAL before truncation
	Checkpointed int  // frames copied back into the database
}

// Checkpoint copies the WAL back into the main database file and truncates
// it. Long-running servers call it periodically so the WAL does not grow
// without bound between automatic checkpoints.
func (s *Store) Checkpoint(ctx context.Context) (WALCheckpoint, error) {
	var (
		busy int
		res  WALCheckpoint
	)
	err := s.db.QueryRowContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)").
		Scan(&busy, &res.LogFrames, &res.Checkpointed)
	if err != nil {
		return WALCheckpoint{}, fmt.Errorf("wal checkpoint: %w", err)
	}
	res.Busy = busy != 0
	return res, nil
}
