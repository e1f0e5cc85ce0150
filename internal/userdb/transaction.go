package userdb

import (
	"context"
	"fmt"
	"time"
)

// NewTransaction opens a write transaction if none is currently open,
// recording the wall-clock moment it started (spec.md §4.7).
func (s *Store) NewTransaction(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("userdb: begin transaction: %w", err)
	}
	s.tx = tx
	s.txStartedAt = now()
	return nil
}

// RevertRecentTransaction aborts the open transaction if it started
// less than revertWindow ago, implementing the BackSpace-right-after-
// commit "undo last commit" behavior (spec.md §4.7). It reports
// whether a transaction was actually reverted.
func (s *Store) RevertRecentTransaction(revertWindow time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return false, nil
	}
	if now().Sub(s.txStartedAt) >= revertWindow {
		return false, nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	if err != nil {
		return false, fmt.Errorf("userdb: revert transaction: %w", err)
	}
	return true, nil
}

// CommitPendingTransaction commits the open transaction, if any, and
// bumps the global tick (spec.md §4.7: "the global tick is bumped per
// committed transaction").
func (s *Store) CommitPendingTransaction(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return nil
	}
	if err := s.bumpTickLocked(ctx); err != nil {
		_ = s.tx.Rollback()
		s.tx = nil
		return err
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("userdb: commit transaction: %w", err)
	}
	return nil
}

// now is a seam so tests can be written without depending on the
// wall clock's exact jitter; production always uses time.Now.
var now = time.Now
