package database

import (
	"fmt"
	"time"
)

var _ LedgerRepository = (*ledgerRepository)(nil)

type ledgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) IsProcessed(profileName, videoID string) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM processed_videos WHERE profile = ? AND video_id = ?
	`, profileName, videoID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check ledger: %w", err)
	}
	return count > 0, nil
}

// MarkProcessed records the (profile, video) pair. Re-marking an
// already-marked pair is a no-op.
func (r *ledgerRepository) MarkProcessed(profileName, videoID string) error {
	_, err := r.db.Exec(`
		INSERT OR IGNORE INTO processed_videos (profile, video_id, marked_at)
		VALUES (?, ?, ?)
	`, profileName, videoID, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to mark processed: %w", err)
	}
	return nil
}
