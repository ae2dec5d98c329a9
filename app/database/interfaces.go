package database

// VideoRepository is the persistence contract for processed videos and
// the full-text search index derived from them.
type VideoRepository interface {
	// Upsert stores a record, reporting false when the video ID already
	// existed. A duplicate insert is a no-op, not an error.
	Upsert(record VideoRecord) (bool, error)
	Get(videoID string) (*VideoRecord, error)
	Search(query string, filters Filters) ([]VideoRecord, error)
	ListRecent(filters Filters) ([]VideoRecord, error)
	GetStats() (*Stats, error)
}

// LedgerRepository tracks which video IDs a profile has already
// handled, independent of whether a record was stored for them.
type LedgerRepository interface {
	IsProcessed(profileName, videoID string) (bool, error)
	MarkProcessed(profileName, videoID string) error
}
