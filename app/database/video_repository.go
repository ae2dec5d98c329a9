package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tubewatch/tubewatch/app/transcript"
)

const timeLayout = "2006-01-02T15:04:05Z"

var ErrNotFound = errors.New("video not found")

var _ VideoRepository = (*videoRepository)(nil)

type videoRepository struct {
	db *DB
}

func NewVideoRepository(db *DB) VideoRepository {
	return &videoRepository{db: db}
}

const videoColumns = `id, video_id, channel_name, title, url,
	published_at, processed_at, source_type, summary,
	COALESCE(key_topics, ''), COALESCE(recommendations, ''),
	COALESCE(action_items, ''), COALESCE(duration_seconds, 0), created_at`

// videoColumnsQualified is videoColumns with every column bound to the
// videos alias, needed when joining against videos_fts (title and
// summary exist in both tables).
const videoColumnsQualified = `v.id, v.video_id, v.channel_name, v.title, v.url,
	v.published_at, v.processed_at, v.source_type, v.summary,
	COALESCE(v.key_topics, ''), COALESCE(v.recommendations, ''),
	COALESCE(v.action_items, ''), COALESCE(v.duration_seconds, 0), v.created_at`

// Upsert inserts a record, reporting false when the video ID was
// already present. The FTS index row is written by the insert trigger
// in the same implicit transaction, so a record is never searchable
// without also being retrievable.
func (r *videoRepository) Upsert(record VideoRecord) (bool, error) {
	res, err := r.db.Exec(`
		INSERT OR IGNORE INTO videos (
			video_id, channel_name, title, url,
			published_at, processed_at, source_type, summary,
			key_topics, recommendations, action_items, duration_seconds
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.VideoID, record.ChannelName, record.Title, record.URL,
		record.PublishedAt.UTC().Format(timeLayout),
		record.ProcessedAt.UTC().Format(timeLayout),
		string(record.SourceType), record.Summary,
		record.KeyTopics, record.Recommendations, record.ActionItems,
		record.DurationSeconds)
	if err != nil {
		return false, fmt.Errorf("failed to insert video: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *videoRepository) Get(videoID string) (*VideoRecord, error) {
	row := r.db.QueryRow(`
		SELECT `+videoColumns+`
		FROM videos
		WHERE video_id = ?
	`, videoID)

	record, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return record, nil
}

// Search runs a full-text query over title, summary, topics,
// recommendations and action items, ranked by relevance then recency.
func (r *videoRepository) Search(query string, filters Filters) ([]VideoRecord, error) {
	match := ftsQuery(query)
	if match == "" {
		return r.ListRecent(filters)
	}

	sqlQuery := `
		SELECT ` + videoColumnsQualified + `
		FROM videos v
		JOIN videos_fts ON v.id = videos_fts.rowid
		WHERE videos_fts MATCH ?`
	args := []interface{}{match}

	sqlQuery, args = applyFilters(sqlQuery, args, filters, "v.")
	sqlQuery += " ORDER BY bm25(videos_fts), v.published_at DESC LIMIT ?"
	args = append(args, limitValue(filters.Limit))

	return r.queryVideos(sqlQuery, args...)
}

func (r *videoRepository) ListRecent(filters Filters) ([]VideoRecord, error) {
	sqlQuery := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE 1=1`
	var args []interface{}

	sqlQuery, args = applyFilters(sqlQuery, args, filters, "")
	sqlQuery += " ORDER BY published_at DESC LIMIT ?"
	args = append(args, limitValue(filters.Limit))

	return r.queryVideos(sqlQuery, args...)
}

func (r *videoRepository) GetStats() (*Stats, error) {
	stats := &Stats{
		ByChannel:    make(map[string]int),
		BySourceType: make(map[string]int),
	}

	if err := r.db.QueryRow("SELECT COUNT(*) FROM videos").Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT channel_name, COUNT(*)
		FROM videos
		GROUP BY channel_name
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by channel: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var channel string
		var count int
		if err := rows.Scan(&channel, &count); err != nil {
			return nil, fmt.Errorf("failed to scan channel count: %w", err)
		}
		stats.ByChannel[channel] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel counts: %w", err)
	}

	srcRows, err := r.db.Query(`
		SELECT source_type, COUNT(*)
		FROM videos
		GROUP BY source_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by source type: %w", err)
	}
	defer srcRows.Close()
	for srcRows.Next() {
		var source string
		var count int
		if err := srcRows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		stats.BySourceType[source] = count
	}
	if err := srcRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source counts: %w", err)
	}

	var minDate, maxDate sql.NullString
	err = r.db.QueryRow("SELECT MIN(published_at), MAX(published_at) FROM videos").Scan(&minDate, &maxDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get date range: %w", err)
	}
	if minDate.Valid {
		if t, err := time.Parse(timeLayout, minDate.String); err == nil {
			stats.DateRange.From = &t
		}
	}
	if maxDate.Valid {
		if t, err := time.Parse(timeLayout, maxDate.String); err == nil {
			stats.DateRange.To = &t
		}
	}

	return stats, nil
}

func (r *videoRepository) queryVideos(query string, args ...interface{}) ([]VideoRecord, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var records []VideoRecord
	for rows.Next() {
		record, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video rows: %w", err)
	}

	return records, nil
}

func applyFilters(query string, args []interface{}, filters Filters, prefix string) (string, []interface{}) {
	if filters.From != nil {
		query += " AND " + prefix + "published_at >= ?"
		args = append(args, filters.From.UTC().Format(timeLayout))
	}
	if filters.Channel != "" {
		query += " AND " + prefix + "channel_name LIKE ?"
		args = append(args, "%"+filters.Channel+"%")
	}
	return query, args
}

// limitValue maps a non-positive limit to -1, which SQLite treats as
// "no limit". Callers that want a default page size set one themselves.
func limitValue(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// ftsQuery turns free-form user input into an FTS5 match expression.
// Each term is quoted so input cannot inject FTS query syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, `""`)
		quoted = append(quoted, `"`+term+`"`)
	}
	return strings.Join(quoted, " ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVideo(row rowScanner) (*VideoRecord, error) {
	var record VideoRecord
	var publishedAt, processedAt, createdAt, sourceType string

	err := row.Scan(
		&record.ID, &record.VideoID, &record.ChannelName, &record.Title,
		&record.URL, &publishedAt, &processedAt, &sourceType,
		&record.Summary, &record.KeyTopics, &record.Recommendations,
		&record.ActionItems, &record.DurationSeconds, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.SourceType, err = transcript.ParseSource(sourceType)
	if err != nil {
		return nil, err
	}

	record.PublishedAt, _ = time.Parse(timeLayout, publishedAt)
	record.ProcessedAt, _ = time.Parse(timeLayout, processedAt)
	record.CreatedAt, _ = parseCreatedAt(createdAt)

	return &record, nil
}

// parseCreatedAt accepts both the RFC 3339 layout used by the
// repository and SQLite's CURRENT_TIMESTAMP default.
func parseCreatedAt(value string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
