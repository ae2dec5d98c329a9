package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tubewatch/tubewatch/app/transcript"
)

var ignoreGenerated = cmpopts.IgnoreFields(VideoRecord{}, "ID", "CreatedAt")

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewConnection(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testRecord(videoID, channel, title, summary string, published time.Time) VideoRecord {
	return VideoRecord{
		VideoID:         videoID,
		ChannelName:     channel,
		Title:           title,
		URL:             "https://youtube.com/watch?v=" + videoID,
		PublishedAt:     published,
		ProcessedAt:     published.Add(2 * time.Hour),
		SourceType:      transcript.SourceCaptions,
		Summary:         summary,
		DurationSeconds: 600,
	}
}

func TestUpsertIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepository(db)

	record := testRecord("abc123", "FinTek", "Market Outlook", "Covers TSLA and AAPL.", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	inserted, err := repo.Upsert(record)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !inserted {
		t.Error("Expected first upsert to report inserted=true")
	}

	inserted, err = repo.Upsert(record)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if inserted {
		t.Error("Expected second upsert to report inserted=false")
	}

	videos, err := repo.ListRecent(Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 {
		t.Errorf("Expected exactly 1 row after duplicate insert, got %d", len(videos))
	}
}

func TestGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepository(db)

	want := testRecord("abc123", "FinTek", "Market Outlook", "Covers TSLA.", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	want.KeyTopics = "TSLA, earnings"
	want.Recommendations = "Buy"
	want.ActionItems = "Watch the Q2 report"

	if _, err := repo.Upsert(want); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Get("abc123")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, *got, ignoreGenerated); diff != "" {
		t.Errorf("Record mismatch (-want +got):\n%s", diff)
	}

	if _, err := repo.Get("missing"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepository(db)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seed := []VideoRecord{
		testRecord("vid1", "FinTek", "TSLA Deep Dive", "Tesla price targets and delivery numbers.", base),
		testRecord("vid2", "FinTek", "Banking Sector Review", "JPM and BAC earnings.", base.Add(24*time.Hour)),
		testRecord("vid3", "AkshatZayn", "Portfolio Update", "Why I am adding tsla on this dip.", base.Add(48*time.Hour)),
	}
	for _, record := range seed {
		if _, err := repo.Upsert(record); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("case insensitive match", func(t *testing.T) {
		results, err := repo.Search("TSLA", Filters{})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}
		for _, record := range results {
			if record.VideoID != "vid1" && record.VideoID != "vid3" {
				t.Errorf("Unexpected result: %s", record.VideoID)
			}
		}
	})

	t.Run("channel filter", func(t *testing.T) {
		results, err := repo.Search("TSLA", Filters{Channel: "Akshat"})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 || results[0].VideoID != "vid3" {
			t.Errorf("Expected only vid3, got %v", results)
		}
	})

	t.Run("from date filter", func(t *testing.T) {
		from := base.Add(36 * time.Hour)
		results, err := repo.Search("TSLA", Filters{From: &from})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 || results[0].VideoID != "vid3" {
			t.Errorf("Expected only vid3, got %v", results)
		}
	})

	t.Run("no match", func(t *testing.T) {
		results, err := repo.Search("quantum", Filters{})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("Expected no results, got %d", len(results))
		}
	})

	t.Run("query syntax is neutralized", func(t *testing.T) {
		if _, err := repo.Search(`TSLA" OR x`, Filters{}); err != nil {
			t.Errorf("Expected quoted query to be safe, got error: %v", err)
		}
	})
}

func TestListRecentOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepository(db)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		record := testRecord(id, "FinTek", "Video "+id, "Summary.", base.Add(time.Duration(i)*24*time.Hour))
		if _, err := repo.Upsert(record); err != nil {
			t.Fatal(err)
		}
	}

	videos, err := repo.ListRecent(Filters{})
	if err != nil {
		t.Fatal(err)
	}

	var gotOrder []string
	for _, record := range videos {
		gotOrder = append(gotOrder, record.VideoID)
	}
	if diff := cmp.Diff([]string{"new", "mid", "old"}, gotOrder); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsMatchListTotals(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepository(db)

	// More rows than any default page size, so the unfiltered list has
	// to be genuinely unbounded for the totals to line up.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	const total = 12
	for i := 0; i < total; i++ {
		channel := "FinTek"
		if i >= 8 {
			channel = "AkshatZayn"
		}
		record := testRecord(fmt.Sprintf("vid%02d", i), channel, fmt.Sprintf("Video %d", i), "Summary.", base.Add(time.Duration(i)*time.Hour))
		if i == 2 {
			record.SourceType = transcript.SourceAudioTranscription
		}
		if _, err := repo.Upsert(record); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := repo.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != total {
		t.Fatalf("Expected total %d, got %d", total, stats.Total)
	}

	videos, err := repo.ListRecent(Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != len(videos) {
		t.Errorf("Stats total %d does not match unfiltered list count %d", stats.Total, len(videos))
	}

	if stats.ByChannel["FinTek"] != 8 || stats.ByChannel["AkshatZayn"] != 4 {
		t.Errorf("Unexpected channel counts: %v", stats.ByChannel)
	}
	if stats.BySourceType[string(transcript.SourceCaptions)] != total-1 {
		t.Errorf("Unexpected source counts: %v", stats.BySourceType)
	}
	if stats.BySourceType[string(transcript.SourceAudioTranscription)] != 1 {
		t.Errorf("Unexpected source counts: %v", stats.BySourceType)
	}

	if stats.DateRange.From == nil || !stats.DateRange.From.Equal(base) {
		t.Errorf("Unexpected date range start: %v", stats.DateRange.From)
	}
	if stats.DateRange.To == nil || !stats.DateRange.To.Equal(base.Add((total-1)*time.Hour)) {
		t.Errorf("Unexpected date range end: %v", stats.DateRange.To)
	}
}
