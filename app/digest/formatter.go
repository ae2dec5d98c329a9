package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/tubewatch/tubewatch/app/database"
)

var separator = strings.Repeat("=", 60)

// FormatVideo renders one stored video as a plain-text digest block.
func FormatVideo(record database.VideoRecord) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(separator + "\n")
	b.WriteString(record.Title + "\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Channel: %s\n", record.ChannelName)
	fmt.Fprintf(&b, "Published: %s\n", record.PublishedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Duration: %ds\n", record.DurationSeconds)
	fmt.Fprintf(&b, "URL: %s\n", record.URL)
	b.WriteString("\n")
	b.WriteString(record.Summary + "\n")

	return b.String()
}

// FormatDigest builds the subject and body of a profile's per-run
// digest email from the videos stored during that run.
func FormatDigest(profileName string, records []database.VideoRecord, now time.Time) (string, string) {
	subject := fmt.Sprintf("Video Summary Digest [%s] - %d New Video(s)", profileName, len(records))

	var body strings.Builder
	fmt.Fprintf(&body, "Video Summary Digest [%s]\n", profileName)
	fmt.Fprintf(&body, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&body, "Found %d new video(s):\n\n", len(records))

	for _, record := range records {
		body.WriteString(FormatVideo(record))
	}

	body.WriteString("\n---\nThis is an automated report from TubeWatch.\n")

	return subject, body.String()
}
