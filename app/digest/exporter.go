package digest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Exporter writes digest bodies to dated files under the output
// directory so summaries survive independently of email delivery.
type Exporter struct {
	outputDir string
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{outputDir: outputDir}
}

// Export writes the digest body to
// <outputDir>/summaries/daily_summary_<profile>_<date>.txt and returns
// the path.
func (e *Exporter) Export(profileName, body string, now time.Time) (string, error) {
	dir := filepath.Join(e.outputDir, "summaries")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create summaries dir: %w", err)
	}

	filename := fmt.Sprintf("daily_summary_%s_%s.txt", profileName, now.Format("2006-01-02"))
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}

	return path, nil
}
