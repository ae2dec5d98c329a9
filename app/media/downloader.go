package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrRestricted marks videos whose audio cannot be downloaded because
// they are members-only, private or otherwise unavailable. Not worth
// retrying.
var ErrRestricted = errors.New("video is restricted")

// Downloader fetches a video's best audio stream with yt-dlp and
// converts it to a compact mp3 with ffmpeg. All files live in a
// per-invocation temporary directory removed by the returned cleanup
// function.
type Downloader struct {
	executor Executor
	workDir  string
}

func NewDownloader(executor Executor, workDir string) *Downloader {
	return &Downloader{
		executor: executor,
		workDir:  workDir,
	}
}

// Download returns the path to a compact audio file for the video and
// a cleanup function. Callers must invoke cleanup on every path once
// the file is no longer needed; on error, cleanup has already run.
func (d *Downloader) Download(ctx context.Context, videoID string) (string, func(), error) {
	tempDir, err := os.MkdirTemp(d.workDir, "audio-"+videoID+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(tempDir); err != nil {
			slog.Warn("Failed to remove temp dir", "path", tempDir, "error", err)
		}
	}

	sourcePath, err := d.fetchAudio(ctx, tempDir, videoID)
	if err != nil {
		cleanup()
		return "", nil, err
	}

	mp3Path, err := d.convertToMP3(ctx, sourcePath)
	if err != nil {
		cleanup()
		return "", nil, err
	}

	return mp3Path, cleanup, nil
}

func (d *Downloader) fetchAudio(ctx context.Context, tempDir, videoID string) (string, error) {
	url := "https://www.youtube.com/watch?v=" + videoID

	args := []string{
		"-f", "bestaudio/best",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"-o", filepath.Join(tempDir, "source.%(ext)s"),
		url,
	}

	if _, err := d.executor.Execute(ctx, "yt-dlp", args...); err != nil {
		if isRestrictedError(err) {
			return "", fmt.Errorf("video %s: %w", videoID, ErrRestricted)
		}
		return "", fmt.Errorf("yt-dlp download failed: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(tempDir, "source.*"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("audio file not found after download")
	}

	return matches[0], nil
}

func (d *Downloader) convertToMP3(ctx context.Context, sourcePath string) (string, error) {
	mp3Path := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".mp3"

	// -vn drops any cover-art stream; 128k keeps the upload well under
	// the AI service's file size limit.
	args := []string{
		"-i", sourcePath,
		"-vn",
		"-c:a", "libmp3lame",
		"-b:a", "128k",
		"-y",
		mp3Path,
	}

	if _, err := d.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("ffmpeg convert failed: %w", err)
	}

	return mp3Path, nil
}

// isRestrictedError inspects the tool output for markers of
// members-only, private or region-blocked videos.
func isRestrictedError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"members only", "members-only", "private video", "video unavailable", "not available in your country"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
