package media

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// AudioTranscriber converts a local audio file into text.
type AudioTranscriber interface {
	TranscribeFile(ctx context.Context, audioPath string) (string, error)
}

// FallbackTranscriber produces a transcript for videos without
// captions by downloading the audio and running it through speech
// recognition. Temporary audio files never outlive the call.
type FallbackTranscriber struct {
	downloader  *Downloader
	transcriber AudioTranscriber
}

func NewFallbackTranscriber(downloader *Downloader, transcriber AudioTranscriber) *FallbackTranscriber {
	return &FallbackTranscriber{
		downloader:  downloader,
		transcriber: transcriber,
	}
}

func (f *FallbackTranscriber) Transcribe(ctx context.Context, videoID string) (string, error) {
	start := time.Now()

	audioPath, cleanup, err := f.downloader.Download(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("audio download failed: %w", err)
	}
	defer cleanup()

	text, err := f.transcriber.TranscribeFile(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("audio transcription failed: %w", err)
	}

	slog.Debug("Transcribed audio", "video_id", videoID, "chars", len(text), "duration", time.Since(start))
	return text, nil
}
