package media

import (
	"context"
	"errors"
	"os"
	"testing"
)

type fakeTranscriber struct {
	text string
	err  error
	path string
}

func (f *fakeTranscriber) TranscribeFile(_ context.Context, audioPath string) (string, error) {
	f.path = audioPath
	return f.text, f.err
}

func TestFallbackTranscribe(t *testing.T) {
	workDir := t.TempDir()
	transcriber := &fakeTranscriber{text: "full transcript"}
	fallback := NewFallbackTranscriber(NewDownloader(&fakeExecutor{}, workDir), transcriber)

	text, err := fallback.Transcribe(context.Background(), "vid1")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "full transcript" {
		t.Errorf("Expected transcript text, got %q", text)
	}
	if _, err := os.Stat(transcriber.path); err == nil {
		t.Error("Expected audio file removed after transcription")
	}
	if got := tempEntries(t, workDir); got != 0 {
		t.Errorf("Expected no temp files after transcription, got %d", got)
	}
}

func TestFallbackTranscribeCleansUpOnError(t *testing.T) {
	workDir := t.TempDir()
	transcriber := &fakeTranscriber{err: errors.New("model overloaded")}
	fallback := NewFallbackTranscriber(NewDownloader(&fakeExecutor{}, workDir), transcriber)

	if _, err := fallback.Transcribe(context.Background(), "vid1"); err == nil {
		t.Fatal("Expected error")
	}
	if got := tempEntries(t, workDir); got != 0 {
		t.Errorf("Expected no temp files after failed transcription, got %d", got)
	}
}
