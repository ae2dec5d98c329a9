package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ErrQuota marks rate-limit and quota responses from the AI service.
// Callers should leave the affected video unmarked so a later run can
// retry it.
var ErrQuota = errors.New("ai quota exhausted")

const transcriptionPrompt = `Please transcribe this audio completely and accurately.

Provide the full transcript of everything said in the audio. Do not summarize - transcribe word-for-word.
Return only the transcript text, nothing else.`

// Client wraps the Gemini API for the two call shapes the pipeline
// needs: text summarization and audio transcription.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Summarize sends a fully rendered prompt to the model and returns the
// response text verbatim.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", wrapServiceError("summarization", err)
	}

	text := extractText(result)
	if text == "" {
		return "", fmt.Errorf("summarization returned empty response")
	}

	slog.Debug("Generated summary", "model", c.model, "chars", len(text), "duration", time.Since(start))
	return text, nil
}

// TranscribeFile uploads a local audio file, asks the model for a
// word-for-word transcript and deletes the uploaded artifact before
// returning.
func (c *Client) TranscribeFile(ctx context.Context, audioPath string) (string, error) {
	file, err := c.client.Files.UploadFromPath(ctx, audioPath, &genai.UploadFileConfig{
		MIMEType: "audio/mpeg",
	})
	if err != nil {
		return "", wrapServiceError("audio upload", err)
	}
	defer func() {
		// The request context is usually expired by the time the defer
		// runs after a timed-out GenerateContent, so the delete gets a
		// detached context of its own.
		deleteCtx, cancel := cleanupContext(ctx)
		defer cancel()
		if _, err := c.client.Files.Delete(deleteCtx, file.Name, nil); err != nil {
			slog.Warn("Failed to delete uploaded audio", "file", file.Name, "error", err)
		}
	}()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transcriptionPrompt),
			genai.NewPartFromURI(file.URI, file.MIMEType),
		}, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", wrapServiceError("audio transcription", err)
	}

	text := extractText(result)
	if text == "" {
		return "", fmt.Errorf("audio transcription returned empty response")
	}

	return text, nil
}

const cleanupTimeout = 30 * time.Second

// cleanupContext derives a context for remote cleanup that survives
// cancellation or expiry of the request context it descends from.
func cleanupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
}

func extractText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return strings.TrimSpace(text.String())
}

func wrapServiceError(stage string, err error) error {
	if isQuotaError(err) {
		return fmt.Errorf("%s: %w: %v", stage, ErrQuota, err)
	}
	return fmt.Errorf("%s failed: %w", stage, err)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
