package ai

import (
	"fmt"
	"strings"
	"time"
)

// maxTranscriptChars bounds the prompt size; long streams get cut with
// a marker so the model knows the tail is missing.
const maxTranscriptChars = 100000

// PromptData carries the placeholder values for a profile's prompt
// template.
type PromptData struct {
	Title      string
	Channel    string
	Published  time.Time
	Transcript string
}

// RenderPrompt substitutes {title}, {channel}, {published} and
// {transcript} in a profile's template.
func RenderPrompt(template string, data PromptData) string {
	transcript := data.Transcript
	if len(transcript) > maxTranscriptChars {
		transcript = transcript[:maxTranscriptChars] + "... [transcript truncated]"
	}

	replacer := strings.NewReplacer(
		"{title}", data.Title,
		"{channel}", data.Channel,
		"{published}", data.Published.Format("2006-01-02 15:04"),
		"{transcript}", transcript,
	)
	return replacer.Replace(template)
}

// LimitedInfoPrefix flags summaries produced without a transcript.
const LimitedInfoPrefix = "LIMITED INFO - Transcript not available, summary based on description only:\n\n"

const descriptionPromptFormat = `Analyze this video based on its description and provide a summary.

Video Title: %s
Channel: %s
Published: %s

Description:
%s

Based on this information, please provide:
1. Key Topics: the main subjects you can identify from the title and description
2. The Main Thesis: what appears to be the central point of the video
3. Actionability: recommend watching the video at the URL below for full details

Note: This summary is based on limited information (title and description only) since the video transcript was not available.

VIDEO URL: %s
`

// RenderDescriptionPrompt builds the reduced prompt used when neither
// captions nor audio transcription produced a transcript.
func RenderDescriptionPrompt(title, channel string, published time.Time, description, videoURL string) string {
	return fmt.Sprintf(descriptionPromptFormat,
		title,
		channel,
		published.Format("2006-01-02 15:04"),
		description,
		videoURL,
	)
}
