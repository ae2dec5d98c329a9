package api

import (
	"context"
	"time"

	"github.com/tubewatch/tubewatch/app/database"
	"github.com/tubewatch/tubewatch/app/ingest"
	"github.com/tubewatch/tubewatch/app/profile"
	"github.com/tubewatch/tubewatch/app/tasks"
)

// OrchestratorInterface is the slice of the ingestion orchestrator the
// API needs: triggering runs and reporting the job slot.
type OrchestratorInterface interface {
	Run(ctx context.Context, force bool) ([]ingest.RunSummary, error)
	Status() ingest.JobSnapshot
}

var _ OrchestratorInterface = (*ingest.Orchestrator)(nil)

type Handler struct {
	videoRepo    database.VideoRepository
	profiles     *profile.Cache
	orchestrator OrchestratorInterface
	scheduler    tasks.TaskSchedulerInterface
	version      string
}

// VideoResponse is the JSON shape of one stored video.
type VideoResponse struct {
	VideoID         string `json:"video_id"`
	ChannelName     string `json:"channel_name"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	PublishedAt     string `json:"published_at"`
	ProcessedAt     string `json:"processed_at"`
	SourceType      string `json:"source_type"`
	Summary         string `json:"summary"`
	KeyTopics       string `json:"key_topics,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
	ActionItems     string `json:"action_items,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
}

func newVideoResponse(record database.VideoRecord) VideoResponse {
	return VideoResponse{
		VideoID:         record.VideoID,
		ChannelName:     record.ChannelName,
		Title:           record.Title,
		URL:             record.URL,
		PublishedAt:     record.PublishedAt.Format(time.RFC3339),
		ProcessedAt:     record.ProcessedAt.Format(time.RFC3339),
		SourceType:      string(record.SourceType),
		Summary:         record.Summary,
		KeyTopics:       record.KeyTopics,
		Recommendations: record.Recommendations,
		ActionItems:     record.ActionItems,
		DurationSeconds: record.DurationSeconds,
	}
}

func newVideoResponses(records []database.VideoRecord) []VideoResponse {
	responses := make([]VideoResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, newVideoResponse(record))
	}
	return responses
}
