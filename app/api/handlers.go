package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tubewatch/tubewatch/app/database"
	"github.com/tubewatch/tubewatch/app/ingest"
	"github.com/tubewatch/tubewatch/app/profile"
	"github.com/tubewatch/tubewatch/app/tasks"
)

func NewHandler(videoRepo database.VideoRepository, profiles *profile.Cache,
	orchestrator OrchestratorInterface, scheduler tasks.TaskSchedulerInterface,
	version string) *Handler {
	return &Handler{
		videoRepo:    videoRepo,
		profiles:     profiles,
		orchestrator: orchestrator,
		scheduler:    scheduler,
		version:      version,
	}
}

// GetSearch serves full-text search over stored summaries.
func (h *Handler) GetSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter 'q'"})
		return
	}

	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.videoRepo.Search(query, filters)
	if err != nil {
		slog.Error("Database error", "operation", "search", "query", query, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":  query,
		"total":  len(records),
		"videos": newVideoResponses(records),
	})
}

// ListVideos returns the most recently processed videos.
func (h *Handler) ListVideos(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.videoRepo.ListRecent(filters)
	if err != nil {
		slog.Error("Database error", "operation", "list_videos", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  len(records),
		"videos": newVideoResponses(records),
	})
}

// GetVideo returns a single stored video by its video ID.
func (h *Handler) GetVideo(c *gin.Context) {
	videoID := c.Param("id")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing video ID"})
		return
	}

	record, err := h.videoRepo.Get(videoID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		slog.Error("Database error", "operation", "get_video", "video_id", videoID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, newVideoResponse(*record))
}

// GetStats reports store-wide aggregates.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.videoRepo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	dateRange := gin.H{}
	if stats.DateRange.From != nil {
		dateRange["from"] = stats.DateRange.From.Format(time.RFC3339)
	}
	if stats.DateRange.To != nil {
		dateRange["to"] = stats.DateRange.To.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{
		"total_videos":   stats.Total,
		"by_channel":     stats.ByChannel,
		"by_source_type": stats.BySourceType,
		"date_range":     dateRange,
	})
}

// GetStatus reports the single ingestion job slot.
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.orchestrator.Status())
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if stats, err := h.videoRepo.GetStats(); err == nil {
		health["videos"] = stats.Total
	}

	health["loaded_profiles"] = h.profiles.GetProfileCount()

	c.JSON(http.StatusOK, health)
}

// TriggerIngest starts an ingestion run in the background. A run
// already in flight rejects the trigger; runs are never queued up.
func (h *Handler) TriggerIngest(c *gin.Context) {
	if h.orchestrator.Status().Status == ingest.StatusRunning {
		c.JSON(http.StatusConflict, gin.H{"error": "Ingestion run already in progress"})
		return
	}

	force := c.Query("force") == "true"

	task := tasks.NewIngestTask(h.orchestrator, force)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing ingest task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue ingest task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Ingestion run enqueued",
		"task": gin.H{
			"id":    task.ID,
			"type":  task.Type,
			"force": force,
		},
	})
}

// defaultPageSize bounds list responses when the caller sends no limit.
const defaultPageSize = 20

func parseFilters(c *gin.Context) (database.Filters, error) {
	filters := database.Filters{
		Channel: c.Query("channel"),
		Limit:   defaultPageSize,
	}

	if from := c.Query("from"); from != "" {
		parsed, err := parseDate(from)
		if err != nil {
			return filters, errors.New("invalid 'from' date, use RFC3339 or YYYY-MM-DD")
		}
		filters.From = &parsed
	}

	if limit := c.Query("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 1 {
			return filters, errors.New("invalid 'limit', must be a positive integer")
		}
		filters.Limit = parsed
	}

	return filters, nil
}

func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
