package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tubewatch/tubewatch/app/ingest"
)

// IngestRunner executes one ingestion pass. Satisfied by
// *ingest.Orchestrator.
type IngestRunner interface {
	Run(ctx context.Context, force bool) ([]ingest.RunSummary, error)
}

type IngestTask struct {
	Task
	orchestrator IngestRunner
	force        bool
}

func NewIngestTask(orchestrator IngestRunner, force bool) *IngestTask {
	return &IngestTask{
		Task:         NewTask(TaskTypeIngest),
		orchestrator: orchestrator,
		force:        force,
	}
}

func (t *IngestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	summaries, err := t.orchestrator.Run(ctx, t.force)
	if err != nil {
		if errors.Is(err, ingest.ErrAlreadyRunning) {
			// A run is in flight already. The current tick is redundant,
			// not failed, so no retry.
			slog.Debug("Ingestion already running, skipping scheduled run")
			return nil
		}
		slog.Error("Task failed", "type", "Ingest", "error", err)
		return fmt.Errorf("ingestion run failed: %w", err)
	}

	stored, skipped, failed := 0, 0, 0
	for _, summary := range summaries {
		stored += summary.Count(ingest.OutcomeStored)
		skipped += summary.Count(ingest.OutcomeDuplicate) + summary.Count(ingest.OutcomeFiltered)
		failed += summary.Count(ingest.OutcomeFailed)
	}

	slog.Info("Task completed",
		"type", "Ingest",
		"profiles", len(summaries),
		"stored", stored,
		"skipped", skipped,
		"failed", failed,
		"duration", t.GetDuration())

	return nil
}
