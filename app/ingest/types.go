package ingest

import "time"

// Outcome is the terminal state of one candidate within a run.
type Outcome string

const (
	// OutcomeStored means the candidate was summarized and persisted.
	OutcomeStored Outcome = "stored"
	// OutcomeDuplicate means the ledger already knew the video ID.
	OutcomeDuplicate Outcome = "skipped_duplicate"
	// OutcomeFiltered means a profile rule excluded the candidate
	// (lookback window, shorts, membership, missing transcript).
	OutcomeFiltered Outcome = "filtered_out"
	// OutcomeFailed means a pipeline stage errored; the candidate stays
	// out of the ledger and is retried on the next run.
	OutcomeFailed Outcome = "failed"
)

// CandidateResult records how one candidate left the pipeline.
type CandidateResult struct {
	VideoID string  `json:"video_id"`
	Title   string  `json:"title"`
	Channel string  `json:"channel"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// RunSummary enumerates per-candidate outcomes for one profile run.
type RunSummary struct {
	Profile    string            `json:"profile"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Results    []CandidateResult `json:"results"`
}

func (s RunSummary) Count(outcome Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}
