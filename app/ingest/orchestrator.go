package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/tubewatch/tubewatch/app/ai"
	"github.com/tubewatch/tubewatch/app/database"
	"github.com/tubewatch/tubewatch/app/digest"
	"github.com/tubewatch/tubewatch/app/media"
	"github.com/tubewatch/tubewatch/app/profile"
	"github.com/tubewatch/tubewatch/app/transcript"
	"github.com/tubewatch/tubewatch/app/youtube"
)

const minDescriptionLength = 50

// TranscriptAcquirer walks the caption waterfall for one video.
type TranscriptAcquirer interface {
	Acquire(ctx context.Context, videoID string) (string, transcript.Source, error)
}

// AudioFallback produces a transcript from the video's audio when no
// captions exist.
type AudioFallback interface {
	Transcribe(ctx context.Context, videoID string) (string, error)
}

// Summarizer turns a rendered prompt into summary text.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Exporter persists a digest body to disk.
type Exporter interface {
	Export(profileName, body string, now time.Time) (string, error)
}

// Orchestrator drives profiles through enumeration, filtering,
// transcript acquisition, summarization, storage and notification.
// Failures are contained per candidate; a run never aborts because one
// video misbehaved.
type Orchestrator struct {
	profiles         *profile.Cache
	lister           youtube.ChannelLister
	acquirer         TranscriptAcquirer
	fallback         AudioFallback
	summarizer       Summarizer
	videos           database.VideoRepository
	ledger           database.LedgerRepository
	sender           digest.Sender
	exporter         Exporter
	defaultRecipient string
	callTimeout      time.Duration
	state            *jobState
}

func NewOrchestrator(
	profiles *profile.Cache,
	lister youtube.ChannelLister,
	acquirer TranscriptAcquirer,
	fallback AudioFallback,
	summarizer Summarizer,
	videos database.VideoRepository,
	ledger database.LedgerRepository,
	sender digest.Sender,
	exporter Exporter,
	defaultRecipient string,
	callTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		profiles:         profiles,
		lister:           lister,
		acquirer:         acquirer,
		fallback:         fallback,
		summarizer:       summarizer,
		videos:           videos,
		ledger:           ledger,
		sender:           sender,
		exporter:         exporter,
		defaultRecipient: defaultRecipient,
		callTimeout:      callTimeout,
		state:            newJobState(),
	}
}

// Status reports the single ingestion slot.
func (o *Orchestrator) Status() JobSnapshot {
	return o.state.Snapshot()
}

// Run executes one ingestion pass over all enabled profiles. A second
// Run while one is in flight returns ErrAlreadyRunning. With force set,
// the dedup ledger is bypassed but still written afterwards.
func (o *Orchestrator) Run(ctx context.Context, force bool) ([]RunSummary, error) {
	if err := o.state.Start(); err != nil {
		return nil, err
	}

	profiles := o.profiles.GetEnabledProfiles()
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	slog.Info("Starting ingestion run", "profiles", len(names), "force", force)

	summaries := make([]RunSummary, 0, len(names))
	for _, name := range names {
		summaries = append(summaries, o.runProfile(ctx, profiles[name], force))
	}

	o.state.Finish(summaries, ctx.Err())
	slog.Info("Ingestion run finished", "profiles", len(summaries))
	return summaries, ctx.Err()
}

func (o *Orchestrator) runProfile(ctx context.Context, p *profile.Profile, force bool) RunSummary {
	summary := RunSummary{Profile: p.Name, StartedAt: time.Now()}
	cutoff := summary.StartedAt.Add(-p.Settings.Lookback())

	var stored []database.VideoRecord

	for _, channel := range p.Channels {
		candidates, err := o.listChannel(ctx, channel, p.Settings.VideosPerChannel)
		if err != nil {
			slog.Error("Channel enumeration failed", "profile", p.Name, "channel", channel.Handle, "error", err)
			continue
		}

		for _, candidate := range candidates {
			result, record := o.processCandidate(ctx, p, candidate, cutoff, force)
			summary.Results = append(summary.Results, result)
			if record != nil {
				stored = append(stored, *record)
			}

			slog.Info("Candidate processed",
				"profile", p.Name,
				"video_id", candidate.ID,
				"outcome", string(result.Outcome),
				"reason", result.Reason)
		}
	}

	summary.FinishedAt = time.Now()
	o.deliver(ctx, p, stored, summary.FinishedAt)
	return summary
}

func (o *Orchestrator) listChannel(ctx context.Context, channel profile.Channel, count int) ([]youtube.VideoCandidate, error) {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()
	return o.lister.ListLatest(callCtx, channel.URL, channel.Handle, count)
}

// processCandidate takes one candidate through the pipeline. The
// returned record is non-nil only for OutcomeStored.
func (o *Orchestrator) processCandidate(ctx context.Context, p *profile.Profile, candidate youtube.VideoCandidate, cutoff time.Time, force bool) (CandidateResult, *database.VideoRecord) {
	result := CandidateResult{
		VideoID: candidate.ID,
		Title:   candidate.Title,
		Channel: candidate.ChannelName,
	}

	if !force {
		processed, err := o.ledger.IsProcessed(p.Name, candidate.ID)
		if err != nil {
			result.Outcome = OutcomeFailed
			result.Reason = fmt.Sprintf("ledger check failed: %v", err)
			return result, nil
		}
		if processed {
			result.Outcome = OutcomeDuplicate
			return result, nil
		}
	}

	if candidate.PublishedAt.Before(cutoff) {
		result.Outcome = OutcomeFiltered
		result.Reason = "outside lookback window"
		return result, nil
	}

	if candidate.IsShort() && !p.Settings.ShortsIncluded() {
		result.Outcome = OutcomeFiltered
		result.Reason = "short-form video"
		return result, nil
	}

	if candidate.Restricted {
		o.markProcessed(p.Name, candidate.ID)
		result.Outcome = OutcomeFiltered
		result.Reason = "members-only video"
		return result, nil
	}

	text, source, err := o.acquireCaptions(ctx, candidate.ID)
	if err != nil && !errors.Is(err, transcript.ErrUnavailable) {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result, nil
	}

	var summaryText string
	if err == nil {
		summaryText, err = o.summarizeTranscript(ctx, p, candidate, text)
	} else {
		// No caption track exists. That determination is stable, so a
		// skip_no_transcript profile can ledger the video right here.
		// Everything past this point is a service call whose failure
		// must stay out of the ledger and be retried next run.
		if p.Settings.SkipNoTranscript {
			o.markProcessed(p.Name, candidate.ID)
			result.Outcome = OutcomeFiltered
			result.Reason = "no transcript available"
			return result, nil
		}

		text, err = o.transcribeAudio(ctx, candidate.ID)
		switch {
		case err == nil:
			source = transcript.SourceAudioTranscription
			summaryText, err = o.summarizeTranscript(ctx, p, candidate, text)
		case errors.Is(err, media.ErrRestricted):
			o.markProcessed(p.Name, candidate.ID)
			result.Outcome = OutcomeFiltered
			result.Reason = "members-only video"
			return result, nil
		case errors.Is(err, ai.ErrQuota):
			result.Outcome = OutcomeFailed
			result.Reason = fmt.Sprintf("audio transcription failed: %v", err)
			return result, nil
		case p.Settings.UseDescriptionFallback && len(candidate.Description) >= minDescriptionLength:
			slog.Warn("Audio fallback failed, summarizing from description", "video_id", candidate.ID, "error", err)
			summaryText, err = o.summarizeDescription(ctx, candidate)
			source = transcript.SourceCaptions
		default:
			result.Outcome = OutcomeFailed
			result.Reason = fmt.Sprintf("transcript unavailable: %v", err)
			return result, nil
		}
	}
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = fmt.Sprintf("summarization failed: %v", err)
		return result, nil
	}

	record := database.VideoRecord{
		VideoID:         candidate.ID,
		ChannelName:     candidate.ChannelName,
		Title:           candidate.Title,
		URL:             candidate.URL(),
		PublishedAt:     candidate.PublishedAt,
		ProcessedAt:     time.Now(),
		SourceType:      source,
		Summary:         summaryText,
		DurationSeconds: int(candidate.Duration.Seconds()),
	}

	if _, err := o.videos.Upsert(record); err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = fmt.Sprintf("store write failed: %v", err)
		return result, nil
	}

	o.markProcessed(p.Name, candidate.ID)

	result.Outcome = OutcomeStored
	return result, &record
}

// acquireCaptions runs the caption waterfall. transcript.ErrUnavailable
// means no tier has a caption track; any other error is a stage
// failure.
func (o *Orchestrator) acquireCaptions(ctx context.Context, videoID string) (string, transcript.Source, error) {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()
	return o.acquirer.Acquire(callCtx, videoID)
}

func (o *Orchestrator) transcribeAudio(ctx context.Context, videoID string) (string, error) {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()
	return o.fallback.Transcribe(callCtx, videoID)
}

func (o *Orchestrator) summarizeTranscript(ctx context.Context, p *profile.Profile, candidate youtube.VideoCandidate, text string) (string, error) {
	prompt := ai.RenderPrompt(p.Prompt, ai.PromptData{
		Title:      candidate.Title,
		Channel:    candidate.ChannelName,
		Published:  candidate.PublishedAt,
		Transcript: text,
	})

	callCtx, cancel := o.callContext(ctx)
	defer cancel()
	return o.summarizer.Summarize(callCtx, prompt)
}

func (o *Orchestrator) summarizeDescription(ctx context.Context, candidate youtube.VideoCandidate) (string, error) {
	prompt := ai.RenderDescriptionPrompt(
		candidate.Title,
		candidate.ChannelName,
		candidate.PublishedAt,
		candidate.Description,
		candidate.URL(),
	)

	callCtx, cancel := o.callContext(ctx)
	defer cancel()

	text, err := o.summarizer.Summarize(callCtx, prompt)
	if err != nil {
		return "", err
	}
	return ai.LimitedInfoPrefix + text, nil
}

// deliver sends one digest per profile per run and exports the body to
// disk. Delivery failures are logged; stored records are never rolled
// back.
func (o *Orchestrator) deliver(ctx context.Context, p *profile.Profile, stored []database.VideoRecord, now time.Time) {
	if len(stored) == 0 && !p.Settings.SendEmptyDigest {
		slog.Debug("No new videos, digest suppressed", "profile", p.Name)
		return
	}

	subject, body := digest.FormatDigest(p.Name, stored, now)

	if o.exporter != nil {
		if path, err := o.exporter.Export(p.Name, body, now); err != nil {
			slog.Warn("Failed to export digest", "profile", p.Name, "error", err)
		} else {
			slog.Debug("Digest exported", "profile", p.Name, "path", path)
		}
	}

	recipient := p.Recipient
	if recipient == "" {
		recipient = o.defaultRecipient
	}
	if o.sender == nil || recipient == "" {
		return
	}

	callCtx, cancel := o.callContext(ctx)
	defer cancel()

	if err := o.sender.Send(callCtx, recipient, subject, body); err != nil {
		slog.Error("Failed to send digest", "profile", p.Name, "recipient", recipient, "error", err)
		return
	}

	slog.Info("Digest sent", "profile", p.Name, "recipient", recipient, "videos", len(stored))
}

func (o *Orchestrator) markProcessed(profileName, videoID string) {
	if err := o.ledger.MarkProcessed(profileName, videoID); err != nil {
		slog.Warn("Failed to mark video processed", "profile", profileName, "video_id", videoID, "error", err)
	}
}

func (o *Orchestrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.callTimeout)
}
