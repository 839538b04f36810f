package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"assemblyai-cli/internal/assemblyai"
	"assemblyai-cli/internal/config"
	"assemblyai-cli/internal/logging"
	"assemblyai-cli/internal/transcript"
)

// Client is the remote-service boundary the orchestrator drives. The
// completed poll response carries the transcript itself, so no separate
// fetch call exists.
type Client interface {
	Upload(ctx context.Context, path string) (string, error)
	Submit(ctx context.Context, params assemblyai.TranscriptParams) (string, error)
	GetTranscript(ctx context.Context, id string) (*assemblyai.TranscriptResult, error)
}

// Orchestrator owns the job handle for the lifetime of one run.
type Orchestrator struct {
	client Client
	logger *slog.Logger

	// overridable in tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an orchestrator around the given service client.
func New(client Client, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		client: client,
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Run submits mediaRef for transcription and polls until the job completes,
// fails, or the request's timeout elapses. A local file path is uploaded
// first; an http(s) URL is submitted as-is.
func (o *Orchestrator) Run(ctx context.Context, req config.JobRequest, mediaRef string) (transcript.Transcript, error) {
	logger := o.logger.With(logging.String("run_id", uuid.NewString()))

	audioURL := mediaRef
	if !isRemoteRef(mediaRef) {
		uploaded, err := o.client.Upload(ctx, mediaRef)
		if err != nil {
			return transcript.Transcript{}, &SubmissionError{Err: err}
		}
		audioURL = uploaded
		logger.Debug("media uploaded", logging.String("audio_url", audioURL))
	}

	id, err := o.client.Submit(ctx, buildParams(req, audioURL))
	if err != nil {
		return transcript.Transcript{}, &SubmissionError{Err: err}
	}
	start := o.now()
	logger.Info("transcription job submitted",
		logging.String("job_id", id),
		logging.Duration("poll_interval", req.PollInterval),
		logging.Duration("timeout", req.Timeout),
	)

	for {
		if err := o.sleep(ctx, req.PollInterval); err != nil {
			return transcript.Transcript{}, err
		}

		result, pollErr := o.client.GetTranscript(ctx, id)
		if pollErr != nil {
			logger.Warn("poll attempt failed", logging.Error(pollErr))
		}

		var status transcript.Status
		if pollErr == nil {
			status = result.Status
		}

		switch decide(status, pollErr, o.now().Sub(start), req.Timeout) {
		case decisionDone:
			logger.Info("transcription completed",
				logging.String("job_id", id),
				logging.Int("words", len(result.Words)),
			)
			return result.Transcript(), nil
		case decisionFailed:
			return transcript.Transcript{}, &JobFailedError{Reason: result.Error}
		case decisionTimedOut:
			return transcript.Transcript{}, &TimeoutError{Timeout: req.Timeout.String()}
		case decisionWait:
		}
	}
}

// decision is the outcome of one poll inspection.
type decision int

const (
	decisionWait decision = iota
	decisionDone
	decisionFailed
	decisionTimedOut
)

// decide is the pure poll-loop transition: a terminal job state always wins,
// the timeout covers everything else (including failed poll attempts), and
// any remaining case keeps the loop going.
func decide(status transcript.Status, pollErr error, elapsed, timeout time.Duration) decision {
	if pollErr == nil {
		switch status {
		case transcript.StatusCompleted:
			return decisionDone
		case transcript.StatusError:
			return decisionFailed
		}
	}
	if elapsed >= timeout {
		return decisionTimedOut
	}
	return decisionWait
}

// buildParams maps a resolved JobRequest onto the service wire parameters.
// The language code is only sent when detection is off; the API rejects
// requests carrying both.
func buildParams(req config.JobRequest, audioURL string) assemblyai.TranscriptParams {
	params := assemblyai.TranscriptParams{
		AudioURL:          audioURL,
		SpeechModel:       req.SpeechModel,
		LanguageDetection: req.LanguageDetection,
		Punctuate:         req.Punctuate,
		FormatText:        req.FormatText,
		Disfluencies:      req.Disfluencies,
		FilterProfanity:   req.FilterProfanity,
		SpeakerLabels:     req.SpeakerLabels,
		Multichannel:      req.Multichannel,
		SpeechThreshold:   req.SpeechThreshold,
		WordBoost:         req.WordBoost,
		CustomSpelling:    assemblyai.SpellingRules(req.CustomSpelling),
	}
	if !req.LanguageDetection && req.Language != "" {
		params.LanguageCode = req.Language
	}
	return params
}

func isRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
