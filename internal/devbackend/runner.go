package devbackend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alkime/scriptcut/internal/pipeline"
)

// StatusProcessing is reported while a stage is running. The client treats
// it like pending.
const StatusProcessing pipeline.Status = "processing"

const (
	scriptFile     = "script_with_timestamps.txt"
	aiScriptFile   = "ai_generated_script.txt"
	finalVideoFile = "final_video.mp4"
)

// ErrStageBusy is returned when a stage is submitted while another one is
// still running for the same job.
var ErrStageBusy = errors.New("a stage is already running for this video")

// stepFunc records progress and waits the configured step delay.
type stepFunc func(progress int, message string) error

// stageWork is the body of one stage. It returns the completion message.
type stageWork func(ctx context.Context, j job, step stepFunc) (func(j *job), string, error)

// runner executes stages in background goroutines and records their
// progress in the job store.
type runner struct {
	jobs   *jobStore
	logger *slog.Logger
	delay  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newRunner(jobs *jobStore, logger *slog.Logger, delay time.Duration) *runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &runner{jobs: jobs, logger: logger, delay: delay, ctx: ctx, cancel: cancel}
}

// start marks the job as processing for stage and runs work.
func (r *runner) start(id string, stage pipeline.StageTag, work stageWork) error {
	var (
		snapshot job
		busy     bool
	)
	ok := r.jobs.update(id, func(j *job) {
		if j.status == StatusProcessing {
			busy = true
			return
		}
		j.stage = stage
		j.status = StatusProcessing
		j.progress = 0
		j.err = ""
		j.message = "Starting..."
		snapshot = *j
	})
	if !ok {
		return fmt.Errorf("unknown video id %q", id)
	}
	if busy {
		return ErrStageBusy
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		logger := r.logger.With("video_id", id, "stage", stage)
		logger.Info("stage started")

		step := func(progress int, message string) error {
			r.jobs.update(id, func(j *job) {
				j.progress = progress
				j.message = message
			})
			return r.pause()
		}

		apply, message, err := work(r.ctx, snapshot, step)
		if err != nil {
			logger.Error("stage failed", "error", err)
			r.jobs.update(id, func(j *job) {
				j.status = pipeline.StatusFailed
				j.err = err.Error()
				j.message = fmt.Sprintf("Processing failed: %v", err)
			})
			return
		}

		r.jobs.update(id, func(j *job) {
			if apply != nil {
				apply(j)
			}
			j.status = pipeline.StatusCompleted
			j.progress = 100
			j.message = message
		})
		logger.Info("stage completed")
	}()

	return nil
}

// pause waits one step delay or until the runner is closed.
func (r *runner) pause() error {
	if r.delay <= 0 {
		return r.ctx.Err()
	}

	t := time.NewTimer(r.delay)
	defer t.Stop()

	select {
	case <-r.ctx.Done():
		return r.ctx.Err()
	case <-t.C:
		return nil
	}
}

// close cancels running stages and waits for them to return.
func (r *runner) close() {
	r.cancel()
	r.wg.Wait()
}

func transcribeStage(t Transcriber) stageWork {
	return func(ctx context.Context, j job, step stepFunc) (func(*job), string, error) {
		if err := step(10, "Extracting audio..."); err != nil {
			return nil, "", err
		}
		if err := step(40, "Transcribing audio..."); err != nil {
			return nil, "", err
		}

		script, err := t.Transcribe(ctx, j.mediaPath, j.fields)
		if err != nil {
			return nil, "", err
		}

		path := filepath.Join(j.dir, scriptFile)
		if err := writeFile(path, script); err != nil {
			return nil, "", err
		}

		return func(j *job) {
			j.script = script
			j.scriptPath = path
		}, "Transcription complete.", nil
	}
}

func aiScriptStage(g Generator, req LLMRequest, original, theme string) stageWork {
	return func(ctx context.Context, j job, step stepFunc) (func(*job), string, error) {
		if err := step(20, "Calling the AI to generate the script..."); err != nil {
			return nil, "", err
		}

		var (
			script string
			err    error
		)
		if req.APIKey == "" {
			script = OfflineScript(original, theme)
		} else {
			script, err = g.Generate(ctx, req)
			if err != nil {
				return nil, "", err
			}
		}
		if script == "" {
			return nil, "", errors.New("the AI returned an empty script")
		}

		if err := step(80, "Saving the AI script..."); err != nil {
			return nil, "", err
		}
		if err := writeFile(filepath.Join(j.dir, aiScriptFile), script); err != nil {
			return nil, "", err
		}

		return func(j *job) { j.aiScript = script }, "AI script generated.", nil
	}
}

func videoGenStage(aiScript string) stageWork {
	return func(_ context.Context, j job, step stepFunc) (func(*job), string, error) {
		if j.mediaPath == "" {
			return nil, "", errors.New("original video file is missing")
		}

		if err := step(20, "Parsing the AI script..."); err != nil {
			return nil, "", err
		}
		effects := ParseEffects(aiScript)

		if err := step(60, fmt.Sprintf("Applying %d effects...", len(effects))); err != nil {
			return nil, "", err
		}

		out := filepath.Join(j.dir, finalVideoFile)
		if err := copyFile(j.mediaPath, out); err != nil {
			return nil, "", err
		}

		return func(j *job) { j.finalVideo = out }, fmt.Sprintf("Final video generated with %d effects.", len(effects)), nil
	}
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func copyFile(src, dst string) error {
	//nolint:gosec // Both paths live under the media directory
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source video: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	//nolint:gosec // Both paths live under the media directory
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create final video: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to write final video: %w", err)
	}
	return out.Close()
}
