package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alkime/scriptcut/internal/backend"
	"github.com/alkime/scriptcut/internal/pipeline"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultPollInterval is the fixed delay between status requests.
const DefaultPollInterval = 2000 * time.Millisecond

// PollErrorText is surfaced when a status request fails outright.
const PollErrorText = "Failed to get job status, please start over."

// ErrPollerBusy is returned when arming a poller that is still armed for
// another job.
var ErrPollerBusy = errors.New("status poller already armed for another job")

// Scheduler delivers fn's message after d. tea.Tick satisfies it.
type Scheduler func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// StatusFetcher issues one status request.
type StatusFetcher func(ctx context.Context, jobID string) (backend.StatusResponse, error)

type pollerState int

const (
	pollerIdle pollerState = iota
	pollerArmed
)

// StatusPoller polls one job for one stage until a terminal status, then
// disarms itself. There is no backoff and no attempt limit: a job that never
// leaves pending is polled forever.
//
// Every tick and result carries the arm sequence it was issued under; once
// the poller is disarmed or re-armed those messages are dropped, so a
// terminal event is produced at most once per arm.
type StatusPoller struct {
	fetch    StatusFetcher
	schedule Scheduler
	logger   *slog.Logger

	state    pollerState
	jobID    string
	tag      pipeline.StageTag
	interval time.Duration
	seq      uint64
	cancel   context.CancelFunc
	ctx      context.Context
	requests int
}

// NewStatusPoller creates an idle poller. A nil scheduler means tea.Tick.
func NewStatusPoller(fetch StatusFetcher, schedule Scheduler, logger *slog.Logger) *StatusPoller {
	if schedule == nil {
		schedule = tea.Tick
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusPoller{
		fetch:    fetch,
		schedule: schedule,
		logger:   logger,
	}
}

// Arm starts polling jobID for tag. The first request goes out one interval
// after arming.
func (p *StatusPoller) Arm(jobID string, tag pipeline.StageTag, interval time.Duration) (tea.Cmd, error) {
	if p.state == pollerArmed && p.jobID != jobID {
		return nil, ErrPollerBusy
	}
	p.stop()

	if interval <= 0 {
		interval = DefaultPollInterval
	}

	p.seq++
	p.state = pollerArmed
	p.jobID = jobID
	p.tag = tag
	p.interval = interval
	p.ctx, p.cancel = context.WithCancel(context.Background())

	p.logger.Debug("status poller armed", "video_id", jobID, "stage", tag, "interval", interval)

	return p.tickCmd(p.seq), nil
}

// Disarm stops polling. In-flight requests are cancelled and their results
// ignored. Safe to call when idle.
func (p *StatusPoller) Disarm() {
	if p.state == pollerArmed {
		p.logger.Debug("status poller disarmed", "video_id", p.jobID, "stage", p.tag)
	}
	p.stop()
	p.seq++
	p.state = pollerIdle
	p.jobID = ""
	p.tag = ""
}

// Armed reports whether the poller is polling.
func (p *StatusPoller) Armed() bool { return p.state == pollerArmed }

// JobID returns the job being polled, empty when idle.
func (p *StatusPoller) JobID() string { return p.jobID }

// Tag returns the stage tag being polled, empty when idle.
func (p *StatusPoller) Tag() pipeline.StageTag { return p.tag }

// Requests returns how many status requests have been issued in total.
func (p *StatusPoller) Requests() int { return p.requests }

// Update handles the poller's own tick and result messages. It returns the
// resulting poll event, if any, for the caller to handle right away, and the
// command that continues polling.
func (p *StatusPoller) Update(msg tea.Msg) (tea.Msg, tea.Cmd) {
	switch msg := msg.(type) {
	case pollTickMsg:
		if !p.current(msg.seq) {
			return nil, nil
		}
		return nil, tea.Batch(p.fetchCmd(msg.seq), p.tickCmd(msg.seq))

	case pollResultMsg:
		if !p.current(msg.seq) {
			return nil, nil
		}
		return p.observe(msg), nil
	}

	return nil, nil
}

func (p *StatusPoller) observe(msg pollResultMsg) tea.Msg {
	jobID, tag := p.jobID, p.tag

	if msg.err != nil {
		p.logger.Error("status poll failed", "video_id", jobID, "stage", tag, "error", msg.err)
		p.Disarm()

		return PollFailedMsg{
			JobID:    jobID,
			Tag:      tag,
			Snapshot: pipeline.StatusSnapshot{Status: pipeline.StatusFailed, Error: PollErrorText},
			Kind:     pipeline.KindTransport,
			Err:      msg.err,
		}
	}

	snap := snapshotFromResponse(msg.resp)

	switch snap.Status {
	case pipeline.StatusCompleted:
		p.Disarm()
		return PollCompletedMsg{JobID: jobID, Tag: tag, Snapshot: snap}
	case pipeline.StatusFailed:
		p.Disarm()
		return PollFailedMsg{JobID: jobID, Tag: tag, Snapshot: snap, Kind: pipeline.KindJobFailure}
	default:
		return PollPendingMsg{JobID: jobID, Tag: tag, Snapshot: snap}
	}
}

func (p *StatusPoller) current(seq uint64) bool {
	return p.state == pollerArmed && seq == p.seq
}

func (p *StatusPoller) stop() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *StatusPoller) tickCmd(seq uint64) tea.Cmd {
	return p.schedule(p.interval, func(time.Time) tea.Msg {
		return pollTickMsg{seq: seq}
	})
}

func (p *StatusPoller) fetchCmd(seq uint64) tea.Cmd {
	p.requests++
	ctx, jobID, fetch := p.ctx, p.jobID, p.fetch

	return func() tea.Msg {
		resp, err := fetch(ctx, jobID)
		return pollResultMsg{seq: seq, resp: resp, err: err}
	}
}

func snapshotFromResponse(resp backend.StatusResponse) pipeline.StatusSnapshot {
	return pipeline.StatusSnapshot{
		Status:          pipeline.Status(resp.Status),
		Progress:        pipeline.Clamp(resp.Progress, 0, 100),
		Message:         resp.Message,
		ScriptContent:   resp.ScriptContent,
		AIScriptContent: resp.AIScriptContent,
		Error:           resp.Error,
	}
}
