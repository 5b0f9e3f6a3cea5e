package devbackend

import (
	"sync"

	"github.com/alkime/scriptcut/internal/backend"
	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/google/uuid"
)

// NotFoundStatus is reported for ids the store has never seen.
const NotFoundStatus = "not_found"

// job is one uploaded video moving through the stages.
type job struct {
	id        string
	dir       string
	mediaPath string
	fields    map[string]string

	stage    pipeline.StageTag
	status   pipeline.Status
	progress int
	message  string
	err      string

	script      string
	aiScript    string
	finalVideo  string
	scriptPath  string
}

// jobStore holds every job in memory. Jobs are never evicted; the dev
// backend is restarted instead.
type jobStore struct {
	mu   sync.Mutex
	jobs map[string]*job
}

func newJobStore() *jobStore {
	return &jobStore{jobs: map[string]*job{}}
}

func (s *jobStore) create(dir func(id string) string) *job {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	j := &job{
		id:      id,
		dir:     dir(id),
		stage:   pipeline.TagTranscribe,
		status:  pipeline.StatusPending,
		message: "Queued...",
	}
	s.jobs[id] = j

	return j
}

func (s *jobStore) exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[id]
	return ok
}

// view returns a copy of the job safe to read without the lock.
func (s *jobStore) view(id string) (job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return job{}, false
	}
	return *j, true
}

// update applies fn to the job under the lock.
func (s *jobStore) update(id string, fn func(j *job)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return false
	}
	fn(j)
	return true
}

// status renders the status endpoint body. Stage payloads are only included
// once that stage has completed.
func (s *jobStore) status(id string) backend.StatusResponse {
	j, ok := s.view(id)
	if !ok {
		return backend.StatusResponse{
			Status:   NotFoundStatus,
			Progress: 0,
			Message:  "Video ID not found or expired.",
			Stage:    "unknown",
		}
	}

	resp := backend.StatusResponse{
		Status:   string(j.status),
		Progress: j.progress,
		Message:  j.message,
		Stage:    string(j.stage),
		Error:    j.err,
	}
	if j.status == pipeline.StatusCompleted {
		switch j.stage {
		case pipeline.TagTranscribe:
			resp.ScriptContent = j.script
		case pipeline.TagAIScriptGen:
			resp.AIScriptContent = j.aiScript
		}
	}

	return resp
}
