package pipeline

// Status is the backend-reported state of the current job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether polling stops at this status. Anything the
// backend sends besides completed and failed (processing, not_found, ...)
// counts as still pending.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// StatusSnapshot is one poll result. Snapshots are never merged; each one
// replaces the progress display of its stage.
type StatusSnapshot struct {
	Status          Status
	Progress        int
	Message         string
	ScriptContent   string
	AIScriptContent string
	Error           string
}

const (
	// NoScriptContent fills the script box when a completed transcription carries no text.
	NoScriptContent = "No script content received."
	// NoAIScriptContent fills the AI script box when generation completed without content.
	NoAIScriptContent = "AI script generation returned no content."
	// UnknownJobError is surfaced when a failed job carries no error text.
	UnknownJobError = "unknown error"
)

// Payload returns the stage-specific text carried by a completed snapshot,
// falling back to a placeholder when the backend sent none.
func (s StatusSnapshot) Payload(tag StageTag) string {
	switch tag {
	case TagTranscribe:
		if s.ScriptContent == "" {
			return NoScriptContent
		}
		return s.ScriptContent
	case TagAIScriptGen:
		if s.AIScriptContent == "" {
			return NoAIScriptContent
		}
		return s.AIScriptContent
	default:
		return ""
	}
}

// FailureText returns the error to show for a failed snapshot.
func (s StatusSnapshot) FailureText() string {
	if s.Error != "" {
		return s.Error
	}
	return UnknownJobError
}
