package pipeline

// ErrorKind classifies user-visible failures.
type ErrorKind int

const (
	// KindValidation is a missing precondition. No request is sent and nothing resets.
	KindValidation ErrorKind = iota + 1
	// KindRequest is a non-2xx response to a stage submission.
	KindRequest
	// KindTransport is a network or decoding failure on submit or poll.
	KindTransport
	// KindJobFailure is a job the backend reported as failed.
	KindJobFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRequest:
		return "request"
	case KindTransport:
		return "transport"
	case KindJobFailure:
		return "job_failure"
	default:
		return "none"
	}
}

// ResetsWorkflow reports whether the failure restarts the workflow from Upload.
func (k ErrorKind) ResetsWorkflow() bool {
	return k == KindRequest || k == KindTransport || k == KindJobFailure
}
