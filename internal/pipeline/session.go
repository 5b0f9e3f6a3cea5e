package pipeline

// StatusLine is the single global status text.
type StatusLine struct {
	Text    string
	IsError bool
	Kind    ErrorKind
}

// ProgressSet holds one indicator per polled tag.
type ProgressSet struct {
	items [3]ProgressIndicator
}

func tagIndex(tag StageTag) int {
	switch tag {
	case TagAIScriptGen:
		return 1
	case TagVideoGen:
		return 2
	default:
		return 0
	}
}

// For returns a mutable indicator for tag.
func (ps *ProgressSet) For(tag StageTag) *ProgressIndicator {
	return &ps.items[tagIndex(tag)]
}

// Get returns a copy of the indicator for tag.
func (ps ProgressSet) Get(tag StageTag) ProgressIndicator {
	return ps.items[tagIndex(tag)]
}

// Session is everything the user can see. Render functions are projections
// of a Session; the workflow coordinator is the only writer. Session is a
// plain value: copies never share state and == compares visible state.
type Session struct {
	Gates          Gates
	Progress       ProgressSet
	MediaPath      string
	OriginalScript string
	Settings       AISettings
	AIScript       string
	DownloadURL    string
	Status         StatusLine
}

// NewSession returns the state of a freshly loaded client.
func NewSession() Session {
	return Session{
		Gates:    NewGates(),
		Settings: DefaultAISettings(),
	}
}

// SetInfo replaces the status line with an informational message.
func (s *Session) SetInfo(text string) {
	s.Status = StatusLine{Text: text}
}

// SetError replaces the status line with an error message.
func (s *Session) SetError(kind ErrorKind, text string) {
	s.Status = StatusLine{Text: text, IsError: true, Kind: kind}
}
