// Package pipeline holds the client-side model of a processing run: stages,
// status snapshots, section gates and progress indicators.
//
// Nothing in this package performs I/O. The workflow package drives it and the
// TUI renders it.
package pipeline

// Stage is one phase of the pipeline as seen by the user.
type Stage int

const (
	// StageUpload uploads the media file and starts transcription.
	StageUpload Stage = iota
	// StageScriptConfirm is the local confirmation of the transcribed script.
	StageScriptConfirm
	// StageAIScriptGen asks the backend to generate an AI script.
	StageAIScriptGen
	// StageEffectsApply asks the backend to apply effects and render the final video.
	StageEffectsApply
)

// AllStages returns the submitting stages in pipeline order.
func AllStages() []Stage {
	return []Stage{StageUpload, StageScriptConfirm, StageAIScriptGen, StageEffectsApply}
}

func (s Stage) String() string {
	switch s {
	case StageUpload:
		return "upload"
	case StageScriptConfirm:
		return "script_confirm"
	case StageAIScriptGen:
		return "ai_script_gen"
	case StageEffectsApply:
		return "effects_apply"
	default:
		return "unknown"
	}
}

// Section returns the UI region the stage is submitted from.
func (s Stage) Section() Section {
	switch s {
	case StageUpload:
		return SectionUpload
	case StageScriptConfirm:
		return SectionScript
	case StageAIScriptGen:
		return SectionAISettings
	default:
		return SectionAIPreview
	}
}

// NextSection returns the UI region unlocked when the stage completes.
func (s Stage) NextSection() Section {
	return s.Section() + 1
}

// Tag returns the status tag polled for the stage. ScriptConfirm has no
// backend job, so ok is false for it.
func (s Stage) Tag() (tag StageTag, ok bool) {
	switch s {
	case StageUpload:
		return TagTranscribe, true
	case StageAIScriptGen:
		return TagAIScriptGen, true
	case StageEffectsApply:
		return TagVideoGen, true
	default:
		return "", false
	}
}

// StageTag identifies which backend job a poll result belongs to.
type StageTag string

const (
	TagTranscribe  StageTag = "transcribe"
	TagAIScriptGen StageTag = "ai_script_gen"
	TagVideoGen    StageTag = "video_gen"
)

// AllTags returns every polled tag in pipeline order.
func AllTags() []StageTag {
	return []StageTag{TagTranscribe, TagAIScriptGen, TagVideoGen}
}

// Stage maps a tag back to the stage that armed it.
func (t StageTag) Stage() Stage {
	switch t {
	case TagAIScriptGen:
		return StageAIScriptGen
	case TagVideoGen:
		return StageEffectsApply
	default:
		return StageUpload
	}
}
