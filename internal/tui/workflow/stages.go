package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alkime/scriptcut/internal/backend"
	"github.com/alkime/scriptcut/internal/pipeline"
	tea "github.com/charmbracelet/bubbletea"
)

// NetworkErrorText is surfaced when a submission never got a response.
const NetworkErrorText = "Network or server error."

// stageInput is what the user supplied for a submission.
type stageInput struct {
	mediaPath    string
	uploadFields map[string]string
	settings     pipeline.AISettings
	aiScript     string
}

// stageController holds the per-stage behaviour: texts, preconditions, the
// initiating request and how a completed snapshot feeds the next section.
type stageController struct {
	stage pipeline.Stage

	submittingText string
	acceptedText   string
	completedText  string
	rejectedText   string
	// needsJobText is shown when the stage is attempted without a job identity.
	needsJobText string

	validate func(in stageInput) error
	send     func(ctx context.Context, b Backend, s pipeline.Session, jobID string, in stageInput) (string, error)
	apply    func(s *pipeline.Session, snap pipeline.StatusSnapshot, downloadURL string)
}

type validationError struct {
	text string
}

func (e *validationError) Error() string { return e.text }

func newControllers() map[pipeline.Stage]*stageController {
	return map[pipeline.Stage]*stageController{
		pipeline.StageUpload:        uploadController(),
		pipeline.StageScriptConfirm: scriptConfirmController(),
		pipeline.StageAIScriptGen:   aiScriptController(),
		pipeline.StageEffectsApply:  effectsController(),
	}
}

func uploadController() *stageController {
	return &stageController{
		stage:          pipeline.StageUpload,
		submittingText: "Uploading video and transcribing...",
		acceptedText:   "Video uploaded, transcription running in the background...",
		completedText:  "Transcription complete, please confirm the original script.",
		rejectedText:   "Upload failed",
		validate: func(in stageInput) error {
			path := strings.TrimSpace(in.mediaPath)
			if path == "" {
				return &validationError{text: "Please choose a video file first."}
			}
			info, err := os.Stat(path)
			if err != nil {
				return &validationError{text: fmt.Sprintf("Cannot read %s.", path)}
			}
			if info.IsDir() {
				return &validationError{text: fmt.Sprintf("%s is a directory, not a video file.", path)}
			}
			return nil
		},
		send: func(ctx context.Context, b Backend, _ pipeline.Session, _ string, in stageInput) (string, error) {
			return b.UploadAndTranscribe(ctx, backend.UploadRequest{
				FilePath: strings.TrimSpace(in.mediaPath),
				Fields:   in.uploadFields,
			})
		},
		apply: func(s *pipeline.Session, snap pipeline.StatusSnapshot, _ string) {
			s.OriginalScript = snap.Payload(pipeline.TagTranscribe)
		},
	}
}

// scriptConfirmController has no backend call; confirming the script is a
// local transition.
func scriptConfirmController() *stageController {
	return &stageController{
		stage:         pipeline.StageScriptConfirm,
		completedText: "Please configure the AI generation settings.",
	}
}

func aiScriptController() *stageController {
	return &stageController{
		stage:          pipeline.StageAIScriptGen,
		submittingText: "Generating AI script...",
		acceptedText:   "AI script generation in progress...",
		completedText:  "AI script generated, please review it.",
		rejectedText:   "AI script generation failed",
		needsJobText:   "Please upload a video first.",
		send: func(ctx context.Context, b Backend, s pipeline.Session, jobID string, in stageInput) (string, error) {
			_, err := b.GenerateAIScript(ctx, backend.AIScriptRequest{
				VideoID:        jobID,
				OriginalScript: s.OriginalScript,
				Theme:          in.settings.Theme,
				TargetAudience: in.settings.TargetAudience,
				VideoPurpose:   in.settings.VideoPurpose,
				APIURL:         in.settings.LLM.URL,
				APIMethod:      in.settings.LLM.Method,
				APIKey:         in.settings.LLM.APIKey,
				LLMProvider:    string(in.settings.LLM.Provider),
			})
			return jobID, err
		},
		apply: func(s *pipeline.Session, snap pipeline.StatusSnapshot, _ string) {
			s.AIScript = snap.Payload(pipeline.TagAIScriptGen)
		},
	}
}

func effectsController() *stageController {
	return &stageController{
		stage:          pipeline.StageEffectsApply,
		submittingText: "Applying effects and generating the final video...",
		acceptedText:   "Final video generation in progress...",
		completedText:  "Final video generated!",
		rejectedText:   "Final video generation failed",
		needsJobText:   "Please upload a video and generate an AI script first.",
		send: func(ctx context.Context, b Backend, _ pipeline.Session, jobID string, in stageInput) (string, error) {
			_, err := b.GenerateFinalVideo(ctx, backend.FinalVideoRequest{
				VideoID:  jobID,
				AIScript: in.aiScript,
			})
			return jobID, err
		},
		apply: func(s *pipeline.Session, _ pipeline.StatusSnapshot, downloadURL string) {
			s.DownloadURL = downloadURL
		},
	}
}

// submitCmd issues the stage's single initiating request.
func (sc *stageController) submitCmd(
	ctx context.Context,
	b Backend,
	s pipeline.Session,
	jobID string,
	in stageInput,
	epoch uint64,
) tea.Cmd {
	stage, send := sc.stage, sc.send

	return func() tea.Msg {
		id, err := send(ctx, b, s, jobID, in)
		if err != nil {
			return SubmitErrMsg{Stage: stage, Err: err, epoch: epoch}
		}
		return SubmitOKMsg{Stage: stage, JobID: id, epoch: epoch}
	}
}

// classify turns a submission error into the kind and text shown to the user.
func (sc *stageController) classify(err error) (pipeline.ErrorKind, string) {
	var transportErr *backend.TransportError
	if errors.As(err, &transportErr) {
		return pipeline.KindTransport, NetworkErrorText
	}
	if reqErr, ok := backend.AsRequestError(err); ok {
		if reqErr.Message != "" {
			return pipeline.KindRequest, reqErr.Message
		}
		return pipeline.KindRequest, sc.rejectedText
	}
	return pipeline.KindTransport, NetworkErrorText
}
