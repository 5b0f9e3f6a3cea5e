package devbackend

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/alkime/scriptcut/internal/backend"
	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/gin-gonic/gin"
)

// uploadField is the multipart part holding the media file.
const uploadField = "videoFile"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "scriptcut-devbackend",
	})
}

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile(uploadField)
	if err != nil || file.Filename == "" {
		fail(c, http.StatusBadRequest, "No video file was uploaded")
		return
	}

	fields := map[string]string{}
	if form := c.Request.MultipartForm; form != nil {
		for key, values := range form.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
	}

	j := s.jobs.create(s.jobDir)

	ext := strings.ToLower(filepath.Ext(file.Filename))
	dst := filepath.Join(s.uploadDir(), j.id+ext)
	if err := os.MkdirAll(s.uploadDir(), 0o750); err != nil {
		s.logger.Error("failed to create upload directory", "error", err)
		fail(c, http.StatusInternalServerError, "Failed to store the upload")
		return
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		s.logger.Error("failed to save upload", "error", err, "video_id", j.id)
		fail(c, http.StatusInternalServerError, "Failed to store the upload")
		return
	}

	s.jobs.update(j.id, func(j *job) {
		j.mediaPath = dst
		j.fields = fields
	})
	s.logger.Info("upload stored", "video_id", j.id, "file", file.Filename, "size", file.Size)

	if err := s.runner.start(j.id, pipeline.TagTranscribe, transcribeStage(s.transcriber)); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":  true,
		"message":  "Video uploaded, transcription started.",
		"video_id": j.id,
	})
}

func (s *Server) handleAIScript(c *gin.Context) {
	var req backend.AIScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var provider pipeline.Provider
	if req.LLMProvider != "" {
		p, err := pipeline.ParseProvider(strings.ToLower(req.LLMProvider))
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		provider = p
	}
	if req.APIURL == "" {
		req.APIURL = provider.DefaultURL()
	}
	if req.VideoID == "" || req.APIURL == "" {
		fail(c, http.StatusBadRequest, "Missing video_id or LLM API URL")
		return
	}

	j, ok := s.jobs.view(req.VideoID)
	if !ok {
		fail(c, http.StatusNotFound, "Unknown video_id")
		return
	}

	original := req.OriginalScript
	if original == "" {
		original = j.script
	}

	llm := LLMRequest{
		Provider: ResolveProvider(provider, req.APIURL),
		URL:      req.APIURL,
		Method:   req.APIMethod,
		APIKey:   req.APIKey,
		Prompt:   BuildPrompt(original, req.Theme, req.TargetAudience, req.VideoPurpose),
	}

	work := aiScriptStage(s.generator, llm, original, req.Theme)
	if !s.startStage(c, req.VideoID, pipeline.TagAIScriptGen, work) {
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":  true,
		"message":  "AI script generation started.",
		"video_id": req.VideoID,
	})
}

func (s *Server) handleFinalVideo(c *gin.Context) {
	var req backend.FinalVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.VideoID == "" || strings.TrimSpace(req.AIScript) == "" {
		fail(c, http.StatusBadRequest, "Missing video_id or ai_script")
		return
	}
	if !s.jobs.exists(req.VideoID) {
		fail(c, http.StatusNotFound, "Unknown video_id")
		return
	}

	if !s.startStage(c, req.VideoID, pipeline.TagVideoGen, videoGenStage(req.AIScript)) {
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":  true,
		"message":  "Final video generation started.",
		"video_id": req.VideoID,
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.jobs.status(c.Param("video_id")))
}

func (s *Server) handleDownloadVideo(c *gin.Context) {
	j, ok := s.jobs.view(c.Param("video_id"))
	if !ok || j.finalVideo == "" {
		fail(c, http.StatusNotFound, "Final video not generated yet or processing failed.")
		return
	}
	c.FileAttachment(j.finalVideo, finalVideoFile)
}

func (s *Server) handleDownloadScript(c *gin.Context) {
	j, ok := s.jobs.view(c.Param("video_id"))
	if !ok || j.scriptPath == "" {
		fail(c, http.StatusNotFound, "Script not available yet.")
		return
	}
	c.FileAttachment(j.scriptPath, scriptFile)
}

// startStage starts work and writes the error response when it can't.
func (s *Server) startStage(c *gin.Context, id string, tag pipeline.StageTag, work stageWork) bool {
	err := s.runner.start(id, tag, work)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrStageBusy):
		fail(c, http.StatusConflict, err.Error())
	default:
		fail(c, http.StatusNotFound, err.Error())
	}
	return false
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}
