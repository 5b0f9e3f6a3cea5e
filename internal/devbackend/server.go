// Package devbackend is a local implementation of the media-processing API
// the terminal client drives. Stages run in the background and are observed
// through the status endpoint.
package devbackend

import (
	"log/slog"
	"path/filepath"

	"github.com/alkime/scriptcut/internal/config"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	logger      *slog.Logger
	router      *gin.Engine
	jobs        *jobStore
	runner      *runner
	transcriber Transcriber
	generator   Generator
}

// Option customizes the server.
type Option func(*Server)

// WithTranscriber replaces the transcription backend.
func WithTranscriber(t Transcriber) Option {
	return func(s *Server) { s.transcriber = t }
}

// WithGenerator replaces the LLM dispatcher.
func WithGenerator(g Generator) Option {
	return func(s *Server) { s.generator = g }
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Server {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	jobs := newJobStore()
	s := &Server{
		config: cfg,
		logger: logger,
		router: router,
		jobs:   jobs,
		runner: newRunner(jobs, logger, cfg.StepDelay),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.transcriber == nil {
		if cfg.OpenAIAPIKey != "" {
			s.transcriber = NewWhisperTranscriber(cfg.OpenAIAPIKey)
		} else {
			logger.Warn("OPENAI_API_KEY not set, uploads get a placeholder transcript")
			s.transcriber = PlaceholderTranscriber{}
		}
	}
	if s.generator == nil {
		s.generator = NewDispatcher(WithDispatcherLogger(logger))
	}

	setupSecurityMiddleware(router, cfg, logger)
	s.setupRoutes()

	return s
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close stops running stages and waits for them.
func (s *Server) Close() {
	s.runner.close()
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port, "media_dir", s.config.MediaDir)
	return s.router.Run(":" + s.config.Port)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	s.router.POST("/upload_and_transcribe", s.handleUpload)
	s.router.POST("/generate_ai_script", s.handleAIScript)
	s.router.POST("/generate_final_video", s.handleFinalVideo)
	s.router.GET("/status_api/:video_id", s.handleStatus)
	s.router.GET("/download_video/:video_id", s.handleDownloadVideo)
	s.router.GET("/download_script/:video_id", s.handleDownloadScript)

	// Registered after the routes so it only sees unmatched paths.
	if s.config.PublicDir != "" {
		s.router.Use(static.Serve("/", static.LocalFile(s.config.PublicDir, false)))
	}
}

func (s *Server) uploadDir() string {
	return filepath.Join(s.config.MediaDir, "uploads")
}

func (s *Server) jobDir(id string) string {
	return filepath.Join(s.config.MediaDir, "processed", id)
}
