package backend

// UploadRequest is the multipart body of POST /upload_and_transcribe.
type UploadRequest struct {
	// FilePath is sent as the videoFile part.
	FilePath string
	// Fields are extra upload-time form settings.
	Fields map[string]string
}

// UploadResponse is the 2xx body of an upload.
type UploadResponse struct {
	VideoID string `json:"video_id"`
	Message string `json:"message,omitempty"`
}

// AIScriptRequest is the JSON body of POST /generate_ai_script.
type AIScriptRequest struct {
	VideoID        string `json:"video_id"`
	OriginalScript string `json:"original_script"`
	Theme          string `json:"theme"`
	TargetAudience string `json:"target_audience"`
	VideoPurpose   string `json:"video_purpose"`
	APIURL         string `json:"api_url"`
	APIMethod      string `json:"api_method"`
	APIKey         string `json:"api_key"`
	LLMProvider    string `json:"llm_provider"`
}

// FinalVideoRequest is the JSON body of POST /generate_final_video.
type FinalVideoRequest struct {
	VideoID  string `json:"video_id"`
	AIScript string `json:"ai_script"`
}

// SubmitResponse is the 2xx body of the AI script and final video submissions.
type SubmitResponse struct {
	VideoID string `json:"video_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatusResponse is the body of GET /status_api/{video_id}.
type StatusResponse struct {
	Status          string `json:"status"`
	Progress        int    `json:"progress"`
	Message         string `json:"message"`
	Stage           string `json:"stage,omitempty"`
	ScriptContent   string `json:"script_content,omitempty"`
	AIScriptContent string `json:"ai_script_content,omitempty"`
	Error           string `json:"error,omitempty"`
}

// errorBody is the non-2xx body of every submission endpoint.
type errorBody struct {
	Message string `json:"message"`
}
