package model

type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error     APIError `json:"error"`
	RequestID string   `json:"request_id,omitempty"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

type ReadyResponse struct {
	OK          bool              `json:"ok"`
	ServiceName string            `json:"service_name,omitempty"`
	Checks      map[string]string `json:"checks,omitempty"`
}

type InfoResponse struct {
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	ChatEnabled bool              `json:"chat_enabled"`
	Upstreams   map[string]string `json:"upstreams"`
}

type TranscriptionAnalysis struct {
	WordCount  int     `json:"word_count"`
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

type TranscriptionResponse struct {
	Text     string                 `json:"text"`
	Analysis *TranscriptionAnalysis `json:"analysis,omitempty"`
}

type SpeechRequest struct {
	Text string `json:"text"`
}

type ChatRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
}

type ChatResponse struct {
	Reply      string `json:"reply"`
	PromptKind string `json:"prompt_kind"`
	SessionID  string `json:"session_id,omitempty"`
	Attempts   int    `json:"attempts"`
}

type SessionCreatedResponse struct {
	SessionID string `json:"session_id"`
}

type SessionExchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

type SessionResponse struct {
	SessionID string            `json:"session_id"`
	Exchanges []SessionExchange `json:"exchanges"`
}

type PipelineTimings struct {
	Transcription int64 `json:"transcription"`
	Chat          int64 `json:"chat"`
	Synthesis     int64 `json:"synthesis"`
	Total         int64 `json:"total"`
}

type PipelineProcessResponse struct {
	Transcript  string                 `json:"transcript"`
	Analysis    *TranscriptionAnalysis `json:"analysis,omitempty"`
	Reply       string                 `json:"reply,omitempty"`
	PromptKind  string                 `json:"prompt_kind,omitempty"`
	ChatStatus  string                 `json:"chat_status"`
	Degraded    bool                   `json:"degraded"`
	SessionID   string                 `json:"session_id,omitempty"`
	AudioBase64 string                 `json:"audio_base64,omitempty"`
	TimingsMS   PipelineTimings        `json:"timings_ms"`
}

type NoteCreateRequest struct {
	Title         string `json:"title"`
	Transcription string `json:"transcription"`
	Summary       string `json:"summary,omitempty"`
	Notebook      string `json:"notebook,omitempty"`
	Section       string `json:"section,omitempty"`
}

type NoteResponse struct {
	Path     string `json:"path"`
	Notebook string `json:"notebook"`
	Section  string `json:"section"`
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`
}

type NoteSearchResult struct {
	Path     string `json:"path"`
	Notebook string `json:"notebook"`
	Section  string `json:"section"`
	FileName string `json:"filename"`
	Modified string `json:"modified"`
}

type NoteSearchResponse struct {
	Results []NoteSearchResult `json:"results"`
}

type NotebookInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Created   string `json:"created"`
	NoteCount int    `json:"note_count"`
	Path      string `json:"path"`
}

type NotebookListResponse struct {
	Notebooks []NotebookInfo `json:"notebooks"`
}

type NoteStatsResponse struct {
	TotalNotebooks int     `json:"total_notebooks"`
	TotalNotes     int     `json:"total_notes"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	TotalSizeMB    float64 `json:"total_size_mb"`
	BaseDirectory  string  `json:"base_directory"`
}

type AutoNoteResponse struct {
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
	Title      string `json:"title"`
	NotePath   string `json:"note_path"`
}
