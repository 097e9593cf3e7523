package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"voicepipe/internal/config"
	"voicepipe/internal/model"
	"voicepipe/internal/notes"
	"voicepipe/internal/pipeline"
	"voicepipe/internal/relay"
	"voicepipe/internal/session"
	"voicepipe/internal/speech"
	"voicepipe/internal/summarize"
	"voicepipe/internal/transcription"
	"voicepipe/internal/upstream/coqui"
	"voicepipe/internal/upstream/copilot"
	"voicepipe/internal/upstream/whisper"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	serviceName    = "VoicePipe"
	serviceVersion = "1.0.0"
)

type TranscriptionService interface {
	Transcribe(ctx context.Context, file io.Reader, fileName string) (string, error)
}

type SpeechService interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type ChatService interface {
	Respond(ctx context.Context, sessionID, text string) (relay.Reply, error)
	Enabled() bool
}

type PipelineService interface {
	Process(ctx context.Context, in pipeline.ProcessInput) (pipeline.ProcessResult, error)
	AutoNote(ctx context.Context, in pipeline.AutoNoteInput) (pipeline.AutoNoteResult, error)
}

type SessionRegistry interface {
	Create() string
	Get(id string) ([]session.Exchange, bool)
	Clear(id string)
}

type NoteStore interface {
	CreateNote(in notes.Input) (string, error)
	Search(query string) ([]notes.SearchResult, error)
	Stats() (notes.Stats, error)
	ListNotebooks() []notes.Notebook
}

type ASRUpstream interface {
	Health(ctx context.Context) error
	Info(ctx context.Context) (whisper.Info, error)
}

type TTSUpstream interface {
	Health(ctx context.Context) error
	Info(ctx context.Context) (coqui.Info, error)
}

type MetricsObserver interface {
	ObserveHTTP(route, method string, status int, duration time.Duration)
}

type Dependencies struct {
	Transcription  TranscriptionService
	Speech         SpeechService
	Chat           ChatService
	Pipeline       PipelineService
	Sessions       SessionRegistry
	Notes          NoteStore
	ASR            ASRUpstream
	TTS            TTSUpstream
	Metrics        MetricsObserver
	MetricsHandler http.Handler
}

type server struct {
	cfg          config.Config
	logger       *slog.Logger
	transcriber  TranscriptionService
	speech       SpeechService
	chat         ChatService
	pipeline     PipelineService
	sessions     SessionRegistry
	notes        NoteStore
	asr          ASRUpstream
	tts          TTSUpstream
	metrics      MetricsObserver
	metricsRoute http.Handler
}

type ctxKey string

const (
	requestIDHeader  = "X-Request-Id"
	requestIDContext = ctxKey("request_id")
	maxJSONBodyBytes = 1 << 20
)

func NewServer(cfg config.Config, logger *slog.Logger, deps Dependencies) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Transcription == nil || deps.Speech == nil || deps.Chat == nil || deps.Pipeline == nil ||
		deps.Sessions == nil || deps.Notes == nil || deps.ASR == nil || deps.TTS == nil {
		panic("httpapi: all dependencies are required")
	}

	s := &server{
		cfg:          cfg,
		logger:       logger,
		transcriber:  deps.Transcription,
		speech:       deps.Speech,
		chat:         deps.Chat,
		pipeline:     deps.Pipeline,
		sessions:     deps.Sessions,
		notes:        deps.Notes,
		asr:          deps.ASR,
		tts:          deps.TTS,
		metrics:      deps.Metrics,
		metricsRoute: deps.MetricsHandler,
	}

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, "not_found", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
	})

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	if s.metricsRoute != nil {
		r.Handle("/metrics", s.metricsRoute)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/info", s.handleInfo)
		r.Post("/transcriptions", s.handleTranscriptions)
		r.Post("/speech", s.handleSpeech)
		r.Post("/chat", s.handleChat)
		r.Post("/sessions", s.handleSessionCreate)
		r.Get("/sessions/{id}", s.handleSessionGet)
		r.Delete("/sessions/{id}", s.handleSessionDelete)
		r.Post("/pipeline/process", s.handlePipelineProcess)
		r.Post("/notes", s.handleNoteCreate)
		r.Get("/notes", s.handleNoteSearch)
		r.Get("/notes/stats", s.handleNoteStats)
		r.Get("/notebooks", s.handleNotebookList)
		r.Post("/auto-note", s.handleAutoNote)
	})

	return r
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{OK: true})
}

func (s *server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"asr": s.describeUpstream(ctx, s.asr.Health, func(ctx context.Context) (string, string, error) {
			info, err := s.asr.Info(ctx)
			return info.ModelName, info.Device, err
		}),
		"tts": s.describeUpstream(ctx, s.tts.Health, func(ctx context.Context) (string, string, error) {
			info, err := s.tts.Info(ctx)
			return info.ModelName, info.Device, err
		}),
	}

	for _, status := range checks {
		if !strings.HasPrefix(status, "ok") {
			s.writeError(w, r, http.StatusServiceUnavailable, "not_ready", "upstream check failed", map[string]any{"checks": checks})
			return
		}
	}
	writeJSON(w, http.StatusOK, model.ReadyResponse{OK: true, ServiceName: serviceName, Checks: checks})
}

// describeUpstream turns a health probe into a check string, folding in the
// upstream's model info when it answers.
func (s *server) describeUpstream(ctx context.Context, health func(context.Context) error, info func(context.Context) (string, string, error)) string {
	if err := health(ctx); err != nil {
		return err.Error()
	}
	modelName, device, err := info(ctx)
	if err != nil || modelName == "" {
		return "ok"
	}
	return fmt.Sprintf("ok (model=%s device=%s)", modelName, device)
}

func (s *server) handleInfo(w http.ResponseWriter, r *http.Request) {
	upstreams := map[string]string{
		"asr": s.cfg.ASRBaseURL,
		"tts": s.cfg.TTSBaseURL,
	}
	if s.cfg.CopilotBaseURL != "" {
		upstreams["chat"] = s.cfg.CopilotBaseURL
	}

	writeJSON(w, http.StatusOK, model.InfoResponse{
		Service:     serviceName,
		Version:     serviceVersion,
		ChatEnabled: s.chat.Enabled(),
		Upstreams:   upstreams,
	})
}

func (s *server) handleTranscriptions(w http.ResponseWriter, r *http.Request) {
	file, header, form, err := s.readMultipartAudio(w, r)
	if err != nil {
		s.handleMultipartReadError(w, r, err)
		return
	}
	defer cleanupMultipartForm(form)
	defer func() { _ = file.Close() }()

	text, err := s.transcriber.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	analysis := transcription.Analyze(text)
	writeJSON(w, http.StatusOK, model.TranscriptionResponse{
		Text:     text,
		Analysis: toModelAnalysis(analysis),
	})
}

func (s *server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req model.SpeechRequest
	if !s.decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", "text is required", nil)
		return
	}

	audio, err := s.speech.Synthesize(r.Context(), req.Text)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if !s.decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", "text is required", nil)
		return
	}

	reply, err := s.chat.Respond(r.Context(), strings.TrimSpace(req.SessionID), req.Text)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ChatResponse{
		Reply:      reply.Text,
		PromptKind: string(reply.Kind),
		SessionID:  strings.TrimSpace(req.SessionID),
		Attempts:   reply.Attempts,
	})
}

func (s *server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, model.SessionCreatedResponse{SessionID: s.sessions.Create()})
}

func (s *server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	history, ok := s.sessions.Get(id)
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "session_not_found", "session not found", nil)
		return
	}

	exchanges := make([]model.SessionExchange, 0, len(history))
	for _, exchange := range history {
		exchanges = append(exchanges, model.SessionExchange{
			User:      exchange.User,
			Assistant: exchange.Assistant,
		})
	}
	writeJSON(w, http.StatusOK, model.SessionResponse{SessionID: id, Exchanges: exchanges})
}

func (s *server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handlePipelineProcess(w http.ResponseWriter, r *http.Request) {
	file, header, form, err := s.readMultipartAudio(w, r)
	if err != nil {
		s.handleMultipartReadError(w, r, err)
		return
	}
	defer cleanupMultipartForm(form)
	defer func() { _ = file.Close() }()

	synthesize, err := parseBoolDefault(r.FormValue("synthesize"), true)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", "synthesize must be a boolean", nil)
		return
	}
	sessionID := strings.TrimSpace(r.FormValue("session_id"))

	result, err := s.pipeline.Process(r.Context(), pipeline.ProcessInput{
		File:       file,
		FileName:   header.Filename,
		SessionID:  sessionID,
		Synthesize: synthesize,
	})
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	if result.Degraded {
		s.logger.Warn("chat relay degraded, continuing with transcript",
			"request_id", requestIDFromContext(r.Context()),
			"error", result.ChatFailure,
		)
	}

	writeJSON(w, http.StatusOK, model.PipelineProcessResponse{
		Transcript:  result.Transcript,
		Analysis:    toModelAnalysis(result.Analysis),
		Reply:       result.Reply,
		PromptKind:  string(result.PromptKind),
		ChatStatus:  result.ChatStatus,
		Degraded:    result.Degraded,
		SessionID:   sessionID,
		AudioBase64: base64.StdEncoding.EncodeToString(result.Audio),
		TimingsMS: model.PipelineTimings{
			Transcription: result.Timings.Transcription.Milliseconds(),
			Chat:          result.Timings.Chat.Milliseconds(),
			Synthesis:     result.Timings.Synthesis.Milliseconds(),
			Total:         result.Timings.Total.Milliseconds(),
		},
	})
}

func (s *server) handleNoteCreate(w http.ResponseWriter, r *http.Request) {
	var req model.NoteCreateRequest
	if !s.decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", "title is required", nil)
		return
	}
	if strings.TrimSpace(req.Transcription) == "" {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", "transcription is required", nil)
		return
	}

	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		summary = summarize.Summarize(req.Transcription, s.cfg.SummaryMaxWords)
	}

	path, err := s.notes.CreateNote(notes.Input{
		Title:         req.Title,
		Transcription: req.Transcription,
		Summary:       summary,
		Notebook:      req.Notebook,
		Section:       req.Section,
	})
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	notebook := req.Notebook
	if strings.TrimSpace(notebook) == "" {
		notebook = notes.DefaultNotebook
	}
	section := req.Section
	if strings.TrimSpace(section) == "" {
		section = notes.DefaultSection
	}
	writeJSON(w, http.StatusCreated, model.NoteResponse{
		Path:     path,
		Notebook: notebook,
		Section:  section,
		Title:    req.Title,
		Summary:  summary,
	})
}

func (s *server) handleNoteSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", "query parameter 'q' is required", nil)
		return
	}

	results, err := s.notes.Search(query)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	out := make([]model.NoteSearchResult, 0, len(results))
	for _, result := range results {
		out = append(out, model.NoteSearchResult{
			Path:     result.Path,
			Notebook: result.Notebook,
			Section:  result.Section,
			FileName: result.FileName,
			Modified: result.Modified.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, model.NoteSearchResponse{Results: out})
}

func (s *server) handleNoteStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.notes.Stats()
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NoteStatsResponse{
		TotalNotebooks: stats.TotalNotebooks,
		TotalNotes:     stats.TotalNotes,
		TotalSizeBytes: stats.TotalSizeBytes,
		TotalSizeMB:    stats.TotalSizeMB,
		BaseDirectory:  stats.BaseDirectory,
	})
}

func (s *server) handleNotebookList(w http.ResponseWriter, r *http.Request) {
	notebooks := s.notes.ListNotebooks()
	out := make([]model.NotebookInfo, 0, len(notebooks))
	for _, notebook := range notebooks {
		out = append(out, model.NotebookInfo{
			ID:        notebook.ID,
			Name:      notebook.Name,
			Created:   notebook.Created,
			NoteCount: notebook.NoteCount,
			Path:      notebook.Path,
		})
	}
	writeJSON(w, http.StatusOK, model.NotebookListResponse{Notebooks: out})
}

func (s *server) handleAutoNote(w http.ResponseWriter, r *http.Request) {
	file, header, form, err := s.readMultipartAudio(w, r)
	if err != nil {
		s.handleMultipartReadError(w, r, err)
		return
	}
	defer cleanupMultipartForm(form)
	defer func() { _ = file.Close() }()

	result, err := s.pipeline.AutoNote(r.Context(), pipeline.AutoNoteInput{
		File:     file,
		FileName: header.Filename,
		Title:    r.FormValue("title"),
		Notebook: r.FormValue("notebook"),
		Section:  r.FormValue("section"),
	})
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.AutoNoteResponse{
		Transcript: result.Transcript,
		Summary:    result.Summary,
		Title:      result.Title,
		NotePath:   result.NotePath,
	})
}

func (s *server) decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	defer func() { _ = r.Body.Close() }()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		s.handleJSONDecodeError(w, r, err)
		return false
	}
	if err := ensureBodyFullyConsumed(decoder); err != nil {
		s.handleJSONDecodeError(w, r, err)
		return false
	}
	return true
}

func (s *server) readMultipartAudio(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, *multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(minInt64(s.cfg.MaxUploadBytes, 8<<20)); err != nil {
		return nil, nil, nil, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, r.MultipartForm, err
	}
	return file, header, r.MultipartForm, nil
}

func (s *server) handleMultipartReadError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, "request_too_large", fmt.Sprintf("request exceeds %d bytes", s.cfg.MaxUploadBytes), nil)
		return
	}
	if strings.Contains(strings.ToLower(err.Error()), "no such file") || strings.Contains(strings.ToLower(err.Error()), "missing") {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", "multipart field 'file' is required", nil)
		return
	}
	s.writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid multipart form data", nil)
}

func (s *server) handleJSONDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, "request_too_large", "JSON body too large", nil)
		return
	}
	s.writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
}

func (s *server) writeMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := "request failed"
	details := detailsForError(err)

	var relayFailure *relay.Failure
	var asrErr *whisper.Error
	var ttsErr *coqui.Error
	var chatErr *copilot.Error
	switch {
	case errors.As(err, &relayFailure):
		status, code, message = mapRelayFailure(relayFailure)
	case errors.As(err, &asrErr), errors.As(err, &ttsErr), errors.As(err, &chatErr):
		status = http.StatusBadGateway
		code = "upstream_request_failed"
		message = "upstream request failed"
	case errors.Is(err, transcription.ErrUnsupportedFormat):
		status = http.StatusBadRequest
		code = "unsupported_format"
		message = "unsupported audio format, expected .wav, .mp3 or .flac"
	case errors.Is(err, speech.ErrEmptyText):
		status = http.StatusBadRequest
		code = "invalid_request"
		message = "text is required"
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		code = "timeout"
		message = "request timed out"
	case errors.Is(err, context.Canceled):
		status = 499
		code = "canceled"
		message = "request canceled"
	}

	s.writeError(w, r, status, code, message, details)
}

func mapRelayFailure(failure *relay.Failure) (int, string, string) {
	switch failure.Kind {
	case relay.FailDisabled:
		return http.StatusServiceUnavailable, "chat_disabled", "chat relay is disabled"
	case relay.FailMalformed:
		return http.StatusBadGateway, "chat_malformed_response", "chat endpoint returned a malformed response"
	case relay.FailRemote:
		return http.StatusBadGateway, "chat_remote_error", "chat endpoint reported an error"
	default:
		return http.StatusBadGateway, "chat_relay_failed", "chat relay failed"
	}
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	if rid := requestIDFromContext(r.Context()); rid != "" {
		w.Header().Set(requestIDHeader, rid)
	}
	writeJSON(w, status, model.ErrorResponse{
		Error:     model.APIError{Code: code, Message: message, Details: details},
		RequestID: requestIDFromContext(r.Context()),
	})
}

func (s *server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = newRequestID()
		}
		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), requestIDContext, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		duration := time.Since(started)
		if s.metrics != nil {
			s.metrics.ObserveHTTP(route, r.Method, status, duration)
		}

		s.logger.Info("http_request",
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", duration.Milliseconds(),
		)
	})
}

func (s *server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(r)
		defer func() {
			if rec := recover(); rec != nil {
				hub.RecoverWithContext(r.Context(), rec)
				hub.Flush(2 * time.Second)
				s.logger.Error("panic recovered", "request_id", requestIDFromContext(r.Context()), "panic", rec)
				s.writeError(w, r, http.StatusInternalServerError, "internal_error", "internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r.WithContext(sentry.SetHubOnContext(r.Context(), hub)))
	})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func ensureBodyFullyConsumed(decoder *json.Decoder) error {
	var extra any
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return fmt.Errorf("multiple JSON values")
		}
		return err
	}
	return nil
}

func parseBoolDefault(value string, def bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	return strconv.ParseBool(value)
}

func cleanupMultipartForm(form *multipart.Form) {
	if form != nil {
		_ = form.RemoveAll()
	}
}

func requestIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(requestIDContext).(string)
	return value
}

func newRequestID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

func toModelAnalysis(a transcription.Analysis) *model.TranscriptionAnalysis {
	return &model.TranscriptionAnalysis{
		WordCount:  a.WordCount,
		Language:   a.Language,
		Confidence: a.Confidence,
	}
}

func detailsForError(err error) map[string]any {
	if err == nil {
		return nil
	}
	details := map[string]any{"error": err.Error()}

	var relayFailure *relay.Failure
	if errors.As(err, &relayFailure) {
		details["kind"] = string(relayFailure.Kind)
		details["attempts"] = relayFailure.Attempts
	}

	var asrErr *whisper.Error
	var ttsErr *coqui.Error
	var chatErr *copilot.Error
	switch {
	case errors.As(err, &asrErr):
		details["upstream_status"] = asrErr.StatusCode
		if asrErr.Body != "" {
			details["upstream_body"] = asrErr.Body
		}
	case errors.As(err, &ttsErr):
		details["upstream_status"] = ttsErr.StatusCode
		if ttsErr.Body != "" {
			details["upstream_body"] = ttsErr.Body
		}
	case errors.As(err, &chatErr):
		details["upstream_status"] = chatErr.StatusCode
		if chatErr.Body != "" {
			details["upstream_body"] = chatErr.Body
		}
	}
	return details
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
