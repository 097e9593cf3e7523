// Package pipeline sequences the voice flow: transcription, optional chat
// relay, optional synthesis, and automatic note capture. Chat failures
// degrade the result instead of failing it.
package pipeline

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"voicepipe/internal/notes"
	"voicepipe/internal/relay"
	"voicepipe/internal/summarize"
	"voicepipe/internal/transcription"
)

// ChatStatus values reported in pipeline results.
const (
	StatusChatSucceeded = "Chat relay succeeded"
	StatusChatDegraded  = "Chat relay failed, continuing with transcript only"
	StatusChatDisabled  = "Chat relay disabled"
)

type Transcriber interface {
	Transcribe(ctx context.Context, file io.Reader, fileName string) (string, error)
}

type Responder interface {
	Respond(ctx context.Context, sessionID, text string) (relay.Reply, error)
	Enabled() bool
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type NoteWriter interface {
	CreateNote(in notes.Input) (string, error)
}

type Service struct {
	transcriber     Transcriber
	responder       Responder
	synthesizer     Synthesizer
	notes           NoteWriter
	summaryMaxWords int
	onChatFallback  func()
}

type Option func(*Service)

// WithChatFallbackObserver registers fn to be called whenever a pipeline
// run continues without a chat reply after a relay failure.
func WithChatFallbackObserver(fn func()) Option {
	return func(s *Service) {
		s.onChatFallback = fn
	}
}

func New(transcriber Transcriber, responder Responder, synthesizer Synthesizer, noteWriter NoteWriter, summaryMaxWords int, opts ...Option) *Service {
	s := &Service{
		transcriber:     transcriber,
		responder:       responder,
		synthesizer:     synthesizer,
		notes:           noteWriter,
		summaryMaxWords: summaryMaxWords,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.onChatFallback == nil {
		s.onChatFallback = func() {}
	}
	return s
}

type ProcessInput struct {
	File       io.Reader
	FileName   string
	SessionID  string
	Synthesize bool
}

type Timings struct {
	Transcription time.Duration
	Chat          time.Duration
	Synthesis     time.Duration
	Total         time.Duration
}

type ProcessResult struct {
	Transcript  string
	Analysis    transcription.Analysis
	Reply       string
	PromptKind  relay.PromptKind
	ChatStatus  string
	ChatFailure error
	Degraded    bool
	Audio       []byte
	Timings     Timings
}

// Process transcribes the uploaded audio, relays it to chat when the relay
// is enabled, and synthesizes a spoken response when asked to. A relay
// failure never fails the run: the result degrades to transcript-only and
// synthesis voices the transcript instead of a reply. Transcription and
// synthesis failures are returned to the caller.
func (s *Service) Process(ctx context.Context, in ProcessInput) (ProcessResult, error) {
	started := time.Now()

	transcriptionStarted := time.Now()
	transcript, err := s.transcriber.Transcribe(ctx, in.File, in.FileName)
	transcriptionDuration := time.Since(transcriptionStarted)
	if err != nil {
		return ProcessResult{}, err
	}

	result := ProcessResult{
		Transcript: transcript,
		Analysis:   transcription.Analyze(transcript),
	}
	result.Timings.Transcription = transcriptionDuration

	speakText := transcript
	if s.responder.Enabled() {
		chatStarted := time.Now()
		reply, chatErr := s.responder.Respond(ctx, in.SessionID, transcript)
		result.Timings.Chat = time.Since(chatStarted)
		result.PromptKind = reply.Kind

		if chatErr != nil {
			result.ChatStatus = StatusChatDegraded
			result.ChatFailure = chatErr
			result.Degraded = true
			s.onChatFallback()
		} else {
			result.Reply = reply.Text
			result.ChatStatus = StatusChatSucceeded
			speakText = reply.Text
		}
	} else {
		result.ChatStatus = StatusChatDisabled
	}

	if in.Synthesize && strings.TrimSpace(speakText) != "" {
		synthesisStarted := time.Now()
		audio, synthErr := s.synthesizer.Synthesize(ctx, speakText)
		result.Timings.Synthesis = time.Since(synthesisStarted)
		if synthErr != nil {
			return ProcessResult{}, synthErr
		}
		result.Audio = audio
	}

	result.Timings.Total = time.Since(started)
	return result, nil
}

type AutoNoteInput struct {
	File     io.Reader
	FileName string
	Title    string
	Notebook string
	Section  string
}

type AutoNoteResult struct {
	Transcript string
	Summary    string
	Title      string
	NotePath   string
}

// AutoNote transcribes the uploaded audio, summarizes the transcript, and
// stores both as a markdown note. An empty summary falls back to the first
// 500 characters of the transcript.
func (s *Service) AutoNote(ctx context.Context, in AutoNoteInput) (AutoNoteResult, error) {
	transcript, err := s.transcriber.Transcribe(ctx, in.File, in.FileName)
	if err != nil {
		return AutoNoteResult{}, err
	}

	summary := summarize.Summarize(transcript, s.summaryMaxWords)
	if summary == "" {
		if runes := []rune(transcript); len(runes) > 500 {
			summary = string(runes[:500]) + "..."
		} else {
			summary = transcript
		}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Voice note " + time.Now().Format("20060102_150405")
	}

	analysis := transcription.Analyze(transcript)
	notePath, err := s.notes.CreateNote(notes.Input{
		Title:         title,
		Transcription: transcript,
		Summary:       summary,
		Notebook:      in.Notebook,
		Section:       in.Section,
		Metadata: map[string]string{
			"language":   analysis.Language,
			"word_count": strconv.Itoa(analysis.WordCount),
		},
	})
	if err != nil {
		return AutoNoteResult{}, err
	}

	return AutoNoteResult{
		Transcript: transcript,
		Summary:    summary,
		Title:      title,
		NotePath:   notePath,
	}, nil
}
