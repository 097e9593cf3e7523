// Package relay classifies transcribed utterances, frames them as chat
// prompts with per-session history, and forwards them to the copilot
// endpoint under a bounded retry policy.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"voicepipe/internal/session"
	"voicepipe/internal/upstream/copilot"
)

// FailureKind distinguishes why a relay call gave up.
type FailureKind string

const (
	// FailTransport covers connection errors and timeouts. Retried.
	FailTransport FailureKind = "transport"
	// FailServer covers 5xx responses from the chat endpoint. Retried.
	FailServer FailureKind = "server"
	// FailMalformed covers 2xx responses without a usable result. Never retried.
	FailMalformed FailureKind = "malformed"
	// FailRemote covers RPC error objects and 4xx responses. Never retried.
	FailRemote FailureKind = "remote"
	// FailDisabled reports the relay being switched off by configuration.
	FailDisabled FailureKind = "disabled"
)

var ErrDisabled = errors.New("chat relay is disabled")

// Failure is the terminal error of a relay call. It records how the call
// failed and how many attempts were made before giving up.
type Failure struct {
	Kind     FailureKind
	Attempts int
	Err      error
}

func (f *Failure) Error() string {
	if f.Attempts == 0 {
		return fmt.Sprintf("chat relay failed (%s): %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("chat relay failed (%s) after %d attempt(s): %v", f.Kind, f.Attempts, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

type ChatCaller interface {
	Chat(ctx context.Context, params copilot.ChatParams) (string, error)
}

type SessionStore interface {
	Get(id string) ([]session.Exchange, bool)
	Append(id, user, assistant string)
}

// Config bounds a relay call. MaxRetries is the total attempt budget, not
// the number of extra tries; the delay before attempt n is RetryDelay
// multiplied by n-1.
type Config struct {
	Enabled    bool
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	MaxPairs   int
}

type Option func(*Service)

// WithRetryObserver registers fn to be called before each retry attempt.
func WithRetryObserver(fn func()) Option {
	return func(s *Service) {
		s.onRetry = fn
	}
}

// WithFailureObserver registers fn to be called once per failed relay call
// with the terminal failure kind.
func WithFailureObserver(fn func(kind string)) Option {
	return func(s *Service) {
		s.onFailure = fn
	}
}

type Service struct {
	client    ChatCaller
	sessions  SessionStore
	cfg       Config
	onRetry   func()
	onFailure func(kind string)
}

func New(client ChatCaller, sessions SessionStore, cfg Config, opts ...Option) *Service {
	s := &Service{
		client:   client,
		sessions: sessions,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.onRetry == nil {
		s.onRetry = func() {}
	}
	if s.onFailure == nil {
		s.onFailure = func(string) {}
	}
	return s
}

// Enabled reports whether the relay is switched on by configuration.
func (s *Service) Enabled() bool {
	return s.cfg.Enabled
}

// Result is the outcome of a successful Send.
type Result struct {
	Reply    string
	Attempts int
}

// Send issues the chat request. Transport and server failures are retried
// until the attempt budget is spent; every other failure is surfaced
// immediately. Each attempt runs under its own timeout.
func (s *Service) Send(ctx context.Context, params copilot.ChatParams) (Result, error) {
	if !s.cfg.Enabled {
		s.onFailure(string(FailDisabled))
		return Result{}, &Failure{Kind: FailDisabled, Err: ErrDisabled}
	}

	maxAttempts := s.cfg.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		lastErr  error
		lastKind FailureKind
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			s.onRetry()
			select {
			case <-time.After(time.Duration(attempt-1) * s.cfg.RetryDelay):
			case <-ctx.Done():
				s.onFailure(string(FailTransport))
				return Result{}, &Failure{Kind: FailTransport, Attempts: attempt - 1, Err: ctx.Err()}
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		reply, err := s.client.Chat(attemptCtx, params)
		cancel()
		if err == nil {
			return Result{Reply: reply, Attempts: attempt}, nil
		}

		kind := classifyFailure(err)
		if kind != FailTransport && kind != FailServer {
			s.onFailure(string(kind))
			return Result{}, &Failure{Kind: kind, Attempts: attempt, Err: err}
		}
		lastErr = err
		lastKind = kind
	}

	s.onFailure(string(lastKind))
	return Result{}, &Failure{Kind: lastKind, Attempts: maxAttempts, Err: lastErr}
}

// Reply is the outcome of a successful Respond.
type Reply struct {
	Text     string
	Kind     PromptKind
	Attempts int
}

// Respond classifies text, frames it with the session's prior exchanges,
// and relays it. The new exchange is recorded against sessionID only when
// the relay succeeds; failures leave the session untouched. An empty
// sessionID relays statelessly.
func (s *Service) Respond(ctx context.Context, sessionID, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	kind := Classify(text)

	var history []session.Exchange
	if sessionID != "" {
		history, _ = s.sessions.Get(sessionID)
	}

	result, err := s.Send(ctx, BuildPrompt(text, kind, history, s.cfg.MaxPairs))
	if err != nil {
		return Reply{Kind: kind}, err
	}

	if sessionID != "" {
		s.sessions.Append(sessionID, text, result.Reply)
	}
	return Reply{Text: result.Reply, Kind: kind, Attempts: result.Attempts}, nil
}

func classifyFailure(err error) FailureKind {
	var upstreamErr *copilot.Error
	if errors.As(err, &upstreamErr) {
		if upstreamErr.StatusCode >= 500 {
			return FailServer
		}
		return FailRemote
	}
	var rpcErr *copilot.RPCError
	if errors.As(err, &rpcErr) {
		return FailRemote
	}
	if errors.Is(err, copilot.ErrMalformedResponse) {
		return FailMalformed
	}
	return FailTransport
}
