// Package speech fronts the TTS relay.
package speech

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrEmptyText = errors.New("no text to synthesize")

type Client interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type Service struct {
	client  Client
	timeout time.Duration
}

func New(client Client, timeout time.Duration) *Service {
	return &Service{
		client:  client,
		timeout: timeout,
	}
}

// Synthesize returns WAV audio for text. Whitespace-only input is rejected
// before the upstream call.
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.client.Synthesize(ctx, text)
}
