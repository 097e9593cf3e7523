// Package transcription fronts the ASR relay with format validation and
// lightweight transcript analysis.
package transcription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// supportedExtensions lists the audio containers the ASR endpoint accepts.
var supportedExtensions = []string{".wav", ".mp3", ".flac"}

var ErrUnsupportedFormat = errors.New("unsupported audio format")

type Client interface {
	Transcribe(ctx context.Context, file io.Reader, fileName string) (string, error)
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

// Transcribe forwards uploaded audio to the ASR endpoint and returns the
// recognized text, trimmed. The file name decides format acceptance; an
// empty name defaults to audio.wav.
func (s *Service) Transcribe(ctx context.Context, file io.Reader, fileName string) (string, error) {
	if fileName == "" {
		fileName = "audio.wav"
	}
	if !supportedFormat(fileName) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.client.Transcribe(ctx, file, fileName)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func supportedFormat(fileName string) bool {
	lower := strings.ToLower(fileName)
	for _, ext := range supportedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
