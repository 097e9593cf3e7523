package transcription

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"
)

type stubClient struct {
	calls    int
	fileName string
	text     string
	err      error
}

func (c *stubClient) Transcribe(_ context.Context, _ io.Reader, fileName string) (string, error) {
	c.calls++
	c.fileName = fileName
	return c.text, c.err
}

func TestTranscribeTrimsRecognizedText(t *testing.T) {
	client := &stubClient{text: "  hello world \n"}
	svc := New(client, time.Second)

	text, err := svc.Transcribe(context.Background(), strings.NewReader("audio"), "clip.wav")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "hello world" {
		t.Fatalf("expected trimmed text, got %q", text)
	}
}

func TestTranscribeDefaultsFileName(t *testing.T) {
	client := &stubClient{text: "ok"}
	svc := New(client, time.Second)

	if _, err := svc.Transcribe(context.Background(), strings.NewReader("audio"), ""); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if client.fileName != "audio.wav" {
		t.Fatalf("expected default file name, got %q", client.fileName)
	}
}

func TestTranscribeRejectsUnsupportedFormat(t *testing.T) {
	client := &stubClient{text: "never"}
	svc := New(client, time.Second)

	_, err := svc.Transcribe(context.Background(), strings.NewReader("audio"), "clip.ogg")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("expected no upstream call, got %d", client.calls)
	}
}

func TestTranscribeAcceptsSupportedFormats(t *testing.T) {
	for _, name := range []string{"clip.wav", "clip.mp3", "clip.flac", "CLIP.WAV"} {
		client := &stubClient{text: "ok"}
		svc := New(client, time.Second)
		if _, err := svc.Transcribe(context.Background(), strings.NewReader("audio"), name); err != nil {
			t.Fatalf("Transcribe(%q) error = %v", name, err)
		}
	}
}

func TestAnalyze(t *testing.T) {
	tests := map[string]struct {
		text           string
		wantWords      int
		wantLanguage   string
		wantConfidence float64
	}{
		"empty":   {"", 0, "en", 0},
		"english": {"hello world", 2, "en", 0.2},
		"spanish": {"hola señor", 2, "es", 0.2},
		"german":  {"schöne wörter", 2, "de", 0.2},
		"french":  {"très bien merci à tous", 5, "fr", 0.25 + 0.1},
		"long": {
			strings.Repeat("a ", 20),
			20, "en", 1.0,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := Analyze(tc.text)
			if got.WordCount != tc.wantWords {
				t.Fatalf("WordCount = %d, want %d", got.WordCount, tc.wantWords)
			}
			if got.Language != tc.wantLanguage {
				t.Fatalf("Language = %q, want %q", got.Language, tc.wantLanguage)
			}
			if math.Abs(got.Confidence-tc.wantConfidence) > 1e-9 {
				t.Fatalf("Confidence = %v, want %v", got.Confidence, tc.wantConfidence)
			}
		})
	}
}
