package coqui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type ObserverFunc func(endpoint string, status int, duration time.Duration)

type Option func(*Client)

type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   ObserverFunc
}

type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("tts request failed with status %d", e.StatusCode)
}

type Info struct {
	ModelName string `json:"model_name"`
	Device    string `json:"device"`
	Loaded    string `json:"loaded"`
}

func WithObserver(observer ObserverFunc) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

func New(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Synthesize returns the raw audio bytes (audio/wav) produced for text.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	started := time.Now()
	statusCode := 0
	defer func() { c.observe("synthesize", statusCode, time.Since(started)) }()

	payload, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/synthesize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{StatusCode: resp.StatusCode, Body: truncateBody(string(respBody))}
	}
	if len(respBody) == 0 {
		return nil, fmt.Errorf("empty synthesis response")
	}

	return respBody, nil
}

func (c *Client) Health(ctx context.Context) error {
	started := time.Now()
	statusCode := 0
	defer func() { c.observe("health", statusCode, time.Since(started)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &Error{StatusCode: resp.StatusCode, Body: truncateBody(string(body))}
	}

	var parsed struct {
		Healthy bool `json:"healthy"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("invalid health response: %w", err)
	}
	if !parsed.Healthy {
		return fmt.Errorf("tts service reports unhealthy")
	}
	return nil
}

func (c *Client) Info(ctx context.Context) (Info, error) {
	started := time.Now()
	statusCode := 0
	defer func() { c.observe("info", statusCode, time.Since(started)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/info", nil)
	if err != nil {
		return Info{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Info{}, err
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Info{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Info{}, &Error{StatusCode: resp.StatusCode, Body: truncateBody(string(body))}
	}

	var info Info
	if err := json.Unmarshal(body, &info); err != nil {
		return Info{}, fmt.Errorf("invalid info response: %w", err)
	}
	return info, nil
}

func (c *Client) observe(endpoint string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer(endpoint, status, duration)
	}
}

func truncateBody(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 4096 {
		return s
	}
	return s[:4096] + "..."
}
