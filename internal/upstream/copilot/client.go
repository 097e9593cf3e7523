package copilot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

const (
	jsonRPCVersion = "2.0"
	chatMethod     = "copilot/chat"

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// ErrMalformedResponse marks a 2xx chat response whose body could not be
// parsed or carried no usable result string.
var ErrMalformedResponse = errors.New("malformed chat response")

type ObserverFunc func(endpoint string, status int, duration time.Duration)

type Option func(*Client)

type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   ObserverFunc
	requestID  atomic.Int64
}

// Error reports a non-2xx HTTP status from the chat endpoint.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("chat request failed with status %d", e.StatusCode)
}

// RPCError is the error object of a JSON-RPC response envelope.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("chat endpoint error %d: %s", e.Code, e.Message)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Options struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func DefaultOptions() Options {
	return Options{Temperature: DefaultTemperature, MaxTokens: DefaultMaxTokens}
}

type ChatParams struct {
	Messages []Message `json:"messages"`
	Options  Options   `json:"options"`
}

type rpcRequest struct {
	JSONRPC string     `json:"jsonrpc"`
	ID      int64      `json:"id"`
	Method  string     `json:"method"`
	Params  ChatParams `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
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
	c.requestID.Store(time.Now().UnixMilli())
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Chat sends one JSON-RPC chat request and returns the result string.
func (c *Client) Chat(ctx context.Context, params ChatParams) (string, error) {
	started := time.Now()
	statusCode := 0
	defer func() { c.observe("chat", statusCode, time.Since(started)) }()

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: jsonRPCVersion,
		ID:      c.requestID.Add(1),
		Method:  chatMethod,
		Params:  params,
	})
	if err != nil {
		return "", err
	}

	url := c.baseURL + "/mcp"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{StatusCode: resp.StatusCode, Body: truncateBody(string(respBody))}
	}

	return parseChatResult(respBody)
}

func (c *Client) observe(endpoint string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer(endpoint, status, duration)
	}
}

func parseChatResult(data []byte) (string, error) {
	var parsed rpcResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if parsed.Error != nil {
		return "", parsed.Error
	}
	if len(parsed.Result) == 0 {
		return "", fmt.Errorf("%w: missing result", ErrMalformedResponse)
	}

	var result string
	if err := json.Unmarshal(parsed.Result, &result); err != nil {
		return "", fmt.Errorf("%w: result is not a string", ErrMalformedResponse)
	}
	if result == "" {
		return "", fmt.Errorf("%w: empty result", ErrMalformedResponse)
	}
	return result, nil
}

func truncateBody(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 4096 {
		return s
	}
	return s[:4096] + "..."
}
