package copilot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChatSendsEnvelopeAndParsesResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mcp" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)

		var req struct {
			JSONRPC string `json:"jsonrpc"`
			ID      int64  `json:"id"`
			Method  string `json:"method"`
			Params  struct {
				Messages []Message `json:"messages"`
				Options  Options   `json:"options"`
			} `json:"params"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if req.JSONRPC != "2.0" {
			t.Fatalf("unexpected jsonrpc version: %q", req.JSONRPC)
		}
		if req.ID == 0 {
			t.Fatal("expected non-zero request id")
		}
		if req.Method != "copilot/chat" {
			t.Fatalf("unexpected method: %q", req.Method)
		}
		if len(req.Params.Messages) != 1 || req.Params.Messages[0].Role != "user" {
			t.Fatalf("unexpected messages: %+v", req.Params.Messages)
		}
		if req.Params.Options.Temperature != 0.7 || req.Params.Options.MaxTokens != 1000 {
			t.Fatalf("unexpected options: %+v", req.Params.Options)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1,"result":"hello back"}`)
	}))
	defer ts.Close()

	c := New(ts.URL, ts.Client())
	reply, err := c.Chat(context.Background(), ChatParams{
		Messages: []Message{{Role: "user", Content: "hi"}},
		Options:  DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply != "hello back" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestChatRequestIDsIncrease(t *testing.T) {
	var ids []int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int64 `json:"id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		ids = append(ids, req.ID)
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1,"result":"ok"}`)
	}))
	defer ts.Close()

	c := New(ts.URL, ts.Client())
	for i := 0; i < 3; i++ {
		if _, err := c.Chat(context.Background(), ChatParams{Options: DefaultOptions()}); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(ids))
	}
	if !(ids[0] < ids[1] && ids[1] < ids[2]) {
		t.Fatalf("expected increasing ids, got %v", ids)
	}
}

func TestChatSurfacesRPCError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"model unavailable"}}`)
	}))
	defer ts.Close()

	c := New(ts.URL, ts.Client())
	_, err := c.Chat(context.Background(), ChatParams{Options: DefaultOptions()})
	if err == nil {
		t.Fatal("expected error")
	}
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %T", err)
	}
	if rpcErr.Code != -32000 || rpcErr.Message != "model unavailable" {
		t.Fatalf("unexpected rpc error: %+v", rpcErr)
	}
}

func TestChatMissingResultIsMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1}`)
	}))
	defer ts.Close()

	c := New(ts.URL, ts.Client())
	_, err := c.Chat(context.Background(), ChatParams{Options: DefaultOptions()})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestChatNonStringResultIsMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1,"result":{"text":"nested"}}`)
	}))
	defer ts.Close()

	c := New(ts.URL, ts.Client())
	_, err := c.Chat(context.Background(), ChatParams{Options: DefaultOptions()})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestChatReturnsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := New(ts.URL, ts.Client())
	_, err := c.Chat(context.Background(), ChatParams{Options: DefaultOptions()})
	if err == nil {
		t.Fatal("expected error")
	}
	var httpErr *Error
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status code: %d", httpErr.StatusCode)
	}
}
