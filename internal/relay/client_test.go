package relay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "deepseek-chat", 5*time.Second)
	content, err := c.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if content != `{"ok":true}` {
		t.Errorf("content = %q", content)
	}
}

func TestClientCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "deepseek-chat", 5*time.Second)
	_, err := c.Complete(context.Background(), "system", "user")

	var unavailErr *RelayUnavailableError
	if !errors.As(err, &unavailErr) {
		t.Fatalf("err = %v, want RelayUnavailableError", err)
	}
	if unavailErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d", unavailErr.Status)
	}
}

func TestClientCompleteUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "test-key", "deepseek-chat", time.Second)
	_, err := c.Complete(context.Background(), "system", "user")

	var unavailErr *RelayUnavailableError
	if !errors.As(err, &unavailErr) {
		t.Fatalf("err = %v, want RelayUnavailableError", err)
	}
}

func TestClientCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "deepseek-chat", 5*time.Second)
	_, err := c.Complete(context.Background(), "system", "user")

	var parseErr *RelayParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want RelayParseError", err)
	}
}
