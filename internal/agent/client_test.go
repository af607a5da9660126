// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		wantIs  error
	}{
		{"healthy", http.StatusOK, `{"success":true}`, false, nil},
		{"unhealthy payload", http.StatusOK, `{"success":false}`, true, ErrServiceUnhealthy},
		{"server error", http.StatusInternalServerError, `{}`, true, nil},
		{"not found", http.StatusNotFound, ``, true, nil},
		{"garbage body", http.StatusOK, `{not json`, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != DefaultHealthPath {
					t.Errorf("health probe hit %q, want %q", r.URL.Path, DefaultHealthPath)
				}
				if r.Method != http.MethodGet {
					t.Errorf("health probe method = %q, want GET", r.Method)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient(srv.URL).CheckHealth(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckHealth() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("CheckHealth() error = %v, want %v", err, tt.wantIs)
			}
		})
	}
}

func TestCheckHealthTransportError(t *testing.T) {
	// Nothing listens here.
	c := NewClient("http://127.0.0.1:1")
	if err := c.CheckHealth(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestStreamDeliversEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != DefaultChatPath {
			t.Errorf("chat request hit %q, want %q", r.URL.Path, DefaultChatPath)
		}
		fmt.Fprintln(w, `{"type":"message-start","message_id":"msg_1"}`)
		fmt.Fprintln(w, `{"type":"text-delta","delta":"hel"}`)
		fmt.Fprintln(w, `not json at all`)
		fmt.Fprintln(w, `{"type":"text-delta","delta":"lo"}`)
		fmt.Fprintln(w, `{"type":"finish"}`)
	}))
	defer srv.Close()

	var types []string
	err := NewClient(srv.URL).Stream(context.Background(), chatRequest{}, func(ev StreamEvent) {
		types = append(types, ev.Type)
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	want := []string{EventMessageStart, EventTextDelta, EventTextDelta, EventFinish}
	if len(types) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(types), types, len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, types[i], want[i])
		}
	}
}

func TestStreamServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"type":"error","error":"model overloaded"}`)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Stream(context.Background(), chatRequest{}, func(StreamEvent) {})
	if err == nil {
		t.Fatal("expected error from error event")
	}
}

func TestStreamNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no backend configured", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Stream(context.Background(), chatRequest{}, func(StreamEvent) {})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", apiErr.Status)
	}
}

func TestStreamTruncatedWithoutFinish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"type":"text-delta","delta":"partial"}`)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Stream(context.Background(), chatRequest{}, func(StreamEvent) {})
	if !errors.Is(err, ErrStreamClosed) {
		t.Errorf("error = %v, want ErrStreamClosed", err)
	}
}

func TestStreamCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"type":"message-start"}`)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewClient(srv.URL).Stream(ctx, chatRequest{}, func(StreamEvent) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected cancellation error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancellation")
	}
}
