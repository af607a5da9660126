// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/agentdeck/internal/confirm"
	"github.com/jeranaias/agentdeck/internal/model"
)

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

// scriptServer answers every chat request with the given ndjson lines.
func scriptServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSendMessageRejectsWhitespace(t *testing.T) {
	s := NewSession(NewClient("http://127.0.0.1:1"), nil)

	for _, text := range []string{"", "   ", "\t\n  "} {
		err := s.SendMessage(text)
		require.ErrorIs(t, err, ErrEmptyMessage, "text %q", text)
	}
	assert.Empty(t, s.Messages(), "rejected submissions must not touch the transcript")
	assert.Equal(t, StatusIdle, s.Status())
}

func TestSendMessageHappyPath(t *testing.T) {
	srv := scriptServer(t,
		`{"type":"message-start","message_id":"msg_srv_1"}`,
		`{"type":"text-delta","delta":"Hi "}`,
		`{"type":"text-delta","delta":"there"}`,
		`{"type":"finish"}`,
	)

	s := NewSession(NewClient(srv.URL), nil)
	require.NoError(t, s.SendMessage("hello"))

	waitFor(t, func() bool { return s.Status() == StatusIdle })

	msgs := s.Messages()
	require.Len(t, msgs, 2)

	user := msgs[0]
	assert.Equal(t, model.RoleUser, user.Role)
	require.Len(t, user.Parts, 1)
	assert.Equal(t, model.PartText, user.Parts[0].Kind)
	assert.Equal(t, "hello", user.Parts[0].Text)

	asst := msgs[1]
	assert.Equal(t, model.RoleAssistant, asst.Role)
	assert.Equal(t, "msg_srv_1", asst.ID)
	assert.Equal(t, "Hi there", asst.TextContent())
	assert.NoError(t, s.Err())
}

func TestSendMessageWhileBusy(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"type":"message-start"}`)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
		fmt.Fprintln(w, `{"type":"finish"}`)
	}))
	t.Cleanup(func() { close(release); srv.Close() })

	s := NewSession(NewClient(srv.URL), nil)
	require.NoError(t, s.SendMessage("first"))
	waitFor(t, func() bool { return s.Status() == StatusStreaming })

	assert.ErrorIs(t, s.SendMessage("second"), ErrBusy)
}

func TestStreamErrorSurfacesOnStatus(t *testing.T) {
	srv := scriptServer(t,
		`{"type":"message-start"}`,
		`{"type":"error","error":"model overloaded"}`,
	)

	s := NewSession(NewClient(srv.URL), nil)
	require.NoError(t, s.SendMessage("hello"))

	waitFor(t, func() bool { return s.Status() == StatusError })
	assert.ErrorContains(t, s.Err(), "model overloaded")
}

func TestStopCancelsExactlyOnce(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"type":"message-start"}`)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
	}))
	t.Cleanup(func() { close(release); srv.Close() })

	s := NewSession(NewClient(srv.URL), nil)
	require.NoError(t, s.SendMessage("hello"))
	waitFor(t, func() bool { return s.Status() == StatusStreaming })

	s.Stop()
	// A second stop must be a harmless no-op.
	s.Stop()

	waitFor(t, func() bool { return s.Status() == StatusIdle })
	assert.NoError(t, s.Err(), "user-initiated stop is not an error")
}

func TestConfirmationFlow(t *testing.T) {
	// First request streams a gated tool call; the continuation carrying
	// the confirmation streams the tool's output and a closing text part.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ToolResult *ToolResult `json:"tool_result"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		if req.ToolResult == nil {
			fmt.Fprintln(w, `{"type":"message-start"}`)
			fmt.Fprintln(w, `{"type":"part-start","part_type":"tool-getWeatherInformation","tool_call_id":"call_1"}`)
			fmt.Fprintln(w, `{"type":"tool-input-available","tool_call_id":"call_1","input":{"city":"Oslo"}}`)
			fmt.Fprintln(w, `{"type":"finish"}`)
			return
		}
		if req.ToolResult.ToolCallID != "call_1" {
			http.Error(w, "wrong call id", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, `{"type":"text-delta","delta":"It is sunny."}`)
		fmt.Fprintln(w, `{"type":"finish"}`)
	}))
	t.Cleanup(srv.Close)

	reg := confirm.NewRegistry([]string{"getWeatherInformation"})
	s := NewSession(NewClient(srv.URL), reg)

	require.NoError(t, s.SendMessage("weather in Oslo?"))
	waitFor(t, func() bool { return s.Status() == StatusIdle })

	require.True(t, s.Pending(), "gated call must block input")

	require.NoError(t, s.AddToolResult(ConfirmResult("getWeatherInformation", "call_1")))
	waitFor(t, func() bool { return s.Status() == StatusIdle })

	assert.False(t, s.Pending(), "confirmation must clear the gate")

	msgs := s.Messages()
	last := msgs[len(msgs)-1]
	tc := last.ToolCall("call_1")
	require.NotNil(t, tc)
	assert.Equal(t, model.ToolOutputAvailable, tc.State)
	assert.JSONEq(t, `"Yes, confirmed."`, string(tc.Output))
	assert.Contains(t, last.TextContent(), "It is sunny.")
}

func TestAddToolResultUnknownCall(t *testing.T) {
	s := NewSession(NewClient("http://127.0.0.1:1"), nil)

	err := s.AddToolResult(ToolResult{Tool: "bash", ToolCallID: "nope", Output: "x"})
	require.ErrorIs(t, err, model.ErrUnknownToolCall)
	assert.Empty(t, s.Messages(), "failed result submission must not mutate the transcript")
}

func TestUnknownPartsPreservedButInert(t *testing.T) {
	srv := scriptServer(t,
		`{"type":"message-start"}`,
		`{"type":"part-start","part_type":"reasoning"}`,
		`{"type":"text-delta","delta":"done"}`,
		`{"type":"finish"}`,
	)

	s := NewSession(NewClient(srv.URL), nil)
	require.NoError(t, s.SendMessage("hello"))
	waitFor(t, func() bool { return s.Status() == StatusIdle })

	msgs := s.Messages()
	asst := msgs[len(msgs)-1]
	require.Len(t, asst.Parts, 2)
	assert.Equal(t, model.PartUnknown, asst.Parts[0].Kind)
	assert.Equal(t, "reasoning", asst.Parts[0].WireType)
	assert.False(t, s.Pending(), "unknown parts never gate input")
}

func TestClearHistory(t *testing.T) {
	srv := scriptServer(t,
		`{"type":"message-start"}`,
		`{"type":"text-delta","delta":"hi"}`,
		`{"type":"finish"}`,
	)

	var cleared atomic.Bool
	s := NewSession(NewClient(srv.URL), nil)
	s.SetPersist(func(conv *model.Conversation) {
		if conv == nil {
			cleared.Store(true)
		}
	})

	require.NoError(t, s.SendMessage("hello"))
	waitFor(t, func() bool { return s.Status() == StatusIdle })
	require.NotEmpty(t, s.Messages())

	s.ClearHistory()
	assert.Empty(t, s.Messages())
	assert.Equal(t, StatusIdle, s.Status())
	assert.True(t, cleared.Load(), "persist hook must be told to forget the transcript")
}

func TestPersistCalledWithSnapshotOnFinish(t *testing.T) {
	srv := scriptServer(t,
		`{"type":"message-start"}`,
		`{"type":"text-delta","delta":"hi"}`,
		`{"type":"finish"}`,
	)

	saved := make(chan *model.Conversation, 1)
	s := NewSession(NewClient(srv.URL), nil)
	s.SetPersist(func(conv *model.Conversation) {
		if conv != nil {
			select {
			case saved <- conv:
			default:
			}
		}
	})

	require.NoError(t, s.SendMessage("hello"))

	select {
	case conv := <-saved:
		assert.Equal(t, 2, conv.MessageCount())
	case <-time.After(5 * time.Second):
		t.Fatal("persist hook never called")
	}
}

func TestOnChangeNotifications(t *testing.T) {
	srv := scriptServer(t,
		`{"type":"message-start"}`,
		`{"type":"text-delta","delta":"hi"}`,
		`{"type":"finish"}`,
	)

	var changes atomic.Int64
	s := NewSession(NewClient(srv.URL), nil)
	s.SetOnChange(func() { changes.Add(1) })

	require.NoError(t, s.SendMessage("hello"))
	waitFor(t, func() bool { return s.Status() == StatusIdle })

	assert.Greater(t, changes.Load(), int64(2), "each applied event should notify")
}
