// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jeranaias/agentdeck/internal/confirm"
	"github.com/jeranaias/agentdeck/internal/model"
)

var (
	// ErrEmptyMessage indicates a whitespace-only submission. Callers
	// reject these silently; the error exists so tests can assert the
	// reason.
	ErrEmptyMessage = errors.New("empty message")

	// ErrBusy indicates a generation is already in flight.
	ErrBusy = errors.New("generation in flight")
)

// =============================================================================
// SESSION
// =============================================================================

// Session owns a conversation and drives generations against the agent
// service. All state behind mu; the streaming goroutine and the UI
// goroutine both go through it.
type Session struct {
	mu       sync.Mutex
	conv     *model.Conversation
	status   Status
	lastErr  error
	cancel   context.CancelFunc
	client   *Client
	registry *confirm.Registry

	// onChange is invoked (without the lock held) after every applied
	// mutation so the UI can schedule a re-render.
	onChange func()

	// persist is invoked with a snapshot when a generation finishes, and
	// with nil when history is cleared. Optional.
	persist func(*model.Conversation)
}

// NewSession creates a session over the given client and confirmation
// registry.
func NewSession(client *Client, registry *confirm.Registry) *Session {
	if registry == nil {
		registry = confirm.Default()
	}
	return &Session{
		conv:     model.NewConversation(),
		status:   StatusIdle,
		client:   client,
		registry: registry,
	}
}

// SetOnChange registers the change notification hook. Must be called
// before the first dispatch.
func (s *Session) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// SetPersist registers the history hook. Must be called before the first
// dispatch.
func (s *Session) SetPersist(fn func(*model.Conversation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist = fn
}

// Restore replaces the conversation, e.g. when loading a saved
// transcript. No-op while a generation is in flight.
func (s *Session) Restore(conv *model.Conversation) {
	s.mu.Lock()
	if s.status.Busy() || conv == nil {
		s.mu.Unlock()
		return
	}
	s.conv = conv
	s.mu.Unlock()
	s.notify()
}

// =============================================================================
// ADAPTER SURFACE
// =============================================================================

// Messages returns a deep snapshot of the transcript. Renderers work from
// snapshots and never hold references into live session state.
func (s *Session) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Snapshot()
}

// Status returns the current generation state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the error from the last failed generation, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ConversationID returns the stable ID of the current conversation.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.ID
}

// Pending reports whether any tool call is parked awaiting confirmation.
// Derived from the live transcript on every call.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Pending(s.conv.Messages)
}

// Registry returns the confirmation registry the session gates on.
func (s *Session) Registry() *confirm.Registry {
	return s.registry
}

// SendMessage appends one user message with one text part and starts a
// generation. Whitespace-only text is rejected with ErrEmptyMessage and
// the transcript is left untouched.
func (s *Session) SendMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.status.Busy() {
		s.mu.Unlock()
		return ErrBusy
	}
	s.conv.AddUserMessage(text)
	s.mu.Unlock()
	s.notify()

	return s.dispatch(nil)
}

// AddToolResult submits a tool call's result. The matching tool part
// transitions to output-available locally, then the result is forwarded
// to the agent and the generation continues. An unmatched ToolCallID is
// an error and mutates nothing.
func (s *Session) AddToolResult(res ToolResult) error {
	output, err := json.Marshal(res.Output)
	if err != nil {
		return fmt.Errorf("failed to encode tool output: %w", err)
	}

	s.mu.Lock()
	if s.status.Busy() {
		s.mu.Unlock()
		return ErrBusy
	}
	if err := s.conv.SetToolOutput(res.ToolCallID, output); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("tool result for %q: %w", res.ToolCallID, err)
	}
	s.mu.Unlock()
	s.notify()

	return s.dispatch(&res)
}

// Stop cancels the in-flight generation, if any. Safe to call repeatedly;
// only the first call per generation reaches the cancel function.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// ClearHistory drops the transcript and tells the persistence hook to
// forget it. The conversation keeps its identity.
func (s *Session) ClearHistory() {
	s.Stop()

	s.mu.Lock()
	s.conv.Clear()
	s.lastErr = nil
	s.status = StatusIdle
	persist := s.persist
	s.mu.Unlock()

	if persist != nil {
		persist(nil)
	}
	s.notify()
}

// =============================================================================
// DISPATCH AND STREAMING
// =============================================================================

// dispatch is the single submission entry point. Every generation,
// whether a fresh user turn or a continuation carrying a tool result,
// goes through here.
func (s *Session) dispatch(res *ToolResult) error {
	s.mu.Lock()
	if s.status.Busy() {
		s.mu.Unlock()
		return ErrBusy
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.status = StatusSubmitted
	s.lastErr = nil

	req := chatRequest{
		ConversationID: s.conv.ID,
		Messages:       toWireMessages(s.conv.Messages),
		ToolResult:     res,
	}
	s.mu.Unlock()
	s.notify()

	go s.run(ctx, cancel, req)
	return nil
}

// run executes one generation stream. Runs on its own goroutine; applies
// each event under the session lock and notifies after each.
func (s *Session) run(ctx context.Context, cancel context.CancelFunc, req chatRequest) {
	defer cancel()

	err := s.client.Stream(ctx, req, func(ev StreamEvent) {
		s.mu.Lock()
		s.applyEvent(ev)
		s.mu.Unlock()
		s.notify()
	})

	s.mu.Lock()
	s.cancel = nil
	switch {
	case err == nil:
		s.status = StatusIdle
	case errors.Is(err, context.Canceled):
		// User-initiated stop is not an error surface.
		s.status = StatusIdle
	default:
		s.status = StatusError
		s.lastErr = err
	}
	persist := s.persist
	var snapshot *model.Conversation
	if err == nil && persist != nil {
		snapshot = s.conv.Clone()
	}
	s.mu.Unlock()

	if snapshot != nil {
		persist(snapshot)
	}
	s.notify()
}

// applyEvent folds one stream event into the conversation. Caller holds
// the lock. Part construction happens here and only here: the wire part
// type goes through model.ParsePartType at ingestion, so nothing
// downstream ever parses a type string again.
func (s *Session) applyEvent(ev StreamEvent) {
	if s.status == StatusSubmitted {
		s.status = StatusStreaming
	}

	switch ev.Type {
	case EventMessageStart:
		msg := s.conv.AddAssistantMessage()
		if ev.MessageID != "" {
			msg.ID = ev.MessageID
		}

	case EventTextDelta:
		if msg := s.conv.LastAssistantMessage(); msg != nil {
			msg.AppendTextDelta(ev.Delta)
		}

	case EventPartStart:
		msg := s.conv.LastAssistantMessage()
		if msg == nil {
			msg = s.conv.AddAssistantMessage()
		}
		kind, name := model.ParsePartType(ev.PartType)
		switch kind {
		case model.PartTool:
			msg.AppendPart(model.NewToolPart(name, ev.ToolCallID, model.ToolInputStreaming))
		case model.PartText:
			// Text parts materialize on the first delta.
		default:
			// Unknown kinds are preserved so the transcript
			// round-trips; renderers skip them.
			msg.AppendPart(model.NewUnknownPart(ev.PartType))
		}

	case EventToolInputDelta:
		if _, tc := s.conv.FindToolCall(ev.ToolCallID); tc != nil {
			tc.Input = append(tc.Input, []byte(ev.Delta)...)
		}

	case EventToolInput:
		_ = s.conv.SetToolInput(ev.ToolCallID, ev.Input)

	case EventToolOutput:
		_ = s.conv.SetToolOutput(ev.ToolCallID, ev.Output)

	case EventToolError:
		_ = s.conv.SetToolError(ev.ToolCallID, ev.Error)

	case EventFinish:
		// Terminal bookkeeping happens in run.
	}
}

// notify invokes the change hook outside the lock.
func (s *Session) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
