// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/agentdeck/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	conv := model.NewConversation()
	conv.AddUserMessage("what is the weather in Paris?")
	reply := conv.AddAssistantMessage()
	part := model.NewToolPart("getWeatherInformation", "call_1", model.ToolOutputAvailable)
	part.Tool.Input = json.RawMessage(`{"city":"Paris"}`)
	part.Tool.Output = json.RawMessage(`{"temp":18}`)
	reply.AppendPart(part)
	reply.AppendTextDelta("It is 18 degrees.")

	require.NoError(t, s.Save(conv))

	loaded, err := s.Load(conv.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, model.RoleUser, loaded.Messages[0].Role)
	assert.Equal(t, "what is the weather in Paris?", loaded.Messages[0].TextContent())

	got := loaded.Messages[1]
	assert.Equal(t, model.RoleAssistant, got.Role)
	require.Len(t, got.Parts, 2)
	require.True(t, got.Parts[0].IsTool())
	assert.Equal(t, "getWeatherInformation", got.Parts[0].Tool.Name)
	assert.Equal(t, model.ToolOutputAvailable, got.Parts[0].Tool.State)
	assert.JSONEq(t, `{"temp":18}`, string(got.Parts[0].Tool.Output))
	assert.Equal(t, "It is 18 degrees.", got.Parts[1].Text)
}

func TestLoadMissingReturnsNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load("conv_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersByRecency(t *testing.T) {
	s := openTestStore(t)

	older := model.NewConversation()
	older.AddUserMessage("first")
	older.UpdatedAt = older.UpdatedAt.Add(-60e9)
	require.NoError(t, s.Save(older))

	newer := model.NewConversation()
	newer.AddUserMessage("second")
	require.NoError(t, s.Save(newer))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].ID)
	assert.Equal(t, older.ID, entries[1].ID)
	assert.Equal(t, "second", entries[0].Title)
}

func TestSaveReplacesExisting(t *testing.T) {
	s := openTestStore(t)

	conv := model.NewConversation()
	conv.AddUserMessage("hello")
	require.NoError(t, s.Save(conv))

	conv.AddAssistantMessage().AppendTextDelta("hi")
	require.NoError(t, s.Save(conv))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	loaded, err := s.Load(conv.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 2)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	conv := model.NewConversation()
	conv.AddUserMessage("hello")
	require.NoError(t, s.Save(conv))

	require.NoError(t, s.Delete(conv.ID))
	_, err := s.Load(conv.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(conv.ID), ErrNotFound)
}

func TestClearRemovesEverything(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		conv := model.NewConversation()
		conv.AddUserMessage("msg")
		require.NoError(t, s.Save(conv))
	}

	require.NoError(t, s.Clear())
	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReopenPreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	conv := model.NewConversation()
	conv.AddUserMessage("persisted across restarts")
	require.NoError(t, s.Save(conv))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	loaded, err := s2.Load(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted across restarts", loaded.Messages[0].TextContent())
}
