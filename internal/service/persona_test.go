package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mistressbot/internal/model"
	"mistressbot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply       string
	err         error
	lastSystem  string
	lastHistory []model.HistoryItem
	lastUser    string
	calls       int
}

func (f *fakeGenerator) Chat(ctx context.Context, system string, history []model.HistoryItem, user string, maxTokens int) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastHistory = history
	f.lastUser = user
	return f.reply, f.err
}

func newPersonaFixture(t *testing.T, gen *fakeGenerator) (*PersonaService, *ProfileService, *store.Store) {
	st := newTestStore(t)
	profiles := NewProfileService(st)
	return NewPersonaService(profiles, st, gen), profiles, st
}

func TestReplyLogsExchange(t *testing.T) {
	gen := &fakeGenerator{reply: "Kneel."}
	svc, _, st := newPersonaFixture(t, gen)
	ctx := context.Background()

	out, err := svc.Reply(ctx, "U1", "alice", "good evening")
	require.NoError(t, err)
	assert.Equal(t, "Kneel.", out)

	logs, err := st.RecentLogs(ctx, "U1", 5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "chat", logs[0].Type)
	assert.Equal(t, "good evening", logs[0].Message)
	assert.Equal(t, "Kneel.", logs[0].Response)
}

func TestReplyEmbedsProfileInPrompt(t *testing.T) {
	gen := &fakeGenerator{reply: "As you wish."}
	svc, profiles, _ := newPersonaFixture(t, gen)
	ctx := context.Background()

	_, err := profiles.GetOrCreate(ctx, "U1", "alice")
	require.NoError(t, err)
	require.NoError(t, profiles.SetField(ctx, "U1", "safeword", "mercy"))
	require.NoError(t, profiles.SetField(ctx, "U1", "limits", "no public tasks"))

	_, err = svc.Reply(ctx, "U1", "alice", "hello")
	require.NoError(t, err)
	assert.Contains(t, gen.lastSystem, "safeword: mercy")
	assert.Contains(t, gen.lastSystem, "Limits: no public tasks")
	assert.Contains(t, gen.lastSystem, "Affection=5, Strictness=7, Teasing=7")
	assert.Contains(t, gen.lastSystem, "platform policy")
	assert.Equal(t, "hello", gen.lastUser)
}

func TestReplyEmptyCompletionBecomesPlaceholder(t *testing.T) {
	gen := &fakeGenerator{reply: ""}
	svc, _, st := newPersonaFixture(t, gen)
	ctx := context.Background()

	out, err := svc.Reply(ctx, "U1", "alice", "anyone there?")
	require.NoError(t, err)
	assert.Equal(t, "(no response)", out)

	// the placeholder is still logged for future context windows
	logs, err := st.RecentLogs(ctx, "U1", 5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "(no response)", logs[0].Response)
}

func TestReplyGeneratorFailurePropagates(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc, _, st := newPersonaFixture(t, gen)
	ctx := context.Background()

	_, err := svc.Reply(ctx, "U1", "alice", "hello")
	require.Error(t, err)

	logs, err := st.RecentLogs(ctx, "U1", 5)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestReplyHistoryWindow(t *testing.T) {
	gen := &fakeGenerator{reply: "Noted."}
	svc, _, st := newPersonaFixture(t, gen)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, st.AppendLog(ctx, &model.InteractionLog{
			UserID:    "U1",
			Timestamp: time.Now().UTC(),
			Type:      "chat",
			Message:   "m" + string(rune('0'+i)),
			Response:  "r" + string(rune('0'+i)),
		}))
	}

	_, err := svc.Reply(ctx, "U1", "alice", "latest")
	require.NoError(t, err)

	// 5 newest pairs, oldest of the window first
	require.Len(t, gen.lastHistory, 10)
	assert.Equal(t, "m2", gen.lastHistory[0].Content)
	assert.Equal(t, "user", gen.lastHistory[0].Role)
	assert.Equal(t, "r6", gen.lastHistory[9].Content)
	assert.Equal(t, "assistant", gen.lastHistory[9].Role)
}
