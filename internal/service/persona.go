package service

import (
	"context"
	"fmt"
	"time"

	"mistressbot/internal/logger"
	"mistressbot/internal/model"
	"mistressbot/internal/store"
)

// ProfileLoadFailedMsg is the fixed reply when a profile cannot be resolved;
// no generation happens and nothing is logged in that case.
const ProfileLoadFailedMsg = "Sorry, I couldn't load your profile."

const historyWindow = 5

const maxReplyTokens = 200

// Generator produces one text completion for a system instruction plus a
// user message. A success carrying no usable text is returned as "".
type Generator interface {
	Chat(ctx context.Context, system string, history []model.HistoryItem, user string, maxTokens int) (string, error)
}

// PersonaService assembles the persona prompt from the profile and recent
// interaction history, calls the generator, and logs the exchange.
type PersonaService struct {
	profiles *ProfileService
	store    *store.Store
	gen      Generator
}

func NewPersonaService(profiles *ProfileService, st *store.Store, gen Generator) *PersonaService {
	return &PersonaService{profiles: profiles, store: st, gen: gen}
}

// Reply generates one persona reply for a user message. Generator failures
// propagate to the caller, which owns the user-facing apology.
func (s *PersonaService) Reply(ctx context.Context, userID, username, message string) (string, error) {
	profile, err := s.profiles.GetOrCreate(ctx, userID, username)
	if err != nil || profile == nil {
		logger.Warn("profile load failed", "user_id", userID, "err", err)
		return ProfileLoadFailedMsg, nil
	}

	history := s.recentHistory(ctx, userID)

	system := personaPrompt(profile)
	content, err := s.gen.Chat(ctx, system, history, message, maxReplyTokens)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	if content == "" {
		// Logging the placeholder keeps conversational continuity for
		// future context windows.
		content = "(no response)"
	}

	l := &model.InteractionLog{
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Type:      "chat",
		Message:   message,
		Response:  content,
	}
	if err := s.store.AppendLog(ctx, l); err != nil {
		logger.Error("append chat log failed", "user_id", userID, "err", err)
	}
	return content, nil
}

// recentHistory returns the newest window of (message, response) pairs in
// chronological order, as generator history items. Used only as prompt
// context; a read failure degrades to an empty window.
func (s *PersonaService) recentHistory(ctx context.Context, userID string) []model.HistoryItem {
	logs, err := s.store.RecentLogs(ctx, userID, historyWindow)
	if err != nil {
		logger.Warn("recent logs failed", "user_id", userID, "err", err)
		return nil
	}
	items := make([]model.HistoryItem, 0, len(logs)*2)
	for i := len(logs) - 1; i >= 0; i-- {
		items = append(items,
			model.HistoryItem{Role: "user", Content: logs[i].Message},
			model.HistoryItem{Role: "assistant", Content: logs[i].Response},
		)
	}
	return items
}

func personaPrompt(p *model.User) string {
	mood := fmt.Sprintf("Affection=%d, Strictness=%d, Teasing=%d", p.Affection, p.Strictness, p.Teasing)
	return fmt.Sprintf(
		"You are MistressBot, a dominant, witty, and caring BDSM Mistress. "+
			"Remember user's safeword: %s. Limits: %s. Preferences: %s. Mood: %s. "+
			"Always be caring and avoid sexual content that violates platform policy.",
		p.Safeword, p.Limits, p.Preferences, mood)
}
