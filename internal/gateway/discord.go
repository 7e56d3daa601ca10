package gateway

import (
	"context"
	"fmt"
	"strings"

	"mistressbot/internal/bot"
	"mistressbot/internal/logger"

	"github.com/bwmarrin/discordgo"
)

// Discord bridges gateway message events into bot events and sends replies.
type Discord struct {
	session *discordgo.Session
	bot     *bot.Bot
}

func NewDiscord(token string, b *bot.Bot) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent
	d := &Discord{session: session, bot: b}
	session.AddHandler(d.messageCreate)
	session.AddHandlerOnce(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Info("logged in", "user", r.User.Username)
	})
	return d, nil
}

func (d *Discord) Open() error {
	if err := d.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	return nil
}

func (d *Discord) Close() error { return d.session.Close() }

// Send posts one message to a channel; used by the daily broadcaster.
func (d *Discord) Send(channelID, content string) error {
	_, err := d.session.ChannelMessageSend(channelID, content)
	return err
}

func (d *Discord) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	username := m.Author.Username
	if m.Member != nil && m.Member.Nick != "" {
		username = m.Member.Nick
	}

	ev := bot.Event{
		UserID:      m.Author.ID,
		Username:    username,
		Content:     stripMention(m.Content, s.State.User.ID),
		IsAdmin:     d.isAdmin(m),
		MentionsBot: mentionsUser(m, s.State.User.ID),
	}

	reply := d.bot.Handle(context.Background(), ev)
	if reply == "" {
		return
	}
	_, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference())
	if err != nil {
		logger.Warn("reply send failed", "channel", m.ChannelID, "err", err)
	}
}

func (d *Discord) isAdmin(m *discordgo.MessageCreate) bool {
	if m.Member == nil {
		return false
	}
	perms, err := d.session.State.MessagePermissions(m.Message)
	if err != nil {
		return false
	}
	return perms&discordgo.PermissionAdministrator != 0
}

func mentionsUser(m *discordgo.MessageCreate, userID string) bool {
	for _, u := range m.Mentions {
		if u.ID == userID {
			return true
		}
	}
	return false
}

func stripMention(content, userID string) string {
	content = strings.ReplaceAll(content, "<@"+userID+">", "")
	content = strings.ReplaceAll(content, "<@!"+userID+">", "")
	return strings.TrimSpace(content)
}
