package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mistressbot/internal/logger"
	"mistressbot/internal/model"
	"mistressbot/internal/service"
	"mistressbot/internal/store"
)

// Event is one inbound gateway message, reduced to what the core needs.
// Content arrives with any bot mention already stripped by the adapter.
type Event struct {
	UserID      string
	Username    string
	Content     string
	FromBot     bool
	IsAdmin     bool
	MentionsBot bool
}

type Bot struct {
	profiles *service.ProfileService
	tasks    *service.TaskService
	persona  *service.PersonaService
	store    *store.Store
}

func New(profiles *service.ProfileService, tasks *service.TaskService, persona *service.PersonaService, st *store.Store) *Bot {
	return &Bot{profiles: profiles, tasks: tasks, persona: persona, store: st}
}

// Handle processes one inbound event and returns the single reply for it, or
// "" when the event is not addressed to the bot. Every command path replies
// exactly once, including failures.
func (b *Bot) Handle(ctx context.Context, ev Event) string {
	if ev.FromBot {
		return ""
	}

	cmd := Parse(ev.Content)

	if ev.MentionsBot || cmd.Kind == KindMistress {
		text := strings.TrimSpace(ev.Content)
		if cmd.Kind == KindMistress {
			text = strings.Join(cmd.Args, " ")
		}
		return b.mistress(ctx, ev, text)
	}

	if cmd.Kind.admin() && !ev.IsAdmin {
		return "Admin only."
	}

	switch cmd.Kind {
	case KindNone, KindMistress:
		return ""
	case KindSetSafeword:
		if len(cmd.Args) < 1 {
			return "Usage: !setsafeword <word>"
		}
		return b.setField(ctx, ev.UserID, "safeword", strings.Join(cmd.Args, " "), "Safeword updated.")
	case KindSetLimits:
		return b.setField(ctx, ev.UserID, "limits", strings.Join(cmd.Args, " "), "Limits updated.")
	case KindSetPrefs:
		return b.setField(ctx, ev.UserID, "preferences", strings.Join(cmd.Args, " "), "Preferences updated.")
	case KindProfile:
		return b.profile(ctx, ev)
	case KindDailyTask:
		return b.dailyTask(ctx, ev)
	case KindTaskDone:
		return b.taskDone(ctx, ev)
	case KindAftercare:
		return "Aftercare:\n" + b.tasks.RandomAftercare(ctx)
	case KindDailyReminder:
		return "Daily Reminder:\n" + b.tasks.RandomReminder(ctx)
	case KindAddTask:
		if err := b.tasks.AddTask(ctx, strings.Join(cmd.Args, " "), ev.UserID); err != nil {
			logger.Error("add task failed", "err", err)
			return "Could not add task."
		}
		return "Task added."
	case KindDelTask:
		id, err := strconv.Atoi(argAt(cmd.Args, 0))
		if err != nil {
			return "Usage: !deltask <id>"
		}
		if err := b.tasks.DeleteTask(ctx, id); err != nil {
			logger.Error("delete task failed", "err", err)
			return "Could not delete task."
		}
		return "Task deleted."
	case KindAddReminder:
		if err := b.tasks.AddReminder(ctx, strings.Join(cmd.Args, " "), ev.UserID); err != nil {
			logger.Error("add reminder failed", "err", err)
			return "Could not add reminder."
		}
		return "Reminder added."
	case KindDelReminder:
		id, err := strconv.Atoi(argAt(cmd.Args, 0))
		if err != nil {
			return "Usage: !delreminder <id>"
		}
		if err := b.tasks.DeleteReminder(ctx, id); err != nil {
			logger.Error("delete reminder failed", "err", err)
			return "Could not delete reminder."
		}
		return "Reminder deleted."
	case KindAddAftercare:
		if err := b.tasks.AddAftercare(ctx, strings.Join(cmd.Args, " "), ev.UserID); err != nil {
			logger.Error("add aftercare failed", "err", err)
			return "Could not add aftercare."
		}
		return "Aftercare added."
	case KindDelAftercare:
		id, err := strconv.Atoi(argAt(cmd.Args, 0))
		if err != nil {
			return "Usage: !delaftercare <id>"
		}
		if err := b.tasks.DeleteAftercare(ctx, id); err != nil {
			logger.Error("delete aftercare failed", "err", err)
			return "Could not delete aftercare."
		}
		return "Aftercare deleted."
	case KindAdminDash:
		return b.adminDash(ctx, cmd.Args)
	}
	return ""
}

func (b *Bot) mistress(ctx context.Context, ev Event, text string) string {
	if text == "" {
		return "Please provide a message."
	}
	reply, err := b.persona.Reply(ctx, ev.UserID, ev.Username, text)
	if err != nil {
		logger.Error("persona reply failed", "user_id", ev.UserID, "err", err)
		return "Sorry, I had an error generating a reply."
	}
	return reply
}

func (b *Bot) setField(ctx context.Context, userID, field, value, ok string) string {
	if err := b.profiles.SetField(ctx, userID, field, value); err != nil {
		logger.Error("set field failed", "field", field, "err", err)
		return "Could not update " + field + "."
	}
	return ok
}

func (b *Bot) profile(ctx context.Context, ev Event) string {
	p, err := b.profiles.GetOrCreate(ctx, ev.UserID, ev.Username)
	if err != nil {
		logger.Error("profile lookup failed", "user_id", ev.UserID, "err", err)
		return "Profile not found."
	}
	return fmt.Sprintf("Safeword: %s\nLimits: %s\nPreferences: %s\nAffection: %d\nStrictness: %d\nTeasing: %d",
		p.Safeword, p.Limits, p.Preferences, p.Affection, p.Strictness, p.Teasing)
}

func (b *Bot) dailyTask(ctx context.Context, ev Event) string {
	if _, err := b.tasks.AssignDaily(ctx, ev.UserID); err != nil && !errors.Is(err, service.ErrNoTasks) {
		logger.Error("assign daily failed", "user_id", ev.UserID, "err", err)
	}
	task, err := b.tasks.CurrentTask(ctx, ev.UserID)
	if err != nil {
		logger.Error("current task failed", "user_id", ev.UserID, "err", err)
		return "Your daily task:\n" + service.NoTaskMsg
	}
	return "Your daily task:\n" + task
}

func (b *Bot) taskDone(ctx context.Context, ev Event) string {
	if err := b.tasks.Complete(ctx, ev.UserID); err != nil {
		logger.Error("complete task failed", "user_id", ev.UserID, "err", err)
	}
	tip := b.tasks.RandomAftercare(ctx)
	l := &model.InteractionLog{
		UserID:    ev.UserID,
		Timestamp: time.Now().UTC(),
		Type:      "aftercare",
		Message:   "Completed my task",
		Response:  tip,
	}
	if err := b.store.AppendLog(ctx, l); err != nil {
		logger.Error("append aftercare log failed", "user_id", ev.UserID, "err", err)
	}
	return "Aftercare:\n" + tip
}

func (b *Bot) adminDash(ctx context.Context, args []string) string {
	switch argAt(args, 0) {
	case "users":
		users, err := b.store.ListUsers(ctx)
		if err != nil {
			return "Could not list users."
		}
		lines := make([]string, 0, len(users))
		for _, u := range users {
			lines = append(lines, fmt.Sprintf("%s (ID:%s) - Safeword:%s Limits:%s Prefs:%s",
				u.Username, u.UserID, u.Safeword, u.Limits, u.Preferences))
		}
		return "User Profiles:\n" + strings.Join(lines, "\n")
	case "tasks":
		tasks, err := b.store.ListTasks(ctx)
		if err != nil {
			return "Could not list tasks."
		}
		lines := make([]string, 0, len(tasks))
		for _, t := range tasks {
			lines = append(lines, fmt.Sprintf("%d: %s", t.TaskID, t.Description))
		}
		return "Tasks:\n" + strings.Join(lines, "\n")
	case "reminders":
		rs, err := b.store.ListReminders(ctx)
		if err != nil {
			return "Could not list reminders."
		}
		lines := make([]string, 0, len(rs))
		for _, r := range rs {
			lines = append(lines, fmt.Sprintf("%d: %s", r.ReminderID, r.Description))
		}
		return "Reminders:\n" + strings.Join(lines, "\n")
	case "aftercare":
		as, err := b.store.ListAftercare(ctx)
		if err != nil {
			return "Could not list aftercare."
		}
		lines := make([]string, 0, len(as))
		for _, a := range as {
			lines = append(lines, fmt.Sprintf("%d: %s", a.AftercareID, a.Description))
		}
		return "Aftercare:\n" + strings.Join(lines, "\n")
	case "logs":
		limit := 10
		if n, err := strconv.Atoi(argAt(args, 1)); err == nil && n > 0 {
			limit = n
		}
		logs, err := b.store.RecentLogsAll(ctx, limit)
		if err != nil {
			return "Could not list logs."
		}
		lines := make([]string, 0, len(logs))
		for _, l := range logs {
			lines = append(lines, fmt.Sprintf("%s [%s] %s: %s -> %s",
				l.Timestamp.Format(time.RFC3339), l.Type, l.UserID, l.Message, l.Response))
		}
		return "Logs:\n" + strings.Join(lines, "\n")
	default:
		return "Sections: users, tasks, reminders, aftercare, logs"
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
