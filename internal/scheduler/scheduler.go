package scheduler

import (
	"context"
	"time"

	"mistressbot/internal/logger"
	"mistressbot/internal/service"
)

// Sender posts one outbound message; send failures are swallowed here.
type Sender interface {
	Send(channelID, content string) error
}

// Broadcaster posts the daily reminder and aftercare tip once per UTC day,
// at minute 0 of the configured hour, checked on a one-minute poll.
type Broadcaster struct {
	tasks     *service.TaskService
	sender    Sender
	channelID string
	hour      int
	lastDay   string
}

func NewBroadcaster(tasks *service.TaskService, sender Sender, channelID string, hour int) *Broadcaster {
	return &Broadcaster{tasks: tasks, sender: sender, channelID: channelID, hour: hour}
}

func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			b.tick(ctx, now)
		}
	}
}

func (b *Broadcaster) tick(ctx context.Context, now time.Time) {
	if b.channelID == "" {
		return
	}
	now = now.UTC()
	if now.Hour() != b.hour || now.Minute() != 0 {
		return
	}
	day := now.Format("2006-01-02")
	if day == b.lastDay {
		return
	}
	b.lastDay = day

	reminder := b.tasks.RandomReminder(ctx)
	aftercare := b.tasks.RandomAftercare(ctx)
	if err := b.sender.Send(b.channelID, "**Mistress's Daily Reminder:**\n"+reminder); err != nil {
		logger.Warn("daily reminder send failed", "err", err)
	}
	if err := b.sender.Send(b.channelID, "**Today's Aftercare Tip:**\n"+aftercare); err != nil {
		logger.Warn("aftercare tip send failed", "err", err)
	}
	logger.Info("daily broadcast posted", "day", day)
}
