package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mistressbot/internal/service"
	"mistressbot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeSender struct {
	sent   []string
	ailing bool
}

func (f *fakeSender) Send(channelID, content string) error {
	if f.ailing {
		return assert.AnError
	}
	f.sent = append(f.sent, content)
	return nil
}

func newBroadcasterFixture(t *testing.T) (*Broadcaster, *fakeSender, *service.TaskService) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "bot.db") + "?_busy_timeout=10000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	st := store.New(db)
	require.NoError(t, st.Migrate())
	tasks := service.NewTaskService(st)
	sender := &fakeSender{}
	return NewBroadcaster(tasks, sender, "chan-1", 9), sender, tasks
}

func at(hour, minute int, day int) time.Time {
	return time.Date(2026, 8, day, hour, minute, 0, 0, time.UTC)
}

func TestTickOutsideWindowDoesNothing(t *testing.T) {
	b, sender, _ := newBroadcasterFixture(t)
	ctx := context.Background()

	b.tick(ctx, at(8, 0, 1))
	b.tick(ctx, at(9, 1, 1))
	b.tick(ctx, at(10, 0, 1))
	assert.Empty(t, sender.sent)
}

func TestTickPostsReminderAndAftercare(t *testing.T) {
	b, sender, tasks := newBroadcasterFixture(t)
	ctx := context.Background()
	require.NoError(t, tasks.AddReminder(ctx, "drink water", "admin"))

	b.tick(ctx, at(9, 0, 1))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "**Mistress's Daily Reminder:**\ndrink water", sender.sent[0])
	assert.Equal(t, "**Today's Aftercare Tip:**\n"+service.DefaultAftercare, sender.sent[1])
}

func TestTickFiresAtMostOncePerDay(t *testing.T) {
	b, sender, _ := newBroadcasterFixture(t)
	ctx := context.Background()

	b.tick(ctx, at(9, 0, 1))
	b.tick(ctx, at(9, 0, 1))
	assert.Len(t, sender.sent, 2)

	b.tick(ctx, at(9, 0, 2))
	assert.Len(t, sender.sent, 4)
}

func TestSendFailuresAreSwallowed(t *testing.T) {
	b, sender, _ := newBroadcasterFixture(t)
	sender.ailing = true

	b.tick(context.Background(), at(9, 0, 1))
	assert.Empty(t, sender.sent)
}

func TestEmptyChannelDisablesBroadcast(t *testing.T) {
	b, sender, _ := newBroadcasterFixture(t)
	b.channelID = ""

	b.tick(context.Background(), at(9, 0, 1))
	assert.Empty(t, sender.sent)
}
