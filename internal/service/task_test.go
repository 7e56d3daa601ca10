package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignDailyIdempotent(t *testing.T) {
	st := newTestStore(t)
	svc := NewTaskService(st)
	ctx := context.Background()

	for _, desc := range []string{"kneel for five minutes", "write a journal entry", "no coffee today"} {
		require.NoError(t, svc.AddTask(ctx, desc, "admin"))
	}

	first, err := svc.AssignDaily(ctx, "U1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := svc.AssignDaily(ctx, "U1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, first.TaskID, again.TaskID)
	}

	desc, err := svc.CurrentTask(ctx, "U1")
	require.NoError(t, err)
	assert.NotEqual(t, NoTaskMsg, desc)
}

func TestAssignDailyEmptyPool(t *testing.T) {
	st := newTestStore(t)
	svc := NewTaskService(st)
	ctx := context.Background()

	_, err := svc.AssignDaily(ctx, "U1")
	assert.ErrorIs(t, err, ErrNoTasks)

	desc, err := svc.CurrentTask(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, NoTaskMsg, desc)
}

func TestCompleteWithoutAssignmentIsNoop(t *testing.T) {
	st := newTestStore(t)
	svc := NewTaskService(st)
	ctx := context.Background()

	require.NoError(t, svc.Complete(ctx, "U1"))

	desc, err := svc.CurrentTask(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, NoTaskMsg, desc)
}

func TestCompleteClearsCurrentTask(t *testing.T) {
	st := newTestStore(t)
	svc := NewTaskService(st)
	ctx := context.Background()

	require.NoError(t, svc.AddTask(ctx, "stretch for ten minutes", "admin"))
	_, err := svc.AssignDaily(ctx, "U1")
	require.NoError(t, err)

	require.NoError(t, svc.Complete(ctx, "U1"))

	desc, err := svc.CurrentTask(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, NoTaskMsg, desc)

	// a completed day leaves room for a fresh assignment
	next, err := svc.AssignDaily(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "assigned", next.Status)
}

func TestConcurrentAssignDaily(t *testing.T) {
	st := newTestStore(t)
	svc := NewTaskService(st)
	ctx := context.Background()

	require.NoError(t, svc.AddTask(ctx, "one task pool", "admin"))

	var wg sync.WaitGroup
	results := make([]int, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ut, err := svc.AssignDaily(ctx, "U1")
			errs[i] = err
			if ut != nil {
				results[i] = ut.ID
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0], results[1])
}

func TestContentPoolSentinels(t *testing.T) {
	st := newTestStore(t)
	svc := NewTaskService(st)
	ctx := context.Background()

	assert.Equal(t, NoReminderMsg, svc.RandomReminder(ctx))
	assert.Equal(t, DefaultAftercare, svc.RandomAftercare(ctx))

	require.NoError(t, svc.AddReminder(ctx, "drink water", "admin"))
	require.NoError(t, svc.AddAftercare(ctx, "wrap up in a blanket", "admin"))

	assert.Equal(t, "drink water", svc.RandomReminder(ctx))
	assert.Equal(t, "wrap up in a blanket", svc.RandomAftercare(ctx))
}

func TestDeleteFromPools(t *testing.T) {
	st := newTestStore(t)
	svc := NewTaskService(st)
	ctx := context.Background()

	require.NoError(t, svc.AddReminder(ctx, "drink water", "admin"))
	rs, err := st.ListReminders(ctx)
	require.NoError(t, err)
	require.Len(t, rs, 1)

	require.NoError(t, svc.DeleteReminder(ctx, rs[0].ReminderID))
	assert.Equal(t, NoReminderMsg, svc.RandomReminder(ctx))
}
