package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mistressbot/internal/model"
	"mistressbot/internal/store"
)

// ErrNoTasks means the task pool is empty; assignment fails gracefully.
var ErrNoTasks = errors.New("no task available")

// Sentinel replies for empty lookups. These are contracts, not errors.
const (
	NoTaskMsg        = "No task assigned for today."
	NoReminderMsg    = "No daily reminder set."
	DefaultAftercare = "Aftercare is essential. Hydrate, rest, and be gentle to yourself."
)

type TaskService struct {
	store *store.Store
}

func NewTaskService(st *store.Store) *TaskService { return &TaskService{store: st} }

func dateKey(t time.Time) string { return t.UTC().Format("2006-01-02") }

// AssignDaily assigns at most one task per user per UTC calendar day. A
// repeat call on the same day returns the existing assignment unchanged. Two
// near-simultaneous calls race on the insert; the partial unique index makes
// the loser's insert a duplicate, and the loser re-reads the winner's row.
func (s *TaskService) AssignDaily(ctx context.Context, userID string) (*model.UserTask, error) {
	day := dateKey(time.Now())

	ut, err := s.store.ActiveAssignment(ctx, userID, day)
	if err == nil {
		return ut, nil
	}
	if !store.IsNotFound(err) {
		return nil, fmt.Errorf("check assignment: %w", err)
	}

	task, err := s.store.RandomTask(ctx)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNoTasks
		}
		return nil, fmt.Errorf("pick task: %w", err)
	}

	ut = &model.UserTask{
		UserID:     userID,
		TaskID:     task.TaskID,
		AssignedAt: day,
		Status:     model.StatusAssigned,
	}
	if err := s.store.CreateAssignment(ctx, ut); err != nil {
		if !store.IsDuplicate(err) {
			return nil, fmt.Errorf("insert assignment: %w", err)
		}
		ut, err = s.store.ActiveAssignment(ctx, userID, day)
		if err != nil {
			return nil, fmt.Errorf("reread assignment: %w", err)
		}
	}
	return ut, nil
}

// CurrentTask returns today's task description, or the no-task sentinel.
func (s *TaskService) CurrentTask(ctx context.Context, userID string) (string, error) {
	desc, err := s.store.ActiveTaskDescription(ctx, userID, dateKey(time.Now()))
	if err != nil {
		if store.IsNotFound(err) {
			return NoTaskMsg, nil
		}
		return "", fmt.Errorf("current task: %w", err)
	}
	return desc, nil
}

// Complete marks today's assigned task as completed; it is a no-op when no
// assigned row exists for today.
func (s *TaskService) Complete(ctx context.Context, userID string) error {
	_, err := s.store.CompleteAssignment(ctx, userID, dateKey(time.Now()), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

func (s *TaskService) AddTask(ctx context.Context, description, createdBy string) error {
	t := &model.Task{Description: description, CreatedBy: createdBy, CreatedAt: time.Now().UTC()}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return fmt.Errorf("add task: %w", err)
	}
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID int) error {
	return s.store.DeleteTask(ctx, taskID)
}

func (s *TaskService) AddReminder(ctx context.Context, description, createdBy string) error {
	r := &model.Reminder{Description: description, CreatedBy: createdBy, CreatedAt: time.Now().UTC()}
	if err := s.store.CreateReminder(ctx, r); err != nil {
		return fmt.Errorf("add reminder: %w", err)
	}
	return nil
}

func (s *TaskService) DeleteReminder(ctx context.Context, reminderID int) error {
	return s.store.DeleteReminder(ctx, reminderID)
}

func (s *TaskService) AddAftercare(ctx context.Context, description, createdBy string) error {
	a := &model.Aftercare{Description: description, CreatedBy: createdBy, CreatedAt: time.Now().UTC()}
	if err := s.store.CreateAftercare(ctx, a); err != nil {
		return fmt.Errorf("add aftercare: %w", err)
	}
	return nil
}

func (s *TaskService) DeleteAftercare(ctx context.Context, aftercareID int) error {
	return s.store.DeleteAftercare(ctx, aftercareID)
}

// RandomReminder draws one reminder uniformly, falling back to the sentinel
// when the pool is empty.
func (s *TaskService) RandomReminder(ctx context.Context) string {
	r, err := s.store.RandomReminder(ctx)
	if err != nil {
		return NoReminderMsg
	}
	return r.Description
}

// RandomAftercare draws one aftercare tip uniformly, falling back to the
// fixed hydrate-and-rest text when the pool is empty.
func (s *TaskService) RandomAftercare(ctx context.Context) string {
	a, err := s.store.RandomAftercare(ctx)
	if err != nil {
		return DefaultAftercare
	}
	return a.Description
}
