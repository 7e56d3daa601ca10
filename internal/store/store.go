package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mistressbot/internal/model"

	"gorm.io/gorm"
)

// Store is the only component that touches the schema. It exposes one typed
// method per query shape; business rules live in the services above it.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

// Migrate creates the schema if it does not exist. The partial index keeps
// the at-most-one-assigned-row-per-user-per-day invariant enforced even when
// two assignment inserts race.
func (s *Store) Migrate() error {
	err := s.db.AutoMigrate(
		&model.User{},
		&model.Task{},
		&model.UserTask{},
		&model.Reminder{},
		&model.Aftercare{},
		&model.InteractionLog{},
		&model.Operator{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	err = s.db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uk_user_tasks_active
		 ON user_tasks(user_id, assigned_at) WHERE status = 'assigned'`,
	).Error
	if err != nil {
		return fmt.Errorf("create active-assignment index: %w", err)
	}
	return nil
}

// IsDuplicate reports whether err is a uniqueness violation. Callers treat it
// as "row already exists, re-read" rather than a failure.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// --- users ---

func (s *Store) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

// UpdateUserColumn performs a single-column update keyed by user_id. The
// column name must come from the compile-time field whitelist in the profile
// service; this method is never handed external input as a column name.
func (s *Store) UpdateUserColumn(ctx context.Context, userID, column string, value any) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", userID).
		Update(column, value).Error
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// --- tasks ---

func (s *Store) CreateTask(ctx context.Context, t *model.Task) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *Store) DeleteTask(ctx context.Context, taskID int) error {
	return s.db.WithContext(ctx).Delete(&model.Task{}, "task_id = ?", taskID).Error
}

// RandomTask selects uniformly over the full pool at selection time.
func (s *Store) RandomTask(ctx context.Context) (*model.Task, error) {
	var t model.Task
	if err := s.db.WithContext(ctx).Order("RANDOM()").Take(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// --- task assignments ---

func (s *Store) ActiveAssignment(ctx context.Context, userID, day string) (*model.UserTask, error) {
	var ut model.UserTask
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND assigned_at = ? AND status = ?", userID, day, model.StatusAssigned).
		First(&ut).Error
	if err != nil {
		return nil, err
	}
	return &ut, nil
}

func (s *Store) CreateAssignment(ctx context.Context, ut *model.UserTask) error {
	return s.db.WithContext(ctx).Create(ut).Error
}

// ActiveTaskDescription joins today's assigned row to its task definition.
func (s *Store) ActiveTaskDescription(ctx context.Context, userID, day string) (string, error) {
	var row struct{ Description string }
	err := s.db.WithContext(ctx).
		Table("user_tasks").
		Select("tasks.description AS description").
		Joins("JOIN tasks ON tasks.task_id = user_tasks.task_id").
		Where("user_tasks.user_id = ? AND user_tasks.assigned_at = ? AND user_tasks.status = ?",
			userID, day, model.StatusAssigned).
		Take(&row).Error
	if err != nil {
		return "", err
	}
	return row.Description, nil
}

// CompleteAssignment flips today's assigned row to completed; the returned
// count is zero when no assigned row exists, which callers treat as a no-op.
func (s *Store) CompleteAssignment(ctx context.Context, userID, day string, at time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&model.UserTask{}).
		Where("user_id = ? AND assigned_at = ? AND status = ?", userID, day, model.StatusAssigned).
		Updates(map[string]any{"status": model.StatusCompleted, "completed_at": at})
	return res.RowsAffected, res.Error
}

// --- reminder pool ---

func (s *Store) CreateReminder(ctx context.Context, r *model.Reminder) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Store) DeleteReminder(ctx context.Context, reminderID int) error {
	return s.db.WithContext(ctx).Delete(&model.Reminder{}, "reminder_id = ?", reminderID).Error
}

func (s *Store) RandomReminder(ctx context.Context) (*model.Reminder, error) {
	var r model.Reminder
	if err := s.db.WithContext(ctx).Order("RANDOM()").Take(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListReminders(ctx context.Context) ([]model.Reminder, error) {
	var rs []model.Reminder
	if err := s.db.WithContext(ctx).Find(&rs).Error; err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return rs, nil
}

// --- aftercare pool ---

func (s *Store) CreateAftercare(ctx context.Context, a *model.Aftercare) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *Store) DeleteAftercare(ctx context.Context, aftercareID int) error {
	return s.db.WithContext(ctx).Delete(&model.Aftercare{}, "aftercare_id = ?", aftercareID).Error
}

func (s *Store) RandomAftercare(ctx context.Context) (*model.Aftercare, error) {
	var a model.Aftercare
	if err := s.db.WithContext(ctx).Order("RANDOM()").Take(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAftercare(ctx context.Context) ([]model.Aftercare, error) {
	var as []model.Aftercare
	if err := s.db.WithContext(ctx).Find(&as).Error; err != nil {
		return nil, fmt.Errorf("list aftercare: %w", err)
	}
	return as, nil
}

// --- interaction logs ---

func (s *Store) AppendLog(ctx context.Context, l *model.InteractionLog) error {
	return s.db.WithContext(ctx).Create(l).Error
}

// RecentLogs returns the newest limit rows for one user, newest first.
func (s *Store) RecentLogs(ctx context.Context, userID string, limit int) ([]model.InteractionLog, error) {
	var logs []model.InteractionLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("log_id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("recent logs: %w", err)
	}
	return logs, nil
}

func (s *Store) RecentLogsAll(ctx context.Context, limit int) ([]model.InteractionLog, error) {
	var logs []model.InteractionLog
	err := s.db.WithContext(ctx).
		Order("log_id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("recent logs: %w", err)
	}
	return logs, nil
}

// --- operators ---

func (s *Store) CreateOperator(ctx context.Context, op *model.Operator) error {
	return s.db.WithContext(ctx).Create(op).Error
}

func (s *Store) GetOperator(ctx context.Context, username string) (*model.Operator, error) {
	var op model.Operator
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}
