package model

import "time"

// Assignment status values for UserTask.Status.
const (
	StatusAssigned  = "assigned"
	StatusCompleted = "completed"
)

type User struct {
	UserID      string    `gorm:"primaryKey" json:"user_id"`
	Username    string    `json:"username"`
	Safeword    string    `gorm:"default:red" json:"safeword"`
	Limits      string    `json:"limits"`
	Preferences string    `json:"preferences"`
	Affection   int       `gorm:"default:5" json:"affection"`
	Strictness  int       `gorm:"default:7" json:"strictness"`
	Teasing     int       `gorm:"default:7" json:"teasing"`
	LastSeen    time.Time `json:"last_seen"`
}

type Task struct {
	TaskID      int       `gorm:"primaryKey" json:"task_id"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserTask links one user to one task for one UTC calendar day. At most one
// row per (user_id, assigned_at) may hold status "assigned"; that is enforced
// by a partial unique index created in store.Migrate.
type UserTask struct {
	ID          int        `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"index" json:"user_id"`
	TaskID      int        `json:"task_id"`
	AssignedAt  string     `gorm:"type:date" json:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      string     `json:"status"`
}

type Reminder struct {
	ReminderID  int       `gorm:"primaryKey" json:"reminder_id"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type Aftercare struct {
	AftercareID int       `gorm:"primaryKey" json:"aftercare_id"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// InteractionLog is append-only; rows are read back only as a bounded
// most-recent window for prompt assembly.
type InteractionLog struct {
	LogID     int       `gorm:"primaryKey" json:"log_id"`
	UserID    string    `gorm:"index" json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
}

// Operator is a dashboard account for the admin HTTP API; it is unrelated to
// chat identities in the users table.
type Operator struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex" json:"username"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (User) TableName() string           { return "users" }
func (Task) TableName() string           { return "tasks" }
func (UserTask) TableName() string       { return "user_tasks" }
func (Reminder) TableName() string       { return "reminders" }
func (Aftercare) TableName() string      { return "aftercare" }
func (InteractionLog) TableName() string { return "logs" }
func (Operator) TableName() string       { return "operators" }
