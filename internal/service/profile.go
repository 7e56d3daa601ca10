package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mistressbot/internal/model"
	"mistressbot/internal/store"
)

// ErrInvalidField is returned before any store access when a profile update
// names a field outside the whitelist. The whitelist is the sole
// injection-prevention boundary for profile writes.
var ErrInvalidField = errors.New("invalid field")

// ProfileField is the closed set of user columns a set-command may touch.
type ProfileField int

const (
	FieldUsername ProfileField = iota
	FieldSafeword
	FieldLimits
	FieldPreferences
	FieldAffection
	FieldStrictness
	FieldTeasing
	FieldLastSeen
)

// ParseProfileField maps an external field name onto the whitelist.
func ParseProfileField(name string) (ProfileField, error) {
	switch name {
	case "username":
		return FieldUsername, nil
	case "safeword":
		return FieldSafeword, nil
	case "limits":
		return FieldLimits, nil
	case "preferences":
		return FieldPreferences, nil
	case "affection":
		return FieldAffection, nil
	case "strictness":
		return FieldStrictness, nil
	case "teasing":
		return FieldTeasing, nil
	case "last_seen":
		return FieldLastSeen, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidField, name)
	}
}

// column returns the fixed column name for a field; update statements are
// enumerated at compile time, never built from external input.
func (f ProfileField) column() string {
	switch f {
	case FieldUsername:
		return "username"
	case FieldSafeword:
		return "safeword"
	case FieldLimits:
		return "limits"
	case FieldPreferences:
		return "preferences"
	case FieldAffection:
		return "affection"
	case FieldStrictness:
		return "strictness"
	case FieldTeasing:
		return "teasing"
	case FieldLastSeen:
		return "last_seen"
	}
	return ""
}

type ProfileService struct {
	store *store.Store
}

func NewProfileService(st *store.Store) *ProfileService { return &ProfileService{store: st} }

// GetOrCreate looks a user up by identity and lazily inserts a defaults row
// on first contact. Two concurrent first contacts race on the insert; the
// primary key makes the loser's insert fail as a duplicate, and the loser
// re-reads the winner's row instead of failing.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID, username string) (*model.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err == nil {
		return u, nil
	}
	if !store.IsNotFound(err) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	nu := &model.User{
		UserID:     userID,
		Username:   username,
		Safeword:   "red",
		Affection:  5,
		Strictness: 7,
		Teasing:    7,
		LastSeen:   time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, nu); err != nil && !store.IsDuplicate(err) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	u, err = s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reread user: %w", err)
	}
	return u, nil
}

// SetField updates exactly one whitelisted column for one identity. Unknown
// field names are rejected before any write.
func (s *ProfileService) SetField(ctx context.Context, userID, field string, value any) error {
	f, err := ParseProfileField(field)
	if err != nil {
		return err
	}
	if err := s.store.UpdateUserColumn(ctx, userID, f.column(), value); err != nil {
		return fmt.Errorf("update %s: %w", f.column(), err)
	}
	return nil
}
