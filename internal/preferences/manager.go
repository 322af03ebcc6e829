package preferences

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/futig/examgenie/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Manager reads and writes the theme and user preferences
type Manager struct {
	storage Storage
}

func NewManager(storage Storage) *Manager {
	return &Manager{storage: storage}
}

// Theme returns the stored theme, light when none is stored
func (m *Manager) Theme(ctx context.Context) (entity.Theme, error) {
	value, ok, err := m.storage.Get(ctx, KeyTheme)
	if err != nil {
		return entity.ThemeLight, fmt.Errorf("get theme: %w", err)
	}
	if !ok {
		return entity.ThemeLight, nil
	}
	return entity.ParseTheme(value), nil
}

// ToggleTheme flips the stored theme and returns the new one
func (m *Manager) ToggleTheme(ctx context.Context) (entity.Theme, error) {
	current, err := m.Theme(ctx)
	if err != nil {
		return current, err
	}

	next := current.Toggle()
	if err := m.storage.Set(ctx, KeyTheme, string(next)); err != nil {
		return current, fmt.Errorf("set theme: %w", err)
	}

	ctxzap.Debug(ctx, "theme toggled", zap.String("theme", string(next)))
	return next, nil
}

// User returns the logged-in user or nil. A malformed record counts as logged out.
func (m *Manager) User(ctx context.Context) (*entity.UserSession, error) {
	value, ok, err := m.storage.Get(ctx, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var user entity.UserSession
	if err := json.Unmarshal([]byte(value), &user); err != nil || strings.TrimSpace(user.Name) == "" {
		ctxzap.Warn(ctx, "ignoring malformed user preference", zap.Error(err))
		return nil, nil
	}
	return &user, nil
}

// Login stores the user record shown in the header
func (m *Manager) Login(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: user name", entity.ErrMissingField)
	}

	data, err := json.Marshal(entity.UserSession{Name: name})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := m.storage.Set(ctx, KeyUser, string(data)); err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	return nil
}

// Logout clears the user record
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.storage.Delete(ctx, KeyUser); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Header reads both preferences and builds the header
func (m *Manager) Header(ctx context.Context) (Header, error) {
	user, err := m.User(ctx)
	if err != nil {
		return Header{}, err
	}
	theme, err := m.Theme(ctx)
	if err != nil {
		return Header{}, err
	}
	return BuildHeader(user, theme), nil
}
