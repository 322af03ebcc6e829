package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	getPreferenceQuery = `SELECT value FROM user_preferences WHERE user_id = $1 AND key = $2`

	upsertPreferenceQuery = `
INSERT INTO user_preferences (user_id, key, value, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	deletePreferenceQuery = `DELETE FROM user_preferences WHERE user_id = $1 AND key = $2`
)

// PreferencesRepository stores bot user preferences in Postgres
type PreferencesRepository struct {
	db *pgxpool.Pool
}

func NewPreferencesRepository(db *pgxpool.Pool) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// ForUser returns a key/value store scoped to one Telegram user
func (r *PreferencesRepository) ForUser(userID int64) *UserPreferences {
	return &UserPreferences{repo: r, userID: userID}
}

func (r *PreferencesRepository) get(ctx context.Context, userID int64, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(ctx, getPreferenceQuery, userID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query preference %s: %w", key, err)
	}
	return value, true, nil
}

func (r *PreferencesRepository) set(ctx context.Context, userID int64, key, value string) error {
	if _, err := r.db.Exec(ctx, upsertPreferenceQuery, userID, key, value); err != nil {
		return fmt.Errorf("upsert preference %s: %w", key, err)
	}
	return nil
}

func (r *PreferencesRepository) delete(ctx context.Context, userID int64, key string) error {
	if _, err := r.db.Exec(ctx, deletePreferenceQuery, userID, key); err != nil {
		return fmt.Errorf("delete preference %s: %w", key, err)
	}
	return nil
}

// UserPreferences implements preferences.Storage for one user
type UserPreferences struct {
	repo   *PreferencesRepository
	userID int64
}

func (u *UserPreferences) Get(ctx context.Context, key string) (string, bool, error) {
	return u.repo.get(ctx, u.userID, key)
}

func (u *UserPreferences) Set(ctx context.Context, key, value string) error {
	return u.repo.set(ctx, u.userID, key, value)
}

func (u *UserPreferences) Delete(ctx context.Context, key string) error {
	return u.repo.delete(ctx, u.userID, key)
}
