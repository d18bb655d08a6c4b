package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/campusrecords/internal/db"
)

// SettingsRepository reads and writes the key/value settings table
type SettingsRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(database *db.PostgresDB) *SettingsRepository {
	return &SettingsRepository{
		db: database,
		sb: psql,
	}
}

// All returns every stored setting
func (r *SettingsRepository) All(ctx context.Context) (map[string]string, error) {
	sql, args, err := r.sb.Select("setting", "value").From("settings").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list settings query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("error scanning setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// Set stores value under key, creating the row when missing
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	return r.SetMany(ctx, map[string]string{key: value})
}

// SetMany upserts every key in one statement, so either all values are
// saved or none are
func (r *SettingsRepository) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := r.sb.Insert("settings").Columns("setting", "value")
	for _, k := range keys {
		query = query.Values(k, values[k])
	}
	sql, args, err := query.
		Suffix("ON CONFLICT (setting) DO UPDATE SET value = EXCLUDED.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set settings query: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error saving settings %v: %w", keys, err)
	}
	return nil
}
