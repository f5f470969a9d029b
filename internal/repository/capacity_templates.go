package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
)

func (r *Repository) GetCapacityTemplate(key string) (*domain.CapacityTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT week_pattern, holidays, recurring_holidays, updated_at, version
		FROM capacity_templates WHERE key = $1
	`

	tpl := &domain.CapacityTemplate{
		Key: key,
	}

	var weekPattern, holidays, recurringHolidays []byte
	dst := []any{&weekPattern, &holidays, &recurringHolidays, &tpl.UpdatedAt, &tpl.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, key).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(weekPattern, &tpl.WeekPattern); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(holidays, &tpl.Holidays); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(recurringHolidays, &tpl.RecurringHolidays); err != nil {
		return nil, err
	}

	return tpl, nil
}

// ReplaceCapacityTemplate 整体替换容量模板，带乐观版本检查，
// 版本不匹配时返回 sql.ErrNoRows，由调用方提示用户重试
func (r *Repository) ReplaceCapacityTemplate(tpl *domain.CapacityTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	weekPattern, err := json.Marshal(tpl.WeekPattern)
	if err != nil {
		return err
	}
	holidays, err := json.Marshal(tpl.Holidays)
	if err != nil {
		return err
	}
	recurringHolidays, err := json.Marshal(tpl.RecurringHolidays)
	if err != nil {
		return err
	}

	query := `
		UPDATE capacity_templates
		SET
			week_pattern = $1,
			holidays = $2,
			recurring_holidays = $3,
			updated_at = now(),
			version = version + 1
		WHERE key = $4 AND version = $5
		RETURNING updated_at, version
	`

	args := []any{weekPattern, holidays, recurringHolidays, tpl.Key, tpl.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&tpl.UpdatedAt, &tpl.Version); err != nil {
		return err
	}

	return nil
}

// EnsureCapacityTemplate 在首次启动时写入初始模板，已存在则不做任何事
func (r *Repository) EnsureCapacityTemplate(tpl *domain.CapacityTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	weekPattern, err := json.Marshal(tpl.WeekPattern)
	if err != nil {
		return err
	}
	holidays, err := json.Marshal(tpl.Holidays)
	if err != nil {
		return err
	}
	recurringHolidays, err := json.Marshal(tpl.RecurringHolidays)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO capacity_templates (key, week_pattern, holidays, recurring_holidays)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO NOTHING
	`

	if _, err := r.dbpool.ExecContext(ctx, query, tpl.Key, weekPattern, holidays, recurringHolidays); err != nil {
		return err
	}

	return nil
}
