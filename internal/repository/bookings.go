package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/availability"
	"github.com/sysu-ecnc-dev/makerspace-booking/backend/internal/domain"
)

// CreateBookingChecked 在持有当天预约锁的事务中重新核算剩余名额后再落库。
// 两个并发的同日预约会在 pg_advisory_xact_lock 上排队，
// 后到的一方会看到先到一方已写入的记录，因此合计人数不可能超过容量。
// 名额不足时返回 domain.ErrCapacityExceeded，一条记录都不会写入。
func (r *Repository) CreateBookingChecked(booking *domain.Booking, tpl *domain.CapacityTemplate) error {
	day, err := availability.ParseDate(booking.Date)
	if err != nil {
		return domain.ErrInvalidBookingDate
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 以日期为粒度的咨询锁，事务结束时自动释放
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, booking.Date); err != nil {
		return err
	}

	query := `
		SELECT id, booking_date, start_hour, end_hour, npeople, owner, description, created_at
		FROM bookings WHERE booking_date = $1
	`
	rows, err := tx.QueryContext(ctx, query, booking.Date)
	if err != nil {
		return err
	}

	sameDay, err := scanBookings(rows)
	if err != nil {
		return err
	}

	grid := availability.Compute(day, day, tpl, sameDay)
	if availability.MinRemaining(grid[0], booking.StartHour, booking.EndHour) < booking.NPeople {
		return domain.ErrCapacityExceeded
	}

	query = `
		INSERT INTO bookings (booking_date, start_hour, end_hour, npeople, owner, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	args := []any{booking.Date, booking.StartHour, booking.EndHour, booking.NPeople, booking.Owner, booking.Description}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &booking.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetBookingByID(id int64) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT booking_date, start_hour, end_hour, npeople, owner, description, created_at
		FROM bookings WHERE id = $1
	`

	booking := &domain.Booking{
		ID: id,
	}

	var date time.Time
	dst := []any{&date, &booking.StartHour, &booking.EndHour, &booking.NPeople, &booking.Owner, &booking.Description, &booking.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	booking.Date = date.Format(domain.BookingDateLayout)
	return booking, nil
}

// DeleteBooking 硬删除预约，返回是否真的删掉了记录，
// 让调用方能把「预约不存在」和「取消成功」区分开
func (r *Repository) DeleteBooking(id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM bookings WHERE id = $1
	`

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// GetBookingsInDateRange 按预约发生的日期查询，[from, to] 含两端
func (r *Repository) GetBookingsInDateRange(from, to string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, booking_date, start_hour, end_hour, npeople, owner, description, created_at
		FROM bookings
		WHERE booking_date >= $1 AND booking_date <= $2
		ORDER BY booking_date, start_hour
	`

	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}

	return scanBookings(rows)
}

func (r *Repository) GetBookingsByOwnerInDateRange(owner, from, to string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, booking_date, start_hour, end_hour, npeople, owner, description, created_at
		FROM bookings
		WHERE owner = $1 AND booking_date >= $2 AND booking_date <= $3
		ORDER BY booking_date, start_hour
	`

	rows, err := r.dbpool.QueryContext(ctx, query, owner, from, to)
	if err != nil {
		return nil, err
	}

	return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking := &domain.Booking{}
		var date time.Time
		dst := []any{&booking.ID, &date, &booking.StartHour, &booking.EndHour, &booking.NPeople, &booking.Owner, &booking.Description, &booking.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		booking.Date = date.Format(domain.BookingDateLayout)
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}
