package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `b.id, b.item_id, i.name, b.booker_id, b.start_at, b.end_at, b.status, b.created_at, b.updated_at`

const bookingSelect = `SELECT ` + bookingColumns + ` FROM bookings b JOIN items i ON i.id = b.item_id`

func scanBooking(row interface{ Scan(...interface{}) error }) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.BookerID,
		&b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBooking создает бронирование, перепроверяя доступность вещи
// внутри транзакции
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var available bool
	err = tx.QueryRowContext(ctx, `SELECT available FROM items WHERE id = ?`, booking.ItemID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check item availability in tx: %w", err)
	}
	if !available {
		return ErrNotAvailable
	}

	query := `INSERT INTO bookings (item_id, booker_id, start_at, end_at, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start.UTC(),
		booking.End.UTC(),
		models.StatusWaiting,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.Status = models.StatusWaiting
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// DecideBooking переводит бронирование из WAITING в APPROVED или REJECTED.
// Статус перечитывается внутри транзакции, чтобы конкурирующие решения
// не затирали друг друга. Одобрение также помечает вещь доступной.
func (db *DB) DecideBooking(ctx context.Context, id int64, approved bool) (*models.Booking, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var status models.BookingStatus
	var itemID int64
	err = tx.QueryRowContext(ctx, `SELECT status, item_id FROM bookings WHERE id = ?`, id).Scan(&status, &itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read booking status in tx: %w", err)
	}

	if status != models.StatusWaiting {
		if approved && status == models.StatusApproved {
			return nil, ErrAlreadyApproved
		}
		return nil, ErrAlreadyDecided
	}

	newStatus := models.StatusRejected
	if approved {
		newStatus = models.StatusApproved
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`, newStatus, now, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status in tx: %w", err)
	}

	if approved {
		_, err = tx.ExecContext(ctx, `UPDATE items SET available = 1, updated_at = ? WHERE id = ?`, now, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to update item availability in tx: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit decision: %w", err)
	}

	return db.GetBooking(ctx, id)
}

func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE b.booker_id = ? ORDER BY b.start_at DESC`
	return db.queryBookings(ctx, query, bookerID)
}

func (db *DB) GetBookingsByBookerAndStatus(ctx context.Context, bookerID int64, status models.BookingStatus) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE b.booker_id = ? AND b.status = ? ORDER BY b.start_at DESC`
	return db.queryBookings(ctx, query, bookerID, status)
}

func (db *DB) GetBookingsByOwner(ctx context.Context, ownerID int64) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE i.owner_id = ? ORDER BY b.start_at DESC`
	return db.queryBookings(ctx, query, ownerID)
}

func (db *DB) GetBookingsByOwnerAndStatus(ctx context.Context, ownerID int64, status models.BookingStatus) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE i.owner_id = ? AND b.status = ? ORDER BY b.start_at DESC`
	return db.queryBookings(ctx, query, ownerID, status)
}

func (db *DB) GetBookingsByItem(ctx context.Context, itemID int64) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE b.item_id = ? ORDER BY b.start_at DESC`
	return db.queryBookings(ctx, query, itemID)
}

func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE b.start_at >= ? AND b.start_at < ? ORDER BY b.start_at DESC`
	return db.queryBookings(ctx, query, start.UTC(), end.UTC())
}

// CountEndedApprovedBookings считает завершенные одобренные бронирования
// вещи данным пользователем. Используется для проверки права на отзыв.
func (db *DB) CountEndedApprovedBookings(ctx context.Context, itemID, bookerID int64, now time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE item_id = ? AND booker_id = ? AND status = ? AND end_at < ?`
	var count int
	err := db.QueryRowContext(ctx, query, itemID, bookerID, models.StatusApproved, now.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ended bookings: %w", err)
	}
	return count, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
