package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

type BookingService struct {
	repo       domain.Repository
	eventBus   domain.EventPublisher
	syncWorker domain.SyncWorker
	clock      domain.Clock
	logger     *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, syncWorker domain.SyncWorker, clock domain.Clock, logger *zerolog.Logger) *BookingService {
	if clock == nil {
		clock = time.Now
	}
	return &BookingService{
		repo:       repo,
		eventBus:   eventBus,
		syncWorker: syncWorker,
		clock:      clock,
		logger:     logger,
	}
}

// ValidateInterval требует строго start < end
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return database.ErrInvalidInterval
	}
	if !start.Before(end) {
		return database.ErrInvalidInterval
	}
	return nil
}

func (s *BookingService) AddBooking(ctx context.Context, itemID, bookerID int64, start, end time.Time) (*models.Booking, error) {
	if err := ValidateInterval(start, end); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUser(ctx, bookerID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !item.Available {
		return nil, database.ErrNotAvailable
	}
	// Владелец не бронирует свою вещь; для него её "нет"
	if item.OwnerID == bookerID {
		return nil, database.ErrNotFound
	}

	booking := &models.Booking{
		ItemID:   itemID,
		ItemName: item.Name,
		BookerID: bookerID,
		Start:    start,
		End:      end,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking)
	s.enqueueSync(ctx, "booking_created", booking)

	return booking, nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, bookingID, userID int64, approved bool) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	// Решение принимает только владелец вещи; остальным заявка не видна
	if item.OwnerID != userID {
		return nil, database.ErrNotFound
	}

	decided, err := s.repo.DecideBooking(ctx, bookingID, approved)
	if err != nil {
		return nil, err
	}

	if approved {
		s.publishEvent(events.EventBookingApproved, decided)
		s.enqueueSync(ctx, "booking_approved", decided)
	} else {
		s.publishEvent(events.EventBookingRejected, decided)
		s.enqueueSync(ctx, "booking_rejected", decided)
	}

	return decided, nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BookerID == userID {
		return booking, nil
	}

	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == userID {
		return booking, nil
	}

	return nil, database.ErrNotFound
}

func (s *BookingService) ListForBooker(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error) {
	// Сначала пользователь, затем фильтр
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	parsed, err := models.ParseBookingState(state)
	if err != nil {
		return nil, err
	}

	var bookings []*models.Booking
	switch parsed {
	case models.StateWaiting:
		bookings, err = s.repo.GetBookingsByBookerAndStatus(ctx, userID, models.StatusWaiting)
	case models.StateRejected:
		bookings, err = s.repo.GetBookingsByBookerAndStatus(ctx, userID, models.StatusRejected)
	default:
		bookings, err = s.repo.GetBookingsByBooker(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	return paginate(s.filterByState(bookings, parsed), from, size), nil
}

func (s *BookingService) ListForOwner(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error) {
	// Сначала пользователь, затем фильтр
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	parsed, err := models.ParseBookingState(state)
	if err != nil {
		return nil, err
	}

	var bookings []*models.Booking
	switch parsed {
	case models.StateWaiting:
		bookings, err = s.repo.GetBookingsByOwnerAndStatus(ctx, userID, models.StatusWaiting)
	case models.StateRejected:
		bookings, err = s.repo.GetBookingsByOwnerAndStatus(ctx, userID, models.StatusRejected)
	default:
		bookings, err = s.repo.GetBookingsByOwner(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	return paginate(s.filterByState(bookings, parsed), from, size), nil
}

func (s *BookingService) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	return s.repo.GetBookingsByDateRange(ctx, start, end)
}

// filterByState отбирает бронирования по временному окну. Часы читаются
// один раз, чтобы вся выборка сравнивалась с одним моментом.
func (s *BookingService) filterByState(bookings []*models.Booking, state models.BookingState) []*models.Booking {
	switch state {
	case models.StateCurrent, models.StatePast, models.StateFuture:
	default:
		return bookings
	}

	now := s.clock()
	filtered := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		var keep bool
		switch state {
		case models.StateCurrent:
			keep = b.InProgress(now)
		case models.StatePast:
			keep = b.Finished(now)
		case models.StateFuture:
			keep = b.Upcoming(now)
		}
		if keep {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// paginate срезает страницу после фильтрации
func paginate[T any](list []T, from, size int) []T {
	if from < 0 {
		from = 0
	}
	if size <= 0 || from >= len(list) {
		return []T{}
	}
	end := from + size
	if end > len(list) {
		end = len(list)
	}
	return list[from:end]
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}
	err := s.eventBus.PublishJSON(eventType, events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		BookerID:  booking.BookerID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, taskType string, booking *models.Booking) {
	if s.syncWorker == nil {
		return
	}
	if err := s.syncWorker.EnqueueBooking(ctx, taskType, booking); err != nil {
		s.logger.Error().Err(err).Str("task", taskType).Int64("booking_id", booking.ID).Msg("Failed to enqueue sync")
	}
}
