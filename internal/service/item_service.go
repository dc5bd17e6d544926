package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *ItemService {
	if clock == nil {
		clock = time.Now
	}
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

func (s *ItemService) AddItem(ctx context.Context, userID int64, item *models.Item) (*models.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, fmt.Errorf("%w: item name is required", database.ErrValidation)
	}
	if strings.TrimSpace(item.Description) == "" {
		return nil, fmt.Errorf("%w: item description is required", database.ErrValidation)
	}

	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if item.RequestID != 0 {
		if _, err := s.repo.GetRequest(ctx, item.RequestID); err != nil {
			return nil, err
		}
	}

	item.OwnerID = userID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, itemID, userID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// Частично менять вещь может только её владелец
	if item.OwnerID != userID {
		return nil, database.ErrNotFound
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("%w: item name is required", database.ErrValidation)
		}
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return nil, fmt.Errorf("%w: item description is required", database.ErrValidation)
		}
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) GetItem(ctx context.Context, itemID, userID int64) (*models.ItemDetail, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, item, userID)
}

func (s *ItemService) ListOwnerItems(ctx context.Context, userID int64, from, size int) ([]*models.ItemDetail, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]*models.ItemDetail, 0, len(items))
	for _, item := range paginate(items, from, size) {
		detail, err := s.buildDetail(ctx, item, userID)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]*models.Item, error) {
	// Пустой запрос означает пустой результат, не все вещи
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}

	items, err := s.repo.SearchItems(ctx, text)
	if err != nil {
		return nil, err
	}
	return paginate(items, from, size), nil
}

func (s *ItemService) AddComment(ctx context.Context, itemID, userID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", database.ErrValidation)
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	// Комментировать можно только после завершенной одобренной аренды
	count, err := s.repo.CountEndedApprovedBookings(ctx, itemID, userID, s.clock())
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: user %d has no finished booking of item %d", database.ErrValidation, userID, itemID)
	}

	comment := &models.Comment{
		ItemID:     itemID,
		AuthorID:   userID,
		AuthorName: user.Name,
		Text:       text,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, comment); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish comment event")
		}
	}

	return comment, nil
}

// buildDetail собирает карточку вещи; окно бронирований видит только владелец
func (s *ItemService) buildDetail(ctx context.Context, item *models.Item, userID int64) (*models.ItemDetail, error) {
	detail := &models.ItemDetail{Item: *item}

	comments, err := s.repo.GetCommentsByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	detail.Comments = comments

	if item.OwnerID != userID {
		return detail, nil
	}

	bookings, err := s.repo.GetBookingsByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	detail.LastBooking = LastBooking(bookings, now)
	detail.NextBooking = NextBooking(bookings, now)
	return detail, nil
}

// LastBooking возвращает последнее начавшееся одобренное бронирование.
func LastBooking(bookings []*models.Booking, now time.Time) *models.Booking {
	var last *models.Booking
	for _, b := range bookings {
		if b.Status != models.StatusApproved || b.Start.After(now) {
			continue
		}
		if last == nil || b.Start.After(last.Start) {
			last = b
		}
	}
	return last
}

// NextBooking возвращает самое раннее одобренное бронирование, которое
// еще не закончилось; при равном начале — с более ранним окончанием.
func NextBooking(bookings []*models.Booking, now time.Time) *models.Booking {
	var next *models.Booking
	for _, b := range bookings {
		if b.Status != models.StatusApproved || !b.End.After(now) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) ||
			(b.Start.Equal(next.Start) && b.End.Before(next.End)) {
			next = b
		}
	}
	return next
}
