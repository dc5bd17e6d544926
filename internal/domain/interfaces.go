package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Clock supplies wall-clock time to the services. Queries read it once
// per call so one result set never straddles a clock tick.
type Clock func() time.Time

type UserProvider interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

type ItemProvider interface {
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	GetItemsByRequest(ctx context.Context, requestID int64) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)
}

type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	// DecideBooking atomically re-checks the booking status and applies
	// the approve/reject transition, including the item availability
	// side effect on approval.
	DecideBooking(ctx context.Context, id int64, approved bool) (*models.Booking, error)
	GetBookingsByBooker(ctx context.Context, bookerID int64) ([]*models.Booking, error)
	GetBookingsByBookerAndStatus(ctx context.Context, bookerID int64, status models.BookingStatus) ([]*models.Booking, error)
	GetBookingsByOwner(ctx context.Context, ownerID int64) ([]*models.Booking, error)
	GetBookingsByOwnerAndStatus(ctx context.Context, ownerID int64, status models.BookingStatus) ([]*models.Booking, error)
	GetBookingsByItem(ctx context.Context, itemID int64) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	CountEndedApprovedBookings(ctx context.Context, itemID, bookerID int64, now time.Time) (int, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)
}

type RequestStore interface {
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	GetRequestsByOthers(ctx context.Context, requesterID int64, offset, limit int) ([]*models.ItemRequest, error)
}

type SyncQueue interface {
	CreateSyncTask(ctx context.Context, task *models.SyncTask) error
	GetPendingSyncTasks(ctx context.Context, limit int) ([]models.SyncTask, error)
	MarkSyncTaskDone(ctx context.Context, id int64) error
	RescheduleSyncTask(ctx context.Context, id int64, lastError string, nextRetryAt time.Time) error
	MarkSyncTaskFailed(ctx context.Context, id int64, lastError string) error
}

// Repository is the full persistence surface implemented by the
// database layer; services depend on it and tests replace it whole.
type Repository interface {
	UserProvider
	ItemProvider
	BookingStore
	CommentStore
	RequestStore
	SyncQueue
}

// RateLimiter answers whether a caller is within its request budget for
// the window. Implementations may be remote (Redis) or in-memory.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker accepts booking snapshots for asynchronous downstream
// publication.
type SyncWorker interface {
	EnqueueBooking(ctx context.Context, taskType string, booking *models.Booking) error
}

type BookingService interface {
	AddBooking(ctx context.Context, itemID, bookerID int64, start, end time.Time) (*models.Booking, error)
	UpdateBooking(ctx context.Context, bookingID, userID int64, approved bool) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID, userID int64) (*models.Booking, error)
	ListForBooker(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error)
	ListForOwner(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
}

type ItemService interface {
	AddItem(ctx context.Context, userID int64, item *models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, itemID, userID int64, patch models.ItemPatch) (*models.Item, error)
	GetItem(ctx context.Context, itemID, userID int64) (*models.ItemDetail, error)
	ListOwnerItems(ctx context.Context, userID int64, from, size int) ([]*models.ItemDetail, error)
	SearchItems(ctx context.Context, text string, from, size int) ([]*models.Item, error)
	AddComment(ctx context.Context, itemID, userID int64, text string) (*models.Comment, error)
}

type UserService interface {
	AddUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

type RequestService interface {
	AddRequest(ctx context.Context, userID int64, description string) (*models.ItemRequest, error)
	GetOwnRequests(ctx context.Context, userID int64) ([]*models.ItemRequest, error)
	GetAllRequests(ctx context.Context, userID int64, from, size int) ([]*models.ItemRequest, error)
	GetRequestByID(ctx context.Context, requestID, userID int64) (*models.ItemRequest, error)
}
