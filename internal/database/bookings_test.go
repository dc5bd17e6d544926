package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/models"
)

func TestCreateAndGetBooking(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	booking := createTestBooking(t, db, item.ID, booker.ID, start, start.Add(24*time.Hour))

	assert.NotZero(t, booking.ID)
	assert.Equal(t, models.StatusWaiting, booking.Status)

	found, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ItemID)
	assert.Equal(t, "Drill", found.ItemName)
	assert.Equal(t, booker.ID, found.BookerID)
	assert.True(t, found.Start.Equal(start))

	_, err = db.GetBooking(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBookingUnavailableItem(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", false)

	start := time.Now().Add(time.Hour)
	err := db.CreateBooking(ctx, &models.Booking{
		ItemID:   item.ID,
		BookerID: booker.ID,
		Start:    start,
		End:      start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrNotAvailable)

	err = db.CreateBooking(ctx, &models.Booking{
		ItemID:   999,
		BookerID: booker.ID,
		Start:    start,
		End:      start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecideBooking(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour)
	booking := createTestBooking(t, db, item.ID, booker.ID, start, start.Add(time.Hour))

	// Item may have been flagged unavailable while the booking waited
	item.Available = false
	require.NoError(t, db.UpdateItem(ctx, item))

	decided, err := db.DecideBooking(ctx, booking.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, decided.Status)

	// Approval flips the item back to available
	found, err := db.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, found.Available)

	_, err = db.DecideBooking(ctx, booking.ID, true)
	assert.ErrorIs(t, err, ErrAlreadyApproved)

	_, err = db.DecideBooking(ctx, booking.ID, false)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestDecideBookingReject(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour)
	booking := createTestBooking(t, db, item.ID, booker.ID, start, start.Add(time.Hour))

	decided, err := db.DecideBooking(ctx, booking.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, decided.Status)

	// Rejection of an already rejected booking, approve or not
	_, err = db.DecideBooking(ctx, booking.ID, true)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	_, err = db.DecideBooking(ctx, 999, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingListsOrderedByStartDesc(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	early := createTestBooking(t, db, item.ID, booker.ID, base, base.Add(time.Hour))
	late := createTestBooking(t, db, item.ID, booker.ID, base.Add(48*time.Hour), base.Add(49*time.Hour))
	mid := createTestBooking(t, db, item.ID, booker.ID, base.Add(24*time.Hour), base.Add(25*time.Hour))

	byBooker, err := db.GetBookingsByBooker(ctx, booker.ID)
	require.NoError(t, err)
	require.Len(t, byBooker, 3)
	assert.Equal(t, late.ID, byBooker[0].ID)
	assert.Equal(t, mid.ID, byBooker[1].ID)
	assert.Equal(t, early.ID, byBooker[2].ID)

	byOwner, err := db.GetBookingsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, byOwner, 3)
	assert.Equal(t, late.ID, byOwner[0].ID)

	// The booker owns nothing
	byOwner, err = db.GetBookingsByOwner(ctx, booker.ID)
	require.NoError(t, err)
	assert.Empty(t, byOwner)
}

func TestBookingListsByStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	waiting := createTestBooking(t, db, item.ID, booker.ID, base, base.Add(time.Hour))
	rejected := createTestBooking(t, db, item.ID, booker.ID, base.Add(24*time.Hour), base.Add(25*time.Hour))
	_, err := db.DecideBooking(ctx, rejected.ID, false)
	require.NoError(t, err)

	got, err := db.GetBookingsByBookerAndStatus(ctx, booker.ID, models.StatusWaiting)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, waiting.ID, got[0].ID)

	got, err = db.GetBookingsByOwnerAndStatus(ctx, owner.ID, models.StatusRejected)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rejected.ID, got[0].ID)
}

func TestCountEndedApprovedBookings(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	now := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	past := createTestBooking(t, db, item.ID, booker.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	_, err := db.DecideBooking(ctx, past.ID, true)
	require.NoError(t, err)

	// Approved but still running
	running := createTestBooking(t, db, item.ID, booker.ID, now.Add(-time.Hour), now.Add(time.Hour))
	_, err = db.DecideBooking(ctx, running.ID, true)
	require.NoError(t, err)

	// Ended but never approved
	createTestBooking(t, db, item.ID, booker.ID, now.Add(-4*time.Hour), now.Add(-3*time.Hour))

	count, err := db.CountEndedApprovedBookings(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = db.CountEndedApprovedBookings(ctx, item.ID, owner.ID, now)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetBookingsByDateRange(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	inside := createTestBooking(t, db, item.ID, booker.ID, base.Add(24*time.Hour), base.Add(25*time.Hour))
	createTestBooking(t, db, item.ID, booker.ID, base.Add(30*24*time.Hour), base.Add(31*24*time.Hour))

	got, err := db.GetBookingsByDateRange(ctx, base, base.Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)
}
