package service

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shareit/internal/database"
	"shareit/internal/models"
)

func newRequestService(repo *mockRepo) *RequestService {
	logger := zerolog.New(io.Discard)
	return NewRequestService(repo, &logger)
}

func TestAddRequest(t *testing.T) {
	repo := new(mockRepo)
	svc := newRequestService(repo)
	ctx := context.Background()

	repo.On("GetUser", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
	repo.On("CreateRequest", ctx, mock.AnythingOfType("*models.ItemRequest")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.ItemRequest).ID = 7
	}).Return(nil)

	request, err := svc.AddRequest(ctx, 2, "Need a ladder")
	require.NoError(t, err)
	assert.Equal(t, int64(7), request.ID)
	assert.Equal(t, int64(2), request.RequesterID)
	assert.NotNil(t, request.Items)
	assert.Empty(t, request.Items)
}

func TestAddRequestBlankDescription(t *testing.T) {
	repo := new(mockRepo)
	svc := newRequestService(repo)
	ctx := context.Background()

	_, err := svc.AddRequest(ctx, 2, "   ")
	assert.ErrorIs(t, err, database.ErrValidation)
	repo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestAddRequestUnknownUser(t *testing.T) {
	repo := new(mockRepo)
	svc := newRequestService(repo)
	ctx := context.Background()

	repo.On("GetUser", ctx, int64(99)).Return(nil, database.ErrNotFound)

	_, err := svc.AddRequest(ctx, 99, "Need a ladder")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestGetOwnRequestsAttachesItems(t *testing.T) {
	repo := new(mockRepo)
	svc := newRequestService(repo)
	ctx := context.Background()

	repo.On("GetUser", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
	repo.On("GetRequestsByRequester", ctx, int64(2)).Return([]*models.ItemRequest{
		{ID: 7, RequesterID: 2}, {ID: 8, RequesterID: 2},
	}, nil)
	repo.On("GetItemsByRequest", ctx, int64(7)).Return([]*models.Item{{ID: 10, RequestID: 7}}, nil)
	repo.On("GetItemsByRequest", ctx, int64(8)).Return(nil, nil)

	requests, err := svc.GetOwnRequests(ctx, 2)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Len(t, requests[0].Items, 1)
	// No offered items still yields an empty slice, not nil
	assert.NotNil(t, requests[1].Items)
	assert.Empty(t, requests[1].Items)
}

func TestGetAllRequestsPagination(t *testing.T) {
	repo := new(mockRepo)
	svc := newRequestService(repo)
	ctx := context.Background()

	repo.On("GetUser", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
	repo.On("GetRequestsByOthers", ctx, int64(2), 5, 10).Return([]*models.ItemRequest{{ID: 9}}, nil)
	repo.On("GetItemsByRequest", ctx, int64(9)).Return([]*models.Item{}, nil)

	requests, err := svc.GetAllRequests(ctx, 2, 5, 10)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	repo.AssertCalled(t, "GetRequestsByOthers", ctx, int64(2), 5, 10)
}

func TestGetRequestByID(t *testing.T) {
	repo := new(mockRepo)
	svc := newRequestService(repo)
	ctx := context.Background()

	repo.On("GetUser", ctx, int64(3)).Return(&models.User{ID: 3}, nil)
	repo.On("GetRequest", ctx, int64(7)).Return(&models.ItemRequest{ID: 7, RequesterID: 2}, nil)
	repo.On("GetItemsByRequest", ctx, int64(7)).Return([]*models.Item{{ID: 10}}, nil)

	request, err := svc.GetRequestByID(ctx, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), request.ID)
	assert.Len(t, request.Items, 1)
}

func TestGetRequestByIDUnknownUser(t *testing.T) {
	repo := new(mockRepo)
	svc := newRequestService(repo)
	ctx := context.Background()

	repo.On("GetUser", ctx, int64(99)).Return(nil, database.ErrNotFound)

	_, err := svc.GetRequestByID(ctx, 7, 99)
	assert.ErrorIs(t, err, database.ErrNotFound)
	repo.AssertNotCalled(t, "GetRequest", mock.Anything, mock.Anything)
}
