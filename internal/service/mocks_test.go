package service

import (
	"context"

	"library-lending-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Load(ctx context.Context) (*domain.LibraryState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LibraryState), args.Error(1)
}

func (m *MockSnapshotRepository) Save(ctx context.Context, state *domain.LibraryState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendReservationReady(ctx context.Context, email, name, title, pickupDate string) error {
	args := m.Called(ctx, email, name, title, pickupDate)
	return args.Error(0)
}

func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, name, title, dueDate string) error {
	args := m.Called(ctx, email, name, title, dueDate)
	return args.Error(0)
}
