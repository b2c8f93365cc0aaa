package http

import (
	"context"

	"library-lending-backend/internal/domain"
	"library-lending-backend/internal/engine"

	"github.com/stretchr/testify/mock"
)

type MockCirculationService struct {
	mock.Mock
}

func (m *MockCirculationService) Borrow(ctx context.Context, bookID, userID int64) (*engine.BorrowResult, error) {
	args := m.Called(ctx, bookID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.BorrowResult), args.Error(1)
}

func (m *MockCirculationService) Return(ctx context.Context, bookID, userID int64) (*engine.ReturnResult, error) {
	args := m.Called(ctx, bookID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.ReturnResult), args.Error(1)
}

func (m *MockCirculationService) Renew(ctx context.Context, bookID, userID int64) (*engine.RenewResult, error) {
	args := m.Called(ctx, bookID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.RenewResult), args.Error(1)
}

func (m *MockCirculationService) Reserve(ctx context.Context, bookID, userID int64, pickupDate string) (*engine.ReserveResult, error) {
	args := m.Called(ctx, bookID, userID, pickupDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.ReserveResult), args.Error(1)
}

func (m *MockCirculationService) CancelReservation(ctx context.Context, reservationID, userID int64) error {
	args := m.Called(ctx, reservationID, userID)
	return args.Error(0)
}

func (m *MockCirculationService) Pickup(ctx context.Context, reservationID, userID int64) (*engine.BorrowResult, error) {
	args := m.Called(ctx, reservationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.BorrowResult), args.Error(1)
}

func (m *MockCirculationService) ListUserLoans(ctx context.Context, userID int64) ([]engine.LoanView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engine.LoanView), args.Error(1)
}

func (m *MockCirculationService) ListBookBorrowers(ctx context.Context, bookID int64) ([]engine.BorrowerView, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engine.BorrowerView), args.Error(1)
}

func (m *MockCirculationService) ListUserReservations(ctx context.Context, userID int64) ([]engine.ReservationView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engine.ReservationView), args.Error(1)
}

func (m *MockCirculationService) ListUserHistory(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

func (m *MockCirculationService) SweepExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCirculationService) OverdueLoans(ctx context.Context) ([]engine.OverdueLoan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engine.OverdueLoan), args.Error(1)
}
