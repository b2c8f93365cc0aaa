package jobs

import (
	"context"

	"library-lending-backend/internal/domain"
	"library-lending-backend/internal/engine"

	"github.com/stretchr/testify/mock"
)

// MockCirculationService implements only what the jobs call; the rest panic.
type MockCirculationService struct {
	mock.Mock
	circulationStub
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

type circulationStub struct{}

func (circulationStub) Borrow(context.Context, int64, int64) (*engine.BorrowResult, error) {
	panic("not used by jobs")
}
func (circulationStub) Return(context.Context, int64, int64) (*engine.ReturnResult, error) {
	panic("not used by jobs")
}
func (circulationStub) Renew(context.Context, int64, int64) (*engine.RenewResult, error) {
	panic("not used by jobs")
}
func (circulationStub) Reserve(context.Context, int64, int64, string) (*engine.ReserveResult, error) {
	panic("not used by jobs")
}
func (circulationStub) CancelReservation(context.Context, int64, int64) error {
	panic("not used by jobs")
}
func (circulationStub) Pickup(context.Context, int64, int64) (*engine.BorrowResult, error) {
	panic("not used by jobs")
}
func (circulationStub) ListUserLoans(context.Context, int64) ([]engine.LoanView, error) {
	panic("not used by jobs")
}
func (circulationStub) ListBookBorrowers(context.Context, int64) ([]engine.BorrowerView, error) {
	panic("not used by jobs")
}
func (circulationStub) ListUserReservations(context.Context, int64) ([]engine.ReservationView, error) {
	panic("not used by jobs")
}
func (circulationStub) ListUserHistory(context.Context, int64) ([]domain.HistoryEntry, error) {
	panic("not used by jobs")
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
