package service

import (
	"context"

	"library-lending-backend/internal/domain"
	"library-lending-backend/internal/engine"
)

type CirculationService interface {
	Borrow(ctx context.Context, bookID, userID int64) (*engine.BorrowResult, error)
	Return(ctx context.Context, bookID, userID int64) (*engine.ReturnResult, error)
	Renew(ctx context.Context, bookID, userID int64) (*engine.RenewResult, error)
	// Reserve queues userID for bookID. An empty pickupDate means the default window.
	Reserve(ctx context.Context, bookID, userID int64, pickupDate string) (*engine.ReserveResult, error)
	CancelReservation(ctx context.Context, reservationID, userID int64) error
	Pickup(ctx context.Context, reservationID, userID int64) (*engine.BorrowResult, error)

	ListUserLoans(ctx context.Context, userID int64) ([]engine.LoanView, error)
	ListBookBorrowers(ctx context.Context, bookID int64) ([]engine.BorrowerView, error)
	ListUserReservations(ctx context.Context, userID int64) ([]engine.ReservationView, error)
	ListUserHistory(ctx context.Context, userID int64) ([]domain.HistoryEntry, error)

	// SweepExpired expires stale ready reservations and returns how many it changed.
	SweepExpired(ctx context.Context) (int, error)
	OverdueLoans(ctx context.Context) ([]engine.OverdueLoan, error)
}

type EmailService interface {
	SendReservationReady(ctx context.Context, email, name, title, pickupDate string) error
	SendOverdueReminder(ctx context.Context, email, name, title, dueDate string) error
}
