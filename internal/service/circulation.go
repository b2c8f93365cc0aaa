package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"library-lending-backend/internal/domain"
	"library-lending-backend/internal/engine"
	"library-lending-backend/internal/logger"
	"library-lending-backend/internal/repository"
)

// ErrSnapshotBusy is returned when the snapshot kept changing underneath an
// operation and every save attempt lost the race.
var ErrSnapshotBusy = errors.New("library state is busy, try again")

const maxSaveAttempts = 3

type circulationService struct {
	repo     repository.SnapshotRepository
	engine   *engine.Engine
	emailSvc EmailService
	clock    func() time.Time

	// mu serialises read-modify-write cycles within this process. Other
	// processes are caught by the repository's version check.
	mu sync.Mutex
}

func NewCirculationService(repo repository.SnapshotRepository, eng *engine.Engine, emailSvc EmailService) CirculationService {
	return NewCirculationServiceWithClock(repo, eng, emailSvc, time.Now)
}

func NewCirculationServiceWithClock(repo repository.SnapshotRepository, eng *engine.Engine, emailSvc EmailService, clock func() time.Time) CirculationService {
	return &circulationService{
		repo:     repo,
		engine:   eng,
		emailSvc: emailSvc,
		clock:    clock,
	}
}

// mutation applies one operation to a loaded snapshot. It reports whether the
// snapshot changed and must be saved; a rule rejection can still change it
// (a pickup that finds its reservation expired).
type mutation func(st *domain.LibraryState, now time.Time) (changed bool, err error)

type readyNotice struct {
	email      string
	name       string
	title      string
	pickupDate string
}

func (s *circulationService) Borrow(ctx context.Context, bookID, userID int64) (*engine.BorrowResult, error) {
	var res *engine.BorrowResult
	err := s.run(ctx, "Borrow", true, func(st *domain.LibraryState, now time.Time) (bool, error) {
		var err error
		res, err = s.engine.Borrow(st, bookID, userID, now)
		return err == nil, err
	}, "book_id", bookID, "user_id", userID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *circulationService) Return(ctx context.Context, bookID, userID int64) (*engine.ReturnResult, error) {
	var res *engine.ReturnResult
	err := s.run(ctx, "Return", true, func(st *domain.LibraryState, now time.Time) (bool, error) {
		var err error
		res, err = s.engine.Return(st, bookID, userID, now)
		return err == nil, err
	}, "book_id", bookID, "user_id", userID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *circulationService) Renew(ctx context.Context, bookID, userID int64) (*engine.RenewResult, error) {
	var res *engine.RenewResult
	err := s.run(ctx, "Renew", true, func(st *domain.LibraryState, now time.Time) (bool, error) {
		var err error
		res, err = s.engine.Renew(st, bookID, userID, now)
		return err == nil, err
	}, "book_id", bookID, "user_id", userID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *circulationService) Reserve(ctx context.Context, bookID, userID int64, pickupDate string) (*engine.ReserveResult, error) {
	var res *engine.ReserveResult
	err := s.run(ctx, "Reserve", true, func(st *domain.LibraryState, now time.Time) (bool, error) {
		var err error
		res, err = s.engine.Reserve(st, bookID, userID, pickupDate, now)
		return err == nil, err
	}, "book_id", bookID, "user_id", userID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *circulationService) CancelReservation(ctx context.Context, reservationID, userID int64) error {
	return s.run(ctx, "CancelReservation", true, func(st *domain.LibraryState, now time.Time) (bool, error) {
		err := s.engine.Cancel(st, reservationID, userID, now)
		return err == nil, err
	}, "reservation_id", reservationID, "user_id", userID)
}

func (s *circulationService) Pickup(ctx context.Context, reservationID, userID int64) (*engine.BorrowResult, error) {
	var res *engine.BorrowResult
	err := s.run(ctx, "Pickup", true, func(st *domain.LibraryState, now time.Time) (bool, error) {
		var err error
		res, err = s.engine.Pickup(st, reservationID, userID, now)
		return err == nil || errors.Is(err, domain.ErrReservationExpired), err
	}, "reservation_id", reservationID, "user_id", userID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *circulationService) ListUserLoans(ctx context.Context, userID int64) ([]engine.LoanView, error) {
	st, now, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return engine.ListUserLoans(st, userID, now), nil
}

func (s *circulationService) ListBookBorrowers(ctx context.Context, bookID int64) ([]engine.BorrowerView, error) {
	st, now, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if st.FindBook(bookID) == nil {
		return nil, domain.ErrBookNotFound
	}
	return engine.ListBookBorrowers(st, bookID, now), nil
}

// ListUserReservations runs the expiry sweep first, so a lapsed hold is never
// shown as ready.
func (s *circulationService) ListUserReservations(ctx context.Context, userID int64) ([]engine.ReservationView, error) {
	var views []engine.ReservationView
	err := s.run(ctx, "ListUserReservations", true, func(st *domain.LibraryState, now time.Time) (bool, error) {
		views = engine.ListUserReservations(st, userID)
		return false, nil
	}, "user_id", userID)
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *circulationService) ListUserHistory(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	st, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return engine.ListUserHistory(st, userID), nil
}

func (s *circulationService) SweepExpired(ctx context.Context) (int, error) {
	var expired int
	err := s.run(ctx, "SweepExpired", false, func(st *domain.LibraryState, now time.Time) (bool, error) {
		n, err := s.engine.CleanupExpired(st, now)
		expired = n
		return n > 0, err
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}

func (s *circulationService) OverdueLoans(ctx context.Context) ([]engine.OverdueLoan, error) {
	st, now, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return engine.OverdueLoans(st, now), nil
}

func (s *circulationService) snapshot(ctx context.Context) (*domain.LibraryState, time.Time, error) {
	st, err := s.repo.Load(ctx)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load snapshot: %w", err)
	}
	return st, s.clock(), nil
}

// run is the read-modify-write cycle shared by every state-changing operation:
// load, optionally sweep expired holds, apply fn, save, and notify readers whose
// reservation became ready. Rule rejections are returned as they are.
func (s *circulationService) run(ctx context.Context, op string, sweep bool, fn mutation, args ...any) error {
	logger.EnterMethod("circulationService."+op, args...)

	notices, err := s.commit(ctx, op, sweep, fn)
	s.notifyReady(ctx, notices)

	switch {
	case err == nil:
		logger.ExitMethod("circulationService."+op, args...)
	case domain.KindOf(err) != "":
		logger.RuleRejected(ctx, op, err, args...)
	default:
		logger.ExitMethodWithError("circulationService."+op, err, args...)
	}
	return err
}

func (s *circulationService) commit(ctx context.Context, op string, sweep bool, fn mutation) ([]readyNotice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		st, now, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		before := readyIDs(st)

		swept := 0
		if sweep {
			if swept, err = s.engine.CleanupExpired(st, now); err != nil {
				return nil, fmt.Errorf("sweep expired reservations: %w", err)
			}
		}

		changed, opErr := fn(st, now)
		if opErr != nil && domain.KindOf(opErr) == "" {
			return nil, opErr
		}
		if !changed && swept == 0 {
			return nil, opErr
		}

		if err := s.repo.Save(ctx, st); err != nil {
			if errors.Is(err, repository.ErrSnapshotConflict) {
				logger.Warn("Snapshot changed during operation, retrying", "operation", op, "attempt", attempt)
				continue
			}
			return nil, fmt.Errorf("save snapshot: %w", err)
		}
		return collectNotices(st, before), opErr
	}
	return nil, ErrSnapshotBusy
}

func readyIDs(st *domain.LibraryState) map[int64]bool {
	ids := make(map[int64]bool)
	for _, r := range st.Reservations {
		if r.Status == domain.ReservationStatusReady {
			ids[r.ID] = true
		}
	}
	return ids
}

// collectNotices finds reservations that became ready since before was taken.
func collectNotices(st *domain.LibraryState, before map[int64]bool) []readyNotice {
	var notices []readyNotice
	for _, r := range st.Reservations {
		if r.Status != domain.ReservationStatusReady || before[r.ID] {
			continue
		}
		u := st.FindUser(r.UserID)
		if u == nil || u.Email == "" {
			logger.Warn("No contact for promoted reservation", "reservation_id", r.ID, "user_id", r.UserID)
			continue
		}
		n := readyNotice{email: u.Email, name: u.Name, pickupDate: r.PickupDate}
		if b := st.FindBook(r.BookID); b != nil {
			n.title = b.Title
		}
		notices = append(notices, n)
	}
	return notices
}

func (s *circulationService) notifyReady(ctx context.Context, notices []readyNotice) {
	for _, n := range notices {
		if err := s.emailSvc.SendReservationReady(ctx, n.email, n.name, n.title, n.pickupDate); err != nil {
			logger.ErrorContext(ctx, "Failed to send reservation ready email", "to", n.email, "error", err)
		}
	}
}
