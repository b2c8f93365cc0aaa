package engine

import (
	"fmt"
	"time"

	"library-lending-backend/internal/domain"
)

type ReserveResult struct {
	ReservationID int64  `json:"reservationId"`
	BookID        int64  `json:"bookId"`
	QueuePosition int    `json:"queuePosition"`
	PickupDate    string `json:"pickupDate"`
}

// Reserve places userID in the queue for bookID.
//
// The queue position is the number of active reservations for the book plus
// one, fixed at creation. Positions of the remaining members are not
// renumbered when someone leaves, so gaps are expected.
//
// Reserving does not look at current availability: an available book can be
// reserved.
func (e *Engine) Reserve(s *domain.LibraryState, bookID, userID int64, pickupDate string, now time.Time) (*ReserveResult, error) {
	c := track(s)
	defer c.settle()

	today := domain.FormatDate(now)

	active := 0
	duplicate := false
	for _, r := range s.Reservations {
		if r.UserID != userID || !r.IsActive() {
			continue
		}
		active++
		if r.BookID == bookID {
			duplicate = true
		}
	}
	if active >= e.policy.MaxReservations {
		return nil, domain.ErrReservationLimitReached
	}
	if duplicate {
		return nil, domain.ErrAlreadyReserved
	}

	if s.FindBook(bookID) == nil {
		return nil, domain.ErrBookNotFound
	}

	if pickupDate == "" {
		d, err := domain.AddDays(today, e.policy.PickupDays)
		if err != nil {
			return nil, fmt.Errorf("compute pickup date: %w", err)
		}
		pickupDate = d
	} else {
		t, err := domain.ParseDate(pickupDate)
		if err != nil {
			return nil, domain.InvalidInput("pickup date must be YYYY-MM-DD")
		}
		pickupDate = domain.FormatDate(t)
		if domain.DateBefore(pickupDate, today) {
			return nil, domain.InvalidInput("pickup date must not be in the past")
		}
	}

	waiting, ready := QueueCounts(s, bookID)
	r := domain.Reservation{
		ID:            s.NextReservationID(),
		BookID:        bookID,
		UserID:        userID,
		PickupDate:    pickupDate,
		QueuePosition: waiting + ready + 1,
		Status:        domain.ReservationStatusWaiting,
		CreatedOn:     now,
		UpdatedOn:     now,
	}
	s.Reservations = append(s.Reservations, r)
	c.touch(bookID)

	return &ReserveResult{
		ReservationID: r.ID,
		BookID:        bookID,
		QueuePosition: r.QueuePosition,
		PickupDate:    r.PickupDate,
	}, nil
}

// Cancel withdraws one of userID's active reservations.
func (e *Engine) Cancel(s *domain.LibraryState, reservationID, userID int64, now time.Time) error {
	c := track(s)
	defer c.settle()

	r := s.FindReservation(reservationID)
	if r == nil || r.UserID != userID || !r.IsActive() {
		return domain.ErrReservationNotFound
	}

	wasReady := r.Status == domain.ReservationStatusReady
	r.Status = domain.ReservationStatusCancelled
	r.UpdatedOn = now
	c.touch(r.BookID)

	if wasReady {
		if _, err := e.releaseHold(c, r.BookID, now); err != nil {
			return err
		}
	}
	return nil
}

// CleanupExpired marks every ready reservation whose pickup date has passed as
// expired and returns how many it changed. Running it twice in a row changes
// nothing the second time.
func (e *Engine) CleanupExpired(s *domain.LibraryState, now time.Time) (int, error) {
	c := track(s)
	defer c.settle()

	today := domain.FormatDate(now)

	var released []int64
	for i := range s.Reservations {
		r := &s.Reservations[i]
		if r.Status != domain.ReservationStatusReady || !domain.DateBefore(r.PickupDate, today) {
			continue
		}
		r.Status = domain.ReservationStatusExpired
		r.UpdatedOn = now
		c.touch(r.BookID)
		released = append(released, r.BookID)
	}

	for _, bookID := range released {
		if _, err := e.releaseHold(c, bookID, now); err != nil {
			return len(released), err
		}
	}
	return len(released), nil
}

// Pickup turns userID's ready reservation into a loan. It goes through the
// same checks as Borrow; the loan completes the reservation.
func (e *Engine) Pickup(s *domain.LibraryState, reservationID, userID int64, now time.Time) (*BorrowResult, error) {
	c := track(s)
	defer c.settle()

	today := domain.FormatDate(now)

	r := s.FindReservation(reservationID)
	if r == nil || r.UserID != userID {
		return nil, domain.ErrReservationNotFound
	}
	if r.Status != domain.ReservationStatusReady {
		return nil, domain.ErrReservationNotReady
	}

	if domain.DateBefore(r.PickupDate, today) {
		r.Status = domain.ReservationStatusExpired
		r.UpdatedOn = now
		c.touch(r.BookID)
		if _, err := e.releaseHold(c, r.BookID, now); err != nil {
			return nil, err
		}
		return nil, domain.ErrReservationExpired
	}

	return e.borrow(c, r.BookID, userID, now)
}

// promoteNext makes the earliest waiting reservation for bookID ready.
// The pickup window is pushed out to at least PickupDays from now so the
// promoted user always gets a full window.
func (e *Engine) promoteNext(c *change, bookID int64, now time.Time) (*domain.Reservation, error) {
	s := c.state

	var next *domain.Reservation
	for i := range s.Reservations {
		r := &s.Reservations[i]
		if r.BookID != bookID || r.Status != domain.ReservationStatusWaiting {
			continue
		}
		if next == nil || r.QueuedBefore(next) {
			next = r
		}
	}
	if next == nil {
		return nil, nil
	}

	earliest, err := domain.AddDays(domain.FormatDate(now), e.policy.PickupDays)
	if err != nil {
		return nil, fmt.Errorf("compute pickup window: %w", err)
	}
	if domain.DateBefore(next.PickupDate, earliest) {
		next.PickupDate = earliest
	}
	next.Status = domain.ReservationStatusReady
	next.UpdatedOn = now
	c.touch(bookID)
	return next, nil
}

// releaseHold passes a hold that was given up (cancelled or expired while
// ready) to the next waiting reservation, as long as a free copy is not
// already held for someone else.
func (e *Engine) releaseHold(c *change, bookID int64, now time.Time) (*domain.Reservation, error) {
	inv := ResolveInventory(c.state, bookID)
	if inv == nil {
		return nil, nil
	}
	_, ready := QueueCounts(c.state, bookID)
	if inv.Free <= ready {
		return nil, nil
	}
	return e.promoteNext(c, bookID, now)
}
