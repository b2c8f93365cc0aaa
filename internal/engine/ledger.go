package engine

import (
	"fmt"
	"time"

	"library-lending-backend/internal/domain"
)

type BorrowResult struct {
	LoanID       int64  `json:"loanId"`
	BookID       int64  `json:"bookId"`
	DueDate      string `json:"dueDate"`
	RenewalsLeft int    `json:"renewalsLeft"`
}

type ReturnResult struct {
	BookID     int64  `json:"bookId"`
	ReturnDate string `json:"returnDate"`
	Overdue    bool   `json:"overdue"`
	// Promoted is the reservation that became ready because of this return, if any.
	Promoted *domain.Reservation `json:"-"`
}

// Message is the user-facing confirmation for a return.
func (r *ReturnResult) Message() string {
	if r.Overdue {
		return "Book returned successfully (Overdue)"
	}
	return "Book returned successfully"
}

type RenewResult struct {
	BookID       int64  `json:"bookId"`
	DueDate      string `json:"newDueDate"`
	RenewalsLeft int    `json:"renewalsLeft"`
}

// Borrow lends one free copy of bookID to userID.
//
// Preconditions are checked in order and the first failure wins:
// overdue lockout, loan limit, duplicate loan, book existence,
// another user's ready reservation, free copies.
func (e *Engine) Borrow(s *domain.LibraryState, bookID, userID int64, now time.Time) (*BorrowResult, error) {
	c := track(s)
	defer c.settle()

	return e.borrow(c, bookID, userID, now)
}

// borrow is shared with Pickup. A user holding a ready reservation for the
// book only needs a free copy beyond the ready holds of other users, and the
// new loan completes that reservation.
func (e *Engine) borrow(c *change, bookID, userID int64, now time.Time) (*BorrowResult, error) {
	s := c.state
	today := domain.FormatDate(now)

	active := 0
	for i := range s.Borrowed {
		l := &s.Borrowed[i]
		if l.UserID != userID {
			continue
		}
		if l.IsOverdue(today) {
			return nil, domain.ErrOverdueOutstanding
		}
		active++
	}
	if active >= e.policy.MaxLoans {
		return nil, domain.ErrLoanLimitReached
	}

	if s.FindLoan(bookID, userID) != nil {
		return nil, domain.ErrAlreadyBorrowed
	}

	inv := ResolveInventory(s, bookID)
	if inv == nil {
		return nil, domain.ErrBookNotFound
	}

	hold := readyHoldOf(s, bookID, userID)
	if others := readyHeldByOthers(s, bookID, userID); others > 0 {
		if hold == nil || inv.Free <= others {
			return nil, domain.ErrReservedForAnother
		}
	}

	if inv.Free <= 0 {
		return nil, domain.ErrNoCopiesAvailable
	}

	due, err := domain.AddDays(today, e.policy.LoanDays)
	if err != nil {
		return nil, fmt.Errorf("compute due date: %w", err)
	}

	loan := domain.Loan{
		ID:           s.NextLoanID(),
		BookID:       bookID,
		UserID:       userID,
		BorrowDate:   today,
		DueDate:      due,
		RenewalsLeft: e.policy.MaxRenewals,
	}
	s.Borrowed = append(s.Borrowed, loan)
	if hold != nil {
		hold.Status = domain.ReservationStatusCompleted
		hold.UpdatedOn = now
	}
	c.touch(bookID)

	return &BorrowResult{
		LoanID:       loan.ID,
		BookID:       bookID,
		DueDate:      loan.DueDate,
		RenewalsLeft: loan.RenewalsLeft,
	}, nil
}

// Return closes userID's loan of bookID, records it in the history and hands
// the freed copy to the earliest waiting reservation, if there is one. The
// promoted user still has to pick the book up.
func (e *Engine) Return(s *domain.LibraryState, bookID, userID int64, now time.Time) (*ReturnResult, error) {
	c := track(s)
	defer c.settle()

	today := domain.FormatDate(now)

	loan := s.FindLoan(bookID, userID)
	if loan == nil {
		return nil, domain.ErrLoanNotFound
	}

	overdue := loan.IsOverdue(today)
	s.History = append(s.History, domain.HistoryEntry{
		ID:         loan.ID,
		BookID:     loan.BookID,
		UserID:     loan.UserID,
		BorrowDate: loan.BorrowDate,
		ReturnDate: today,
		Overdue:    overdue,
	})
	s.RemoveLoan(loan.ID)
	c.touch(bookID)

	res := &ReturnResult{
		BookID:     bookID,
		ReturnDate: today,
		Overdue:    overdue,
	}

	promoted, err := e.promoteNext(c, bookID, now)
	if err != nil {
		return nil, err
	}
	if promoted != nil {
		cp := *promoted
		res.Promoted = &cp
	}
	return res, nil
}

// Renew extends userID's loan of bookID. Any other user queued for the book,
// waiting or ready, blocks the renewal.
func (e *Engine) Renew(s *domain.LibraryState, bookID, userID int64, now time.Time) (*RenewResult, error) {
	loan := s.FindLoan(bookID, userID)
	if loan == nil {
		return nil, domain.ErrLoanNotFound
	}
	if loan.RenewalsLeft <= 0 {
		return nil, domain.ErrNoRenewalsLeft
	}
	for _, r := range s.Reservations {
		if r.BookID == bookID && r.UserID != userID && r.IsActive() {
			return nil, domain.ErrReservedByAnother
		}
	}

	due, err := domain.AddDays(loan.DueDate, e.policy.RenewDays)
	if err != nil {
		return nil, fmt.Errorf("compute renewed due date: %w", err)
	}
	loan.DueDate = due
	loan.RenewalsLeft--

	return &RenewResult{
		BookID:       bookID,
		DueDate:      loan.DueDate,
		RenewalsLeft: loan.RenewalsLeft,
	}, nil
}

func readyHeldByOthers(s *domain.LibraryState, bookID, userID int64) int {
	n := 0
	for _, r := range s.Reservations {
		if r.BookID == bookID && r.UserID != userID && r.Status == domain.ReservationStatusReady {
			n++
		}
	}
	return n
}

func readyHoldOf(s *domain.LibraryState, bookID, userID int64) *domain.Reservation {
	for i := range s.Reservations {
		r := &s.Reservations[i]
		if r.BookID == bookID && r.UserID == userID && r.Status == domain.ReservationStatusReady {
			return r
		}
	}
	return nil
}
