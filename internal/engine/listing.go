package engine

import (
	"sort"
	"time"

	"library-lending-backend/internal/domain"
)

type LoanView struct {
	LoanID       int64  `json:"loanId"`
	BookID       int64  `json:"bookId"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	BorrowDate   string `json:"borrowDate"`
	DueDate      string `json:"dueDate"`
	RenewalsLeft int    `json:"renewalsLeft"`
	Overdue      bool   `json:"overdue"`
}

type BorrowerView struct {
	UserID       int64  `json:"userId"`
	DueDate      string `json:"dueDate"`
	Overdue      bool   `json:"overdue"`
	RenewalsLeft int    `json:"renewalsLeft"`
}

type ReservationView struct {
	ReservationID int64                    `json:"reservationId"`
	BookID        int64                    `json:"bookId"`
	Title         string                   `json:"title"`
	QueuePosition int                      `json:"queuePosition"`
	Status        domain.ReservationStatus `json:"status"`
	PickupDate    string                   `json:"pickupDate"`
}

// OverdueLoan pairs an overdue loan with what a reminder needs to address it.
type OverdueLoan struct {
	Loan  domain.Loan
	Title string
	User  *domain.User
}

// ListUserLoans projects userID's active loans onto their books, soonest due first.
func ListUserLoans(s *domain.LibraryState, userID int64, now time.Time) []LoanView {
	today := domain.FormatDate(now)

	views := []LoanView{}
	for _, l := range s.Borrowed {
		if l.UserID != userID {
			continue
		}
		v := LoanView{
			LoanID:       l.ID,
			BookID:       l.BookID,
			BorrowDate:   l.BorrowDate,
			DueDate:      l.DueDate,
			RenewalsLeft: l.RenewalsLeft,
			Overdue:      l.IsOverdue(today),
		}
		if b := s.FindBook(l.BookID); b != nil {
			v.Title = b.Title
			v.Author = b.Author
		}
		views = append(views, v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].DueDate != views[j].DueDate {
			return views[i].DueDate < views[j].DueDate
		}
		return views[i].LoanID < views[j].LoanID
	})
	return views
}

// ListBookBorrowers lists who currently holds a copy of bookID.
func ListBookBorrowers(s *domain.LibraryState, bookID int64, now time.Time) []BorrowerView {
	today := domain.FormatDate(now)

	views := []BorrowerView{}
	for _, l := range s.Borrowed {
		if l.BookID != bookID {
			continue
		}
		views = append(views, BorrowerView{
			UserID:       l.UserID,
			DueDate:      l.DueDate,
			Overdue:      l.IsOverdue(today),
			RenewalsLeft: l.RenewalsLeft,
		})
	}
	return views
}

// ListUserReservations returns userID's waiting and ready reservations in queue order.
func ListUserReservations(s *domain.LibraryState, userID int64) []ReservationView {
	var active []domain.Reservation
	for _, r := range s.Reservations {
		if r.UserID == userID && r.IsActive() {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].QueuedBefore(&active[j])
	})

	views := make([]ReservationView, 0, len(active))
	for _, r := range active {
		v := ReservationView{
			ReservationID: r.ID,
			BookID:        r.BookID,
			QueuePosition: r.QueuePosition,
			Status:        r.Status,
			PickupDate:    r.PickupDate,
		}
		if b := s.FindBook(r.BookID); b != nil {
			v.Title = b.Title
		}
		views = append(views, v)
	}
	return views
}

// ListUserHistory returns userID's finished loans, most recent return first.
func ListUserHistory(s *domain.LibraryState, userID int64) []domain.HistoryEntry {
	entries := []domain.HistoryEntry{}
	for _, h := range s.History {
		if h.UserID == userID {
			entries = append(entries, h)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ReturnDate != entries[j].ReturnDate {
			return entries[i].ReturnDate > entries[j].ReturnDate
		}
		return entries[i].ID > entries[j].ID
	})
	return entries
}

// OverdueLoans returns every loan whose due date is before today.
func OverdueLoans(s *domain.LibraryState, now time.Time) []OverdueLoan {
	today := domain.FormatDate(now)

	var out []OverdueLoan
	for _, l := range s.Borrowed {
		if !l.IsOverdue(today) {
			continue
		}
		o := OverdueLoan{Loan: l}
		if u := s.FindUser(l.UserID); u != nil {
			cp := *u
			o.User = &cp
		}
		if b := s.FindBook(l.BookID); b != nil {
			o.Title = b.Title
		}
		out = append(out, o)
	}
	return out
}
