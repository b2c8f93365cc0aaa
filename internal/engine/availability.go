package engine

import "library-lending-backend/internal/domain"

// QueueCounts returns how many reservations for bookID are waiting and ready.
func QueueCounts(s *domain.LibraryState, bookID int64) (waiting, ready int) {
	for _, r := range s.Reservations {
		if r.BookID != bookID {
			continue
		}
		switch r.Status {
		case domain.ReservationStatusWaiting:
			waiting++
		case domain.ReservationStatusReady:
			ready++
		}
	}
	return waiting, ready
}

// RefreshAvailability rewrites book.Available: 1 only when a copy is free and
// nobody is queued, because a free copy goes to the front of the queue first.
func RefreshAvailability(s *domain.LibraryState, bookID int64) {
	book := s.FindBook(bookID)
	if book == nil {
		return
	}
	inv := ResolveInventory(s, bookID)
	waiting, ready := QueueCounts(s, bookID)

	if inv.Free > 0 && waiting == 0 && ready == 0 {
		book.Available = 1
	} else {
		book.Available = 0
	}
}

// RefreshAll recomputes availability for every book in the state.
func RefreshAll(s *domain.LibraryState) {
	for i := range s.Books {
		RefreshAvailability(s, s.Books[i].ID)
	}
}

// change tracks which books an operation touched so availability is
// recomputed exactly once per book when the operation settles.
type change struct {
	state *domain.LibraryState
	books []int64
}

func track(s *domain.LibraryState) *change {
	return &change{state: s}
}

func (c *change) touch(bookID int64) {
	for _, id := range c.books {
		if id == bookID {
			return
		}
	}
	c.books = append(c.books, bookID)
}

func (c *change) settle() {
	for _, id := range c.books {
		RefreshAvailability(c.state, id)
	}
}
