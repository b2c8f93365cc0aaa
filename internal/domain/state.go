package domain

// LibraryState is the whole circulation document. Every operation loads it,
// mutates it in place and saves it back as one unit.
type LibraryState struct {
	// Version is the optimistic-concurrency token owned by the snapshot store.
	Version      int64          `json:"version"`
	Books        []Book         `json:"books"`
	Borrowed     []Loan         `json:"borrowed"`
	Reservations []Reservation  `json:"reservations"`
	History      []HistoryEntry `json:"history"`
	Users        []User         `json:"users"`
}

func NewLibraryState() *LibraryState {
	return &LibraryState{
		Books:        []Book{},
		Borrowed:     []Loan{},
		Reservations: []Reservation{},
		History:      []HistoryEntry{},
		Users:        []User{},
	}
}

func (s *LibraryState) FindBook(id int64) *Book {
	for i := range s.Books {
		if s.Books[i].ID == id {
			return &s.Books[i]
		}
	}
	return nil
}

func (s *LibraryState) FindUser(id int64) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

func (s *LibraryState) FindLoan(bookID, userID int64) *Loan {
	for i := range s.Borrowed {
		if s.Borrowed[i].BookID == bookID && s.Borrowed[i].UserID == userID {
			return &s.Borrowed[i]
		}
	}
	return nil
}

func (s *LibraryState) FindReservation(id int64) *Reservation {
	for i := range s.Reservations {
		if s.Reservations[i].ID == id {
			return &s.Reservations[i]
		}
	}
	return nil
}

// RemoveLoan deletes the loan with the given id, keeping the order of the rest.
func (s *LibraryState) RemoveLoan(id int64) {
	for i := range s.Borrowed {
		if s.Borrowed[i].ID == id {
			s.Borrowed = append(s.Borrowed[:i], s.Borrowed[i+1:]...)
			return
		}
	}
}

func (s *LibraryState) NextLoanID() int64 {
	var last int64
	for _, l := range s.Borrowed {
		if l.ID > last {
			last = l.ID
		}
	}
	// Returned loans leave the collection; history ids keep loan ids from being reused.
	for _, h := range s.History {
		if h.ID > last {
			last = h.ID
		}
	}
	return last + 1
}

func (s *LibraryState) NextReservationID() int64 {
	var last int64
	for _, r := range s.Reservations {
		if r.ID > last {
			last = r.ID
		}
	}
	return last + 1
}

// Normalize replaces missing collections with empty ones, so a document saved
// by an older writer or edited by hand still behaves like NewLibraryState.
func (s *LibraryState) Normalize() {
	if s.Books == nil {
		s.Books = []Book{}
	}
	if s.Borrowed == nil {
		s.Borrowed = []Loan{}
	}
	if s.Reservations == nil {
		s.Reservations = []Reservation{}
	}
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	if s.Users == nil {
		s.Users = []User{}
	}
}
