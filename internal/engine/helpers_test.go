package engine

import (
	"time"

	"library-lending-backend/internal/domain"
)

var testNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

const (
	userA int64 = 1
	userB int64 = 2
	userC int64 = 3
	userD int64 = 4

	duneID       int64 = 100
	foundationID int64 = 101
)

func newTestState(books ...domain.Book) *domain.LibraryState {
	s := domain.NewLibraryState()
	s.Books = append(s.Books, books...)
	s.Users = append(s.Users,
		domain.User{ID: userA, Name: "Ada", Email: "ada@example.com"},
		domain.User{ID: userB, Name: "Bo", Email: "bo@example.com"},
		domain.User{ID: userC, Name: "Cy", Email: "cy@example.com"},
		domain.User{ID: userD, Name: "Di", Email: "di@example.com"},
	)
	RefreshAll(s)
	return s
}

func dune(copies int) domain.Book {
	return domain.Book{ID: duneID, Title: "Dune", Author: "Frank Herbert", Copies: copies}
}

func foundation(copies int) domain.Book {
	return domain.Book{ID: foundationID, Title: "Foundation", Author: "Isaac Asimov", Copies: copies}
}

func days(n int) time.Time {
	return testNow.AddDate(0, 0, n)
}
