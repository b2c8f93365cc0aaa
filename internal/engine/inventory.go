package engine

import "library-lending-backend/internal/domain"

// Inventory is the copy accounting for one book.
type Inventory struct {
	Copies int `json:"copies"`
	InUse  int `json:"inUse"`
	Free   int `json:"free"`
}

// ResolveInventory counts the copies of bookID currently on loan.
// It returns nil when the book does not exist.
func ResolveInventory(s *domain.LibraryState, bookID int64) *Inventory {
	book := s.FindBook(bookID)
	if book == nil {
		return nil
	}

	inv := &Inventory{Copies: book.CopyCount()}
	for _, l := range s.Borrowed {
		if l.BookID == bookID {
			inv.InUse++
		}
	}
	inv.Free = inv.Copies - inv.InUse
	if inv.Free < 0 {
		inv.Free = 0
	}
	return inv
}
