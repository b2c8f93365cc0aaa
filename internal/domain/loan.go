package domain

// Loan is an active borrow record ("borrowed" collection).
type Loan struct {
	ID           int64  `json:"id"`
	BookID       int64  `json:"bookId"`
	UserID       int64  `json:"userId"`
	BorrowDate   string `json:"borrowDate"`
	DueDate      string `json:"dueDate"`
	RenewalsLeft int    `json:"renewalsLeft"`
}

// IsOverdue reports whether the loan was due before today (YYYY-MM-DD).
func (l *Loan) IsOverdue(today string) bool {
	return DateBefore(l.DueDate, today)
}

// HistoryEntry is an immutable record of a finished loan cycle.
type HistoryEntry struct {
	ID         int64  `json:"id"`
	BookID     int64  `json:"bookId"`
	UserID     int64  `json:"userId"`
	BorrowDate string `json:"borrowDate"`
	ReturnDate string `json:"returnDate"`
	Overdue    bool   `json:"overdue"`
}
