package domain

// Book is a catalog title with one or more physical copies.
// Available is derived (1 or 0) and only written by the availability refresh.
type Book struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Copies    int    `json:"copies"`
	Available int    `json:"available"`
}

// CopyCount returns the number of physical copies, defaulting to 1 when unset or invalid.
func (b *Book) CopyCount() int {
	if b.Copies < 1 {
		return 1
	}
	return b.Copies
}
