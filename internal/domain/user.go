package domain

// User is the minimal member record the circulation side needs for notifications.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
