package library

// Role determines which menu actions a logged-in user may perform.
type Role string

const (
	RoleLibrarian Role = "librarian"
	RoleStudent   Role = "student"
)

// Book status values as stored on disk.
const (
	StatusAvailable  = "Available"
	StatusCheckedOut = "Checked Out"
)

// Book is one catalog record. Borrower and DueDate are non-nil exactly when
// Status is "Checked Out"; DueDate is an ISO 8601 date (YYYY-MM-DD).
type Book struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Status   string  `json:"status"`
	Borrower *string `json:"borrower"`
	DueDate  *string `json:"due_date"`
	Summary  string  `json:"summary,omitempty"`
}

// Available reports whether the book can be checked out.
func (b *Book) Available() bool { return b.Status == StatusAvailable }

// User is one account record. The user store maps username -> User, so the
// username itself is not repeated inside the record.
type User struct {
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
}
