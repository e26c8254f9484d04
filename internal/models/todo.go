package models

import "time"

// Todo is a single task owned by exactly one user. Description and DueDate are
// nullable columns, hence the pointers.
type Todo struct {
	ID          int        `json:"id"`
	UserID      int        `json:"-"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"-"`
}

// TodoUpdate carries a partial update: nil fields are left untouched.
type TodoUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
}
