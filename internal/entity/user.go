package entity

import "time"

type User struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	Password  string    `db:"password"`
	GoogleID  string    `db:"google_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// UserLoginData is what the token guard stores in the request locals.
type UserLoginData struct {
	ID    string
	Name  string
	Email string
}
