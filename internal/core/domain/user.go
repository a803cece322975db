package domain

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a persisted account. Password holds the bcrypt hash and is only
// populated by lookups that feed credential verification.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     string `json:"role"`
}

// Public returns a copy of u with the password hash cleared.
func (u User) Public() User {
	u.Password = ""
	return u
}

// Principal is the authenticated caller, rebuilt from a verified token on
// every request. It is never persisted.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}
