package domain

// User is the authenticated account as reported by /auth/me.
type User struct {
	ID         int64
	Username   string
	Email      string
	Reputation int
}

// Stats is the engagement summary from /auth/stats.
type Stats struct {
	Deals    int
	Comments int
	Karma    int
	Saved    int
}

// Credentials is the login payload. Validation tags mirror the server's
// checks so obviously bad input fails before a round trip.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Registration is the signup payload.
type Registration struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}
