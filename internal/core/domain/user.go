package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Session backs a signed access token; its ID travels as the JWT "jti" claim.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Active(now time.Time) bool {
	return !s.Revoked && s.ExpiresAt.After(now)
}

// Token is a single-use, expiring token row. Password resets and email
// verifications share the shape but live in separate tables.
type Token struct {
	TokenHash string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid mirrors the SQL predicate expires_at > now AND used = false AND is_deleted = 0.
func (t *Token) Valid(now time.Time) bool {
	return t != nil && !t.Used && !t.Deleted && t.ExpiresAt.After(now)
}
