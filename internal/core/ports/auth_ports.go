package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
)

// AuthRepository stores sessions and the single-use tokens of the
// verification and password reset flows. Getters return nil, nil when no row matches.
type AuthRepository interface {
	StoreSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	RevokeSession(ctx context.Context, id uuid.UUID) error

	CreatePasswordReset(ctx context.Context, token *domain.Token) error
	GetPasswordReset(ctx context.Context, tokenHash string) (*domain.Token, error)
	// ResetPassword consumes the token and updates the owner's password hash in one transaction.
	ResetPassword(ctx context.Context, tokenHash, passwordHash string) error

	CreateEmailVerification(ctx context.Context, token *domain.Token) error
	GetEmailVerification(ctx context.Context, tokenHash string) (*domain.Token, error)
	RevokeEmailVerifications(ctx context.Context, userID uuid.UUID) error
	// VerifyEmail consumes the token and marks the owner verified in one transaction.
	VerifyEmail(ctx context.Context, tokenHash string) error

	PurgeExpired(ctx context.Context) (PurgeResult, error)
}

type PurgeResult struct {
	PasswordResets     int64
	EmailVerifications int64
	Sessions           int64
}

type TokenPayload struct {
	Email string
	Name  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}

type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

type Email struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginResult struct {
	Token                     string       `json:"token"`
	ExpiresAt                 time.Time    `json:"expires_at"`
	User                      *domain.User `json:"user"`
	RequiresEmailVerification bool         `json:"requires_email_verification"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	LoginWithGoogle(ctx context.Context, credential string) (*LoginResult, error)
	Logout(ctx context.Context, sessionToken string) error
	// Authenticate resolves a session token to its user id.
	Authenticate(ctx context.Context, sessionToken string) (uuid.UUID, error)
	Me(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	VerifyEmail(ctx context.Context, token string) (*domain.User, error)
	ResendVerificationEmail(ctx context.Context, email string) error

	ValidateResetToken(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}
