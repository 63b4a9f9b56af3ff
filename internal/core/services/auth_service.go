package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

type AuthConfig struct {
	JWTSecret       []byte
	SessionTTL      time.Duration
	ResetTokenTTL   time.Duration
	VerificationTTL time.Duration
	AppName         string
	BaseURL         string
	GoogleClientID  string
}

type AuthService struct {
	userRepo            ports.UserRepository
	authRepo            ports.AuthRepository
	googleTokenVerifier ports.TokenVerifier
	mailer              ports.Mailer
	cfg                 AuthConfig
	logger              *zap.Logger
	now                 func() time.Time
}

type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func NewAuthService(
	userRepo ports.UserRepository,
	authRepo ports.AuthRepository,
	googleTokenVerifier ports.TokenVerifier,
	mailer ports.Mailer,
	cfg AuthConfig,
	logger *zap.Logger,
) *AuthService {
	if len(cfg.JWTSecret) == 0 {
		logger.Warn("JWT secret not set")
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.ResetTokenTTL == 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	if cfg.VerificationTTL == 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}

	return &AuthService{
		userRepo:            userRepo,
		authRepo:            authRepo,
		googleTokenVerifier: googleTokenVerifier,
		mailer:              mailer,
		cfg:                 cfg,
		logger:              logger,
		now:                 time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.Internal("failed to hash password", err)
	}

	user := &domain.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.Warn("failed to send verification email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, credential string) (*ports.LoginResult, error) {
	if credential == "" {
		return nil, domain.Validation("credential is required")
	}

	payload, err := s.googleTokenVerifier.Verify(ctx, credential, s.cfg.GoogleClientID)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindAuth, Message: "Invalid Google credential", Err: err}
	}

	email := normalizeEmail(payload.Email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		name := strings.TrimSpace(payload.Name)
		if name == "" {
			name = email
		}
		user = &domain.User{
			Email:         email,
			Name:          name,
			EmailVerified: true,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.issueSession(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	claims, err := s.parseSessionToken(sessionToken)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return domain.ErrInvalidSession
	}

	if err := s.authRepo.RevokeSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, sessionToken string) (uuid.UUID, error) {
	claims, err := s.parseSessionToken(sessionToken)
	if err != nil {
		return uuid.Nil, err
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidSession
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidSession
	}

	session, err := s.authRepo.GetSession(ctx, sessionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || !session.Active(s.now()) || session.UserID != userID {
		return uuid.Nil, domain.ErrInvalidSession
	}

	return userID, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidVerifyToken
	}
	tokenHash := s.hashToken(token)

	verification, err := s.authRepo.GetEmailVerification(ctx, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get verification token: %w", err)
	}
	if !verification.Valid(s.now()) {
		return nil, domain.ErrInvalidVerifyToken
	}

	if err := s.authRepo.VerifyEmail(ctx, tokenHash); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, verification.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// ResendVerificationEmail is a no-op for unknown or already verified addresses
// so the response does not reveal which accounts exist.
func (s *AuthService) ResendVerificationEmail(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.EmailVerified {
		return nil
	}

	if err := s.authRepo.RevokeEmailVerifications(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke verification tokens: %w", err)
	}
	if err := s.sendVerification(ctx, user); err != nil {
		return domain.Internal("Failed to send verification email", err)
	}
	return nil
}

func (s *AuthService) ValidateResetToken(ctx context.Context, token string) error {
	_, err := s.validResetToken(ctx, token)
	return err
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		s.logger.Debug("password reset requested for unknown email")
		return nil
	}

	token, err := s.generateToken()
	if err != nil {
		return domain.Internal("failed to generate reset token", err)
	}

	reset := &domain.Token{
		TokenHash: s.hashToken(token),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.cfg.ResetTokenTTL),
	}
	if err := s.authRepo.CreatePasswordReset(ctx, reset); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.cfg.BaseURL, token)
	msg := ports.Email{
		To:      user.Email,
		ToName:  user.Name,
		Subject: fmt.Sprintf("%s password reset", s.cfg.AppName),
		Text: fmt.Sprintf("Hi %s,\n\nUse the link below to reset your password. It expires in %s.\n\n%s\n",
			user.Name, s.cfg.ResetTokenTTL, link),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Use the link below to reset your password. It expires in %s.</p><p><a href="%s">Reset password</a></p>`,
			html.EscapeString(user.Name), s.cfg.ResetTokenTTL, link),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("failed to send password reset email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, input ports.ResetPasswordInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	reset, err := s.validResetToken(ctx, input.Token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Internal("failed to hash password", err)
	}

	return s.authRepo.ResetPassword(ctx, reset.TokenHash, string(hash))
}

func (s *AuthService) validResetToken(ctx context.Context, token string) (*domain.Token, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidResetToken
	}

	reset, err := s.authRepo.GetPasswordReset(ctx, s.hashToken(token))
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	if !reset.Valid(s.now()) {
		return nil, domain.ErrInvalidResetToken
	}
	return reset, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *domain.User) error {
	token, err := s.generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	verification := &domain.Token{
		TokenHash: s.hashToken(token),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.cfg.VerificationTTL),
	}
	if err := s.authRepo.CreateEmailVerification(ctx, verification); err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/verify-email/%s", s.cfg.BaseURL, token)
	return s.mailer.Send(ctx, ports.Email{
		To:      user.Email,
		ToName:  user.Name,
		Subject: fmt.Sprintf("Verify your %s account", s.cfg.AppName),
		Text:    fmt.Sprintf("Hi %s,\n\nConfirm your email address by opening the link below:\n\n%s\n", user.Name, link),
		HTML:    fmt.Sprintf(`<p>Hi %s,</p><p>Confirm your email address:</p><p><a href="%s">Verify email</a></p>`, html.EscapeString(user.Name), link),
	})
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*ports.LoginResult, error) {
	now := s.now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.authRepo.StoreSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	claims := sessionClaims{
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID.String(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.JWTSecret)
	if err != nil {
		return nil, domain.Internal("failed to sign session token", err)
	}

	return &ports.LoginResult{
		Token:                     token,
		ExpiresAt:                 session.ExpiresAt,
		User:                      user,
		RequiresEmailVerification: !user.EmailVerified,
	}, nil
}

func (s *AuthService) parseSessionToken(tokenString string) (*sessionClaims, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.cfg.JWTSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, &domain.Error{Kind: domain.KindAuth, Message: domain.ErrInvalidSession.Message, Err: err}
	}
	return claims, nil
}

func (s *AuthService) generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
