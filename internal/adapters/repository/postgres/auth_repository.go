package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

const (
	passwordResetsTable     = "password_resets"
	emailVerificationsTable = "email_verifications"
)

type AuthRepository struct {
	db *sql.DB
}

func NewAuthRepository(db *sql.DB) ports.AuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) StoreSession(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, expires_at, revoked)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, session.ID, session.UserID, session.ExpiresAt, session.Revoked).Scan(&session.CreatedAt)
}

func (r *AuthRepository) GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query := `
		SELECT id, user_id, expires_at, revoked, created_at
		FROM sessions
		WHERE id = $1
	`
	session := &domain.Session{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.Revoked,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (r *AuthRepository) RevokeSession(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE sessions SET revoked = true WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *AuthRepository) CreatePasswordReset(ctx context.Context, token *domain.Token) error {
	return r.createToken(ctx, passwordResetsTable, token)
}

func (r *AuthRepository) GetPasswordReset(ctx context.Context, tokenHash string) (*domain.Token, error) {
	return r.getToken(ctx, passwordResetsTable, tokenHash)
}

func (r *AuthRepository) ResetPassword(ctx context.Context, tokenHash, passwordHash string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		userID, err := consumeToken(ctx, tx, passwordResetsTable, tokenHash)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrInvalidResetToken
		}
		if err != nil {
			return fmt.Errorf("failed to consume reset token: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2 AND is_deleted = 0`,
			passwordHash, userID)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return affectedOne(res, domain.ErrUserNotFound)
	})
}

func (r *AuthRepository) CreateEmailVerification(ctx context.Context, token *domain.Token) error {
	return r.createToken(ctx, emailVerificationsTable, token)
}

func (r *AuthRepository) GetEmailVerification(ctx context.Context, tokenHash string) (*domain.Token, error) {
	return r.getToken(ctx, emailVerificationsTable, tokenHash)
}

func (r *AuthRepository) RevokeEmailVerifications(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE email_verifications SET is_deleted = 1
		WHERE user_id = $1 AND used = false AND is_deleted = 0
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *AuthRepository) VerifyEmail(ctx context.Context, tokenHash string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		userID, err := consumeToken(ctx, tx, emailVerificationsTable, tokenHash)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrInvalidVerifyToken
		}
		if err != nil {
			return fmt.Errorf("failed to consume verification token: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE users SET email_verified = true, updated_at = NOW() WHERE id = $1 AND is_deleted = 0`,
			userID)
		if err != nil {
			return fmt.Errorf("failed to verify email: %w", err)
		}
		return affectedOne(res, domain.ErrUserNotFound)
	})
}

// PurgeExpired soft-deletes spent tokens and drops sessions that can no longer authenticate.
func (r *AuthRepository) PurgeExpired(ctx context.Context) (ports.PurgeResult, error) {
	var result ports.PurgeResult
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		if result.PasswordResets, err = purgeTokens(ctx, tx, passwordResetsTable); err != nil {
			return err
		}
		if result.EmailVerifications, err = purgeTokens(ctx, tx, emailVerificationsTable); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE revoked = true OR expires_at <= NOW()`)
		if err != nil {
			return fmt.Errorf("failed to purge sessions: %w", err)
		}
		result.Sessions, err = res.RowsAffected()
		return err
	})
	return result, err
}

func (r *AuthRepository) createToken(ctx context.Context, table string, token *domain.Token) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, table)
	return r.db.QueryRowContext(ctx, query, token.TokenHash, token.UserID, token.ExpiresAt).Scan(&token.CreatedAt)
}

func (r *AuthRepository) getToken(ctx context.Context, table, tokenHash string) (*domain.Token, error) {
	query := fmt.Sprintf(`
		SELECT token, user_id, expires_at, used, is_deleted <> 0, created_at
		FROM %s
		WHERE token = $1
	`, table)
	token := &domain.Token{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.TokenHash,
		&token.UserID,
		&token.ExpiresAt,
		&token.Used,
		&token.Deleted,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return token, nil
}

// consumeToken flips a valid token to used. Spent or expired tokens yield sql.ErrNoRows.
func consumeToken(ctx context.Context, tx *sql.Tx, table, tokenHash string) (uuid.UUID, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET used = true
		WHERE token = $1 AND used = false AND is_deleted = 0 AND expires_at > NOW()
		RETURNING user_id
	`, table)
	var userID uuid.UUID
	err := tx.QueryRowContext(ctx, query, tokenHash).Scan(&userID)
	return userID, err
}

func purgeTokens(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET is_deleted = 1
		WHERE is_deleted = 0 AND (used = true OR expires_at <= NOW())
	`, table)
	res, err := tx.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to purge %s: %w", table, err)
	}
	return res.RowsAffected()
}
