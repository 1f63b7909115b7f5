// AngelaMos | 2026
// repository.go

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

type Repository interface {
	Create(ctx context.Context, sess *Session) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	FindByID(ctx context.Context, id string) (*Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	ListActiveForSubject(
		ctx context.Context,
		subjectID string,
		now time.Time,
	) ([]Session, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)

	CreateLoginLink(ctx context.Context, link *LoginLink) error
	ConsumeLoginLink(
		ctx context.Context,
		tokenHash string,
		now time.Time,
	) (*LoginLink, error)
	DeleteStaleLoginLinks(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const sessionColumns = `
	id, token_hash, subject_id, subject_email, kind,
	expires_at, created_at, user_agent, ip_address`

func (r *repository) Create(ctx context.Context, sess *Session) error {
	query := `
		INSERT INTO sessions (
			id, token_hash, subject_id, subject_email, kind,
			expires_at, user_agent, ip_address
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &sess.CreatedAt, query,
		sess.ID,
		sess.TokenHash,
		sess.SubjectID,
		sess.SubjectEmail,
		sess.Kind,
		sess.ExpiresAt,
		sess.UserAgent,
		sess.IPAddress,
	)
	if err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("create session: %w", core.ErrDuplicateKey)
		}
		return core.StoreError("create session", err)
	}

	return nil
}

func (r *repository) FindByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*Session, error) {
	query := `SELECT` + sessionColumns + `
		FROM sessions
		WHERE token_hash = $1`

	var sess Session
	err := r.db.GetContext(ctx, &sess, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("find session", err)
	}

	return &sess, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Session, error) {
	query := `SELECT` + sessionColumns + `
		FROM sessions
		WHERE id::text = $1`

	var sess Session
	err := r.db.GetContext(ctx, &sess, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("find session", err)
	}

	return &sess, nil
}

func (r *repository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE id::text = $1`, id)
	if err != nil {
		return core.StoreError("delete session", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return core.StoreError("delete session", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete session: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteByTokenHash(
	ctx context.Context,
	tokenHash string,
) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return core.StoreError("delete session", err)
	}

	return nil
}

func (r *repository) ListActiveForSubject(
	ctx context.Context,
	subjectID string,
	now time.Time,
) ([]Session, error) {
	query := `SELECT` + sessionColumns + `
		FROM sessions
		WHERE subject_id = $1 AND expires_at > $2
		ORDER BY created_at DESC`

	var sessions []Session
	if err := r.db.SelectContext(ctx, &sessions, query, subjectID, now); err != nil {
		return nil, core.StoreError("list sessions", err)
	}

	return sessions, nil
}

func (r *repository) DeleteExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, core.StoreError("delete expired sessions", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, core.StoreError("delete expired sessions", err)
	}

	return rows, nil
}

func (r *repository) CountActive(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM sessions WHERE expires_at > $1`, now)
	if err != nil {
		return 0, core.StoreError("count sessions", err)
	}

	return n, nil
}

func (r *repository) CreateLoginLink(
	ctx context.Context,
	link *LoginLink,
) error {
	query := `
		INSERT INTO login_links (id, token_hash, email, next_path, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &link.CreatedAt, query,
		link.ID,
		link.TokenHash,
		link.Email,
		link.NextPath,
		link.ExpiresAt,
	)
	if err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("create login link: %w", core.ErrDuplicateKey)
		}
		return core.StoreError("create login link", err)
	}

	return nil
}

// ConsumeLoginLink marks an unused, unexpired link as used in one statement
// so two concurrent callbacks cannot both redeem it.
func (r *repository) ConsumeLoginLink(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*LoginLink, error) {
	query := `
		UPDATE login_links
		SET used_at = $2
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2
		RETURNING id, token_hash, email, next_path, expires_at, used_at, created_at`

	var link LoginLink
	err := r.db.GetContext(ctx, &link, query, tokenHash, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("consume login link: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("consume login link", err)
	}

	return &link, nil
}

func (r *repository) DeleteStaleLoginLinks(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM login_links
		WHERE used_at IS NOT NULL OR expires_at <= $1`, now)
	if err != nil {
		return 0, core.StoreError("delete stale login links", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, core.StoreError("delete stale login links", err)
	}

	return rows, nil
}
