// AngelaMos | 2026
// repository.go

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

// Repository reads identities provisioned outside this service. Email
// lookups match case-insensitively, the same way the unique index on
// lower(email) defines uniqueness, so stored addresses may be mixed case.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Identity, error)
	GetByEmail(ctx context.Context, email string) (*Identity, error)
	FindByIDOrEmail(ctx context.Context, id, email string) ([]Identity, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	GetOrganization(ctx context.Context, id string) (*Organization, error)
	List(ctx context.Context, params ListParams) ([]Identity, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const identityColumns = `
	id, email, name, role, org_id, password_hash,
	created_at, updated_at, deleted_at`

func (r *repository) GetByID(ctx context.Context, id string) (*Identity, error) {
	query := `SELECT` + identityColumns + `
		FROM identities
		WHERE id::text = $1 AND deleted_at IS NULL`

	var ident Identity
	err := r.db.GetContext(ctx, &ident, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get identity: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("get identity", err)
	}

	return &ident, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Identity, error) {
	query := `SELECT` + identityColumns + `
		FROM identities
		WHERE lower(email) = lower($1) AND deleted_at IS NULL`

	var ident Identity
	err := r.db.GetContext(ctx, &ident, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get identity by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("get identity by email", err)
	}

	return &ident, nil
}

// FindByIDOrEmail returns every live identity matching either key, capped
// at two rows: enough for the caller to tell "unique" from "ambiguous".
func (r *repository) FindByIDOrEmail(
	ctx context.Context,
	id, email string,
) ([]Identity, error) {
	query := `SELECT` + identityColumns + `
		FROM identities
		WHERE (id::text = $1 OR lower(email) = lower($2))
			AND deleted_at IS NULL
		ORDER BY created_at
		LIMIT 2`

	var idents []Identity
	if err := r.db.SelectContext(ctx, &idents, query, id, email); err != nil {
		return nil, core.StoreError("find identity", err)
	}

	return idents, nil
}

func (r *repository) UpdatePasswordHash(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE identities
		SET password_hash = $2, updated_at = NOW()
		WHERE id::text = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return core.StoreError("update password hash", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return core.StoreError("update password hash", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password hash: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) GetOrganization(
	ctx context.Context,
	id string,
) (*Organization, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM organizations
		WHERE id::text = $1`

	var org Organization
	err := r.db.GetContext(ctx, &org, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get organization: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("get organization", err)
	}

	return &org, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Identity, int, error) {
	params.Normalize()

	conditions := []string{"deleted_at IS NULL"}
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM identities WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, core.StoreError("count identities", err)
	}

	query := fmt.Sprintf(`SELECT`+identityColumns+`
		FROM identities
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var idents []Identity
	if err := r.db.SelectContext(ctx, &idents, query, args...); err != nil {
		return nil, 0, core.StoreError("list identities", err)
	}

	return idents, total, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
