// AngelaMos | 2026
// repository.go

package skill

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

type Repository interface {
	List(ctx context.Context, params ListParams) ([]Skill, int, error)
	GetByID(ctx context.Context, id string) (*Skill, error)
	GetBySlug(ctx context.Context, slug string) (*Skill, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Skill, int, error) {
	params.Normalize()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM skills`); err != nil {
		return nil, 0, core.StoreError("count skills", err)
	}

	query := `
		SELECT id, slug, name, description, author, downloads, created_at
		FROM skills
		ORDER BY downloads DESC, id
		LIMIT $1 OFFSET $2`

	var skills []Skill
	if err := r.db.SelectContext(ctx, &skills, query,
		params.PageSize,
		params.Offset(),
	); err != nil {
		return nil, 0, core.StoreError("list skills", err)
	}

	return skills, total, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Skill, error) {
	return r.getOne(ctx, "get skill", `
		SELECT id, slug, name, description, author, downloads, created_at
		FROM skills
		WHERE id::text = $1`, id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Skill, error) {
	return r.getOne(ctx, "get skill by slug", `
		SELECT id, slug, name, description, author, downloads, created_at
		FROM skills
		WHERE slug = $1`, slug)
}

func (r *repository) getOne(
	ctx context.Context,
	op, query string,
	arg string,
) (*Skill, error) {
	var s Skill
	err := r.db.GetContext(ctx, &s, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError(op, err)
	}

	return &s, nil
}
