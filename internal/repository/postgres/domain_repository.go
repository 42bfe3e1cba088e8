package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository"
)

type domainRepository struct {
	executor DBExecutor
}

func NewDomainRepository(db *sql.DB) *domainRepository {
	return &domainRepository{executor: db}
}

func (r *domainRepository) Create(ctx context.Context, securityDomain *domain.SecurityDomain) error {
	query := `
		INSERT INTO domains (id, name, enabled, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	return r.executor.QueryRowContext(ctx, query,
		securityDomain.ID,
		securityDomain.Name,
		securityDomain.Enabled,
		nowUTC(),
	).Scan(&securityDomain.CreatedAt)
}

func (r *domainRepository) GetByID(ctx context.Context, id string) (*domain.SecurityDomain, error) {
	query := `SELECT id, name, enabled, created_at FROM domains WHERE id = $1`

	securityDomain := &domain.SecurityDomain{}
	err := r.executor.QueryRowContext(ctx, query, id).Scan(
		&securityDomain.ID,
		&securityDomain.Name,
		&securityDomain.Enabled,
		&securityDomain.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return securityDomain, nil
}
