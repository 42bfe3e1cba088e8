package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

type roleRepository struct {
	executor DBExecutor
}

func NewRoleRepository(db *sql.DB) *roleRepository {
	return &roleRepository{executor: db}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	if role.ID == "" {
		role.ID = domain.NewID()
	}

	_, err := r.executor.ExecContext(ctx,
		`INSERT INTO roles (id, domain_id, name, description) VALUES ($1, $2, $3, $4)`,
		role.ID, role.Domain, role.Name, role.Description,
	)
	return err
}

func (r *roleRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Role, error) {
	if len(ids) == 0 {
		return []*domain.Role{}, nil
	}

	query := fmt.Sprintf(`SELECT id, domain_id, name, description FROM roles WHERE id IN (%s) ORDER BY id`, placeholders(1, len(ids)))

	rows, err := r.executor.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]*domain.Role, 0, len(ids))
	for rows.Next() {
		role := &domain.Role{}
		var description sql.NullString
		if err := rows.Scan(&role.ID, &role.Domain, &role.Name, &description); err != nil {
			return nil, err
		}
		role.Description = description.String
		roles = append(roles, role)
	}

	return roles, rows.Err()
}
