package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository"
)

const userColumns = `id, domain_id, username, email, display_name, created_at, updated_at`

type userRepository struct {
	executor DBExecutor
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{executor: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, domain_id, username, email, display_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	if user.ID == "" {
		user.ID = domain.NewID()
	}

	return r.executor.QueryRowContext(
		ctx,
		query,
		user.ID,
		user.Domain,
		user.Username,
		user.Email,
		user.DisplayName,
		nowUTC(),
	).Scan(&user.CreatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

// ListByIDs возвращает найденных пользователей; неизвестные идентификаторы отбрасываются
func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id IN (%s) ORDER BY id`, userColumns, placeholders(1, len(ids)))

	rows, err := r.executor.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0, len(ids))
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var email, displayName sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Domain,
		&user.Username,
		&email,
		&displayName,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Email = email.String
	user.DisplayName = displayName.String
	if updatedAt.Valid {
		user.UpdatedAt = &updatedAt.Time
	} else {
		user.UpdatedAt = nil
	}

	return user, nil
}
