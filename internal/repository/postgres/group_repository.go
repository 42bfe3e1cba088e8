package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

const groupColumns = `id, domain_id, name, description, version, created_at, updated_at`

type groupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) *groupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM user_groups WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *groupRepository) GetByDomainAndName(ctx context.Context, domainID, name string) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM user_groups WHERE domain_id = $1 AND name = $2`
	return r.getOne(ctx, query, domainID, name)
}

func (r *groupRepository) ListByDomain(ctx context.Context, domainID string) ([]*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM user_groups WHERE domain_id = $1 ORDER BY name`
	return r.list(ctx, query, domainID)
}

// ListByDomainPage - page считается с нуля, смещение равно page*size
func (r *groupRepository) ListByDomainPage(ctx context.Context, domainID string, page, size int) (*domain.Page[*domain.Group], error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_groups WHERE domain_id = $1`, domainID).Scan(&total)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + groupColumns + ` FROM user_groups WHERE domain_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	groups, err := r.list(ctx, query, domainID, size, page*size)
	if err != nil {
		return nil, err
	}

	return &domain.Page[*domain.Group]{
		Data:        groups,
		CurrentPage: page,
		Size:        total,
	}, nil
}

func (r *groupRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Group, error) {
	if len(ids) == 0 {
		return []*domain.Group{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM user_groups WHERE id IN (%s) ORDER BY name`, groupColumns, placeholders(1, len(ids)))
	return r.list(ctx, query, stringArgs(ids)...)
}

func (r *groupRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Group, error) {
	query := `
		SELECT g.id, g.domain_id, g.name, g.description, g.version, g.created_at, g.updated_at
		FROM user_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY g.name
	`
	return r.list(ctx, query, userID)
}

// Create сохраняет группу вместе с участниками и ролями в одной транзакции
func (r *groupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO user_groups (id, domain_id, name, description, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	created := group.Clone()
	created.Version = 1
	_, err = tx.ExecContext(ctx, query,
		created.ID,
		created.Domain,
		created.Name,
		created.Description,
		created.Version,
		created.CreatedAt,
		created.UpdatedAt,
	)
	if err != nil {
		return nil, mapUniqueViolation(err, created.Name)
	}

	if err := replaceMembers(ctx, tx, created.ID, created.Members); err != nil {
		return nil, err
	}
	if err := replaceRoles(ctx, tx, created.ID, created.Roles); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return created, nil
}

// Update заменяет группу целиком; версия сравнивается и увеличивается в одном UPDATE
func (r *groupRepository) Update(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		UPDATE user_groups
		SET name = $2, description = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND version = $5
		RETURNING version
	`

	updated := group.Clone()
	err = tx.QueryRowContext(ctx, query,
		updated.ID,
		updated.Name,
		updated.Description,
		updated.UpdatedAt,
		group.Version,
	).Scan(&updated.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.missingOrConflict(ctx, tx, updated.ID)
		}
		return nil, mapUniqueViolation(err, updated.Name)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = $1`, updated.ID); err != nil {
		return nil, err
	}
	if err := replaceMembers(ctx, tx, updated.ID, updated.Members); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM group_roles WHERE group_id = $1`, updated.ID); err != nil {
		return nil, err
	}
	if err := replaceRoles(ctx, tx, updated.ID, updated.Roles); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return updated, nil
}

// missingOrConflict различает удалённую группу и устаревшую версию после пустого UPDATE
func (r *groupRepository) missingOrConflict(ctx context.Context, tx *sql.Tx, id string) error {
	var exists bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM user_groups WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrVersionConflict
}

// Delete удаляет группу; участники и роли удаляются каскадно
func (r *groupRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_groups WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *groupRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Group, error) {
	group, err := scanGroup(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadRelations(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

func (r *groupRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Group, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]*domain.Group, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, group := range groups {
		if err := r.loadRelations(ctx, group); err != nil {
			return nil, err
		}
	}

	return groups, nil
}

func (r *groupRepository) loadRelations(ctx context.Context, group *domain.Group) error {
	members, err := queryIDs(ctx, r.db, `SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY position`, group.ID)
	if err != nil {
		return err
	}
	roles, err := queryIDs(ctx, r.db, `SELECT role_id FROM group_roles WHERE group_id = $1 ORDER BY position`, group.ID)
	if err != nil {
		return err
	}

	group.Members = members
	group.Roles = roles
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*domain.Group, error) {
	group := &domain.Group{}
	var description sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&group.ID,
		&group.Domain,
		&group.Name,
		&description,
		&group.Version,
		&group.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	group.Description = description.String
	if updatedAt.Valid {
		group.UpdatedAt = updatedAt.Time
	} else {
		group.UpdatedAt = group.CreatedAt
	}

	return group, nil
}

func replaceMembers(ctx context.Context, tx *sql.Tx, groupID string, members []string) error {
	for position, userID := range members {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, user_id, position) VALUES ($1, $2, $3)`,
			groupID, userID, position,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func replaceRoles(ctx context.Context, tx *sql.Tx, groupID string, roles []string) error {
	for position, roleID := range roles {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO group_roles (group_id, role_id, position) VALUES ($1, $2, $3)`,
			groupID, roleID, position,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func mapUniqueViolation(err error, name string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return domain.NewGroupAlreadyExistsError(name)
	}
	return err
}

// nowUTC выделен, чтобы в репозиториях было одно место получения времени
func nowUTC() time.Time {
	return time.Now().UTC()
}
