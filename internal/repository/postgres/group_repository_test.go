package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var groupRowColumns = []string{"id", "domain_id", "name", "description", "version", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "не удалось создать мок БД")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// setupGroupRepo создает мок БД и репозиторий для Group
func setupGroupRepo(t *testing.T) (*groupRepository, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewGroupRepository(db), mock
}

func expectRelations(mock sqlmock.Sqlmock, groupID string, members, roles []string) {
	memberRows := sqlmock.NewRows([]string{"user_id"})
	for _, member := range members {
		memberRows.AddRow(member)
	}
	mock.ExpectQuery("SELECT user_id FROM group_members").
		WithArgs(groupID).
		WillReturnRows(memberRows)

	roleRows := sqlmock.NewRows([]string{"role_id"})
	for _, role := range roles {
		roleRows.AddRow(role)
	}
	mock.ExpectQuery("SELECT role_id FROM group_roles").
		WithArgs(groupID).
		WillReturnRows(roleRows)
}

func TestGroupRepository_GetByID(t *testing.T) {
	t.Run("успешное получение группы с участниками и ролями", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)
		ctx := context.Background()

		createdAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
		updatedAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows(groupRowColumns).
			AddRow("g1", "acme", "eng", "Engineering", 3, createdAt, updatedAt)
		mock.ExpectQuery("SELECT id, domain_id, name, description, version, created_at, updated_at FROM user_groups WHERE id").
			WithArgs("g1").
			WillReturnRows(rows)
		expectRelations(mock, "g1", []string{"u2", "u1"}, []string{"r1"})

		group, err := repo.GetByID(ctx, "g1")

		require.NoError(t, err)
		assert.Equal(t, "g1", group.ID)
		assert.Equal(t, "acme", group.Domain)
		assert.Equal(t, "Engineering", group.Description)
		assert.Equal(t, 3, group.Version)
		assert.Equal(t, []string{"u2", "u1"}, group.Members, "порядок участников должен сохраняться")
		assert.Equal(t, []string{"r1"}, group.Roles)
		assert.Equal(t, updatedAt, group.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("без updated_at используется created_at", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)
		ctx := context.Background()

		createdAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(groupRowColumns).
			AddRow("g1", "acme", "eng", nil, 1, createdAt, nil)
		mock.ExpectQuery("FROM user_groups WHERE id").
			WithArgs("g1").
			WillReturnRows(rows)
		expectRelations(mock, "g1", nil, nil)

		group, err := repo.GetByID(ctx, "g1")

		require.NoError(t, err)
		assert.Equal(t, "", group.Description)
		assert.Equal(t, createdAt, group.UpdatedAt)
		assert.Empty(t, group.Members)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: группа не найдена", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		mock.ExpectQuery("FROM user_groups WHERE id").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		group, err := repo.GetByID(context.Background(), "missing")

		require.Error(t, err)
		assert.Nil(t, group)
		assert.True(t, errors.Is(err, repository.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGroupRepository_GetByDomainAndName(t *testing.T) {
	repo, mock := setupGroupRepo(t)

	createdAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(groupRowColumns).
		AddRow("g1", "acme", "eng", "", 1, createdAt, createdAt)
	mock.ExpectQuery("FROM user_groups WHERE domain_id = \\$1 AND name = \\$2").
		WithArgs("acme", "eng").
		WillReturnRows(rows)
	expectRelations(mock, "g1", []string{"u1"}, nil)

	group, err := repo.GetByDomainAndName(context.Background(), "acme", "eng")

	require.NoError(t, err)
	assert.Equal(t, "g1", group.ID)
	assert.Equal(t, []string{"u1"}, group.Members)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_ListByDomainPage(t *testing.T) {
	repo, mock := setupGroupRepo(t)

	createdAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM user_groups").
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	rows := sqlmock.NewRows(groupRowColumns).
		AddRow("g3", "acme", "ops", "", 1, createdAt, createdAt).
		AddRow("g4", "acme", "qa", "", 1, createdAt, createdAt)
	mock.ExpectQuery("ORDER BY name LIMIT \\$2 OFFSET \\$3").
		WithArgs("acme", 2, 2).
		WillReturnRows(rows)
	expectRelations(mock, "g3", nil, nil)
	expectRelations(mock, "g4", []string{"u1"}, nil)

	page, err := repo.ListByDomainPage(context.Background(), "acme", 1, 2)

	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 5, page.Size)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "ops", page.Data[0].Name)
	assert.Equal(t, []string{"u1"}, page.Data[1].Members)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_ListByIDs(t *testing.T) {
	t.Run("пустой список не обращается к БД", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		groups, err := repo.ListByIDs(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, groups)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("IN-список с плейсхолдерами", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		createdAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(groupRowColumns).
			AddRow("g1", "acme", "eng", "", 1, createdAt, createdAt)
		mock.ExpectQuery("WHERE id IN \\(\\$1, \\$2\\)").
			WithArgs("g1", "g2").
			WillReturnRows(rows)
		expectRelations(mock, "g1", nil, nil)

		groups, err := repo.ListByIDs(context.Background(), []string{"g1", "g2"})

		require.NoError(t, err)
		assert.Len(t, groups, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGroupRepository_ListByMember(t *testing.T) {
	repo, mock := setupGroupRepo(t)

	createdAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(groupRowColumns).
		AddRow("g1", "acme", "eng", "", 1, createdAt, createdAt)
	mock.ExpectQuery("JOIN group_members m ON m.group_id = g.id").
		WithArgs("u1").
		WillReturnRows(rows)
	expectRelations(mock, "g1", []string{"u1"}, nil)

	groups, err := repo.ListByMember(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"u1"}, groups[0].Members)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Create(t *testing.T) {
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	t.Run("успешное создание группы с участниками и ролями", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		group := &domain.Group{
			ID:        "g1",
			Domain:    "acme",
			Name:      "eng",
			Members:   []string{"u1", "u2"},
			Roles:     []string{"r1"},
			CreatedAt: now,
			UpdatedAt: now,
		}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO user_groups").
			WithArgs("g1", "acme", "eng", "", 1, now, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g1", "u1", 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g1", "u2", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO group_roles").
			WithArgs("g1", "r1", 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		created, err := repo.Create(context.Background(), group)

		require.NoError(t, err)
		assert.Equal(t, 1, created.Version)
		assert.Equal(t, 0, group.Version, "исходная группа не должна меняться")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: нарушение уникальности имени", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		group := &domain.Group{ID: "g2", Domain: "acme", Name: "eng", CreatedAt: now, UpdatedAt: now}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO user_groups").
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		created, err := repo.Create(context.Background(), group)

		require.Error(t, err)
		assert.Nil(t, created)
		assert.True(t, errors.Is(err, domain.ErrGroupAlreadyExists))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: не удалось начать транзакцию", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		expectedError := errors.New("connection failed")
		mock.ExpectBegin().WillReturnError(expectedError)

		created, err := repo.Create(context.Background(), &domain.Group{ID: "g1"})

		require.Error(t, err)
		assert.Nil(t, created)
		assert.Equal(t, expectedError, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGroupRepository_Update(t *testing.T) {
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	t.Run("успешная замена группы с увеличением версии", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		group := &domain.Group{
			ID:          "g1",
			Domain:      "acme",
			Name:        "eng",
			Description: "Engineering",
			Members:     []string{"u2"},
			Roles:       []string{"r3"},
			Version:     2,
			UpdatedAt:   now,
		}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE user_groups").
			WithArgs("g1", "eng", "Engineering", now, 2).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))
		mock.ExpectExec("DELETE FROM group_members").
			WithArgs("g1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("INSERT INTO group_members").
			WithArgs("g1", "u2", 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM group_roles").
			WithArgs("g1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO group_roles").
			WithArgs("g1", "r3", 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		updated, err := repo.Update(context.Background(), group)

		require.NoError(t, err)
		assert.Equal(t, 3, updated.Version)
		assert.Equal(t, []string{"u2"}, updated.Members)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: версия изменилась", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		group := &domain.Group{ID: "g1", Name: "eng", Version: 2, UpdatedAt: now}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE user_groups").
			WithArgs("g1", "eng", "", now, 2).
			WillReturnRows(sqlmock.NewRows([]string{"version"}))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("g1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		updated, err := repo.Update(context.Background(), group)

		require.Error(t, err)
		assert.Nil(t, updated)
		assert.True(t, errors.Is(err, repository.ErrVersionConflict))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: группа удалена", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		group := &domain.Group{ID: "g1", Name: "eng", Version: 2, UpdatedAt: now}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE user_groups").
			WithArgs("g1", "eng", "", now, 2).
			WillReturnRows(sqlmock.NewRows([]string{"version"}))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("g1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		updated, err := repo.Update(context.Background(), group)

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: не удалось вставить участника", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		group := &domain.Group{ID: "g1", Name: "eng", Members: []string{"u1"}, Version: 1, UpdatedAt: now}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE user_groups").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
		mock.ExpectExec("DELETE FROM group_members").
			WillReturnResult(sqlmock.NewResult(0, 0))
		expectedError := errors.New("insert failed")
		mock.ExpectExec("INSERT INTO group_members").
			WillReturnError(expectedError)
		mock.ExpectRollback()

		updated, err := repo.Update(context.Background(), group)

		require.Error(t, err)
		assert.Nil(t, updated)
		assert.Equal(t, expectedError, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGroupRepository_Delete(t *testing.T) {
	t.Run("успешное удаление", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		mock.ExpectExec("DELETE FROM user_groups").
			WithArgs("g1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), "g1")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка: группа не найдена", func(t *testing.T) {
		repo, mock := setupGroupRepo(t)

		mock.ExpectExec("DELETE FROM user_groups").
			WithArgs("g1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), "g1")

		assert.True(t, errors.Is(err, repository.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
