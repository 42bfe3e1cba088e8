//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/bagdasarian/iam-groups/internal/audit"
	"github.com/bagdasarian/iam-groups/internal/db"
	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/repository/postgres"
	"github.com/bagdasarian/iam-groups/internal/service"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *sql.DB {
	ctx := context.Background()

	// Создаём контейнер Postgres через testcontainers
	postgresContainer, err := tcpostgres.Run(ctx, "postgres:17.7",
		tcpostgres.WithDatabase("test_db"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, database.Ping())

	// Накатываем миграции goose
	require.NoError(t, db.RunMigrations(database), "не удалось применить миграции")

	t.Cleanup(func() {
		database.Close()
		require.NoError(t, postgresContainer.Terminate(ctx))
	})

	return database
}

type testEnv struct {
	db     *sql.DB
	groups service.GroupService
	editor service.MembershipEditor
	audits service.AuditService
}

// setupEnv собирает сервисы поверх Postgres и заполняет справочники домена acme
func setupEnv(t *testing.T) *testEnv {
	database := setupTestDB(t)
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	domainRepo := postgres.NewDomainRepository(database)
	userRepo := postgres.NewUserRepository(database)
	roleRepo := postgres.NewRoleRepository(database)
	groupRepo := postgres.NewGroupRepository(database)
	auditRepo := postgres.NewAuditRepository(database)

	require.NoError(t, domainRepo.Create(ctx, &domain.SecurityDomain{ID: "acme", Name: "Acme", Enabled: true, CreatedAt: time.Now().UTC()}))
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		require.NoError(t, userRepo.Create(ctx, &domain.User{ID: id, Domain: "acme", Username: "user-" + id, CreatedAt: time.Now().UTC()}))
	}
	for _, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, roleRepo.Create(ctx, &domain.Role{ID: id, Domain: "acme", Name: "role-" + id}))
	}

	recorder := audit.NewRecorder(logger, 5*time.Second, audit.NewRepositorySink(auditRepo))
	groups := service.NewGroupService(groupRepo, userRepo, roleRepo, recorder, logger)

	return &testEnv{
		db:     database,
		groups: groups,
		editor: service.NewMembershipEditor(domainRepo, userRepo, groups, logger),
		audits: service.NewAuditService(auditRepo, logger),
	}
}
