package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bagdasarian/iam-groups/internal/audit"
	"github.com/bagdasarian/iam-groups/internal/config"
	"github.com/bagdasarian/iam-groups/internal/db"
	"github.com/bagdasarian/iam-groups/internal/handler"
	"github.com/bagdasarian/iam-groups/internal/handler/server"
	"github.com/bagdasarian/iam-groups/internal/repository"
	"github.com/bagdasarian/iam-groups/internal/repository/memory"
	"github.com/bagdasarian/iam-groups/internal/repository/postgres"
	"github.com/bagdasarian/iam-groups/internal/service"
)

type repositories struct {
	groups  repository.GroupRepository
	users   repository.UserRepository
	roles   repository.RoleRepository
	domains repository.DomainRepository
	audits  repository.AuditRepository
}

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.Level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := openRepositories(cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	sinks := []audit.Sink{audit.NewRepositorySink(repos.audits)}
	if cfg.Audit.RedisURL != "" {
		redisSink, err := audit.NewRedisStreamSink(cfg.Audit.RedisURL, cfg.Audit.Stream, cfg.Audit.StreamMaxLen)
		if err != nil {
			return err
		}
		defer redisSink.Close()
		sinks = append(sinks, redisSink)
		logger.Info("audit events are published to redis", "stream", cfg.Audit.Stream)
	}
	recorder := audit.NewRecorder(logger, cfg.Audit.SinkTimeout, sinks...)

	groupService := service.NewGroupService(repos.groups, repos.users, repos.roles, recorder, logger)
	membershipEditor := service.NewMembershipEditor(repos.domains, repos.users, groupService, logger)
	auditService := service.NewAuditService(repos.audits, logger)

	h := handler.NewHandler(groupService, membershipEditor, auditService, logger)
	srv := server.NewServer(h, cfg.Server.Addr, logger)

	return srv.Run(ctx, cfg.Server.ShutdownTimeout)
}

func openRepositories(cfg *config.Config, logger *slog.Logger) (*repositories, func(), error) {
	if cfg.Storage.Driver == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return &repositories{
			groups:  memory.NewGroupRepository(),
			users:   memory.NewUserRepository(),
			roles:   memory.NewRoleRepository(),
			domains: memory.NewDomainRepository(),
			audits:  memory.NewAuditRepository(),
		}, func() {}, nil
	}

	database, err := db.NewPostgres(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to database", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	if err := db.RunMigrations(database); err != nil {
		database.Close()
		return nil, nil, err
	}

	return postgresRepositories(database), func() { database.Close() }, nil
}

func postgresRepositories(database *sql.DB) *repositories {
	return &repositories{
		groups:  postgres.NewGroupRepository(database),
		users:   postgres.NewUserRepository(database),
		roles:   postgres.NewRoleRepository(database),
		domains: postgres.NewDomainRepository(database),
		audits:  postgres.NewAuditRepository(database),
	}
}
