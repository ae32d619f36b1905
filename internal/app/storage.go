package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/config"
	"github.com/Freeeeeet/course_app/internal/repository"
	"github.com/Freeeeeet/course_app/internal/repository/memory"
	"github.com/Freeeeeet/course_app/internal/service"
)

// Storage holds the repositories of the configured backend.
type Storage struct {
	Repos  service.Repositories
	Pool   *pgxpool.Pool
	Memory *memory.Store
	logger *zap.Logger
}

// OpenStorage connects to PostgreSQL, or builds an in-memory store when configured.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return NewMemoryStorage(logger), nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.GetDBDSN())
	if err != nil {
		return nil, fmt.Errorf("parse db dsn: %w", err)
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	logger.Info("Connected to database", zap.Int32("max_conns", poolCfg.MaxConns))
	return &Storage{
		Repos: service.Repositories{
			Users:         repository.NewUserRepository(pool),
			Courses:       repository.NewCourseRepository(pool),
			Enrollments:   repository.NewEnrollmentRepository(pool),
			Lessons:       repository.NewLessonRepository(pool),
			Resources:     repository.NewResourceRepository(pool),
			Notifications: repository.NewNotificationRepository(pool),
			Requests:      repository.NewExtraClassRequestRepository(pool),
		},
		Pool:   pool,
		logger: logger,
	}, nil
}

// NewMemoryStorage builds repositories over a fresh in-memory store.
func NewMemoryStorage(logger *zap.Logger) *Storage {
	store := memory.NewStore()
	return &Storage{
		Repos: service.Repositories{
			Users:         memory.NewUserRepository(store),
			Courses:       memory.NewCourseRepository(store),
			Enrollments:   memory.NewEnrollmentRepository(store),
			Lessons:       memory.NewLessonRepository(store),
			Resources:     memory.NewResourceRepository(store),
			Notifications: memory.NewNotificationRepository(store),
			Requests:      memory.NewExtraClassRequestRepository(store),
		},
		Memory: store,
		logger: logger,
	}
}

// Migrate applies pending migrations. The in-memory backend has none.
func (s *Storage) Migrate(ctx context.Context) error {
	if s.Pool == nil {
		return nil
	}
	return s.Migration(ctx, "up")
}

// Migration runs a goose command against the database.
func (s *Storage) Migration(ctx context.Context, command string, args ...string) error {
	if s.Pool == nil {
		return errors.New("migrations need postgres storage")
	}
	mg, err := NewMigrator(s.Pool, s.logger)
	if err != nil {
		return err
	}
	defer mg.Close()

	if command == "up" {
		return mg.Run(ctx)
	}
	return mg.Exec(ctx, command, args...)
}

func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}
