package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/multierr"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/portfolio-backend/internal/contact"
	"github.com/DoyleJ11/portfolio-backend/internal/resume"
)

const pgUniqueViolation = "23505"

type Gorm struct {
	db *gorm.DB
}

// OpenGorm connects to Postgres through gorm and migrates the schema.
func OpenGorm(dsn string) (*Gorm, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	g := &Gorm{db: db}
	if err := db.AutoMigrate(&contact.Message{}, &resume.Role{}); err != nil {
		return nil, multierr.Append(fmt.Errorf("migrate: %w", err), g.Close())
	}
	return g, nil
}

func (g *Gorm) SaveMessage(ctx context.Context, m contact.Message) error {
	return classify(g.db.WithContext(ctx).Create(&m).Error)
}

func (g *Gorm) ListMessages(ctx context.Context, limit int) ([]contact.Message, error) {
	var out []contact.Message
	err := g.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limitOrDefault(limit)).
		Find(&out).Error
	return out, classify(err)
}

func (g *Gorm) ResumeRoles(ctx context.Context) ([]resume.Role, error) {
	var out []resume.Role
	err := g.db.WithContext(ctx).Order("display_order").Find(&out).Error
	return out, classify(err)
}

func (g *Gorm) SeedResumeRoles(ctx context.Context, roles []resume.Role) error {
	if len(roles) == 0 {
		return nil
	}
	return classify(g.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&roles).Error)
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// classify maps driver errors onto package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
