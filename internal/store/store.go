// Package store persists contact messages and resume role metadata.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/DoyleJ11/portfolio-backend/internal/contact"
	"github.com/DoyleJ11/portfolio-backend/internal/resume"
)

var ErrDuplicate = errors.New("duplicate record")
var ErrUnknownDriver = errors.New("unknown database driver")

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultListLimit caps ListMessages when no limit is given.
const DefaultListLimit = 50

type Store interface {
	SaveMessage(ctx context.Context, m contact.Message) error
	// ListMessages returns the newest messages first.
	ListMessages(ctx context.Context, limit int) ([]contact.Message, error)
	ResumeRoles(ctx context.Context) ([]resume.Role, error)
	// SeedResumeRoles inserts roles that are not already present.
	SeedResumeRoles(ctx context.Context, roles []resume.Role) error
	Close() error
}

// Open picks the implementation for driver and seeds the built-in roles.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case DriverPostgres:
		s, err = OpenGorm(dsn)
	case DriverSQLite, "":
		s, err = OpenSQLite(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.SeedResumeRoles(ctx, resume.Roles()); err != nil {
		return nil, multierr.Append(fmt.Errorf("seed resume roles: %w", err), s.Close())
	}
	return s, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 || limit > 500 {
		return DefaultListLimit
	}
	return limit
}
