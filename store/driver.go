package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate creates or upgrades the schema. It is idempotent.
	Migrate(ctx context.Context) error

	// ClassificationLog model related methods.
	CreateClassificationLog(ctx context.Context, create *ClassificationLog) (*ClassificationLog, error)
	ListClassificationLogs(ctx context.Context, find *FindClassificationLog) ([]*ClassificationLog, error)
}
