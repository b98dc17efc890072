package store

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/careerbot/internal/profile"
)

// DefaultListLimit caps ListClassificationLogs when no limit is given.
const DefaultListLimit = 100

// Store provides database access to the audit log.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Migrate brings the schema up to date.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

// CreateClassificationLog fills in the UID and creation time when missing and
// persists the record.
func (s *Store) CreateClassificationLog(ctx context.Context, create *ClassificationLog) (*ClassificationLog, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	if create.Intents == nil {
		create.Intents = []string{}
	}
	if create.Entities == nil {
		create.Entities = map[string][]string{}
	}
	return s.driver.CreateClassificationLog(ctx, create)
}

// ListClassificationLogs returns the newest records first.
func (s *Store) ListClassificationLogs(ctx context.Context, find *FindClassificationLog) ([]*ClassificationLog, error) {
	if find == nil {
		find = &FindClassificationLog{}
	}
	if find.Limit <= 0 {
		find.Limit = DefaultListLimit
	}
	return s.driver.ListClassificationLogs(ctx, find)
}
