package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/candor-hq/candor/internal/infrastructure/database"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/models"
	"github.com/candor-hq/candor/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy for the database driver: versioned goose
// scripts for mysql and postgres, gorm AutoMigrate for sqlite.
func NewManager(driver string, log logger.Interface) (*Manager, error) {
	var strategy Strategy
	switch driver {
	case database.DriverSQLite:
		strategy = NewGormAutoMigrateStrategy(log)
	case database.DriverMySQL, database.DriverPostgres, "":
		dialect := driver
		if dialect == "" {
			dialect = database.DriverMySQL
		}
		gs, err := NewGooseStrategy(dialect, log)
		if err != nil {
			return nil, err
		}
		strategy = gs
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return NewManagerWithStrategy(strategy, log), nil
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate brings the schema up to date.
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db, models.All()...); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// Goose returns the goose strategy, or nil when the driver uses AutoMigrate.
func (m *Manager) Goose() *GooseStrategy {
	gs, _ := m.strategy.(*GooseStrategy)
	return gs
}
