package database

import (
	"fmt"
	"strings"
	"sync"

	"carmod-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store owns the listings and audit_logs tables. It is created once at process start
// and passed to the services that need it.
type Store struct {
	DB *gorm.DB

	schemaOnce sync.Once
	schemaErr  error
}

// Open opens a GORM DB from DSN. postgres:// and postgresql:// URLs use the Postgres driver;
// anything else is treated as a SQLite file path (":memory:" included).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") behind connection poolers.
func Open(dsn string) (*Store, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if IsPostgresDSN(dsn) {
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &Store{DB: db}, nil
	}

	db, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One connection: SQLite allows a single writer, and every ":memory:" connection is a separate database.
	sqlDB.SetMaxOpenConns(1)
	return &Store{DB: db}, nil
}

// IsPostgresDSN reports whether dsn selects the Postgres driver.
func IsPostgresDSN(dsn string) bool {
	d := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(d, "postgres://") || strings.HasPrefix(d, "postgresql://")
}

// EnsureSchema creates the listings and audit_logs tables when they are absent.
// Existing tables are left as they are. Only the first call does any work.
func (s *Store) EnsureSchema() error {
	s.schemaOnce.Do(func() {
		m := s.DB.Migrator()
		for _, model := range []interface{}{&domain.Listing{}, &domain.AuditLog{}} {
			if m.HasTable(model) {
				continue
			}
			if err := m.CreateTable(model); err != nil {
				s.schemaErr = fmt.Errorf("create table for %T: %w", model, err)
				return
			}
			log.Info().Str("model", fmt.Sprintf("%T", model)).Msg("Created table")
		}
	})
	return s.schemaErr
}

// Ping checks the underlying connection.
func (s *Store) Ping() error {
	if s == nil || s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
