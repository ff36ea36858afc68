// database/db.go - Database Connection (PostgreSQL)
package database

import (
	"fmt"
	"time"

	"teamhub/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the PostgreSQL connection pool and registers the join tables
// used by the membership associations.
func Connect(cfg config.Database, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(postgres.Open(cfg.DSN()), log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info("PostgreSQL database connected", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// Open opens a GORM handle over any dialector. SQL statements go through the
// application logger at warn level, slow queries included.
func Open(dialector gorm.Dialector, log *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},

		// Association integrity is kept by the services, which also run
		// the cascades explicitly.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	if err := setupJoinTables(db); err != nil {
		return nil, fmt.Errorf("failed to register join tables: %w", err)
	}

	return db, nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
