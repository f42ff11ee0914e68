package config

import (
	"context"
	"fmt"
	"time"

	"restaurant-api/audit"
	"restaurant-api/catalog"
	"restaurant-api/storage"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Closer releases whatever an Open* call acquired.
type Closer func() error

func noopCloser() error { return nil }

func openGorm(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

func closeGorm(db *gorm.DB) Closer {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

// OpenStorage connects the key/value backend named by cfg.Driver.
func OpenStorage(ctx context.Context, cfg StorageConfig, log *zap.Logger) (storage.Backend, Closer, error) {
	switch cfg.Driver {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		return storage.NewMemory(), noopCloser, nil

	case "sqlite":
		db, err := openGorm(sqlite.Open(cfg.SQLitePath))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		backend, err := storage.NewSQL(db)
		if err != nil {
			return nil, nil, err
		}
		log.Info("storage connected", zap.String("driver", "sqlite"), zap.String("path", cfg.SQLitePath))
		return backend, closeGorm(db), nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("storage connected", zap.String("driver", "redis"), zap.String("addr", cfg.Redis.Addr))
		return storage.NewRedis(client, cfg.Redis.Prefix), client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// OpenCatalog returns the menu repository. With no catalog database the menu
// is kept in the key/value backend and seeded with the sample dishes.
func OpenCatalog(cfg CatalogConfig, backend storage.Backend, log *zap.Logger) (catalog.Repository, Closer, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "none":
		log.Info("catalog kept in local storage")
		return catalog.NewLocalRepository(backend), noopCloser, nil
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "mysql":
		dialector = mysql.Open(cfg.MySQL.DSN())
	default:
		return nil, nil, fmt.Errorf("unknown catalog driver %q", cfg.Driver)
	}

	db, err := openGorm(dialector)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	if cfg.Driver == "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	}

	repo, err := catalog.NewGormRepository(db)
	if err != nil {
		return nil, nil, err
	}
	log.Info("catalog database connected", zap.String("driver", cfg.Driver))
	return repo, closeGorm(db), nil
}

// OpenAudit picks MongoDB when a URI is configured, the key/value backend
// otherwise.
func OpenAudit(ctx context.Context, cfg AuditConfig, backend storage.Backend, log *zap.Logger) (audit.Log, Closer, error) {
	if cfg.MongoURI == "" {
		return audit.NewStorageLog(backend, cfg.MaxEntries), noopCloser, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	mongoLog, err := audit.ConnectMongo(connectCtx, cfg.MongoURI, cfg.Database, cfg.Collection)
	if err != nil {
		return nil, nil, err
	}
	log.Info("audit log connected", zap.String("database", cfg.Database), zap.String("collection", cfg.Collection))
	return mongoLog, func() error { return mongoLog.Close(context.Background()) }, nil
}
