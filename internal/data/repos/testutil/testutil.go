package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/honeyshop-backend/internal/data/db"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/platform/mongodb"
)

var errMissingMongoURI = errors.New("missing TEST_MONGO_URI")

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error

	mongoOnce   sync.Once
	mongoClient *mongo.Client
	mongoErr    error
	mongoSeq    atomic.Int64
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB opens a private in-memory SQLite database with the identity schema
// migrated. Each call returns an isolated database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrateAll(conn); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return conn
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

// Mongo returns a fresh database on the server named by TEST_MONGO_URI, with
// indexes ensured. The database is dropped on cleanup.
func Mongo(tb testing.TB) *mongo.Database {
	tb.Helper()
	mongoOnce.Do(func() {
		uri := os.Getenv("TEST_MONGO_URI")
		if uri == "" {
			mongoErr = errMissingMongoURI
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient, mongoErr = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if mongoErr == nil {
			mongoErr = mongoClient.Ping(ctx, nil)
		}
	})
	if errors.Is(mongoErr, errMissingMongoURI) {
		tb.Skip("set TEST_MONGO_URI to run document store integration tests")
	}
	if mongoErr != nil {
		tb.Fatalf("failed to init test mongo: %v", mongoErr)
	}

	name := fmt.Sprintf("honeyshop_test_%d_%d", os.Getpid(), mongoSeq.Add(1))
	database := mongoClient.Database(name)
	ctx := context.Background()
	if err := mongodb.EnsureIndexes(ctx, database); err != nil {
		tb.Fatalf("ensure indexes: %v", err)
	}
	tb.Cleanup(func() { _ = database.Drop(context.Background()) })
	return database
}
