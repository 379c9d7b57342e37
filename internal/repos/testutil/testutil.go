package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/payback-backend/internal/db"
	"github.com/yungbote/payback-backend/internal/domain"
	"github.com/yungbote/payback-backend/internal/pkg/ctxutil"
	"github.com/yungbote/payback-backend/internal/pkg/logger"
)

// OpenDB returns a fresh in-memory SQLite database with the full schema
// migrated. Each call gets its own database, named uniquely so the shared
// cache does not bleed state between tests.
func OpenDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.New().String())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// Logger returns a quiet logger for tests.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("init test logger: %v", err)
	}
	tb.Cleanup(func() { log.Sync() })
	return log
}

// AuthedContext returns a context carrying userID as the authenticated
// identity, the way the auth middleware would.
func AuthedContext(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

func SeedUser(tb testing.TB, gdb *gorm.DB, name, email string) *domain.User {
	tb.Helper()
	user := &domain.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "not-a-real-hash",
		Name:     name,
	}
	if err := gdb.Create(user).Error; err != nil {
		tb.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func SeedIOU(tb testing.TB, gdb *gorm.DB, lender, borrower *domain.User, amount, reason string) *domain.IOU {
	tb.Helper()
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		tb.Fatalf("bad amount %q: %v", amount, err)
	}
	iou := &domain.IOU{
		ID:         uuid.New(),
		LenderID:   lender.ID,
		BorrowerID: borrower.ID,
		Amount:     amt,
		Reason:     reason,
		Status:     domain.IOUStatusUnpaid,
	}
	if err := gdb.Create(iou).Error; err != nil {
		tb.Fatalf("seed iou: %v", err)
	}
	return iou
}

func SeedPayment(tb testing.TB, gdb *gorm.DB, iouID uuid.UUID, amount string) *domain.Payment {
	tb.Helper()
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		tb.Fatalf("bad amount %q: %v", amount, err)
	}
	payment := &domain.Payment{
		ID:     uuid.New(),
		IOUID:  iouID,
		Amount: amt,
	}
	if err := gdb.Create(payment).Error; err != nil {
		tb.Fatalf("seed payment: %v", err)
	}
	return payment
}
