package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DilipkumarRajan/training-request-portal/internal/model"
	apperrors "github.com/DilipkumarRajan/training-request-portal/pkg/errors"
)

func setupPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("创建 sqlmock 失败: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开 gorm 失败: %v", err)
	}
	return NewPostgresStore(db), mock
}

func TestPostgresStore_Append(t *testing.T) {
	store, mock := setupPostgresStore(t)

	// created_at 由数据库默认值填充，gorm 不写入该列，而是通过 RETURNING 读回
	mock.ExpectQuery(`INSERT INTO "training_requests" .* RETURNING "id","created_at"`).
		WithArgs("Acme", "a@acme.com", "2025-06-01", "SupportLogic Core", 5, "Elevate", "2025-05-20", "No", "", "Yes", "2025-05-01").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)))

	if err := store.Append(context.Background(), testRecord()); err != nil {
		t.Fatalf("Append 应成功: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("SQL 期望未满足: %v", err)
	}
}

func TestPostgresStore_Append_DBError(t *testing.T) {
	store, mock := setupPostgresStore(t)

	dbErr := errors.New("connection refused")
	mock.ExpectQuery(`INSERT INTO "training_requests"`).WillReturnError(dbErr)

	err := store.Append(context.Background(), testRecord())
	if !apperrors.IsStoreFault(err) {
		t.Fatalf("期望 StoreFault，实际: %v", err)
	}
	if !errors.Is(err, dbErr) {
		t.Errorf("应保留原始错误，实际: %v", err)
	}
}

func TestPostgresStore_Append_BadRecord(t *testing.T) {
	store, mock := setupPostgresStore(t)

	err := store.Append(context.Background(), model.Record{"too", "short"})
	if !apperrors.IsStoreFault(err) {
		t.Fatalf("期望 StoreFault，实际: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("映射失败时不应执行 SQL: %v", err)
	}
}
