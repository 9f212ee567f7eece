package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/DilipkumarRajan/training-request-portal/internal/model"
	apperrors "github.com/DilipkumarRajan/training-request-portal/pkg/errors"
)

const postgresStoreName = "postgres"

// PostgresStore 追加到 training_requests 表的存储
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore 创建 PostgresStore
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Name() string { return postgresStoreName }

func (s *PostgresStore) Append(ctx context.Context, rec model.Record) error {
	row, err := model.RowFromRecord(rec)
	if err != nil {
		return apperrors.NewStoreFault(postgresStoreName, "map", err)
	}
	return apperrors.NewStoreFault(postgresStoreName, "insert", s.db.WithContext(ctx).Create(row).Error)
}
