package repository

import (
	"context"

	"github.com/DilipkumarRajan/training-request-portal/internal/model"
)

// TrainingRequestStore 培训申请追加存储
// 只有一个写操作：按列位置追加一行，不读回、不去重
type TrainingRequestStore interface {
	Append(ctx context.Context, rec model.Record) error
	// Name 存储类型标识，用于日志与错误
	Name() string
}

// Repository 所有 Repository 的聚合入口
type Repository struct {
	TrainingRequest TrainingRequestStore
}

// NewRepository 创建 Repository 聚合
func NewRepository(store TrainingRequestStore) *Repository {
	return &Repository{TrainingRequest: store}
}
