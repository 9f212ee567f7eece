package service

import (
	"go.uber.org/zap"

	"github.com/DilipkumarRajan/training-request-portal/config"
	"github.com/DilipkumarRajan/training-request-portal/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	TrainingRequest TrainingRequestService
	Calendar        CalendarService
}

// NewService 创建 Service 聚合
func NewService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) *Service {
	return &Service{
		TrainingRequest: NewTrainingRequestService(cfg, repo, logger),
		Calendar:        NewCalendarService(cfg, logger),
	}
}
