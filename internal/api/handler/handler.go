package handler

import (
	"go.uber.org/zap"

	"github.com/DilipkumarRajan/training-request-portal/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	TrainingRequest *TrainingRequestHandler
	Form            *FormHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		TrainingRequest: NewTrainingRequestHandler(svc.TrainingRequest, svc.Calendar, logger),
		Form:            NewFormHandler(svc.TrainingRequest),
	}
}
