package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DilipkumarRajan/training-request-portal/internal/dto"
	"github.com/DilipkumarRajan/training-request-portal/internal/service"
	apperrors "github.com/DilipkumarRajan/training-request-portal/pkg/errors"
	"github.com/DilipkumarRajan/training-request-portal/pkg/response"
)

// TrainingRequestHandler 培训申请模块 HTTP 处理器
type TrainingRequestHandler struct {
	requestSvc  service.TrainingRequestService
	calendarSvc service.CalendarService
	logger      *zap.Logger
}

// NewTrainingRequestHandler 创建 TrainingRequestHandler
func NewTrainingRequestHandler(requestSvc service.TrainingRequestService, calendarSvc service.CalendarService, logger *zap.Logger) *TrainingRequestHandler {
	return &TrainingRequestHandler{requestSvc: requestSvc, calendarSvc: calendarSvc, logger: logger}
}

// Submit 提交培训申请
// POST /api/v1/training-requests
// 支持 application/json 与表单提交
func (h *TrainingRequestHandler) Submit(c *gin.Context) {
	var req dto.SubmitTrainingRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeBadRequest, "Invalid request", err.Error())
		return
	}

	resp, err := h.requestSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		h.handleSubmitError(c, err)
		return
	}

	response.Created(c, service.MsgSubmitted, resp)
}

// Calendar 下载首选培训日期的日程占位
// GET /api/v1/training-requests/calendar.ics
func (h *TrainingRequestHandler) Calendar(c *gin.Context) {
	var req dto.CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeBadRequest, "Invalid request", err.Error())
		return
	}

	data, filename, err := h.calendarSvc.BuildHold(&req)
	if err != nil {
		if errors.Is(err, service.ErrCalendarInvalidDate) {
			response.BadRequest(c, response.CodeBadRequest, "preferred_date must be a date in YYYY-MM-DD format")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// handleSubmitError 统一处理提交错误
// 校验失败返回固定提示；存储失败只返回通用提示，原因写日志
func (h *TrainingRequestHandler) handleSubmitError(c *gin.Context, err error) {
	var fe *apperrors.FieldError
	switch {
	case errors.Is(err, service.ErrMissingConfirmation):
		response.UnprocessableEntity(c, response.CodeMissingConfirmation, service.UserMessage(err))
	case errors.Is(err, service.ErrNoTopicSelected):
		response.UnprocessableEntity(c, response.CodeNoTopicSelected, service.UserMessage(err))
	case errors.As(err, &fe):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, response.CodeFieldConstraint, "Please check the highlighted field.", fe.Error())
	case apperrors.IsStoreFault(err):
		_ = c.Error(err)
		h.logger.Error("培训申请未能写入存储",
			zap.String("request_id", GetRequestID(c)),
			zap.Error(err),
		)
		response.BadGateway(c)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
