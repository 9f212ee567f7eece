package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/DilipkumarRajan/training-request-portal/config"
	"github.com/DilipkumarRajan/training-request-portal/internal/dto"
	"github.com/DilipkumarRajan/training-request-portal/internal/model"
	"github.com/DilipkumarRajan/training-request-portal/internal/repository"
	apperrors "github.com/DilipkumarRajan/training-request-portal/pkg/errors"
)

// ── 培训申请模块业务错误 ──

var (
	// ErrMissingConfirmation 未勾选确认
	ErrMissingConfirmation = errors.New("missing confirmation")
	// ErrNoTopicSelected 未选择任何培训主题
	ErrNoTopicSelected = errors.New("no topic selected")
	// ErrInvalidField 字段违反表单采集约束（日期下限、人数、枚举取值）
	ErrInvalidField = errors.New("invalid field")
)

// ── 用户可见提示 ──

const (
	MsgMissingConfirmation = "Please confirm before submitting."
	MsgNoTopicSelected     = "Please select at least one training topic."
	MsgSubmitted           = "Your training request has been submitted successfully."
)

// TrainingRequestService 培训申请业务接口
//
// 设计说明：
//   - Submit 在一次请求内同步完成 采集约束 → 提交校验 → 写入
//   - 提交校验只有两条规则：必须确认、至少一个主题；其余字段原样接受
//   - 写入不去重、不重试，重复提交会产生重复行
type TrainingRequestService interface {
	Submit(ctx context.Context, req *dto.SubmitTrainingRequest) (*dto.SubmitTrainingResponse, error)
	Constraints(customTraining string) *dto.FormConstraintsResponse
	Options() *dto.FormOptionsResponse
}

type trainingRequestService struct {
	repo    *repository.Repository
	baseURL string
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewTrainingRequestService 创建 TrainingRequestService 实例
func NewTrainingRequestService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TrainingRequestService {
	loc, err := cfg.Form.Location()
	if err != nil {
		loc = time.Local
	}
	return &trainingRequestService{
		repo:    repo,
		baseURL: cfg.Server.BaseURL,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *trainingRequestService) today() time.Time {
	return Today(s.now(), s.loc)
}

// ────────────────────── Validate ──────────────────────

// Validate 提交校验：先检查确认，再检查主题
func Validate(tr *model.TrainingRequest) error {
	if !tr.Confirmed {
		return ErrMissingConfirmation
	}
	if len(tr.Trainings) == 0 {
		return ErrNoTopicSelected
	}
	return nil
}

// UserMessage 返回校验错误对应的用户提示；非校验错误返回空串
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingConfirmation):
		return MsgMissingConfirmation
	case errors.Is(err, ErrNoTopicSelected):
		return MsgNoTopicSelected
	default:
		return ""
	}
}

// ────────────────────── Submit ──────────────────────

func (s *trainingRequestService) Submit(ctx context.Context, req *dto.SubmitTrainingRequest) (*dto.SubmitTrainingResponse, error) {
	// 1. 采集约束（对应表单控件自身的取值范围）
	tr, err := Collect(req, s.today(), s.loc)
	if err != nil {
		s.logger.Info("申请字段不满足表单约束", zap.Error(err))
		return nil, err
	}

	// 2. 提交校验
	if err := Validate(tr); err != nil {
		s.logger.Info("申请未通过提交校验",
			zap.String("customer_name", tr.CustomerName),
			zap.Error(err),
		)
		return nil, err
	}

	// 3. 写入：submitted_date 取写入时刻的今天
	submitted := s.today()
	rec := tr.Record(submitted)

	store := s.repo.TrainingRequest
	if err := store.Append(ctx, rec); err != nil {
		if !apperrors.IsStoreFault(err) {
			err = apperrors.NewStoreFault(store.Name(), "append", err)
		}
		s.logger.Error("写入培训申请失败",
			zap.String("store", store.Name()),
			zap.String("customer_name", tr.CustomerName),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("培训申请已写入",
		zap.String("store", store.Name()),
		zap.String("customer_name", tr.CustomerName),
		zap.String("preferred_date", tr.PreferredDate.Format(model.DateLayout)),
	)

	return &dto.SubmitTrainingResponse{
		SubmittedDate: submitted.Format(model.DateLayout),
		Record:        rec,
		CalendarURL:   s.calendarURL(tr),
	}, nil
}

func (s *trainingRequestService) calendarURL(tr *model.TrainingRequest) string {
	q := url.Values{}
	q.Set("customer_name", tr.CustomerName)
	q.Set("preferred_date", tr.PreferredDate.Format(model.DateLayout))
	q.Set("custom_training", tr.CustomTraining)
	if tr.Email != "" {
		q.Set("email", tr.Email)
	}
	return s.baseURL + "/api/v1/training-requests/calendar.ics?" + q.Encode()
}

// ────────────────────── Collect ──────────────────────

// Collect 把提交的字段转换为 TrainingRequest，并执行表单控件层面的约束：
// go_live_date 不早于今天、num_users ≥ 1、套餐与主题为合法枚举、
// preferred_date 不早于 today + LeadDays。
// confirmed 与 trainings 是否为空不在此检查，由 Validate 负责。
func Collect(req *dto.SubmitTrainingRequest, today time.Time, loc *time.Location) (*model.TrainingRequest, error) {
	customTraining := req.CustomTraining
	if customTraining == "" {
		customTraining = model.CustomTrainingNo
	}
	if customTraining != model.CustomTrainingNo && customTraining != model.CustomTrainingYes {
		return nil, invalidField("custom_training", "must be Yes or No")
	}

	goLive, err := time.ParseInLocation(model.DateLayout, req.GoLiveDate, loc)
	if err != nil {
		return nil, invalidField("go_live_date", "must be a date in YYYY-MM-DD format")
	}
	if goLive.Before(today) {
		return nil, invalidField("go_live_date", "must be on or after "+today.Format(model.DateLayout))
	}

	preferred, err := time.ParseInLocation(model.DateLayout, req.PreferredDate, loc)
	if err != nil {
		return nil, invalidField("preferred_date", "must be a date in YYYY-MM-DD format")
	}
	minPreferred := MinPreferredDate(today, customTraining)
	if preferred.Before(minPreferred) {
		return nil, invalidField("preferred_date", "must be on or after "+minPreferred.Format(model.DateLayout))
	}

	if req.NumUsers < 1 {
		return nil, invalidField("num_users", "must be at least 1")
	}

	if !model.IsPackage(req.Package) {
		return nil, invalidField("package", fmt.Sprintf("unknown package %q", req.Package))
	}

	trainings := make([]string, 0, len(req.Trainings))
	seen := make(map[string]bool, len(req.Trainings))
	for _, t := range req.Trainings {
		if !model.IsTopic(t) {
			return nil, invalidField("trainings", fmt.Sprintf("unknown topic %q", t))
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		trainings = append(trainings, t)
	}

	// 定制说明只在需要定制培训时采集，但不强制填写
	customDetails := ""
	if customTraining == model.CustomTrainingYes {
		customDetails = req.CustomDetails
	}

	return &model.TrainingRequest{
		CustomerName:   req.CustomerName,
		Email:          req.Email,
		GoLiveDate:     goLive,
		Trainings:      trainings,
		NumUsers:       req.NumUsers,
		Package:        req.Package,
		CustomTraining: customTraining,
		PreferredDate:  preferred,
		CustomDetails:  customDetails,
		Confirmed:      req.Confirmed,
	}, nil
}

func invalidField(field, reason string) error {
	return fmt.Errorf("%w: %w", ErrInvalidField, &apperrors.FieldError{Field: field, Reason: reason})
}

// ────────────────────── Constraints / Options ──────────────────────

func (s *trainingRequestService) Constraints(customTraining string) *dto.FormConstraintsResponse {
	if customTraining == "" {
		customTraining = model.CustomTrainingNo
	}
	today := s.today()
	return &dto.FormConstraintsResponse{
		Today:            today.Format(model.DateLayout),
		MinGoLiveDate:    today.Format(model.DateLayout),
		CustomTraining:   customTraining,
		LeadDays:         LeadDays(customTraining),
		MinPreferredDate: MinPreferredDate(today, customTraining).Format(model.DateLayout),
	}
}

func (s *trainingRequestService) Options() *dto.FormOptionsResponse {
	return &dto.FormOptionsResponse{
		Topics:         append([]string(nil), model.Topics...),
		Packages:       append([]string(nil), model.Packages...),
		CustomTraining: append([]string(nil), model.CustomTrainingChoices...),
		MinNumUsers:    1,
	}
}
