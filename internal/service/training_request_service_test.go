package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/DilipkumarRajan/training-request-portal/config"
	"github.com/DilipkumarRajan/training-request-portal/internal/dto"
	"github.com/DilipkumarRajan/training-request-portal/internal/model"
	"github.com/DilipkumarRajan/training-request-portal/internal/repository"
	apperrors "github.com/DilipkumarRajan/training-request-portal/pkg/errors"
)

// ── 测试辅助 ──

// fixedNow 2025-05-01 10:00 UTC
var fixedNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func setupTestTrainingRequestService() (*trainingRequestService, *mockStore) {
	store := newMockStore()
	cfg := &config.Config{
		Server: config.ServerConfig{BaseURL: "http://portal.test"},
		Form:   config.FormConfig{Timezone: "UTC"},
	}
	svc := NewTrainingRequestService(cfg, repository.NewRepository(store), zap.NewNop()).(*trainingRequestService)
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func acmeRequest() *dto.SubmitTrainingRequest {
	return &dto.SubmitTrainingRequest{
		CustomerName:   "Acme",
		Email:          "a@acme.com",
		GoLiveDate:     "2025-06-01",
		Trainings:      []string{"SupportLogic Core"},
		NumUsers:       5,
		Package:        "Elevate",
		CustomTraining: "No",
		PreferredDate:  "2025-05-20",
		CustomDetails:  "",
		Confirmed:      true,
	}
}

// ── Validate 测试 ──

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		confirmed bool
		trainings []string
		want      error
	}{
		{"通过", true, []string{"SupportLogic Core"}, nil},
		{"未确认", false, []string{"SupportLogic Core"}, ErrMissingConfirmation},
		{"无主题", true, nil, ErrNoTopicSelected},
		{"未确认且无主题时先报确认", false, []string{}, ErrMissingConfirmation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&model.TrainingRequest{Confirmed: tt.confirmed, Trainings: tt.trainings})
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际 %v", tt.want, err)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if UserMessage(ErrMissingConfirmation) != MsgMissingConfirmation {
		t.Error("缺少确认提示不符")
	}
	if UserMessage(ErrNoTopicSelected) != MsgNoTopicSelected {
		t.Error("缺少主题提示不符")
	}
	if UserMessage(errors.New("other")) != "" {
		t.Error("非校验错误应返回空提示")
	}
}

// ── Submit 测试 ──

func TestTrainingRequestService_Submit_AcmeRecord(t *testing.T) {
	svc, store := setupTestTrainingRequestService()

	resp, err := svc.Submit(context.Background(), acmeRequest())
	if err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}

	if len(store.records) != 1 {
		t.Fatalf("期望追加 1 次，实际 %d 次", len(store.records))
	}
	want := model.Record{"Acme", "a@acme.com", "2025-06-01", "SupportLogic Core", 5, "Elevate", "2025-05-20", "No", "", "Yes", "2025-05-01"}
	if !reflect.DeepEqual(store.records[0], want) {
		t.Errorf("记录不一致\n期望: %#v\n实际: %#v", want, store.records[0])
	}
	if resp.SubmittedDate != "2025-05-01" {
		t.Errorf("期望 submitted_date=2025-05-01，实际=%s", resp.SubmittedDate)
	}
	if !strings.HasPrefix(resp.CalendarURL, "http://portal.test/api/v1/training-requests/calendar.ics?") {
		t.Errorf("日历链接错误: %s", resp.CalendarURL)
	}
}

func TestTrainingRequestService_Submit_NotConfirmed(t *testing.T) {
	svc, store := setupTestTrainingRequestService()

	req := acmeRequest()
	req.Confirmed = false

	_, err := svc.Submit(context.Background(), req)
	if !errors.Is(err, ErrMissingConfirmation) {
		t.Errorf("期望 ErrMissingConfirmation，实际: %v", err)
	}
	if len(store.records) != 0 {
		t.Error("未确认时不应写入")
	}
}

func TestTrainingRequestService_Submit_NoTopic(t *testing.T) {
	svc, store := setupTestTrainingRequestService()

	req := acmeRequest()
	req.Trainings = nil

	_, err := svc.Submit(context.Background(), req)
	if !errors.Is(err, ErrNoTopicSelected) {
		t.Errorf("期望 ErrNoTopicSelected，实际: %v", err)
	}
	if len(store.records) != 0 {
		t.Error("无主题时不应写入")
	}
}

// 未确认时不论其他字段如何都不写入
func TestTrainingRequestService_Submit_NeverWritesUnconfirmed(t *testing.T) {
	svc, store := setupTestTrainingRequestService()

	variants := []func(r *dto.SubmitTrainingRequest){
		func(r *dto.SubmitTrainingRequest) {},
		func(r *dto.SubmitTrainingRequest) { r.Trainings = nil },
		func(r *dto.SubmitTrainingRequest) { r.CustomTraining = "Yes"; r.PreferredDate = "2025-05-30" },
		func(r *dto.SubmitTrainingRequest) { r.NumUsers = 500; r.Email = "not-an-email" },
		func(r *dto.SubmitTrainingRequest) { r.Trainings = model.Topics },
	}
	for i, mutate := range variants {
		req := acmeRequest()
		req.Confirmed = false
		mutate(req)
		if _, err := svc.Submit(context.Background(), req); !errors.Is(err, ErrMissingConfirmation) {
			t.Errorf("变体 %d: 期望 ErrMissingConfirmation，实际: %v", i, err)
		}
	}
	if len(store.records) != 0 {
		t.Errorf("未确认时不应写入，实际写入 %d 次", len(store.records))
	}
}

func TestTrainingRequestService_Submit_DuplicateAppends(t *testing.T) {
	svc, store := setupTestTrainingRequestService()

	for i := 0; i < 2; i++ {
		if _, err := svc.Submit(context.Background(), acmeRequest()); err != nil {
			t.Fatalf("第 %d 次 Submit 应成功: %v", i+1, err)
		}
	}
	if len(store.records) != 2 {
		t.Errorf("重复提交应写入 2 行，实际 %d 行", len(store.records))
	}
}

func TestTrainingRequestService_Submit_StoreFault(t *testing.T) {
	svc, store := setupTestTrainingRequestService()
	store.err = errors.New("network unreachable")

	_, err := svc.Submit(context.Background(), acmeRequest())
	var sf *apperrors.StoreFault
	if !errors.As(err, &sf) {
		t.Fatalf("期望 StoreFault，实际: %v", err)
	}
	if sf.Store != "mock" {
		t.Errorf("期望 store=mock，实际=%s", sf.Store)
	}
}

func TestTrainingRequestService_Submit_CustomDetails(t *testing.T) {
	svc, store := setupTestTrainingRequestService()

	// 需要定制培训：说明原样写入，空说明也接受
	req := acmeRequest()
	req.CustomTraining = "Yes"
	req.PreferredDate = "2025-05-15"
	req.CustomDetails = ""
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("空定制说明应被接受: %v", err)
	}

	// 不需要定制培训：说明被丢弃
	req = acmeRequest()
	req.CustomDetails = "ignored"
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}

	if store.records[0][7] != "Yes" || store.records[0][8] != "" {
		t.Errorf("定制培训记录错误: %v", store.records[0])
	}
	if store.records[1][8] != "" {
		t.Errorf("非定制培训时说明应为空，实际=%v", store.records[1][8])
	}
}

func TestTrainingRequestService_Submit_LeadTimeBoundary(t *testing.T) {
	svc, store := setupTestTrainingRequestService()

	// today+13 在定制培训下被拒绝
	req := acmeRequest()
	req.CustomTraining = "Yes"
	req.PreferredDate = "2025-05-14"
	_, err := svc.Submit(context.Background(), req)
	var fe *apperrors.FieldError
	if !errors.Is(err, ErrInvalidField) || !errors.As(err, &fe) || fe.Field != "preferred_date" {
		t.Fatalf("today+13 应违反约束，实际: %v", err)
	}

	// today+14 可以
	req.PreferredDate = "2025-05-15"
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("today+14 应成功: %v", err)
	}

	// 标准培训 today+7 可以，today+6 不行
	req = acmeRequest()
	req.PreferredDate = "2025-05-08"
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("today+7 应成功: %v", err)
	}
	req.PreferredDate = "2025-05-07"
	if _, err := svc.Submit(context.Background(), req); !errors.Is(err, ErrInvalidField) {
		t.Errorf("today+6 应违反约束，实际: %v", err)
	}

	if len(store.records) != 2 {
		t.Errorf("期望写入 2 行，实际 %d 行", len(store.records))
	}
}

// ── Collect 测试 ──

func TestCollect_Constraints(t *testing.T) {
	today := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(r *dto.SubmitTrainingRequest)
		field  string
	}{
		{"上线日期早于今天", func(r *dto.SubmitTrainingRequest) { r.GoLiveDate = "2025-04-30" }, "go_live_date"},
		{"上线日期格式错误", func(r *dto.SubmitTrainingRequest) { r.GoLiveDate = "06/01/2025" }, "go_live_date"},
		{"培训日期格式错误", func(r *dto.SubmitTrainingRequest) { r.PreferredDate = "" }, "preferred_date"},
		{"人数为 0", func(r *dto.SubmitTrainingRequest) { r.NumUsers = 0 }, "num_users"},
		{"未知套餐", func(r *dto.SubmitTrainingRequest) { r.Package = "Platinum" }, "package"},
		{"未知主题", func(r *dto.SubmitTrainingRequest) { r.Trainings = []string{"Sales Training"} }, "trainings"},
		{"非法定制选项", func(r *dto.SubmitTrainingRequest) { r.CustomTraining = "Maybe" }, "custom_training"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := acmeRequest()
			tt.mutate(req)
			_, err := Collect(req, today, time.UTC)
			var fe *apperrors.FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("期望 FieldError，实际: %v", err)
			}
			if fe.Field != tt.field {
				t.Errorf("期望字段 %s，实际 %s", tt.field, fe.Field)
			}
		})
	}
}

func TestCollect_Defaults(t *testing.T) {
	today := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	req := acmeRequest()
	req.CustomTraining = ""
	req.GoLiveDate = "2025-05-01" // 当天上线允许
	req.Trainings = []string{"Analytics Training", "SupportLogic Core", "Analytics Training"}

	tr, err := Collect(req, today, time.UTC)
	if err != nil {
		t.Fatalf("Collect 应成功: %v", err)
	}
	if tr.CustomTraining != "No" {
		t.Errorf("默认应为 No，实际=%s", tr.CustomTraining)
	}
	if !reflect.DeepEqual(tr.Trainings, []string{"Analytics Training", "SupportLogic Core"}) {
		t.Errorf("主题应去重并保持顺序，实际=%v", tr.Trainings)
	}
}

func TestCollect_EmptyTopicsPassThrough(t *testing.T) {
	today := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	req := acmeRequest()
	req.Trainings = nil
	req.Confirmed = false

	tr, err := Collect(req, today, time.UTC)
	if err != nil {
		t.Fatalf("空主题与未确认交由 Validate 处理，Collect 不应报错: %v", err)
	}
	if len(tr.Trainings) != 0 || tr.Confirmed {
		t.Errorf("字段应原样保留: %+v", tr)
	}
}

// ── Constraints / Options 测试 ──

func TestTrainingRequestService_Constraints(t *testing.T) {
	svc, _ := setupTestTrainingRequestService()

	yes := svc.Constraints("Yes")
	if yes.LeadDays != 14 || yes.MinPreferredDate != "2025-05-15" {
		t.Errorf("定制培训约束错误: %+v", yes)
	}
	if yes.Today != "2025-05-01" || yes.MinGoLiveDate != "2025-05-01" {
		t.Errorf("今天/上线下限错误: %+v", yes)
	}

	no := svc.Constraints("")
	if no.CustomTraining != "No" || no.LeadDays != 7 || no.MinPreferredDate != "2025-05-08" {
		t.Errorf("标准培训约束错误: %+v", no)
	}
}

func TestTrainingRequestService_Options(t *testing.T) {
	svc, _ := setupTestTrainingRequestService()

	opts := svc.Options()
	if len(opts.Topics) != 3 || len(opts.Packages) != 4 {
		t.Errorf("选项数量错误: %+v", opts)
	}
	if opts.CustomTraining[0] != "No" {
		t.Errorf("默认选项应为 No，实际=%s", opts.CustomTraining[0])
	}

	// 修改返回值不影响全局枚举
	opts.Topics[0] = "changed"
	if model.Topics[0] != "SupportLogic Core" {
		t.Error("Options 应返回副本")
	}
}
