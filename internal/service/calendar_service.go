package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DilipkumarRajan/training-request-portal/config"
	"github.com/DilipkumarRajan/training-request-portal/internal/dto"
	"github.com/DilipkumarRajan/training-request-portal/internal/model"
)

// ErrCalendarInvalidDate 培训日期无法解析
var ErrCalendarInvalidDate = errors.New("invalid preferred date")

// calendarNamespace 生成稳定 UID 的命名空间：同一客户同一天的占位重复下载时 UID 不变
var calendarNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("training-request-portal/calendar"))

// CalendarService 培训日程占位业务接口
//
// 为首选培训日期生成全天 VEVENT，方便申请人先在日历中占位；
// 只依赖请求参数，不读取存储
type CalendarService interface {
	BuildHold(req *dto.CalendarRequest) ([]byte, string, error)
}

type calendarService struct {
	summary   string
	organizer string
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(cfg *config.Config, logger *zap.Logger) CalendarService {
	loc, err := cfg.Form.Location()
	if err != nil {
		loc = time.Local
	}
	return &calendarService{
		summary:   cfg.Form.CalendarSummary,
		organizer: cfg.Form.OrganizerEmail,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

// BuildHold 返回 ICS 内容与建议文件名
func (s *calendarService) BuildHold(req *dto.CalendarRequest) ([]byte, string, error) {
	day, err := time.ParseInLocation(model.DateLayout, req.PreferredDate, s.loc)
	if err != nil {
		return nil, "", ErrCalendarInvalidDate
	}

	customTraining := req.CustomTraining
	if customTraining == "" {
		customTraining = model.CustomTrainingNo
	}

	uid := uuid.NewSHA1(calendarNamespace, []byte(req.CustomerName+"|"+req.PreferredDate)).String()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//SupportLogic//Customer Training Request Portal//EN")

	event := cal.AddEvent(uid)
	event.SetDtStampTime(s.now())
	event.SetAllDayStartAt(day)
	event.SetAllDayEndAt(day.AddDate(0, 0, 1))
	event.SetSummary(fmt.Sprintf("%s: %s", s.summary, req.CustomerName))
	event.SetDescription(fmt.Sprintf("Requested training for %s. Customized training: %s.", req.CustomerName, customTraining))
	event.SetStatus(ics.ObjectStatusTentative)
	if s.organizer != "" {
		event.SetOrganizer("mailto:" + s.organizer)
	}
	if req.Email != "" {
		event.AddAttendee("mailto:"+req.Email, ics.ParticipationStatusNeedsAction)
	}

	filename := fmt.Sprintf("training_%s_%s.ics", slug(req.CustomerName), req.PreferredDate)

	s.logger.Debug("已生成培训日程占位",
		zap.String("customer_name", req.CustomerName),
		zap.String("preferred_date", req.PreferredDate),
	)

	return []byte(cal.Serialize()), filename, nil
}

// slug 文件名只保留字母数字，其余替换为下划线
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "customer"
	}
	return out
}
