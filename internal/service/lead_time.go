package service

import (
	"time"

	"github.com/DilipkumarRajan/training-request-portal/internal/model"
)

// 培训提前量（天）
const (
	StandardLeadDays = 7
	CustomLeadDays   = 14
)

// LeadDays 返回培训日期相对今天的最小提前天数
// 只有 custom_training 严格等于 "Yes" 时才使用定制培训的提前量
func LeadDays(customTraining string) int {
	if customTraining == model.CustomTrainingYes {
		return CustomLeadDays
	}
	return StandardLeadDays
}

// MinPreferredDate 返回允许选择的最早培训日期
// 切换 custom_training 只改变之后的下限，不修正已选日期
func MinPreferredDate(today time.Time, customTraining string) time.Time {
	return today.AddDate(0, 0, LeadDays(customTraining))
}

// Today 返回 now 在 loc 时区下当天零点
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
