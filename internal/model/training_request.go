package model

import (
	"strings"
	"time"
)

// DateLayout 写入存储与接口往返使用的日期格式（ISO-8601 日期）
const DateLayout = "2006-01-02"

// ConfirmedLiteral 通过校验的申请一律以此值写入"已确认"列
const ConfirmedLiteral = "Yes"

// RecordColumns 一条申请记录的列数（按位置写入，顺序固定）
const RecordColumns = 11

// ── 枚举取值 ──

// 是否需要定制培训
const (
	CustomTrainingNo  = "No"
	CustomTrainingYes = "Yes"
)

// Topics 可选培训主题
var Topics = []string{
	"SupportLogic Core",
	"Administrator Training",
	"Analytics Training",
}

// Packages 已购套餐
var Packages = []string{
	"CoreSX Standard",
	"Expand standard",
	"Elevate",
	"Assist",
}

// CustomTrainingChoices 单选项顺序与表单一致，No 为默认
var CustomTrainingChoices = []string{CustomTrainingNo, CustomTrainingYes}

// IsTopic 判断是否为合法培训主题
func IsTopic(s string) bool { return contains(Topics, s) }

// IsPackage 判断是否为合法套餐
func IsPackage(s string) bool { return contains(Packages, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// TrainingRequest 一次客户培训排期申请
// 仅创建并立即写入一次，不会被更新或删除
type TrainingRequest struct {
	CustomerName   string
	Email          string
	GoLiveDate     time.Time
	Trainings      []string
	NumUsers       int
	Package        string
	CustomTraining string
	PreferredDate  time.Time
	CustomDetails  string
	Confirmed      bool
}

// Record 有序行记录，列位置即语义
type Record []interface{}

// Record 将申请映射为固定顺序的 11 列记录，submittedDate 为写入当天
func (r *TrainingRequest) Record(submittedDate time.Time) Record {
	return Record{
		r.CustomerName,
		r.Email,
		r.GoLiveDate.Format(DateLayout),
		strings.Join(r.Trainings, ", "),
		r.NumUsers,
		r.Package,
		r.PreferredDate.Format(DateLayout),
		r.CustomTraining,
		r.CustomDetails,
		ConfirmedLiteral,
		submittedDate.Format(DateLayout),
	}
}
