package model

import "time"

// BaseModel 通用审计字段
// 培训申请表为只追加表，因此只保留创建时间
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
