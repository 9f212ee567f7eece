package dto

// ── 培训申请模块 DTO ──

// SubmitTrainingRequest 提交培训申请请求（JSON 或表单提交）
//
// trainings 与 confirmed 不加 binding 约束：两者由提交校验规则判定，
// 以便返回固定的用户提示，而不是通用的参数错误
type SubmitTrainingRequest struct {
	CustomerName   string   `json:"customer_name"   form:"customer_name"`
	Email          string   `json:"email"           form:"email"`
	GoLiveDate     string   `json:"go_live_date"    form:"go_live_date"    binding:"required,datetime=2006-01-02"`
	Trainings      []string `json:"trainings"       form:"trainings"`
	NumUsers       int      `json:"num_users"       form:"num_users"`
	Package        string   `json:"package"         form:"package"         binding:"required"`
	CustomTraining string   `json:"custom_training" form:"custom_training" binding:"omitempty,oneof=Yes No"`
	PreferredDate  string   `json:"preferred_date"  form:"preferred_date"  binding:"required,datetime=2006-01-02"`
	CustomDetails  string   `json:"custom_details"  form:"custom_details"`
	Confirmed      bool     `json:"confirmed"       form:"confirmed"`
}

// SubmitTrainingResponse 提交成功响应
type SubmitTrainingResponse struct {
	SubmittedDate string        `json:"submitted_date"`
	Record        []interface{} `json:"record"`
	CalendarURL   string        `json:"calendar_url"`
}

// ── 表单辅助 DTO ──

// FormConstraintsRequest 日期约束查询参数
type FormConstraintsRequest struct {
	CustomTraining string `form:"custom_training" binding:"omitempty,oneof=Yes No"`
}

// FormConstraintsResponse 当前表单状态下允许的日期范围
type FormConstraintsResponse struct {
	Today            string `json:"today"`
	MinGoLiveDate    string `json:"min_go_live_date"`
	CustomTraining   string `json:"custom_training"`
	LeadDays         int    `json:"lead_days"`
	MinPreferredDate string `json:"min_preferred_date"`
}

// FormOptionsResponse 表单选项
type FormOptionsResponse struct {
	Topics         []string `json:"topics"`
	Packages       []string `json:"packages"`
	CustomTraining []string `json:"custom_training"`
	MinNumUsers    int      `json:"min_num_users"`
}

// CalendarRequest 生成培训日程占位（ICS）的查询参数
type CalendarRequest struct {
	CustomerName   string `form:"customer_name"   binding:"required"`
	PreferredDate  string `form:"preferred_date"  binding:"required,datetime=2006-01-02"`
	CustomTraining string `form:"custom_training" binding:"omitempty,oneof=Yes No"`
	Email          string `form:"email"`
}
