package model

import "fmt"

// TrainingRequestRow 培训申请表，对应 training_requests（只追加）
// 列顺序与 Record 的位置顺序一一对应
type TrainingRequestRow struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"        json:"id"`
	CustomerName   string `gorm:"type:text;not null"              json:"customer_name"`
	Email          string `gorm:"type:text;not null"              json:"email"`
	GoLiveDate     string `gorm:"type:varchar(10);not null"       json:"go_live_date"`
	Trainings      string `gorm:"type:text;not null"              json:"trainings"`
	NumUsers       int    `gorm:"not null"                        json:"num_users"`
	Package        string `gorm:"type:varchar(50);not null"       json:"package"`
	PreferredDate  string `gorm:"type:varchar(10);not null"       json:"preferred_date"`
	CustomTraining string `gorm:"type:varchar(3);not null"        json:"custom_training"`
	CustomDetails  string `gorm:"type:text;not null"              json:"custom_details"`
	Confirmed      string `gorm:"type:varchar(3);not null"        json:"confirmed"`
	SubmittedDate  string `gorm:"type:varchar(10);not null"       json:"submitted_date"`
	BaseModel
}

// TableName 指定表名
func (TrainingRequestRow) TableName() string { return "training_requests" }

// RowFromRecord 按列位置把记录还原为表行
func RowFromRecord(rec Record) (*TrainingRequestRow, error) {
	if len(rec) != RecordColumns {
		return nil, fmt.Errorf("记录列数应为 %d，实际为 %d", RecordColumns, len(rec))
	}

	str := func(i int) (string, error) {
		s, ok := rec[i].(string)
		if !ok {
			return "", fmt.Errorf("第 %d 列应为文本，实际为 %T", i+1, rec[i])
		}
		return s, nil
	}

	var (
		row  TrainingRequestRow
		err  error
		cols = []*string{
			0: &row.CustomerName,
			1: &row.Email,
			2: &row.GoLiveDate,
			3: &row.Trainings,
			5: &row.Package,
			6: &row.PreferredDate,
			7: &row.CustomTraining,
			8: &row.CustomDetails,
			9: &row.Confirmed,
			10: &row.SubmittedDate,
		}
	)
	for i, dst := range cols {
		if dst == nil {
			continue
		}
		if *dst, err = str(i); err != nil {
			return nil, err
		}
	}

	n, ok := rec[4].(int)
	if !ok {
		return nil, fmt.Errorf("第 5 列应为整数，实际为 %T", rec[4])
	}
	row.NumUsers = n

	return &row, nil
}
